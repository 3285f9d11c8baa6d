// Package cache provides the compiled-table cache: a byte-level Cache
// interface with memory and Redis backends, a Loader that memoizes
// parsed routing tables through it, and an fsnotify watcher that
// invalidates memoized entries when the table compiler rewrites a file.
package cache
