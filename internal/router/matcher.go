package router

import (
	"regexp"
	"strings"
	"sync"

	"github.com/webiny-go/restroute/internal/table"
)

// Matcher decides whether a single compiled pattern matches a URL.
//
// A descriptor without parameters matches only by exact suffix comparison:
// the URL from the first occurrence of the pattern onward must equal the
// pattern itself. A descriptor with parameters treats the pattern as a
// regular-expression fragment anchored to end-of-string; capture groups
// become the positional parameter values.
type Matcher struct{}

// NewMatcher creates a new Matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match reports whether pattern matches url under the descriptor's mode and
// returns the captured parameter values in source order. An uncompilable
// pattern never matches.
func (m *Matcher) Match(pattern string, desc *table.Method, url string) (matched bool, params []string) {
	if len(desc.Params) == 0 {
		idx := strings.Index(url, pattern)
		if idx < 0 {
			return false, nil
		}
		return url[idx:] == pattern, nil
	}

	re, err := compilePattern(pattern)
	if err != nil {
		return false, nil
	}

	matches := re.FindStringSubmatch(url)
	if matches == nil {
		return false, nil
	}

	return true, matches[1:]
}

// regexCacheMaxSize is the maximum number of entries in the regex cache.
const regexCacheMaxSize = 1000

// regexCacheEntry holds a compiled regex and its access order for LRU
// eviction.
type regexCacheEntry struct {
	regex       *regexp.Regexp
	accessOrder int64
}

// regexCache is a bounded LRU cache for compiled patterns, shared by all
// matchers. Tables are small and stable, so the cache stays warm across
// requests.
var (
	regexCache         = make(map[string]*regexCacheEntry)
	regexCacheMu       sync.Mutex
	regexAccessCounter int64
)

// compilePattern compiles a pattern anchored to end-of-string, serving
// repeats from the cache.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	metrics := getRouterMetrics()
	anchored := pattern + "$"

	regexCacheMu.Lock()
	if entry, ok := regexCache[anchored]; ok {
		regexAccessCounter++
		entry.accessOrder = regexAccessCounter
		regexCacheMu.Unlock()

		metrics.regexCacheHits.Inc()
		return entry.regex, nil
	}
	regexCacheMu.Unlock()

	metrics.regexCacheMisses.Inc()

	// Compile outside the lock (expensive operation)
	re, err := regexp.Compile(anchored)
	if err != nil {
		return nil, err
	}

	regexCacheMu.Lock()
	// Double-check after reacquiring (another goroutine may have added it)
	if entry, ok := regexCache[anchored]; ok {
		regexAccessCounter++
		entry.accessOrder = regexAccessCounter
		regexCacheMu.Unlock()
		return entry.regex, nil
	}

	if len(regexCache) >= regexCacheMaxSize {
		evictLRURegexEntry()
		metrics.regexCacheEvictions.Inc()
	}

	regexAccessCounter++
	regexCache[anchored] = &regexCacheEntry{
		regex:       re,
		accessOrder: regexAccessCounter,
	}
	metrics.regexCacheSize.Set(float64(len(regexCache)))
	regexCacheMu.Unlock()

	return re, nil
}

// evictLRURegexEntry removes the least recently used entry from the cache.
// Must be called with regexCacheMu held.
func evictLRURegexEntry() {
	var lruKey string
	var lruOrder int64 = -1

	for key, entry := range regexCache {
		if lruOrder == -1 || entry.accessOrder < lruOrder {
			lruOrder = entry.accessOrder
			lruKey = key
		}
	}

	if lruKey != "" {
		delete(regexCache, lruKey)
	}
}
