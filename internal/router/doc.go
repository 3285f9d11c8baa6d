// Package router resolves an incoming HTTP method and URL path to a
// service method registered in a compiled callback table.
//
// Resolution applies three progressively looser strategies:
//
//   - exact pattern matching (regex with positional capture groups, or
//     exact suffix comparison for parameterless patterns),
//   - optional-parameter completion, appending declared defaults for
//     trailing omitted parameters and re-matching,
//   - default-method fallback, retrying a class's index method with the
//     method-name segment stripped from its pattern.
//
// Candidate tables are scanned in compiled insertion order and the first
// full match wins. A scan remembers whether any method-name segment was
// present in the URL; a present-but-unmatched method name suppresses the
// default-method fallback so overload misses report as misses instead of
// silently routing to the index handler.
//
// Routing is a pure, synchronous computation: one RequestRouter resolves
// one request against an immutable table snapshot, with no internal
// locking or I/O besides the table load through the cache collaborator.
//
// # Usage
//
//	r := router.NewRequestRouter("crm", "UserService", router.Deps{
//	    HTTP:    httpctx.FromRequest(req),
//	    Loader:  loader,
//	    Naming:  naming.Transformer{},
//	    Invoker: registry,
//	})
//
//	result, err := r.ProcessRequest(ctx)
package router
