package router

import (
	"strings"

	"github.com/webiny-go/restroute/internal/table"
)

// Resolver scans a callback table for the first descriptor fully matching
// a URL, trying exact matching then optional-parameter completion per
// candidate.
type Resolver struct {
	matcher   *Matcher
	completer *Completer
}

// NewResolver creates a Resolver.
func NewResolver(matcher *Matcher, completer *Completer) *Resolver {
	return &Resolver{matcher: matcher, completer: completer}
}

// Resolve scans callbacks in insertion order. The first full match wins.
//
// The returned MethodNameFound flag is true when any candidate's
// class/method segment pair appeared in the URL, even if that candidate
// ultimately failed to match. The flag is sticky across the whole scan so
// that overloads sharing a method name with different arities do not
// wrongly escalate to default-method fallback.
func (r *Resolver) Resolve(callbacks *table.CallbackTable, url, classSegment string) table.MatchResult {
	nameFound := false

	for _, e := range callbacks.Entries() {
		if !strings.Contains(url, classSegment+"/"+e.Method.URLPattern+"/") {
			continue
		}
		nameFound = true

		desc := e.Method
		if ok, params := r.matcher.Match(e.Pattern, &desc, url); ok {
			return table.MatchResult{Method: &desc, Params: params, MethodNameFound: true}
		}
		if ok, params := r.completer.TryComplete(e.Pattern, &desc, url); ok {
			return table.MatchResult{Method: &desc, Params: params, MethodNameFound: true, Completed: true}
		}
	}

	return table.MatchResult{MethodNameFound: nameFound}
}

// DefaultResolver retries a table's default (index) method against a URL
// that addresses the class directly, without naming a method.
type DefaultResolver struct {
	matcher   *Matcher
	completer *Completer
}

// NewDefaultResolver creates a DefaultResolver.
func NewDefaultResolver(matcher *Matcher, completer *Completer) *DefaultResolver {
	return &DefaultResolver{matcher: matcher, completer: completer}
}

// Resolve scans the default-flagged descriptors, rewriting each pattern so
// it expects the URL to go straight from the class segment to the
// parameters, and retries exact matching then completion. First success
// wins. The method-name-found flag is not tracked here: this is already
// the fallback tier.
func (r *DefaultResolver) Resolve(callbacks *table.CallbackTable, url, classSegment string) table.MatchResult {
	for _, e := range callbacks.Entries() {
		if !e.Method.Default {
			continue
		}

		pattern := e.Pattern
		if e.Method.URLPattern != "" {
			pattern = strings.Replace(pattern, e.Method.URLPattern+"/", "", 1)
		}
		if !strings.HasPrefix(pattern, classSegment+"/") {
			pattern = classSegment + "/" + pattern
		}

		desc := e.Method
		if ok, params := r.matcher.Match(pattern, &desc, url); ok {
			return table.MatchResult{Method: &desc, Params: params}
		}

		// Count trailing segments against the class segment instead of the
		// absent method segment.
		indexDesc := desc
		indexDesc.Method = classSegment
		if ok, params := r.completer.TryComplete(pattern, &indexDesc, url); ok {
			return table.MatchResult{Method: &desc, Params: params, Completed: true}
		}
	}

	return table.MatchResult{}
}
