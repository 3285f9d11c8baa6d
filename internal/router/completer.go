package router

import (
	"strings"

	"github.com/webiny-go/restroute/internal/table"
)

// NameTransformer converts class and method names to their URL segment
// form. It is the naming-convention collaborator; the core never hardcodes
// the transform.
type NameTransformer interface {
	ClassURL(name string) string
	MethodURL(name string) string
}

// Completer attempts to synthesize a match for a URL that omits trailing
// optional parameters by appending their declared defaults and re-invoking
// the matcher.
//
// Defaults only fill a contiguous trailing gap: a request that skips a
// required parameter, or supplies more segments than the descriptor
// declares, is unrecoverable and fails.
type Completer struct {
	matcher *Matcher
	naming  NameTransformer
}

// NewCompleter creates a Completer delegating to the given matcher.
func NewCompleter(matcher *Matcher, naming NameTransformer) *Completer {
	return &Completer{matcher: matcher, naming: naming}
}

// TryComplete appends defaults for the trailing omitted parameters of desc
// and re-matches pattern against the augmented URL.
//
// The number of parameters already present is derived from the URL itself:
// the URL is split on "/", the segment carrying the method's URL-form name
// is located, and the segments after it are counted. The count subtracts 2
// for the method segment itself and the empty segment produced by the
// normalized trailing slash. This arithmetic is a compatibility contract;
// do not re-derive it.
func (c *Completer) TryComplete(pattern string, desc *table.Method, url string) (matched bool, params []string) {
	if !desc.HasDefaults() {
		return false, nil
	}

	segments := strings.Split(url, "/")
	name := c.naming.MethodURL(desc.Method)

	idx := -1
	for i, s := range segments {
		if s == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}

	numIncluded := len(segments) - idx - 2

	completed := url
	appended := 0
	for i, p := range desc.Params {
		if i >= numIncluded && p.Default != nil {
			completed += *p.Default + "/"
			appended++
		}
	}

	if numIncluded+appended != len(desc.Params) {
		return false, nil
	}

	return c.matcher.Match(pattern, desc, completed)
}
