package table

// MatchResult is the outcome of scanning one callback table for a URL.
type MatchResult struct {
	// Method is the matched descriptor, nil when nothing matched.
	Method *Method

	// Params are the captured parameter values, in descriptor order.
	Params []string

	// MethodNameFound reports that some descriptor's URL segment appeared
	// in the URL even though full parameter matching may have failed. It
	// suppresses default-method fallback.
	MethodNameFound bool

	// Completed reports that the match needed trailing defaults appended
	// rather than matching the URL outright.
	Completed bool
}

// Matched reports whether a descriptor was fully matched.
func (r MatchResult) Matched() bool {
	return r.Method != nil
}

// RouteOutcome is the routing decision handed to the invocation
// collaborator. A nil MethodData represents a routing miss, which is a
// normal data outcome, not an error.
type RouteOutcome struct {
	// ClassData is the full compiled table, passed through unchanged.
	ClassData *ClassTable

	// MethodData is the matched descriptor, nil on a miss.
	MethodData *Method

	// MatchedParams are the extracted positional parameter values.
	MatchedParams []string

	// API and CacheFile identify the routed API and compiled table file for
	// the invocation collaborator.
	API       string
	CacheFile string
}

// Matched reports whether the outcome carries a matched method.
func (o RouteOutcome) Matched() bool {
	return o.MethodData != nil
}
