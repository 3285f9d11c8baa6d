// Package httpctx provides the request accessor consumed by the routing
// core. The core never touches *http.Request directly; it reads the path,
// method, and headers through this interface so tests and forced routing
// can substitute a static accessor.
package httpctx

import "net/http"

// Accessor exposes the parts of an HTTP request the router needs.
type Accessor interface {
	// Path returns the request URL path.
	Path() string

	// Method returns the HTTP method as sent by the client.
	Method() string

	// Header returns the named header value, or def when the header is
	// absent or empty.
	Header(name, def string) string
}

// requestAccessor adapts *http.Request to Accessor.
type requestAccessor struct {
	req *http.Request
}

// FromRequest wraps an *http.Request as an Accessor.
func FromRequest(req *http.Request) Accessor {
	return &requestAccessor{req: req}
}

func (a *requestAccessor) Path() string {
	return a.req.URL.Path
}

func (a *requestAccessor) Method() string {
	return a.req.Method
}

func (a *requestAccessor) Header(name, def string) string {
	if v := a.req.Header.Get(name); v != "" {
		return v
	}
	return def
}

// Static is a fixed-value Accessor for tests and forced routing.
type Static struct {
	RequestPath   string
	RequestMethod string
	Headers       map[string]string
}

func (s Static) Path() string {
	return s.RequestPath
}

func (s Static) Method() string {
	return s.RequestMethod
}

func (s Static) Header(name, def string) string {
	if v, ok := s.Headers[name]; ok && v != "" {
		return v
	}
	return def
}
