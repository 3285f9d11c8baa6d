// Package invoke executes routing outcomes. The routing core hands over a
// table.RouteOutcome and treats invocation as an opaque terminal step; this
// package maps matched descriptors to registered handler functions and
// turns misses into not-found results.
package invoke

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/webiny-go/restroute/internal/observability"
	"github.com/webiny-go/restroute/internal/table"
	"github.com/webiny-go/restroute/internal/util"
)

// HandlerFunc executes a matched service method with its positional
// parameter values, in descriptor order.
type HandlerFunc func(ctx context.Context, params []string) (interface{}, error)

// Result is the terminal outcome of a routed request.
type Result struct {
	// Status is the HTTP status code to render.
	Status int

	// Body is the handler's return value, nil on a miss.
	Body interface{}

	// API, Class, and Method identify the invoked handler. Empty on a miss.
	API    string
	Class  string
	Method string

	// Params are the positional values the handler was invoked with.
	Params []string
}

// Matched reports whether the result came from an invoked handler.
func (r *Result) Matched() bool {
	return r != nil && r.Method != ""
}

// Invoker consumes a routing outcome and produces the final result.
type Invoker interface {
	Invoke(ctx context.Context, outcome table.RouteOutcome) (*Result, error)
}

// Registry is an Invoker backed by an in-memory handler map keyed by
// (api, class, method). Registration happens at startup; lookups are
// read-only afterwards, but the map is guarded for safety.
type Registry struct {
	logger observability.Logger

	mu       sync.RWMutex
	handlers map[string]HandlerFunc
	fallback HandlerFunc
}

// NewRegistry creates an empty handler registry.
func NewRegistry(logger observability.Logger) *Registry {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &Registry{
		logger:   logger,
		handlers: make(map[string]HandlerFunc),
	}
}

// Register binds a handler function to (api, class, method). Registering
// the same triple twice replaces the previous handler.
func (r *Registry) Register(api, class, method string, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[handlerKey(api, class, method)] = fn
}

// SetFallback installs a handler invoked for matched methods that have no
// registered handler. Without a fallback such matches produce a 404.
func (r *Registry) SetFallback(fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = fn
}

// EchoHandler returns a handler that reflects the matched parameter values
// back to the caller. It backs deployments that serve routing tables without
// service implementations, so every resolvable route answers.
func EchoHandler() HandlerFunc {
	return func(_ context.Context, params []string) (interface{}, error) {
		return map[string]interface{}{"params": params}, nil
	}
}

// Invoke executes the outcome. A routing miss produces a 404 result value,
// not an error: misses are an expected, common case.
func (r *Registry) Invoke(ctx context.Context, outcome table.RouteOutcome) (*Result, error) {
	if !outcome.Matched() {
		return &Result{Status: http.StatusNotFound, API: outcome.API}, nil
	}

	class := ""
	if outcome.ClassData != nil {
		class = outcome.ClassData.Class
	}

	key := handlerKey(outcome.API, class, outcome.MethodData.Method)

	r.mu.RLock()
	fn, ok := r.handlers[key]
	if !ok && r.fallback != nil {
		fn, ok = r.fallback, true
	}
	r.mu.RUnlock()

	if !ok {
		r.logger.Warn("matched method has no registered handler",
			observability.String("requestID", util.RequestIDFromContext(ctx)),
			observability.String("api", outcome.API),
			observability.String("class", class),
			observability.String("method", outcome.MethodData.Method))
		return &Result{Status: http.StatusNotFound, API: outcome.API}, nil
	}

	body, err := fn(ctx, outcome.MatchedParams)
	if err != nil {
		return nil, fmt.Errorf("handler %s: %w", key, err)
	}

	return &Result{
		Status: http.StatusOK,
		Body:   body,
		API:    outcome.API,
		Class:  class,
		Method: outcome.MethodData.Method,
		Params: outcome.MatchedParams,
	}, nil
}

// handlerKey builds the lookup key for a handler triple.
func handlerKey(api, class, method string) string {
	return api + "/" + class + "/" + method
}
