package router

import (
	"context"
	"strings"
	"time"

	"github.com/webiny-go/restroute/internal/httpctx"
	"github.com/webiny-go/restroute/internal/invoke"
	"github.com/webiny-go/restroute/internal/observability"
	"github.com/webiny-go/restroute/internal/table"
	"github.com/webiny-go/restroute/internal/util"
)

// VersionHeader is the wire name of the API version override header. The
// exact name is preserved for compatibility.
const VersionHeader = "X-Webiny-Rest-Version"

// DefaultVersion selects the current compiled table version when the
// request carries no version header.
const DefaultVersion = "current"

// supportedMethods is the fixed set of HTTP methods the router accepts.
var supportedMethods = map[string]struct{}{
	"get":    {},
	"post":   {},
	"put":    {},
	"delete": {},
	"patch":  {},
}

// IsSupportedMethod reports whether the lower-case method is routable.
func IsSupportedMethod(method string) bool {
	_, ok := supportedMethods[method]
	return ok
}

// TableLoader is the compiled-table cache collaborator.
type TableLoader interface {
	// Filename returns the compiled table identifier for (api, class, version).
	Filename(api, class, version string) string

	// Content loads and validates the compiled table behind the identifier.
	Content(ctx context.Context, filename string) (*table.ClassTable, error)
}

// Deps bundles the collaborators a RequestRouter needs. All of them are
// injected; the router owns no I/O of its own.
type Deps struct {
	HTTP    httpctx.Accessor
	Loader  TableLoader
	Naming  NameTransformer
	Invoker invoke.Invoker
	Logger  observability.Logger
}

// RequestRouter orchestrates one request's routing decision: it resolves
// version, method, and URL, loads the compiled table, runs the method
// resolver and, when neither a match nor a method name was found, the
// default-method resolver, then hands the outcome to the invoker.
//
// A RequestRouter is request-scoped and not safe for concurrent use;
// concurrent requests each construct their own against the shared,
// immutable table.
type RequestRouter struct {
	api   string
	class string

	http    httpctx.Accessor
	loader  TableLoader
	naming  NameTransformer
	invoker invoke.Invoker
	logger  observability.Logger

	resolver        *Resolver
	defaultResolver *DefaultResolver

	forcedURL    string
	forcedMethod string
}

// NewRequestRouter creates a router for one (api, class) pair.
func NewRequestRouter(api, class string, deps Deps) *RequestRouter {
	logger := deps.Logger
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	matcher := NewMatcher()
	completer := NewCompleter(matcher, deps.Naming)

	return &RequestRouter{
		api:             api,
		class:           class,
		http:            deps.HTTP,
		loader:          deps.Loader,
		naming:          deps.Naming,
		invoker:         deps.Invoker,
		logger:          logger,
		resolver:        NewResolver(matcher, completer),
		defaultResolver: NewDefaultResolver(matcher, completer),
	}
}

// SetURL overrides the URL used for matching.
func (r *RequestRouter) SetURL(path string) {
	r.forcedURL = path
}

// GetURL returns the normalized URL matching will run against.
func (r *RequestRouter) GetURL() string {
	return r.resolveURL()
}

// SetMethod overrides the HTTP method. The value is lower-cased and must be
// in the supported set.
func (r *RequestRouter) SetMethod(method string) error {
	m := strings.ToLower(method)
	if !IsSupportedMethod(m) {
		return util.NewUnsupportedMethodError(m)
	}
	r.forcedMethod = m
	return nil
}

// GetMethod returns the effective lower-case HTTP method.
func (r *RequestRouter) GetMethod() string {
	if r.forcedMethod != "" {
		return r.forcedMethod
	}
	return strings.ToLower(r.http.Method())
}

// ProcessRequest routes the request and returns the invoker's result.
//
// A routing miss is not an error: the invoker receives an outcome with
// empty method data and decides how to represent it. Errors are reserved
// for unsupported methods and unusable cache content.
func (r *RequestRouter) ProcessRequest(ctx context.Context) (*invoke.Result, error) {
	start := time.Now()
	metrics := getRouterMetrics()

	version := r.http.Header(VersionHeader, DefaultVersion)

	method, err := r.resolveMethod()
	if err != nil {
		return nil, err
	}

	url := r.resolveURL()

	filename := r.loader.Filename(r.api, r.class, version)
	classTable, err := r.loader.Content(ctx, filename)
	if err != nil {
		return nil, err
	}

	classSegment := r.naming.ClassURL(r.class)
	callbacks := classTable.CallbacksFor(method)

	var result table.MatchResult
	strategy := strategyMiss

	// Class-level fast reject: without the class segment in the URL there
	// is nothing to scan.
	if strings.Contains(url, "/"+classSegment+"/") {
		result = r.resolver.Resolve(callbacks, url, classSegment)
		if result.Matched() {
			strategy = strategyMethod
			if result.Completed {
				strategy = strategyCompleted
			}
		} else if !result.MethodNameFound {
			result = r.defaultResolver.Resolve(callbacks, url, classSegment)
			if result.Matched() {
				strategy = strategyDefault
			}
		}
	}

	metrics.resolutionsTotal.WithLabelValues(strategy).Inc()
	metrics.resolutionDuration.Observe(time.Since(start).Seconds())

	r.logger.Debug("route resolved",
		observability.String("api", r.api),
		observability.String("class", r.class),
		observability.String("method", method),
		observability.String("url", url),
		observability.String("version", version),
		observability.String("strategy", strategy))

	outcome := table.RouteOutcome{
		ClassData:     classTable,
		MethodData:    result.Method,
		MatchedParams: result.Params,
		API:           r.api,
		CacheFile:     filename,
	}

	return r.invoker.Invoke(ctx, outcome)
}

// resolveMethod returns the effective method, validating it against the
// supported set.
func (r *RequestRouter) resolveMethod() (string, error) {
	method := r.GetMethod()
	if !IsSupportedMethod(method) {
		return "", util.NewUnsupportedMethodError(method)
	}
	return method, nil
}

// resolveURL returns the forced or request URL with the trailing slash
// normalized, so matching can assume a canonical ".../" suffix.
func (r *RequestRouter) resolveURL() string {
	url := r.forcedURL
	if url == "" {
		url = r.http.Path()
	}
	return strings.TrimRight(url, "/") + "/"
}
