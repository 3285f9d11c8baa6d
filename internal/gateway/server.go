// Package gateway exposes the request router over HTTP: a gin server
// routing every request through the configured APIs' class tables, plus
// health and metrics endpoints.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/webiny-go/restroute/internal/config"
	"github.com/webiny-go/restroute/internal/gateway/middleware"
	"github.com/webiny-go/restroute/internal/httpctx"
	"github.com/webiny-go/restroute/internal/invoke"
	"github.com/webiny-go/restroute/internal/naming"
	"github.com/webiny-go/restroute/internal/observability"
	"github.com/webiny-go/restroute/internal/router"
	"github.com/webiny-go/restroute/internal/util"
)

// ginModeOnce ensures gin.SetMode is only called once.
var ginModeOnce sync.Once

// Deps bundles the collaborators the server routes through.
type Deps struct {
	Loader  router.TableLoader
	Invoker invoke.Invoker
	Logger  observability.Logger
	Metrics *observability.Metrics
}

// Server is the HTTP surface of the router service.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	cfg        *config.Config
	logger     observability.Logger
	metrics    *observability.Metrics
	loader     router.TableLoader
	invoker    invoke.Invoker
	naming     naming.Transformer
	limiter    *middleware.RateLimiter

	mu      sync.RWMutex
	running bool
}

// NewServer creates the HTTP server with its middleware chain and routes.
func NewServer(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	ginModeOnce.Do(func() {
		gin.SetMode(gin.ReleaseMode)
	})

	engine := gin.New()

	s := &Server{
		engine:  engine,
		cfg:     cfg,
		logger:  logger,
		metrics: deps.Metrics,
		loader:  deps.Loader,
		invoker: deps.Invoker,
	}

	engine.Use(middleware.Recovery(logger))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logging(logger))

	if s.metrics != nil {
		engine.Use(func(c *gin.Context) {
			s.metrics.IncrementActiveRequests(c.Request.Method)
			defer s.metrics.DecrementActiveRequests(c.Request.Method)
			c.Next()
		})
	}

	if cfg.Tracing.Enabled {
		engine.Use(middleware.Tracing())
	}

	if cfg.RateLimit.Enabled {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		engine.Use(middleware.RateLimit(s.limiter, logger, s.onRateLimited))
	}

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/readyz", s.handleReady)

	if cfg.Metrics.Enabled && s.metrics != nil {
		engine.GET(cfg.Metrics.Path, gin.WrapH(s.metrics.Handler()))
	}

	engine.NoRoute(s.handleRequest)

	return s
}

// Engine returns the underlying gin engine, for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start runs the listener until the server is stopped. It blocks.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}

	s.httpServer = &http.Server{
		Addr:         s.cfg.Listener.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.Listener.ReadTimeout.Duration(),
		WriteTimeout: s.cfg.Listener.WriteTimeout.Duration(),
		IdleTimeout:  s.cfg.Listener.IdleTimeout.Duration(),
	}

	s.running = true
	s.mu.Unlock()

	s.logger.Info("starting HTTP server",
		observability.String("addr", s.cfg.Listener.Addr))

	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.logger.Info("stopping HTTP server")

	if s.limiter != nil {
		s.limiter.Stop()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	return nil
}

// IsRunning reports whether the listener is up.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReady(c *gin.Context) {
	if !s.IsRunning() && s.httpServer != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "stopping"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) onRateLimited() {
	if s.metrics != nil {
		s.metrics.RecordRateLimitHit("gateway")
	}
}

// handleRequest routes a request through every class of the addressed API
// until one produces a match. The first path segment selects the API.
func (s *Server) handleRequest(c *gin.Context) {
	start := time.Now()
	method := c.Request.Method
	path := c.Request.URL.Path

	apiName := firstSegment(path)
	apiCfg := s.cfg.API(apiName)
	if apiCfg == nil {
		s.respondNotFound(c, start)
		return
	}

	accessor := versionedAccessor{
		Accessor:       httpctx.FromRequest(c.Request),
		defaultVersion: apiCfg.DefaultVersion,
	}

	ctx := util.ContextWithRequestID(c.Request.Context(), middleware.GetRequestID(c))
	ctx = util.ContextWithAPI(ctx, apiName)
	ctx = util.ContextWithStartTime(ctx, start)

	var lastErr error

	for _, class := range apiCfg.Classes {
		rr := router.NewRequestRouter(apiName, class, router.Deps{
			HTTP:    accessor,
			Loader:  s.loader,
			Naming:  s.naming,
			Invoker: s.invoker,
			Logger:  s.logger,
		})

		result, err := rr.ProcessRequest(util.ContextWithClass(ctx, class))
		if err != nil {
			if errors.Is(err, util.ErrUnsupportedMethod) {
				c.JSON(http.StatusMethodNotAllowed, gin.H{
					"error":   "Method Not Allowed",
					"message": err.Error(),
				})
				s.recordRequest(method, "", http.StatusMethodNotAllowed, start)
				return
			}

			// A broken table for one class must not shadow the others.
			s.logger.Error("class routing failed",
				observability.String("api", apiName),
				observability.String("class", class),
				observability.Error(err))
			lastErr = err
			continue
		}

		if result.Matched() {
			c.JSON(result.Status, gin.H{
				"data": result.Body,
				"meta": gin.H{
					"api":    result.API,
					"class":  result.Class,
					"method": result.Method,
					"params": result.Params,
				},
			})
			s.recordRequest(method, result.Class, result.Status, start)
			return
		}
	}

	if lastErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal Server Error",
			"message": "routing tables unavailable",
		})
		s.recordRequest(method, "", http.StatusInternalServerError, start)
		return
	}

	s.respondNotFound(c, start)
}

func (s *Server) respondNotFound(c *gin.Context, start time.Time) {
	err := util.NewRouteNotFoundError(c.Request.Method, c.Request.URL.Path)
	c.JSON(http.StatusNotFound, gin.H{
		"error":   "Not Found",
		"message": err.Error(),
	})
	s.recordRequest(c.Request.Method, "", http.StatusNotFound, start)
}

func (s *Server) recordRequest(method, class string, status int, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordRequest(method, class, status, time.Since(start))
	}
}

// firstSegment returns the first path segment, the API name.
func firstSegment(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if idx := strings.Index(trimmed, "/"); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}

// versionedAccessor overlays an API's configured default version onto the
// version header lookup.
type versionedAccessor struct {
	httpctx.Accessor
	defaultVersion string
}

func (a versionedAccessor) Header(name, def string) string {
	if name == router.VersionHeader && a.defaultVersion != "" {
		def = a.defaultVersion
	}
	return a.Accessor.Header(name, def)
}
