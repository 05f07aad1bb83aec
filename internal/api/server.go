// Package api provides the HTTP API server and handlers for Flashly.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/flashlyapp/flashly-server/internal/ratelimit"
	"github.com/flashlyapp/flashly-server/internal/service"
	"github.com/flashlyapp/flashly-server/internal/store"
)

// Version is reported by /api/status and the OpenAPI document.
const Version = "1.0.0"

// DocumentCounter reports how many documents the search index holds.
type DocumentCounter interface {
	DocumentCount() (uint64, error)
}

// Options configures a Server. Services and Tokens are required.
type Options struct {
	Services *service.Services
	Store    *store.Store
	Tokens   TokenCodec
	Search   DocumentCounter
	Metrics  *Metrics
	// AuthLimiter throttles login and register per client IP. Nil disables it.
	AuthLimiter    *ratelimit.KeyedRateLimiter
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services        *service.Services
	store           *store.Store
	tokens          TokenCodec
	search          DocumentCounter
	metrics         *Metrics
	authRateLimiter *ratelimit.KeyedRateLimiter
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	startedAt       time.Time
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tokens := opts.Tokens
	if tokens == nil {
		tokens = PlainTokens{}
	}

	s := &Server{
		services:        opts.Services,
		store:           opts.Store,
		tokens:          tokens,
		search:          opts.Search,
		metrics:         opts.Metrics,
		authRateLimiter: opts.AuthLimiter,
		router:          chi.NewRouter(),
		logger:          logger,
		startedAt:       time.Now(),
	}

	s.setupMiddleware(opts.AllowedOrigins)

	humaConfig := huma.DefaultConfig("Flashly API", Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:   "http",
			Scheme: "bearer",
		},
	}
	// Keep response bodies exactly as the client expects them, without $schema links.
	humaConfig.CreateHooks = nil

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler(logger)

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerDeckRoutes()
	s.registerCardRoutes()
	s.registerUserRoutes()
	s.registerCategoryRoutes()

	if s.metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI generation and tests.
func (s *Server) API() huma.API {
	return s.api
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware(allowedOrigins []string) {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	if s.metrics != nil {
		s.router.Use(s.metrics.Middleware)
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
}

// NewHTTPServer wraps handler in an http.Server with the given timeouts.
func NewHTTPServer(addr string, handler http.Handler, readTimeout, writeTimeout, idleTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
