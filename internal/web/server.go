// Package web provides the HTTP API for interactive data cleaning.
//
// Each client works on a session created from uploaded rows or a file. Every
// cleaning operation is a POST under /api/sessions/{sessionID}/ and returns
// the operation's result object, or an ErrorResponse on failure.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/cleaner/internal/config"
	"github.com/JonMunkholm/cleaner/internal/export"
	"github.com/JonMunkholm/cleaner/internal/ingest"
	"github.com/JonMunkholm/cleaner/internal/logging"
	"github.com/JonMunkholm/cleaner/internal/metrics"
	"github.com/JonMunkholm/cleaner/internal/session"
	mw "github.com/JonMunkholm/cleaner/internal/web/middleware"
)

// Deps are the collaborators a Server routes requests to. Exporter and
// Metrics may be nil.
type Deps struct {
	Store    *session.Store
	Limiter  *ingest.Limiter
	Exporter *export.Exporter
	Metrics  *metrics.Metrics
}

// Server is the HTTP server for the cleaning API.
type Server struct {
	cfg      *config.Config
	store    *session.Store
	limiter  *ingest.Limiter
	exporter *export.Exporter
	metrics  *metrics.Metrics
	validate *validator.Validate
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, deps Deps) *Server {
	limiter := deps.Limiter
	if limiter == nil {
		limiter = ingest.NewLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)
	}

	s := &Server{
		cfg:      cfg,
		store:    deps.Store,
		limiter:  limiter,
		exporter: deps.Exporter,
		metrics:  deps.Metrics,
		validate: newValidator(),
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.router.Use(mw.NewRateLimiter(s.cfg.Rate.RequestsPerMinute, s.cfg.Rate.Burst).Middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	if s.metrics != nil && s.cfg.Metrics.Enabled {
		s.router.Handle(s.cfg.Metrics.Path, s.metrics.Handler())
	}

	s.router.Route("/api/sessions", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(&s.cfg.Security))

		r.Post("/", s.handleCreateSession)
		r.Post("/upload", s.handleUploadSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/data", s.handleData)
			r.Get("/profile", s.handleProfile)
			r.Get("/preview", s.handlePreview)

			// Cleaning operations
			r.Post("/remove_duplicates", s.handleRemoveDuplicates)
			r.Post("/handle_missing_values", s.handleMissingValues)
			r.Post("/convert_types", s.handleConvertTypes)
			r.Post("/clean_text", s.handleCleanText)
			r.Post("/normalize_data", s.handleNormalize)
			r.Post("/standardize_data", s.handleStandardize)
			r.Post("/detect_outliers", s.handleDetectOutliers)
			r.Post("/handle_outliers", s.handleHandleOutliers)
			r.Post("/add_derived_column", s.handleAddDerivedColumn)
			r.Post("/handle_inconsistent_data", s.handleInconsistentData)
			r.Post("/reset_changes", s.handleReset)

			r.Post("/export", s.handleExport)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	logging.FromContext(context.Background()).Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and waits for in-flight uploads.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	return s.limiter.WaitForDrain(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders adds security headers to all responses.
func securityHeaders(csp bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if csp {
				h.Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			}
			next.ServeHTTP(w, r)
		})
	}
}
