// Package http serves the draft sessions as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	applog "billpay/internal/log"
	"billpay/internal/middleware/ratelimit"
	"billpay/internal/middleware/security"
	"billpay/internal/middleware/trace"
	"billpay/internal/services"
)

// Dependencies are the collaborators of the HTTP server.
type Dependencies struct {
	Drafts             *services.DraftService
	Options            *services.OptionsService
	Ready              func(context.Context) error // nil means always ready
	Logger             *applog.Logger
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	drafts    *services.DraftService
	options   *services.OptionsService
	ready     func(context.Context) error
	logger    *applog.Logger
	startedAt time.Time

	rateLimiter *ratelimit.Limiter
	detector    *security.Detector
	tracer      *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.Default(applog.ComponentHTTP)
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	detector := security.NewDetector()
	s := &Server{
		drafts:    deps.Drafts,
		options:   deps.Options,
		ready:     deps.Ready,
		logger:    logger,
		startedAt: time.Now(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: deps.RateLimitPerMinute,
		}),
		detector: detector,
		tracer:   trace.NewMiddleware(logger, detector.ExtractClientIP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /drafts", s.handleCreateDraft)
	mux.HandleFunc("GET /drafts/{id}", s.handleGetDraft)
	mux.HandleFunc("DELETE /drafts/{id}", s.handleCloseDraft)
	mux.HandleFunc("POST /drafts/{id}/entries", s.handleAppendEntry)
	mux.HandleFunc("PATCH /drafts/{id}/entries/{index}", s.handleUpdateEntry)
	mux.HandleFunc("DELETE /drafts/{id}/entries/{index}", s.handleRemoveEntry)
	mux.HandleFunc("GET /options", s.handleListOptions)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	limit := s.rateLimiter.Middleware(detector.ExtractClientIP, s.onRateLimit,
		http.MethodPost, http.MethodPatch, http.MethodDelete)

	var handler http.Handler = mux
	handler = recovery(handler)
	handler = limit(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = detector.Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) onRateLimit(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r))
	ErrorResponse(http.StatusTooManyRequests, "rate_limited", "rate limit exceeded, please try again later").Write(w)
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
