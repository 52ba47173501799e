package http

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	}).Write(w)
}

// handleReady checks the option backend and reports session counts.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["backend"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		} else {
			checks["backend"] = "ok"
		}
	}

	if _, err := s.options.List(ctx); err != nil {
		checks["options"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["options"] = "ok"
	}

	checks["drafts"] = map[string]interface{}{"active": s.drafts.Count()}
	checks["rate_limiter"] = map[string]interface{}{"active_clients": s.rateLimiter.ActiveClients()}

	NewJSONResponse().Status(httpStatus).Body(map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics provides counters in a Prometheus-like text format.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	tm := s.tracer.Metrics()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	metric := func(name, kind, help string, value interface{}) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", name, help, name, kind, name, value)
	}
	metric("http_requests_total", "counter", "Total number of HTTP requests", tm.TotalRequests)
	metric("http_requests_failed_total", "counter", "HTTP requests answered with a 5xx status", tm.FailedRequests)
	metric("drafts_active", "gauge", "Live draft sessions", s.drafts.Count())
	metric("rate_limited_requests_total", "counter", "Requests rejected by the rate limiter", s.rateLimiter.Limited())
	metric("rate_limiter_clients", "gauge", "Clients tracked by the rate limiter", s.rateLimiter.ActiveClients())
	metric("suspicious_requests_total", "counter", "Requests flagged as suspicious", s.detector.SuspiciousRequests())
	metric("uptime_seconds", "gauge", "Seconds since the server started", int64(time.Since(s.startedAt).Seconds()))
}
