// Package api declares the read-only HTTP surface of the tracker.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/racegate/internal/domain/model"
	"github.com/okian/racegate/pkg/metrics"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps
// the handler layer loosely coupled to the app service.
type Dependencies interface {
	// Feed returns the last published notification feed.
	Feed(ctx context.Context) ([]model.Notification, error)

	// Stats returns service statistics for monitoring.
	Stats() map[string]any
}

// Server wires HTTP routes for the tracker API.
type Server struct {
	deps Dependencies
}

// NewServer creates an API server backed by deps.
func NewServer(deps Dependencies) *Server {
	return &Server{deps: deps}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", instrumented(s.handleHealth, "healthz"))
	mux.HandleFunc("/feed", instrumented(s.handleFeed, "feed"))
	mux.HandleFunc("/stats", instrumented(s.handleStats, "stats"))
	mux.Handle("/metrics", metrics.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Code: "method_not_allowed", Message: "use GET"})
		return
	}

	feed, err := s.deps.Feed(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "feed_unavailable", Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Stats())
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// instrumented wraps a handler with request count and latency metrics.
func instrumented(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.RecordHTTPRequest(endpoint, strconv.Itoa(rec.status))
		metrics.ObserveHTTPDuration(endpoint, time.Since(start).Seconds())
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
