// Package httpapi exposes the analysis engine over HTTP. One POST route
// per analysis domain accepts a JSON submission and returns a report
// envelope; malformed JSON is the only client error, since analysis
// itself cannot fail.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/raftai/engine/internal/application"
	"github.com/raftai/engine/internal/domain"
)

// Server routes analysis requests to the application service.
type Server struct {
	service *application.Service
	logger  *slog.Logger
}

// NewServer creates the HTTP layer over an analysis service.
func NewServer(service *application.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{service: service, logger: logger}
}

// Router builds the HTTP handler with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1/analyze", func(r chi.Router) {
		r.Post("/kyc", handleAnalyze(s, s.service.EvaluateKYC))
		r.Post("/kyb", handleAnalyze(s, s.service.EvaluateKYB))
		r.Post("/pitch", handleAnalyze(s, s.service.EvaluatePitch))
		r.Post("/chat", handleAnalyze(s, s.service.SummarizeChat))
		r.Post("/financial", handleAnalyze(s, s.service.EvaluateFinancial))

		r.Post("/kyc/batch", handleBatch(s, s.service.EvaluateKYCBatch))
		r.Post("/kyb/batch", handleBatch(s, s.service.EvaluateKYBBatch))
		r.Post("/pitch/batch", handleBatch(s, s.service.EvaluatePitchBatch))
		r.Post("/financial/batch", handleBatch(s, s.service.EvaluateFinancialBatch))
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze decodes one submission, runs the evaluator, and writes
// the report. Analysis never errors; only decoding can.
func handleAnalyze[T any](s *Server, evaluate func(context.Context, T) domain.Report) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in T
		if err := decodeJSON(r, &in); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		report := evaluate(r.Context(), in)
		s.writeJSON(w, http.StatusOK, report)
	}
}

// handleBatch decodes a JSON array of submissions and returns the reports
// in input order.
func handleBatch[T any](s *Server, evaluate func(context.Context, []T) []domain.Report) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var inputs []T
		if err := decodeJSON(r, &inputs); err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		reports := evaluate(r.Context(), inputs)
		s.writeJSON(w, http.StatusOK, reports)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// logRequests emits one structured log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
