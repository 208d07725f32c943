package dashboard

import (
	"net/http"
	"time"
)

// RegisterRoutes sets up the API routes on the given ServeMux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("POST /api/v1/audit", h.HandleAudit)
	mux.HandleFunc("GET /api/v1/runs", h.HandleRuns)
	mux.HandleFunc("GET /api/v1/runs/{id}", h.HandleRun)
	mux.HandleFunc("GET /api/v1/runs/{id}/report", h.HandleRunReport)
	mux.HandleFunc("DELETE /api/v1/runs/{id}", h.HandleDeleteRun)
	mux.HandleFunc("GET /api/v1/checks", h.HandleChecks)
	mux.HandleFunc("GET /api/v1/health", h.HandleHealth)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics.Handler())
	}
}

// LogRequests logs one line per request with its status and duration.
func LogRequests(h *Handler, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
