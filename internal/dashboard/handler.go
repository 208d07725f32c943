// Package dashboard provides the HTTP API for submitting configurations and
// browsing stored audit runs.
package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/fortiaudit/fortiaudit/internal/audit"
	"github.com/fortiaudit/fortiaudit/internal/compliance"
	"github.com/fortiaudit/fortiaudit/internal/history"
	"github.com/fortiaudit/fortiaudit/internal/metrics"
	"github.com/fortiaudit/fortiaudit/internal/report"
	"github.com/fortiaudit/fortiaudit/internal/rules"
	"github.com/fortiaudit/fortiaudit/pkg/buildinfo"
	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

// DefaultMaxUploadBytes caps submitted configurations when no limit is set.
const DefaultMaxUploadBytes = 4 << 20

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	auditor        *audit.Auditor
	store          history.Store
	metrics        *metrics.Registry
	logger         *log.Logger
	maxUploadBytes int64
	defaultDialect fortiparse.Dialect
}

// HandlerConfig holds configuration for the handler.
type HandlerConfig struct {
	Auditor        *audit.Auditor
	Store          history.Store     // optional; runs are not persisted without it
	Metrics        *metrics.Registry // optional; serves /metrics when set
	Logger         *log.Logger
	MaxUploadBytes int64
	DefaultDialect fortiparse.Dialect // used when ?dialect= is absent
}

// NewHandler creates a new dashboard handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Auditor == nil {
		cfg.Auditor = audit.New(audit.Options{Logger: cfg.Logger, Metrics: cfg.Metrics})
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if cfg.DefaultDialect == "" {
		cfg.DefaultDialect = fortiparse.DialectSwitch
	}
	return &Handler{
		auditor:        cfg.Auditor,
		store:          cfg.Store,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger,
		maxUploadBytes: cfg.MaxUploadBytes,
		defaultDialect: cfg.DefaultDialect,
	}
}

// AuditResponse is returned by HandleAudit.
type AuditResponse struct {
	RunID  string                       `json:"run_id,omitempty"`
	Report *compliance.ComplianceReport `json:"report"`
}

// CheckInfo describes one catalog entry.
type CheckInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	Severity    string `json:"severity"`
	Remediation string `json:"remediation"`
}

// HandleAudit audits the configuration text in the request body.
func (h *Handler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	d, err := h.dialect(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	source := r.URL.Query().Get("source")
	if source == "" {
		source = "upload"
	}

	body := http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	res, err := h.auditor.Run(r.Context(), d, source, body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("configuration exceeds %d bytes", tooLarge.Limit))
			return
		}
		h.logger.Printf("audit %s: %v", source, err)
		writeError(w, http.StatusInternalServerError, "audit failed")
		return
	}

	resp := AuditResponse{Report: res.Report}
	if h.store != nil {
		run, err := h.store.SaveRun(r.Context(), res.Report)
		if err != nil {
			h.logger.Printf("save run for %s: %v", source, err)
			writeError(w, http.StatusInternalServerError, "failed to store run")
			return
		}
		resp.RunID = run.ID
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleRuns lists stored runs, newest first, without their reports.
func (h *Handler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}

	q := r.URL.Query()
	filter := history.RunFilter{Dialect: q.Get("dialect"), Source: q.Get("source")}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}

	runs, err := h.store.ListRuns(r.Context(), filter)
	if err != nil {
		h.logger.Printf("list runs: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	for i := range runs {
		runs[i].Report = nil
	}
	writeJSON(w, http.StatusOK, runs)
}

// HandleRun returns one stored run with its report.
func (h *Handler) HandleRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// HandleRunReport renders a stored run's report in the format named by
// ?format= (html by default).
func (h *Handler) HandleRunReport(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(report.FormatHTML)
	}
	f, err := report.ParseFormat(name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	run, ok := h.lookupRun(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.Write(&buf, f, run.Report); err != nil {
		h.logger.Printf("render run %s as %s: %v", run.ID, f, err)
		writeError(w, http.StatusInternalServerError, "failed to render report")
		return
	}
	w.Header().Set("Content-Type", contentType(f))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// HandleDeleteRun removes a stored run.
func (h *Handler) HandleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	id := r.PathValue("id")
	if err := h.store.DeleteRun(r.Context(), id); err != nil {
		if errors.Is(err, history.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return
		}
		h.logger.Printf("delete run %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete run")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleChecks returns the check catalog for a dialect.
func (h *Handler) HandleChecks(w http.ResponseWriter, r *http.Request) {
	d, err := h.dialect(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	reg, err := rules.RegistryFor(d)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	checks := make([]CheckInfo, 0, reg.Len())
	for _, rule := range reg.Rules() {
		checks = append(checks, CheckInfo{
			ID:          rule.ID,
			Name:        rule.Name,
			Kind:        string(rule.Kind),
			Severity:    string(rule.Severity),
			Remediation: rule.Remediation,
		})
	}
	writeJSON(w, http.StatusOK, checks)
}

// HandleHealth returns a simple health check response.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": info.Version,
		"build":   info,
		"history": h.store != nil,
	})
}

func (h *Handler) dialect(r *http.Request) (fortiparse.Dialect, error) {
	v := r.URL.Query().Get("dialect")
	if v == "" {
		return h.defaultDialect, nil
	}
	return fortiparse.ParseDialect(v)
}

func (h *Handler) requireStore(w http.ResponseWriter) bool {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "history is disabled")
		return false
	}
	return true
}

func (h *Handler) lookupRun(w http.ResponseWriter, r *http.Request) (*history.Run, bool) {
	if !h.requireStore(w) {
		return nil, false
	}
	id := r.PathValue("id")
	run, err := h.store.GetRun(r.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			writeError(w, http.StatusNotFound, "run not found")
			return nil, false
		}
		h.logger.Printf("get run %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load run")
		return nil, false
	}
	return run, true
}

func contentType(f report.Format) string {
	switch f {
	case report.FormatHTML:
		return "text/html; charset=utf-8"
	case report.FormatJSON:
		return "application/json"
	case report.FormatYAML:
		return "application/yaml"
	case report.FormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
