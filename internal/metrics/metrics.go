// Package metrics exposes audit counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fortiaudit/fortiaudit/internal/compliance"
)

// Registry holds all audit metrics.
type Registry struct {
	reg *prometheus.Registry

	AuditsTotal     *prometheus.CounterVec
	AuditErrors     *prometheus.CounterVec
	CheckFailures   *prometheus.CounterVec
	ComplianceRatio *prometheus.GaugeVec
	BlocksParsed    *prometheus.GaugeVec
}

// New creates a registry with its own Prometheus collector set, so several
// registries can coexist in one process.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		AuditsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fortiaudit_audits_total",
			Help: "Number of configuration audits run",
		}, []string{"dialect"}),
		AuditErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fortiaudit_audit_errors_total",
			Help: "Number of audits that could not complete",
		}, []string{"dialect"}),
		CheckFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fortiaudit_check_failures_total",
			Help: "Number of failed checks by check ID",
		}, []string{"dialect", "check"}),
		ComplianceRatio: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fortiaudit_compliance_ratio",
			Help: "Compliance percentage of the most recent audit",
		}, []string{"dialect"}),
		BlocksParsed: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fortiaudit_blocks_parsed",
			Help: "Blocks committed per section kind in the most recent audit",
		}, []string{"dialect", "kind"}),
	}
}

// ObserveReport records a completed audit.
func (r *Registry) ObserveReport(report *compliance.ComplianceReport) {
	if r == nil || report == nil {
		return
	}
	r.AuditsTotal.WithLabelValues(report.Dialect).Inc()
	for _, item := range report.Items() {
		if item.Status == compliance.StatusFail {
			r.CheckFailures.WithLabelValues(report.Dialect, item.ID).Inc()
		}
	}
	if report.Summary.RatioValid {
		r.ComplianceRatio.WithLabelValues(report.Dialect).Set(report.Summary.Ratio)
	}
	for _, s := range report.Blocks {
		r.BlocksParsed.WithLabelValues(report.Dialect, string(s.Kind)).Set(float64(len(s.Blocks)))
	}
}

// ObserveError records an audit that failed before producing a report.
func (r *Registry) ObserveError(dialect string) {
	if r == nil {
		return
	}
	r.AuditErrors.WithLabelValues(dialect).Inc()
}

// Gatherer returns the underlying collector set.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
