// Package compliance turns rule results into pass/fail statuses and an
// overall compliance report.
package compliance

import "github.com/fortiaudit/fortiaudit/pkg/fortiparse"

// Status represents the compliance status of a checklist item.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Label returns the status as printed in reports.
func (s Status) Label() string {
	if s == StatusPass {
		return "OK"
	}
	return "FALHOU"
}

// Section groups the checklist items that inspect one section kind.
type Section struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Items       []ChecklistItem `json:"items" yaml:"items"`
}

// ChecklistItem is the outcome of one check.
type ChecklistItem struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Kind        string   `json:"kind" yaml:"kind"`
	Status      Status   `json:"status" yaml:"status"`
	Severity    string   `json:"severity" yaml:"severity"`
	Findings    []string `json:"findings" yaml:"findings"`
	Remediation string   `json:"remediation,omitempty" yaml:"remediation,omitempty"`
}

// ComplianceReport is the top-level audit result handed to renderers.
type ComplianceReport struct {
	Timestamp string               `json:"timestamp" yaml:"timestamp"`
	Dialect   string               `json:"dialect" yaml:"dialect"`
	Source    string               `json:"source" yaml:"source"`
	Sections  []Section            `json:"sections" yaml:"sections"`
	Summary   Summary              `json:"summary" yaml:"summary"`
	Blocks    []fortiparse.Section `json:"blocks" yaml:"blocks"`
}

// Summary holds aggregate compliance counts. Ratio is only meaningful when
// RatioValid is set; a report without checks has no ratio.
type Summary struct {
	Total      int     `json:"total" yaml:"total"`
	Passed     int     `json:"passed" yaml:"passed"`
	Failed     int     `json:"failed" yaml:"failed"`
	Ratio      float64 `json:"ratio" yaml:"ratio"`
	RatioValid bool    `json:"ratio_valid" yaml:"ratio_valid"`
}

// Items returns every checklist item in report order.
func (r *ComplianceReport) Items() []ChecklistItem {
	var items []ChecklistItem
	for _, s := range r.Sections {
		items = append(items, s.Items...)
	}
	return items
}

// Statuses maps each check name to its status.
func (r *ComplianceReport) Statuses() map[string]Status {
	m := make(map[string]Status)
	for _, item := range r.Items() {
		m[item.Name] = item.Status
	}
	return m
}

// Details maps each check name to its findings.
func (r *ComplianceReport) Details() map[string][]string {
	m := make(map[string][]string)
	for _, item := range r.Items() {
		m[item.Name] = item.Findings
	}
	return m
}
