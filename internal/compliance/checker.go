package compliance

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fortiaudit/fortiaudit/internal/rules"
	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

// ErrNoChecks is returned when an overall ratio is requested over zero checks.
var ErrNoChecks = errors.New("no checks to aggregate")

// StatusOf reduces a check's findings to a status: pass iff there are none.
func StatusOf(findings []string) Status {
	if len(findings) == 0 {
		return StatusPass
	}
	return StatusFail
}

// OverallRatio returns the percentage of passing checks. It refuses to divide
// by zero and returns ErrNoChecks for an empty map instead.
func OverallRatio(statuses map[string]Status) (float64, error) {
	if len(statuses) == 0 {
		return 0, ErrNoChecks
	}
	passed := 0
	for _, s := range statuses {
		if s == StatusPass {
			passed++
		}
	}
	return float64(passed) / float64(len(statuses)) * 100, nil
}

// RoundRatio rounds a percentage to one decimal place.
func RoundRatio(v float64) float64 {
	return math.Round(v*10) / 10
}

// Checker aggregates compliance state from multiple sections.
type Checker struct {
	dialect  string
	source   string
	sections []Section
	blocks   []fortiparse.Section
	now      func() time.Time
}

// NewChecker creates a new compliance checker.
func NewChecker() *Checker {
	return &Checker{now: time.Now}
}

// AddSection adds a compliance section to the checker.
func (c *Checker) AddSection(section Section) {
	c.sections = append(c.sections, section)
}

// GenerateReport produces a compliance report from all registered sections.
func (c *Checker) GenerateReport() *ComplianceReport {
	report := &ComplianceReport{
		Timestamp: c.now().UTC().Format(time.RFC3339),
		Dialect:   c.dialect,
		Source:    c.source,
		Sections:  c.sections,
		Blocks:    c.blocks,
	}
	if report.Sections == nil {
		report.Sections = []Section{}
	}

	statuses := make(map[string]Status)
	for _, section := range c.sections {
		for _, item := range section.Items {
			report.Summary.Total++
			switch item.Status {
			case StatusPass:
				report.Summary.Passed++
			case StatusFail:
				report.Summary.Failed++
			}
			statuses[item.ID] = item.Status
		}
	}

	if ratio, err := OverallRatio(statuses); err == nil {
		report.Summary.Ratio = RoundRatio(ratio)
		report.Summary.RatioValid = true
	}
	return report
}

// OverallStatus returns fail if any item failed, pass otherwise.
func (c *Checker) OverallStatus() Status {
	for _, section := range c.sections {
		for _, item := range section.Items {
			if item.Status == StatusFail {
				return StatusFail
			}
		}
	}
	return StatusPass
}

// FromResults builds a checker holding one section per inspected kind, in the
// document's kind order, with each rule result as a checklist item.
func FromResults(source string, doc *fortiparse.Document, reg *rules.Registry, results []rules.Result) *Checker {
	c := NewChecker()
	c.dialect = string(doc.Dialect())
	c.source = source
	c.blocks = doc.Sections()

	remediation := make(map[string]string, reg.Len())
	for _, rule := range reg.Rules() {
		remediation[rule.ID] = rule.Remediation
	}

	byKind := make(map[fortiparse.SectionKind][]ChecklistItem)
	for _, res := range results {
		byKind[res.Kind] = append(byKind[res.Kind], ChecklistItem{
			ID:          res.ID,
			Name:        res.Name,
			Kind:        string(res.Kind),
			Status:      StatusOf(res.Findings),
			Severity:    string(res.Severity),
			Findings:    res.Findings,
			Remediation: remediation[res.ID],
		})
	}

	for _, kind := range doc.Kinds() {
		items, ok := byKind[kind]
		if !ok {
			continue
		}
		c.AddSection(Section{
			ID:          string(kind),
			Name:        SectionTitle(kind),
			Description: sectionDescription(doc.Count(kind)),
			Items:       items,
		})
	}
	return c
}

// WithClock overrides the report timestamp source.
func (c *Checker) WithClock(now func() time.Time) *Checker {
	c.now = now
	return c
}

// acronyms keeps protocol names upper-case in section titles.
var acronyms = map[string]string{
	"vlan": "VLAN",
	"snmp": "SNMP",
	"ssid": "SSID",
	"bpdu": "BPDU",
	"mac":  "MAC",
}

// SectionTitle renders a section kind as a heading, e.g. mac_security becomes
// "MAC Security" and guest becomes "Guest".
func SectionTitle(kind fortiparse.SectionKind) string {
	caser := cases.Title(language.BrazilianPortuguese)
	words := strings.Split(string(kind), "_")
	for i, w := range words {
		if a, ok := acronyms[w]; ok {
			words[i] = a
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

func sectionDescription(blocks int) string {
	switch blocks {
	case 0:
		return "Nenhum bloco encontrado"
	case 1:
		return "1 bloco encontrado"
	default:
		return strconv.Itoa(blocks) + " blocos encontrados"
	}
}
