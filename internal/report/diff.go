package report

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/fortiaudit/fortiaudit/internal/compliance"
)

// Diff returns a unified diff of two reports' check outcomes and findings.
// An empty string means both audits reached the same conclusions.
func Diff(from, to *compliance.ComplianceReport, fromName, toName string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(outcomeLines(from)),
		B:        difflib.SplitLines(outcomeLines(to)),
		FromFile: fromName,
		ToFile:   toName,
		Context:  2,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func outcomeLines(report *compliance.ComplianceReport) string {
	var b strings.Builder
	for _, item := range report.Items() {
		fmt.Fprintf(&b, "[%s] %s\n", item.Status.Label(), item.Name)
		for _, f := range item.Findings {
			fmt.Fprintf(&b, "    %s\n", f)
		}
	}
	fmt.Fprintf(&b, "Percentual de Compliance: %s\n", RatioString(report.Summary))
	return b.String()
}
