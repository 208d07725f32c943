package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fortiaudit/fortiaudit/internal/compliance"
)

type textStyles struct {
	title  lipgloss.Style
	pass   lipgloss.Style
	fail   lipgloss.Style
	dim    lipgloss.Style
	header lipgloss.Style
}

// newTextStyles binds styles to w's renderer, so output to files and pipes
// carries no escape sequences.
func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#4A9EFF")),
		pass:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#22C55E")),
		fail:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		header: r.NewStyle().Bold(true).Underline(true),
	}
}

// WriteText renders a terminal summary: one line per check followed by its
// findings.
func WriteText(w io.Writer, report *compliance.ComplianceReport) error {
	st := newTextStyles(w)
	var b strings.Builder

	b.WriteString(st.title.Render(fmt.Sprintf("Relatório de Compliance Fortinet %s", dialectTitle(report.Dialect))))
	b.WriteString("\n")
	b.WriteString(st.dim.Render(fmt.Sprintf("Fonte: %s | Data de análise: %s", report.Source, report.Timestamp)))
	b.WriteString("\n\n")

	for _, section := range report.Sections {
		b.WriteString(st.header.Render(section.Name))
		b.WriteString(st.dim.Render(" (" + section.Description + ")"))
		b.WriteString("\n")
		for _, item := range section.Items {
			label := st.pass.Render(item.Status.Label())
			if item.Status == compliance.StatusFail {
				label = st.fail.Render(item.Status.Label())
			}
			fmt.Fprintf(&b, "  %-32s %s\n", item.Name, label)
			for _, f := range item.Findings {
				fmt.Fprintf(&b, "    - %s\n", f)
			}
		}
	}

	s := report.Summary
	fmt.Fprintf(&b, "\n%d/%d validações OK, %d falharam. Percentual de Compliance: %s\n",
		s.Passed, s.Total, s.Failed, RatioString(s))

	_, err := io.WriteString(w, b.String())
	return err
}
