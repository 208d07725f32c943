package viewer

import (
	"fmt"
	"strings"

	"github.com/fortiaudit/fortiaudit/internal/compliance"
	"github.com/fortiaudit/fortiaudit/internal/report"
	"github.com/fortiaudit/fortiaudit/pkg/fortiparse"
)

// statusIcon returns a colored icon for a check status.
func statusIcon(s compliance.Status) string {
	if s == compliance.StatusPass {
		return passStyle.Render("●")
	}
	return failStyle.Render("✖")
}

// statusLabel returns the colored OK/FALHOU label.
func statusLabel(s compliance.Status) string {
	if s == compliance.StatusPass {
		return passStyle.Render(s.Label())
	}
	return failStyle.Render(s.Label())
}

// renderSection renders a section header followed by its checks.
func renderSection(section compliance.Section) string {
	var b strings.Builder

	passCount := 0
	for _, item := range section.Items {
		if item.Status == compliance.StatusPass {
			passCount++
		}
	}

	name := sectionNameStyle.Render(section.Name)
	count := sectionCountStyle.Render(fmt.Sprintf("%d/%d OK · %s", passCount, len(section.Items), section.Description))
	b.WriteString(fmt.Sprintf(" %s  %s\n", name, count))

	for _, item := range section.Items {
		b.WriteString(renderItem(item))
		b.WriteString("\n")
	}

	return b.String()
}

// renderItem renders one check line and, for failures, its findings.
func renderItem(item compliance.ChecklistItem) string {
	icon := statusIcon(item.Status)
	label := statusLabel(item.Status)
	name := item.Name

	// Dim passing checks, highlight failures
	if item.Status == compliance.StatusPass {
		name = dimStyle.Render(name)
	} else {
		name = failStyle.Render(name)
	}

	line := fmt.Sprintf("   %s %-44s %s", icon, name, label)
	for _, f := range item.Findings {
		line += "\n" + dimStyle.Render("       - "+f)
	}
	return line
}

// renderSummaryBar renders the counts, the compliance ratio and a progress bar.
func renderSummaryBar(summary compliance.Summary, width int) string {
	total := summary.Total
	if total == 0 {
		return dimStyle.Render("Nenhuma validação executada")
	}

	parts := []string{passStyle.Render(fmt.Sprintf("%d OK", summary.Passed))}
	if summary.Failed > 0 {
		parts = append(parts, failStyle.Render(fmt.Sprintf("%d FALHOU", summary.Failed)))
	}
	counts := fmt.Sprintf("  %d/%d  %s", summary.Passed, total, strings.Join(parts, "   "))

	barWidth := 20
	if width > 80 {
		barWidth = 30
	}
	filled := (summary.Passed * barWidth) / total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	var pStyle func(...string) string
	switch {
	case summary.Failed == 0:
		pStyle = passStyle.Render
	case summary.Ratio >= 70:
		pStyle = warnStyle.Render
	default:
		pStyle = failStyle.Render
	}

	return summaryBoxStyle.Render(counts + "   " + pStyle(report.RatioString(summary)) + " " + pStyle(bar))
}

// renderBlocks lists every captured block, numbered per kind.
func renderBlocks(sections []fortiparse.Section) string {
	var b strings.Builder
	b.WriteString(sectionNameStyle.Render(" Blocos Principais de Configuração"))
	b.WriteString("\n")
	for _, s := range sections {
		if len(s.Blocks) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("   %s\n", titleStyle.Render(compliance.SectionTitle(s.Kind))))
		for i, block := range s.Blocks {
			b.WriteString(fmt.Sprintf("     %s\n", dimStyle.Render(fmt.Sprintf("Bloco #%d", i+1))))
			b.WriteString(blockStyle.Render(block))
			b.WriteString("\n")
		}
	}
	return b.String()
}
