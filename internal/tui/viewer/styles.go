package viewer

import "github.com/charmbracelet/lipgloss"

// Color palette matching the HTML report.
var (
	colorPass    = lipgloss.Color("#22C55E")
	colorFail    = lipgloss.Color("#EF4444")
	colorWarn    = lipgloss.Color("#EAB308")
	colorPrimary = lipgloss.Color("#4A9EFF")
	colorDim     = lipgloss.Color("#9CA3AF")
	colorWhite   = lipgloss.Color("#F9FAFB")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorDim)

	sectionNameStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginTop(1)

	sectionCountStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(colorDim)

	summaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1).
			MarginBottom(1)

	blockStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			PaddingLeft(5)

	passStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPass)
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFail)
	warnStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWarn)
	dimStyle  = lipgloss.NewStyle().Foreground(colorDim)
)
