// Package viewer implements the terminal report viewer: a scrollable list of
// checks with their findings and, on demand, the captured blocks.
package viewer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fortiaudit/fortiaudit/internal/compliance"
	"github.com/fortiaudit/fortiaudit/pkg/buildinfo"
)

// Model is the Bubbletea model for the report viewer.
type Model struct {
	loader     Loader
	viewport   viewport.Model
	report     *compliance.ComplianceReport
	lastLoad   time.Time
	err        error
	showBlocks bool
	width      int
	height     int
	ready      bool
}

// New creates a viewer over loader.
func New(loader Loader) Model {
	return Model{loader: loader}
}

// loadMsg carries the result of a load.
type loadMsg struct {
	report *compliance.ComplianceReport
	err    error
}

func load(l Loader) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		report, err := l.Load(ctx)
		return loadMsg{report: report, err: err}
	}
}

// Init starts the first load.
func (m Model) Init() tea.Cmd {
	return load(m.loader)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentH := msg.Height - 6 // reserve for header/footer
		if contentH < 5 {
			contentH = 5
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, contentH)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = contentH
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case loadMsg:
		m.lastLoad = time.Now()
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.report = msg.report
		}
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, load(m.loader)
		case "b":
			m.showBlocks = !m.showBlocks
			if m.ready {
				m.viewport.SetContent(m.renderContent())
			}
			return m, nil
		}
	}

	// Delegate to viewport for scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the viewer.
func (m Model) View() string {
	var b strings.Builder

	header := headerStyle.Render(
		titleStyle.Render("fortiaudit") +
			dimStyle.Render(" "+buildinfo.Version) +
			dimStyle.Render(" | Relatório de Compliance") +
			m.renderLastUpdate())
	b.WriteString(header)
	b.WriteString("\n")

	if !m.ready {
		b.WriteString("\n  Initializing...\n")
		return b.String()
	}

	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(m.renderFooter()))

	return b.String()
}

func (m Model) renderLastUpdate() string {
	if m.lastLoad.IsZero() {
		return dimStyle.Render(" | Loading...")
	}
	return dimStyle.Render(fmt.Sprintf(" | Updated %s", m.lastLoad.Format("15:04:05")))
}

func (m Model) renderContent() string {
	var b strings.Builder

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(failStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("  Press 'r' to retry"))
		b.WriteString("\n")
		return b.String()
	}

	if m.report == nil {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("  Loading report..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString("\n")
	b.WriteString(renderSummaryBar(m.report.Summary, m.width))
	b.WriteString("\n")

	for _, section := range m.report.Sections {
		b.WriteString(renderSection(section))
	}

	if m.showBlocks {
		b.WriteString(renderBlocks(m.report.Blocks))
	}

	return b.String()
}

func (m Model) renderFooter() string {
	blocks := "show"
	if m.showBlocks {
		blocks = "hide"
	}
	return fmt.Sprintf(" [q] Quit  [r] Reload  [b] %s blocks  | %s", blocks, m.loader.Describe)
}
