package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// handleSpinnerTick updates the spinner animation state.
func (m *Model) handleSpinnerTick(msg spinner.TickMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	if m.rendering {
		m.viewport.SetContent(m.spinner.View() + " Rendering report...")
	}
	return m, cmd
}

// handleWindowResize updates layout dimensions after terminal resize and
// re-renders the report for the new width.
func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.applyLayout(m.calculateLayout())
	return m, m.requestReportRender(true)
}
