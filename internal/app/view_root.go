package app

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// View draws the full UI (header + selection pane + results pane + footer).
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	footerHeight := m.footerHeightForWidth(m.width)
	layout := m.calculateLayout()
	header := m.renderHeader(m.width)

	var row string
	if m.showHelp {
		row = m.renderHelp(m.width, layout.ContentHeight)
	} else {
		leftPane := m.renderSelection(layout.LeftWidth, layout.ContentHeight)
		rightPane := m.renderResults(layout.RightWidth, layout.ContentHeight)
		row = lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
	}
	row = padBlock(row, m.width, layout.ContentHeight)

	view := header + "\n" + row + "\n" + m.renderStatus(m.width, footerHeight)
	return padBlock(view, m.width, m.height)
}

func (m *Model) renderHeader(width int) string {
	title := " Carbon Blueprint Analyzer"
	target := fmt.Sprintf("POST %s ", m.endpoint)
	gap := width - lipgloss.Width(title) - lipgloss.Width(target)
	line := title
	if gap > 0 {
		line += fmt.Sprintf("%*s", gap, "") + target
	}
	return headerStyle.Width(width).Render(truncate(line, width))
}
