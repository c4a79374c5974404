package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m *Model) renderStatus(width, rows int) string {
	statusRows, _ := m.buildStatusRows(width, rows)
	style := statusStyle
	if m.flow.loading() {
		style = busyStatus
	}
	for len(statusRows) < rows {
		statusRows = append(statusRows, "")
	}

	rendered := make([]string, 0, len(statusRows))
	for _, line := range statusRows {
		line = " " + truncate(line, max(0, width-1))
		rendered = append(rendered, style.Width(width).Render(line))
	}
	return strings.Join(rendered, "\n")
}

// buildStatusRows packs help, context and status segments into at most
// rowLimit rows joined by " | ". fit is false when something was cut.
func (m *Model) buildStatusRows(width, rowLimit int) ([]string, bool) {
	if width <= 0 || rowLimit <= 0 {
		return nil, true
	}

	help := m.statusHelpSegments()
	context := m.statusContextSegments()
	status := m.statusMessageSegment()

	segments := make([]string, 0, len(help)+len(context)+2)
	if len(help) > 0 {
		segments = append(segments, "Keys: "+help[0])
		segments = append(segments, help[1:]...)
	}
	if len(context) > 0 {
		segments = append(segments, "Context: "+context[0])
		segments = append(segments, context[1:]...)
	}
	if status != "" {
		segments = append(segments, "Status: "+status)
	}

	rows := make([]string, 1, rowLimit)
	rowIndex := 0
	fit := true
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		segment := seg
		if lipgloss.Width(segment) > width {
			segment = truncateWithEllipsis(segment, width)
		}

		candidate := segment
		if rows[rowIndex] != "" {
			candidate = rows[rowIndex] + " | " + segment
		}
		if lipgloss.Width(candidate) <= width {
			rows[rowIndex] = candidate
			continue
		}
		if rowIndex+1 < rowLimit {
			rowIndex++
			rows = append(rows, segment)
			continue
		}

		fit = false
		if rows[rowIndex] == "" {
			rows[rowIndex] = truncateWithEllipsis(segment, width)
		} else {
			rows[rowIndex] = truncateWithEllipsis(rows[rowIndex]+" | "+segment, width)
		}
		break
	}
	return rows, fit
}

func (m *Model) statusHelpSegments() []string {
	if m.showHelp {
		return []string{m.allActionKeys(actionHelp, "F1") + "/Esc close help", m.primaryActionKey(actionQuit, "q") + " quit"}
	}

	submit := m.primaryActionKey(actionSubmit, "Ctrl+S") + " analyze"
	if m.flow.loading() {
		return []string{
			m.primaryActionKey(actionCancel, "Ctrl+X") + " cancel",
			m.primaryActionKey(actionFocusNext, "Tab") + " focus",
			m.primaryActionKey(actionQuit, "q") + " quit",
		}
	}

	var help []string
	switch m.focus {
	case focusDropZone:
		help = []string{"paste/drop file", "Enter select path", "Esc leave", submit}
	case focusReport:
		help = []string{
			"↑/↓ scroll",
			m.primaryActionKey(actionReportPageUp, "Ctrl+B") + "/" + m.primaryActionKey(actionReportPageDown, "Ctrl+F") + " page",
			submit,
		}
	default:
		help = []string{"↑/↓ move", "Enter open/select", "←/Esc up", submit}
	}
	if m.flow.currentReport() != nil {
		help = append(help,
			m.primaryActionKey(actionCopyReport, "Ctrl+Y")+" copy",
			m.primaryActionKey(actionExport, "Ctrl+E")+" export",
		)
	}
	help = append(help,
		m.primaryActionKey(actionFocusNext, "Tab")+" focus",
		m.primaryActionKey(actionHelp, "F1")+" help",
		m.primaryActionKey(actionQuit, "q")+" quit",
	)
	return help
}

func (m *Model) statusContextSegments() []string {
	parts := make([]string, 0, 2)
	if m.selected != nil {
		parts = append(parts, m.selected.Name)
	}
	switch m.flow.kind {
	case flowSubmitting:
		parts = append(parts, fmt.Sprintf("request #%d", m.flow.seq))
	case flowSucceeded:
		if r := m.flow.currentReport(); r != nil {
			parts = append(parts, fmt.Sprintf("%d materials", len(r.CarbonAnalysis.Materials)))
		}
	}
	return parts
}

func (m *Model) statusMessageSegment() string {
	return strings.TrimSpace(m.status)
}

func (m *Model) renderHelp(width, height int) string {
	row := func(action, fallback, text string) string {
		return fmt.Sprintf("  %-22s %s", m.allActionKeys(action, fallback), text)
	}
	lines := []string{
		titleStyle.Render("Keyboard Shortcuts"),
		"",
		"Analysis",
		row(actionSubmit, "Ctrl+S", "Upload the selected blueprint for analysis"),
		row(actionCancel, "Ctrl+X", "Cancel the running analysis"),
		row(actionCopyReport, "Ctrl+Y", "Copy the report as Markdown"),
		row(actionExport, "Ctrl+E", "Export the report ("+strings.Join(m.cfg.ExportFormats, ", ")+")"),
		row(actionSelectRecent, "Ctrl+R", "Reselect the previous blueprint"),
		"",
		"Focus",
		row(actionFocusNext, "Tab", "Next pane (browser, drop zone, report)"),
		row(actionFocusPrev, "Shift+Tab", "Previous pane"),
		"",
		"File Browser",
		"  ↑/↓, k/j               Move selection",
		"  Enter, →, l            Open folder or select file",
		"  ←, h, Esc, Backspace   Parent folder",
		"  PgUp / PgDn            Page through the listing",
		"  Accepted types are highlighted; other files can still be selected.",
		"",
		"Drop Zone",
		"  Drag a file onto the terminal, or paste a path",
		"  Type a path and press Enter",
		"  Esc                    Leave the drop zone",
		"",
		"Report",
		"  ↑/↓, k/j               Scroll",
		row(actionReportPageUp, "Ctrl+B", "Page up"),
		row(actionReportPageDown, "Ctrl+F", "Page down"),
		row(actionReportHalfUp, "Ctrl+U", "Half page up"),
		row(actionReportHalfDown, "Ctrl+D", "Half page down"),
		"",
		row(actionHelp, "F1", "Toggle help"),
		row(actionQuit, "q, Ctrl+C", "Quit"),
	}

	visible := min(height, len(lines))
	out := make([]string, 0, visible)
	for i := 0; i < visible; i++ {
		out = append(out, truncate(lines[i], width))
	}
	return strings.Join(out, "\n")
}
