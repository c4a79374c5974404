package app

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// renderSelection draws the file browser, the drop zone and the current
// selection.
func (m *Model) renderSelection(width, height int) string {
	style := selectionPane
	if m.focus == focusBrowser {
		style = style.Copy().BorderForeground(focusedBorder)
	}
	innerWidth := max(0, width-style.GetHorizontalFrameSize())
	innerHeight := max(0, height-style.GetVerticalFrameSize())

	layout := m.calculateLayout()
	lines := []string{
		titleStyle.Render(truncate("Blueprint  "+m.picker.CurrentDirectory, innerWidth)),
		padBlock(m.picker.View(), innerWidth, layout.PickerHeight),
		m.renderDropZone(innerWidth),
		m.selectionSummary(innerWidth),
	}
	body := padBlock(strings.Join(lines, "\n"), innerWidth, innerHeight)
	return style.Width(innerWidth + style.GetHorizontalPadding()).Render(body)
}

// renderDropZone draws the drop target. The double green border is the
// drag-active highlight.
func (m *Model) renderDropZone(width int) string {
	style := dropZoneStyle
	label := mutedStyle.Render(messageDropZoneHint)
	if m.dragging {
		style = dropActiveStyle
		label = selectedStyle.Render(messageDropActive)
	}
	inner := max(0, width-style.GetHorizontalFrameSize())
	content := truncate(label, inner) + "\n" + truncate(m.dropZone.View(), inner)
	return style.Width(inner + style.GetHorizontalPadding()).Render(content)
}

func (m *Model) selectionSummary(width int) string {
	if m.selected == nil {
		return truncate(mutedStyle.Render("No file selected"), width)
	}
	line := fmt.Sprintf("Selected: %s (%s)", m.selected.Name, humanize.IBytes(uint64(m.selected.Size)))
	return selectedStyle.Render(truncateWithEllipsis(line, width))
}

// renderResults draws the error banner, the loading indicator or the report,
// depending on the flow state.
func (m *Model) renderResults(width, height int) string {
	style := resultsPane
	if m.focus == focusReport {
		style = style.Copy().BorderForeground(focusedBorder)
	}
	innerWidth := max(0, width-style.GetHorizontalFrameSize())
	innerHeight := max(0, height-style.GetVerticalFrameSize())

	header := titleStyle.Render(truncate(m.resultsTitle(), innerWidth))
	var body string
	switch m.flow.kind {
	case flowSubmitting:
		name := "blueprint"
		if m.selected != nil {
			name = m.selected.Name
		}
		body = m.spinner.View() + " Analyzing " + name + "..."
		body += "\n\n" + mutedStyle.Render("Press "+m.primaryActionKey(actionCancel, "Ctrl+X")+" to cancel.")
	case flowFailed:
		msg, _ := m.flow.errorMessage()
		bannerWidth := max(1, innerWidth-errorBanner.GetHorizontalFrameSize())
		body = errorBanner.Width(bannerWidth + errorBanner.GetHorizontalPadding()).Render(msg)
	case flowSucceeded:
		body = m.viewport.View()
	default:
		body = mutedStyle.Render(fmt.Sprintf(messageIdleHint, m.primaryActionKey(actionSubmit, "Ctrl+S")))
	}

	content := padBlock(header+"\n"+body, innerWidth, innerHeight)
	return style.Width(innerWidth + style.GetHorizontalPadding()).Render(content)
}

func (m *Model) resultsTitle() string {
	switch m.flow.kind {
	case flowSubmitting:
		return "Analyzing"
	case flowFailed:
		return "Analysis failed"
	case flowSucceeded:
		title := "Report"
		if m.reportSource != "" {
			title += ": " + m.reportSource
		}
		if m.viewport.TotalLineCount() > m.viewport.Height && m.viewport.Height > 0 {
			title += fmt.Sprintf("  %3.0f%%", m.viewport.ScrollPercent()*100)
		}
		return title
	default:
		return "Report"
	}
}
