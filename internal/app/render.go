// render.go renders the report panel off the Update loop.
//
// Glamour output depends on the viewport width, so renders are cached per
// width bucket for the report on screen. Resizes are debounced: each request
// bumps renderSeq and only the newest request or result is applied. A new
// submission clears the cache and bumps renderSeq, so a render of an older
// report can never reach the viewport.
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/carbon-blueprint/internal/report"
)

// renderRequestMsg is emitted by the debounce timer.
type renderRequestMsg struct {
	width int
	seq   int
}

// renderResultMsg carries a finished render back to Update.
type renderResultMsg struct {
	width   int
	seq     int
	content string
}

// requestReportRender shows the current report at the viewport width. A
// cached render is applied immediately; otherwise a render command is
// returned, delayed by RenderDebounce when debounce is set.
func (m *Model) requestReportRender(debounce bool) tea.Cmd {
	r := m.flow.currentReport()
	if r == nil {
		return nil
	}
	width := renderWidthBucket(m.viewport.Width)
	if content, ok := m.renderCache[width]; ok {
		m.viewport.SetContent(content)
		m.clearRenderingState()
		return nil
	}

	m.rendering = true
	m.viewport.SetContent(m.spinner.View() + " Rendering report...")
	m.renderSeq++
	seq := m.renderSeq
	m.pendingWidth = width
	if debounce {
		return tea.Tick(RenderDebounce, func(time.Time) tea.Msg {
			return renderRequestMsg{width: width, seq: seq}
		})
	}
	return renderReportCmd(report.Markdown(r), width, seq)
}

// renderReportCmd runs Glamour on a command goroutine.
func renderReportCmd(markdown string, width, seq int) tea.Cmd {
	return func() tea.Msg {
		return renderResultMsg{
			width:   width,
			seq:     seq,
			content: report.Render(markdown, width),
		}
	}
}

// handleRenderRequest starts the render once the debounce delay passed
// without a newer request.
func (m *Model) handleRenderRequest(msg renderRequestMsg) (tea.Model, tea.Cmd) {
	r := m.flow.currentReport()
	if r == nil || msg.seq != m.renderSeq || msg.width != m.pendingWidth {
		return m, nil
	}
	return m, renderReportCmd(report.Markdown(r), msg.width, msg.seq)
}

// handleRenderResult caches a current render and shows it when the width
// still matches the viewport.
func (m *Model) handleRenderResult(msg renderResultMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.renderSeq || m.flow.currentReport() == nil {
		return m, nil
	}
	m.renderCache[msg.width] = msg.content
	if msg.width == renderWidthBucket(m.viewport.Width) {
		m.viewport.SetContent(msg.content)
		m.viewport.GotoTop()
		m.clearRenderingState()
	}
	return m, nil
}

// clearReport drops the report panel's content and invalidates pending
// renders.
func (m *Model) clearReport() {
	m.reportSource = ""
	m.renderCache = map[int]string{}
	m.renderSeq++
	m.clearRenderingState()
	m.viewport.SetContent("")
	m.viewport.GotoTop()
}

// clearRenderingState resets rendering flags after completion or error.
func (m *Model) clearRenderingState() {
	m.rendering = false
	m.pendingWidth = 0
}
