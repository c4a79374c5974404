package app

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/treykane/carbon-blueprint/internal/report"
)

// copyReportToClipboard copies the current report as Markdown.
func (m *Model) copyReportToClipboard() {
	r := m.flow.currentReport()
	if r == nil {
		m.status = "No report to copy"
		return
	}
	content := report.Markdown(r)
	if err := clipboard.WriteAll(content); err != nil {
		m.setStatusError("Clipboard copy failed", err)
		return
	}
	m.status = fmt.Sprintf("Copied report (%d chars)", len([]rune(content)))
}
