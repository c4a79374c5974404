package app

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/carbon-blueprint/internal/report"
)

// statusMsg replaces the footer status from a command goroutine.
type statusMsg struct {
	Text string
}

// exportReport writes the current report in every configured format.
func (m *Model) exportReport() tea.Cmd {
	r := m.flow.currentReport()
	if r == nil {
		m.status = "No report to export"
		return nil
	}
	dir, err := m.cfg.ResolvedExportDir()
	if err != nil {
		m.setStatusError("Export failed: cannot resolve export directory", err)
		return nil
	}
	req := report.ExportRequest{
		Report:  r,
		Source:  m.reportSource,
		Dir:     dir,
		Formats: append([]string(nil), m.cfg.ExportFormats...),
		Now:     m.now(),
	}
	m.status = "Exporting report..."
	return func() tea.Msg {
		paths, err := report.Export(req)
		if err != nil {
			appLog.Error("export report", "dir", req.Dir, "written", len(paths), "error", err)
			return statusMsg{Text: "Export failed: " + err.Error()}
		}
		if len(paths) == 1 {
			return statusMsg{Text: "Exported " + paths[0]}
		}
		return statusMsg{Text: fmt.Sprintf("Exported %d files to %s", len(paths), filepath.Dir(paths[0]))}
	}
}
