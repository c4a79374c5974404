package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/treykane/carbon-blueprint/internal/config"
)

func TestExportWritesConfiguredFormats(t *testing.T) {
	m := succeededModel(t)
	m.reportSource = "plan.pdf"
	m.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC) }

	cmd := send(m, keyMsg("ctrl+e"))
	if cmd == nil {
		t.Fatal("expected export command")
	}
	if m.status != "Exporting report..." {
		t.Fatalf("unexpected status %q", m.status)
	}
	msg, ok := cmd().(statusMsg)
	if !ok {
		t.Fatal("expected statusMsg from export")
	}
	send(m, msg)

	want := "Exported 2 files to " + m.cfg.ExportDir
	if m.status != want {
		t.Fatalf("expected status %q, got %q", want, m.status)
	}
	for _, name := range []string{
		"plan-carbon-report-20240309-140506.md",
		"plan-carbon-report-20240309-140506.html",
	} {
		data, err := os.ReadFile(filepath.Join(m.cfg.ExportDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !strings.Contains(string(data), "Concrete: 10 m3") {
			t.Fatalf("expected %s to contain the materials breakdown", name)
		}
	}
}

func TestExportSingleFormatReportsPath(t *testing.T) {
	m := newTestModel(t, &fakeAnalyzer{}, func(cfg *config.Config) {
		cfg.ExportFormats = []string{config.FormatJSON}
	})
	rep, err := mustResponse(t, exampleReportJSON).Report()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	m.flow = succeededFlow(&rep)
	m.reportSource = "tower.ifc"

	settle(t, m, m.exportReport())

	if !strings.HasPrefix(m.status, "Exported "+filepath.Join(m.cfg.ExportDir, "tower-carbon-report-")) ||
		!strings.HasSuffix(m.status, ".json") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestExportAndCopyWithoutReport(t *testing.T) {
	m := newTestModel(t, &fakeAnalyzer{})

	if cmd := send(m, keyMsg("ctrl+e")); cmd != nil {
		t.Fatal("expected no export command without a report")
	}
	if m.status != "No report to export" {
		t.Fatalf("unexpected status %q", m.status)
	}

	send(m, keyMsg("ctrl+y"))
	if m.status != "No report to copy" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestExportFailureIsReported(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	mustWriteFile(t, blocker, "x")
	m := newTestModel(t, &fakeAnalyzer{}, func(cfg *config.Config) {
		cfg.ExportDir = filepath.Join(blocker, "reports")
	})
	rep, err := mustResponse(t, exampleReportJSON).Report()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	m.flow = succeededFlow(&rep)

	settle(t, m, m.exportReport())

	if !strings.HasPrefix(m.status, "Export failed: ") {
		t.Fatalf("expected export failure status, got %q", m.status)
	}
}
