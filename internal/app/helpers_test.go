package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/carbon-blueprint/internal/analysis"
	"github.com/treykane/carbon-blueprint/internal/blueprint"
	"github.com/treykane/carbon-blueprint/internal/config"
	"github.com/treykane/carbon-blueprint/internal/report"
)

const exampleReportJSON = `{
	"carbon_analysis": {
		"total_emissions": 123.456,
		"materials": [{"material": "Concrete", "quantity": 10, "unit": "m3", "emission": 120.0}]
	},
	"recommendations": ["Use low-carbon concrete"]
}`

func TestMain(m *testing.M) {
	// Plain styling keeps rendered report text contiguous for assertions.
	os.Setenv(report.EnvGlamourStyle, "notty")
	os.Exit(m.Run())
}

func mustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

// writeBlueprint creates a file named name whose content passes Validate.
func writeBlueprint(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	switch filepath.Ext(name) {
	case ".pdf":
		mustWriteFile(t, path, "%PDF-1.7\n")
	case ".dwg":
		mustWriteFile(t, path, "AC1032\x00\x00")
	case ".ifc":
		mustWriteFile(t, path, "ISO-10303-21;\nHEADER;\n")
	default:
		mustWriteFile(t, path, "plain text\n")
	}
	return path
}

func mustResponse(t *testing.T, body string) analysis.Response {
	t.Helper()
	resp, err := analysis.NewResponse([]byte(body))
	if err != nil {
		t.Fatalf("new response: %v", err)
	}
	return resp
}

type analyzeCall struct {
	ctx context.Context
	bp  blueprint.Blueprint
}

// fakeAnalyzer records calls and answers with respond.
type fakeAnalyzer struct {
	mu      sync.Mutex
	calls   []analyzeCall
	respond func(call int, bp blueprint.Blueprint) (analysis.Response, error)
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, bp blueprint.Blueprint) (analysis.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, analyzeCall{ctx: ctx, bp: bp})
	n := len(f.calls)
	f.mu.Unlock()
	if f.respond == nil {
		return analysis.Response{}, errors.New("no response configured")
	}
	return f.respond(n, bp)
}

func (f *fakeAnalyzer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func respondWith(t *testing.T, body string) func(int, blueprint.Blueprint) (analysis.Response, error) {
	resp := mustResponse(t, body)
	return func(int, blueprint.Blueprint) (analysis.Response, error) {
		return resp, nil
	}
}

func respondErr(err error) func(int, blueprint.Blueprint) (analysis.Response, error) {
	return func(int, blueprint.Blueprint) (analysis.Response, error) {
		return analysis.Response{}, err
	}
}

// newTestModel builds a sized model with HOME, the start dir and the export
// dir inside temp directories.
func newTestModel(t *testing.T, analyzer Analyzer, mutate ...func(*config.Config)) *Model {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	cfg.StartDir = t.TempDir()
	cfg.ExportDir = filepath.Join(t.TempDir(), "reports")
	for _, fn := range mutate {
		fn(&cfg)
	}
	m, err := New(cfg, analyzer)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return m
}

// send delivers msg to Update and returns the follow-up command.
func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// settle runs cmd and feeds its message back into Update until no command
// remains.
func settle(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 10 {
			t.Fatal("command chain did not settle")
		}
		cmd = send(m, cmd())
	}
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	case "ctrl+e":
		return tea.KeyMsg{Type: tea.KeyCtrlE}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func pasteMsg(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true}
}
