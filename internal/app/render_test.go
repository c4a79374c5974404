package app

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func succeededModel(t *testing.T) *Model {
	t.Helper()
	m := newTestModel(t, &fakeAnalyzer{})
	rep, err := mustResponse(t, exampleReportJSON).Report()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	m.flow = succeededFlow(&rep)
	return m
}

func TestRequestReportRenderUsesCachedWidth(t *testing.T) {
	m := succeededModel(t)
	m.renderSeq = 9
	m.renderCache[renderWidthBucket(m.viewport.Width)] = "cached-report-output"

	if cmd := m.requestReportRender(false); cmd != nil {
		t.Fatal("expected no render command on cache hit")
	}
	if !strings.Contains(m.viewport.View(), "cached-report-output") {
		t.Fatalf("expected cached content in viewport, got %q", m.viewport.View())
	}
	if m.rendering || m.renderSeq != 9 {
		t.Fatalf("expected no render in progress and seq 9, got rendering=%v seq=%d", m.rendering, m.renderSeq)
	}
}

func TestRequestReportRenderStartsAsyncRenderOnMiss(t *testing.T) {
	m := succeededModel(t)
	before := m.renderSeq

	cmd := m.requestReportRender(false)
	if cmd == nil {
		t.Fatal("expected render command on cache miss")
	}
	if !m.rendering || m.renderSeq != before+1 {
		t.Fatalf("expected rendering with seq %d, got rendering=%v seq=%d", before+1, m.rendering, m.renderSeq)
	}
	if !strings.Contains(m.viewport.View(), "Rendering report...") {
		t.Fatalf("expected rendering indicator, got %q", m.viewport.View())
	}

	msg, ok := cmd().(renderResultMsg)
	if !ok {
		t.Fatal("expected renderResultMsg")
	}
	send(m, msg)
	if m.rendering {
		t.Fatal("expected rendering to finish")
	}
	if _, ok := m.renderCache[msg.width]; !ok {
		t.Fatalf("expected render for width %d to be cached", msg.width)
	}
	if !strings.Contains(m.viewport.View(), "Concrete: 10 m3") {
		t.Fatalf("expected report in viewport, got %q", m.viewport.View())
	}
}

func TestStaleRenderResultIsIgnored(t *testing.T) {
	m := succeededModel(t)
	m.renderSeq = 4
	m.viewport.SetContent("current")

	send(m, renderResultMsg{width: renderWidthBucket(m.viewport.Width), seq: 3, content: "stale"})

	if strings.Contains(m.viewport.View(), "stale") {
		t.Fatal("expected stale render to be dropped")
	}
	if len(m.renderCache) != 0 {
		t.Fatal("expected stale render not to be cached")
	}
}

func TestRenderRequestIgnoredWhenSuperseded(t *testing.T) {
	m := succeededModel(t)
	m.renderSeq = 2
	m.pendingWidth = 80

	if cmd := send(m, renderRequestMsg{width: 80, seq: 1}); cmd != nil {
		t.Fatal("expected superseded request to be dropped")
	}
	if cmd := send(m, renderRequestMsg{width: 60, seq: 2}); cmd != nil {
		t.Fatal("expected request for another width to be dropped")
	}
	if cmd := send(m, renderRequestMsg{width: 80, seq: 2}); cmd == nil {
		t.Fatal("expected current request to start a render")
	}
}

func TestResizeDebouncesReportRender(t *testing.T) {
	m := succeededModel(t)

	cmd := send(m, tea.WindowSizeMsg{Width: 200, Height: 50})
	if cmd == nil {
		t.Fatal("expected debounced render command after resize")
	}
	if m.pendingWidth != renderWidthBucket(m.viewport.Width) {
		t.Fatalf("expected pending width %d, got %d", renderWidthBucket(m.viewport.Width), m.pendingWidth)
	}
}

func TestResizeWithoutReportDoesNotRender(t *testing.T) {
	m := newTestModel(t, &fakeAnalyzer{})
	if cmd := send(m, tea.WindowSizeMsg{Width: 100, Height: 30}); cmd != nil {
		t.Fatal("expected no render without a report")
	}
	if m.width != 100 || m.height != 30 {
		t.Fatalf("expected size 100x30, got %dx%d", m.width, m.height)
	}
}

func TestRenderWidthBucket(t *testing.T) {
	cases := map[int]int{0: 80, -5: 80, 12: 12, 20: 20, 84: 80, 99: 80, 100: 100}
	for width, want := range cases {
		if got := renderWidthBucket(width); got != want {
			t.Fatalf("renderWidthBucket(%d) = %d, want %d", width, got, want)
		}
	}
}
