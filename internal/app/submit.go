package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/carbon-blueprint/internal/analysis"
	"github.com/treykane/carbon-blueprint/internal/blueprint"
	"github.com/treykane/carbon-blueprint/internal/config"
)

// analyzeResultMsg carries the outcome of one upload back to Update. seq is
// compared with the current submission so superseded or cancelled uploads
// are dropped.
type analyzeResultMsg struct {
	seq    int
	source string
	resp   analysis.Response
	err    error
}

// submit starts an analysis of the selected blueprint.
//
// With no selection, or one that fails validation, the flow fails without a
// network call. While a submission is outstanding the in-flight policy
// decides: "reject" ignores the request, "replace" cancels the outstanding
// upload and starts a new one.
func (m *Model) submit() tea.Cmd {
	if m.flow.loading() {
		if m.cfg.InFlightPolicy != config.PolicyReplace {
			m.status = "Analysis already in progress"
			return nil
		}
		appLog.Info("replacing in-flight analysis", "seq", m.flow.seq)
		m.releaseRequest()
	}

	if m.selected == nil {
		m.fail(messageNoFile)
		return nil
	}
	bp := *m.selected
	if err := blueprint.Validate(bp, m.rules); err != nil {
		appLog.Warn("blueprint rejected", "path", bp.Path, "error", err)
		m.fail(err.Error())
		return nil
	}

	m.clearReport()
	m.requestSeq++
	seq := m.requestSeq
	ctx, cancel := m.requestContext()
	m.inFlight = &inFlightRequest{seq: seq, cancel: cancel}
	m.flow = submittingFlow(seq)
	m.status = "Analyzing " + bp.Name
	appLog.Info("analysis submitted", "seq", seq, "path", bp.Path, "endpoint", m.endpoint)
	return analyzeCmd(ctx, m.analyzer, bp, seq)
}

func (m *Model) requestContext() (context.Context, context.CancelFunc) {
	if timeout := m.cfg.RequestTimeout(); timeout > 0 {
		return context.WithTimeout(context.Background(), timeout)
	}
	return context.WithCancel(context.Background())
}

// analyzeCmd runs the upload on a command goroutine.
func analyzeCmd(ctx context.Context, analyzer Analyzer, bp blueprint.Blueprint, seq int) tea.Cmd {
	return func() tea.Msg {
		resp, err := analyzer.Analyze(ctx, bp)
		return analyzeResultMsg{seq: seq, source: bp.Name, resp: resp, err: err}
	}
}

// handleAnalyzeResult settles the current submission. Every branch ends by
// replacing the submitting state.
func (m *Model) handleAnalyzeResult(msg analyzeResultMsg) (tea.Model, tea.Cmd) {
	if m.inFlight == nil || msg.seq != m.inFlight.seq {
		appLog.Debug("drop stale analysis result", "seq", msg.seq, "current", m.requestSeq)
		return m, nil
	}
	m.releaseRequest()

	if msg.err != nil {
		attrs := []any{"seq", msg.seq, "file", msg.source}
		if errors.Is(msg.err, context.DeadlineExceeded) {
			attrs = append(attrs, "timeout", m.cfg.RequestTimeout())
		}
		m.setStatusError("Analysis failed", msg.err, attrs...)
		m.flow = failedFlow(analysis.ErrorMessage(msg.err))
		return m, nil
	}
	if text, ok := msg.resp.SoftError(); ok {
		appLog.Warn("analysis service reported an error", "seq", msg.seq, "message", text)
		m.status = "Analysis failed"
		m.flow = failedFlow(text)
		return m, nil
	}
	rep, err := msg.resp.Report()
	if err != nil {
		m.setStatusError("Analysis failed", err, "seq", msg.seq, "body", payloadPreview(msg.resp))
		m.flow = failedFlow(analysis.ErrorMessage(err))
		return m, nil
	}

	m.reportSource = msg.source
	m.status = "Analysis complete: " + msg.source
	m.flow = succeededFlow(&rep)
	return m, m.requestReportRender(false)
}

// cancelAnalysis abandons the outstanding submission and returns to idle.
func (m *Model) cancelAnalysis() {
	if !m.flow.loading() {
		m.status = "No analysis in progress"
		return
	}
	appLog.Info("analysis cancelled", "seq", m.flow.seq)
	m.releaseRequest()
	m.flow = idleFlow()
	m.status = "Analysis cancelled"
}

// releaseRequest cancels the outstanding request context, if any.
func (m *Model) releaseRequest() {
	if m.inFlight == nil {
		return
	}
	m.inFlight.cancel()
	m.inFlight = nil
}

// fail moves to the failed state without a request.
func (m *Model) fail(message string) {
	m.clearReport()
	m.status = message
	m.flow = failedFlow(message)
}

// maxPayloadPreview bounds how much of a response body is logged.
const maxPayloadPreview = 512

// payloadPreview returns the start of a response body for logs.
func payloadPreview(resp analysis.Response) string {
	raw := resp.Raw()
	if len(raw) <= maxPayloadPreview {
		return string(raw)
	}
	return string(raw[:maxPayloadPreview]) + "..."
}
