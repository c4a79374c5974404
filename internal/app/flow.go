package app

import "github.com/treykane/carbon-blueprint/internal/analysis"

// flowKind tags the variant held by flowState.
type flowKind int

const (
	flowIdle flowKind = iota
	flowSubmitting
	flowSucceeded
	flowFailed
)

func (k flowKind) String() string {
	switch k {
	case flowSubmitting:
		return "submitting"
	case flowSucceeded:
		return "succeeded"
	case flowFailed:
		return "failed"
	default:
		return "idle"
	}
}

// flowState is the analysis lifecycle. Only the field belonging to kind is
// meaningful, so a loading state can never carry a stale report or error.
type flowState struct {
	kind    flowKind
	seq     int              // flowSubmitting
	report  *analysis.Report // flowSucceeded
	message string           // flowFailed
}

func idleFlow() flowState {
	return flowState{kind: flowIdle}
}

func submittingFlow(seq int) flowState {
	return flowState{kind: flowSubmitting, seq: seq}
}

func succeededFlow(r *analysis.Report) flowState {
	return flowState{kind: flowSucceeded, report: r}
}

func failedFlow(message string) flowState {
	return flowState{kind: flowFailed, message: message}
}

func (s flowState) loading() bool {
	return s.kind == flowSubmitting
}

// currentReport returns the report when the flow succeeded, nil otherwise.
func (s flowState) currentReport() *analysis.Report {
	if s.kind != flowSucceeded {
		return nil
	}
	return s.report
}

// errorMessage returns the banner text when the flow failed.
func (s flowState) errorMessage() (string, bool) {
	if s.kind != flowFailed {
		return "", false
	}
	return s.message, true
}
