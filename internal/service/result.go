package service

import (
	"tableride/internal/domain"
	"tableride/internal/pricing"
)

// TransitionStatus classifies the outcome of a transition call.
type TransitionStatus string

const (
	// TransitionApplied means the new state was committed.
	TransitionApplied TransitionStatus = "APPLIED"

	// TransitionUnchanged means the requested state equals the current
	// state; nothing was written.
	TransitionUnchanged TransitionStatus = "UNCHANGED"

	// TransitionRejected means the lifecycle policy or a guard refused the
	// transition; nothing was written.
	TransitionRejected TransitionStatus = "REJECTED"
)

// TransitionResult is the typed outcome of a transition. Business rejections
// live here, not in the error path: a rejected transition is an expected
// answer, not a fault.
type TransitionResult struct {
	Status   TransitionStatus
	Reason   domain.RejectReason // set when Status is TransitionRejected
	Previous domain.Status
	Current  domain.Status
	Totals   *pricing.Totals // set for applied order transitions
}

func applied(previous, current domain.Status, totals *pricing.Totals) *TransitionResult {
	return &TransitionResult{
		Status:   TransitionApplied,
		Previous: previous,
		Current:  current,
		Totals:   totals,
	}
}

func unchanged(current domain.Status) *TransitionResult {
	return &TransitionResult{
		Status:   TransitionUnchanged,
		Previous: current,
		Current:  current,
	}
}

func rejected(current domain.Status, reason domain.RejectReason) *TransitionResult {
	return &TransitionResult{
		Status:   TransitionRejected,
		Reason:   reason,
		Previous: current,
		Current:  current,
	}
}
