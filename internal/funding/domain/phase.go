package domain

import (
	"time"

	apperrors "github.com/sarangparikh22/bentofund/internal/platform/errors"
)

// PhaseKind is a project's lifecycle phase. Phases are never stored: they are
// derived from wall-clock time and ledger state at every decision point.
type PhaseKind int

const (
	// PhaseScheduled means the funding window has not opened yet.
	PhaseScheduled PhaseKind = iota
	// PhaseActive means the funding window is open.
	PhaseActive
	// PhaseSucceeded means the window closed with the goal met.
	PhaseSucceeded
	// PhaseFailed means the window closed short of the goal.
	PhaseFailed
	// PhaseSettled means the owner has withdrawn the succeeded project's funds.
	PhaseSettled
)

// String returns the phase name for logs and errors.
func (k PhaseKind) String() string {
	switch k {
	case PhaseScheduled:
		return "scheduled"
	case PhaseActive:
		return "active"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	case PhaseSettled:
		return "settled"
	default:
		return "unknown"
	}
}

// Phase derives the lifecycle phase from a single authoritative read of "now"
// and the current amount-equivalent of the project's deposited shares.
func (p Project) Phase(now time.Time, depositedValue uint64) PhaseKind {
	if now.Before(p.Start) {
		return PhaseScheduled
	}
	if now.Before(p.End) {
		return PhaseActive
	}
	if depositedValue >= p.Goal {
		if p.DepositedShares == 0 {
			return PhaseSettled
		}
		return PhaseSucceeded
	}
	return PhaseFailed
}

// GateFund rejects funding outside the active window.
func (p Project) GateFund(now time.Time) error {
	if now.Before(p.Start) {
		return apperrors.New(apperrors.CodeNotStarted, "project not started")
	}
	if !now.Before(p.End) {
		return apperrors.New(apperrors.CodeEnded, "project ended")
	}
	return nil
}

// GateRefund rejects refunds unless the project ended short of its goal.
func (p Project) GateRefund(now time.Time, depositedValue uint64) error {
	if now.Before(p.End) {
		return apperrors.New(apperrors.CodeNotEnded, "project not ended")
	}
	if depositedValue >= p.Goal {
		return apperrors.New(apperrors.CodeFundingSucceeded, "project funding success")
	}
	return nil
}

// GateWithdraw rejects withdrawal unless the project ended with its goal met.
func (p Project) GateWithdraw(now time.Time, depositedValue uint64) error {
	if now.Before(p.End) {
		return apperrors.New(apperrors.CodeNotEnded, "project not ended")
	}
	if depositedValue < p.Goal {
		return apperrors.New(apperrors.CodeFundingFailed, "project funding failed")
	}
	return nil
}
