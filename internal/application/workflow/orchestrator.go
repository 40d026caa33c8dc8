// Package workflow orchestrates confirmed phase advancements: blocker
// validation, the user-facing confirmation gate and the backend advancement
// call, with a per-submission reentrancy guard.
package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
	domainwf "github.com/herbolab/submission-workflow/internal/domain/workflow"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ConfirmFunc is the user-facing confirmation gate. It suspends until the
// user decides; false means the advancement was dismissed.
type ConfirmFunc func(ctx context.Context) (bool, error)

// PerformFunc executes the actual phase mutation. The backend owns
// persistence and phase-history recording; the orchestrator never mutates
// the submission itself.
type PerformFunc func(ctx context.Context, submissionID int64, target phase.Phase) error

// OutcomeKind tags the result of an advancement attempt
type OutcomeKind string

const (
	OutcomeAdvanced          OutcomeKind = "ADVANCED"
	OutcomeCancelled         OutcomeKind = "CANCELLED"
	OutcomeBlocked           OutcomeKind = "BLOCKED"
	OutcomeFailed            OutcomeKind = "FAILED"
	OutcomeAlreadyInProgress OutcomeKind = "ALREADY_IN_PROGRESS"
)

// Outcome is the tagged result of Advance. Failures are returned as values,
// never as errors, to keep the pure/impure boundary clean for callers.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	Phase   phase.Phase `json:"phase,omitempty"`
	Reasons []string    `json:"reasons,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Advanced returns true when the submission moved to the target phase
func (o Outcome) Advanced() bool {
	return o.Kind == OutcomeAdvanced
}

// DefaultConfirmTimeout bounds the confirmation wait so an abandoned
// confirmation dialog cannot leave the in-flight guard set forever.
const DefaultConfirmTimeout = 5 * time.Minute

// Orchestrator executes confirmed phase advancements. It holds no state
// across calls except the in-flight set guarding against concurrent
// advancement of the same submission.
type Orchestrator struct {
	confirmTimeout time.Duration
	logger         Logger

	mu       sync.Mutex
	inFlight map[int64]bool
}

// Option configures the orchestrator
type Option func(*Orchestrator)

// WithConfirmTimeout overrides the confirmation-gate timeout
func WithConfirmTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.confirmTimeout = d
	}
}

// NewOrchestrator creates a workflow action orchestrator
func NewOrchestrator(logger Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		confirmTimeout: DefaultConfirmTimeout,
		logger:         logger,
		inFlight:       make(map[int64]bool),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// InFlight reports whether an advancement is currently running for the
// submission, for callers that need to disable their advance control.
func (o *Orchestrator) InFlight(submissionID int64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight[submissionID]
}

// Advance runs one advancement attempt for sub toward target:
//
//  1. Blockers are evaluated; any blocker fails the attempt before either
//     callback is invoked.
//  2. confirm is awaited under the configured timeout. A false result,
//     an error or a timeout yields Cancelled with no mutation attempted.
//  3. perform is invoked; its error, if any, is surfaced as Failed with no
//     automatic retry.
//
// A second Advance for the same submission id while one is running
// returns AlreadyInProgress without invoking either callback. The guard is
// cleared on every exit path.
func (o *Orchestrator) Advance(ctx context.Context, sub *entity.Submission, target phase.Phase, confirm ConfirmFunc, perform PerformFunc) Outcome {
	o.mu.Lock()
	if o.inFlight[sub.ID] {
		o.mu.Unlock()
		return Outcome{Kind: OutcomeAlreadyInProgress}
	}
	o.inFlight[sub.ID] = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		delete(o.inFlight, sub.ID)
		o.mu.Unlock()
	}()

	if blockers := domainwf.Blockers(sub, sub.Phase); len(blockers) > 0 {
		return Outcome{Kind: OutcomeBlocked, Reasons: blockers}
	}

	confirmCtx, cancel := context.WithTimeout(ctx, o.confirmTimeout)
	defer cancel()

	ok, err := confirm(confirmCtx)
	if err != nil || !ok {
		// Dismissal and timeout are normal user decision paths, not errors.
		return Outcome{Kind: OutcomeCancelled}
	}

	if err := perform(ctx, sub.ID, target); err != nil {
		o.logger.Error("Phase advancement failed",
			"submission_id", sub.ID,
			"target_phase", target.String(),
			"error", err)
		return Outcome{Kind: OutcomeFailed, Message: err.Error()}
	}

	o.logger.Info("Phase advanced",
		"submission_id", sub.ID,
		"from_phase", sub.Phase.String(),
		"to_phase", target.String())
	return Outcome{Kind: OutcomeAdvanced, Phase: target}
}
