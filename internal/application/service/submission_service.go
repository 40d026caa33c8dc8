package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/herbolab/submission-workflow/internal/application/dispatcher"
	"github.com/herbolab/submission-workflow/internal/application/port"
	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/event"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

var (
	// ErrNotFound is returned when a submission does not exist
	ErrNotFound = errors.New("submission not found")

	// ErrInvalidTarget is returned when the requested phase is not the
	// registry successor of the submission's current phase
	ErrInvalidTarget = errors.New("target is not the next phase")

	// ErrNotEarlierPhase is returned when a send-back targets a phase that
	// is not strictly earlier than the current one
	ErrNotEarlierPhase = errors.New("send-back target must be an earlier phase")

	// ErrReasonRequired is returned when a send-back carries no reason
	ErrReasonRequired = errors.New("send-back requires a reason")

	// ErrInvalidDetermination is returned for an unrecognised assessment
	// determination value
	ErrInvalidDetermination = errors.New("invalid determination")
)

// SubmissionService manages forensic submissions and owns their phase
// transitions. AdvancePhase is the perform callback the workflow
// orchestrator injects.
type SubmissionService interface {
	Create(ctx context.Context, input CreateSubmissionInput) (*entity.Submission, error)
	Get(ctx context.Context, id int64) (*entity.Submission, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Submission, error)
	AssignPersonnel(ctx context.Context, id int64, botanistID, financeOfficerID *int64) error
	AddBag(ctx context.Context, submissionID int64, bag *entity.DrugBag) error
	RemoveBag(ctx context.Context, submissionID, bagID int64) error
	RecordAssessment(ctx context.Context, submissionID, bagID int64, assessment *entity.Assessment) error
	FinalizeDraft(ctx context.Context, id int64) error
	AdvancePhase(ctx context.Context, id int64, target phase.Phase, actorRole string) error
	SendBack(ctx context.Context, id int64, target phase.Phase, actorRole, reason string) error
	History(ctx context.Context, id int64) ([]*entity.PhaseTransition, error)
}

// CreateSubmissionInput carries the fields for a new draft submission
type CreateSubmissionInput struct {
	CaseNumber    string
	PoliceOfficer string
	PoliceStation string
	Defendants    []entity.Defendant
	ReceivedAt    time.Time
}

type submissionServiceImpl struct {
	submissionRepo port.SubmissionRepository
	bagRepo        port.BagRepository
	transitionRepo port.TransitionRepository
	txManager      port.TransactionManager
	events         dispatcher.Dispatcher
	logger         Logger
}

// NewSubmissionService creates a new SubmissionService. The dispatcher may
// be nil when no event listeners are wired.
func NewSubmissionService(
	submissionRepo port.SubmissionRepository,
	bagRepo port.BagRepository,
	transitionRepo port.TransitionRepository,
	txManager port.TransactionManager,
	events dispatcher.Dispatcher,
	logger Logger,
) SubmissionService {
	return &submissionServiceImpl{
		submissionRepo: submissionRepo,
		bagRepo:        bagRepo,
		transitionRepo: transitionRepo,
		txManager:      txManager,
		events:         events,
		logger:         logger,
	}
}

// publish emits a domain event asynchronously after a committed change
func (s *submissionServiceImpl) publish(ctx context.Context, evt *event.Event) {
	if s.events == nil {
		return
	}
	// Listeners must outlive the originating request
	s.events.DispatchAsync(context.WithoutCancel(ctx), evt)
}

// Create creates a new draft submission at the first workflow phase.
// Idempotent on case number: re-submitting an existing case returns the
// stored submission.
func (s *submissionServiceImpl) Create(ctx context.Context, input CreateSubmissionInput) (*entity.Submission, error) {
	existing, err := s.submissionRepo.GetByCaseNumber(ctx, input.CaseNumber)
	if err == nil && existing != nil {
		s.logger.Info("Submission already exists", "case_number", input.CaseNumber, "id", existing.ID)
		return existing, nil
	}

	receivedAt := input.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	sub := &entity.Submission{
		CaseNumber:    input.CaseNumber,
		Phase:         phase.DataEntryStart,
		IsDraft:       true,
		PoliceOfficer: input.PoliceOfficer,
		PoliceStation: input.PoliceStation,
		Defendants:    input.Defendants,
		ReceivedAt:    receivedAt,
	}

	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		s.logger.Error("Failed to create submission", "error", err, "case_number", input.CaseNumber)
		return nil, err
	}

	s.logger.Info("Submission created", "id", sub.ID, "case_number", sub.CaseNumber)
	s.publish(ctx, event.NewEvent(event.TypeSubmissionCreated, sub.ID, sub.CaseNumber, nil))
	return sub, nil
}

// Get retrieves a submission with its bags loaded
func (s *submissionServiceImpl) Get(ctx context.Context, id int64) (*entity.Submission, error) {
	sub, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get submission", "error", err, "id", id)
		return nil, err
	}
	if sub == nil {
		return nil, ErrNotFound
	}

	bags, err := s.bagRepo.GetBySubmissionID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load bags: %w", err)
	}
	sub.Bags = bags
	return sub, nil
}

// List returns submissions ordered most recent first
func (s *submissionServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Submission, error) {
	return s.submissionRepo.List(ctx, limit, offset)
}

// AssignPersonnel sets the approved botanist and finance officer
func (s *submissionServiceImpl) AssignPersonnel(ctx context.Context, id int64, botanistID, financeOfficerID *int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.submissionRepo.UpdatePersonnel(ctx, id, botanistID, financeOfficerID)
}

// AddBag attaches a new drug bag to the submission
func (s *submissionServiceImpl) AddBag(ctx context.Context, submissionID int64, bag *entity.DrugBag) error {
	if _, err := s.Get(ctx, submissionID); err != nil {
		return err
	}
	bag.SubmissionID = submissionID
	if err := s.bagRepo.Create(ctx, bag); err != nil {
		s.logger.Error("Failed to add bag", "error", err, "submission_id", submissionID)
		return err
	}
	return nil
}

// RemoveBag deletes a bag from the submission
func (s *submissionServiceImpl) RemoveBag(ctx context.Context, submissionID, bagID int64) error {
	if _, err := s.Get(ctx, submissionID); err != nil {
		return err
	}
	return s.bagRepo.Delete(ctx, bagID)
}

// RecordAssessment stores the botanist's determination for a bag
func (s *submissionServiceImpl) RecordAssessment(ctx context.Context, submissionID, bagID int64, assessment *entity.Assessment) error {
	if !entity.ValidDeterminations[assessment.Determination] {
		return fmt.Errorf("%w: %s", ErrInvalidDetermination, assessment.Determination)
	}
	if _, err := s.Get(ctx, submissionID); err != nil {
		return err
	}

	if assessment.AssessedAt == nil {
		now := time.Now()
		assessment.AssessedAt = &now
	}

	if err := s.bagRepo.RecordAssessment(ctx, bagID, assessment); err != nil {
		s.logger.Error("Failed to record assessment", "error", err, "bag_id", bagID)
		return err
	}

	s.logger.Info("Assessment recorded",
		"submission_id", submissionID,
		"bag_id", bagID,
		"determination", assessment.Determination)
	return nil
}

// FinalizeDraft clears the draft flag once data entry is complete
func (s *submissionServiceImpl) FinalizeDraft(ctx context.Context, id int64) error {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.submissionRepo.SetDraft(ctx, id, false); err != nil {
		return err
	}
	s.publish(ctx, event.NewEvent(event.TypeSubmissionFinalized, id, sub.CaseNumber, nil))
	return nil
}

// AdvancePhase moves a submission one step forward. The target must be the
// registry successor of the current phase; phase skipping is never allowed
// on the forward path. The phase change and its history record are written
// in one transaction.
func (s *submissionServiceImpl) AdvancePhase(ctx context.Context, id int64, target phase.Phase, actorRole string) error {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	next, ok := sub.Phase.Next()
	if !ok || next != target {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTarget, sub.Phase, target)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.submissionRepo.UpdatePhase(txCtx, id, target); err != nil {
			return fmt.Errorf("update phase: %w", err)
		}

		tr := &entity.PhaseTransition{
			SubmissionID: id,
			FromPhase:    sub.Phase,
			ToPhase:      target,
			Direction:    entity.DirectionForward,
			ActorRole:    actorRole,
			OccurredAt:   time.Now(),
		}
		if err := s.transitionRepo.Create(txCtx, tr); err != nil {
			return fmt.Errorf("record transition: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to advance phase", "error", err, "id", id, "target", target.String())
		return err
	}

	s.logger.Info("Phase advanced",
		"id", id,
		"from", sub.Phase.String(),
		"to", target.String(),
		"actor_role", actorRole)
	s.publish(ctx, event.NewPhaseAdvanced(id, sub.CaseNumber, sub.Phase, target, actorRole))
	return nil
}

// SendBack moves a submission to a strictly earlier phase with a recorded
// reason. This is the only path that moves a submission backward.
func (s *submissionServiceImpl) SendBack(ctx context.Context, id int64, target phase.Phase, actorRole, reason string) error {
	if reason == "" {
		return ErrReasonRequired
	}

	sub, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !target.IsValid() || !target.Before(sub.Phase) {
		return fmt.Errorf("%w: %s -> %s", ErrNotEarlierPhase, sub.Phase, target)
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.submissionRepo.UpdatePhase(txCtx, id, target); err != nil {
			return fmt.Errorf("update phase: %w", err)
		}

		tr := &entity.PhaseTransition{
			SubmissionID: id,
			FromPhase:    sub.Phase,
			ToPhase:      target,
			Direction:    entity.DirectionSendBack,
			ActorRole:    actorRole,
			Reason:       reason,
			OccurredAt:   time.Now(),
		}
		if err := s.transitionRepo.Create(txCtx, tr); err != nil {
			return fmt.Errorf("record transition: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to send back", "error", err, "id", id, "target", target.String())
		return err
	}

	s.logger.Info("Submission sent back",
		"id", id,
		"from", sub.Phase.String(),
		"to", target.String(),
		"reason", reason)
	s.publish(ctx, event.NewPhaseSentBack(id, sub.CaseNumber, sub.Phase, target, actorRole, reason))
	return nil
}

// History returns the submission's recorded phase transitions
func (s *submissionServiceImpl) History(ctx context.Context, id int64) ([]*entity.PhaseTransition, error) {
	return s.transitionRepo.GetBySubmissionID(ctx, id)
}
