// Package port defines the interfaces the application layer depends on,
// implemented by the infrastructure layer.
package port

import (
	"context"

	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

// SubmissionRepository defines persistence operations for Submission
type SubmissionRepository interface {
	Create(ctx context.Context, sub *entity.Submission) error
	GetByID(ctx context.Context, id int64) (*entity.Submission, error)
	GetByCaseNumber(ctx context.Context, caseNumber string) (*entity.Submission, error)
	UpdatePhase(ctx context.Context, id int64, p phase.Phase) error
	UpdatePersonnel(ctx context.Context, id int64, botanistID, financeOfficerID *int64) error
	SetDraft(ctx context.Context, id int64, isDraft bool) error
	List(ctx context.Context, limit, offset int) ([]*entity.Submission, error)
}

// BagRepository defines persistence operations for DrugBag
type BagRepository interface {
	Create(ctx context.Context, bag *entity.DrugBag) error
	GetBySubmissionID(ctx context.Context, submissionID int64) ([]*entity.DrugBag, error)
	RecordAssessment(ctx context.Context, bagID int64, assessment *entity.Assessment) error
	Delete(ctx context.Context, bagID int64) error
}

// TransitionRepository defines persistence operations for PhaseTransition
// history records
type TransitionRepository interface {
	Create(ctx context.Context, tr *entity.PhaseTransition) error
	GetBySubmissionID(ctx context.Context, submissionID int64) ([]*entity.PhaseTransition, error)
}

// DocumentRepository defines persistence operations for generated documents
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	GetBySubmissionID(ctx context.Context, submissionID int64) ([]*entity.Document, error)
	GetByKind(ctx context.Context, submissionID int64, kind string) (*entity.Document, error)
}

// NotificationRepository defines persistence operations for outbound
// notification records
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	GetBySubmissionID(ctx context.Context, submissionID int64) ([]*entity.Notification, error)
	GetPending(ctx context.Context, submissionID int64) ([]*entity.Notification, error)
	MarkSent(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errorMsg string) error
}

// TransactionManager coordinates multi-repository writes
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
