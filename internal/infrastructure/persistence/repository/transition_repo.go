package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/herbolab/submission-workflow/internal/application/port"
	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

// TransitionRepository implements port.TransitionRepository
type TransitionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTransitionRepository creates a new phase-transition history repository
func NewTransitionRepository(db *sql.DB, logger *zap.Logger) port.TransitionRepository {
	return &TransitionRepository{
		db:     db,
		logger: logger,
	}
}

// Create records one phase transition
func (r *TransitionRepository) Create(ctx context.Context, tr *entity.PhaseTransition) error {
	query := `
		INSERT INTO phase_transitions (
			submission_id, from_phase, to_phase, direction, actor_role, reason, occurred_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		tr.SubmissionID,
		tr.FromPhase.String(),
		tr.ToPhase.String(),
		tr.Direction,
		tr.ActorRole,
		tr.Reason,
		tr.OccurredAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transition", zap.Error(err))
		return fmt.Errorf("create transition: %w", err)
	}

	tr.ID, _ = result.LastInsertId()
	return nil
}

// GetBySubmissionID returns a submission's transition history oldest first
func (r *TransitionRepository) GetBySubmissionID(ctx context.Context, submissionID int64) ([]*entity.PhaseTransition, error) {
	query := `
		SELECT id, submission_id, from_phase, to_phase, direction, actor_role, reason, occurred_at
		FROM phase_transitions
		WHERE submission_id = ?
		ORDER BY occurred_at, id
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, submissionID)
	if err != nil {
		r.logger.Error("Failed to get transitions", zap.Int64("submission_id", submissionID), zap.Error(err))
		return nil, fmt.Errorf("get transitions: %w", err)
	}
	defer rows.Close()

	var transitions []*entity.PhaseTransition
	for rows.Next() {
		var tr entity.PhaseTransition
		var from, to string

		err := rows.Scan(
			&tr.ID,
			&tr.SubmissionID,
			&from,
			&to,
			&tr.Direction,
			&tr.ActorRole,
			&tr.Reason,
			&tr.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}

		tr.FromPhase = phase.Phase(from)
		tr.ToPhase = phase.Phase(to)
		transitions = append(transitions, &tr)
	}
	return transitions, rows.Err()
}

// Verify interface compliance
var _ port.TransitionRepository = (*TransitionRepository)(nil)
