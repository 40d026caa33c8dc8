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

// SubmissionRepository implements port.SubmissionRepository
type SubmissionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *sql.DB, logger *zap.Logger) port.SubmissionRepository {
	return &SubmissionRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new submission together with its defendants
func (r *SubmissionRepository) Create(ctx context.Context, sub *entity.Submission) error {
	query := `
		INSERT INTO submissions (
			case_number, phase, is_draft, approved_botanist_id, finance_officer_id,
			police_officer, police_station, received_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		sub.CaseNumber,
		sub.Phase.String(),
		sub.IsDraft,
		sub.ApprovedBotanistID,
		sub.FinanceOfficerID,
		sub.PoliceOfficer,
		sub.PoliceStation,
		sub.ReceivedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create submission", zap.Error(err))
		return fmt.Errorf("create submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	sub.ID = id

	for i := range sub.Defendants {
		if err := r.insertDefendant(ctx, id, &sub.Defendants[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SubmissionRepository) insertDefendant(ctx context.Context, submissionID int64, d *entity.Defendant) error {
	result, err := getExecutor(ctx, r.db).ExecContext(ctx,
		`INSERT INTO defendants (submission_id, full_name, id_number) VALUES (?, ?, ?)`,
		submissionID, d.FullName, d.IDNumber,
	)
	if err != nil {
		return fmt.Errorf("create defendant: %w", err)
	}
	d.ID, _ = result.LastInsertId()
	return nil
}

const submissionColumns = `
	id, case_number, phase, is_draft, approved_botanist_id, finance_officer_id,
	police_officer, police_station, received_at, created_at, updated_at
`

// GetByID retrieves a submission by ID, or (nil, nil) when absent
func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*entity.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE id = ?`
	return r.scanOne(ctx, getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
}

// GetByCaseNumber retrieves a submission by its case number
func (r *SubmissionRepository) GetByCaseNumber(ctx context.Context, caseNumber string) (*entity.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE case_number = ?`
	return r.scanOne(ctx, getExecutor(ctx, r.db).QueryRowContext(ctx, query, caseNumber))
}

func (r *SubmissionRepository) scanOne(ctx context.Context, row *sql.Row) (*entity.Submission, error) {
	var sub entity.Submission
	var phaseStr string
	var botanistID, financeID sql.NullInt64

	err := row.Scan(
		&sub.ID,
		&sub.CaseNumber,
		&phaseStr,
		&sub.IsDraft,
		&botanistID,
		&financeID,
		&sub.PoliceOfficer,
		&sub.PoliceStation,
		&sub.ReceivedAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get submission", zap.Error(err))
		return nil, fmt.Errorf("get submission: %w", err)
	}

	sub.Phase = phase.Phase(phaseStr)
	if botanistID.Valid {
		sub.ApprovedBotanistID = &botanistID.Int64
	}
	if financeID.Valid {
		sub.FinanceOfficerID = &financeID.Int64
	}

	if err := r.loadDefendants(ctx, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubmissionRepository) loadDefendants(ctx context.Context, sub *entity.Submission) error {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx,
		`SELECT id, full_name, id_number FROM defendants WHERE submission_id = ? ORDER BY id`,
		sub.ID,
	)
	if err != nil {
		return fmt.Errorf("load defendants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d entity.Defendant
		if err := rows.Scan(&d.ID, &d.FullName, &d.IDNumber); err != nil {
			return fmt.Errorf("scan defendant: %w", err)
		}
		sub.Defendants = append(sub.Defendants, d)
	}
	return rows.Err()
}

// UpdatePhase sets the submission's current workflow phase
func (r *SubmissionRepository) UpdatePhase(ctx context.Context, id int64, p phase.Phase) error {
	query := `UPDATE submissions SET phase = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query, p.String(), id)
	if err != nil {
		r.logger.Error("Failed to update phase", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("update phase: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("submission %d not found", id)
	}
	return nil
}

// UpdatePersonnel sets the assigned botanist and finance officer
func (r *SubmissionRepository) UpdatePersonnel(ctx context.Context, id int64, botanistID, financeOfficerID *int64) error {
	query := `
		UPDATE submissions
		SET approved_botanist_id = ?, finance_officer_id = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, botanistID, financeOfficerID, id)
	if err != nil {
		r.logger.Error("Failed to update personnel", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("update personnel: %w", err)
	}
	return nil
}

// SetDraft sets or clears the draft flag
func (r *SubmissionRepository) SetDraft(ctx context.Context, id int64, isDraft bool) error {
	query := `UPDATE submissions SET is_draft = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, isDraft, id)
	if err != nil {
		r.logger.Error("Failed to set draft flag", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("set draft: %w", err)
	}
	return nil
}

// List returns submissions most recent first
func (r *SubmissionRepository) List(ctx context.Context, limit, offset int) ([]*entity.Submission, error) {
	query := `SELECT ` + submissionColumns + ` FROM submissions ORDER BY created_at DESC LIMIT ? OFFSET ?`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list submissions", zap.Error(err))
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []*entity.Submission
	for rows.Next() {
		var sub entity.Submission
		var phaseStr string
		var botanistID, financeID sql.NullInt64

		err := rows.Scan(
			&sub.ID,
			&sub.CaseNumber,
			&phaseStr,
			&sub.IsDraft,
			&botanistID,
			&financeID,
			&sub.PoliceOfficer,
			&sub.PoliceStation,
			&sub.ReceivedAt,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}

		sub.Phase = phase.Phase(phaseStr)
		if botanistID.Valid {
			sub.ApprovedBotanistID = &botanistID.Int64
		}
		if financeID.Valid {
			sub.FinanceOfficerID = &financeID.Int64
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

// Verify interface compliance
var _ port.SubmissionRepository = (*SubmissionRepository)(nil)
