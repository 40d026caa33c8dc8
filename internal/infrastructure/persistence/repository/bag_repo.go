package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/herbolab/submission-workflow/internal/application/port"
	"github.com/herbolab/submission-workflow/internal/domain/entity"
)

// BagRepository implements port.BagRepository
type BagRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBagRepository creates a new bag repository
func NewBagRepository(db *sql.DB, logger *zap.Logger) port.BagRepository {
	return &BagRepository{
		db:     db,
		logger: logger,
	}
}

// Create adds a drug bag to a submission
func (r *BagRepository) Create(ctx context.Context, bag *entity.DrugBag) error {
	query := `
		INSERT INTO drug_bags (submission_id, lab_number, gross_weight_g, net_weight_g)
		VALUES (?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		bag.SubmissionID,
		bag.LabNumber,
		bag.GrossWeightG,
		bag.NetWeightG,
	)
	if err != nil {
		r.logger.Error("Failed to create bag", zap.Error(err))
		return fmt.Errorf("create bag: %w", err)
	}

	bag.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	return nil
}

// GetBySubmissionID returns a submission's bags in insertion order
func (r *BagRepository) GetBySubmissionID(ctx context.Context, submissionID int64) ([]*entity.DrugBag, error) {
	query := `
		SELECT id, submission_id, lab_number, gross_weight_g, net_weight_g,
			determination, assessment_notes, assessed_by, assessed_at, created_at
		FROM drug_bags
		WHERE submission_id = ?
		ORDER BY id
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, submissionID)
	if err != nil {
		r.logger.Error("Failed to get bags", zap.Int64("submission_id", submissionID), zap.Error(err))
		return nil, fmt.Errorf("get bags: %w", err)
	}
	defer rows.Close()

	var bags []*entity.DrugBag
	for rows.Next() {
		var bag entity.DrugBag
		var determination, notes sql.NullString
		var assessedBy sql.NullInt64
		var assessedAt sql.NullTime

		err := rows.Scan(
			&bag.ID,
			&bag.SubmissionID,
			&bag.LabNumber,
			&bag.GrossWeightG,
			&bag.NetWeightG,
			&determination,
			&notes,
			&assessedBy,
			&assessedAt,
			&bag.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan bag: %w", err)
		}

		if determination.Valid {
			bag.Assessment = &entity.Assessment{
				Determination: determination.String,
				Notes:         notes.String,
			}
			if assessedBy.Valid {
				bag.Assessment.AssessedBy = &assessedBy.Int64
			}
			if assessedAt.Valid {
				bag.Assessment.AssessedAt = &assessedAt.Time
			}
		}
		bags = append(bags, &bag)
	}
	return bags, rows.Err()
}

// RecordAssessment stores the botanist's determination for a bag
func (r *BagRepository) RecordAssessment(ctx context.Context, bagID int64, assessment *entity.Assessment) error {
	query := `
		UPDATE drug_bags
		SET determination = ?, assessment_notes = ?, assessed_by = ?, assessed_at = ?
		WHERE id = ?
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		assessment.Determination,
		assessment.Notes,
		assessment.AssessedBy,
		assessment.AssessedAt,
		bagID,
	)
	if err != nil {
		r.logger.Error("Failed to record assessment", zap.Int64("bag_id", bagID), zap.Error(err))
		return fmt.Errorf("record assessment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("bag %d not found", bagID)
	}
	return nil
}

// Delete removes a bag
func (r *BagRepository) Delete(ctx context.Context, bagID int64) error {
	_, err := getExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM drug_bags WHERE id = ?`, bagID)
	if err != nil {
		r.logger.Error("Failed to delete bag", zap.Int64("bag_id", bagID), zap.Error(err))
		return fmt.Errorf("delete bag: %w", err)
	}
	return nil
}

// Verify interface compliance
var _ port.BagRepository = (*BagRepository)(nil)
