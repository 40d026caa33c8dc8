package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/herbolab/submission-workflow/internal/application/port"
	"github.com/herbolab/submission-workflow/internal/domain/entity"
)

// DocumentRepository implements port.DocumentRepository
type DocumentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB, logger *zap.Logger) port.DocumentRepository {
	return &DocumentRepository{
		db:     db,
		logger: logger,
	}
}

// Create records a generated document
func (r *DocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (submission_id, kind, document_number, file_path, generated_at)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		doc.SubmissionID,
		doc.Kind,
		doc.DocumentNumber,
		doc.FilePath,
		doc.GeneratedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create document", zap.Error(err))
		return fmt.Errorf("create document: %w", err)
	}

	doc.ID, _ = result.LastInsertId()
	return nil
}

// GetBySubmissionID returns a submission's generated documents
func (r *DocumentRepository) GetBySubmissionID(ctx context.Context, submissionID int64) ([]*entity.Document, error) {
	query := `
		SELECT id, submission_id, kind, document_number, file_path, generated_at
		FROM documents
		WHERE submission_id = ?
		ORDER BY generated_at
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, submissionID)
	if err != nil {
		r.logger.Error("Failed to get documents", zap.Int64("submission_id", submissionID), zap.Error(err))
		return nil, fmt.Errorf("get documents: %w", err)
	}
	defer rows.Close()

	var docs []*entity.Document
	for rows.Next() {
		var doc entity.Document
		err := rows.Scan(&doc.ID, &doc.SubmissionID, &doc.Kind, &doc.DocumentNumber, &doc.FilePath, &doc.GeneratedAt)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// GetByKind returns the most recent document of the given kind, or
// (nil, nil) when none has been generated
func (r *DocumentRepository) GetByKind(ctx context.Context, submissionID int64, kind string) (*entity.Document, error) {
	query := `
		SELECT id, submission_id, kind, document_number, file_path, generated_at
		FROM documents
		WHERE submission_id = ? AND kind = ?
		ORDER BY generated_at DESC
		LIMIT 1
	`

	var doc entity.Document
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, submissionID, kind).Scan(
		&doc.ID, &doc.SubmissionID, &doc.Kind, &doc.DocumentNumber, &doc.FilePath, &doc.GeneratedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get document", zap.Int64("submission_id", submissionID), zap.String("kind", kind), zap.Error(err))
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

// Verify interface compliance
var _ port.DocumentRepository = (*DocumentRepository)(nil)
