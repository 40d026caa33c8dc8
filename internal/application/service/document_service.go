package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/herbolab/submission-workflow/internal/application/port"
	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

// ErrWrongPhase is returned when a generation or mailing operation is
// requested outside its workflow phase
var ErrWrongPhase = errors.New("submission is not in the required phase")

// DocumentGenerator produces certificate and invoice files on disk
type DocumentGenerator interface {
	GenerateCertificate(ctx context.Context, sub *entity.Submission, documentNumber, outputPath string) error
	GenerateInvoice(ctx context.Context, sub *entity.Submission, settings *entity.SystemSettings, documentNumber, outputPath string) error
}

// DocumentService drives the two automatic document-generation phases.
// Successful generation advances the workflow; the phases are never
// advanced manually.
type DocumentService interface {
	GenerateCertificate(ctx context.Context, submissionID int64) (*entity.Document, error)
	GenerateInvoice(ctx context.Context, submissionID int64) (*entity.Document, error)
	ListDocuments(ctx context.Context, submissionID int64) ([]*entity.Document, error)
}

type documentServiceImpl struct {
	submissions SubmissionService
	documents   port.DocumentRepository
	settings    port.SettingsProvider
	generator   DocumentGenerator
	outputDir   string
	logger      Logger
}

// NewDocumentService creates a new DocumentService writing artifacts under
// outputDir
func NewDocumentService(
	submissions SubmissionService,
	documents port.DocumentRepository,
	settings port.SettingsProvider,
	generator DocumentGenerator,
	outputDir string,
	logger Logger,
) DocumentService {
	return &documentServiceImpl{
		submissions: submissions,
		documents:   documents,
		settings:    settings,
		generator:   generator,
		outputDir:   outputDir,
		logger:      logger,
	}
}

// GenerateCertificate produces the certificate of analysis for a submission
// sitting at the certificate-generation phase and advances it to invoice
// generation.
func (s *documentServiceImpl) GenerateCertificate(ctx context.Context, submissionID int64) (*entity.Document, error) {
	sub, err := s.submissions.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Phase != phase.CertificateGeneration {
		return nil, fmt.Errorf("%w: %s, need %s", ErrWrongPhase, sub.Phase, phase.CertificateGeneration)
	}

	number := documentNumber("COA")
	outputPath := filepath.Join(s.outputDir, number+".xlsx")

	if err := s.generator.GenerateCertificate(ctx, sub, number, outputPath); err != nil {
		s.logger.Error("Certificate generation failed", "error", err, "submission_id", submissionID)
		return nil, fmt.Errorf("generate certificate: %w", err)
	}

	doc := &entity.Document{
		SubmissionID:   submissionID,
		Kind:           entity.DocumentKindCertificate,
		DocumentNumber: number,
		FilePath:       outputPath,
		GeneratedAt:    time.Now(),
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("persist certificate record: %w", err)
	}

	if err := s.submissions.AdvancePhase(ctx, submissionID, phase.InvoiceGeneration, "system"); err != nil {
		return nil, fmt.Errorf("advance after certificate: %w", err)
	}

	s.logger.Info("Certificate generated",
		"submission_id", submissionID,
		"document_number", number)
	return doc, nil
}

// GenerateInvoice produces the invoice from system pricing settings and
// advances the submission to the mailing phase.
func (s *documentServiceImpl) GenerateInvoice(ctx context.Context, submissionID int64) (*entity.Document, error) {
	sub, err := s.submissions.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Phase != phase.InvoiceGeneration {
		return nil, fmt.Errorf("%w: %s, need %s", ErrWrongPhase, sub.Phase, phase.InvoiceGeneration)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pricing settings: %w", err)
	}

	number := documentNumber("INV")
	outputPath := filepath.Join(s.outputDir, number+".xlsx")

	if err := s.generator.GenerateInvoice(ctx, sub, settings, number, outputPath); err != nil {
		s.logger.Error("Invoice generation failed", "error", err, "submission_id", submissionID)
		return nil, fmt.Errorf("generate invoice: %w", err)
	}

	doc := &entity.Document{
		SubmissionID:   submissionID,
		Kind:           entity.DocumentKindInvoice,
		DocumentNumber: number,
		FilePath:       outputPath,
		GeneratedAt:    time.Now(),
	}
	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("persist invoice record: %w", err)
	}

	if err := s.submissions.AdvancePhase(ctx, submissionID, phase.SendingEmails, "system"); err != nil {
		return nil, fmt.Errorf("advance after invoice: %w", err)
	}

	s.logger.Info("Invoice generated",
		"submission_id", submissionID,
		"document_number", number)
	return doc, nil
}

// ListDocuments returns the artifacts generated for a submission
func (s *documentServiceImpl) ListDocuments(ctx context.Context, submissionID int64) ([]*entity.Document, error) {
	return s.documents.GetBySubmissionID(ctx, submissionID)
}

// documentNumber builds a unique, human-scannable document number such as
// COA-2026-1a2b3c4d.
func documentNumber(prefix string) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().Year(), suffix)
}
