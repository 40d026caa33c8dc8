package service

import (
	"context"
	"errors"
	"testing"

	"github.com/herbolab/submission-workflow/internal/application/dispatcher"
	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/event"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

type mockDocumentService struct {
	generateCertificateFunc func(ctx context.Context, submissionID int64) (*entity.Document, error)
	generateInvoiceFunc     func(ctx context.Context, submissionID int64) (*entity.Document, error)
}

func (m *mockDocumentService) GenerateCertificate(ctx context.Context, submissionID int64) (*entity.Document, error) {
	if m.generateCertificateFunc != nil {
		return m.generateCertificateFunc(ctx, submissionID)
	}
	return &entity.Document{}, nil
}

func (m *mockDocumentService) GenerateInvoice(ctx context.Context, submissionID int64) (*entity.Document, error) {
	if m.generateInvoiceFunc != nil {
		return m.generateInvoiceFunc(ctx, submissionID)
	}
	return &entity.Document{}, nil
}

func (m *mockDocumentService) ListDocuments(ctx context.Context, submissionID int64) ([]*entity.Document, error) {
	return nil, nil
}

func registeredAutomation(docs DocumentService) dispatcher.Dispatcher {
	d := dispatcher.NewDispatcher(nopLogger{})
	NewAutomation(docs, nopLogger{}).Register(d)
	return d
}

func TestAutomation_CertificatePhaseTriggersGeneration(t *testing.T) {
	var certCalls, invoiceCalls int
	docs := &mockDocumentService{
		generateCertificateFunc: func(ctx context.Context, submissionID int64) (*entity.Document, error) {
			certCalls++
			if submissionID != 42 {
				t.Errorf("GenerateCertificate got submission %d, want 42", submissionID)
			}
			return &entity.Document{}, nil
		},
		generateInvoiceFunc: func(ctx context.Context, submissionID int64) (*entity.Document, error) {
			invoiceCalls++
			return &entity.Document{}, nil
		},
	}

	d := registeredAutomation(docs)
	evt := event.NewPhaseAdvanced(42, "CAN-2026-0042", phase.InReview, phase.CertificateGeneration, "botanist")
	if err := d.Dispatch(context.Background(), evt); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if certCalls != 1 {
		t.Errorf("GenerateCertificate ran %d times, want 1", certCalls)
	}
	if invoiceCalls != 0 {
		t.Errorf("GenerateInvoice ran %d times, want 0", invoiceCalls)
	}
}

func TestAutomation_InvoicePhaseTriggersGeneration(t *testing.T) {
	var invoiceCalls int
	docs := &mockDocumentService{
		generateInvoiceFunc: func(ctx context.Context, submissionID int64) (*entity.Document, error) {
			invoiceCalls++
			return &entity.Document{}, nil
		},
	}

	d := registeredAutomation(docs)
	evt := event.NewPhaseAdvanced(7, "CAN-2026-0007", phase.CertificateGeneration, phase.InvoiceGeneration, "system")
	if err := d.Dispatch(context.Background(), evt); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if invoiceCalls != 1 {
		t.Errorf("GenerateInvoice ran %d times, want 1", invoiceCalls)
	}
}

func TestAutomation_ManualPhasesDoNothing(t *testing.T) {
	docs := &mockDocumentService{
		generateCertificateFunc: func(ctx context.Context, submissionID int64) (*entity.Document, error) {
			t.Error("GenerateCertificate should not run")
			return nil, nil
		},
		generateInvoiceFunc: func(ctx context.Context, submissionID int64) (*entity.Document, error) {
			t.Error("GenerateInvoice should not run")
			return nil, nil
		},
	}

	d := registeredAutomation(docs)
	for _, to := range []phase.Phase{phase.FinanceApprovalProvided, phase.InReview, phase.SendingEmails, phase.Complete} {
		evt := event.NewPhaseAdvanced(1, "CAN-2026-0001", phase.DataEntryStart, to, "finance")
		if err := d.Dispatch(context.Background(), evt); err != nil {
			t.Fatalf("Dispatch(%s) error = %v", to, err)
		}
	}
}

func TestAutomation_GenerationErrorPropagates(t *testing.T) {
	wantErr := errors.New("disk full")
	docs := &mockDocumentService{
		generateCertificateFunc: func(ctx context.Context, submissionID int64) (*entity.Document, error) {
			return nil, wantErr
		},
	}

	d := registeredAutomation(docs)
	evt := event.NewPhaseAdvanced(1, "CAN-2026-0001", phase.InReview, phase.CertificateGeneration, "botanist")
	if err := d.Dispatch(context.Background(), evt); !errors.Is(err, wantErr) {
		t.Fatalf("Dispatch() error = %v, want wrapped %v", err, wantErr)
	}
}
