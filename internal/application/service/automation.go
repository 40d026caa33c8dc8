package service

import (
	"context"

	"github.com/herbolab/submission-workflow/internal/application/dispatcher"
	"github.com/herbolab/submission-workflow/internal/domain/event"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

// Automation reacts to phase transitions. When a submission enters one of
// the automatic generation phases the matching document job runs under the
// system actor, which advances the workflow again on success. The chain
// stops at sending_emails, where recipients must be provided by a caller.
type Automation struct {
	documents DocumentService
	logger    Logger
}

// NewAutomation creates the document-generation automation
func NewAutomation(documents DocumentService, logger Logger) *Automation {
	return &Automation{
		documents: documents,
		logger:    logger,
	}
}

// Register subscribes the automation to phase-advanced events
func (a *Automation) Register(d dispatcher.Dispatcher) {
	d.Subscribe(event.TypePhaseAdvanced, "document-automation", a.handlePhaseAdvanced)
}

func (a *Automation) handlePhaseAdvanced(ctx context.Context, evt *event.Event) error {
	switch evt.ToPhase() {
	case phase.CertificateGeneration:
		a.logger.Info("Generating certificate automatically",
			"submission_id", evt.SubmissionID, "case_number", evt.CaseNumber)
		_, err := a.documents.GenerateCertificate(ctx, evt.SubmissionID)
		return err
	case phase.InvoiceGeneration:
		a.logger.Info("Generating invoice automatically",
			"submission_id", evt.SubmissionID, "case_number", evt.CaseNumber)
		_, err := a.documents.GenerateInvoice(ctx, evt.SubmissionID)
		return err
	default:
		return nil
	}
}
