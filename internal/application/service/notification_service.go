package service

import (
	"context"
	"fmt"
	"time"

	"github.com/herbolab/submission-workflow/internal/application/port"
	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

// DispatchInput names the recipients for a submission's outbound emails
type DispatchInput struct {
	CertificateRecipient string
	InvoiceRecipient     string
}

// NotificationService drives the sending_emails phase: it queues one
// notification per recipient, delivers them, and advances the workflow to
// complete once every notification is sent.
type NotificationService interface {
	Dispatch(ctx context.Context, submissionID int64, input DispatchInput) error
	RetryPending(ctx context.Context, submissionID int64) error
	ListNotifications(ctx context.Context, submissionID int64) ([]*entity.Notification, error)
}

type notificationServiceImpl struct {
	submissions   SubmissionService
	documents     port.DocumentRepository
	notifications port.NotificationRepository
	sender        port.MailSender
	logger        Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	submissions SubmissionService,
	documents port.DocumentRepository,
	notifications port.NotificationRepository,
	sender port.MailSender,
	logger Logger,
) NotificationService {
	return &notificationServiceImpl{
		submissions:   submissions,
		documents:     documents,
		notifications: notifications,
		sender:        sender,
		logger:        logger,
	}
}

// Dispatch queues and sends the certificate and invoice emails for a
// submission at the mailing phase. Failed sends are recorded for operator
// retry; they never retry automatically.
func (s *notificationServiceImpl) Dispatch(ctx context.Context, submissionID int64, input DispatchInput) error {
	sub, err := s.submissions.Get(ctx, submissionID)
	if err != nil {
		return err
	}
	if sub.Phase != phase.SendingEmails {
		return fmt.Errorf("%w: %s, need %s", ErrWrongPhase, sub.Phase, phase.SendingEmails)
	}

	if input.CertificateRecipient != "" {
		if err := s.queue(ctx, submissionID, entity.NotificationKindCertificate, input.CertificateRecipient); err != nil {
			return err
		}
	}
	if input.InvoiceRecipient != "" {
		if err := s.queue(ctx, submissionID, entity.NotificationKindInvoice, input.InvoiceRecipient); err != nil {
			return err
		}
	}

	return s.sendPending(ctx, sub)
}

// RetryPending re-attempts delivery for notifications that have not been
// sent yet, typically after an operator fixed a mail problem.
func (s *notificationServiceImpl) RetryPending(ctx context.Context, submissionID int64) error {
	sub, err := s.submissions.Get(ctx, submissionID)
	if err != nil {
		return err
	}
	if sub.Phase != phase.SendingEmails {
		return fmt.Errorf("%w: %s, need %s", ErrWrongPhase, sub.Phase, phase.SendingEmails)
	}
	return s.sendPending(ctx, sub)
}

// ListNotifications returns a submission's notification records
func (s *notificationServiceImpl) ListNotifications(ctx context.Context, submissionID int64) ([]*entity.Notification, error) {
	return s.notifications.GetBySubmissionID(ctx, submissionID)
}

func (s *notificationServiceImpl) queue(ctx context.Context, submissionID int64, kind, recipient string) error {
	n := &entity.Notification{
		SubmissionID: submissionID,
		Kind:         kind,
		Recipient:    recipient,
		Status:       entity.NotificationStatusPending,
		CreatedAt:    time.Now(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("queue %s notification: %w", kind, err)
	}
	return nil
}

// sendPending delivers every pending notification and advances the
// workflow to complete when none remain unsent.
func (s *notificationServiceImpl) sendPending(ctx context.Context, sub *entity.Submission) error {
	pending, err := s.notifications.GetPending(ctx, sub.ID)
	if err != nil {
		return fmt.Errorf("load pending notifications: %w", err)
	}

	failures := 0
	for _, n := range pending {
		if err := s.deliver(ctx, sub, n); err != nil {
			failures++
			s.logger.Error("Notification delivery failed",
				"notification_id", n.ID,
				"recipient", n.Recipient,
				"error", err)
			if markErr := s.notifications.MarkFailed(ctx, n.ID, err.Error()); markErr != nil {
				return fmt.Errorf("mark notification failed: %w", markErr)
			}
			continue
		}
		if err := s.notifications.MarkSent(ctx, n.ID); err != nil {
			return fmt.Errorf("mark notification sent: %w", err)
		}
		s.logger.Info("Notification sent",
			"submission_id", sub.ID,
			"kind", n.Kind,
			"recipient", n.Recipient)
	}

	if failures > 0 {
		return fmt.Errorf("%d notification(s) failed to send", failures)
	}

	remaining, err := s.notifications.GetPending(ctx, sub.ID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		if err := s.submissions.AdvancePhase(ctx, sub.ID, phase.Complete, "system"); err != nil {
			return fmt.Errorf("advance after mailing: %w", err)
		}
	}
	return nil
}

func (s *notificationServiceImpl) deliver(ctx context.Context, sub *entity.Submission, n *entity.Notification) error {
	var docKind, subject, body string
	switch n.Kind {
	case entity.NotificationKindCertificate:
		docKind = entity.DocumentKindCertificate
		subject = fmt.Sprintf("Certificate of analysis - case %s", sub.CaseNumber)
		body = fmt.Sprintf("Please find attached the certificate of analysis for case %s.", sub.CaseNumber)
	case entity.NotificationKindInvoice:
		docKind = entity.DocumentKindInvoice
		subject = fmt.Sprintf("Invoice - case %s", sub.CaseNumber)
		body = fmt.Sprintf("Please find attached the invoice for case %s.", sub.CaseNumber)
	default:
		return fmt.Errorf("unknown notification kind: %s", n.Kind)
	}

	doc, err := s.documents.GetByKind(ctx, sub.ID, docKind)
	if err != nil {
		return fmt.Errorf("load %s document: %w", docKind, err)
	}
	if doc == nil {
		return fmt.Errorf("no %s document generated for submission %d", docKind, sub.ID)
	}

	return s.sender.Send(ctx, n.Recipient, subject, body, []string{doc.FilePath})
}
