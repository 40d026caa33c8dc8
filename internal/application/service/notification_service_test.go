package service

import (
	"context"
	"errors"
	"testing"

	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

// mockSubmissions stubs the SubmissionService dependency
type mockSubmissions struct {
	SubmissionService
	getFunc      func(ctx context.Context, id int64) (*entity.Submission, error)
	advanceFunc  func(ctx context.Context, id int64, target phase.Phase, actorRole string) error
	advancedTo   []phase.Phase
}

func (m *mockSubmissions) Get(ctx context.Context, id int64) (*entity.Submission, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return &entity.Submission{ID: id, CaseNumber: "LAB-2026-0200", Phase: phase.SendingEmails}, nil
}

func (m *mockSubmissions) AdvancePhase(ctx context.Context, id int64, target phase.Phase, actorRole string) error {
	m.advancedTo = append(m.advancedTo, target)
	if m.advanceFunc != nil {
		return m.advanceFunc(ctx, id, target, actorRole)
	}
	return nil
}

type mockDocumentRepo struct {
	createFunc func(ctx context.Context, doc *entity.Document) error
	byKindFunc func(ctx context.Context, submissionID int64, kind string) (*entity.Document, error)
	created    []*entity.Document
}

func (m *mockDocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, doc)
	}
	m.created = append(m.created, doc)
	return nil
}

func (m *mockDocumentRepo) GetBySubmissionID(ctx context.Context, submissionID int64) ([]*entity.Document, error) {
	return m.created, nil
}

func (m *mockDocumentRepo) GetByKind(ctx context.Context, submissionID int64, kind string) (*entity.Document, error) {
	if m.byKindFunc != nil {
		return m.byKindFunc(ctx, submissionID, kind)
	}
	return &entity.Document{SubmissionID: submissionID, Kind: kind, FilePath: "/tmp/" + kind + ".xlsx"}, nil
}

// mockNotificationRepo keeps notifications in memory
type mockNotificationRepo struct {
	notifications []*entity.Notification
	nextID        int64
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	m.nextID++
	n.ID = m.nextID
	m.notifications = append(m.notifications, n)
	return nil
}

func (m *mockNotificationRepo) GetBySubmissionID(ctx context.Context, submissionID int64) ([]*entity.Notification, error) {
	return m.notifications, nil
}

func (m *mockNotificationRepo) GetPending(ctx context.Context, submissionID int64) ([]*entity.Notification, error) {
	var pending []*entity.Notification
	for _, n := range m.notifications {
		if n.Status == entity.NotificationStatusPending || n.Status == entity.NotificationStatusFailed {
			pending = append(pending, n)
		}
	}
	return pending, nil
}

func (m *mockNotificationRepo) MarkSent(ctx context.Context, id int64) error {
	for _, n := range m.notifications {
		if n.ID == id {
			n.Status = entity.NotificationStatusSent
		}
	}
	return nil
}

func (m *mockNotificationRepo) MarkFailed(ctx context.Context, id int64, errorMsg string) error {
	for _, n := range m.notifications {
		if n.ID == id {
			n.Status = entity.NotificationStatusFailed
			n.ErrorMessage = errorMsg
		}
	}
	return nil
}

type mockMailSender struct {
	sendFunc func(ctx context.Context, recipient, subject, body string, attachments []string) error
	sent     []string
}

func (m *mockMailSender) Send(ctx context.Context, recipient, subject, body string, attachments []string) error {
	if m.sendFunc != nil {
		if err := m.sendFunc(ctx, recipient, subject, body, attachments); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, recipient)
	return nil
}

func TestDispatch_SendsAndCompletes(t *testing.T) {
	subs := &mockSubmissions{}
	notifRepo := &mockNotificationRepo{}
	sender := &mockMailSender{}
	svc := NewNotificationService(subs, &mockDocumentRepo{}, notifRepo, sender, nopLogger{})

	err := svc.Dispatch(context.Background(), 1, DispatchInput{
		CertificateRecipient: "station@police.example",
		InvoiceRecipient:     "finance@lab.example",
	})
	if err != nil {
		t.Fatalf("Dispatch() error: %v", err)
	}

	if len(sender.sent) != 2 {
		t.Errorf("sent %d emails, want 2", len(sender.sent))
	}
	if len(subs.advancedTo) != 1 || subs.advancedTo[0] != phase.Complete {
		t.Errorf("advanced to %v, want [complete]", subs.advancedTo)
	}
	for _, n := range notifRepo.notifications {
		if n.Status != entity.NotificationStatusSent {
			t.Errorf("notification %d status = %s, want SENT", n.ID, n.Status)
		}
	}
}

func TestDispatch_WrongPhase(t *testing.T) {
	subs := &mockSubmissions{
		getFunc: func(ctx context.Context, id int64) (*entity.Submission, error) {
			return &entity.Submission{ID: id, Phase: phase.InReview}, nil
		},
	}
	svc := NewNotificationService(subs, &mockDocumentRepo{}, &mockNotificationRepo{}, &mockMailSender{}, nopLogger{})

	err := svc.Dispatch(context.Background(), 1, DispatchInput{CertificateRecipient: "x@example.com"})
	if !errors.Is(err, ErrWrongPhase) {
		t.Errorf("Dispatch() error = %v, want ErrWrongPhase", err)
	}
}

func TestDispatch_FailureRecordedNoAdvance(t *testing.T) {
	subs := &mockSubmissions{}
	notifRepo := &mockNotificationRepo{}
	sender := &mockMailSender{
		sendFunc: func(ctx context.Context, recipient, subject, body string, attachments []string) error {
			if recipient == "station@police.example" {
				return errors.New("smtp connect refused")
			}
			return nil
		},
	}
	svc := NewNotificationService(subs, &mockDocumentRepo{}, notifRepo, sender, nopLogger{})

	err := svc.Dispatch(context.Background(), 1, DispatchInput{
		CertificateRecipient: "station@police.example",
		InvoiceRecipient:     "finance@lab.example",
	})
	if err == nil {
		t.Fatal("Dispatch() should report the failed notification")
	}

	if len(subs.advancedTo) != 0 {
		t.Error("workflow must not advance while a notification is unsent")
	}

	var failed *entity.Notification
	for _, n := range notifRepo.notifications {
		if n.Status == entity.NotificationStatusFailed {
			failed = n
		}
	}
	if failed == nil {
		t.Fatal("failed notification should be recorded")
	}
	if failed.ErrorMessage == "" {
		t.Error("failure should carry the error message")
	}
}

func TestRetryPending_CompletesAfterFix(t *testing.T) {
	subs := &mockSubmissions{}
	notifRepo := &mockNotificationRepo{}
	notifRepo.notifications = []*entity.Notification{
		{ID: 1, SubmissionID: 1, Kind: entity.NotificationKindInvoice, Recipient: "finance@lab.example", Status: entity.NotificationStatusFailed},
	}
	notifRepo.nextID = 1
	sender := &mockMailSender{}
	svc := NewNotificationService(subs, &mockDocumentRepo{}, notifRepo, sender, nopLogger{})

	if err := svc.RetryPending(context.Background(), 1); err != nil {
		t.Fatalf("RetryPending() error: %v", err)
	}
	if len(subs.advancedTo) != 1 || subs.advancedTo[0] != phase.Complete {
		t.Errorf("advanced to %v, want [complete]", subs.advancedTo)
	}
}
