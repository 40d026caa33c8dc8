package port

import (
	"context"

	"github.com/herbolab/submission-workflow/internal/domain/entity"
)

// MailSender delivers workflow notification emails
type MailSender interface {
	Send(ctx context.Context, recipient, subject, body string, attachments []string) error
}

// SettingsProvider exposes the cached system pricing settings
type SettingsProvider interface {
	Get(ctx context.Context) (*entity.SystemSettings, error)
}
