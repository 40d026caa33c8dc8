// Package email delivers workflow notification emails over SMTP.
package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Config holds SMTP configuration
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// Sender sends notification emails with document attachments
type Sender struct {
	cfg    Config
	logger *zap.Logger

	// send is swappable for tests; defaults to smtp.SendMail
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSender creates a new SMTP sender
func NewSender(cfg Config, logger *zap.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// Send delivers one email with the given file attachments
func (s *Sender) Send(ctx context.Context, recipient, subject, body string, attachments []string) error {
	s.logger.Info("Sending email",
		zap.String("recipient", recipient),
		zap.String("subject", subject),
		zap.Int("attachments", len(attachments)))

	msg, err := s.buildMessage(recipient, subject, body, attachments)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := s.send(addr, auth, s.cfg.FromEmail, []string{recipient}, msg); err != nil {
		s.logger.Error("Failed to send email",
			zap.String("recipient", recipient),
			zap.Error(err))
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

const mimeBoundary = "herbolab-mime-boundary"

// buildMessage assembles a multipart/mixed MIME message with base64
// encoded attachments
func (s *Sender) buildMessage(recipient, subject, body string, attachments []string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", s.cfg.FromName), s.cfg.FromEmail)
	fmt.Fprintf(&buf, "To: %s\r\n", recipient)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mimeBoundary)

	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n")

	for _, path := range attachments {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attachment %s: %w", path, err)
		}

		fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
		buf.WriteString("Content-Type: application/octet-stream\r\n")
		buf.WriteString("Content-Transfer-Encoding: base64\r\n")
		fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", filepath.Base(path))

		encoded := base64.StdEncoding.EncodeToString(data)
		for len(encoded) > 76 {
			buf.WriteString(encoded[:76])
			buf.WriteString("\r\n")
			encoded = encoded[76:]
		}
		buf.WriteString(encoded)
		buf.WriteString("\r\n")
	}

	fmt.Fprintf(&buf, "--%s--\r\n", mimeBoundary)
	return buf.Bytes(), nil
}
