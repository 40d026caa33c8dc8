package email

import (
	"context"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testSender(send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error) *Sender {
	s := NewSender(Config{
		Host:      "smtp.example.com",
		Port:      587,
		Username:  "lab",
		Password:  "secret",
		FromName:  "HerboLab",
		FromEmail: "lab@example.com",
	}, zap.NewNop())
	s.send = send
	return s
}

func TestSend_DeliversMultipartMessage(t *testing.T) {
	dir := t.TempDir()
	attachment := filepath.Join(dir, "certificate.xlsx")
	require.NoError(t, os.WriteFile(attachment, []byte("workbook-bytes"), 0644))

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	s := testSender(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	})

	err := s.Send(context.Background(), "officer@police.example", "Certificate of Analysis", "Please find attached.", []string{attachment})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "lab@example.com", gotFrom)
	assert.Equal(t, []string{"officer@police.example"}, gotTo)

	msg := string(gotMsg)
	assert.Contains(t, msg, "To: officer@police.example")
	assert.Contains(t, msg, "Subject: Certificate of Analysis")
	assert.Contains(t, msg, "multipart/mixed")
	assert.Contains(t, msg, `filename="certificate.xlsx"`)
	assert.Contains(t, msg, "Please find attached.")
}

func TestSend_MissingAttachmentFails(t *testing.T) {
	called := false
	s := testSender(func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		called = true
		return nil
	})

	err := s.Send(context.Background(), "officer@police.example", "Invoice", "body", []string{"/nonexistent/invoice.xlsx"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read attachment")
	assert.False(t, called)
}

func TestBuildMessage_WrapsBase64Lines(t *testing.T) {
	dir := t.TempDir()
	attachment := filepath.Join(dir, "big.bin")
	require.NoError(t, os.WriteFile(attachment, make([]byte, 600), 0644))

	s := testSender(nil)
	msg, err := s.buildMessage("a@b.c", "s", "b", []string{attachment})
	require.NoError(t, err)

	for _, line := range strings.Split(string(msg), "\r\n") {
		assert.LessOrEqual(t, len(line), 200)
	}
}
