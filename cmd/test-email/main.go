package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/herbolab/submission-workflow/internal/config"
	"github.com/herbolab/submission-workflow/internal/email"
)

// Isolated test for SMTP delivery. Sends a plain test message to the given
// recipient without touching the database or the workflow.
func main() {
	fmt.Println("=== SMTP Delivery Test ===")

	if len(os.Args) < 2 {
		fmt.Println("usage: test-email <recipient> [attachment...]")
		os.Exit(1)
	}
	recipient := os.Args[1]
	attachments := os.Args[2:]

	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fmt.Printf("SMTP host: %s:%d\n", cfg.Email.Host, cfg.Email.Port)
	fmt.Printf("From: %s <%s>\n", cfg.Email.SenderName, cfg.Email.FromEmail)
	fmt.Printf("To: %s (%d attachments)\n", recipient, len(attachments))

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	sender := email.NewSender(email.Config{
		Host:      cfg.Email.Host,
		Port:      cfg.Email.Port,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		FromName:  cfg.Email.SenderName,
		FromEmail: cfg.Email.FromEmail,
	}, logger)

	err = sender.Send(context.Background(), recipient,
		"Submission workflow SMTP test",
		"This is a test message from the submission workflow service.",
		attachments)
	if err != nil {
		log.Fatalf("Send failed: %v", err)
	}

	fmt.Println("✓ Message sent")
}
