package entity

import "time"

// Document records a generated certificate or invoice artifact
type Document struct {
	ID             int64     `json:"id"`
	SubmissionID   int64     `json:"submission_id"`
	Kind           string    `json:"kind"`
	DocumentNumber string    `json:"document_number"`
	FilePath       string    `json:"file_path"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Notification records a single outbound email for a submission
type Notification struct {
	ID           int64      `json:"id"`
	SubmissionID int64      `json:"submission_id"`
	Kind         string     `json:"kind"`
	Recipient    string     `json:"recipient"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}
