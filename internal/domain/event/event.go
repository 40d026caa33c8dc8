// Package event defines the domain events the workflow publishes as
// submissions move through their phases.
package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

// Event represents a domain event
type Event struct {
	ID           string                 `json:"id"`
	Type         Type                   `json:"type"`
	SubmissionID int64                  `json:"submission_id"`
	CaseNumber   string                 `json:"case_number"`
	Payload      map[string]interface{} `json:"payload"`
	Timestamp    time.Time              `json:"timestamp"`
}

// NewEvent creates a new domain event with auto-generated ID and timestamp
func NewEvent(eventType Type, submissionID int64, caseNumber string, payload map[string]interface{}) *Event {
	return &Event{
		ID:           uuid.NewString(),
		Type:         eventType,
		SubmissionID: submissionID,
		CaseNumber:   caseNumber,
		Payload:      payload,
		Timestamp:    time.Now().UTC(),
	}
}

// NewPhaseAdvanced builds the event published after a forward transition
func NewPhaseAdvanced(submissionID int64, caseNumber string, from, to phase.Phase, actorRole string) *Event {
	return NewEvent(TypePhaseAdvanced, submissionID, caseNumber, map[string]interface{}{
		"from_phase": from.String(),
		"to_phase":   to.String(),
		"actor_role": actorRole,
	})
}

// NewPhaseSentBack builds the event published after a send-back
func NewPhaseSentBack(submissionID int64, caseNumber string, from, to phase.Phase, actorRole, reason string) *Event {
	return NewEvent(TypePhaseSentBack, submissionID, caseNumber, map[string]interface{}{
		"from_phase": from.String(),
		"to_phase":   to.String(),
		"actor_role": actorRole,
		"reason":     reason,
	})
}

// ToPhase reads the destination phase from a transition event's payload
func (e *Event) ToPhase() phase.Phase {
	return phase.Phase(e.GetPayloadString("to_phase"))
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetPayloadInt retrieves an int64 value from the payload
func (e *Event) GetPayloadInt(key string) int64 {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}
