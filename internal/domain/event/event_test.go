package event

import (
	"testing"

	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

func TestType_String(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      string
	}{
		{
			name:      "submission created",
			eventType: TypeSubmissionCreated,
			want:      "submission.created",
		},
		{
			name:      "submission finalized",
			eventType: TypeSubmissionFinalized,
			want:      "submission.finalized",
		},
		{
			name:      "phase advanced",
			eventType: TypePhaseAdvanced,
			want:      "phase.advanced",
		},
		{
			name:      "phase sent back",
			eventType: TypePhaseSentBack,
			want:      "phase.sent_back",
		},
		{
			name:      "document generated",
			eventType: TypeDocumentGenerated,
			want:      "document.generated",
		},
		{
			name:      "notifications completed",
			eventType: TypeNotificationsCompleted,
			want:      "notifications.completed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.String(); got != tt.want {
				t.Errorf("Type.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestType_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		eventType Type
		want      bool
	}{
		{
			name:      "valid - phase advanced",
			eventType: TypePhaseAdvanced,
			want:      true,
		},
		{
			name:      "valid - phase sent back",
			eventType: TypePhaseSentBack,
			want:      true,
		},
		{
			name:      "valid - document generated",
			eventType: TypeDocumentGenerated,
			want:      true,
		},
		{
			name:      "invalid - unknown type",
			eventType: Type("unknown.type"),
			want:      false,
		},
		{
			name:      "invalid - empty string",
			eventType: Type(""),
			want:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.eventType.IsValid(); got != tt.want {
				t.Errorf("Type.IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"to_phase": "in_review",
		"bags":     3,
	}

	evt := NewEvent(TypePhaseAdvanced, 123, "CAN-2026-0042", payload)

	if evt == nil {
		t.Fatal("NewEvent() returned nil")
	}

	if evt.ID == "" {
		t.Error("Event ID should not be empty")
	}

	if evt.Type != TypePhaseAdvanced {
		t.Errorf("Event Type = %v, want %v", evt.Type, TypePhaseAdvanced)
	}

	if evt.SubmissionID != 123 {
		t.Errorf("Event SubmissionID = %v, want %v", evt.SubmissionID, 123)
	}

	if evt.CaseNumber != "CAN-2026-0042" {
		t.Errorf("Event CaseNumber = %v, want %v", evt.CaseNumber, "CAN-2026-0042")
	}

	if evt.Timestamp.IsZero() {
		t.Error("Event Timestamp should not be zero")
	}

	if evt.GetPayloadString("to_phase") != "in_review" {
		t.Errorf("GetPayloadString(to_phase) = %v, want in_review", evt.GetPayloadString("to_phase"))
	}

	if evt.GetPayloadInt("bags") != 3 {
		t.Errorf("GetPayloadInt(bags) = %v, want 3", evt.GetPayloadInt("bags"))
	}
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	a := NewEvent(TypeSubmissionCreated, 1, "CAN-2026-0001", nil)
	b := NewEvent(TypeSubmissionCreated, 1, "CAN-2026-0001", nil)

	if a.ID == b.ID {
		t.Errorf("expected distinct event IDs, both were %s", a.ID)
	}
}

func TestNewPhaseAdvanced(t *testing.T) {
	evt := NewPhaseAdvanced(7, "CAN-2026-0007", phase.InReview, phase.CertificateGeneration, "botanist")

	if evt.Type != TypePhaseAdvanced {
		t.Errorf("Type = %v, want %v", evt.Type, TypePhaseAdvanced)
	}
	if evt.GetPayloadString("from_phase") != "in_review" {
		t.Errorf("from_phase = %v, want in_review", evt.GetPayloadString("from_phase"))
	}
	if evt.ToPhase() != phase.CertificateGeneration {
		t.Errorf("ToPhase() = %v, want %v", evt.ToPhase(), phase.CertificateGeneration)
	}
	if evt.GetPayloadString("actor_role") != "botanist" {
		t.Errorf("actor_role = %v, want botanist", evt.GetPayloadString("actor_role"))
	}
}

func TestNewPhaseSentBack(t *testing.T) {
	evt := NewPhaseSentBack(7, "CAN-2026-0007", phase.InReview, phase.DataEntryStart, "finance", "missing weights")

	if evt.Type != TypePhaseSentBack {
		t.Errorf("Type = %v, want %v", evt.Type, TypePhaseSentBack)
	}
	if evt.ToPhase() != phase.DataEntryStart {
		t.Errorf("ToPhase() = %v, want %v", evt.ToPhase(), phase.DataEntryStart)
	}
	if evt.GetPayloadString("reason") != "missing weights" {
		t.Errorf("reason = %v, want missing weights", evt.GetPayloadString("reason"))
	}
}

func TestGetPayload_MissingKeys(t *testing.T) {
	evt := NewEvent(TypePhaseAdvanced, 1, "CAN-2026-0001", nil)

	if got := evt.GetPayloadString("absent"); got != "" {
		t.Errorf("GetPayloadString(absent) = %q, want empty", got)
	}
	if got := evt.GetPayloadInt("absent"); got != 0 {
		t.Errorf("GetPayloadInt(absent) = %d, want 0", got)
	}
}
