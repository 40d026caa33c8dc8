package event

// Type identifies the type of domain event
type Type string

const (
	TypeSubmissionCreated      Type = "submission.created"
	TypeSubmissionFinalized    Type = "submission.finalized"
	TypePhaseAdvanced          Type = "phase.advanced"
	TypePhaseSentBack          Type = "phase.sent_back"
	TypeDocumentGenerated      Type = "document.generated"
	TypeNotificationsCompleted Type = "notifications.completed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeSubmissionCreated,
		TypeSubmissionFinalized,
		TypePhaseAdvanced,
		TypePhaseSentBack,
		TypeDocumentGenerated,
		TypeNotificationsCompleted:
		return true
	default:
		return false
	}
}
