package entity

// Determination constants for bag assessments. "pending" marks a bag the
// botanist has not yet assessed.
const (
	DeterminationPending       = "pending"
	DeterminationSativa        = "cannabis_sativa"
	DeterminationIndica        = "cannabis_indica"
	DeterminationInconclusive  = "inconclusive"
	DeterminationNotCannabis   = "not_cannabis"
)

// Transition direction constants for PhaseTransition
const (
	DirectionForward  = "FORWARD"
	DirectionSendBack = "SEND_BACK"
)

// Document kind constants
const (
	DocumentKindCertificate = "CERTIFICATE"
	DocumentKindInvoice     = "INVOICE"
)

// Notification status constants
const (
	NotificationStatusPending = "PENDING"
	NotificationStatusSent    = "SENT"
	NotificationStatusFailed  = "FAILED"
)

// Notification kind constants
const (
	NotificationKindCertificate = "CERTIFICATE"
	NotificationKindInvoice     = "INVOICE"
)

// ValidDeterminations lists every accepted determination value
var ValidDeterminations = map[string]bool{
	DeterminationPending:      true,
	DeterminationSativa:       true,
	DeterminationIndica:       true,
	DeterminationInconclusive: true,
	DeterminationNotCannabis:  true,
}
