// Package phase defines the fixed, ordered sequence of workflow phases a
// forensic submission moves through, together with display metadata and the
// role-based advancement policy.
package phase

import (
	"fmt"
	"math"
)

// Phase represents one discrete stage of the submission approval workflow
type Phase string

const (
	DataEntryStart           Phase = "data_entry_start"
	FinanceApprovalProvided  Phase = "finance_approval_provided"
	BotanistApprovalProvided Phase = "botanist_approval_provided"
	InReview                 Phase = "in_review"
	CertificateGeneration    Phase = "certificate_generation_start"
	InvoiceGeneration        Phase = "invoice_generation_start"
	SendingEmails            Phase = "sending_emails"
	Complete                 Phase = "complete"
)

// ordered is the canonical phase sequence. Index positions are stable and
// drive progress computation; changing the order is a breaking change.
var ordered = []Phase{
	DataEntryStart,
	FinanceApprovalProvided,
	BotanistApprovalProvided,
	InReview,
	CertificateGeneration,
	InvoiceGeneration,
	SendingEmails,
	Complete,
}

var indexOf = func() map[Phase]int {
	m := make(map[Phase]int, len(ordered))
	for i, p := range ordered {
		m[p] = i
	}
	return m
}()

// meta holds display metadata for a phase
type meta struct {
	label       string
	icon        string
	description string
}

var phaseMeta = map[Phase]meta{
	DataEntryStart:           {"Data Entry", "edit", "Capture submission details, personnel and drug bags"},
	FinanceApprovalProvided:  {"Finance Approval", "payments", "Finance officer reviews and approves costs"},
	BotanistApprovalProvided: {"Botanist Review", "science", "Approved botanist records bag assessments"},
	InReview:                 {"Final Review", "fact_check", "Cross-check of entered data before document generation"},
	CertificateGeneration:    {"Certificate", "description", "Certificate of analysis is generated"},
	InvoiceGeneration:        {"Invoice", "receipt", "Invoice is generated from system pricing"},
	SendingEmails:            {"Notifications", "mail", "Certificate and invoice are emailed to recipients"},
	Complete:                 {"Complete", "done_all", "Workflow finished"},
}

// Ordered returns the fixed phase sequence. Callers must not mutate the
// returned slice; a fresh copy is handed out on every call.
func Ordered() []Phase {
	out := make([]Phase, len(ordered))
	copy(out, ordered)
	return out
}

// Count returns the number of phases in the sequence.
func Count() int {
	return len(ordered)
}

// IsValid returns true if p is a recognised workflow phase
func (p Phase) IsValid() bool {
	_, ok := indexOf[p]
	return ok
}

// IsTerminal returns true if no further advancement is possible from p
func (p Phase) IsTerminal() bool {
	return p == Complete
}

// String returns the wire representation of the phase
func (p Phase) String() string {
	return string(p)
}

// Index returns the zero-based position of p in the phase sequence.
// Panics on an unrecognised phase: an unknown phase reaching registry
// lookups is a programmer error, not an input error.
func (p Phase) Index() int {
	i, ok := indexOf[p]
	if !ok {
		panic(fmt.Sprintf("unknown phase: %s", p))
	}
	return i
}

// Before reports whether p comes strictly before other in the sequence
func (p Phase) Before(other Phase) bool {
	return p.Index() < other.Index()
}

// Next returns the phase following p. ok is false when p is the terminal
// phase or not a recognised phase.
func (p Phase) Next() (next Phase, ok bool) {
	i, valid := indexOf[p]
	if !valid || i == len(ordered)-1 {
		return "", false
	}
	return ordered[i+1], true
}

// DisplayName returns the human-readable label for p
func (p Phase) DisplayName() string {
	return phaseMeta[p].label
}

// Icon returns the icon key associated with p
func (p Phase) Icon() string {
	return phaseMeta[p].icon
}

// Description returns the one-line summary of what happens during p
func (p Phase) Description() string {
	return phaseMeta[p].description
}

// ProgressPercent returns workflow completion as a percentage when the
// submission sits at p: round((index+1)/total*100).
func (p Phase) ProgressPercent() int {
	return int(math.Round(float64(p.Index()+1) / float64(len(ordered)) * 100))
}
