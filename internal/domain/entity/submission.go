// Package entity defines the persistent domain records owned by the
// submission workflow service.
package entity

import (
	"time"

	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

// Submission represents a cannabis-sample forensic submission moving through
// the approval workflow.
type Submission struct {
	ID                 int64       `json:"id"`
	CaseNumber         string      `json:"case_number"`
	Phase              phase.Phase `json:"phase"`
	IsDraft            bool        `json:"is_draft"`
	ApprovedBotanistID *int64      `json:"approved_botanist_id,omitempty"`
	FinanceOfficerID   *int64      `json:"finance_officer_id,omitempty"`
	PoliceOfficer      string      `json:"police_officer,omitempty"`
	PoliceStation      string      `json:"police_station,omitempty"`
	Defendants         []Defendant `json:"defendants,omitempty"`
	Bags               []*DrugBag  `json:"bags"`
	ReceivedAt         time.Time   `json:"received_at"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// HasApprovedBotanist reports whether a botanist has been assigned
func (s *Submission) HasApprovedBotanist() bool {
	return s.ApprovedBotanistID != nil
}

// HasFinanceOfficer reports whether a finance officer has been assigned
func (s *Submission) HasFinanceOfficer() bool {
	return s.FinanceOfficerID != nil
}

// UnassessedBagCount counts bags with no recorded assessment or a
// determination still pending. Always recomputed from raw bag data rather
// than any stored convenience flag, so it cannot drift from the bags.
func (s *Submission) UnassessedBagCount() int {
	count := 0
	for _, bag := range s.Bags {
		if bag.Assessment == nil || bag.Assessment.Determination == DeterminationPending {
			count++
		}
	}
	return count
}

// Defendant identifies a person charged in connection with the submission
type Defendant struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	IDNumber string `json:"id_number,omitempty"`
}

// DrugBag is a single evidence bag within a submission
type DrugBag struct {
	ID           int64       `json:"id"`
	SubmissionID int64       `json:"submission_id"`
	LabNumber    string      `json:"lab_number"`
	GrossWeightG float64     `json:"gross_weight_g"`
	NetWeightG   float64     `json:"net_weight_g"`
	Assessment   *Assessment `json:"assessment,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Assessment is the botanist's determination for a single bag
type Assessment struct {
	Determination string     `json:"determination"`
	Notes         string     `json:"notes,omitempty"`
	AssessedBy    *int64     `json:"assessed_by,omitempty"`
	AssessedAt    *time.Time `json:"assessed_at,omitempty"`
}

// PhaseTransition records one phase change in a submission's history,
// either a forward advancement or a send-back to an earlier phase.
type PhaseTransition struct {
	ID           int64       `json:"id"`
	SubmissionID int64       `json:"submission_id"`
	FromPhase    phase.Phase `json:"from_phase"`
	ToPhase      phase.Phase `json:"to_phase"`
	Direction    string      `json:"direction"`
	ActorRole    string      `json:"actor_role"`
	Reason       string      `json:"reason,omitempty"`
	OccurredAt   time.Time   `json:"occurred_at"`
}
