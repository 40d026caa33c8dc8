package workflow

import (
	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

// DefaultRouter returns a router wired with the standard content handlers
// for every workflow phase. Panics if the table is incomplete, which can
// only happen when a phase is added without a handler.
func DefaultRouter() *Router {
	r, err := NewRouter(
		DataEntryContent{},
		FinanceApprovalContent{},
		BotanistReviewContent{},
		ReviewContent{},
		DocumentsContent{},
		SendEmailsContent{},
		CompleteContent{},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// DataEntryContent serves the data_entry_start phase
type DataEntryContent struct{}

func (DataEntryContent) Phases() []phase.Phase {
	return []phase.Phase{phase.DataEntryStart}
}

func (DataEntryContent) Summary(sub *entity.Submission) ContentView {
	return ContentView{
		Title: "Submission details",
		Fields: map[string]interface{}{
			"case_number":          sub.CaseNumber,
			"police_officer":       sub.PoliceOfficer,
			"police_station":       sub.PoliceStation,
			"defendants":           sub.Defendants,
			"bag_count":            len(sub.Bags),
			"is_draft":             sub.IsDraft,
			"approved_botanist_id": sub.ApprovedBotanistID,
			"finance_officer_id":   sub.FinanceOfficerID,
			"received_at":          sub.ReceivedAt,
		},
	}
}

func (c DataEntryContent) Editor(sub *entity.Submission) ContentView {
	view := c.Summary(sub)
	view.EditableFields = []string{
		"case_number", "police_officer", "police_station", "defendants",
		"approved_botanist_id", "finance_officer_id", "bags",
	}
	return view
}

// FinanceApprovalContent serves the finance_approval_provided phase
type FinanceApprovalContent struct{}

func (FinanceApprovalContent) Phases() []phase.Phase {
	return []phase.Phase{phase.FinanceApprovalProvided}
}

func (FinanceApprovalContent) Summary(sub *entity.Submission) ContentView {
	return ContentView{
		Title: "Finance approval",
		Fields: map[string]interface{}{
			"case_number":        sub.CaseNumber,
			"bag_count":          len(sub.Bags),
			"finance_officer_id": sub.FinanceOfficerID,
		},
	}
}

func (c FinanceApprovalContent) Editor(sub *entity.Submission) ContentView {
	view := c.Summary(sub)
	view.EditableFields = []string{"finance_officer_id"}
	return view
}

// BotanistReviewContent serves the botanist_approval_provided phase
type BotanistReviewContent struct{}

func (BotanistReviewContent) Phases() []phase.Phase {
	return []phase.Phase{phase.BotanistApprovalProvided}
}

func (BotanistReviewContent) Summary(sub *entity.Submission) ContentView {
	bags := make([]map[string]interface{}, 0, len(sub.Bags))
	for _, bag := range sub.Bags {
		entry := map[string]interface{}{
			"lab_number":     bag.LabNumber,
			"gross_weight_g": bag.GrossWeightG,
			"net_weight_g":   bag.NetWeightG,
			"determination":  entity.DeterminationPending,
		}
		if bag.Assessment != nil {
			entry["determination"] = bag.Assessment.Determination
			entry["notes"] = bag.Assessment.Notes
		}
		bags = append(bags, entry)
	}

	return ContentView{
		Title: "Botanical assessment",
		Fields: map[string]interface{}{
			"case_number":     sub.CaseNumber,
			"bags":            bags,
			"unassessed_bags": sub.UnassessedBagCount(),
		},
	}
}

func (c BotanistReviewContent) Editor(sub *entity.Submission) ContentView {
	view := c.Summary(sub)
	view.EditableFields = []string{"bags.determination", "bags.notes"}
	return view
}

// ReviewContent serves the in_review phase: a cross-check of everything
// captured so far before documents are generated.
type ReviewContent struct{}

func (ReviewContent) Phases() []phase.Phase {
	return []phase.Phase{phase.InReview}
}

func (ReviewContent) Summary(sub *entity.Submission) ContentView {
	return ContentView{
		Title: "Final review",
		Fields: map[string]interface{}{
			"case_number":     sub.CaseNumber,
			"bag_count":       len(sub.Bags),
			"unassessed_bags": sub.UnassessedBagCount(),
			"defendants":      sub.Defendants,
			"is_draft":        sub.IsDraft,
		},
	}
}

// Editor for review is identical to the summary; the review phase carries
// no inputs of its own, only the advancement decision.
func (c ReviewContent) Editor(sub *entity.Submission) ContentView {
	return c.Summary(sub)
}

// DocumentsContent serves both document-generation phases. These advance
// automatically when generation completes, so there is nothing to edit.
type DocumentsContent struct{}

func (DocumentsContent) Phases() []phase.Phase {
	return []phase.Phase{phase.CertificateGeneration, phase.InvoiceGeneration}
}

func (DocumentsContent) Summary(sub *entity.Submission) ContentView {
	return ContentView{
		Title: "Document generation",
		Fields: map[string]interface{}{
			"case_number": sub.CaseNumber,
			"bag_count":   len(sub.Bags),
		},
	}
}

func (c DocumentsContent) Editor(sub *entity.Submission) ContentView {
	return c.Summary(sub)
}

// SendEmailsContent serves the sending_emails phase
type SendEmailsContent struct{}

func (SendEmailsContent) Phases() []phase.Phase {
	return []phase.Phase{phase.SendingEmails}
}

func (SendEmailsContent) Summary(sub *entity.Submission) ContentView {
	return ContentView{
		Title: "Notifications",
		Fields: map[string]interface{}{
			"case_number":    sub.CaseNumber,
			"police_station": sub.PoliceStation,
		},
	}
}

func (c SendEmailsContent) Editor(sub *entity.Submission) ContentView {
	return c.Summary(sub)
}

// CompleteContent serves the terminal phase
type CompleteContent struct{}

func (CompleteContent) Phases() []phase.Phase {
	return []phase.Phase{phase.Complete}
}

func (CompleteContent) Summary(sub *entity.Submission) ContentView {
	return ContentView{
		Title: "Workflow complete",
		Fields: map[string]interface{}{
			"case_number": sub.CaseNumber,
			"bag_count":   len(sub.Bags),
		},
	}
}

func (c CompleteContent) Editor(sub *entity.Submission) ContentView {
	return c.Summary(sub)
}
