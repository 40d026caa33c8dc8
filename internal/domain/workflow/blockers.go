// Package workflow implements the submission phase engine: advancement
// blocker evaluation, view-mode derivation and phase content dispatch.
package workflow

import (
	"fmt"

	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

// Blocker messages are part of the observable contract: the UI shows them
// verbatim and their order is fixed.
const (
	blockerBotanistMissing = "Approved botanist must be assigned"
	blockerFinanceMissing  = "Finance officer must be assigned"
	blockerNoBags          = "At least one drug bag must be added"
	blockerStillDraft      = "Submission must not be a draft"
)

// Blockers returns the data-completeness reasons advancement from current
// is disallowed, independent of actor role. Pure and total: it is
// recomputed fresh on every call because the submission may have just
// changed. An empty result means advancement is legal data-wise.
func Blockers(sub *entity.Submission, current phase.Phase) []string {
	var reasons []string

	switch current {
	case phase.DataEntryStart:
		if !sub.HasApprovedBotanist() {
			reasons = append(reasons, blockerBotanistMissing)
		}
		if !sub.HasFinanceOfficer() {
			reasons = append(reasons, blockerFinanceMissing)
		}
		if len(sub.Bags) == 0 {
			reasons = append(reasons, blockerNoBags)
		}
		if sub.IsDraft {
			reasons = append(reasons, blockerStillDraft)
		}

	case phase.BotanistApprovalProvided:
		if n := sub.UnassessedBagCount(); n > 0 {
			reasons = append(reasons, fmt.Sprintf("%d bag(s) still need botanical assessment", n))
		}
	}

	// Remaining phases are not gated locally; generation and mailing phases
	// advance through their own completion triggers.
	return reasons
}
