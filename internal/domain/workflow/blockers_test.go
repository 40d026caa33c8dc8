package workflow

import (
	"reflect"
	"testing"

	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

func bagWithDetermination(det string) *entity.DrugBag {
	return &entity.DrugBag{Assessment: &entity.Assessment{Determination: det}}
}

func TestBlockers_DataEntry_AllMissing(t *testing.T) {
	sub := &entity.Submission{IsDraft: true}

	got := Blockers(sub, phase.DataEntryStart)
	want := []string{
		"Approved botanist must be assigned",
		"Finance officer must be assigned",
		"At least one drug bag must be added",
		"Submission must not be a draft",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Blockers() = %v, want %v", got, want)
	}
}

func TestBlockers_DataEntry_Complete(t *testing.T) {
	botanist, finance := int64(3), int64(7)
	sub := &entity.Submission{
		ApprovedBotanistID: &botanist,
		FinanceOfficerID:   &finance,
		Bags:               []*entity.DrugBag{bagWithDetermination(entity.DeterminationPending)},
	}

	if got := Blockers(sub, phase.DataEntryStart); len(got) != 0 {
		t.Errorf("Blockers() = %v, want empty", got)
	}
}

func TestBlockers_DataEntry_PartialOrdering(t *testing.T) {
	// Only the finance and draft checks fire; relative order must hold.
	botanist := int64(3)
	sub := &entity.Submission{
		ApprovedBotanistID: &botanist,
		IsDraft:            true,
		Bags:               []*entity.DrugBag{{}},
	}

	got := Blockers(sub, phase.DataEntryStart)
	want := []string{
		"Finance officer must be assigned",
		"Submission must not be a draft",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Blockers() = %v, want %v", got, want)
	}
}

func TestBlockers_BotanistApproval_CountsUnassessed(t *testing.T) {
	tests := []struct {
		name string
		bags []*entity.DrugBag
		want []string
	}{
		{
			name: "one pending of three",
			bags: []*entity.DrugBag{
				bagWithDetermination(entity.DeterminationSativa),
				bagWithDetermination(entity.DeterminationSativa),
				bagWithDetermination(entity.DeterminationPending),
			},
			want: []string{"1 bag(s) still need botanical assessment"},
		},
		{
			name: "missing assessment counts as pending",
			bags: []*entity.DrugBag{
				{},
				bagWithDetermination(entity.DeterminationPending),
			},
			want: []string{"2 bag(s) still need botanical assessment"},
		},
		{
			name: "all assessed",
			bags: []*entity.DrugBag{
				bagWithDetermination(entity.DeterminationIndica),
				bagWithDetermination(entity.DeterminationNotCannabis),
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &entity.Submission{Bags: tt.bags}
			got := Blockers(sub, phase.BotanistApprovalProvided)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Blockers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBlockers_OtherPhasesAreNotGated(t *testing.T) {
	// A submission that would be heavily blocked at data entry.
	sub := &entity.Submission{IsDraft: true}

	ungated := []phase.Phase{
		phase.FinanceApprovalProvided,
		phase.InReview,
		phase.CertificateGeneration,
		phase.InvoiceGeneration,
		phase.SendingEmails,
		phase.Complete,
	}

	for _, p := range ungated {
		if got := Blockers(sub, p); len(got) != 0 {
			t.Errorf("Blockers(%s) = %v, want empty", p, got)
		}
	}
}
