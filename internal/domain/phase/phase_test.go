package phase

import "testing"

func TestOrdered_SequenceIsStable(t *testing.T) {
	want := []Phase{
		DataEntryStart,
		FinanceApprovalProvided,
		BotanistApprovalProvided,
		InReview,
		CertificateGeneration,
		InvoiceGeneration,
		SendingEmails,
		Complete,
	}

	got := Ordered()
	if len(got) != len(want) {
		t.Fatalf("Ordered() returned %d phases, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Ordered()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestOrdered_ReturnsCopy(t *testing.T) {
	first := Ordered()
	first[0] = Complete

	if Ordered()[0] != DataEntryStart {
		t.Error("mutating the slice returned by Ordered() must not affect the registry")
	}
}

func TestPhase_Next_WalksToComplete(t *testing.T) {
	// Seven steps from the first phase must land exactly on the terminal phase.
	current := DataEntryStart
	for i := 0; i < 7; i++ {
		next, ok := current.Next()
		if !ok {
			t.Fatalf("Next() from %s at step %d unexpectedly terminal", current, i)
		}
		current = next
	}

	if current != Complete {
		t.Errorf("after 7 steps got %s, want %s", current, Complete)
	}
	if _, ok := current.Next(); ok {
		t.Error("Next() from complete should report no successor")
	}
}

func TestPhase_Next_UnknownPhase(t *testing.T) {
	if _, ok := Phase("warp_speed").Next(); ok {
		t.Error("Next() on unrecognised phase should report no successor")
	}
}

func TestPhase_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		phase    Phase
		expected bool
	}{
		{"first phase", DataEntryStart, true},
		{"terminal phase", Complete, true},
		{"unknown phase", Phase("UNKNOWN"), false},
		{"empty phase", Phase(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.phase.IsValid(); got != tt.expected {
				t.Errorf("IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPhase_IsTerminal(t *testing.T) {
	for _, p := range Ordered() {
		want := p == Complete
		if got := p.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", p, got, want)
		}
	}
}

func TestPhase_Index_PanicsOnUnknown(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Index() should panic on unrecognised phase")
		}
	}()

	Phase("bogus").Index()
}

func TestPhase_ProgressPercent(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected int
	}{
		{DataEntryStart, 13},
		{FinanceApprovalProvided, 25},
		{BotanistApprovalProvided, 38},
		{InReview, 50},
		{CertificateGeneration, 63},
		{InvoiceGeneration, 75},
		{SendingEmails, 88},
		{Complete, 100},
	}

	for _, tt := range tests {
		t.Run(string(tt.phase), func(t *testing.T) {
			if got := tt.phase.ProgressPercent(); got != tt.expected {
				t.Errorf("ProgressPercent() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestPhase_ProgressPercent_Monotonic(t *testing.T) {
	prev := -1
	for _, p := range Ordered() {
		pct := p.ProgressPercent()
		if pct < prev {
			t.Errorf("progress decreased at %s: %d < %d", p, pct, prev)
		}
		prev = pct
	}
}

func TestPhase_DisplayName(t *testing.T) {
	for _, p := range Ordered() {
		if p.DisplayName() == "" {
			t.Errorf("phase %s has no display name", p)
		}
		if p.Description() == "" {
			t.Errorf("phase %s has no description", p)
		}
	}
}

func TestPhase_Before(t *testing.T) {
	if !DataEntryStart.Before(Complete) {
		t.Error("data_entry_start should come before complete")
	}
	if Complete.Before(DataEntryStart) {
		t.Error("complete should not come before data_entry_start")
	}
	if InReview.Before(InReview) {
		t.Error("a phase is not before itself")
	}
}
