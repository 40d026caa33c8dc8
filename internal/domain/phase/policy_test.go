package phase

import "testing"

func TestCanAdvance(t *testing.T) {
	tests := []struct {
		name     string
		current  Phase
		role     Role
		expected bool
	}{
		{"data entry by botanist", DataEntryStart, RoleBotanist, true},
		{"data entry by finance", DataEntryStart, RoleFinance, true},
		{"data entry by none", DataEntryStart, RoleNone, false},
		{"finance approval by finance", FinanceApprovalProvided, RoleFinance, true},
		{"finance approval by botanist", FinanceApprovalProvided, RoleBotanist, false},
		{"botanist approval by botanist", BotanistApprovalProvided, RoleBotanist, true},
		{"botanist approval by finance", BotanistApprovalProvided, RoleFinance, false},
		{"in review by botanist", InReview, RoleBotanist, true},
		{"in review by finance", InReview, RoleFinance, true},
		{"certificate generation is automatic", CertificateGeneration, RoleFinance, false},
		{"invoice generation is automatic", InvoiceGeneration, RoleBotanist, false},
		{"sending emails is automatic", SendingEmails, RoleFinance, false},
		{"complete is terminal", Complete, RoleBotanist, false},
		{"unknown role", DataEntryStart, Role("admin"), false},
		{"unknown phase", Phase("bogus"), RoleFinance, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAdvance(tt.current, tt.role); got != tt.expected {
				t.Errorf("CanAdvance(%s, %s) = %v, want %v", tt.current, tt.role, got, tt.expected)
			}
		})
	}
}

func TestIsManual(t *testing.T) {
	manual := map[Phase]bool{
		DataEntryStart:           true,
		FinanceApprovalProvided:  true,
		BotanistApprovalProvided: true,
		InReview:                 true,
	}

	for _, p := range Ordered() {
		if got := IsManual(p); got != manual[p] {
			t.Errorf("IsManual(%s) = %v, want %v", p, got, manual[p])
		}
	}
}

func TestRole_IsValid(t *testing.T) {
	tests := []struct {
		role     Role
		expected bool
	}{
		{RoleBotanist, true},
		{RoleFinance, true},
		{RoleNone, true},
		{Role("admin"), false},
		{Role(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.IsValid(); got != tt.expected {
				t.Errorf("Role(%q).IsValid() = %v, want %v", tt.role, got, tt.expected)
			}
		})
	}
}
