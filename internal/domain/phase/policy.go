package phase

// Role is the permission class of the authenticated actor relevant to
// workflow actions. It is supplied by the session layer; this package only
// consumes it.
type Role string

const (
	RoleBotanist Role = "botanist"
	RoleFinance  Role = "finance"
	RoleNone     Role = "none"
)

// IsValid returns true if r is a recognised actor role
func (r Role) IsValid() bool {
	switch r {
	case RoleBotanist, RoleFinance, RoleNone:
		return true
	}
	return false
}

// String returns the wire representation of the role
func (r Role) String() string {
	return string(r)
}

// manualAdvancers maps each manually-advanceable phase to the roles allowed
// to advance it. Phases absent from this map advance automatically via
// document-generation and mailing triggers and are never advanced by hand.
var manualAdvancers = map[Phase]map[Role]bool{
	DataEntryStart:           {RoleBotanist: true, RoleFinance: true},
	FinanceApprovalProvided:  {RoleFinance: true},
	BotanistApprovalProvided: {RoleBotanist: true},
	InReview:                 {RoleBotanist: true, RoleFinance: true},
}

// CanAdvance reports whether an actor with the given role may manually
// advance a submission sitting at current. Pure and total: unknown phases
// and unknown roles simply yield false.
func CanAdvance(current Phase, role Role) bool {
	roles, ok := manualAdvancers[current]
	if !ok {
		return false
	}
	return roles[role]
}

// IsManual reports whether current is a phase a human advances at all,
// regardless of role. Used by view logic to decide whether to offer an
// advancement control.
func IsManual(current Phase) bool {
	_, ok := manualAdvancers[current]
	return ok
}
