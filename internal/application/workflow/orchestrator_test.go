package workflow

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"
	"time"

	"github.com/herbolab/submission-workflow/internal/domain/entity"
	"github.com/herbolab/submission-workflow/internal/domain/phase"
)

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}

func readySubmission(id int64) *entity.Submission {
	botanist, finance := int64(1), int64(2)
	return &entity.Submission{
		ID:                 id,
		Phase:              phase.DataEntryStart,
		ApprovedBotanistID: &botanist,
		FinanceOfficerID:   &finance,
		Bags:               []*entity.DrugBag{{LabNumber: "B1"}},
	}
}

func confirmYes(ctx context.Context) (bool, error) { return true, nil }
func confirmNo(ctx context.Context) (bool, error)  { return false, nil }

func TestAdvance_Success(t *testing.T) {
	o := NewOrchestrator(nopLogger{})
	sub := readySubmission(1)

	var performedID int64
	var performedTarget phase.Phase
	perform := func(ctx context.Context, id int64, target phase.Phase) error {
		performedID = id
		performedTarget = target
		return nil
	}

	outcome := o.Advance(context.Background(), sub, phase.FinanceApprovalProvided, confirmYes, perform)

	if outcome.Kind != OutcomeAdvanced {
		t.Fatalf("outcome = %s, want %s", outcome.Kind, OutcomeAdvanced)
	}
	if outcome.Phase != phase.FinanceApprovalProvided {
		t.Errorf("outcome phase = %s, want %s", outcome.Phase, phase.FinanceApprovalProvided)
	}
	if performedID != 1 || performedTarget != phase.FinanceApprovalProvided {
		t.Errorf("perform called with (%d, %s)", performedID, performedTarget)
	}
	if o.InFlight(1) {
		t.Error("in-flight guard should be cleared after completion")
	}
}

func TestAdvance_BlockedBeforeCallbacks(t *testing.T) {
	o := NewOrchestrator(nopLogger{})
	sub := &entity.Submission{ID: 2, Phase: phase.DataEntryStart, IsDraft: true}

	confirmCalled, performCalled := false, false
	confirm := func(ctx context.Context) (bool, error) {
		confirmCalled = true
		return true, nil
	}
	perform := func(ctx context.Context, id int64, target phase.Phase) error {
		performCalled = true
		return nil
	}

	outcome := o.Advance(context.Background(), sub, phase.FinanceApprovalProvided, confirm, perform)

	if outcome.Kind != OutcomeBlocked {
		t.Fatalf("outcome = %s, want %s", outcome.Kind, OutcomeBlocked)
	}
	want := []string{
		"Approved botanist must be assigned",
		"Finance officer must be assigned",
		"At least one drug bag must be added",
		"Submission must not be a draft",
	}
	if !reflect.DeepEqual(outcome.Reasons, want) {
		t.Errorf("reasons = %v, want %v", outcome.Reasons, want)
	}
	if confirmCalled || performCalled {
		t.Error("neither callback may run when advancement is blocked")
	}
}

func TestAdvance_CancelledByUser(t *testing.T) {
	o := NewOrchestrator(nopLogger{})
	sub := readySubmission(3)

	performCalled := false
	perform := func(ctx context.Context, id int64, target phase.Phase) error {
		performCalled = true
		return nil
	}

	outcome := o.Advance(context.Background(), sub, phase.FinanceApprovalProvided, confirmNo, perform)

	if outcome.Kind != OutcomeCancelled {
		t.Fatalf("outcome = %s, want %s", outcome.Kind, OutcomeCancelled)
	}
	if performCalled {
		t.Error("perform must never run when confirmation is declined")
	}
}

func TestAdvance_ConfirmTimeoutClearsGuard(t *testing.T) {
	o := NewOrchestrator(nopLogger{}, WithConfirmTimeout(20*time.Millisecond))
	sub := readySubmission(4)

	confirm := func(ctx context.Context) (bool, error) {
		<-ctx.Done() // abandoned dialog
		return false, ctx.Err()
	}
	perform := func(ctx context.Context, id int64, target phase.Phase) error {
		t.Error("perform must not run after confirmation timeout")
		return nil
	}

	outcome := o.Advance(context.Background(), sub, phase.FinanceApprovalProvided, confirm, perform)

	if outcome.Kind != OutcomeCancelled {
		t.Fatalf("outcome = %s, want %s", outcome.Kind, OutcomeCancelled)
	}
	if o.InFlight(4) {
		t.Error("abandoned confirmation must not leave the guard set")
	}
}

func TestAdvance_PerformFailure(t *testing.T) {
	o := NewOrchestrator(nopLogger{})
	sub := readySubmission(5)

	perform := func(ctx context.Context, id int64, target phase.Phase) error {
		return errors.New("backend rejected transition")
	}

	outcome := o.Advance(context.Background(), sub, phase.FinanceApprovalProvided, confirmYes, perform)

	if outcome.Kind != OutcomeFailed {
		t.Fatalf("outcome = %s, want %s", outcome.Kind, OutcomeFailed)
	}
	if outcome.Message != "backend rejected transition" {
		t.Errorf("message = %q", outcome.Message)
	}
	if o.InFlight(5) {
		t.Error("guard should be cleared after a failed attempt")
	}
}

func TestAdvance_ConcurrentSameSubmission(t *testing.T) {
	o := NewOrchestrator(nopLogger{})
	sub := readySubmission(6)

	gate := make(chan struct{})
	started := make(chan struct{})
	var performCount int32

	confirm := func(ctx context.Context) (bool, error) {
		close(started)
		<-gate
		return true, nil
	}
	perform := func(ctx context.Context, id int64, target phase.Phase) error {
		atomic.AddInt32(&performCount, 1)
		return nil
	}

	first := make(chan Outcome, 1)
	go func() {
		first <- o.Advance(context.Background(), sub, phase.FinanceApprovalProvided, confirm, perform)
	}()

	<-started
	second := o.Advance(context.Background(), sub, phase.FinanceApprovalProvided, confirmYes, perform)
	if second.Kind != OutcomeAlreadyInProgress {
		t.Fatalf("second outcome = %s, want %s", second.Kind, OutcomeAlreadyInProgress)
	}
	if atomic.LoadInt32(&performCount) != 0 {
		t.Error("second call must not invoke perform while the first is in flight")
	}

	close(gate)
	if outcome := <-first; outcome.Kind != OutcomeAdvanced {
		t.Errorf("first outcome = %s, want %s", outcome.Kind, OutcomeAdvanced)
	}
	if atomic.LoadInt32(&performCount) != 1 {
		t.Errorf("perform ran %d times, want 1", performCount)
	}
}

func TestAdvance_DifferentSubmissionsAreIndependent(t *testing.T) {
	o := NewOrchestrator(nopLogger{})

	gate := make(chan struct{})
	started := make(chan struct{})
	confirmBlocked := func(ctx context.Context) (bool, error) {
		close(started)
		<-gate
		return true, nil
	}
	perform := func(ctx context.Context, id int64, target phase.Phase) error { return nil }

	go o.Advance(context.Background(), readySubmission(7), phase.FinanceApprovalProvided, confirmBlocked, perform)
	<-started

	outcome := o.Advance(context.Background(), readySubmission(8), phase.FinanceApprovalProvided, confirmYes, perform)
	if outcome.Kind != OutcomeAdvanced {
		t.Errorf("outcome = %s, want %s: submissions must not share the guard", outcome.Kind, OutcomeAdvanced)
	}
	close(gate)
}
