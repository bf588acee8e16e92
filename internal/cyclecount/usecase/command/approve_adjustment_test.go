package command

import (
	"context"
	"errors"
	"testing"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
	userdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/user/domain"
)

// submitDiscrepantCount seeds one chemical, counts it short and returns the
// result together with the inventory ref.
func submitDiscrepantCount(t *testing.T, e *env) (*domain.CountResult, invdomain.Ref) {
	t.Helper()
	e.addUser(t, 1, userdomain.RoleUser, true)
	batch := e.addBatch(t, domain.BatchStatusInProgress)
	ref := e.inventory.AddChemical(invdomain.Chemical{PartNumber: "C-1", Quantity: 10, Location: "hangar-1"})
	item := e.addItem(t, batch.ID, ref, 10, "hangar-1")

	result, err := NewSubmitResultHandler(e.repo, e.users, e.audit).Handle(context.Background(), SubmitResultCommand{
		ItemID:         item.ID,
		ActualQuantity: 7,
		ActorID:        1,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return result, ref
}

func TestApproveAdjustmentWritesInventoryAndRecordsOldValue(t *testing.T) {
	e := newEnv()
	result, ref := submitDiscrepantCount(t, e)

	// Mutate the live record between count and approval; the recorded old
	// value must be the live one, not the counted one.
	if _, err := e.inventory.SetField(context.Background(), ref, invdomain.FieldQuantity, "9"); err != nil {
		t.Fatalf("SetField: %v", err)
	}

	adjustment, err := NewApproveAdjustmentHandler(e.repo, e.audit).Handle(context.Background(), ApproveAdjustmentCommand{
		ResultID:       result.ID,
		AdjustmentType: domain.AdjustmentQuantity,
		NewValue:       "7",
		ActorID:        2,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if adjustment.OldValue != "9" {
		t.Fatalf("old value must be read live at approval, got %q", adjustment.OldValue)
	}
	if adjustment.NewValue != "7" || adjustment.ApprovedBy != 2 {
		t.Fatalf("adjustment fields wrong: %+v", adjustment)
	}

	record, err := e.inventory.Get(context.Background(), ref)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record.Quantity != 7 {
		t.Fatalf("inventory not updated, quantity %d", record.Quantity)
	}
}

func TestApproveAdjustmentNotifiesOriginalCounter(t *testing.T) {
	e := newEnv()
	result, _ := submitDiscrepantCount(t, e)

	if _, err := NewApproveAdjustmentHandler(e.repo, e.audit).Handle(context.Background(), ApproveAdjustmentCommand{
		ResultID:       result.ID,
		AdjustmentType: domain.AdjustmentQuantity,
		NewValue:       "7",
		ActorID:        2,
	}); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	var approvals int
	for _, n := range e.notificationsFor(t, 1) {
		if n.Type == domain.NotificationAdjustmentApproved {
			approvals++
		}
	}
	if approvals != 1 {
		t.Fatalf("counter should get one approval notification, got %d", approvals)
	}
}

func TestApproveAdjustmentRejectsSecondApproval(t *testing.T) {
	e := newEnv()
	result, _ := submitDiscrepantCount(t, e)

	handler := NewApproveAdjustmentHandler(e.repo, e.audit)
	cmd := ApproveAdjustmentCommand{
		ResultID:       result.ID,
		AdjustmentType: domain.AdjustmentQuantity,
		NewValue:       "7",
		ActorID:        2,
	}

	if _, err := handler.Handle(context.Background(), cmd); err != nil {
		t.Fatalf("first approval: %v", err)
	}
	if _, err := handler.Handle(context.Background(), cmd); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second approval must conflict, got %v", err)
	}
}

func TestApproveAdjustmentRejectsToolQuantity(t *testing.T) {
	e := newEnv()
	e.addUser(t, 1, userdomain.RoleUser, true)
	batch := e.addBatch(t, domain.BatchStatusInProgress)
	ref := e.inventory.AddTool(invdomain.Tool{ToolNumber: "T-1", Location: "crib"}, 3)
	item := e.addItem(t, batch.ID, ref, 1, "crib")

	result, err := NewSubmitResultHandler(e.repo, e.users, e.audit).Handle(context.Background(), SubmitResultCommand{
		ItemID:         item.ID,
		ActualQuantity: 0,
		ActorID:        1,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err = NewApproveAdjustmentHandler(e.repo, e.audit).Handle(context.Background(), ApproveAdjustmentCommand{
		ResultID:       result.ID,
		AdjustmentType: domain.AdjustmentQuantity,
		NewValue:       "0",
		ActorID:        2,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("tool quantity adjustment must fail validation, got %v", err)
	}

	// The failed write must leave no adjustment record behind
	if _, err := e.repo.FindAdjustmentByResult(context.Background(), result.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("no adjustment should be recorded, got %v", err)
	}
}

func TestApproveAdjustmentRejectsUnknownType(t *testing.T) {
	e := newEnv()
	_, err := NewApproveAdjustmentHandler(e.repo, e.audit).Handle(context.Background(), ApproveAdjustmentCommand{
		ResultID:       1,
		AdjustmentType: "velocity",
		NewValue:       "9",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestApproveAdjustmentStatusStampsReason(t *testing.T) {
	e := newEnv()
	e.addUser(t, 1, userdomain.RoleUser, true)
	batch := e.addBatch(t, domain.BatchStatusInProgress)
	ref := e.inventory.AddTool(invdomain.Tool{ToolNumber: "T-9", Location: "crib"}, 1)
	item := e.addItem(t, batch.ID, ref, 1, "crib")

	result, err := NewSubmitResultHandler(e.repo, e.users, e.audit).Handle(context.Background(), SubmitResultCommand{
		ItemID:         item.ID,
		ActualQuantity: 1,
		Condition:      "damaged",
		ActorID:        1,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	adjustment, err := NewApproveAdjustmentHandler(e.repo, e.audit).Handle(context.Background(), ApproveAdjustmentCommand{
		ResultID:       result.ID,
		AdjustmentType: domain.AdjustmentStatus,
		NewValue:       invdomain.StatusMaintenance,
		ActorID:        2,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if adjustment.OldValue != invdomain.StatusAvailable {
		t.Fatalf("expected old status available, got %q", adjustment.OldValue)
	}

	record, err := e.inventory.Get(context.Background(), ref)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if record.Status != invdomain.StatusMaintenance {
		t.Fatalf("status not written, got %q", record.Status)
	}
}
