package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
)

func TestCreateBatchRejectsInactiveSchedule(t *testing.T) {
	e := newEnv()
	schedule, err := NewCreateScheduleHandler(e.repo, e.audit).Handle(context.Background(), CreateScheduleCommand{
		Name:      "Retired schedule",
		Frequency: domain.FrequencyWeekly,
		Method:    domain.MethodABC,
	})
	if err != nil {
		t.Fatalf("create schedule: %v", err)
	}
	if err := e.repo.DeactivateSchedule(context.Background(), schedule.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err = NewCreateBatchHandler(e.repo, e.audit).Handle(context.Background(), CreateBatchCommand{
		ScheduleID: &schedule.ID,
		Name:       "Run",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBatchRejectsInvertedDates(t *testing.T) {
	e := newEnv()
	start := time.Now()
	end := start.Add(-time.Hour)

	_, err := NewCreateBatchHandler(e.repo, e.audit).Handle(context.Background(), CreateBatchCommand{
		Name:      "Backwards",
		StartDate: &start,
		EndDate:   &end,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateBatchForbidsManualCompletion(t *testing.T) {
	e := newEnv()
	batch := e.addBatch(t, domain.BatchStatusInProgress)

	completed := domain.BatchStatusCompleted
	_, err := NewUpdateBatchHandler(e.repo, e.audit).Handle(context.Background(), UpdateBatchCommand{
		BatchID: batch.ID,
		Status:  &completed,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("completed must never be a manual transition, got %v", err)
	}
}

func TestUpdateBatchAllowsCancellation(t *testing.T) {
	e := newEnv()
	batch := e.addBatch(t, domain.BatchStatusInProgress)

	cancelled := domain.BatchStatusCancelled
	updated, err := NewUpdateBatchHandler(e.repo, e.audit).Handle(context.Background(), UpdateBatchCommand{
		BatchID: batch.ID,
		Status:  &cancelled,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if updated.Status != domain.BatchStatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}
}

func TestDeleteBatchWithoutResultsRemovesIt(t *testing.T) {
	e := newEnv()
	batch := e.addBatch(t, domain.BatchStatusPending)
	ref := e.inventory.AddChemical(invdomain.Chemical{PartNumber: "C-1", Quantity: 4})
	e.addItem(t, batch.ID, ref, 4, "")

	result, err := NewDeleteBatchHandler(e.repo, e.audit).Handle(context.Background(), DeleteBatchCommand{BatchID: batch.ID})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if result.Cancelled {
		t.Fatalf("expected hard delete, got cancellation")
	}
	if _, err := e.repo.FindBatchByID(context.Background(), batch.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("batch should be gone, got %v", err)
	}
}

func TestDeleteBatchWithResultsCancelsInstead(t *testing.T) {
	e := newEnv()
	e.addUser(t, 1, "user", true)
	batch := e.addBatch(t, domain.BatchStatusInProgress)
	ref := e.inventory.AddChemical(invdomain.Chemical{PartNumber: "C-1", Quantity: 4})
	item := e.addItem(t, batch.ID, ref, 4, "")

	_, err := NewSubmitResultHandler(e.repo, e.users, e.audit).Handle(context.Background(), SubmitResultCommand{
		ItemID:         item.ID,
		ActualQuantity: 4,
		ActorID:        1,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	result, err := NewDeleteBatchHandler(e.repo, e.audit).Handle(context.Background(), DeleteBatchCommand{BatchID: batch.ID})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !result.Cancelled {
		t.Fatalf("expected cancellation, got hard delete")
	}

	survived, err := e.repo.FindBatchByID(context.Background(), batch.ID)
	if err != nil {
		t.Fatalf("batch should survive: %v", err)
	}
	if survived.Status != domain.BatchStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", survived.Status)
	}
}
