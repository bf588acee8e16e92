package command

import (
	"context"
	"errors"
	"testing"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
)

func TestCreateScheduleValidatesInput(t *testing.T) {
	e := newEnv()
	handler := NewCreateScheduleHandler(e.repo, e.audit)

	cases := []struct {
		name string
		cmd  CreateScheduleCommand
	}{
		{"missing name", CreateScheduleCommand{Frequency: domain.FrequencyWeekly, Method: domain.MethodABC}},
		{"bad frequency", CreateScheduleCommand{Name: "s", Frequency: "fortnightly", Method: domain.MethodABC}},
		{"bad method", CreateScheduleCommand{Name: "s", Frequency: domain.FrequencyWeekly, Method: "guesswork"}},
	}
	for _, tc := range cases {
		if _, err := handler.Handle(context.Background(), tc.cmd); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateScheduleDefaultsToActive(t *testing.T) {
	e := newEnv()
	handler := NewCreateScheduleHandler(e.repo, e.audit)

	schedule, err := handler.Handle(context.Background(), CreateScheduleCommand{
		Name:      "Quarterly chemicals",
		Frequency: domain.FrequencyQuarterly,
		Method:    domain.MethodCategory,
		ActorID:   7,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !schedule.IsActive {
		t.Fatalf("new schedule should be active")
	}
	if schedule.CreatedBy != 7 {
		t.Fatalf("expected creator 7, got %d", schedule.CreatedBy)
	}
}

func TestUpdateScheduleLeavesUnsetFieldsAlone(t *testing.T) {
	e := newEnv()
	created, err := NewCreateScheduleHandler(e.repo, e.audit).Handle(context.Background(), CreateScheduleCommand{
		Name:      "Weekly tools",
		Frequency: domain.FrequencyWeekly,
		Method:    domain.MethodABC,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	frequency := domain.FrequencyDaily
	updated, err := NewUpdateScheduleHandler(e.repo, e.audit).Handle(context.Background(), UpdateScheduleCommand{
		ScheduleID: created.ID,
		Frequency:  &frequency,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Frequency != domain.FrequencyDaily {
		t.Fatalf("frequency not updated: %s", updated.Frequency)
	}
	if updated.Name != "Weekly tools" || updated.Method != domain.MethodABC {
		t.Fatalf("unset fields changed: %+v", updated)
	}
}

func TestDeleteScheduleWithoutBatchesRemovesIt(t *testing.T) {
	e := newEnv()
	created, err := NewCreateScheduleHandler(e.repo, e.audit).Handle(context.Background(), CreateScheduleCommand{
		Name:      "Orphan schedule",
		Frequency: domain.FrequencyMonthly,
		Method:    domain.MethodRandom,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	result, err := NewDeleteScheduleHandler(e.repo, e.audit).Handle(context.Background(), DeleteScheduleCommand{ScheduleID: created.ID})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if result.Deactivated {
		t.Fatalf("expected hard delete, got deactivation")
	}
	if _, err := e.repo.FindScheduleByID(context.Background(), created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("schedule should be gone, got %v", err)
	}
}

func TestDeleteScheduleWithBatchesDeactivates(t *testing.T) {
	e := newEnv()
	created, err := NewCreateScheduleHandler(e.repo, e.audit).Handle(context.Background(), CreateScheduleCommand{
		Name:      "Busy schedule",
		Frequency: domain.FrequencyWeekly,
		Method:    domain.MethodABC,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	scheduleID := created.ID
	if err := e.repo.CreateBatch(context.Background(), &domain.CountBatch{
		ScheduleID: &scheduleID,
		Name:       "Run 1",
		Status:     domain.BatchStatusPending,
		CreatedBy:  1,
	}); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	result, err := NewDeleteScheduleHandler(e.repo, e.audit).Handle(context.Background(), DeleteScheduleCommand{ScheduleID: scheduleID})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !result.Deactivated {
		t.Fatalf("expected deactivation, got hard delete")
	}

	schedule, err := e.repo.FindScheduleByID(context.Background(), scheduleID)
	if err != nil {
		t.Fatalf("schedule should survive: %v", err)
	}
	if schedule.IsActive {
		t.Fatalf("schedule should be inactive")
	}
}
