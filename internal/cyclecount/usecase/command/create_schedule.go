package command

import (
	"context"
	"fmt"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/kafka"
)

// CreateScheduleCommand represents the command to create a count schedule
type CreateScheduleCommand struct {
	Name        string
	Description string
	Frequency   string
	Method      string
	ActorID     uint
}

// CreateScheduleHandler handles create schedule commands
type CreateScheduleHandler struct {
	repo  domain.Repository
	audit domain.AuditLogger
}

// NewCreateScheduleHandler creates a new create schedule handler
func NewCreateScheduleHandler(repo domain.Repository, audit domain.AuditLogger) *CreateScheduleHandler {
	return &CreateScheduleHandler{repo: repo, audit: audit}
}

// Handle executes the create schedule command
func (h *CreateScheduleHandler) Handle(ctx context.Context, cmd CreateScheduleCommand) (*domain.CountSchedule, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if !domain.ValidFrequency(cmd.Frequency) {
		return nil, fmt.Errorf("unknown frequency %q: %w", cmd.Frequency, domain.ErrValidation)
	}
	if !domain.ValidMethod(cmd.Method) {
		return nil, fmt.Errorf("unknown method %q: %w", cmd.Method, domain.ErrValidation)
	}

	schedule := &domain.CountSchedule{
		Name:        cmd.Name,
		Description: cmd.Description,
		Frequency:   cmd.Frequency,
		Method:      cmd.Method,
		IsActive:    true,
		CreatedBy:   cmd.ActorID,
	}

	if err := h.repo.CreateSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	h.audit.Record(ctx, kafka.ActionScheduleCreated, cmd.ActorID, map[string]interface{}{
		"schedule_id": schedule.ID,
		"name":        schedule.Name,
		"frequency":   schedule.Frequency,
		"method":      schedule.Method,
	})

	return schedule, nil
}
