package command

import (
	"context"
	"fmt"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/kafka"
)

// UpdateScheduleCommand represents the command to update a count schedule.
// Nil fields are left unchanged.
type UpdateScheduleCommand struct {
	ScheduleID  uint
	Name        *string
	Description *string
	Frequency   *string
	Method      *string
	IsActive    *bool
	ActorID     uint
}

// UpdateScheduleHandler handles update schedule commands
type UpdateScheduleHandler struct {
	repo  domain.Repository
	audit domain.AuditLogger
}

// NewUpdateScheduleHandler creates a new update schedule handler
func NewUpdateScheduleHandler(repo domain.Repository, audit domain.AuditLogger) *UpdateScheduleHandler {
	return &UpdateScheduleHandler{repo: repo, audit: audit}
}

// Handle executes the update schedule command
func (h *UpdateScheduleHandler) Handle(ctx context.Context, cmd UpdateScheduleCommand) (*domain.CountSchedule, error) {
	schedule, err := h.repo.FindScheduleByID(ctx, cmd.ScheduleID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		if *cmd.Name == "" {
			return nil, fmt.Errorf("name cannot be empty: %w", domain.ErrValidation)
		}
		schedule.Name = *cmd.Name
	}
	if cmd.Description != nil {
		schedule.Description = *cmd.Description
	}
	if cmd.Frequency != nil {
		if !domain.ValidFrequency(*cmd.Frequency) {
			return nil, fmt.Errorf("unknown frequency %q: %w", *cmd.Frequency, domain.ErrValidation)
		}
		schedule.Frequency = *cmd.Frequency
	}
	if cmd.Method != nil {
		if !domain.ValidMethod(*cmd.Method) {
			return nil, fmt.Errorf("unknown method %q: %w", *cmd.Method, domain.ErrValidation)
		}
		schedule.Method = *cmd.Method
	}
	if cmd.IsActive != nil {
		schedule.IsActive = *cmd.IsActive
	}

	if err := h.repo.UpdateSchedule(ctx, schedule); err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	h.audit.Record(ctx, kafka.ActionScheduleUpdated, cmd.ActorID, map[string]interface{}{
		"schedule_id": schedule.ID,
		"is_active":   schedule.IsActive,
	})

	return schedule, nil
}
