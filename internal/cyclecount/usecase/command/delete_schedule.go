package command

import (
	"context"
	"fmt"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/kafka"
)

// DeleteScheduleCommand represents the command to delete a count schedule
type DeleteScheduleCommand struct {
	ScheduleID uint
	ActorID    uint
}

// DeleteScheduleResult reports whether the schedule was removed or only
// deactivated to preserve batch history
type DeleteScheduleResult struct {
	Deactivated bool `json:"deactivated"`
}

// DeleteScheduleHandler handles delete schedule commands
type DeleteScheduleHandler struct {
	repo  domain.Repository
	audit domain.AuditLogger
}

// NewDeleteScheduleHandler creates a new delete schedule handler
func NewDeleteScheduleHandler(repo domain.Repository, audit domain.AuditLogger) *DeleteScheduleHandler {
	return &DeleteScheduleHandler{repo: repo, audit: audit}
}

// Handle executes the delete schedule command. A schedule that owns batches is
// deactivated instead of deleted; either way the caller gets a success.
func (h *DeleteScheduleHandler) Handle(ctx context.Context, cmd DeleteScheduleCommand) (*DeleteScheduleResult, error) {
	schedule, err := h.repo.FindScheduleByID(ctx, cmd.ScheduleID)
	if err != nil {
		return nil, err
	}

	batches, err := h.repo.CountBatchesBySchedule(ctx, schedule.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count batches: %w", err)
	}

	result := &DeleteScheduleResult{Deactivated: batches > 0}
	if result.Deactivated {
		err = h.repo.DeactivateSchedule(ctx, schedule.ID)
	} else {
		err = h.repo.DeleteSchedule(ctx, schedule.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete schedule: %w", err)
	}

	h.audit.Record(ctx, kafka.ActionScheduleDeleted, cmd.ActorID, map[string]interface{}{
		"schedule_id": schedule.ID,
		"deactivated": result.Deactivated,
	})

	return result, nil
}
