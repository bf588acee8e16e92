package command

import (
	"context"
	"fmt"
	"time"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/kafka"
)

// CreateBatchCommand represents the command to create a count batch
type CreateBatchCommand struct {
	ScheduleID *uint
	Name       string
	StartDate  *time.Time
	EndDate    *time.Time
	Notes      string
	ActorID    uint
}

// CreateBatchHandler handles create batch commands
type CreateBatchHandler struct {
	repo  domain.Repository
	audit domain.AuditLogger
}

// NewCreateBatchHandler creates a new create batch handler
func NewCreateBatchHandler(repo domain.Repository, audit domain.AuditLogger) *CreateBatchHandler {
	return &CreateBatchHandler{repo: repo, audit: audit}
}

// Handle executes the create batch command
func (h *CreateBatchHandler) Handle(ctx context.Context, cmd CreateBatchCommand) (*domain.CountBatch, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("name is required: %w", domain.ErrValidation)
	}
	if cmd.StartDate != nil && cmd.EndDate != nil && cmd.EndDate.Before(*cmd.StartDate) {
		return nil, fmt.Errorf("end date precedes start date: %w", domain.ErrValidation)
	}

	if cmd.ScheduleID != nil {
		schedule, err := h.repo.FindScheduleByID(ctx, *cmd.ScheduleID)
		if err != nil {
			return nil, err
		}
		if !schedule.IsActive {
			return nil, fmt.Errorf("schedule %d is inactive: %w", schedule.ID, domain.ErrValidation)
		}
	}

	batch := &domain.CountBatch{
		ScheduleID: cmd.ScheduleID,
		Name:       cmd.Name,
		Status:     domain.BatchStatusPending,
		StartDate:  cmd.StartDate,
		EndDate:    cmd.EndDate,
		Notes:      cmd.Notes,
		CreatedBy:  cmd.ActorID,
	}

	if err := h.repo.CreateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to create batch: %w", err)
	}

	h.audit.Record(ctx, kafka.ActionBatchCreated, cmd.ActorID, map[string]interface{}{
		"batch_id": batch.ID,
		"name":     batch.Name,
	})

	return batch, nil
}
