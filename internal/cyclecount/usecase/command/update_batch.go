package command

import (
	"context"
	"fmt"
	"time"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/kafka"
)

// UpdateBatchCommand represents the command to update a count batch.
// Nil fields are left unchanged.
type UpdateBatchCommand struct {
	BatchID   uint
	Name      *string
	Status    *string
	StartDate *time.Time
	EndDate   *time.Time
	Notes     *string
	ActorID   uint
}

// UpdateBatchHandler handles update batch commands
type UpdateBatchHandler struct {
	repo  domain.Repository
	audit domain.AuditLogger
}

// NewUpdateBatchHandler creates a new update batch handler
func NewUpdateBatchHandler(repo domain.Repository, audit domain.AuditLogger) *UpdateBatchHandler {
	return &UpdateBatchHandler{repo: repo, audit: audit}
}

// Handle executes the update batch command. Completed is a derived status and
// can never be set manually.
func (h *UpdateBatchHandler) Handle(ctx context.Context, cmd UpdateBatchCommand) (*domain.CountBatch, error) {
	batch, err := h.repo.FindBatchByID(ctx, cmd.BatchID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		if *cmd.Name == "" {
			return nil, fmt.Errorf("name cannot be empty: %w", domain.ErrValidation)
		}
		batch.Name = *cmd.Name
	}
	if cmd.Notes != nil {
		batch.Notes = *cmd.Notes
	}
	if cmd.StartDate != nil {
		batch.StartDate = cmd.StartDate
	}
	if cmd.EndDate != nil {
		batch.EndDate = cmd.EndDate
	}
	if batch.StartDate != nil && batch.EndDate != nil && batch.EndDate.Before(*batch.StartDate) {
		return nil, fmt.Errorf("end date precedes start date: %w", domain.ErrValidation)
	}

	if cmd.Status != nil && *cmd.Status != batch.Status {
		if !domain.CanTransition(batch.Status, *cmd.Status) {
			return nil, fmt.Errorf("cannot move batch from %s to %s: %w", batch.Status, *cmd.Status, domain.ErrValidation)
		}
		batch.Status = *cmd.Status
	}

	if err := h.repo.UpdateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to update batch: %w", err)
	}

	h.audit.Record(ctx, kafka.ActionBatchUpdated, cmd.ActorID, map[string]interface{}{
		"batch_id": batch.ID,
		"status":   batch.Status,
	})

	return batch, nil
}
