package command

import (
	"context"
	"fmt"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/kafka"
)

// DeleteBatchCommand represents the command to delete a count batch
type DeleteBatchCommand struct {
	BatchID uint
	ActorID uint
}

// DeleteBatchResult reports whether the batch was removed or soft-cancelled
// because recorded results must be preserved
type DeleteBatchResult struct {
	Cancelled bool `json:"cancelled"`
}

// DeleteBatchHandler handles delete batch commands
type DeleteBatchHandler struct {
	repo  domain.Repository
	audit domain.AuditLogger
}

// NewDeleteBatchHandler creates a new delete batch handler
func NewDeleteBatchHandler(repo domain.Repository, audit domain.AuditLogger) *DeleteBatchHandler {
	return &DeleteBatchHandler{repo: repo, audit: audit}
}

// Handle executes the delete batch command. A batch with any recorded result
// is cancelled instead of deleted; either way the caller gets a success.
func (h *DeleteBatchHandler) Handle(ctx context.Context, cmd DeleteBatchCommand) (*DeleteBatchResult, error) {
	result := &DeleteBatchResult{}

	err := h.repo.InTx(ctx, func(tx domain.Repository) error {
		batch, err := tx.FindBatchForUpdate(ctx, cmd.BatchID)
		if err != nil {
			return err
		}

		results, err := tx.CountResultsInBatch(ctx, batch.ID)
		if err != nil {
			return fmt.Errorf("failed to count results: %w", err)
		}

		if results > 0 {
			result.Cancelled = true
			batch.Status = domain.BatchStatusCancelled
			return tx.UpdateBatch(ctx, batch)
		}
		return tx.DeleteBatch(ctx, batch.ID)
	})
	if err != nil {
		return nil, err
	}

	h.audit.Record(ctx, kafka.ActionBatchDeleted, cmd.ActorID, map[string]interface{}{
		"batch_id":  cmd.BatchID,
		"cancelled": result.Cancelled,
	})

	return result, nil
}
