package command

import (
	"context"
	"fmt"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/sampler"
	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/kafka"
)

// GenerateItemsCommand represents the command to populate a batch with
// sampled items
type GenerateItemsCommand struct {
	BatchID uint
	Params  sampler.Params
	ActorID uint
}

// GenerateItemsHandler handles item generation commands
type GenerateItemsHandler struct {
	repo    domain.Repository
	sampler *sampler.Sampler
	audit   domain.AuditLogger
}

// NewGenerateItemsHandler creates a new generate items handler
func NewGenerateItemsHandler(repo domain.Repository, s *sampler.Sampler, audit domain.AuditLogger) *GenerateItemsHandler {
	return &GenerateItemsHandler{repo: repo, sampler: s, audit: audit}
}

// Handle executes the generate items command and returns the number of items
// created. Re-running generation is safe: records that already have an item
// in the batch are skipped, so a failed run can simply be repeated.
func (h *GenerateItemsHandler) Handle(ctx context.Context, cmd GenerateItemsCommand) (int, error) {
	batch, err := h.repo.FindBatchByID(ctx, cmd.BatchID)
	if err != nil {
		return 0, err
	}
	if !batch.IsOpen() {
		return 0, fmt.Errorf("batch %d is %s: %w", batch.ID, batch.Status, domain.ErrConflict)
	}

	selected, err := h.sampler.Select(ctx, cmd.Params)
	if err != nil {
		return 0, err
	}

	existing, err := h.repo.FindItemsByBatch(ctx, batch.ID, "")
	if err != nil {
		return 0, fmt.Errorf("failed to load batch items: %w", err)
	}
	present := make(map[invdomain.Ref]bool, len(existing))
	for _, item := range existing {
		present[item.Ref()] = true
	}

	items := make([]domain.CountItem, 0, len(selected))
	for _, record := range selected {
		if present[record.Ref] {
			continue
		}
		items = append(items, domain.CountItem{
			BatchID:          batch.ID,
			ItemKind:         record.Ref.Kind,
			ItemRefID:        record.Ref.ID,
			ExpectedQuantity: record.Quantity,
			ExpectedLocation: record.Location,
			ExpectedCategory: record.Category,
			Status:           domain.ItemStatusPending,
		})
	}

	if err := h.repo.CreateItems(ctx, items); err != nil {
		return 0, fmt.Errorf("failed to create items: %w", err)
	}

	h.audit.Record(ctx, kafka.ActionItemsGenerated, cmd.ActorID, map[string]interface{}{
		"batch_id": batch.ID,
		"method":   cmd.Params.Method,
		"created":  len(items),
	})

	return len(items), nil
}
