package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	userdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/user/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/kafka"
	"github.com/PapaBear1981/supplyline-mro-suite/pkg/logger"
)

// SubmitResultCommand represents one physical count submission
type SubmitResultCommand struct {
	ItemID         uint
	ActualQuantity int
	ActualLocation string
	Condition      string
	Notes          string
	ActorID        uint
}

// SubmitResultHandler handles count submissions
type SubmitResultHandler struct {
	repo  domain.Repository
	users userdomain.Directory
	audit domain.AuditLogger
}

// NewSubmitResultHandler creates a new submit result handler
func NewSubmitResultHandler(repo domain.Repository, users userdomain.Directory, audit domain.AuditLogger) *SubmitResultHandler {
	return &SubmitResultHandler{repo: repo, users: users, audit: audit}
}

// Handle records a count for a pending item, classifies discrepancies against
// the generation-time snapshot, and derives batch completion. The item row is
// locked for the duration so a second submission for the same item fails with
// a conflict instead of overwriting.
func (h *SubmitResultHandler) Handle(ctx context.Context, cmd SubmitResultCommand) (*domain.CountResult, error) {
	if cmd.ActualQuantity < 0 {
		return nil, fmt.Errorf("actual quantity cannot be negative: %w", domain.ErrValidation)
	}

	var result *domain.CountResult
	var batchCompleted bool

	err := h.repo.InTx(ctx, func(tx domain.Repository) error {
		item, err := tx.FindItemForUpdate(ctx, cmd.ItemID)
		if err != nil {
			return err
		}
		if item.Status == domain.ItemStatusCounted {
			return fmt.Errorf("item %d already counted: %w", item.ID, domain.ErrConflict)
		}

		batch, err := tx.FindBatchForUpdate(ctx, item.BatchID)
		if err != nil {
			return err
		}
		if !batch.IsOpen() {
			return fmt.Errorf("batch %d is %s: %w", batch.ID, batch.Status, domain.ErrConflict)
		}

		result = buildResult(item, cmd)
		if err := tx.CreateResult(ctx, result); err != nil {
			return fmt.Errorf("failed to create result: %w", err)
		}

		item.Status = domain.ItemStatusCounted
		if err := tx.UpdateItem(ctx, item); err != nil {
			return fmt.Errorf("failed to update item: %w", err)
		}

		if result.HasDiscrepancy {
			if err := h.notifyDiscrepancy(ctx, tx, item, result); err != nil {
				return err
			}
		}

		pending, err := tx.CountPendingItems(ctx, batch.ID)
		if err != nil {
			return fmt.Errorf("failed to count pending items: %w", err)
		}

		switch {
		case pending == 0:
			now := time.Now()
			batch.Status = domain.BatchStatusCompleted
			batch.EndDate = &now
			if err := tx.UpdateBatch(ctx, batch); err != nil {
				return fmt.Errorf("failed to complete batch: %w", err)
			}
			batchCompleted = true
			notification := &domain.Notification{
				UserID:        batch.CreatedBy,
				Type:          domain.NotificationBatchCompleted,
				ReferenceType: domain.ReferenceBatch,
				ReferenceID:   batch.ID,
				Message:       fmt.Sprintf("Cycle count batch %q is complete", batch.Name),
			}
			if err := tx.CreateNotification(ctx, notification); err != nil {
				return fmt.Errorf("failed to create notification: %w", err)
			}
		case batch.Status == domain.BatchStatusPending:
			batch.Status = domain.BatchStatusInProgress
			if err := tx.UpdateBatch(ctx, batch); err != nil {
				return fmt.Errorf("failed to update batch: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.audit.Record(ctx, kafka.ActionResultSubmitted, cmd.ActorID, map[string]interface{}{
		"item_id":         cmd.ItemID,
		"result_id":       result.ID,
		"has_discrepancy": result.HasDiscrepancy,
		"batch_completed": batchCompleted,
	})

	return result, nil
}

// buildResult classifies discrepancies against the snapshot. When quantity
// and location both mismatch the type records quantity and the notes carry
// both explanations.
func buildResult(item *domain.CountItem, cmd SubmitResultCommand) *domain.CountResult {
	var discrepancies []string
	discrepancyType := ""

	if cmd.ActualQuantity != item.ExpectedQuantity {
		discrepancyType = domain.DiscrepancyQuantity
		discrepancies = append(discrepancies,
			fmt.Sprintf("expected quantity %d, counted %d", item.ExpectedQuantity, cmd.ActualQuantity))
	}
	if cmd.ActualLocation != "" && cmd.ActualLocation != item.ExpectedLocation {
		if discrepancyType == "" {
			discrepancyType = domain.DiscrepancyLocation
		}
		discrepancies = append(discrepancies,
			fmt.Sprintf("expected location %q, found %q", item.ExpectedLocation, cmd.ActualLocation))
	}

	return &domain.CountResult{
		ItemID:           item.ID,
		CountedBy:        cmd.ActorID,
		ActualQuantity:   cmd.ActualQuantity,
		ActualLocation:   cmd.ActualLocation,
		Condition:        cmd.Condition,
		Notes:            cmd.Notes,
		HasDiscrepancy:   len(discrepancies) > 0,
		DiscrepancyType:  discrepancyType,
		DiscrepancyNotes: strings.Join(discrepancies, "; "),
		CountedAt:        time.Now(),
	}
}

// notifyDiscrepancy fans out one notification to every elevated user, each
// exactly once, carrying enough identification for follow-up.
func (h *SubmitResultHandler) notifyDiscrepancy(ctx context.Context, tx domain.Repository, item *domain.CountItem, result *domain.CountResult) error {
	identity := fmt.Sprintf("%s %d", item.ItemKind, item.ItemRefID)
	if record, err := tx.Inventory().Get(ctx, item.Ref()); err == nil {
		identity = fmt.Sprintf("%s %s (%s)", item.ItemKind, record.Number, record.Description)
	} else {
		logger.Warn(ctx).Err(err).
			Str("item_kind", string(item.ItemKind)).
			Uint("item_ref_id", item.ItemRefID).
			Msg("Failed to resolve item identity for discrepancy notification")
	}

	recipients, err := h.users.FindElevated(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve elevated users: %w", domain.ErrDependency)
	}

	message := fmt.Sprintf("Discrepancy found for %s: %s", identity, result.DiscrepancyNotes)
	seen := make(map[uint]bool, len(recipients))
	for _, recipient := range recipients {
		if seen[recipient.ID] {
			continue
		}
		seen[recipient.ID] = true

		notification := &domain.Notification{
			UserID:        recipient.ID,
			Type:          domain.NotificationDiscrepancyFound,
			ReferenceType: domain.ReferenceItem,
			ReferenceID:   item.ID,
			Message:       message,
		}
		if err := tx.CreateNotification(ctx, notification); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
	}
	return nil
}
