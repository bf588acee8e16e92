package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/kafka"
)

// ApproveAdjustmentCommand represents the command to approve one inventory
// correction for a counted discrepancy
type ApproveAdjustmentCommand struct {
	ResultID       uint
	AdjustmentType string
	NewValue       string
	Notes          string
	ActorID        uint
}

// ApproveAdjustmentHandler handles adjustment approvals
type ApproveAdjustmentHandler struct {
	repo  domain.Repository
	audit domain.AuditLogger
}

// NewApproveAdjustmentHandler creates a new approve adjustment handler
func NewApproveAdjustmentHandler(repo domain.Repository, audit domain.AuditLogger) *ApproveAdjustmentHandler {
	return &ApproveAdjustmentHandler{repo: repo, audit: audit}
}

// Handle executes the approval. The adjustment record and the inventory write
// share one transaction, and the recorded old value is read from the live
// record under lock at approval time. A result can be adjusted at most once.
func (h *ApproveAdjustmentHandler) Handle(ctx context.Context, cmd ApproveAdjustmentCommand) (*domain.CountAdjustment, error) {
	if !domain.ValidAdjustmentType(cmd.AdjustmentType) {
		return nil, fmt.Errorf("unknown adjustment type %q: %w", cmd.AdjustmentType, domain.ErrValidation)
	}
	if cmd.NewValue == "" {
		return nil, fmt.Errorf("new value cannot be empty: %w", domain.ErrValidation)
	}

	var adjustment *domain.CountAdjustment

	err := h.repo.InTx(ctx, func(tx domain.Repository) error {
		result, err := tx.FindResultByID(ctx, cmd.ResultID)
		if err != nil {
			return err
		}
		if result.Item == nil {
			return fmt.Errorf("result %d has no item: %w", result.ID, domain.ErrDependency)
		}

		if _, err := tx.FindAdjustmentByResult(ctx, result.ID); err == nil {
			return fmt.Errorf("result %d already adjusted: %w", result.ID, domain.ErrConflict)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		oldValue, err := tx.Inventory().SetField(ctx, result.Item.Ref(), adjustmentField(cmd.AdjustmentType), cmd.NewValue)
		if err != nil {
			if errors.Is(err, invdomain.ErrInvalidField) {
				return fmt.Errorf("%s adjustment not applicable to %s: %w", cmd.AdjustmentType, result.Item.ItemKind, domain.ErrValidation)
			}
			if errors.Is(err, invdomain.ErrNotFound) {
				return fmt.Errorf("inventory record for result %d: %w", result.ID, domain.ErrNotFound)
			}
			return fmt.Errorf("failed to apply inventory adjustment: %w", err)
		}

		adjustment = &domain.CountAdjustment{
			ResultID:       result.ID,
			ApprovedBy:     cmd.ActorID,
			AdjustmentType: cmd.AdjustmentType,
			OldValue:       oldValue,
			NewValue:       cmd.NewValue,
			Notes:          cmd.Notes,
			ApprovedAt:     time.Now(),
		}
		if err := tx.CreateAdjustment(ctx, adjustment); err != nil {
			return fmt.Errorf("failed to create adjustment: %w", err)
		}

		notification := &domain.Notification{
			UserID:        result.CountedBy,
			Type:          domain.NotificationAdjustmentApproved,
			ReferenceType: domain.ReferenceAdjustment,
			ReferenceID:   adjustment.ID,
			Message:       fmt.Sprintf("Adjustment approved for your count result %d: %s %q -> %q", result.ID, cmd.AdjustmentType, oldValue, cmd.NewValue),
		}
		if err := tx.CreateNotification(ctx, notification); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.audit.Record(ctx, kafka.ActionAdjustmentApproved, cmd.ActorID, map[string]interface{}{
		"result_id":       cmd.ResultID,
		"adjustment_id":   adjustment.ID,
		"adjustment_type": cmd.AdjustmentType,
		"old_value":       adjustment.OldValue,
		"new_value":       cmd.NewValue,
	})

	return adjustment, nil
}

// adjustmentField maps an adjustment type to the provider field it writes
func adjustmentField(adjustmentType string) string {
	switch adjustmentType {
	case domain.AdjustmentQuantity:
		return invdomain.FieldQuantity
	case domain.AdjustmentLocation:
		return invdomain.FieldLocation
	case domain.AdjustmentCondition:
		return invdomain.FieldCondition
	default:
		return invdomain.FieldStatus
	}
}
