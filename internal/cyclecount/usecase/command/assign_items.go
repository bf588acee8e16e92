package command

import (
	"context"
	"fmt"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	userdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/user/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/kafka"
	"github.com/PapaBear1981/supplyline-mro-suite/pkg/logger"
)

// Assignment pairs one batch item with a counting user
type Assignment struct {
	ItemID uint `json:"item_id"`
	UserID uint `json:"user_id"`
}

// AssignItemsCommand represents the command to assign batch items to counters
type AssignItemsCommand struct {
	BatchID     uint
	Assignments []Assignment
	ActorID     uint
}

// AssignItemsResult summarizes a partially successful assignment call
type AssignItemsResult struct {
	Assigned int `json:"assigned"`
	Skipped  int `json:"skipped"`
}

// AssignItemsHandler handles assignment commands
type AssignItemsHandler struct {
	repo  domain.Repository
	users userdomain.Directory
	audit domain.AuditLogger
}

// NewAssignItemsHandler creates a new assign items handler
func NewAssignItemsHandler(repo domain.Repository, users userdomain.Directory, audit domain.AuditLogger) *AssignItemsHandler {
	return &AssignItemsHandler{repo: repo, users: users, audit: audit}
}

// Handle executes the assignment command. Invalid pairs are skipped rather
// than failing the call; assignment is corrective and interactive, so partial
// success is acceptable. One notification per user summarizes the grouped
// assignments.
func (h *AssignItemsHandler) Handle(ctx context.Context, cmd AssignItemsCommand) (*AssignItemsResult, error) {
	if len(cmd.Assignments) == 0 {
		return nil, fmt.Errorf("no assignments given: %w", domain.ErrValidation)
	}

	batch, err := h.repo.FindBatchByID(ctx, cmd.BatchID)
	if err != nil {
		return nil, err
	}
	if !batch.IsOpen() {
		return nil, fmt.Errorf("batch %d is %s: %w", batch.ID, batch.Status, domain.ErrConflict)
	}

	result := &AssignItemsResult{}
	perUser := make(map[uint]int)

	err = h.repo.InTx(ctx, func(tx domain.Repository) error {
		for _, pair := range cmd.Assignments {
			item, err := tx.FindItemByID(ctx, pair.ItemID)
			if err != nil || item.BatchID != batch.ID {
				logger.Warn(ctx).
					Uint("item_id", pair.ItemID).
					Uint("batch_id", batch.ID).
					Msg("Skipping assignment of unknown item")
				result.Skipped++
				continue
			}

			user, err := h.users.FindByID(ctx, pair.UserID)
			if err != nil || !user.IsActive {
				logger.Warn(ctx).
					Uint("user_id", pair.UserID).
					Msg("Skipping assignment to unknown or inactive user")
				result.Skipped++
				continue
			}

			userID := pair.UserID
			item.AssignedTo = &userID
			if err := tx.UpdateItem(ctx, item); err != nil {
				return fmt.Errorf("failed to assign item %d: %w", item.ID, err)
			}
			perUser[userID]++
			result.Assigned++
		}

		for userID, count := range perUser {
			notification := &domain.Notification{
				UserID:        userID,
				Type:          domain.NotificationBatchAssigned,
				ReferenceType: domain.ReferenceBatch,
				ReferenceID:   batch.ID,
				Message:       fmt.Sprintf("You have been assigned %d items in cycle count batch %q", count, batch.Name),
			}
			if err := tx.CreateNotification(ctx, notification); err != nil {
				return fmt.Errorf("failed to create notification: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.audit.Record(ctx, kafka.ActionItemsAssigned, cmd.ActorID, map[string]interface{}{
		"batch_id": batch.ID,
		"assigned": result.Assigned,
		"skipped":  result.Skipped,
	})

	return result, nil
}
