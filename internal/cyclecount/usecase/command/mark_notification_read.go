package command

import (
	"context"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
)

// MarkNotificationReadCommand marks one notification read for its recipient
type MarkNotificationReadCommand struct {
	NotificationID uint
	ActorID        uint
}

// MarkNotificationReadHandler handles mark notification read commands
type MarkNotificationReadHandler struct {
	repo domain.Repository
}

// NewMarkNotificationReadHandler creates a new mark notification read handler
func NewMarkNotificationReadHandler(repo domain.Repository) *MarkNotificationReadHandler {
	return &MarkNotificationReadHandler{repo: repo}
}

// Handle marks the notification read. Recipients can only touch their own
// notifications; anything else reads as not found.
func (h *MarkNotificationReadHandler) Handle(ctx context.Context, cmd MarkNotificationReadCommand) error {
	return h.repo.MarkNotificationRead(ctx, cmd.NotificationID, cmd.ActorID)
}

// MarkAllNotificationsReadCommand marks every unread notification for the actor
type MarkAllNotificationsReadCommand struct {
	ActorID uint
}

// MarkAllNotificationsReadHandler handles mark all notifications read commands
type MarkAllNotificationsReadHandler struct {
	repo domain.Repository
}

// NewMarkAllNotificationsReadHandler creates a new mark all notifications read handler
func NewMarkAllNotificationsReadHandler(repo domain.Repository) *MarkAllNotificationsReadHandler {
	return &MarkAllNotificationsReadHandler{repo: repo}
}

// Handle marks all of the actor's notifications read
func (h *MarkAllNotificationsReadHandler) Handle(ctx context.Context, cmd MarkAllNotificationsReadCommand) error {
	return h.repo.MarkAllNotificationsRead(ctx, cmd.ActorID)
}
