package query

import (
	"context"
	"fmt"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
)

// ListNotificationsQuery lists the actor's notifications
type ListNotificationsQuery struct {
	UserID     uint
	UnreadOnly bool
	Limit      int
	Offset     int
}

// NotificationList carries one page of notifications plus the unread total
type NotificationList struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

// ListNotificationsHandler handles list notifications queries
type ListNotificationsHandler struct {
	repo domain.Repository
}

// NewListNotificationsHandler creates a new list notifications handler
func NewListNotificationsHandler(repo domain.Repository) *ListNotificationsHandler {
	return &ListNotificationsHandler{repo: repo}
}

// Handle executes the query
func (h *ListNotificationsHandler) Handle(ctx context.Context, q ListNotificationsQuery) (*NotificationList, error) {
	notifications, err := h.repo.FindNotificationsByUser(ctx, q.UserID, q.UnreadOnly, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	unread, err := h.repo.CountUnreadNotifications(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return &NotificationList{Notifications: notifications, UnreadCount: unread}, nil
}
