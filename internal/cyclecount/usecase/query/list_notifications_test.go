package query

import (
	"context"
	"testing"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/repository"
)

func TestListNotificationsUnreadCount(t *testing.T) {
	repo := repository.NewMemoryRepository(nil)
	seed := []domain.Notification{
		{UserID: 5, Type: domain.NotificationBatchAssigned, Message: "one"},
		{UserID: 5, Type: domain.NotificationDiscrepancyFound, Message: "two"},
		{UserID: 6, Type: domain.NotificationBatchAssigned, Message: "other user"},
	}
	for i := range seed {
		if err := repo.CreateNotification(context.Background(), &seed[i]); err != nil {
			t.Fatalf("CreateNotification: %v", err)
		}
	}
	if err := repo.MarkNotificationRead(context.Background(), seed[0].ID, 5); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}

	list, err := NewListNotificationsHandler(repo).Handle(context.Background(), ListNotificationsQuery{UserID: 5})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(list.Notifications) != 2 {
		t.Fatalf("expected both notifications, got %d", len(list.Notifications))
	}
	if list.UnreadCount != 1 {
		t.Fatalf("expected 1 unread, got %d", list.UnreadCount)
	}

	unread, err := NewListNotificationsHandler(repo).Handle(context.Background(), ListNotificationsQuery{UserID: 5, UnreadOnly: true})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(unread.Notifications) != 1 || unread.Notifications[0].Message != "two" {
		t.Fatalf("unread filter wrong: %+v", unread.Notifications)
	}
}
