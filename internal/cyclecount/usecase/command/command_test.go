package command

import (
	"context"
	"testing"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/repository"
	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
	invrepo "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/repository"
	userdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/user/domain"
	userrepo "github.com/PapaBear1981/supplyline-mro-suite/internal/user/repository"
)

type env struct {
	repo      *repository.MemoryRepository
	inventory *invrepo.MemoryProvider
	users     *userrepo.MemoryDirectory
	audit     domain.NopAuditLogger
}

func newEnv() *env {
	inventory := invrepo.NewMemoryProvider()
	return &env{
		repo:      repository.NewMemoryRepository(inventory),
		inventory: inventory,
		users:     userrepo.NewMemoryDirectory(),
	}
}

func (e *env) addUser(t *testing.T, id uint, role string, active bool) {
	t.Helper()
	e.users.Add(userdomain.User{ID: id, Username: "user", Role: role, IsActive: active})
}

func (e *env) addBatch(t *testing.T, status string) *domain.CountBatch {
	t.Helper()
	batch := &domain.CountBatch{Name: "Weekly crib count", Status: status, CreatedBy: 1}
	if err := e.repo.CreateBatch(context.Background(), batch); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	return batch
}

func (e *env) addItem(t *testing.T, batchID uint, ref invdomain.Ref, expectedQty int, expectedLoc string) *domain.CountItem {
	t.Helper()
	items := []domain.CountItem{{
		BatchID:          batchID,
		ItemKind:         ref.Kind,
		ItemRefID:        ref.ID,
		ExpectedQuantity: expectedQty,
		ExpectedLocation: expectedLoc,
		Status:           domain.ItemStatusPending,
	}}
	if err := e.repo.CreateItems(context.Background(), items); err != nil {
		t.Fatalf("CreateItems: %v", err)
	}
	return &items[0]
}

func (e *env) notificationsFor(t *testing.T, userID uint) []domain.Notification {
	t.Helper()
	notifications, err := e.repo.FindNotificationsByUser(context.Background(), userID, false, 0, 0)
	if err != nil {
		t.Fatalf("FindNotificationsByUser: %v", err)
	}
	return notifications
}
