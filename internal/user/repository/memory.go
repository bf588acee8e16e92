package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/user/domain"
)

// MemoryDirectory is an in-memory domain.Directory for tests
type MemoryDirectory struct {
	mu    sync.Mutex
	users map[uint]*domain.User
}

// NewMemoryDirectory creates an empty in-memory directory
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{users: make(map[uint]*domain.User)}
}

// Add stores a user
func (d *MemoryDirectory) Add(user domain.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[user.ID] = &user
}

func (d *MemoryDirectory) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	copied := *user
	return &copied, nil
}

func (d *MemoryDirectory) FindElevated(ctx context.Context) ([]domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var users []domain.User
	for _, user := range d.users {
		if user.IsActive && user.IsElevated() {
			users = append(users, *user)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}
