package domain

import (
	"context"
	"time"

	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
)

// BatchFilter narrows batch listings
type BatchFilter struct {
	Status     string
	ScheduleID uint
	Limit      int
	Offset     int
}

// ResultFilter narrows result listings. From/To bound CountedAt.
type ResultFilter struct {
	BatchID           uint
	CountedBy         uint
	OnlyDiscrepancies bool
	From              *time.Time
	To                *time.Time
	Limit             int
	Offset            int
}

// AdjustmentFilter narrows adjustment listings
type AdjustmentFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// Repository is the data access contract for the cycle count subsystem.
//
// InTx runs fn against a transaction-bound Repository; every check-then-set
// transition (item counted-once, batch auto-complete, adjustment
// read-modify-write) must run inside one. Inventory returns a provider bound
// to the same handle, so adjustment writes commit or roll back together with
// the adjustment record.
type Repository interface {
	InTx(ctx context.Context, fn func(Repository) error) error
	Inventory() invdomain.Provider

	// Schedules
	CreateSchedule(ctx context.Context, schedule *CountSchedule) error
	FindScheduleByID(ctx context.Context, id uint) (*CountSchedule, error)
	FindSchedules(ctx context.Context, activeOnly bool, limit, offset int) ([]CountSchedule, error)
	UpdateSchedule(ctx context.Context, schedule *CountSchedule) error
	DeleteSchedule(ctx context.Context, id uint) error
	DeactivateSchedule(ctx context.Context, id uint) error
	CountBatchesBySchedule(ctx context.Context, scheduleID uint) (int64, error)

	// Batches
	CreateBatch(ctx context.Context, batch *CountBatch) error
	FindBatchByID(ctx context.Context, id uint) (*CountBatch, error)
	FindBatchForUpdate(ctx context.Context, id uint) (*CountBatch, error)
	FindBatches(ctx context.Context, filter BatchFilter) ([]CountBatch, error)
	UpdateBatch(ctx context.Context, batch *CountBatch) error
	DeleteBatch(ctx context.Context, id uint) error
	CountResultsInBatch(ctx context.Context, batchID uint) (int64, error)
	CountPendingItems(ctx context.Context, batchID uint) (int64, error)

	// Items
	CreateItems(ctx context.Context, items []CountItem) error
	FindItemByID(ctx context.Context, id uint) (*CountItem, error)
	FindItemForUpdate(ctx context.Context, id uint) (*CountItem, error)
	FindItemsByBatch(ctx context.Context, batchID uint, status string) ([]CountItem, error)
	UpdateItem(ctx context.Context, item *CountItem) error

	// Results
	CreateResult(ctx context.Context, result *CountResult) error
	FindResultByID(ctx context.Context, id uint) (*CountResult, error)
	FindResults(ctx context.Context, filter ResultFilter) ([]CountResult, error)

	// Adjustments
	CreateAdjustment(ctx context.Context, adjustment *CountAdjustment) error
	FindAdjustmentByResult(ctx context.Context, resultID uint) (*CountAdjustment, error)
	FindAdjustments(ctx context.Context, filter AdjustmentFilter) ([]CountAdjustment, error)

	// Notifications
	CreateNotification(ctx context.Context, notification *Notification) error
	FindNotificationsByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]Notification, error)
	CountUnreadNotifications(ctx context.Context, userID uint) (int64, error)
	MarkNotificationRead(ctx context.Context, id, userID uint) error
	MarkAllNotificationsRead(ctx context.Context, userID uint) error
}
