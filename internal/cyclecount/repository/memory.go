package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
	invrepo "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/repository"
)

// MemoryRepository is an in-memory domain.Repository used by tests. It shares
// an in-memory inventory provider so adjustment flows can be exercised end to
// end without a database.
type MemoryRepository struct {
	mu sync.Mutex

	schedules     map[uint]*domain.CountSchedule
	batches       map[uint]*domain.CountBatch
	items         map[uint]*domain.CountItem
	results       map[uint]*domain.CountResult
	adjustments   map[uint]*domain.CountAdjustment
	notifications map[uint]*domain.Notification
	nextID        uint

	inventory *invrepo.MemoryProvider
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository(inventory *invrepo.MemoryProvider) *MemoryRepository {
	if inventory == nil {
		inventory = invrepo.NewMemoryProvider()
	}
	return &MemoryRepository{
		schedules:     make(map[uint]*domain.CountSchedule),
		batches:       make(map[uint]*domain.CountBatch),
		items:         make(map[uint]*domain.CountItem),
		results:       make(map[uint]*domain.CountResult),
		adjustments:   make(map[uint]*domain.CountAdjustment),
		notifications: make(map[uint]*domain.Notification),
		nextID:        1,
		inventory:     inventory,
	}
}

func (r *MemoryRepository) nextSeq() uint {
	id := r.nextID
	r.nextID++
	return id
}

// InTx runs fn directly; the memory store has no transactional isolation
func (r *MemoryRepository) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	return fn(r)
}

// Inventory returns the shared in-memory provider
func (r *MemoryRepository) Inventory() invdomain.Provider {
	return r.inventory
}

// Schedules

func (r *MemoryRepository) CreateSchedule(ctx context.Context, schedule *domain.CountSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if schedule.ID == 0 {
		schedule.ID = r.nextSeq()
	}
	copied := *schedule
	r.schedules[schedule.ID] = &copied
	return nil
}

func (r *MemoryRepository) FindScheduleByID(ctx context.Context, id uint) (*domain.CountSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	schedule, ok := r.schedules[id]
	if !ok {
		return nil, fmt.Errorf("schedule %d: %w", id, domain.ErrNotFound)
	}
	copied := *schedule
	return &copied, nil
}

func (r *MemoryRepository) FindSchedules(ctx context.Context, activeOnly bool, limit, offset int) ([]domain.CountSchedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var schedules []domain.CountSchedule
	for _, s := range r.schedules {
		if activeOnly && !s.IsActive {
			continue
		}
		schedules = append(schedules, *s)
	}
	sort.Slice(schedules, func(i, j int) bool { return schedules[i].ID < schedules[j].ID })
	return window(schedules, limit, offset), nil
}

func (r *MemoryRepository) UpdateSchedule(ctx context.Context, schedule *domain.CountSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schedules[schedule.ID]; !ok {
		return fmt.Errorf("schedule %d: %w", schedule.ID, domain.ErrNotFound)
	}
	copied := *schedule
	r.schedules[schedule.ID] = &copied
	return nil
}

func (r *MemoryRepository) DeleteSchedule(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.schedules, id)
	return nil
}

func (r *MemoryRepository) DeactivateSchedule(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	schedule, ok := r.schedules[id]
	if !ok {
		return fmt.Errorf("schedule %d: %w", id, domain.ErrNotFound)
	}
	schedule.IsActive = false
	return nil
}

func (r *MemoryRepository) CountBatchesBySchedule(ctx context.Context, scheduleID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, b := range r.batches {
		if b.ScheduleID != nil && *b.ScheduleID == scheduleID {
			count++
		}
	}
	return count, nil
}

// Batches

func (r *MemoryRepository) CreateBatch(ctx context.Context, batch *domain.CountBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if batch.ID == 0 {
		batch.ID = r.nextSeq()
	}
	if batch.Status == "" {
		batch.Status = domain.BatchStatusPending
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now()
	}
	copied := *batch
	r.batches[batch.ID] = &copied
	return nil
}

func (r *MemoryRepository) FindBatchByID(ctx context.Context, id uint) (*domain.CountBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.batches[id]
	if !ok {
		return nil, fmt.Errorf("batch %d: %w", id, domain.ErrNotFound)
	}
	copied := *batch
	return &copied, nil
}

func (r *MemoryRepository) FindBatchForUpdate(ctx context.Context, id uint) (*domain.CountBatch, error) {
	return r.FindBatchByID(ctx, id)
}

func (r *MemoryRepository) FindBatches(ctx context.Context, filter domain.BatchFilter) ([]domain.CountBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var batches []domain.CountBatch
	for _, b := range r.batches {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.ScheduleID != 0 && (b.ScheduleID == nil || *b.ScheduleID != filter.ScheduleID) {
			continue
		}
		batches = append(batches, *b)
	}
	sort.Slice(batches, func(i, j int) bool { return batches[i].ID > batches[j].ID })
	return window(batches, filter.Limit, filter.Offset), nil
}

func (r *MemoryRepository) UpdateBatch(ctx context.Context, batch *domain.CountBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.batches[batch.ID]; !ok {
		return fmt.Errorf("batch %d: %w", batch.ID, domain.ErrNotFound)
	}
	copied := *batch
	r.batches[batch.ID] = &copied
	return nil
}

func (r *MemoryRepository) DeleteBatch(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for itemID, item := range r.items {
		if item.BatchID == id {
			delete(r.items, itemID)
		}
	}
	delete(r.batches, id)
	return nil
}

func (r *MemoryRepository) CountResultsInBatch(ctx context.Context, batchID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, result := range r.results {
		if item, ok := r.items[result.ItemID]; ok && item.BatchID == batchID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) CountPendingItems(ctx context.Context, batchID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, item := range r.items {
		if item.BatchID == batchID && item.Status == domain.ItemStatusPending {
			count++
		}
	}
	return count, nil
}

// Items

func (r *MemoryRepository) CreateItems(ctx context.Context, items []domain.CountItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range items {
		if items[i].ID == 0 {
			items[i].ID = r.nextSeq()
		}
		if items[i].Status == "" {
			items[i].Status = domain.ItemStatusPending
		}
		copied := items[i]
		r.items[items[i].ID] = &copied
	}
	return nil
}

func (r *MemoryRepository) FindItemByID(ctx context.Context, id uint) (*domain.CountItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("item %d: %w", id, domain.ErrNotFound)
	}
	copied := *item
	return &copied, nil
}

func (r *MemoryRepository) FindItemForUpdate(ctx context.Context, id uint) (*domain.CountItem, error) {
	return r.FindItemByID(ctx, id)
}

func (r *MemoryRepository) FindItemsByBatch(ctx context.Context, batchID uint, status string) ([]domain.CountItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []domain.CountItem
	for _, item := range r.items {
		if item.BatchID != batchID {
			continue
		}
		if status != "" && item.Status != status {
			continue
		}
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (r *MemoryRepository) UpdateItem(ctx context.Context, item *domain.CountItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return fmt.Errorf("item %d: %w", item.ID, domain.ErrNotFound)
	}
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

// Results

func (r *MemoryRepository) CreateResult(ctx context.Context, result *domain.CountResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.results {
		if existing.ItemID == result.ItemID {
			return fmt.Errorf("item %d already has a result: %w", result.ItemID, domain.ErrConflict)
		}
	}
	if result.ID == 0 {
		result.ID = r.nextSeq()
	}
	copied := *result
	copied.Item = nil
	r.results[result.ID] = &copied
	return nil
}

func (r *MemoryRepository) FindResultByID(ctx context.Context, id uint) (*domain.CountResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[id]
	if !ok {
		return nil, fmt.Errorf("result %d: %w", id, domain.ErrNotFound)
	}
	copied := *result
	if item, ok := r.items[result.ItemID]; ok {
		itemCopy := *item
		copied.Item = &itemCopy
	}
	return &copied, nil
}

func (r *MemoryRepository) FindResults(ctx context.Context, filter domain.ResultFilter) ([]domain.CountResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []domain.CountResult
	for _, result := range r.results {
		item := r.items[result.ItemID]
		if filter.BatchID != 0 && (item == nil || item.BatchID != filter.BatchID) {
			continue
		}
		if filter.CountedBy != 0 && result.CountedBy != filter.CountedBy {
			continue
		}
		if filter.OnlyDiscrepancies && !result.HasDiscrepancy {
			continue
		}
		if filter.From != nil && result.CountedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && result.CountedAt.After(*filter.To) {
			continue
		}
		copied := *result
		if item != nil {
			itemCopy := *item
			copied.Item = &itemCopy
		}
		results = append(results, copied)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return window(results, filter.Limit, filter.Offset), nil
}

// Adjustments

func (r *MemoryRepository) CreateAdjustment(ctx context.Context, adjustment *domain.CountAdjustment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.adjustments {
		if existing.ResultID == adjustment.ResultID {
			return fmt.Errorf("result %d already adjusted: %w", adjustment.ResultID, domain.ErrConflict)
		}
	}
	if adjustment.ID == 0 {
		adjustment.ID = r.nextSeq()
	}
	copied := *adjustment
	copied.Result = nil
	r.adjustments[adjustment.ID] = &copied
	return nil
}

func (r *MemoryRepository) FindAdjustmentByResult(ctx context.Context, resultID uint) (*domain.CountAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, adjustment := range r.adjustments {
		if adjustment.ResultID == resultID {
			copied := *adjustment
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("adjustment for result %d: %w", resultID, domain.ErrNotFound)
}

func (r *MemoryRepository) FindAdjustments(ctx context.Context, filter domain.AdjustmentFilter) ([]domain.CountAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var adjustments []domain.CountAdjustment
	for _, adjustment := range r.adjustments {
		if filter.From != nil && adjustment.ApprovedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && adjustment.ApprovedAt.After(*filter.To) {
			continue
		}
		adjustments = append(adjustments, *adjustment)
	}
	sort.Slice(adjustments, func(i, j int) bool { return adjustments[i].ID < adjustments[j].ID })
	return window(adjustments, filter.Limit, filter.Offset), nil
}

// Notifications

func (r *MemoryRepository) CreateNotification(ctx context.Context, notification *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if notification.ID == 0 {
		notification.ID = r.nextSeq()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	copied := *notification
	r.notifications[notification.ID] = &copied
	return nil
}

func (r *MemoryRepository) FindNotificationsByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var notifications []domain.Notification
	for _, n := range r.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		notifications = append(notifications, *n)
	}
	sort.Slice(notifications, func(i, j int) bool { return notifications[i].ID > notifications[j].ID })
	return window(notifications, limit, offset), nil
}

func (r *MemoryRepository) CountUnreadNotifications(ctx context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *MemoryRepository) MarkNotificationRead(ctx context.Context, id, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications[id]
	if !ok || n.UserID != userID {
		return fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)
	}
	n.IsRead = true
	return nil
}

func (r *MemoryRepository) MarkAllNotificationsRead(ctx context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func window[T any](rows []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(rows) {
			return nil
		}
		rows = rows[offset:]
	}
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
