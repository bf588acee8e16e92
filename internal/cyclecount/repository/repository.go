package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
	invrepo "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/repository"
)

// GormRepository implements domain.Repository over PostgreSQL
type GormRepository struct {
	db        *gorm.DB
	inventory invdomain.Provider
}

// NewGormRepository creates a new cycle count repository. The embedded
// inventory provider shares the same database handle, so InTx covers both.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{
		db:        db,
		inventory: invrepo.NewGormProvider(db),
	}
}

// AutoMigrate migrates the cycle count tables
func (r *GormRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.CountSchedule{},
		&domain.CountBatch{},
		&domain.CountItem{},
		&domain.CountResult{},
		&domain.CountAdjustment{},
		&domain.Notification{},
	)
}

// InTx runs fn against a transaction-bound repository
func (r *GormRepository) InTx(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormRepository(tx))
	})
}

// Inventory returns the provider bound to this repository's handle
func (r *GormRepository) Inventory() invdomain.Provider {
	return r.inventory
}

// Schedules

func (r *GormRepository) CreateSchedule(ctx context.Context, schedule *domain.CountSchedule) error {
	return r.db.WithContext(ctx).Create(schedule).Error
}

func (r *GormRepository) FindScheduleByID(ctx context.Context, id uint) (*domain.CountSchedule, error) {
	var schedule domain.CountSchedule
	if err := r.db.WithContext(ctx).First(&schedule, id).Error; err != nil {
		return nil, notFound(err, "schedule", id)
	}
	return &schedule, nil
}

func (r *GormRepository) FindSchedules(ctx context.Context, activeOnly bool, limit, offset int) ([]domain.CountSchedule, error) {
	var schedules []domain.CountSchedule
	q := r.db.WithContext(ctx).Order("id")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Limit(limit).Offset(offset).Find(&schedules).Error
	return schedules, err
}

func (r *GormRepository) UpdateSchedule(ctx context.Context, schedule *domain.CountSchedule) error {
	return r.db.WithContext(ctx).Save(schedule).Error
}

func (r *GormRepository) DeleteSchedule(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.CountSchedule{}, id).Error
}

func (r *GormRepository) DeactivateSchedule(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&domain.CountSchedule{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *GormRepository) CountBatchesBySchedule(ctx context.Context, scheduleID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.CountBatch{}).
		Where("schedule_id = ?", scheduleID).
		Count(&count).Error
	return count, err
}

// Batches

func (r *GormRepository) CreateBatch(ctx context.Context, batch *domain.CountBatch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *GormRepository) FindBatchByID(ctx context.Context, id uint) (*domain.CountBatch, error) {
	var batch domain.CountBatch
	if err := r.db.WithContext(ctx).First(&batch, id).Error; err != nil {
		return nil, notFound(err, "batch", id)
	}
	return &batch, nil
}

func (r *GormRepository) FindBatchForUpdate(ctx context.Context, id uint) (*domain.CountBatch, error) {
	var batch domain.CountBatch
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&batch, id).Error
	if err != nil {
		return nil, notFound(err, "batch", id)
	}
	return &batch, nil
}

func (r *GormRepository) FindBatches(ctx context.Context, filter domain.BatchFilter) ([]domain.CountBatch, error) {
	var batches []domain.CountBatch
	q := r.db.WithContext(ctx).Order("id DESC")
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ScheduleID != 0 {
		q = q.Where("schedule_id = ?", filter.ScheduleID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Offset(filter.Offset).Find(&batches).Error
	return batches, err
}

func (r *GormRepository) UpdateBatch(ctx context.Context, batch *domain.CountBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

func (r *GormRepository) DeleteBatch(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("batch_id = ?", id).Delete(&domain.CountItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.CountBatch{}, id).Error
	})
}

func (r *GormRepository) CountResultsInBatch(ctx context.Context, batchID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.CountResult{}).
		Joins("JOIN cycle_count_items ON cycle_count_items.id = cycle_count_results.item_id").
		Where("cycle_count_items.batch_id = ?", batchID).
		Count(&count).Error
	return count, err
}

func (r *GormRepository) CountPendingItems(ctx context.Context, batchID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.CountItem{}).
		Where("batch_id = ? AND status = ?", batchID, domain.ItemStatusPending).
		Count(&count).Error
	return count, err
}

// Items

func (r *GormRepository) CreateItems(ctx context.Context, items []domain.CountItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *GormRepository) FindItemByID(ctx context.Context, id uint) (*domain.CountItem, error) {
	var item domain.CountItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err, "item", id)
	}
	return &item, nil
}

func (r *GormRepository) FindItemForUpdate(ctx context.Context, id uint) (*domain.CountItem, error) {
	var item domain.CountItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, id).Error
	if err != nil {
		return nil, notFound(err, "item", id)
	}
	return &item, nil
}

func (r *GormRepository) FindItemsByBatch(ctx context.Context, batchID uint, status string) ([]domain.CountItem, error) {
	var items []domain.CountItem
	q := r.db.WithContext(ctx).Where("batch_id = ?", batchID).Order("id")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *GormRepository) UpdateItem(ctx context.Context, item *domain.CountItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Results

func (r *GormRepository) CreateResult(ctx context.Context, result *domain.CountResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("item %d already has a result: %w", result.ItemID, domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *GormRepository) FindResultByID(ctx context.Context, id uint) (*domain.CountResult, error) {
	var result domain.CountResult
	err := r.db.WithContext(ctx).Preload("Item").First(&result, id).Error
	if err != nil {
		return nil, notFound(err, "result", id)
	}
	return &result, nil
}

func (r *GormRepository) FindResults(ctx context.Context, filter domain.ResultFilter) ([]domain.CountResult, error) {
	var results []domain.CountResult
	q := r.db.WithContext(ctx).
		Preload("Item").
		Order("cycle_count_results.counted_at DESC")
	if filter.BatchID != 0 {
		q = q.Joins("JOIN cycle_count_items ON cycle_count_items.id = cycle_count_results.item_id").
			Where("cycle_count_items.batch_id = ?", filter.BatchID)
	}
	if filter.CountedBy != 0 {
		q = q.Where("cycle_count_results.counted_by = ?", filter.CountedBy)
	}
	if filter.OnlyDiscrepancies {
		q = q.Where("cycle_count_results.has_discrepancy = ?", true)
	}
	if filter.From != nil {
		q = q.Where("cycle_count_results.counted_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("cycle_count_results.counted_at <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Offset(filter.Offset).Find(&results).Error
	return results, err
}

// Adjustments

// CreateAdjustment inserts the single adjustment for a result. Concurrent
// approvals can both pass the existence check; the loser hits the result_id
// unique index and surfaces the same conflict as the check itself.
func (r *GormRepository) CreateAdjustment(ctx context.Context, adjustment *domain.CountAdjustment) error {
	if err := r.db.WithContext(ctx).Create(adjustment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("result %d already adjusted: %w", adjustment.ResultID, domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *GormRepository) FindAdjustmentByResult(ctx context.Context, resultID uint) (*domain.CountAdjustment, error) {
	var adjustment domain.CountAdjustment
	err := r.db.WithContext(ctx).Where("result_id = ?", resultID).First(&adjustment).Error
	if err != nil {
		return nil, notFound(err, "adjustment for result", resultID)
	}
	return &adjustment, nil
}

func (r *GormRepository) FindAdjustments(ctx context.Context, filter domain.AdjustmentFilter) ([]domain.CountAdjustment, error) {
	var adjustments []domain.CountAdjustment
	q := r.db.WithContext(ctx).Preload("Result").Preload("Result.Item").Order("approved_at DESC")
	if filter.From != nil {
		q = q.Where("approved_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("approved_at <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	err := q.Offset(filter.Offset).Find(&adjustments).Error
	return adjustments, err
}

// Notifications

func (r *GormRepository) CreateNotification(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *GormRepository) FindNotificationsByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]domain.Notification, error) {
	var notifications []domain.Notification
	q := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC")
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Offset(offset).Find(&notifications).Error
	return notifications, err
}

func (r *GormRepository) CountUnreadNotifications(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *GormRepository) MarkNotificationRead(ctx context.Context, id, userID uint) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *GormRepository) MarkAllNotificationsRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", entity, id, domain.ErrNotFound)
	}
	return err
}
