package query

import (
	"context"
	"fmt"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
)

// BatchDetail augments one batch with item progress
type BatchDetail struct {
	Batch        *domain.CountBatch `json:"batch"`
	TotalItems   int                `json:"total_items"`
	CountedItems int                `json:"counted_items"`
	PendingItems int                `json:"pending_items"`
	Progress     float64            `json:"progress"`
}

// GetBatchQuery fetches one batch with its item progress
type GetBatchQuery struct {
	BatchID uint
}

// GetBatchHandler handles get batch queries
type GetBatchHandler struct {
	repo domain.Repository
}

// NewGetBatchHandler creates a new get batch handler
func NewGetBatchHandler(repo domain.Repository) *GetBatchHandler {
	return &GetBatchHandler{repo: repo}
}

// Handle executes the query
func (h *GetBatchHandler) Handle(ctx context.Context, q GetBatchQuery) (*BatchDetail, error) {
	batch, err := h.repo.FindBatchByID(ctx, q.BatchID)
	if err != nil {
		return nil, err
	}

	items, err := h.repo.FindItemsByBatch(ctx, batch.ID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load batch items: %w", err)
	}

	detail := &BatchDetail{Batch: batch, TotalItems: len(items)}
	for _, item := range items {
		if item.Status == domain.ItemStatusCounted {
			detail.CountedItems++
		} else {
			detail.PendingItems++
		}
	}
	if detail.TotalItems > 0 {
		detail.Progress = float64(detail.CountedItems) / float64(detail.TotalItems)
	}
	return detail, nil
}

// ListBatchesQuery lists batches with optional status and schedule filters
type ListBatchesQuery struct {
	Status     string
	ScheduleID uint
	Limit      int
	Offset     int
}

// ListBatchesHandler handles list batches queries
type ListBatchesHandler struct {
	repo domain.Repository
}

// NewListBatchesHandler creates a new list batches handler
func NewListBatchesHandler(repo domain.Repository) *ListBatchesHandler {
	return &ListBatchesHandler{repo: repo}
}

// Handle executes the query
func (h *ListBatchesHandler) Handle(ctx context.Context, q ListBatchesQuery) ([]domain.CountBatch, error) {
	return h.repo.FindBatches(ctx, domain.BatchFilter{
		Status:     q.Status,
		ScheduleID: q.ScheduleID,
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
}
