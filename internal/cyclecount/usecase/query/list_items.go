package query

import (
	"context"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
)

// ListItemsQuery lists the items of one batch, optionally by status
type ListItemsQuery struct {
	BatchID uint
	Status  string
}

// ListItemsHandler handles list items queries
type ListItemsHandler struct {
	repo domain.Repository
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(repo domain.Repository) *ListItemsHandler {
	return &ListItemsHandler{repo: repo}
}

// Handle executes the query. The batch must exist.
func (h *ListItemsHandler) Handle(ctx context.Context, q ListItemsQuery) ([]domain.CountItem, error) {
	if _, err := h.repo.FindBatchByID(ctx, q.BatchID); err != nil {
		return nil, err
	}
	return h.repo.FindItemsByBatch(ctx, q.BatchID, q.Status)
}

// ListResultsQuery lists count results with optional filters
type ListResultsQuery struct {
	BatchID           uint
	CountedBy         uint
	OnlyDiscrepancies bool
	Limit             int
	Offset            int
}

// ListResultsHandler handles list results queries
type ListResultsHandler struct {
	repo domain.Repository
}

// NewListResultsHandler creates a new list results handler
func NewListResultsHandler(repo domain.Repository) *ListResultsHandler {
	return &ListResultsHandler{repo: repo}
}

// Handle executes the query
func (h *ListResultsHandler) Handle(ctx context.Context, q ListResultsQuery) ([]domain.CountResult, error) {
	return h.repo.FindResults(ctx, domain.ResultFilter{
		BatchID:           q.BatchID,
		CountedBy:         q.CountedBy,
		OnlyDiscrepancies: q.OnlyDiscrepancies,
		Limit:             q.Limit,
		Offset:            q.Offset,
	})
}
