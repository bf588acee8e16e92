package query

import (
	"context"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
)

// GetScheduleQuery fetches one schedule by id
type GetScheduleQuery struct {
	ScheduleID uint
}

// GetScheduleHandler handles get schedule queries
type GetScheduleHandler struct {
	repo domain.Repository
}

// NewGetScheduleHandler creates a new get schedule handler
func NewGetScheduleHandler(repo domain.Repository) *GetScheduleHandler {
	return &GetScheduleHandler{repo: repo}
}

// Handle executes the query
func (h *GetScheduleHandler) Handle(ctx context.Context, q GetScheduleQuery) (*domain.CountSchedule, error) {
	return h.repo.FindScheduleByID(ctx, q.ScheduleID)
}

// ListSchedulesQuery lists schedules, optionally only active ones
type ListSchedulesQuery struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ListSchedulesHandler handles list schedules queries
type ListSchedulesHandler struct {
	repo domain.Repository
}

// NewListSchedulesHandler creates a new list schedules handler
func NewListSchedulesHandler(repo domain.Repository) *ListSchedulesHandler {
	return &ListSchedulesHandler{repo: repo}
}

// Handle executes the query
func (h *ListSchedulesHandler) Handle(ctx context.Context, q ListSchedulesQuery) ([]domain.CountSchedule, error) {
	return h.repo.FindSchedules(ctx, q.ActiveOnly, q.Limit, q.Offset)
}
