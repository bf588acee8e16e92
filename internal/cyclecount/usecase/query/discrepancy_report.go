package query

import (
	"context"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
)

// DiscrepancyReportQuery asks for discrepancy listings and rollups over a
// window, optionally narrowed to one expected location or category
type DiscrepancyReportQuery struct {
	Window   ReportWindow
	Location string
	Category string
	Limit    int
	Offset   int
}

// CountBucket is one keyed occurrence count
type CountBucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// DiscrepancyReport lists discrepant results plus counts by type, location
// and category. The listing honors Limit/Offset; the counts cover the whole
// window.
type DiscrepancyReport struct {
	Total         int                  `json:"total"`
	Discrepancies []domain.CountResult `json:"discrepancies"`
	ByType        []CountBucket        `json:"by_type"`
	ByLocation    []CountBucket        `json:"by_location"`
	ByCategory    []CountBucket        `json:"by_category"`
}

// DiscrepancyReportHandler handles discrepancy report queries
type DiscrepancyReportHandler struct {
	repo domain.Repository
}

// NewDiscrepancyReportHandler creates a new discrepancy report handler
func NewDiscrepancyReportHandler(repo domain.Repository) *DiscrepancyReportHandler {
	return &DiscrepancyReportHandler{repo: repo}
}

// Handle executes the query. An empty window yields a zeroed report.
func (h *DiscrepancyReportHandler) Handle(ctx context.Context, q DiscrepancyReportQuery) (*DiscrepancyReport, error) {
	results, err := windowedResults(ctx, h.repo, q.Window, q.Location, q.Category)
	if err != nil {
		return nil, err
	}

	report := &DiscrepancyReport{
		Discrepancies: []domain.CountResult{},
		ByType:        []CountBucket{},
		ByLocation:    []CountBucket{},
		ByCategory:    []CountBucket{},
	}
	byType := make(map[string]int)
	byLocation := make(map[string]int)
	byCategory := make(map[string]int)

	var discrepant []domain.CountResult
	for _, result := range results {
		if !result.HasDiscrepancy {
			continue
		}
		discrepant = append(discrepant, result)
		byType[result.DiscrepancyType]++
		byLocation[itemLocation(result)]++
		byCategory[itemCategory(result)]++
	}

	report.Total = len(discrepant)
	report.Discrepancies = page(discrepant, q.Limit, q.Offset)
	report.ByType = countBuckets(byType)
	report.ByLocation = countBuckets(byLocation)
	report.ByCategory = countBuckets(byCategory)
	return report, nil
}

func countBuckets(m map[string]int) []CountBucket {
	out := make([]CountBucket, 0, len(m))
	for _, key := range sortedKeys(m) {
		out = append(out, CountBucket{Key: key, Count: m[key]})
	}
	return out
}

func page(rows []domain.CountResult, limit, offset int) []domain.CountResult {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []domain.CountResult{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}
