package query

import (
	"context"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
)

// AccuracyReportQuery asks for count accuracy over a window, optionally
// narrowed to one expected location or category
type AccuracyReportQuery struct {
	Window   ReportWindow
	Location string
	Category string
}

// AccuracyBucket is one accuracy rollup keyed by location, category or day
type AccuracyBucket struct {
	Key      string  `json:"key"`
	Total    int     `json:"total"`
	Accurate int     `json:"accurate"`
	Rate     float64 `json:"rate"`
}

// AccuracyReport summarizes how many counts matched their snapshots
type AccuracyReport struct {
	TotalCounts    int              `json:"total_counts"`
	AccurateCounts int              `json:"accurate_counts"`
	AccuracyRate   float64          `json:"accuracy_rate"`
	ByLocation     []AccuracyBucket `json:"by_location"`
	ByCategory     []AccuracyBucket `json:"by_category"`
	ByDay          []AccuracyBucket `json:"by_day"`
}

// AccuracyReportHandler handles accuracy report queries
type AccuracyReportHandler struct {
	repo domain.Repository
}

// NewAccuracyReportHandler creates a new accuracy report handler
func NewAccuracyReportHandler(repo domain.Repository) *AccuracyReportHandler {
	return &AccuracyReportHandler{repo: repo}
}

// Handle executes the query. An empty window yields a zeroed report.
func (h *AccuracyReportHandler) Handle(ctx context.Context, q AccuracyReportQuery) (*AccuracyReport, error) {
	results, err := windowedResults(ctx, h.repo, q.Window, q.Location, q.Category)
	if err != nil {
		return nil, err
	}

	report := &AccuracyReport{
		ByLocation: []AccuracyBucket{},
		ByCategory: []AccuracyBucket{},
		ByDay:      []AccuracyBucket{},
	}
	byLocation := make(map[string]*tally)
	byCategory := make(map[string]*tally)
	byDay := make(map[string]*tally)

	bump := func(m map[string]*tally, key string, accurate bool) {
		t := m[key]
		if t == nil {
			t = &tally{}
			m[key] = t
		}
		t.total++
		if accurate {
			t.accurate++
		}
	}

	for _, result := range results {
		accurate := !result.HasDiscrepancy
		report.TotalCounts++
		if accurate {
			report.AccurateCounts++
		}
		bump(byLocation, itemLocation(result), accurate)
		bump(byCategory, itemCategory(result), accurate)
		bump(byDay, result.CountedAt.Format("2006-01-02"), accurate)
	}
	if report.TotalCounts > 0 {
		report.AccuracyRate = float64(report.AccurateCounts) / float64(report.TotalCounts)
	}

	report.ByLocation = buckets(byLocation)
	report.ByCategory = buckets(byCategory)
	report.ByDay = buckets(byDay)
	return report, nil
}

type tally struct{ total, accurate int }

func buckets(m map[string]*tally) []AccuracyBucket {
	out := make([]AccuracyBucket, 0, len(m))
	for _, key := range sortedKeys(m) {
		t := m[key]
		bucket := AccuracyBucket{Key: key, Total: t.total, Accurate: t.accurate}
		if t.total > 0 {
			bucket.Rate = float64(t.accurate) / float64(t.total)
		}
		out = append(out, bucket)
	}
	return out
}
