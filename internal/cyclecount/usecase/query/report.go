package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
)

// ReportWindow bounds a reporting query. Zero From/To default to the trailing
// thirty days ending now.
type ReportWindow struct {
	From time.Time
	To   time.Time
}

const defaultWindowDays = 30

func (w ReportWindow) resolve() (time.Time, time.Time) {
	from, to := w.From, w.To
	if to.IsZero() {
		to = time.Now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -defaultWindowDays)
	}
	return from, to
}

// windowedResults loads all results inside the window with their items
// preloaded, optionally narrowed to one expected location and category.
func windowedResults(ctx context.Context, repo domain.Repository, w ReportWindow, location, category string) ([]domain.CountResult, error) {
	from, to := w.resolve()
	results, err := repo.FindResults(ctx, domain.ResultFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}

	if location == "" && category == "" {
		return results, nil
	}
	filtered := results[:0]
	for _, result := range results {
		if result.Item == nil {
			continue
		}
		if location != "" && result.Item.ExpectedLocation != location {
			continue
		}
		if category != "" && result.Item.ExpectedCategory != category {
			continue
		}
		filtered = append(filtered, result)
	}
	return filtered, nil
}

// sortedKeys returns map keys in ascending order so report buckets come out
// deterministic.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func itemLocation(result domain.CountResult) string {
	if result.Item == nil {
		return ""
	}
	return result.Item.ExpectedLocation
}

func itemCategory(result domain.CountResult) string {
	if result.Item == nil {
		return ""
	}
	return result.Item.ExpectedCategory
}
