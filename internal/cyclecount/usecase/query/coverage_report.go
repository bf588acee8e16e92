package query

import (
	"context"
	"fmt"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
)

// CoverageReportQuery asks what fraction of the live population was counted
// at least once inside a trailing window
type CoverageReportQuery struct {
	Window       ReportWindow
	Kind         string
	Location     string
	Category     string
	UncountedCap int
}

const defaultUncountedCap = 50

// CoverageReport relates the live population to the counted set. Uncounted
// enumerates records lacking any result in the window, capped so large
// populations stay readable.
type CoverageReport struct {
	PopulationSize int                `json:"population_size"`
	CountedCount   int                `json:"counted_count"`
	CoverageRate   float64            `json:"coverage_rate"`
	Uncounted      []invdomain.Record `json:"uncounted"`
	UncountedTotal int                `json:"uncounted_total"`
}

// CoverageReportHandler handles coverage report queries
type CoverageReportHandler struct {
	repo domain.Repository
}

// NewCoverageReportHandler creates a new coverage report handler
func NewCoverageReportHandler(repo domain.Repository) *CoverageReportHandler {
	return &CoverageReportHandler{repo: repo}
}

// Handle executes the query. An empty population yields a zeroed report.
func (h *CoverageReportHandler) Handle(ctx context.Context, q CoverageReportQuery) (*CoverageReport, error) {
	kinds, err := coverageKinds(q.Kind)
	if err != nil {
		return nil, err
	}

	filter := invdomain.ListFilter{Location: q.Location, Category: q.Category}
	var population []invdomain.Record
	for _, kind := range kinds {
		records, err := h.repo.Inventory().List(ctx, kind, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list inventory: %w", domain.ErrDependency)
		}
		population = append(population, records...)
	}

	from, to := q.Window.resolve()
	results, err := h.repo.FindResults(ctx, domain.ResultFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	counted := make(map[invdomain.Ref]bool, len(results))
	for _, result := range results {
		if result.Item != nil {
			counted[result.Item.Ref()] = true
		}
	}

	limit := q.UncountedCap
	if limit <= 0 {
		limit = defaultUncountedCap
	}

	report := &CoverageReport{
		PopulationSize: len(population),
		Uncounted:      []invdomain.Record{},
	}
	for _, record := range population {
		if counted[record.Ref] {
			report.CountedCount++
			continue
		}
		report.UncountedTotal++
		if len(report.Uncounted) < limit {
			report.Uncounted = append(report.Uncounted, record)
		}
	}
	if report.PopulationSize > 0 {
		report.CoverageRate = float64(report.CountedCount) / float64(report.PopulationSize)
	}
	return report, nil
}

func coverageKinds(kind string) ([]invdomain.ItemKind, error) {
	switch kind {
	case "", "both":
		return []invdomain.ItemKind{invdomain.KindTool, invdomain.KindChemical}, nil
	case string(invdomain.KindTool):
		return []invdomain.ItemKind{invdomain.KindTool}, nil
	case string(invdomain.KindChemical):
		return []invdomain.ItemKind{invdomain.KindChemical}, nil
	}
	return nil, fmt.Errorf("unknown item kind %q: %w", kind, domain.ErrValidation)
}
