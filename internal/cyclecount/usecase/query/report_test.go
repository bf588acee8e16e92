package query

import (
	"context"
	"testing"
	"time"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/repository"
	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
	invrepo "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/repository"
)

type reportEnv struct {
	repo      *repository.MemoryRepository
	inventory *invrepo.MemoryProvider
	batch     *domain.CountBatch
}

func newReportEnv(t *testing.T) *reportEnv {
	t.Helper()
	inventory := invrepo.NewMemoryProvider()
	repo := repository.NewMemoryRepository(inventory)
	batch := &domain.CountBatch{Name: "Window batch", Status: domain.BatchStatusInProgress, CreatedBy: 1}
	if err := repo.CreateBatch(context.Background(), batch); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	return &reportEnv{repo: repo, inventory: inventory, batch: batch}
}

// addResult seeds one counted item with its result. Discrepant results carry a
// quantity discrepancy.
func (e *reportEnv) addResult(t *testing.T, location, category string, countedBy uint, countedAt time.Time, discrepant bool) invdomain.Ref {
	t.Helper()
	ref := e.inventory.AddChemical(invdomain.Chemical{
		PartNumber: "C",
		Quantity:   10,
		Location:   location,
		Category:   category,
	})

	items := []domain.CountItem{{
		BatchID:          e.batch.ID,
		ItemKind:         ref.Kind,
		ItemRefID:        ref.ID,
		ExpectedQuantity: 10,
		ExpectedLocation: location,
		ExpectedCategory: category,
		Status:           domain.ItemStatusCounted,
	}}
	if err := e.repo.CreateItems(context.Background(), items); err != nil {
		t.Fatalf("CreateItems: %v", err)
	}

	result := &domain.CountResult{
		ItemID:         items[0].ID,
		CountedBy:      countedBy,
		ActualQuantity: 10,
		CountedAt:      countedAt,
	}
	if discrepant {
		result.ActualQuantity = 7
		result.HasDiscrepancy = true
		result.DiscrepancyType = domain.DiscrepancyQuantity
	}
	if err := e.repo.CreateResult(context.Background(), result); err != nil {
		t.Fatalf("CreateResult: %v", err)
	}
	return ref
}

func TestAccuracyReportMath(t *testing.T) {
	e := newReportEnv(t)
	now := time.Now()
	e.addResult(t, "hangar-1", "sealant", 1, now, false)
	e.addResult(t, "hangar-1", "sealant", 1, now, false)
	e.addResult(t, "hangar-1", "paint", 2, now, true)
	e.addResult(t, "hangar-2", "paint", 2, now, false)

	report, err := NewAccuracyReportHandler(e.repo).Handle(context.Background(), AccuracyReportQuery{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if report.TotalCounts != 4 || report.AccurateCounts != 3 {
		t.Fatalf("expected 3/4 accurate, got %+v", report)
	}
	if report.AccuracyRate != 0.75 {
		t.Fatalf("expected rate 0.75, got %f", report.AccuracyRate)
	}

	var hangar1 *AccuracyBucket
	for i := range report.ByLocation {
		if report.ByLocation[i].Key == "hangar-1" {
			hangar1 = &report.ByLocation[i]
		}
	}
	if hangar1 == nil || hangar1.Total != 3 || hangar1.Accurate != 2 {
		t.Fatalf("hangar-1 bucket wrong: %+v", report.ByLocation)
	}
	if len(report.ByDay) != 1 {
		t.Fatalf("all counts fall on one day, got %d buckets", len(report.ByDay))
	}
}

func TestAccuracyReportFiltersByCategory(t *testing.T) {
	e := newReportEnv(t)
	now := time.Now()
	e.addResult(t, "hangar-1", "sealant", 1, now, false)
	e.addResult(t, "hangar-1", "paint", 1, now, true)

	report, err := NewAccuracyReportHandler(e.repo).Handle(context.Background(), AccuracyReportQuery{Category: "paint"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if report.TotalCounts != 1 || report.AccurateCounts != 0 {
		t.Fatalf("expected the single paint discrepancy, got %+v", report)
	}
}

func TestAccuracyReportEmptyDataIsZeroed(t *testing.T) {
	e := newReportEnv(t)

	report, err := NewAccuracyReportHandler(e.repo).Handle(context.Background(), AccuracyReportQuery{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if report.TotalCounts != 0 || report.AccuracyRate != 0 {
		t.Fatalf("expected zeroed report, got %+v", report)
	}
	if report.ByLocation == nil || report.ByCategory == nil || report.ByDay == nil {
		t.Fatalf("buckets must be empty slices, not nil")
	}
}

func TestDiscrepancyReportCountsAndPaging(t *testing.T) {
	e := newReportEnv(t)
	now := time.Now()
	for i := 0; i < 5; i++ {
		e.addResult(t, "hangar-1", "sealant", 1, now, true)
	}
	e.addResult(t, "hangar-2", "paint", 1, now, true)
	e.addResult(t, "hangar-2", "paint", 1, now, false)

	report, err := NewDiscrepancyReportHandler(e.repo).Handle(context.Background(), DiscrepancyReportQuery{Limit: 4})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if report.Total != 6 {
		t.Fatalf("expected 6 discrepancies, got %d", report.Total)
	}
	if len(report.Discrepancies) != 4 {
		t.Fatalf("listing should honor the limit, got %d", len(report.Discrepancies))
	}

	byLocation := map[string]int{}
	for _, bucket := range report.ByLocation {
		byLocation[bucket.Key] = bucket.Count
	}
	if byLocation["hangar-1"] != 5 || byLocation["hangar-2"] != 1 {
		t.Fatalf("location counts wrong: %+v", report.ByLocation)
	}
	if len(report.ByType) != 1 || report.ByType[0].Key != domain.DiscrepancyQuantity || report.ByType[0].Count != 6 {
		t.Fatalf("type counts wrong: %+v", report.ByType)
	}
}

func TestPerformanceReportCycleTimeAndThroughput(t *testing.T) {
	e := newReportEnv(t)
	now := time.Now()

	start := now.Add(-48 * time.Hour)
	end := now.Add(-24 * time.Hour)
	completed := &domain.CountBatch{
		Name:      "Done batch",
		Status:    domain.BatchStatusCompleted,
		StartDate: &start,
		EndDate:   &end,
		CreatedBy: 1,
	}
	if err := e.repo.CreateBatch(context.Background(), completed); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	e.addResult(t, "hangar-1", "sealant", 1, now, false)
	e.addResult(t, "hangar-1", "sealant", 1, now, true)
	e.addResult(t, "hangar-1", "sealant", 2, now, false)

	report, err := NewPerformanceReportHandler(e.repo).Handle(context.Background(), PerformanceReportQuery{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if report.CompletedBatches != 1 {
		t.Fatalf("expected 1 completed batch, got %d", report.CompletedBatches)
	}
	if report.AvgCycleTimeHours != 24 {
		t.Fatalf("expected 24h cycle time, got %f", report.AvgCycleTimeHours)
	}

	if len(report.ByUser) != 2 {
		t.Fatalf("expected two counters, got %+v", report.ByUser)
	}
	first := report.ByUser[0]
	if first.UserID != 1 || first.Counts != 2 || first.Discrepancies != 1 {
		t.Fatalf("user 1 throughput wrong: %+v", first)
	}
}

func TestPerformanceReportEmptyDataIsZeroed(t *testing.T) {
	inventory := invrepo.NewMemoryProvider()
	repo := repository.NewMemoryRepository(inventory)

	report, err := NewPerformanceReportHandler(repo).Handle(context.Background(), PerformanceReportQuery{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(report.Batches) != 0 || report.AvgCycleTimeHours != 0 || len(report.ByUser) != 0 {
		t.Fatalf("expected zeroed report, got %+v", report)
	}
}

func TestCoverageReportRateAndCap(t *testing.T) {
	e := newReportEnv(t)
	now := time.Now()

	// Two counted, three never counted
	e.addResult(t, "hangar-1", "sealant", 1, now, false)
	e.addResult(t, "hangar-1", "sealant", 1, now, false)
	for i := 0; i < 3; i++ {
		e.inventory.AddChemical(invdomain.Chemical{PartNumber: "UNCOUNTED", Quantity: 1, Location: "hangar-1"})
	}

	report, err := NewCoverageReportHandler(e.repo).Handle(context.Background(), CoverageReportQuery{UncountedCap: 2})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if report.PopulationSize != 5 || report.CountedCount != 2 {
		t.Fatalf("expected 2/5 counted, got %+v", report)
	}
	if report.CoverageRate != 0.4 {
		t.Fatalf("expected rate 0.4, got %f", report.CoverageRate)
	}
	if report.UncountedTotal != 3 {
		t.Fatalf("expected 3 uncounted, got %d", report.UncountedTotal)
	}
	if len(report.Uncounted) != 2 {
		t.Fatalf("uncounted listing must honor the cap, got %d", len(report.Uncounted))
	}
}

func TestCoverageReportKindFilter(t *testing.T) {
	e := newReportEnv(t)
	e.inventory.AddTool(invdomain.Tool{ToolNumber: "T-1"}, 1)
	e.inventory.AddChemical(invdomain.Chemical{PartNumber: "C-1", Quantity: 1})

	report, err := NewCoverageReportHandler(e.repo).Handle(context.Background(), CoverageReportQuery{Kind: "tool"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if report.PopulationSize != 1 {
		t.Fatalf("expected tools only, got %+v", report)
	}
}

func TestCoverageReportEmptyPopulation(t *testing.T) {
	inventory := invrepo.NewMemoryProvider()
	repo := repository.NewMemoryRepository(inventory)

	report, err := NewCoverageReportHandler(repo).Handle(context.Background(), CoverageReportQuery{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if report.PopulationSize != 0 || report.CoverageRate != 0 || len(report.Uncounted) != 0 {
		t.Fatalf("expected zeroed report, got %+v", report)
	}
}

func TestGetBatchProgress(t *testing.T) {
	e := newReportEnv(t)
	e.addResult(t, "hangar-1", "sealant", 1, time.Now(), false)

	ref := e.inventory.AddChemical(invdomain.Chemical{PartNumber: "C-P", Quantity: 1})
	pending := []domain.CountItem{{
		BatchID:   e.batch.ID,
		ItemKind:  ref.Kind,
		ItemRefID: ref.ID,
		Status:    domain.ItemStatusPending,
	}}
	if err := e.repo.CreateItems(context.Background(), pending); err != nil {
		t.Fatalf("CreateItems: %v", err)
	}

	detail, err := NewGetBatchHandler(e.repo).Handle(context.Background(), GetBatchQuery{BatchID: e.batch.ID})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if detail.TotalItems != 2 || detail.CountedItems != 1 || detail.PendingItems != 1 {
		t.Fatalf("progress wrong: %+v", detail)
	}
	if detail.Progress != 0.5 {
		t.Fatalf("expected progress 0.5, got %f", detail.Progress)
	}
}
