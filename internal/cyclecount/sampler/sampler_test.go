package sampler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
	invrepo "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/repository"
)

func seededSampler(provider invdomain.Provider) *Sampler {
	return New(provider, rand.New(rand.NewSource(42)))
}

func addChemicals(provider *invrepo.MemoryProvider, n int) []invdomain.Ref {
	refs := make([]invdomain.Ref, 0, n)
	for i := 0; i < n; i++ {
		refs = append(refs, provider.AddChemical(invdomain.Chemical{
			PartNumber: fmt.Sprintf("CHEM-%03d", i),
			Quantity:   10,
			Location:   "hangar-1",
			Category:   "sealant",
		}))
	}
	return refs
}

func TestSelectRandomExplicitSize(t *testing.T) {
	provider := invrepo.NewMemoryProvider()
	addChemicals(provider, 10)

	selected, err := seededSampler(provider).Select(context.Background(), Params{
		Method:     domain.MethodRandom,
		Kind:       KindChemical,
		SampleSize: 4,
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(selected) != 4 {
		t.Fatalf("expected 4 records, got %d", len(selected))
	}

	seen := make(map[invdomain.Ref]bool)
	for _, record := range selected {
		if seen[record.Ref] {
			t.Fatalf("record %v drawn twice", record.Ref)
		}
		seen[record.Ref] = true
	}
}

func TestSelectRandomSizeLargerThanPopulation(t *testing.T) {
	provider := invrepo.NewMemoryProvider()
	addChemicals(provider, 3)

	selected, err := seededSampler(provider).Select(context.Background(), Params{
		Method:     domain.MethodRandom,
		SampleSize: 50,
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(selected) != 3 {
		t.Fatalf("expected whole population of 3, got %d", len(selected))
	}
}

func TestSelectRandomPercent(t *testing.T) {
	provider := invrepo.NewMemoryProvider()
	addChemicals(provider, 10)

	// ceil(10 * 25 / 100) = 3
	selected, err := seededSampler(provider).Select(context.Background(), Params{
		Method:        domain.MethodRandom,
		SamplePercent: 25,
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(selected) != 3 {
		t.Fatalf("expected 3 records for 25%%, got %d", len(selected))
	}
}

func TestSelectRandomPercentMinimumOne(t *testing.T) {
	provider := invrepo.NewMemoryProvider()
	addChemicals(provider, 10)

	selected, err := seededSampler(provider).Select(context.Background(), Params{
		Method:        domain.MethodRandom,
		SamplePercent: 1,
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(selected) != 1 {
		t.Fatalf("expected minimum of 1 record, got %d", len(selected))
	}
}

func TestSelectRandomWithoutSizeTakesEverything(t *testing.T) {
	provider := invrepo.NewMemoryProvider()
	addChemicals(provider, 5)

	selected, err := seededSampler(provider).Select(context.Background(), Params{
		Method: domain.MethodRandom,
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(selected) != 5 {
		t.Fatalf("expected whole population of 5, got %d", len(selected))
	}
}

func TestSelectABCPartition(t *testing.T) {
	provider := invrepo.NewMemoryProvider()

	// Ten tools with strictly decreasing checkout counts. Tier A is the top
	// two, tier B the next three, tier C the remaining five; the sampler takes
	// all of A, two of B and one of C.
	refs := make([]invdomain.Ref, 0, 10)
	for i := 0; i < 10; i++ {
		refs = append(refs, provider.AddTool(invdomain.Tool{
			ToolNumber: fmt.Sprintf("T-%03d", i),
			Location:   "toolcrib",
		}, float64(100-i*10)))
	}

	selected, err := seededSampler(provider).Select(context.Background(), Params{
		Method: domain.MethodABC,
		Kind:   KindTool,
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(selected) != 5 {
		t.Fatalf("expected 2+2+1=5 records, got %d", len(selected))
	}

	picked := make(map[invdomain.Ref]bool)
	for _, record := range selected {
		picked[record.Ref] = true
	}
	if !picked[refs[0]] || !picked[refs[1]] {
		t.Fatalf("tier A records must always be selected, got %v", selected)
	}
}

func TestSelectABCSingleRecordPopulation(t *testing.T) {
	provider := invrepo.NewMemoryProvider()
	provider.AddTool(invdomain.Tool{ToolNumber: "T-001"}, 5)

	selected, err := seededSampler(provider).Select(context.Background(), Params{
		Method: domain.MethodABC,
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(selected) != 1 {
		t.Fatalf("expected the single record, got %d", len(selected))
	}
}

func TestSelectABCDeterministicUnderSeed(t *testing.T) {
	build := func() *invrepo.MemoryProvider {
		provider := invrepo.NewMemoryProvider()
		for i := 0; i < 20; i++ {
			provider.AddTool(invdomain.Tool{ToolNumber: fmt.Sprintf("T-%03d", i)}, float64(i))
		}
		return provider
	}

	first, err := New(build(), rand.New(rand.NewSource(7))).Select(context.Background(), Params{Method: domain.MethodABC})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	second, err := New(build(), rand.New(rand.NewSource(7))).Select(context.Background(), Params{Method: domain.MethodABC})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("selections differ in size: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Ref != second[i].Ref {
			t.Fatalf("selection diverged at %d: %v vs %v", i, first[i].Ref, second[i].Ref)
		}
	}
}

func TestSelectLocationMethodIncludesWholeSubset(t *testing.T) {
	provider := invrepo.NewMemoryProvider()
	provider.AddChemical(invdomain.Chemical{PartNumber: "C-1", Location: "hangar-1"})
	provider.AddChemical(invdomain.Chemical{PartNumber: "C-2", Location: "hangar-1"})
	provider.AddChemical(invdomain.Chemical{PartNumber: "C-3", Location: "hangar-2"})

	selected, err := seededSampler(provider).Select(context.Background(), Params{
		Method:   domain.MethodLocation,
		Location: "hangar-1",
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(selected) != 2 {
		t.Fatalf("expected both hangar-1 records, got %d", len(selected))
	}
}

func TestSelectLocationMethodRequiresFilter(t *testing.T) {
	provider := invrepo.NewMemoryProvider()
	addChemicals(provider, 2)

	_, err := seededSampler(provider).Select(context.Background(), Params{Method: domain.MethodLocation})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSelectCategoryMethodRequiresFilter(t *testing.T) {
	provider := invrepo.NewMemoryProvider()
	addChemicals(provider, 2)

	_, err := seededSampler(provider).Select(context.Background(), Params{Method: domain.MethodCategory})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSelectUnknownMethod(t *testing.T) {
	provider := invrepo.NewMemoryProvider()

	_, err := seededSampler(provider).Select(context.Background(), Params{Method: "dowsing"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSelectKindFilter(t *testing.T) {
	provider := invrepo.NewMemoryProvider()
	provider.AddTool(invdomain.Tool{ToolNumber: "T-001"}, 1)
	provider.AddChemical(invdomain.Chemical{PartNumber: "C-001"})

	selected, err := seededSampler(provider).Select(context.Background(), Params{
		Method: domain.MethodRandom,
		Kind:   KindTool,
	})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(selected) != 1 || selected[0].Ref.Kind != invdomain.KindTool {
		t.Fatalf("expected only the tool, got %v", selected)
	}
}

func TestSelectUnknownKindFilter(t *testing.T) {
	provider := invrepo.NewMemoryProvider()

	_, err := seededSampler(provider).Select(context.Background(), Params{
		Method: domain.MethodRandom,
		Kind:   "widget",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
