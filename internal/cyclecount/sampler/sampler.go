package sampler

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
)

// ABC tier boundaries and sampling intensities. The top 20% of the population
// by usage score is tier A and is always counted in full; the next 30% is
// tier B, sampled at 50%; the remaining 50% is tier C, sampled at 20%.
const (
	tierAFraction = 0.2
	tierBFraction = 0.3
	tierBSampling = 0.5
	tierCSampling = 0.2
)

// Kind filters accepted by Params.Kind
const (
	KindTool     = "tool"
	KindChemical = "chemical"
	KindBoth     = "both"
)

// Params selects the population and the sampling policy
type Params struct {
	Method        string
	Kind          string
	Location      string
	Category      string
	SampleSize    int
	SamplePercent float64
}

// Sampler selects the subset of inventory a batch must count. The random
// source is injected so selections are reproducible in tests.
type Sampler struct {
	provider invdomain.Provider
	rng      *rand.Rand
}

// New creates a sampler. A nil rng falls back to a time-seeded source.
func New(provider invdomain.Provider, rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{provider: provider, rng: rng}
}

// Select returns the records a batch must count under the given policy
func (s *Sampler) Select(ctx context.Context, params Params) ([]invdomain.Record, error) {
	kinds, err := parseKinds(params.Kind)
	if err != nil {
		return nil, err
	}

	filter := invdomain.ListFilter{
		Location: params.Location,
		Category: params.Category,
	}

	var population []invdomain.Record
	for _, kind := range kinds {
		records, err := s.provider.List(ctx, kind, filter)
		if err != nil {
			return nil, fmt.Errorf("listing %s population: %w", kind, domain.ErrDependency)
		}
		population = append(population, records...)
	}

	switch params.Method {
	case domain.MethodLocation:
		if params.Location == "" {
			return nil, fmt.Errorf("location method requires a location filter: %w", domain.ErrValidation)
		}
		return population, nil
	case domain.MethodCategory:
		if params.Category == "" {
			return nil, fmt.Errorf("category method requires a category filter: %w", domain.ErrValidation)
		}
		return population, nil
	case domain.MethodRandom:
		return s.selectRandom(population, params), nil
	case domain.MethodABC:
		return s.selectABC(ctx, population)
	default:
		return nil, fmt.Errorf("unknown sampling method %q: %w", params.Method, domain.ErrValidation)
	}
}

// selectRandom draws an explicit size if given and smaller than the
// population, else a percentage, else the whole population.
func (s *Sampler) selectRandom(population []invdomain.Record, params Params) []invdomain.Record {
	n := len(population)
	if n == 0 {
		return nil
	}

	if params.SampleSize > 0 {
		if params.SampleSize >= n {
			return population
		}
		return s.draw(population, params.SampleSize)
	}

	if params.SamplePercent > 0 {
		k := ceil(float64(n) * params.SamplePercent / 100)
		if k < 1 {
			k = 1
		}
		if k >= n {
			return population
		}
		return s.draw(population, k)
	}

	return population
}

// selectABC ranks the population descending by usage score, partitions it
// into A/B/C tiers and samples each tier at its intensity.
func (s *Sampler) selectABC(ctx context.Context, population []invdomain.Record) ([]invdomain.Record, error) {
	n := len(population)
	if n == 0 {
		return nil, nil
	}

	type scored struct {
		record invdomain.Record
		score  float64
	}

	ranked := make([]scored, 0, n)
	for _, record := range population {
		score, err := s.provider.UsageScore(ctx, record.Ref)
		if err != nil {
			return nil, fmt.Errorf("usage score for %s %d: %w", record.Ref.Kind, record.Ref.ID, domain.ErrDependency)
		}
		ranked = append(ranked, scored{record: record, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		// Stable tie-break keeps selection deterministic under a fixed seed
		if ranked[i].record.Ref.Kind != ranked[j].record.Ref.Kind {
			return ranked[i].record.Ref.Kind < ranked[j].record.Ref.Kind
		}
		return ranked[i].record.Ref.ID < ranked[j].record.Ref.ID
	})

	ordered := make([]invdomain.Record, n)
	for i, entry := range ranked {
		ordered[i] = entry.record
	}

	aCount := ceil(tierAFraction * float64(n))
	if aCount > n {
		aCount = n
	}
	bCount := ceil(tierBFraction * float64(n))
	if aCount+bCount > n {
		bCount = n - aCount
	}

	tierA := ordered[:aCount]
	tierB := ordered[aCount : aCount+bCount]
	tierC := ordered[aCount+bCount:]

	selected := make([]invdomain.Record, 0, n)
	selected = append(selected, tierA...)
	selected = append(selected, s.drawFraction(tierB, tierBSampling)...)
	selected = append(selected, s.drawFraction(tierC, tierCSampling)...)

	return selected, nil
}

// draw picks k records uniformly without replacement
func (s *Sampler) draw(population []invdomain.Record, k int) []invdomain.Record {
	picked := make([]invdomain.Record, 0, k)
	for _, idx := range s.rng.Perm(len(population))[:k] {
		picked = append(picked, population[idx])
	}
	return picked
}

// drawFraction samples a tier at the given intensity, at least one record
// when the tier is non-empty
func (s *Sampler) drawFraction(tier []invdomain.Record, fraction float64) []invdomain.Record {
	if len(tier) == 0 {
		return nil
	}

	k := ceil(fraction * float64(len(tier)))
	if k < 1 {
		k = 1
	}
	if k > len(tier) {
		k = len(tier)
	}

	return s.draw(tier, k)
}

func parseKinds(kind string) ([]invdomain.ItemKind, error) {
	switch kind {
	case KindTool:
		return []invdomain.ItemKind{invdomain.KindTool}, nil
	case KindChemical:
		return []invdomain.ItemKind{invdomain.KindChemical}, nil
	case KindBoth, "":
		return []invdomain.ItemKind{invdomain.KindTool, invdomain.KindChemical}, nil
	default:
		return nil, fmt.Errorf("unknown item kind filter %q: %w", kind, domain.ErrValidation)
	}
}

func ceil(v float64) int {
	return int(math.Ceil(v))
}
