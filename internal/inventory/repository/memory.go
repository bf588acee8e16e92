package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
)

// MemoryProvider is an in-memory domain.Provider used by tests and local
// tooling. It applies the same field rules as the GORM provider.
type MemoryProvider struct {
	mu     sync.Mutex
	tools  map[uint]*domain.Tool
	chems  map[uint]*domain.Chemical
	usage  map[domain.Ref]float64
	nextID uint
}

// NewMemoryProvider creates an empty in-memory provider
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		tools:  make(map[uint]*domain.Tool),
		chems:  make(map[uint]*domain.Chemical),
		usage:  make(map[domain.Ref]float64),
		nextID: 1,
	}
}

// AddTool stores a tool and returns its ref
func (p *MemoryProvider) AddTool(tool domain.Tool, usageScore float64) domain.Ref {
	p.mu.Lock()
	defer p.mu.Unlock()

	if tool.ID == 0 {
		tool.ID = p.nextID
		p.nextID++
	}
	if tool.Status == "" {
		tool.Status = domain.StatusAvailable
	}
	p.tools[tool.ID] = &tool

	ref := domain.Ref{Kind: domain.KindTool, ID: tool.ID}
	p.usage[ref] = usageScore
	return ref
}

// AddChemical stores a chemical and returns its ref
func (p *MemoryProvider) AddChemical(chem domain.Chemical) domain.Ref {
	p.mu.Lock()
	defer p.mu.Unlock()

	if chem.ID == 0 {
		chem.ID = p.nextID
		p.nextID++
	}
	if chem.Status == "" {
		chem.Status = domain.StatusAvailable
	}
	p.chems[chem.ID] = &chem

	return domain.Ref{Kind: domain.KindChemical, ID: chem.ID}
}

func (p *MemoryProvider) Get(ctx context.Context, ref domain.Ref) (*domain.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.get(ref)
}

func (p *MemoryProvider) get(ref domain.Ref) (*domain.Record, error) {
	switch ref.Kind {
	case domain.KindTool:
		tool, ok := p.tools[ref.ID]
		if !ok {
			return nil, fmt.Errorf("%s %d: %w", ref.Kind, ref.ID, domain.ErrNotFound)
		}
		return toolRecord(tool), nil
	case domain.KindChemical:
		chem, ok := p.chems[ref.ID]
		if !ok {
			return nil, fmt.Errorf("%s %d: %w", ref.Kind, ref.ID, domain.ErrNotFound)
		}
		return chemicalRecord(chem), nil
	default:
		return nil, fmt.Errorf("unknown item kind %q: %w", ref.Kind, domain.ErrInvalidField)
	}
}

func (p *MemoryProvider) SetField(ctx context.Context, ref domain.Ref, field, value string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ref.Kind {
	case domain.KindTool:
		tool, ok := p.tools[ref.ID]
		if !ok {
			return "", fmt.Errorf("%s %d: %w", ref.Kind, ref.ID, domain.ErrNotFound)
		}
		switch field {
		case domain.FieldQuantity:
			return "", fmt.Errorf("tool quantity is not adjustable: %w", domain.ErrInvalidField)
		case domain.FieldLocation:
			old := tool.Location
			tool.Location = value
			return old, nil
		case domain.FieldCondition:
			old := tool.Condition
			tool.Condition = value
			return old, nil
		case domain.FieldStatus:
			old := tool.Status
			tool.Status = value
			if reason, ok := statusReason(value); ok {
				tool.StatusReason = reason
			}
			return old, nil
		default:
			return "", fmt.Errorf("unknown field %q: %w", field, domain.ErrInvalidField)
		}

	case domain.KindChemical:
		chem, ok := p.chems[ref.ID]
		if !ok {
			return "", fmt.Errorf("%s %d: %w", ref.Kind, ref.ID, domain.ErrNotFound)
		}
		switch field {
		case domain.FieldQuantity:
			qty, err := strconv.Atoi(value)
			if err != nil || qty < 0 {
				return "", fmt.Errorf("invalid quantity %q: %w", value, domain.ErrInvalidField)
			}
			old := strconv.Itoa(chem.Quantity)
			chem.Quantity = qty
			return old, nil
		case domain.FieldLocation:
			old := chem.Location
			chem.Location = value
			return old, nil
		case domain.FieldCondition:
			return "", fmt.Errorf("chemical condition is not adjustable: %w", domain.ErrInvalidField)
		case domain.FieldStatus:
			old := chem.Status
			chem.Status = value
			if reason, ok := statusReason(value); ok {
				chem.StatusReason = reason
			}
			return old, nil
		default:
			return "", fmt.Errorf("unknown field %q: %w", field, domain.ErrInvalidField)
		}

	default:
		return "", fmt.Errorf("unknown item kind %q: %w", ref.Kind, domain.ErrInvalidField)
	}
}

func (p *MemoryProvider) List(ctx context.Context, kind domain.ItemKind, filter domain.ListFilter) ([]domain.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var records []domain.Record
	switch kind {
	case domain.KindTool:
		for _, tool := range p.tools {
			if filter.Location != "" && tool.Location != filter.Location {
				continue
			}
			if filter.Category != "" && tool.Category != filter.Category {
				continue
			}
			records = append(records, *toolRecord(tool))
		}
	case domain.KindChemical:
		for _, chem := range p.chems {
			if filter.Location != "" && chem.Location != filter.Location {
				continue
			}
			if filter.Category != "" && chem.Category != filter.Category {
				continue
			}
			records = append(records, *chemicalRecord(chem))
		}
	default:
		return nil, fmt.Errorf("unknown item kind %q: %w", kind, domain.ErrInvalidField)
	}

	// Deterministic order for tests
	sort.Slice(records, func(i, j int) bool {
		return records[i].Ref.ID < records[j].Ref.ID
	})
	return records, nil
}

func (p *MemoryProvider) UsageScore(ctx context.Context, ref domain.Ref) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch ref.Kind {
	case domain.KindTool:
		if _, ok := p.tools[ref.ID]; !ok {
			return 0, fmt.Errorf("%s %d: %w", ref.Kind, ref.ID, domain.ErrNotFound)
		}
		return p.usage[ref], nil
	case domain.KindChemical:
		chem, ok := p.chems[ref.ID]
		if !ok {
			return 0, fmt.Errorf("%s %d: %w", ref.Kind, ref.ID, domain.ErrNotFound)
		}
		return float64(chem.Quantity), nil
	default:
		return 0, fmt.Errorf("unknown item kind %q: %w", ref.Kind, domain.ErrInvalidField)
	}
}
