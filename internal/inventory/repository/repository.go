package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
)

// GormProvider implements domain.Provider over the tool and chemical tables
type GormProvider struct {
	db *gorm.DB
}

// NewGormProvider creates a new inventory provider
func NewGormProvider(db *gorm.DB) *GormProvider {
	return &GormProvider{db: db}
}

// AutoMigrate migrates the inventory master tables
func (p *GormProvider) AutoMigrate() error {
	return p.db.AutoMigrate(&domain.Tool{}, &domain.Chemical{}, &domain.ToolCheckout{})
}

func (p *GormProvider) Get(ctx context.Context, ref domain.Ref) (*domain.Record, error) {
	switch ref.Kind {
	case domain.KindTool:
		var tool domain.Tool
		if err := p.db.WithContext(ctx).First(&tool, ref.ID).Error; err != nil {
			return nil, wrapNotFound(err, ref)
		}
		return toolRecord(&tool), nil
	case domain.KindChemical:
		var chem domain.Chemical
		if err := p.db.WithContext(ctx).First(&chem, ref.ID).Error; err != nil {
			return nil, wrapNotFound(err, ref)
		}
		return chemicalRecord(&chem), nil
	default:
		return nil, fmt.Errorf("unknown item kind %q: %w", ref.Kind, domain.ErrInvalidField)
	}
}

// SetField performs the read-modify-write under a row lock so the returned old
// value is accurate at commit time. When the receiver is already transaction
// bound, GORM nests this transaction as a savepoint.
func (p *GormProvider) SetField(ctx context.Context, ref domain.Ref, field, value string) (string, error) {
	var oldValue string

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch ref.Kind {
		case domain.KindTool:
			var tool domain.Tool
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&tool, ref.ID).Error; err != nil {
				return wrapNotFound(err, ref)
			}

			updates := map[string]interface{}{}
			switch field {
			case domain.FieldQuantity:
				// Tools track quantity implicitly as 1
				return fmt.Errorf("tool quantity is not adjustable: %w", domain.ErrInvalidField)
			case domain.FieldLocation:
				oldValue = tool.Location
				updates["location"] = value
			case domain.FieldCondition:
				oldValue = tool.Condition
				updates["condition"] = value
			case domain.FieldStatus:
				oldValue = tool.Status
				updates["status"] = value
				if reason, ok := statusReason(value); ok {
					updates["status_reason"] = reason
				}
			default:
				return fmt.Errorf("unknown field %q: %w", field, domain.ErrInvalidField)
			}

			return tx.Model(&tool).Updates(updates).Error

		case domain.KindChemical:
			var chem domain.Chemical
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&chem, ref.ID).Error; err != nil {
				return wrapNotFound(err, ref)
			}

			updates := map[string]interface{}{}
			switch field {
			case domain.FieldQuantity:
				qty, err := strconv.Atoi(value)
				if err != nil || qty < 0 {
					return fmt.Errorf("invalid quantity %q: %w", value, domain.ErrInvalidField)
				}
				oldValue = strconv.Itoa(chem.Quantity)
				updates["quantity"] = qty
			case domain.FieldLocation:
				oldValue = chem.Location
				updates["location"] = value
			case domain.FieldCondition:
				return fmt.Errorf("chemical condition is not adjustable: %w", domain.ErrInvalidField)
			case domain.FieldStatus:
				oldValue = chem.Status
				updates["status"] = value
				if reason, ok := statusReason(value); ok {
					updates["status_reason"] = reason
				}
			default:
				return fmt.Errorf("unknown field %q: %w", field, domain.ErrInvalidField)
			}

			return tx.Model(&chem).Updates(updates).Error

		default:
			return fmt.Errorf("unknown item kind %q: %w", ref.Kind, domain.ErrInvalidField)
		}
	})
	if err != nil {
		return "", err
	}

	return oldValue, nil
}

func (p *GormProvider) List(ctx context.Context, kind domain.ItemKind, filter domain.ListFilter) ([]domain.Record, error) {
	var records []domain.Record

	switch kind {
	case domain.KindTool:
		var tools []domain.Tool
		q := p.db.WithContext(ctx)
		if filter.Location != "" {
			q = q.Where("location = ?", filter.Location)
		}
		if filter.Category != "" {
			q = q.Where("category = ?", filter.Category)
		}
		if err := q.Find(&tools).Error; err != nil {
			return nil, err
		}
		for i := range tools {
			records = append(records, *toolRecord(&tools[i]))
		}
		return records, nil

	case domain.KindChemical:
		var chems []domain.Chemical
		q := p.db.WithContext(ctx)
		if filter.Location != "" {
			q = q.Where("location = ?", filter.Location)
		}
		if filter.Category != "" {
			q = q.Where("category = ?", filter.Category)
		}
		if err := q.Find(&chems).Error; err != nil {
			return nil, err
		}
		for i := range chems {
			records = append(records, *chemicalRecord(&chems[i]))
		}
		return records, nil

	default:
		return nil, fmt.Errorf("unknown item kind %q: %w", kind, domain.ErrInvalidField)
	}
}

func (p *GormProvider) UsageScore(ctx context.Context, ref domain.Ref) (float64, error) {
	switch ref.Kind {
	case domain.KindTool:
		var count int64
		err := p.db.WithContext(ctx).
			Model(&domain.ToolCheckout{}).
			Where("tool_id = ?", ref.ID).
			Count(&count).Error
		if err != nil {
			return 0, err
		}
		return float64(count), nil
	case domain.KindChemical:
		var chem domain.Chemical
		if err := p.db.WithContext(ctx).First(&chem, ref.ID).Error; err != nil {
			return 0, wrapNotFound(err, ref)
		}
		return float64(chem.Quantity), nil
	default:
		return 0, fmt.Errorf("unknown item kind %q: %w", ref.Kind, domain.ErrInvalidField)
	}
}

func toolRecord(t *domain.Tool) *domain.Record {
	return &domain.Record{
		Ref:         domain.Ref{Kind: domain.KindTool, ID: t.ID},
		Number:      t.ToolNumber,
		Description: t.Description,
		Quantity:    1,
		Location:    t.Location,
		Category:    t.Category,
		Condition:   t.Condition,
		Status:      t.Status,
	}
}

func chemicalRecord(c *domain.Chemical) *domain.Record {
	return &domain.Record{
		Ref:         domain.Ref{Kind: domain.KindChemical, ID: c.ID},
		Number:      c.PartNumber,
		Description: c.Description,
		Quantity:    c.Quantity,
		Location:    c.Location,
		Category:    c.Category,
		Status:      c.Status,
	}
}

func statusReason(status string) (string, bool) {
	switch status {
	case domain.StatusMaintenance, domain.StatusRetired, domain.StatusExpired:
		return "cycle count adjustment", true
	default:
		return "", false
	}
}

func wrapNotFound(err error, ref domain.Ref) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", ref.Kind, ref.ID, domain.ErrNotFound)
	}
	return err
}
