package domain

import (
	"time"

	invdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/inventory/domain"
)

// Item statuses
const (
	ItemStatusPending = "pending"
	ItemStatusCounted = "counted"
)

// CountItem is one sampled inventory record inside a batch. Expected values
// are snapshotted from the inventory provider at generation time; discrepancy
// detection compares against the snapshot, never a live read.
type CountItem struct {
	ID               uint               `json:"id" gorm:"primaryKey"`
	BatchID          uint               `json:"batch_id" gorm:"not null;index"`
	ItemKind         invdomain.ItemKind `json:"item_kind" gorm:"not null;index"`
	ItemRefID        uint               `json:"item_ref_id" gorm:"not null;index"`
	ExpectedQuantity int                `json:"expected_quantity"`
	ExpectedLocation string             `json:"expected_location"`
	ExpectedCategory string             `json:"expected_category"`
	Status           string             `json:"status" gorm:"not null;default:'pending';index"`
	AssignedTo       *uint              `json:"assigned_to" gorm:"index"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// TableName specifies the table name
func (CountItem) TableName() string {
	return "cycle_count_items"
}

// Ref returns the tagged inventory reference for this item
func (i *CountItem) Ref() invdomain.Ref {
	return invdomain.Ref{Kind: i.ItemKind, ID: i.ItemRefID}
}
