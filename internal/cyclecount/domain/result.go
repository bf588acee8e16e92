package domain

import "time"

// Discrepancy kinds. When both quantity and location mismatch, the type
// records quantity and the notes describe both.
const (
	DiscrepancyQuantity = "quantity"
	DiscrepancyLocation = "location"
)

// CountResult is one physical count submission. An item holds at most one
// result; the record is immutable after creation except for adjustment
// linkage.
type CountResult struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	ItemID           uint       `json:"item_id" gorm:"not null;uniqueIndex"`
	Item             *CountItem `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	CountedBy        uint       `json:"counted_by" gorm:"not null;index"`
	ActualQuantity   int        `json:"actual_quantity"`
	ActualLocation   string     `json:"actual_location"`
	Condition        string     `json:"condition"`
	Notes            string     `json:"notes"`
	HasDiscrepancy   bool       `json:"has_discrepancy" gorm:"index"`
	DiscrepancyType  string     `json:"discrepancy_type"`
	DiscrepancyNotes string     `json:"discrepancy_notes"`
	CountedAt        time.Time  `json:"counted_at" gorm:"index"`
	CreatedAt        time.Time  `json:"created_at"`
}

// TableName specifies the table name
func (CountResult) TableName() string {
	return "cycle_count_results"
}
