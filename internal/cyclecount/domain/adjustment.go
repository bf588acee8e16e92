package domain

import "time"

// Adjustment kinds
const (
	AdjustmentQuantity  = "quantity"
	AdjustmentLocation  = "location"
	AdjustmentCondition = "condition"
	AdjustmentStatus    = "status"
)

// ValidAdjustmentType reports whether the kind is a known adjustment target
func ValidAdjustmentType(kind string) bool {
	switch kind {
	case AdjustmentQuantity, AdjustmentLocation, AdjustmentCondition, AdjustmentStatus:
		return true
	}
	return false
}

// CountAdjustment is an approved correction applied to the live inventory
// record. OldValue is captured from the live record at approval time, not
// from the result, since other mutations may have occurred between count and
// approval. Creation is atomic with the inventory write.
type CountAdjustment struct {
	ID             uint         `json:"id" gorm:"primaryKey"`
	ResultID       uint         `json:"result_id" gorm:"not null;uniqueIndex"`
	Result         *CountResult `json:"result,omitempty" gorm:"foreignKey:ResultID"`
	ApprovedBy     uint         `json:"approved_by" gorm:"not null;index"`
	AdjustmentType string       `json:"adjustment_type" gorm:"not null"`
	OldValue       string       `json:"old_value"`
	NewValue       string       `json:"new_value"`
	Notes          string       `json:"notes"`
	ApprovedAt     time.Time    `json:"approved_at"`
	CreatedAt      time.Time    `json:"created_at"`
}

// TableName specifies the table name
func (CountAdjustment) TableName() string {
	return "cycle_count_adjustments"
}
