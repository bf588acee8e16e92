package domain

import (
	"time"

	"gorm.io/gorm"
)

// Count frequencies
const (
	FrequencyDaily     = "daily"
	FrequencyWeekly    = "weekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
)

// Sampling methods
const (
	MethodABC      = "abc"
	MethodRandom   = "random"
	MethodLocation = "location"
	MethodCategory = "category"
)

// ValidFrequency reports whether the frequency is one of the known cadences
func ValidFrequency(frequency string) bool {
	switch frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly:
		return true
	}
	return false
}

// ValidMethod reports whether the sampling method is a known policy
func ValidMethod(method string) bool {
	switch method {
	case MethodABC, MethodRandom, MethodLocation, MethodCategory:
		return true
	}
	return false
}

// CountSchedule is a recurring count policy. Time-based triggering is an
// external scheduler's job; the schedule only records frequency and method.
type CountSchedule struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description"`
	Frequency   string         `json:"frequency" gorm:"not null"`
	Method      string         `json:"method" gorm:"not null"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedBy   uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (CountSchedule) TableName() string {
	return "cycle_count_schedules"
}
