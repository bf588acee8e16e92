package domain

import (
	"time"

	"gorm.io/gorm"
)

// Batch statuses
const (
	BatchStatusPending    = "pending"
	BatchStatusInProgress = "in_progress"
	BatchStatusCompleted  = "completed"
	BatchStatusCancelled  = "cancelled"
)

// ValidBatchTransitions lists the legal manual status moves. The transition
// to completed is never manual: the controller derives it when the last
// pending item is counted.
var ValidBatchTransitions = map[string][]string{
	BatchStatusPending:    {BatchStatusInProgress, BatchStatusCancelled},
	BatchStatusInProgress: {BatchStatusCancelled},
}

// CanTransition reports whether a manual move from one status to another is legal
func CanTransition(from, to string) bool {
	for _, allowed := range ValidBatchTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CountBatch is one executable count exercise
type CountBatch struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ScheduleID *uint          `json:"schedule_id" gorm:"index"`
	Name       string         `json:"name" gorm:"not null"`
	Status     string         `json:"status" gorm:"not null;default:'pending'"`
	StartDate  *time.Time     `json:"start_date"`
	EndDate    *time.Time     `json:"end_date"`
	Notes      string         `json:"notes"`
	CreatedBy  uint           `json:"created_by" gorm:"not null;index"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName specifies the table name
func (CountBatch) TableName() string {
	return "cycle_count_batches"
}

// IsOpen reports whether the batch can still accept item generation,
// assignment and count submissions
func (b *CountBatch) IsOpen() bool {
	return b.Status == BatchStatusPending || b.Status == BatchStatusInProgress
}
