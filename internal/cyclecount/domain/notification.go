package domain

import "time"

// Notification types
const (
	NotificationBatchAssigned      = "batch_assigned"
	NotificationDiscrepancyFound   = "discrepancy_found"
	NotificationAdjustmentApproved = "adjustment_approved"
	NotificationBatchCompleted     = "batch_completed"
)

// Notification reference types
const (
	ReferenceBatch      = "batch"
	ReferenceItem       = "item"
	ReferenceResult     = "result"
	ReferenceAdjustment = "adjustment"
)

// Notification is an in-app notification record created as a side effect of
// entity transitions. Delivery transport is out of scope; only the read flag
// ever mutates.
type Notification struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	UserID        uint      `json:"user_id" gorm:"not null;index"`
	Type          string    `json:"type" gorm:"not null"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   uint      `json:"reference_id"`
	Message       string    `json:"message"`
	IsRead        bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Notification) TableName() string {
	return "cycle_count_notifications"
}
