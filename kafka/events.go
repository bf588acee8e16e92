package kafka

import "time"

// AuditEvent records one state-changing cycle count operation
type AuditEvent struct {
	EventID    string                 `json:"event_id"`
	ActionType string                 `json:"action_type"`
	ActorID    uint                   `json:"actor_id"`
	Details    map[string]interface{} `json:"details"`
	Timestamp  time.Time              `json:"timestamp"`
}

// Audit action types
const (
	ActionScheduleCreated    = "schedule.created"
	ActionScheduleUpdated    = "schedule.updated"
	ActionScheduleDeleted    = "schedule.deleted"
	ActionBatchCreated       = "batch.created"
	ActionBatchUpdated       = "batch.updated"
	ActionBatchDeleted       = "batch.deleted"
	ActionItemsGenerated     = "batch.items_generated"
	ActionItemsAssigned      = "batch.items_assigned"
	ActionResultSubmitted    = "result.submitted"
	ActionAdjustmentApproved = "adjustment.approved"
)

// Kafka topics
const (
	TopicCycleCountAudit = "cyclecount-audit"
)
