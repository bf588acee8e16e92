package domain

import "context"

// AuditLogger records state-changing operations. Recording is best-effort:
// implementations never fail the surrounding operation.
type AuditLogger interface {
	Record(ctx context.Context, actionType string, actorID uint, details map[string]interface{})
}

// NopAuditLogger discards audit records
type NopAuditLogger struct{}

func (NopAuditLogger) Record(ctx context.Context, actionType string, actorID uint, details map[string]interface{}) {
}
