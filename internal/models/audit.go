package models

import "time"

// AuditLogEntry mirrors one requisition_audit_log row. Details is stored as
// JSONB.
type AuditLogEntry struct {
	EntryID         string         `db:"entry_id"`
	RequisitionID   string         `db:"requisition_id"`
	Action          string         `db:"action"`
	PerformedBy     string         `db:"performed_by"`
	PerformedByRole string         `db:"performed_by_role"`
	OldStatus       *string        `db:"old_status"`
	NewStatus       *string        `db:"new_status"`
	Details         map[string]any `db:"details"`
	CreatedAt       time.Time      `db:"created_at"`
}
