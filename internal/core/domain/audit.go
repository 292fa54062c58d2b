package domain

import (
	"fmt"
	"time"
)

// AuditAction names a workflow action in the requisition audit log.
type AuditAction string

const (
	AuditCreated           AuditAction = "created"
	AuditRejected          AuditAction = "rejected"
	AuditInventoryDeducted AuditAction = "inventory_deducted"
)

// AuditRoleApproved returns the action name recorded when a given role
// approves, e.g. "technical_manager_c_approved".
func AuditRoleApproved(role Role) AuditAction {
	return AuditAction(fmt.Sprintf("%s_approved", role))
}

// AuditLogEntry is an immutable, append-only record of one workflow action.
// The core writes these and never reads them back.
type AuditLogEntry struct {
	EntryID         string             `json:"entryID"`
	RequisitionID   string             `json:"requisitionID"`
	Action          AuditAction        `json:"action"`
	PerformedBy     string             `json:"performedBy"`
	PerformedByRole Role               `json:"performedByRole"`
	OldStatus       *RequisitionStatus `json:"oldStatus,omitempty"`
	NewStatus       *RequisitionStatus `json:"newStatus,omitempty"`
	Details         map[string]any     `json:"details,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
}
