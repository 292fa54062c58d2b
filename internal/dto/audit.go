package dto

import (
	"time"

	"github.com/labstores/procurement_portal_app/internal/core/domain"
)

// AuditLogEntryResponse is one workflow audit record.
type AuditLogEntryResponse struct {
	ID              string         `json:"id"`
	RequisitionID   string         `json:"requisition_id"`
	Action          string         `json:"action"`
	PerformedBy     string         `json:"performed_by"`
	PerformedByRole string         `json:"performed_by_role"`
	OldStatus       *string        `json:"old_status,omitempty"`
	NewStatus       *string        `json:"new_status,omitempty"`
	Details         map[string]any `json:"details,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// ToAuditLogEntryResponses converts domain audit entries.
func ToAuditLogEntryResponses(entries []domain.AuditLogEntry) []AuditLogEntryResponse {
	responses := make([]AuditLogEntryResponse, len(entries))
	for i, e := range entries {
		var oldStatus, newStatus *string
		if e.OldStatus != nil {
			s := string(*e.OldStatus)
			oldStatus = &s
		}
		if e.NewStatus != nil {
			s := string(*e.NewStatus)
			newStatus = &s
		}
		responses[i] = AuditLogEntryResponse{
			ID:              e.EntryID,
			RequisitionID:   e.RequisitionID,
			Action:          string(e.Action),
			PerformedBy:     e.PerformedBy,
			PerformedByRole: string(e.PerformedByRole),
			OldStatus:       oldStatus,
			NewStatus:       newStatus,
			Details:         e.Details,
			CreatedAt:       e.CreatedAt,
		}
	}
	return responses
}
