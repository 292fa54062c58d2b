package services

import (
	"context"

	"github.com/labstores/procurement_portal_app/internal/core/domain"
)

// AuditSvcFacade records workflow actions. Record is strictly best-effort:
// it returns nothing and must never fail the caller's operation; write
// failures are logged and swallowed. This is a documented trade-off, not a
// hidden bug.
type AuditSvcFacade interface {
	Record(ctx context.Context, entry domain.AuditLogEntry)

	// ListEntries serves the audit trail endpoint for approvers and admins.
	ListEntries(ctx context.Context, actor domain.Actor, requisitionID string) ([]domain.AuditLogEntry, error)
}
