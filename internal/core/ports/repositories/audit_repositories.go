package repositories

import (
	"context"

	"github.com/labstores/procurement_portal_app/internal/core/domain"
)

// AuditLogWriter appends workflow audit records. The engine treats this as a
// write-only sink.
type AuditLogWriter interface {
	InsertAuditLogEntry(ctx context.Context, entry domain.AuditLogEntry) error
}

// AuditLogReader serves the audit trail endpoint; the engine itself never
// reads entries back.
type AuditLogReader interface {
	ListAuditLogEntries(ctx context.Context, requisitionID string) ([]domain.AuditLogEntry, error)
}

// AuditRepositoryFacade combines audit log read and write interfaces.
type AuditRepositoryFacade interface {
	AuditLogWriter
	AuditLogReader
}
