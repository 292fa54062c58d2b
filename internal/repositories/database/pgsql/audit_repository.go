package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstores/procurement_portal_app/internal/core/domain"
	portsrepo "github.com/labstores/procurement_portal_app/internal/core/ports/repositories"
)

type PgxAuditRepository struct {
	pool *pgxpool.Pool
	t    familyTables
}

// newPgxAuditRepository creates a repository for one family's audit log
// table.
func newPgxAuditRepository(pool *pgxpool.Pool, family domain.ResourceFamily) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{pool: pool, t: tablesForFamily(family)}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// InsertAuditLogEntry appends one workflow audit record. Details is stored
// as JSONB.
func (r *PgxAuditRepository) InsertAuditLogEntry(ctx context.Context, entry domain.AuditLogEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (entry_id, requisition_id, action, performed_by, performed_by_role, old_status, new_status, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, r.t.audit)

	var oldStatus, newStatus *string
	if entry.OldStatus != nil {
		s := string(*entry.OldStatus)
		oldStatus = &s
	}
	if entry.NewStatus != nil {
		s := string(*entry.NewStatus)
		newStatus = &s
	}
	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}

	_, err := r.pool.Exec(ctx, query,
		entry.EntryID,
		entry.RequisitionID,
		string(entry.Action),
		entry.PerformedBy,
		string(entry.PerformedByRole),
		oldStatus,
		newStatus,
		details,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit log entry for requisition %s: %w", entry.RequisitionID, err)
	}
	return nil
}

// ListAuditLogEntries retrieves a requisition's audit trail, oldest first.
func (r *PgxAuditRepository) ListAuditLogEntries(ctx context.Context, requisitionID string) ([]domain.AuditLogEntry, error) {
	query := fmt.Sprintf(`
		SELECT entry_id, requisition_id, action, performed_by, performed_by_role, old_status, new_status, details, created_at
		FROM %s
		WHERE requisition_id = $1
		ORDER BY created_at;
	`, r.t.audit)

	rows, err := r.pool.Query(ctx, query, requisitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit log for requisition %s: %w", requisitionID, err)
	}
	defer rows.Close()

	entries := []domain.AuditLogEntry{}
	for rows.Next() {
		var entry domain.AuditLogEntry
		var action, role string
		var oldStatus, newStatus *string
		err := rows.Scan(
			&entry.EntryID, &entry.RequisitionID, &action, &entry.PerformedBy, &role,
			&oldStatus, &newStatus, &entry.Details, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entry.Action = domain.AuditAction(action)
		entry.PerformedByRole = domain.Role(role)
		if oldStatus != nil {
			s := domain.RequisitionStatus(*oldStatus)
			entry.OldStatus = &s
		}
		if newStatus != nil {
			s := domain.RequisitionStatus(*newStatus)
			entry.NewStatus = &s
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log rows: %w", err)
	}
	return entries, nil
}
