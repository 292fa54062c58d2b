package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstores/procurement_portal_app/internal/apperrors"
	"github.com/labstores/procurement_portal_app/internal/core/domain"
	portsrepo "github.com/labstores/procurement_portal_app/internal/core/ports/repositories"
	"github.com/labstores/procurement_portal_app/internal/models"
	"github.com/shopspring/decimal"
)

// terminalStatuses guards every decisive requisition update.
const terminalStatuses = "('approved', 'rejected', 'cancelled')"

type PgxRequisitionRepository struct {
	pool   *pgxpool.Pool
	family domain.ResourceFamily
	t      familyTables
}

// newPgxRequisitionRepository creates a repository for one family's
// requisition tables.
func newPgxRequisitionRepository(pool *pgxpool.Pool, family domain.ResourceFamily) portsrepo.RequisitionRepositoryFacade {
	return &PgxRequisitionRepository{pool: pool, family: family, t: tablesForFamily(family)}
}

var _ portsrepo.RequisitionRepositoryFacade = (*PgxRequisitionRepository)(nil)

const requisitionColumns = `requisition_id, requisition_number, requisition_date, department, requester, requester_user_id, total_items, status,
		technical_manager_c_approved_by, technical_manager_c_approved_at,
		technical_manager_m_approved_by, technical_manager_m_approved_at,
		senior_assistant_director_approved_by, senior_assistant_director_approved_at,
		quality_assurance_manager_approved_by, quality_assurance_manager_approved_at,
		rejected_at, rejected_by, rejected_by_role, rejection_reason, cancelled_at, completed_at,
		created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxRequisitionRepository) toDomainRequisition(m models.Requisition) domain.Requisition {
	d := domain.Requisition{
		RequisitionID:     m.RequisitionID,
		RequisitionNumber: m.RequisitionNumber,
		Family:            r.family,
		RequisitionDate:   m.RequisitionDate,
		Department:        m.Department,
		Requester:         m.Requester,
		RequesterUserID:   m.RequesterUserID,
		TotalItems:        m.TotalItems,
		Status:            domain.RequisitionStatus(m.Status),
		RejectedAt:        m.RejectedAt,
		CancelledAt:       m.CancelledAt,
		CompletedAt:       m.CompletedAt,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.RejectedBy != nil {
		d.RejectedBy = *m.RejectedBy
	}
	if m.RejectedByRole != nil {
		d.RejectedByRole = domain.Role(*m.RejectedByRole)
	}
	if m.RejectionReason != nil {
		d.RejectionReason = *m.RejectionReason
	}
	stageBys := [4]*string{m.TechnicalManagerCApprovedBy, m.TechnicalManagerMApprovedBy, m.SeniorAssistantDirectorApprovedBy, m.QualityAssuranceManagerApprovedBy}
	stageAts := [4]*time.Time{m.TechnicalManagerCApprovedAt, m.TechnicalManagerMApprovedAt, m.SeniorAssistantDirectorApprovedAt, m.QualityAssuranceManagerApprovedAt}
	for _, stage := range domain.ApprovalChain {
		d.Approvals[stage.Index].Role = stage.Role
		d.Approvals[stage.Index].ApprovedAt = stageAts[stage.Index]
		if stageBys[stage.Index] != nil {
			d.Approvals[stage.Index].ApprovedBy = *stageBys[stage.Index]
		}
	}
	return d
}

func scanRequisitionRow(row pgx.Row) (models.Requisition, error) {
	var m models.Requisition
	err := row.Scan(
		&m.RequisitionID, &m.RequisitionNumber, &m.RequisitionDate, &m.Department, &m.Requester, &m.RequesterUserID, &m.TotalItems, &m.Status,
		&m.TechnicalManagerCApprovedBy, &m.TechnicalManagerCApprovedAt,
		&m.TechnicalManagerMApprovedBy, &m.TechnicalManagerMApprovedAt,
		&m.SeniorAssistantDirectorApprovedBy, &m.SeniorAssistantDirectorApprovedAt,
		&m.QualityAssuranceManagerApprovedBy, &m.QualityAssuranceManagerApprovedAt,
		&m.RejectedAt, &m.RejectedBy, &m.RejectedByRole, &m.RejectionReason, &m.CancelledAt, &m.CompletedAt,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SaveRequisition inserts a new requisition header.
func (r *PgxRequisitionRepository) SaveRequisition(ctx context.Context, requisition domain.Requisition) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (requisition_id, requisition_number, requisition_date, department, requester, requester_user_id, total_items, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`, r.t.requisitions)

	_, err := r.pool.Exec(ctx, query,
		requisition.RequisitionID,
		requisition.RequisitionNumber,
		requisition.RequisitionDate,
		requisition.Department,
		requisition.Requester,
		requisition.RequesterUserID,
		requisition.TotalItems,
		string(requisition.Status),
		requisition.CreatedAt,
		requisition.CreatedBy,
		requisition.LastUpdatedAt,
		requisition.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation
			return fmt.Errorf("%w: requisition %s already exists", apperrors.ErrConflict, requisition.RequisitionID)
		}
		return fmt.Errorf("failed to save requisition %s: %w", requisition.RequisitionID, err)
	}
	return nil
}

// SaveRequisitionItems bulk-inserts line items.
func (r *PgxRequisitionRepository) SaveRequisitionItems(ctx context.Context, items []domain.RequisitionItem) error {
	if len(items) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (item_id, requisition_id, catalog_item_id, requested_quantity, approved_quantity, unit, expiry_date, remark, is_processed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`, r.t.items)

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query,
			item.ItemID,
			item.RequisitionID,
			item.CatalogItemID,
			item.RequestedQuantity,
			item.ApprovedQuantity,
			item.Unit,
			item.ExpiryDate,
			item.Remark,
			item.IsProcessed,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert requisition item %s: %w", items[i].ItemID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close item insert batch: %w", err)
	}
	return batchErr
}

// DeleteRequisition removes a requisition header. Only intake's compensating
// action uses this.
func (r *PgxRequisitionRepository) DeleteRequisition(ctx context.Context, requisitionID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE requisition_id = $1;`, r.t.requisitions)
	if _, err := r.pool.Exec(ctx, query, requisitionID); err != nil {
		return fmt.Errorf("failed to delete requisition %s: %w", requisitionID, err)
	}
	return nil
}

// FindRequisitionByID retrieves one requisition with its line items joined
// to catalog names and current stock.
func (r *PgxRequisitionRepository) FindRequisitionByID(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE requisition_id = $1;`, requisitionColumns, r.t.requisitions)

	m, err := scanRequisitionRow(r.pool.QueryRow(ctx, query, requisitionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find requisition %s: %w", requisitionID, err)
	}

	d := r.toDomainRequisition(m)
	itemsMap, err := r.findItemsByRequisitionIDs(ctx, []string{requisitionID})
	if err != nil {
		return nil, err
	}
	d.Items = itemsMap[requisitionID]
	return &d, nil
}

// ListRequisitions retrieves requisitions in the given statuses, newest
// first, optionally scoped to one requester.
func (r *PgxRequisitionRepository) ListRequisitions(ctx context.Context, statuses []domain.RequisitionStatus, requesterUserID string) ([]domain.Requisition, error) {
	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE status = ANY($1)`, requisitionColumns, r.t.requisitions)
	args := []any{statusStrings}
	if requesterUserID != "" {
		query += ` AND requester_user_id = $2`
		args = append(args, requesterUserID)
	}
	query += ` ORDER BY created_at DESC;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requisitions: %w", err)
	}
	defer rows.Close()

	requisitions := []domain.Requisition{}
	ids := []string{}
	for rows.Next() {
		m, err := scanRequisitionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan requisition row: %w", err)
		}
		requisitions = append(requisitions, r.toDomainRequisition(m))
		ids = append(ids, m.RequisitionID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requisition rows: %w", err)
	}

	if len(ids) > 0 {
		itemsMap, err := r.findItemsByRequisitionIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		for i := range requisitions {
			requisitions[i].Items = itemsMap[requisitions[i].RequisitionID]
		}
	}
	return requisitions, nil
}

// findItemsByRequisitionIDs fetches line items for multiple requisitions,
// joined with the catalog for item name and current available quantity.
func (r *PgxRequisitionRepository) findItemsByRequisitionIDs(ctx context.Context, requisitionIDs []string) (map[string][]domain.RequisitionItem, error) {
	query := fmt.Sprintf(`
		SELECT i.item_id, i.requisition_id, i.catalog_item_id, i.requested_quantity, i.approved_quantity, i.unit, i.expiry_date, i.remark, i.is_processed, i.processed_at,
		       COALESCE(c.name, 'Unknown'), COALESCE(c.quantity, 0)
		FROM %s i
		LEFT JOIN %s c ON c.item_id = i.catalog_item_id
		WHERE i.requisition_id = ANY($1)
		ORDER BY i.item_id;
	`, r.t.items, r.t.catalog)

	rows, err := r.pool.Query(ctx, query, requisitionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query requisition items: %w", err)
	}
	defer rows.Close()

	itemsMap := make(map[string][]domain.RequisitionItem)
	for rows.Next() {
		var item domain.RequisitionItem
		err := rows.Scan(
			&item.ItemID, &item.RequisitionID, &item.CatalogItemID,
			&item.RequestedQuantity, &item.ApprovedQuantity, &item.Unit,
			&item.ExpiryDate, &item.Remark, &item.IsProcessed, &item.ProcessedAt,
			&item.CatalogItemName, &item.AvailableQuantity,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan requisition item row: %w", err)
		}
		itemsMap[item.RequisitionID] = append(itemsMap[item.RequisitionID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requisition item rows: %w", err)
	}
	return itemsMap, nil
}

// FindUnprocessedItems retrieves line items whose stock has not been deducted.
func (r *PgxRequisitionRepository) FindUnprocessedItems(ctx context.Context, requisitionID string) ([]domain.RequisitionItem, error) {
	query := fmt.Sprintf(`
		SELECT item_id, requisition_id, catalog_item_id, requested_quantity, approved_quantity, unit, expiry_date, remark, is_processed, processed_at
		FROM %s
		WHERE requisition_id = $1 AND is_processed = FALSE
		ORDER BY item_id;
	`, r.t.items)

	rows, err := r.pool.Query(ctx, query, requisitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unprocessed items for requisition %s: %w", requisitionID, err)
	}
	defer rows.Close()

	items := []domain.RequisitionItem{}
	for rows.Next() {
		var item domain.RequisitionItem
		err := rows.Scan(
			&item.ItemID, &item.RequisitionID, &item.CatalogItemID,
			&item.RequestedQuantity, &item.ApprovedQuantity, &item.Unit,
			&item.ExpiryDate, &item.Remark, &item.IsProcessed, &item.ProcessedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unprocessed item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unprocessed item rows: %w", err)
	}
	return items, nil
}

// SetStageApproval writes one stage's sign-off together with the derived
// status in a single conditional update. The guard (stage timestamp unset,
// status non-terminal) closes the race window between two approvers.
func (r *PgxRequisitionRepository) SetStageApproval(ctx context.Context, requisitionID string, stage domain.ApprovalStage, approvedBy string, approvedAt time.Time, newStatus domain.RequisitionStatus, completedAt *time.Time) error {
	cols := stageColumns[stage.Index]
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, status = $4, completed_at = $5, last_updated_at = $2, last_updated_by = $3
		WHERE requisition_id = $1 AND %s IS NULL AND status NOT IN %s;
	`, r.t.requisitions, cols.at, cols.by, cols.at, terminalStatuses)

	cmdTag, err := r.pool.Exec(ctx, query, requisitionID, approvedAt, approvedBy, string(newStatus), completedAt)
	if err != nil {
		return fmt.Errorf("failed to set stage approval for requisition %s: %w", requisitionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// ApproveAllStages back-fills every stage in one conditional update (admin
// override).
func (r *PgxRequisitionRepository) ApproveAllStages(ctx context.Context, requisitionID string, approvedBy string, approvedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET technical_manager_c_approved_at = $2, technical_manager_c_approved_by = $3,
		    technical_manager_m_approved_at = $2, technical_manager_m_approved_by = $3,
		    senior_assistant_director_approved_at = $2, senior_assistant_director_approved_by = $3,
		    quality_assurance_manager_approved_at = $2, quality_assurance_manager_approved_by = $3,
		    status = 'approved', completed_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE requisition_id = $1 AND status NOT IN %s;
	`, r.t.requisitions, terminalStatuses)

	cmdTag, err := r.pool.Exec(ctx, query, requisitionID, approvedAt, approvedBy)
	if err != nil {
		return fmt.Errorf("failed to back-fill approvals for requisition %s: %w", requisitionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// SetRejected writes the rejection fields and status in one conditional
// update.
func (r *PgxRequisitionRepository) SetRejected(ctx context.Context, requisitionID string, rejectedBy string, rejectedByRole domain.Role, reason string, rejectedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = 'rejected', rejected_at = $2, rejected_by = $3, rejected_by_role = $4, rejection_reason = $5, last_updated_at = $2, last_updated_by = $3
		WHERE requisition_id = $1 AND status NOT IN %s;
	`, r.t.requisitions, terminalStatuses)

	cmdTag, err := r.pool.Exec(ctx, query, requisitionID, rejectedAt, rejectedBy, string(rejectedByRole), reason)
	if err != nil {
		return fmt.Errorf("failed to reject requisition %s: %w", requisitionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// RestoreApprovalState rewrites all approval fields from a pre-decision
// snapshot. Used by the rollback coordinator after a failed deduction.
func (r *PgxRequisitionRepository) RestoreApprovalState(ctx context.Context, snapshot domain.ApprovalSnapshot) error {
	stageArgs := make([]any, 0, 8)
	for _, stage := range domain.ApprovalChain {
		approval := snapshot.Approvals[stage.Index]
		stageArgs = append(stageArgs, approval.ApprovedAt)
		if approval.ApprovedAt != nil {
			stageArgs = append(stageArgs, approval.ApprovedBy)
		} else {
			stageArgs = append(stageArgs, nil)
		}
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET technical_manager_c_approved_at = $2, technical_manager_c_approved_by = $3,
		    technical_manager_m_approved_at = $4, technical_manager_m_approved_by = $5,
		    senior_assistant_director_approved_at = $6, senior_assistant_director_approved_by = $7,
		    quality_assurance_manager_approved_at = $8, quality_assurance_manager_approved_by = $9,
		    status = $10, completed_at = $11
		WHERE requisition_id = $1;
	`, r.t.requisitions)

	args := append([]any{snapshot.RequisitionID}, stageArgs...)
	args = append(args, string(snapshot.Status), snapshot.CompletedAt)

	cmdTag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to restore approval state for requisition %s: %w", snapshot.RequisitionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateApprovedQuantities writes per-line approved-quantity overrides.
func (r *PgxRequisitionRepository) UpdateApprovedQuantities(ctx context.Context, requisitionID string, overrides map[string]decimal.Decimal) error {
	if len(overrides) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		UPDATE %s SET approved_quantity = $3 WHERE item_id = $1 AND requisition_id = $2;
	`, r.t.items)

	batch := &pgx.Batch{}
	itemIDs := make([]string, 0, len(overrides))
	for itemID, quantity := range overrides {
		batch.Queue(query, itemID, requisitionID, quantity)
		itemIDs = append(itemIDs, itemID)
	}

	br := r.pool.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to update approved quantity for item %s: %w", itemIDs[i], err)
		} else if err == nil && ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: line item %s not found on requisition %s", apperrors.ErrNotFound, itemIDs[i], requisitionID)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close approved quantity batch: %w", err)
	}
	return batchErr
}

// MarkItemProcessed flags a line as deducted. The guard keeps the flag from
// flipping twice.
func (r *PgxRequisitionRepository) MarkItemProcessed(ctx context.Context, itemID string, processedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s SET is_processed = TRUE, processed_at = $2 WHERE item_id = $1 AND is_processed = FALSE;
	`, r.t.items)

	cmdTag, err := r.pool.Exec(ctx, query, itemID, processedAt)
	if err != nil {
		return fmt.Errorf("failed to mark item %s processed: %w", itemID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrConflict
	}
	return nil
}

// UnmarkItemProcessed clears the processed flag during compensation.
func (r *PgxRequisitionRepository) UnmarkItemProcessed(ctx context.Context, itemID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET is_processed = FALSE, processed_at = NULL WHERE item_id = $1;
	`, r.t.items)

	if _, err := r.pool.Exec(ctx, query, itemID); err != nil {
		return fmt.Errorf("failed to unmark item %s processed: %w", itemID, err)
	}
	return nil
}
