package repositories

import (
	"context"
	"time"

	"github.com/labstores/procurement_portal_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RequisitionReader defines read operations for requisition data.
type RequisitionReader interface {
	// FindRequisitionByID retrieves a requisition with its line items joined
	// to catalog item names and current on-hand quantities.
	FindRequisitionByID(ctx context.Context, requisitionID string) (*domain.Requisition, error)

	// ListRequisitions retrieves requisitions in any of the given statuses,
	// newest first, with their line items. An empty requesterUserID returns
	// all requisitions; a non-empty one scopes to that requester.
	ListRequisitions(ctx context.Context, statuses []domain.RequisitionStatus, requesterUserID string) ([]domain.Requisition, error)

	// FindUnprocessedItems retrieves the requisition's line items whose stock
	// has not yet been deducted.
	FindUnprocessedItems(ctx context.Context, requisitionID string) ([]domain.RequisitionItem, error)
}

// RequisitionWriter defines write operations for requisition data. Every
// decisive write is a single conditional update guarded at the storage layer,
// and reports domain.ErrConflict-compatible failures when the guard does not
// hold, so racing callers cannot both win.
type RequisitionWriter interface {
	// SaveRequisition inserts a new requisition header.
	SaveRequisition(ctx context.Context, requisition domain.Requisition) error

	// SaveRequisitionItems bulk-inserts the requisition's line items.
	SaveRequisitionItems(ctx context.Context, items []domain.RequisitionItem) error

	// DeleteRequisition removes a requisition header. Used only by intake's
	// compensating action when line-item insertion fails right after creation.
	DeleteRequisition(ctx context.Context, requisitionID string) error

	// SetStageApproval writes one stage's approval timestamp/actor together
	// with the derived status (and completion timestamp when the chain is
	// fully satisfied), guarded by "stage timestamp currently unset and
	// status non-terminal". Returns apperrors.ErrConflict when the guard
	// fails.
	SetStageApproval(ctx context.Context, requisitionID string, stage domain.ApprovalStage, approvedBy string, approvedAt time.Time, newStatus domain.RequisitionStatus, completedAt *time.Time) error

	// ApproveAllStages back-fills every stage's timestamp and approver in one
	// conditional update (admin override), transitioning straight to
	// approved. Returns apperrors.ErrConflict when the requisition is already
	// terminal.
	ApproveAllStages(ctx context.Context, requisitionID string, approvedBy string, approvedAt time.Time) error

	// SetRejected writes the rejection fields and status, guarded by "status
	// non-terminal". Returns apperrors.ErrConflict when the guard fails.
	SetRejected(ctx context.Context, requisitionID string, rejectedBy string, rejectedByRole domain.Role, reason string, rejectedAt time.Time) error

	// RestoreApprovalState rewrites all approval fields, status and
	// completion timestamp from a snapshot taken before a decision write.
	// Used by the rollback coordinator after a failed deduction.
	RestoreApprovalState(ctx context.Context, snapshot domain.ApprovalSnapshot) error

	// UpdateApprovedQuantities writes per-line approved-quantity overrides.
	UpdateApprovedQuantities(ctx context.Context, requisitionID string, overrides map[string]decimal.Decimal) error

	// MarkItemProcessed flags a line item as deducted with a timestamp.
	MarkItemProcessed(ctx context.Context, itemID string, processedAt time.Time) error

	// UnmarkItemProcessed clears the processed flag during compensation of a
	// partially applied deduction run.
	UnmarkItemProcessed(ctx context.Context, itemID string) error
}

// RequisitionRepositoryFacade combines all requisition repository interfaces.
type RequisitionRepositoryFacade interface {
	RequisitionReader
	RequisitionWriter
}
