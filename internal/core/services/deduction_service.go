package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstores/procurement_portal_app/internal/apperrors"
	"github.com/labstores/procurement_portal_app/internal/core/domain"
	portsrepo "github.com/labstores/procurement_portal_app/internal/core/ports/repositories"
	portssvc "github.com/labstores/procurement_portal_app/internal/core/ports/services"
	"github.com/labstores/procurement_portal_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// DeductionService applies the inventory side of a final approval: one
// conditional decrement plus one ledger row per unprocessed line. There is no
// wrapping database transaction; a mid-run failure is compensated by
// re-incrementing every line already deducted and reversing its ledger entry.
type DeductionService struct {
	requisitionRepo portsrepo.RequisitionRepositoryFacade
	catalogRepo     portsrepo.CatalogRepositoryFacade
	auditSvc        portssvc.AuditSvcFacade
}

func NewDeductionService(requisitionRepo portsrepo.RequisitionRepositoryFacade, catalogRepo portsrepo.CatalogRepositoryFacade, auditSvc portssvc.AuditSvcFacade) *DeductionService {
	return &DeductionService{
		requisitionRepo: requisitionRepo,
		catalogRepo:     catalogRepo,
		auditSvc:        auditSvc,
	}
}

var _ portssvc.DeductionSvc = (*DeductionService)(nil)

// appliedLine tracks one completed decrement so it can be compensated.
type appliedLine struct {
	item  domain.RequisitionItem
	delta decimal.Decimal
}

// Deduct processes every unprocessed line of the requisition. On any failure
// it compensates the lines already applied and returns the cause; the caller
// owns rolling back the approval write that triggered the run.
func (s *DeductionService) Deduct(ctx context.Context, requisition *domain.Requisition, actor domain.Actor) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	performedBy := actor.UserID

	items, err := s.requisitionRepo.FindUnprocessedItems(ctx, requisition.RequisitionID)
	if err != nil {
		logger.Error("Failed to load unprocessed items for deduction", slog.String("error", err.Error()), slog.String("requisition_id", requisition.RequisitionID))
		return err
	}

	now := time.Now()
	applied := []appliedLine{}
	for _, item := range items {
		delta := item.QuantityToDeduct()
		if !delta.IsPositive() {
			continue
		}
		before, after, err := s.catalogRepo.DeductQuantity(ctx, item.CatalogItemID, delta)
		if err != nil {
			cause := s.classifyDeductFailure(ctx, item, delta, err)
			s.compensate(ctx, requisition.RequisitionID, applied, performedBy)
			return cause
		}
		txn := domain.InventoryTransaction{
			TransactionID:     uuid.NewString(),
			CatalogItemID:     item.CatalogItemID,
			RequisitionItemID: item.ItemID,
			TransactionType:   domain.TxnRequisitionDeduction,
			QuantityChange:    delta.Neg(),
			QuantityBefore:    before,
			QuantityAfter:     after,
			PerformedBy:       performedBy,
			Reason:            fmt.Sprintf("requisition %s approved", requisition.RequisitionNumber),
			CreatedAt:         now,
		}
		if err := s.catalogRepo.InsertInventoryTransaction(ctx, txn); err != nil {
			s.compensateLine(ctx, appliedLine{item: item, delta: delta}, performedBy, false)
			s.compensate(ctx, requisition.RequisitionID, applied, performedBy)
			return err
		}
		if err := s.requisitionRepo.MarkItemProcessed(ctx, item.ItemID, now); err != nil {
			s.compensateLine(ctx, appliedLine{item: item, delta: delta}, performedBy, false)
			s.compensate(ctx, requisition.RequisitionID, applied, performedBy)
			return err
		}
		applied = append(applied, appliedLine{item: item, delta: delta})
	}

	oldStatus := requisition.Status
	newStatus := domain.StatusApproved
	s.auditSvc.Record(ctx, domain.AuditLogEntry{
		RequisitionID:   requisition.RequisitionID,
		Action:          domain.AuditInventoryDeducted,
		PerformedBy:     actor.UserID,
		PerformedByRole: actor.Role,
		OldStatus:       &oldStatus,
		NewStatus:       &newStatus,
		Details:         map[string]any{"items_deducted": len(applied)},
	})

	logger.Info("Inventory deduction completed", slog.String("requisition_id", requisition.RequisitionID), slog.Int("items_deducted", len(applied)))
	return nil
}

// classifyDeductFailure turns a storage-level guard failure into the error
// the caller surfaces to clients.
func (s *DeductionService) classifyDeductFailure(ctx context.Context, item domain.RequisitionItem, delta decimal.Decimal, err error) error {
	if errors.Is(err, apperrors.ErrConflict) {
		available := decimal.Zero
		name := item.CatalogItemName
		unit := item.Unit
		if catalogItem, findErr := s.catalogRepo.FindCatalogItemByID(ctx, item.CatalogItemID); findErr == nil {
			available = catalogItem.Quantity
			name = catalogItem.Name
			unit = catalogItem.Unit
		}
		return &apperrors.InsufficientStockError{
			ItemID:    item.CatalogItemID,
			ItemName:  name,
			Unit:      unit,
			Available: available,
			Required:  delta,
		}
	}
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("catalog item %s no longer exists: %w", item.CatalogItemID, err)
	}
	return err
}

// compensate re-increments every already-applied line, newest first, writing
// a reversal ledger row and clearing the processed flag for each.
func (s *DeductionService) compensate(ctx context.Context, requisitionID string, applied []appliedLine, performedBy string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if len(applied) == 0 {
		return
	}
	logger.Warn("Compensating partially applied deduction run", slog.String("requisition_id", requisitionID), slog.Int("lines", len(applied)))
	for i := len(applied) - 1; i >= 0; i-- {
		s.compensateLine(ctx, applied[i], performedBy, true)
	}
}

// compensateLine restores one line's stock. Compensation failures are logged
// loudly but cannot abort: the remaining lines still need restoring.
func (s *DeductionService) compensateLine(ctx context.Context, line appliedLine, performedBy string, unmark bool) {
	logger := middleware.GetLoggerFromCtx(ctx)

	before, after, err := s.catalogRepo.RestoreQuantity(ctx, line.item.CatalogItemID, line.delta)
	if err != nil {
		logger.Error("MANUAL INTERVENTION REQUIRED: failed to restore deducted stock",
			slog.String("error", err.Error()),
			slog.String("catalog_item_id", line.item.CatalogItemID),
			slog.String("quantity", line.delta.String()))
		return
	}
	txn := domain.InventoryTransaction{
		TransactionID:     uuid.NewString(),
		CatalogItemID:     line.item.CatalogItemID,
		RequisitionItemID: line.item.ItemID,
		TransactionType:   domain.TxnDeductionReversal,
		QuantityChange:    line.delta,
		QuantityBefore:    before,
		QuantityAfter:     after,
		PerformedBy:       performedBy,
		Reason:            "deduction run failed, restoring stock",
		CreatedAt:         time.Now(),
	}
	if err := s.catalogRepo.InsertInventoryTransaction(ctx, txn); err != nil {
		logger.Error("Failed to write reversal ledger row", slog.String("error", err.Error()), slog.String("catalog_item_id", line.item.CatalogItemID))
	}
	if unmark {
		if err := s.requisitionRepo.UnmarkItemProcessed(ctx, line.item.ItemID); err != nil {
			logger.Error("Failed to clear processed flag during compensation", slog.String("error", err.Error()), slog.String("item_id", line.item.ItemID))
		}
	}
}
