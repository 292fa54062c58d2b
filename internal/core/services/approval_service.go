package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/labstores/procurement_portal_app/internal/apperrors"
	"github.com/labstores/procurement_portal_app/internal/core/domain"
	portsrepo "github.com/labstores/procurement_portal_app/internal/core/ports/repositories"
	portssvc "github.com/labstores/procurement_portal_app/internal/core/ports/services"
	"github.com/labstores/procurement_portal_app/internal/dto"
	"github.com/labstores/procurement_portal_app/internal/middleware"
	"github.com/shopspring/decimal"
)

const defaultRejectionReason = "No reason provided"

// ApprovalService drives the approval chain for one resource family. Every
// decisive write is a conditional update at the storage layer; on a guard
// failure the service re-reads the requisition to classify what the caller
// actually lost to.
type ApprovalService struct {
	requisitionRepo portsrepo.RequisitionRepositoryFacade
	deductionSvc    portssvc.DeductionSvc
	auditSvc        portssvc.AuditSvcFacade
}

func NewApprovalService(requisitionRepo portsrepo.RequisitionRepositoryFacade, deductionSvc portssvc.DeductionSvc, auditSvc portssvc.AuditSvcFacade) *ApprovalService {
	return &ApprovalService{
		requisitionRepo: requisitionRepo,
		deductionSvc:    deductionSvc,
		auditSvc:        auditSvc,
	}
}

var _ portssvc.ApprovalSvcFacade = (*ApprovalService)(nil)

// SubmitDecision advances or rejects one requisition. Approvals must arrive
// in chain order; the final approval triggers the inventory deduction and is
// rolled back if the deduction fails.
func (s *ApprovalService) SubmitDecision(ctx context.Context, actor domain.Actor, requisitionID string, req dto.DecisionRequest) (domain.RequisitionStatus, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.CanDecide() {
		return "", fmt.Errorf("role %s cannot decide on requisitions: %w", actor.Role, apperrors.ErrForbidden)
	}

	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find requisition for decision", slog.String("error", err.Error()), slog.String("requisition_id", requisitionID))
		}
		return "", err
	}
	if requisition.Status.IsTerminal() {
		return "", fmt.Errorf("requisition is %s: %w", requisition.Status, apperrors.ErrAlreadyFinalized)
	}

	if req.Action == "reject" {
		return s.reject(ctx, actor, requisition, req.RejectionReason)
	}
	return s.approve(ctx, actor, requisition, req.ApprovedQuantities)
}

func (s *ApprovalService) reject(ctx context.Context, actor domain.Actor, requisition *domain.Requisition, reason string) (domain.RequisitionStatus, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(reason) == "" {
		reason = defaultRejectionReason
	}
	now := time.Now()
	err := s.requisitionRepo.SetRejected(ctx, requisition.RequisitionID, actor.UserID, actor.Role, reason, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return "", s.classifyLostRace(ctx, requisition.RequisitionID, nil)
		}
		logger.Error("Failed to reject requisition", slog.String("error", err.Error()), slog.String("requisition_id", requisition.RequisitionID))
		return "", err
	}

	oldStatus := requisition.Status
	newStatus := domain.StatusRejected
	s.auditSvc.Record(ctx, domain.AuditLogEntry{
		RequisitionID:   requisition.RequisitionID,
		Action:          domain.AuditRejected,
		PerformedBy:     actor.UserID,
		PerformedByRole: actor.Role,
		OldStatus:       &oldStatus,
		NewStatus:       &newStatus,
		Details:         map[string]any{"reason": reason},
	})

	logger.Info("Requisition rejected", slog.String("requisition_id", requisition.RequisitionID), slog.String("rejected_by", actor.UserID))
	return domain.StatusRejected, nil
}

func (s *ApprovalService) approve(ctx context.Context, actor domain.Actor, requisition *domain.Requisition, overrides []dto.ApprovedQuantityOverride) (domain.RequisitionStatus, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	snapshot := requisition.Snapshot()
	oldStatus := requisition.Status

	var newStatus domain.RequisitionStatus
	if actor.Role == domain.RoleAdmin {
		// Admin override: back-fill every stage and go straight to approved.
		newStatus = domain.StatusApproved
		if len(overrides) > 0 {
			if err := s.applyQuantityOverrides(ctx, requisition, overrides); err != nil {
				return "", err
			}
		}
		if err := s.requisitionRepo.ApproveAllStages(ctx, requisition.RequisitionID, actor.UserID, now); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return "", s.classifyLostRace(ctx, requisition.RequisitionID, nil)
			}
			logger.Error("Failed to apply admin approval", slog.String("error", err.Error()), slog.String("requisition_id", requisition.RequisitionID))
			return "", err
		}
	} else {
		stage, ok := domain.StageForRole(actor.Role)
		if !ok {
			return "", fmt.Errorf("role %s holds no approval stage: %w", actor.Role, apperrors.ErrForbidden)
		}
		if requisition.Approvals[stage.Index].ApprovedAt != nil {
			return "", fmt.Errorf("stage %s already signed: %w", stage.Role, apperrors.ErrDuplicateApproval)
		}
		for _, prior := range domain.ApprovalChain[:stage.Index] {
			if requisition.Approvals[prior.Index].ApprovedAt == nil {
				return "", fmt.Errorf("stage %s has not signed yet: %w", prior.Role, apperrors.ErrOutOfOrder)
			}
		}
		// Overrides persist only once the stage guards pass; a guarded-out
		// decision must leave the line items untouched.
		if len(overrides) > 0 {
			if err := s.applyQuantityOverrides(ctx, requisition, overrides); err != nil {
				return "", err
			}
		}
		newStatus = stage.StatusName
		var completedAt *time.Time
		if newStatus == domain.StatusApproved {
			completedAt = &now
		}
		if err := s.requisitionRepo.SetStageApproval(ctx, requisition.RequisitionID, stage, actor.UserID, now, newStatus, completedAt); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return "", s.classifyLostRace(ctx, requisition.RequisitionID, &stage)
			}
			logger.Error("Failed to apply stage approval", slog.String("error", err.Error()), slog.String("requisition_id", requisition.RequisitionID), slog.String("stage", string(stage.Role)))
			return "", err
		}
	}

	if newStatus == domain.StatusApproved {
		if err := s.deductionSvc.Deduct(ctx, requisition, actor); err != nil {
			return "", s.rollback(ctx, snapshot, err)
		}
	}

	s.auditSvc.Record(ctx, domain.AuditLogEntry{
		RequisitionID:   requisition.RequisitionID,
		Action:          domain.AuditRoleApproved(actor.Role),
		PerformedBy:     actor.UserID,
		PerformedByRole: actor.Role,
		OldStatus:       &oldStatus,
		NewStatus:       &newStatus,
	})

	logger.Info("Requisition decision applied",
		slog.String("requisition_id", requisition.RequisitionID),
		slog.String("approved_by", actor.UserID),
		slog.String("new_status", string(newStatus)))
	return newStatus, nil
}

// applyQuantityOverrides validates and persists per-line approved quantities.
// Any approver in the chain may adjust them; last write wins.
func (s *ApprovalService) applyQuantityOverrides(ctx context.Context, requisition *domain.Requisition, overrides []dto.ApprovedQuantityOverride) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	lines := make(map[string]bool, len(requisition.Items))
	for _, item := range requisition.Items {
		lines[item.ItemID] = true
	}
	byItem := make(map[string]decimal.Decimal, len(overrides))
	for _, o := range overrides {
		if !lines[o.ItemID] {
			return fmt.Errorf("item %s does not belong to this requisition: %w", o.ItemID, apperrors.ErrValidation)
		}
		if !o.Quantity.IsPositive() {
			return fmt.Errorf("approved quantity for item %s must be positive: %w", o.ItemID, apperrors.ErrValidation)
		}
		byItem[o.ItemID] = o.Quantity
	}

	if err := s.requisitionRepo.UpdateApprovedQuantities(ctx, requisition.RequisitionID, byItem); err != nil {
		logger.Error("Failed to update approved quantities", slog.String("error", err.Error()), slog.String("requisition_id", requisition.RequisitionID))
		return err
	}
	return nil
}

// rollback restores the pre-decision approval state after a failed deduction
// and wraps the cause so callers can tell the approval was reversed.
func (s *ApprovalService) rollback(ctx context.Context, snapshot domain.ApprovalSnapshot, cause error) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	restoreErr := s.requisitionRepo.RestoreApprovalState(ctx, snapshot)
	if restoreErr != nil {
		logger.Error("MANUAL INTERVENTION REQUIRED: failed to roll back approval after deduction failure",
			slog.String("error", restoreErr.Error()),
			slog.String("requisition_id", snapshot.RequisitionID),
			slog.String("deduction_error", cause.Error()))
	} else {
		logger.Warn("Approval rolled back after deduction failure",
			slog.String("requisition_id", snapshot.RequisitionID),
			slog.String("deduction_error", cause.Error()))
	}
	return &apperrors.DeductionError{Cause: cause, RolledBack: restoreErr == nil}
}

// classifyLostRace re-reads a requisition after a conditional update failed
// to tell the caller what it actually lost to: a concurrent finalization, a
// duplicate signing of the same stage, or a deleted row.
func (s *ApprovalService) classifyLostRace(ctx context.Context, requisitionID string, stage *domain.ApprovalStage) error {
	current, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrConflict
	}
	if current.Status.IsTerminal() {
		return fmt.Errorf("requisition is %s: %w", current.Status, apperrors.ErrAlreadyFinalized)
	}
	if stage != nil && current.Approvals[stage.Index].ApprovedAt != nil {
		return fmt.Errorf("stage %s already signed: %w", stage.Role, apperrors.ErrDuplicateApproval)
	}
	return apperrors.ErrConflict
}
