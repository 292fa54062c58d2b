package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstores/procurement_portal_app/internal/apperrors"
	"github.com/labstores/procurement_portal_app/internal/core/domain"
	portsrepo "github.com/labstores/procurement_portal_app/internal/core/ports/repositories"
	portssvc "github.com/labstores/procurement_portal_app/internal/core/ports/services"
	"github.com/labstores/procurement_portal_app/internal/dto"
	"github.com/labstores/procurement_portal_app/internal/middleware"
	"github.com/labstores/procurement_portal_app/internal/utils"
)

type RequisitionService struct {
	family          domain.ResourceFamily
	requisitionRepo portsrepo.RequisitionRepositoryFacade
	catalogRepo     portsrepo.CatalogRepositoryFacade
	auditSvc        portssvc.AuditSvcFacade
}

func NewRequisitionService(family domain.ResourceFamily, requisitionRepo portsrepo.RequisitionRepositoryFacade, catalogRepo portsrepo.CatalogRepositoryFacade, auditSvc portssvc.AuditSvcFacade) *RequisitionService {
	return &RequisitionService{
		family:          family,
		requisitionRepo: requisitionRepo,
		catalogRepo:     catalogRepo,
		auditSvc:        auditSvc,
	}
}

var _ portssvc.RequisitionSvcFacade = (*RequisitionService)(nil)

// CreateRequisition validates every line against the catalog before any
// write. A single bad line rejects the whole submission.
func (s *RequisitionService) CreateRequisition(ctx context.Context, actor domain.Actor, req dto.CreateRequisitionRequest) (*domain.Requisition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !actor.Role.CanCreateRequisitions() {
		return nil, fmt.Errorf("role %s cannot create requisitions: %w", actor.Role, apperrors.ErrForbidden)
	}
	if strings.TrimSpace(req.Department) == "" || strings.TrimSpace(req.Requester) == "" {
		return nil, fmt.Errorf("department and requester are required: %w", apperrors.ErrValidation)
	}

	now := time.Now()
	requisitionID := uuid.NewString()

	// Validate all lines up front; nothing is written until every line is good.
	items := make([]domain.RequisitionItem, 0, len(req.Items))
	for _, line := range req.Items {
		if !line.RequestedQuantity.IsPositive() {
			return nil, fmt.Errorf("requested quantity for item %s must be positive: %w", line.CatalogItemID, apperrors.ErrValidation)
		}
		catalogItem, err := s.catalogRepo.FindCatalogItemByID(ctx, line.CatalogItemID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("catalog item %s not found: %w", line.CatalogItemID, apperrors.ErrValidation)
			}
			logger.Error("Failed to look up catalog item during intake", slog.String("error", err.Error()), slog.String("catalog_item_id", line.CatalogItemID))
			return nil, err
		}
		if catalogItem.IsExpired(now) {
			return nil, fmt.Errorf("catalog item %s is expired: %w", catalogItem.Name, apperrors.ErrValidation)
		}
		if catalogItem.Quantity.LessThan(line.RequestedQuantity) {
			return nil, &apperrors.InsufficientStockError{
				ItemID:    catalogItem.ItemID,
				ItemName:  catalogItem.Name,
				Unit:      catalogItem.Unit,
				Available: catalogItem.Quantity,
				Required:  line.RequestedQuantity,
			}
		}
		unit := line.Unit
		if unit == "" {
			unit = catalogItem.Unit
		}
		items = append(items, domain.RequisitionItem{
			ItemID:            uuid.NewString(),
			RequisitionID:     requisitionID,
			CatalogItemID:     catalogItem.ItemID,
			CatalogItemName:   catalogItem.Name,
			AvailableQuantity: catalogItem.Quantity,
			RequestedQuantity: line.RequestedQuantity,
			Unit:              unit,
			ExpiryDate:        catalogItem.ExpiryDate,
			Remark:            line.Remark,
		})
	}

	requisition := domain.Requisition{
		RequisitionID:     requisitionID,
		RequisitionNumber: s.newRequisitionNumber(now),
		Family:            s.family,
		RequisitionDate:   req.RequisitionDate,
		Department:        req.Department,
		Requester:         req.Requester,
		RequesterUserID:   actor.UserID,
		TotalItems:        len(items),
		Status:            domain.StatusPending,
		Items:             items,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	for _, stage := range domain.ApprovalChain {
		requisition.Approvals[stage.Index] = domain.StageApproval{Role: stage.Role}
	}

	if err := s.requisitionRepo.SaveRequisition(ctx, requisition); err != nil {
		logger.Error("Failed to save requisition", slog.String("error", err.Error()), slog.String("requisition_id", requisitionID))
		return nil, err
	}
	if err := s.requisitionRepo.SaveRequisitionItems(ctx, items); err != nil {
		logger.Error("Failed to save requisition items, removing orphaned header", slog.String("error", err.Error()), slog.String("requisition_id", requisitionID))
		if delErr := s.requisitionRepo.DeleteRequisition(ctx, requisitionID); delErr != nil {
			logger.Error("Failed to remove orphaned requisition header", slog.String("error", delErr.Error()), slog.String("requisition_id", requisitionID))
		}
		return nil, err
	}

	newStatus := domain.StatusPending
	s.auditSvc.Record(ctx, domain.AuditLogEntry{
		RequisitionID:   requisitionID,
		Action:          domain.AuditCreated,
		PerformedBy:     actor.UserID,
		PerformedByRole: actor.Role,
		NewStatus:       &newStatus,
		Details:         map[string]any{"requisition_number": requisition.RequisitionNumber, "total_items": len(items)},
	})

	logger.Info("Requisition created", slog.String("requisition_id", requisitionID), slog.String("requisition_number", requisition.RequisitionNumber), slog.Int("total_items", len(items)))
	return &requisition, nil
}

// ListRequisitions maps the status filter to concrete statuses and scopes
// non-approvers to their own submissions.
func (s *RequisitionService) ListRequisitions(ctx context.Context, actor domain.Actor, params dto.ListRequisitionsParams) ([]domain.Requisition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	statuses, err := statusesForFilter(params.Status)
	if err != nil {
		return nil, err
	}

	requesterUserID := ""
	if !actor.Role.CanReadAllRequisitions() {
		requesterUserID = actor.UserID
	}

	requisitions, err := s.requisitionRepo.ListRequisitions(ctx, statuses, requesterUserID)
	if err != nil {
		logger.Error("Failed to list requisitions", slog.String("error", err.Error()))
		return nil, err
	}
	return requisitions, nil
}

// GetRequisitionByID applies the same visibility rule as ListRequisitions.
func (s *RequisitionService) GetRequisitionByID(ctx context.Context, actor domain.Actor, requisitionID string) (*domain.Requisition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find requisition", slog.String("error", err.Error()), slog.String("requisition_id", requisitionID))
		}
		return nil, err
	}
	if !actor.Role.CanReadAllRequisitions() && requisition.RequesterUserID != actor.UserID {
		return nil, fmt.Errorf("requisition belongs to another requester: %w", apperrors.ErrForbidden)
	}
	return requisition, nil
}

func (s *RequisitionService) newRequisitionNumber(now time.Time) string {
	suffix, err := utils.GenerateReferenceSuffix(4)
	if err != nil {
		// crypto/rand failing is effectively unrecoverable; fall back to a
		// uuid-derived suffix rather than aborting intake.
		suffix = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	}
	return fmt.Sprintf("%s-%s-%s", s.family.NumberPrefix(), now.Format("20060102"), suffix)
}

var activeStatuses = []domain.RequisitionStatus{
	domain.StatusPending,
	domain.StatusApprovedByTechnicalManagerC,
	domain.StatusApprovedByTechnicalManagerM,
	domain.StatusApprovedBySeniorAssistantDirector,
}

var completedStatuses = []domain.RequisitionStatus{
	domain.StatusApproved,
	domain.StatusRejected,
	domain.StatusCancelled,
}

func statusesForFilter(filter string) ([]domain.RequisitionStatus, error) {
	switch filter {
	case "active":
		return activeStatuses, nil
	case "completed":
		return completedStatuses, nil
	case "all", "":
		return append(append([]domain.RequisitionStatus{}, activeStatuses...), completedStatuses...), nil
	default:
		return nil, fmt.Errorf("unknown status filter %q: %w", filter, apperrors.ErrValidation)
	}
}
