package services

import (
	"context"

	"github.com/labstores/procurement_portal_app/internal/core/domain"
	"github.com/labstores/procurement_portal_app/internal/dto"
)

// ApprovalSvcFacade is the approval state machine for one resource family.
type ApprovalSvcFacade interface {
	// SubmitDecision advances a requisition through the approval chain or
	// rejects it. When the decision completes the final gate it runs the
	// inventory deduction synchronously; a deduction failure rolls back the
	// decision's own writes and surfaces apperrors.DeductionError.
	SubmitDecision(ctx context.Context, actor domain.Actor, requisitionID string, req dto.DecisionRequest) (domain.RequisitionStatus, error)
}

// DeductionSvc deducts stock for every unprocessed line of a fully approved
// requisition, compensating partially applied decrements on failure.
type DeductionSvc interface {
	Deduct(ctx context.Context, requisition *domain.Requisition, actor domain.Actor) error
}
