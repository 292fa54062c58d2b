package services

import (
	"context"

	"github.com/labstores/procurement_portal_app/internal/core/domain"
	"github.com/labstores/procurement_portal_app/internal/dto"
)

// RequisitionSvcFacade covers intake and read operations for one resource
// family's requisitions.
type RequisitionSvcFacade interface {
	// CreateRequisition validates and persists a new requisition with its
	// line items. All lines are checked against the catalog before any
	// write; a single bad line rejects the whole submission.
	CreateRequisition(ctx context.Context, actor domain.Actor, req dto.CreateRequisitionRequest) (*domain.Requisition, error)

	// ListRequisitions returns requisitions matching the status filter
	// (active, completed, all), scoped to the actor's own submissions unless
	// the actor is an approver or admin.
	ListRequisitions(ctx context.Context, actor domain.Actor, params dto.ListRequisitionsParams) ([]domain.Requisition, error)

	// GetRequisitionByID returns one requisition, applying the same
	// visibility rule as ListRequisitions.
	GetRequisitionByID(ctx context.Context, actor domain.Actor, requisitionID string) (*domain.Requisition, error)
}
