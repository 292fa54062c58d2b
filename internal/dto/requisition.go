package dto

import (
	"time"

	"github.com/labstores/procurement_portal_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRequisitionItem is one requested line in a new requisition.
type CreateRequisitionItem struct {
	CatalogItemID     string          `json:"catalog_item_id" binding:"required"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity" binding:"required,dgt0"`
	Unit              string          `json:"unit"`
	Remark            string          `json:"remark"`
}

// CreateRequisitionRequest is the intake payload.
type CreateRequisitionRequest struct {
	RequisitionDate time.Time               `json:"requisition_date" binding:"required"`
	Department      string                  `json:"department" binding:"required"`
	Requester       string                  `json:"requester" binding:"required"`
	Items           []CreateRequisitionItem `json:"items" binding:"required,min=1,dive"`
}

// CreateRequisitionResponse returns the created identifiers.
type CreateRequisitionResponse struct {
	ID                string `json:"id"`
	RequisitionNumber string `json:"requisition_number"`
	Success           bool   `json:"success"`
}

// ListRequisitionsParams carries the list filter. Status is one of
// active, completed, all.
type ListRequisitionsParams struct {
	Status string `form:"status"`
}

// RequisitionItemResponse is one line of a requisition as returned to
// clients, joined with the catalog item's name and current stock.
type RequisitionItemResponse struct {
	ID                string          `json:"id"`
	CatalogItemID     string          `json:"catalog_item_id"`
	CatalogItemName   string          `json:"catalog_item_name"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
	ApprovedQuantity  decimal.Decimal `json:"approved_quantity"`
	Unit              string          `json:"unit"`
	ExpiryDate        *time.Time      `json:"expiry_date,omitempty"`
	Remark            string          `json:"remark,omitempty"`
	IsProcessed       bool            `json:"is_processed"`
}

// StageApprovalResponse reports one gate's sign-off state.
type StageApprovalResponse struct {
	Role       string     `json:"role"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

// RequisitionResponse is the full requisition view.
type RequisitionResponse struct {
	ID                string                    `json:"id"`
	RequisitionNumber string                    `json:"requisition_number"`
	RequisitionDate   time.Time                 `json:"requisition_date"`
	Department        string                    `json:"department"`
	Requester         string                    `json:"requester"`
	RequesterUserID   string                    `json:"requester_user_id,omitempty"`
	TotalItems        int                       `json:"total_items"`
	Status            string                    `json:"status"`
	Approvals         []StageApprovalResponse   `json:"approvals"`
	RejectedAt        *time.Time                `json:"rejected_at,omitempty"`
	RejectedBy        string                    `json:"rejected_by,omitempty"`
	RejectionReason   string                    `json:"rejection_reason,omitempty"`
	CompletedAt       *time.Time                `json:"completed_at,omitempty"`
	CreatedAt         time.Time                 `json:"created_at"`
	Items             []RequisitionItemResponse `json:"items"`
}

// ToRequisitionResponse converts a domain requisition to its API shape.
func ToRequisitionResponse(r *domain.Requisition) RequisitionResponse {
	approvals := make([]StageApprovalResponse, len(r.Approvals))
	for i, a := range r.Approvals {
		approvals[i] = StageApprovalResponse{
			Role:       string(a.Role),
			ApprovedBy: a.ApprovedBy,
			ApprovedAt: a.ApprovedAt,
		}
	}
	items := make([]RequisitionItemResponse, len(r.Items))
	for i, item := range r.Items {
		items[i] = RequisitionItemResponse{
			ID:                item.ItemID,
			CatalogItemID:     item.CatalogItemID,
			CatalogItemName:   item.CatalogItemName,
			AvailableQuantity: item.AvailableQuantity,
			RequestedQuantity: item.RequestedQuantity,
			ApprovedQuantity:  item.ApprovedQuantity,
			Unit:              item.Unit,
			ExpiryDate:        item.ExpiryDate,
			Remark:            item.Remark,
			IsProcessed:       item.IsProcessed,
		}
	}
	return RequisitionResponse{
		ID:                r.RequisitionID,
		RequisitionNumber: r.RequisitionNumber,
		RequisitionDate:   r.RequisitionDate,
		Department:        r.Department,
		Requester:         r.Requester,
		RequesterUserID:   r.RequesterUserID,
		TotalItems:        r.TotalItems,
		Status:            string(r.Status),
		Approvals:         approvals,
		RejectedAt:        r.RejectedAt,
		RejectedBy:        r.RejectedBy,
		RejectionReason:   r.RejectionReason,
		CompletedAt:       r.CompletedAt,
		CreatedAt:         r.CreatedAt,
		Items:             items,
	}
}

// ToRequisitionResponses converts a slice of domain requisitions.
func ToRequisitionResponses(reqs []domain.Requisition) []RequisitionResponse {
	responses := make([]RequisitionResponse, len(reqs))
	for i := range reqs {
		responses[i] = ToRequisitionResponse(&reqs[i])
	}
	return responses
}
