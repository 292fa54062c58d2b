package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequisitionStatus is the lifecycle state of a requisition. It is always
// derivable from the stage approval timestamps plus the rejection and
// cancellation markers; the stored column must never disagree with
// DeriveStatus.
type RequisitionStatus string

const (
	StatusPending                           RequisitionStatus = "pending"
	StatusApprovedByTechnicalManagerC       RequisitionStatus = "approved_by_technical_manager_c"
	StatusApprovedByTechnicalManagerM       RequisitionStatus = "approved_by_technical_manager_m"
	StatusApprovedBySeniorAssistantDirector RequisitionStatus = "approved_by_senior_assistant_director"
	StatusApproved                          RequisitionStatus = "approved"
	StatusRejected                          RequisitionStatus = "rejected"
	StatusCancelled                         RequisitionStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are permitted.
func (s RequisitionStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// StageApproval records one gate's sign-off. ApprovedAt being nil means the
// stage has not signed yet.
type StageApproval struct {
	Role       Role       `json:"role"`
	ApprovedBy string     `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
}

// Requisition is one procurement request moving through the approval chain.
type Requisition struct {
	RequisitionID     string            `json:"requisitionID"`
	RequisitionNumber string            `json:"requisitionNumber"`
	Family            ResourceFamily    `json:"family"`
	RequisitionDate   time.Time         `json:"requisitionDate"`
	Department        string            `json:"department"`
	Requester         string            `json:"requester"`
	RequesterUserID   string            `json:"requesterUserID"`
	TotalItems        int               `json:"totalItems"`
	Status            RequisitionStatus `json:"status"`

	// Approvals is aligned index-for-index with ApprovalChain.
	Approvals [4]StageApproval `json:"approvals"`

	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	RejectedBy      string     `json:"rejectedBy,omitempty"`
	RejectedByRole  Role       `json:"rejectedByRole,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`

	Items []RequisitionItem `json:"items,omitempty"`
	AuditFields
}

// RequisitionItem is one requested quantity of one catalog item.
type RequisitionItem struct {
	ItemID            string          `json:"itemID"`
	RequisitionID     string          `json:"requisitionID"`
	CatalogItemID     string          `json:"catalogItemID"`
	CatalogItemName   string          `json:"catalogItemName,omitempty"`   // joined from the catalog on reads
	AvailableQuantity decimal.Decimal `json:"availableQuantity"`           // joined current on-hand quantity
	RequestedQuantity decimal.Decimal `json:"requestedQuantity"`
	ApprovedQuantity  decimal.Decimal `json:"approvedQuantity"`
	Unit              string          `json:"unit"`
	ExpiryDate        *time.Time      `json:"expiryDate,omitempty"` // chemical family only
	Remark            string          `json:"remark,omitempty"`
	IsProcessed       bool            `json:"isProcessed"`
	ProcessedAt       *time.Time      `json:"processedAt,omitempty"`
}

// QuantityToDeduct is the quantity the deduction transaction takes from
// stock: the approved quantity when set, otherwise the requested quantity.
func (i RequisitionItem) QuantityToDeduct() decimal.Decimal {
	if i.ApprovedQuantity.IsPositive() {
		return i.ApprovedQuantity
	}
	return i.RequestedQuantity
}

// DeriveStatus computes the lifecycle state from the approval timestamps and
// the rejection/cancellation/completion markers. Rejection and cancellation
// dominate; otherwise the status is the name of the highest contiguously
// satisfied stage, or pending when stage one has not signed.
func (r *Requisition) DeriveStatus() RequisitionStatus {
	if r.RejectedAt != nil {
		return StatusRejected
	}
	if r.CancelledAt != nil {
		return StatusCancelled
	}
	status := StatusPending
	for _, stage := range ApprovalChain {
		if r.Approvals[stage.Index].ApprovedAt == nil {
			break
		}
		status = stage.StatusName
	}
	return status
}

// ApprovalSnapshot captures the approval-related fields before a decision
// write so the rollback coordinator can restore them if the coupled
// inventory deduction fails.
type ApprovalSnapshot struct {
	RequisitionID string
	Status        RequisitionStatus
	Approvals     [4]StageApproval
	CompletedAt   *time.Time
}

// Snapshot returns the requisition's current approval state.
func (r *Requisition) Snapshot() ApprovalSnapshot {
	return ApprovalSnapshot{
		RequisitionID: r.RequisitionID,
		Status:        r.Status,
		Approvals:     r.Approvals,
		CompletedAt:   r.CompletedAt,
	}
}
