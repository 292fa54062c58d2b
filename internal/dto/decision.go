package dto

import "github.com/shopspring/decimal"

// ApprovedQuantityOverride sets a per-line approved quantity. Any approver in
// the chain may adjust quantities; last write wins.
type ApprovedQuantityOverride struct {
	ItemID   string          `json:"item_id" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required,dgt0"`
}

// DecisionRequest is the approve/reject payload for one requisition.
type DecisionRequest struct {
	Action             string                     `json:"action" binding:"required,oneof=approve reject"`
	ApprovedQuantities []ApprovedQuantityOverride `json:"approved_quantities,omitempty" binding:"omitempty,dive"`
	RejectionReason    string                     `json:"rejection_reason,omitempty"`
}

// DecisionResponse reports the outcome and the requisition's new status.
type DecisionResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}
