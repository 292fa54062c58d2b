package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryTransactionType labels a ledger row.
type InventoryTransactionType string

const (
	// TxnRequisitionDeduction records stock taken for an approved requisition.
	TxnRequisitionDeduction InventoryTransactionType = "requisition_deduction"
	// TxnDeductionReversal records the compensating re-increment written when
	// a deduction run fails after this line had already been deducted.
	TxnDeductionReversal InventoryTransactionType = "deduction_reversal"
)

// InventoryTransaction is an immutable ledger row recording one quantity
// change. QuantityAfter must equal QuantityBefore + QuantityChange and match
// the catalog item's post-update quantity.
type InventoryTransaction struct {
	TransactionID     string                   `json:"transactionID"`
	CatalogItemID     string                   `json:"catalogItemID"`
	RequisitionItemID string                   `json:"requisitionItemID"`
	TransactionType   InventoryTransactionType `json:"transactionType"`
	QuantityChange    decimal.Decimal          `json:"quantityChange"` // negative for deductions
	QuantityBefore    decimal.Decimal          `json:"quantityBefore"`
	QuantityAfter     decimal.Decimal          `json:"quantityAfter"`
	PerformedBy       string                   `json:"performedBy"`
	Reason            string                   `json:"reason"`
	CreatedAt         time.Time                `json:"createdAt"`
}
