package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem mirrors one row of a family's catalog table. ExpiryDate is
// NULL for the admin-items table, which has no expiry column semantics.
type CatalogItem struct {
	ItemID     string          `db:"item_id"`
	Name       string          `db:"name"`
	Quantity   decimal.Decimal `db:"quantity"`
	Unit       string          `db:"unit"`
	ExpiryDate *time.Time      `db:"expiry_date"`
	AuditFields
}

// InventoryTransaction mirrors one immutable ledger row.
type InventoryTransaction struct {
	TransactionID     string          `db:"transaction_id"`
	CatalogItemID     string          `db:"catalog_item_id"`
	RequisitionItemID string          `db:"requisition_item_id"`
	TransactionType   string          `db:"transaction_type"`
	QuantityChange    decimal.Decimal `db:"quantity_change"`
	QuantityBefore    decimal.Decimal `db:"quantity_before"`
	QuantityAfter     decimal.Decimal `db:"quantity_after"`
	PerformedBy       string          `db:"performed_by"`
	Reason            string          `db:"reason"`
	CreatedAt         time.Time       `db:"created_at"`
}
