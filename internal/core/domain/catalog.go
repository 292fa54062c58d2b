package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogItem is one stocked, quantity-tracked inventory entry. The core only
// reads it and decrements its quantity; ownership of the rest of its
// lifecycle sits with an external catalog-management process.
type CatalogItem struct {
	ItemID     string          `json:"itemID"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	ExpiryDate *time.Time      `json:"expiryDate,omitempty"` // chemical family only
	AuditFields
}

// IsExpired reports whether the item's expiry date has passed. Items without
// an expiry date never expire.
func (c CatalogItem) IsExpired(now time.Time) bool {
	return c.ExpiryDate != nil && c.ExpiryDate.Before(now)
}
