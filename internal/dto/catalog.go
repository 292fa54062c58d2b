package dto

import (
	"time"

	"github.com/labstores/procurement_portal_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CatalogItemResponse is one available catalog item.
type CatalogItemResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
}

// ToCatalogItemResponse converts a domain catalog item.
func ToCatalogItemResponse(item *domain.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:         item.ItemID,
		Name:       item.Name,
		Quantity:   item.Quantity,
		Unit:       item.Unit,
		ExpiryDate: item.ExpiryDate,
	}
}

// ToCatalogItemResponses converts a slice of domain catalog items.
func ToCatalogItemResponses(items []domain.CatalogItem) []CatalogItemResponse {
	responses := make([]CatalogItemResponse, len(items))
	for i := range items {
		responses[i] = ToCatalogItemResponse(&items[i])
	}
	return responses
}
