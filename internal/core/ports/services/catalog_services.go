package services

import (
	"context"

	"github.com/labstores/procurement_portal_app/internal/core/domain"
)

// CatalogSvcFacade is the read-only catalog view for one resource family.
type CatalogSvcFacade interface {
	// ListAvailableItems returns items with positive stock, excluding
	// expired ones for catalogs that carry expiry dates.
	ListAvailableItems(ctx context.Context) ([]domain.CatalogItem, error)
}
