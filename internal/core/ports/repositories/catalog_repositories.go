package repositories

import (
	"context"
	"time"

	"github.com/labstores/procurement_portal_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CatalogReader defines read operations for catalog items.
type CatalogReader interface {
	// FindCatalogItemByID retrieves one catalog item regardless of stock.
	FindCatalogItemByID(ctx context.Context, itemID string) (*domain.CatalogItem, error)

	// ListAvailableItems retrieves items with positive on-hand quantity,
	// excluding ones expired as of now (for catalogs carrying expiry dates).
	ListAvailableItems(ctx context.Context, now time.Time) ([]domain.CatalogItem, error)
}

// InventoryWriter defines the quantity mutations and ledger appends owned by
// the deduction transaction. Decrements are atomic conditional updates
// (new = old - delta, rejected when old has changed below delta), never blind
// overwrites.
type InventoryWriter interface {
	// DeductQuantity decrements on-hand stock, guarded by
	// "quantity >= delta". It returns the before and after quantities.
	// Returns apperrors.ErrConflict when the guard fails and
	// apperrors.ErrNotFound when the item is missing.
	DeductQuantity(ctx context.Context, itemID string, delta decimal.Decimal) (before, after decimal.Decimal, err error)

	// RestoreQuantity increments on-hand stock during compensation of a
	// partially applied deduction run, returning before and after quantities.
	RestoreQuantity(ctx context.Context, itemID string, delta decimal.Decimal) (before, after decimal.Decimal, err error)

	// InsertInventoryTransaction appends one immutable ledger row.
	InsertInventoryTransaction(ctx context.Context, txn domain.InventoryTransaction) error
}

// CatalogRepositoryFacade combines catalog reads and inventory writes.
type CatalogRepositoryFacade interface {
	CatalogReader
	InventoryWriter
}
