package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstores/procurement_portal_app/internal/apperrors"
	"github.com/labstores/procurement_portal_app/internal/core/domain"
	portsrepo "github.com/labstores/procurement_portal_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type PgxCatalogRepository struct {
	pool *pgxpool.Pool
	t    familyTables
}

// newPgxCatalogRepository creates a repository for one family's catalog and
// inventory ledger tables.
func newPgxCatalogRepository(pool *pgxpool.Pool, family domain.ResourceFamily) portsrepo.CatalogRepositoryFacade {
	return &PgxCatalogRepository{pool: pool, t: tablesForFamily(family)}
}

var _ portsrepo.CatalogRepositoryFacade = (*PgxCatalogRepository)(nil)

// FindCatalogItemByID retrieves one catalog item regardless of stock level.
func (r *PgxCatalogRepository) FindCatalogItemByID(ctx context.Context, itemID string) (*domain.CatalogItem, error) {
	query := fmt.Sprintf(`
		SELECT item_id, name, quantity, unit, expiry_date, created_at, created_by, last_updated_at, last_updated_by
		FROM %s
		WHERE item_id = $1;
	`, r.t.catalog)

	var item domain.CatalogItem
	err := r.pool.QueryRow(ctx, query, itemID).Scan(
		&item.ItemID, &item.Name, &item.Quantity, &item.Unit, &item.ExpiryDate,
		&item.CreatedAt, &item.CreatedBy, &item.LastUpdatedAt, &item.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find catalog item %s: %w", itemID, err)
	}
	return &item, nil
}

// ListAvailableItems retrieves positive-stock items, excluding expired ones
// for catalogs carrying expiry dates.
func (r *PgxCatalogRepository) ListAvailableItems(ctx context.Context, now time.Time) ([]domain.CatalogItem, error) {
	query := fmt.Sprintf(`
		SELECT item_id, name, quantity, unit, expiry_date, created_at, created_by, last_updated_at, last_updated_by
		FROM %s
		WHERE quantity > 0
	`, r.t.catalog)
	args := []any{}
	if r.t.hasExpiry {
		query += ` AND expiry_date >= $1`
		args = append(args, now)
	}
	query += ` ORDER BY name;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query available catalog items: %w", err)
	}
	defer rows.Close()

	items := []domain.CatalogItem{}
	for rows.Next() {
		var item domain.CatalogItem
		err := rows.Scan(
			&item.ItemID, &item.Name, &item.Quantity, &item.Unit, &item.ExpiryDate,
			&item.CreatedAt, &item.CreatedBy, &item.LastUpdatedAt, &item.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog item rows: %w", err)
	}
	return items, nil
}

// DeductQuantity decrements stock with a conditional update so concurrent
// deductions cannot both read the same stale quantity.
func (r *PgxCatalogRepository) DeductQuantity(ctx context.Context, itemID string, delta decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET quantity = quantity - $2, last_updated_at = NOW()
		WHERE item_id = $1 AND quantity >= $2
		RETURNING quantity;
	`, r.t.catalog)

	var after decimal.Decimal
	err := r.pool.QueryRow(ctx, query, itemID, delta).Scan(&after)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Guard failed: distinguish a missing item from insufficient stock.
			if _, findErr := r.FindCatalogItemByID(ctx, itemID); errors.Is(findErr, apperrors.ErrNotFound) {
				return decimal.Zero, decimal.Zero, apperrors.ErrNotFound
			} else if findErr != nil {
				return decimal.Zero, decimal.Zero, findErr
			}
			return decimal.Zero, decimal.Zero, apperrors.ErrConflict
		}
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to deduct quantity for catalog item %s: %w", itemID, err)
	}
	return after.Add(delta), after, nil
}

// RestoreQuantity increments stock back during compensation of a partially
// applied deduction run.
func (r *PgxCatalogRepository) RestoreQuantity(ctx context.Context, itemID string, delta decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET quantity = quantity + $2, last_updated_at = NOW()
		WHERE item_id = $1
		RETURNING quantity;
	`, r.t.catalog)

	var after decimal.Decimal
	err := r.pool.QueryRow(ctx, query, itemID, delta).Scan(&after)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, decimal.Zero, apperrors.ErrNotFound
		}
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to restore quantity for catalog item %s: %w", itemID, err)
	}
	return after.Sub(delta), after, nil
}

// InsertInventoryTransaction appends one immutable ledger row.
func (r *PgxCatalogRepository) InsertInventoryTransaction(ctx context.Context, txn domain.InventoryTransaction) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (transaction_id, catalog_item_id, requisition_item_id, transaction_type, quantity_change, quantity_before, quantity_after, performed_by, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`, r.t.ledger)

	_, err := r.pool.Exec(ctx, query,
		txn.TransactionID,
		txn.CatalogItemID,
		txn.RequisitionItemID,
		string(txn.TransactionType),
		txn.QuantityChange,
		txn.QuantityBefore,
		txn.QuantityAfter,
		txn.PerformedBy,
		txn.Reason,
		txn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inventory transaction for item %s: %w", txn.CatalogItemID, err)
	}
	return nil
}
