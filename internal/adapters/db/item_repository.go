// internal/adapters/db/item_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/core/ports"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const itemColumns = `
	id, pallet_id, name, quantity, condition, status,
	retail_price, listing_price, purchase_cost, allocated_cost,
	sale_price, sale_date, listing_date, platform, platform_fee,
	shipping_cost, storage_location, barcode, notes,
	version, created_at, updated_at`

// itemSortColumns whitelists sortable columns for FindAll.
var itemSortColumns = map[string]string{
	"name":          "name",
	"created_at":    "created_at",
	"listing_date":  "listing_date",
	"sale_date":     "sale_date",
	"sale_price":    "sale_price",
	"purchase_cost": "purchase_cost",
}

// itemRepository implements ports.ItemRepository
type itemRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *Database, logger *slog.Logger) ports.ItemRepository {
	return &itemRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "item")),
	}
}

// Save creates a new item
func (r *itemRepository) Save(ctx context.Context, item *domain.Item) error {
	query := `
		INSERT INTO items (
			id, pallet_id, name, quantity, condition, status,
			retail_price, listing_price, purchase_cost, allocated_cost,
			sale_price, sale_date, listing_date, platform, platform_fee,
			shipping_cost, storage_location, barcode, notes,
			version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19,
			1, $20, $21
		) RETURNING version`

	err := r.db.QueryRow(ctx, query,
		item.ID, item.PalletID, item.Name, item.Quantity, item.Condition, item.Status,
		item.RetailPrice, item.ListingPrice, item.PurchaseCost, item.AllocatedCost,
		item.SalePrice, item.SaleDate, item.ListingDate, item.Platform, item.PlatformFee,
		item.ShippingCost, item.StorageLocation, item.Barcode, item.Notes,
		item.CreatedAt, item.UpdatedAt,
	).Scan(&item.Version)
	if err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}

	r.logger.DebugContext(ctx, "item saved",
		slog.String("id", item.ID.String()),
		slog.String("name", item.Name))

	return nil
}

// Update rewrites an item row, guarded by the version the caller read.
// A concurrent writer advancing the version first fails this update with
// ErrStaleWrite.
func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	query := `
		UPDATE items SET
			name = $3, quantity = $4, condition = $5, status = $6,
			retail_price = $7, listing_price = $8, purchase_cost = $9,
			sale_price = $10, sale_date = $11, listing_date = $12,
			platform = $13, platform_fee = $14, shipping_cost = $15,
			storage_location = $16, barcode = $17, notes = $18,
			version = version + 1, updated_at = $19
		WHERE id = $1 AND version = $2 AND deleted_at IS NULL
		RETURNING version`

	item.UpdatedAt = time.Now()

	err := r.db.QueryRow(ctx, query,
		item.ID, item.Version,
		item.Name, item.Quantity, item.Condition, item.Status,
		item.RetailPrice, item.ListingPrice, item.PurchaseCost,
		item.SalePrice, item.SaleDate, item.ListingDate,
		item.Platform, item.PlatformFee, item.ShippingCost,
		item.StorageLocation, item.Barcode, item.Notes,
		item.UpdatedAt,
	).Scan(&item.Version)
	if err != nil {
		if err == pgx.ErrNoRows {
			return r.writeConflict(ctx, item.ID)
		}
		return fmt.Errorf("failed to update item: %w", err)
	}

	return nil
}

// UpdateAllocations applies a batch of allocation rewrites in one
// transaction. Every row must match its expected version or the whole
// batch rolls back with ErrStaleWrite.
func (r *itemRepository) UpdateAllocations(ctx context.Context, allocations []ports.AllocationUpdate) error {
	if len(allocations) == 0 {
		return nil
	}

	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		now := time.Now()
		for _, a := range allocations {
			qb := psql.Update("items").
				Set("allocated_cost", a.AllocatedCost).
				Set("version", squirrel.Expr("version + 1")).
				Set("updated_at", now).
				Where(squirrel.Eq{"id": a.ItemID, "version": a.ExpectedVersion}).
				Where("deleted_at IS NULL")
			if a.SetPallet {
				qb = qb.Set("pallet_id", a.PalletID)
			}

			query, args, err := qb.ToSql()
			if err != nil {
				return fmt.Errorf("failed to build allocation update: %w", err)
			}

			tag, err := tx.Exec(ctx, query, args...)
			if err != nil {
				return fmt.Errorf("failed to update allocation for item %s: %w", a.ItemID, err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("allocation update for item %s: %w", a.ItemID, ports.ErrStaleWrite)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.DebugContext(ctx, "allocations updated",
		slog.Int("count", len(allocations)))

	return nil
}

// FindByID retrieves an item by ID
func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items
		WHERE id = $1 AND deleted_at IS NULL`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	return item, nil
}

// FindByPallet retrieves all live members of a pallet
func (r *itemRepository) FindByPallet(ctx context.Context, palletID uuid.UUID) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + `
		FROM items
		WHERE pallet_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, palletID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pallet items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// FindAll retrieves items with filtering, sorting and pagination
func (r *itemRepository) FindAll(ctx context.Context, params ports.ItemListParams) ([]domain.Item, int64, error) {
	base := psql.Select().From("items").Where("deleted_at IS NULL")

	if params.Search != "" {
		base = base.Where(squirrel.ILike{"name": "%" + params.Search + "%"})
	}
	if params.Status != "" {
		base = base.Where(squirrel.Eq{"status": params.Status})
	}
	if params.Condition != "" {
		base = base.Where(squirrel.Eq{"condition": params.Condition})
	}
	if params.Platform != "" {
		base = base.Where(squirrel.Eq{"platform": params.Platform})
	}
	if params.PalletID != nil {
		base = base.Where(squirrel.Eq{"pallet_id": *params.PalletID})
	}

	countQuery, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var totalCount int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	orderBy := "created_at DESC"
	if col, ok := itemSortColumns[params.SortBy]; ok {
		direction := "ASC"
		if params.SortOrder == "desc" {
			direction = "DESC"
		}
		orderBy = col + " " + direction
	}

	listQuery := base.Columns(itemColumns).OrderBy(orderBy)
	if params.PageSize > 0 {
		offset := 0
		if params.Page > 1 {
			offset = (params.Page - 1) * params.PageSize
		}
		listQuery = listQuery.Limit(uint64(params.PageSize)).Offset(uint64(offset))
	}

	query, args, err := listQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, totalCount, nil
}

// SoftDelete marks an item as deleted
func (r *itemRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE items SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	now := time.Now()
	tag, err := r.db.Exec(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("failed to soft delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	r.logger.InfoContext(ctx, "item soft deleted",
		slog.String("id", id.String()))

	return nil
}

// Count returns the number of live items
func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM items WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// writeConflict classifies a version-guard miss: the row either moved on
// without us or never existed.
func (r *itemRepository) writeConflict(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM items WHERE id = $1 AND deleted_at IS NULL)`, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to classify write conflict: %w", err)
	}
	if exists {
		return fmt.Errorf("item %s: %w", id, ports.ErrStaleWrite)
	}
	return ports.ErrNotFound
}

// pgx row scanning

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	item := &domain.Item{}
	var (
		retailPrice, listingPrice, purchaseCost pgtype.Numeric
		allocatedCost, salePrice, platformFee   pgtype.Numeric
		shippingCost                            pgtype.Numeric
		platform                                *string
	)

	err := row.Scan(
		&item.ID, &item.PalletID, &item.Name, &item.Quantity, &item.Condition, &item.Status,
		&retailPrice, &listingPrice, &purchaseCost, &allocatedCost,
		&salePrice, &item.SaleDate, &item.ListingDate, &platform, &platformFee,
		&shippingCost, &item.StorageLocation, &item.Barcode, &item.Notes,
		&item.Version, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.RetailPrice = nullDecimal(retailPrice)
	item.ListingPrice = nullDecimal(listingPrice)
	item.PurchaseCost = nullDecimal(purchaseCost)
	item.AllocatedCost = nullDecimal(allocatedCost)
	item.SalePrice = nullDecimal(salePrice)
	item.PlatformFee = nullDecimal(platformFee)
	item.ShippingCost = nullDecimal(shippingCost)
	if platform != nil {
		p := domain.Platform(*platform)
		item.Platform = &p
	}

	return item, nil
}

func scanItems(rows pgx.Rows) ([]domain.Item, error) {
	var items []domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return items, nil
}

// nullDecimal converts a nullable numeric column to the domain's
// pointer representation.
func nullDecimal(n pgtype.Numeric) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	v, err := n.Value()
	if err != nil || v == nil {
		return nil
	}
	d, err := decimal.NewFromString(fmt.Sprint(v))
	if err != nil {
		return nil
	}
	return &d
}
