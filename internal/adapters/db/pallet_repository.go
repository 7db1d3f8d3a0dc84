// internal/adapters/db/pallet_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/core/ports"
)

const palletColumns = `
	id, name, supplier, source_type, purchase_cost, sales_tax,
	purchase_date, status, notes, version, created_at, updated_at`

// palletRepository implements ports.PalletRepository
type palletRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewPalletRepository creates a new pallet repository
func NewPalletRepository(db *Database, logger *slog.Logger) ports.PalletRepository {
	return &palletRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "pallet")),
	}
}

// Save creates a new pallet
func (r *palletRepository) Save(ctx context.Context, pallet *domain.Pallet) error {
	query := `
		INSERT INTO pallets (
			id, name, supplier, source_type, purchase_cost, sales_tax,
			purchase_date, status, notes, version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $11
		) RETURNING version`

	err := r.db.QueryRow(ctx, query,
		pallet.ID, pallet.Name, pallet.Supplier, pallet.SourceType,
		pallet.PurchaseCost, pallet.SalesTax, pallet.PurchaseDate,
		pallet.Status, pallet.Notes, pallet.CreatedAt, pallet.UpdatedAt,
	).Scan(&pallet.Version)
	if err != nil {
		return fmt.Errorf("failed to save pallet: %w", err)
	}

	r.logger.DebugContext(ctx, "pallet saved",
		slog.String("id", pallet.ID.String()),
		slog.String("name", pallet.Name))

	return nil
}

// Update rewrites a pallet row, guarded by the version the caller read.
func (r *palletRepository) Update(ctx context.Context, pallet *domain.Pallet) error {
	query := `
		UPDATE pallets SET
			name = $3, supplier = $4, source_type = $5,
			purchase_cost = $6, sales_tax = $7, purchase_date = $8,
			status = $9, notes = $10,
			version = version + 1, updated_at = $11
		WHERE id = $1 AND version = $2 AND deleted_at IS NULL
		RETURNING version`

	pallet.UpdatedAt = time.Now()

	err := r.db.QueryRow(ctx, query,
		pallet.ID, pallet.Version,
		pallet.Name, pallet.Supplier, pallet.SourceType,
		pallet.PurchaseCost, pallet.SalesTax, pallet.PurchaseDate,
		pallet.Status, pallet.Notes, pallet.UpdatedAt,
	).Scan(&pallet.Version)
	if err != nil {
		if err == pgx.ErrNoRows {
			return r.writeConflict(ctx, pallet.ID)
		}
		return fmt.Errorf("failed to update pallet: %w", err)
	}

	return nil
}

// FindByID retrieves a pallet by ID
func (r *palletRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Pallet, error) {
	query := `SELECT ` + palletColumns + `
		FROM pallets
		WHERE id = $1 AND deleted_at IS NULL`

	pallet, err := scanPallet(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find pallet: %w", err)
	}

	return pallet, nil
}

// FindAll retrieves all live pallets
func (r *palletRepository) FindAll(ctx context.Context) ([]domain.Pallet, error) {
	query := `SELECT ` + palletColumns + `
		FROM pallets
		WHERE deleted_at IS NULL
		ORDER BY purchase_date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pallets: %w", err)
	}
	defer rows.Close()

	var pallets []domain.Pallet
	for rows.Next() {
		pallet, err := scanPallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pallet: %w", err)
		}
		pallets = append(pallets, *pallet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return pallets, nil
}

// SoftDelete marks a pallet as deleted
func (r *palletRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE pallets SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`

	now := time.Now()
	tag, err := r.db.Exec(ctx, query, id, now)
	if err != nil {
		return fmt.Errorf("failed to soft delete pallet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	r.logger.InfoContext(ctx, "pallet soft deleted",
		slog.String("id", id.String()))

	return nil
}

// Count returns the number of live pallets
func (r *palletRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pallets WHERE deleted_at IS NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count pallets: %w", err)
	}
	return count, nil
}

func (r *palletRepository) writeConflict(ctx context.Context, id uuid.UUID) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM pallets WHERE id = $1 AND deleted_at IS NULL)`, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to classify write conflict: %w", err)
	}
	if exists {
		return fmt.Errorf("pallet %s: %w", id, ports.ErrStaleWrite)
	}
	return ports.ErrNotFound
}

func scanPallet(row rowScanner) (*domain.Pallet, error) {
	pallet := &domain.Pallet{}
	err := row.Scan(
		&pallet.ID, &pallet.Name, &pallet.Supplier, &pallet.SourceType,
		&pallet.PurchaseCost, &pallet.SalesTax, &pallet.PurchaseDate,
		&pallet.Status, &pallet.Notes, &pallet.Version,
		&pallet.CreatedAt, &pallet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return pallet, nil
}
