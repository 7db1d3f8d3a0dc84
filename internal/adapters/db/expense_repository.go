// internal/adapters/db/expense_repository.go
package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/core/ports"
)

// expenseRepository implements ports.ExpenseRepository. Pallet links
// live in the expense_pallets join table; an expense with no links is a
// general business cost.
type expenseRepository struct {
	db     *Database
	logger *slog.Logger
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *Database, logger *slog.Logger) ports.ExpenseRepository {
	return &expenseRepository{
		db:     db,
		logger: logger.With(slog.String("repository", "expense")),
	}
}

// Save creates an expense and its pallet links in one transaction
func (r *expenseRepository) Save(ctx context.Context, expense *domain.Expense) error {
	err := r.db.Transaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO expenses (id, amount, category, date, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			expense.ID, expense.Amount, expense.Category, expense.Date,
			expense.Notes, expense.CreatedAt, expense.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense: %w", err)
		}

		for _, palletID := range expense.PalletIDs {
			_, err := tx.Exec(ctx, `
				INSERT INTO expense_pallets (expense_id, pallet_id) VALUES ($1, $2)`,
				expense.ID, palletID,
			)
			if err != nil {
				return fmt.Errorf("failed to link expense to pallet %s: %w", palletID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.DebugContext(ctx, "expense saved",
		slog.String("id", expense.ID.String()),
		slog.Int("pallet_links", len(expense.PalletIDs)))

	return nil
}

// FindAll retrieves all expenses with their pallet links
func (r *expenseRepository) FindAll(ctx context.Context) ([]domain.Expense, error) {
	query := `
		SELECT e.id, e.amount, e.category, e.date, e.notes,
			e.created_at, e.updated_at,
			COALESCE(array_agg(ep.pallet_id) FILTER (WHERE ep.pallet_id IS NOT NULL), '{}')
		FROM expenses e
		LEFT JOIN expense_pallets ep ON ep.expense_id = e.id
		GROUP BY e.id
		ORDER BY e.date DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// FindByPallet retrieves expenses linked to a pallet
func (r *expenseRepository) FindByPallet(ctx context.Context, palletID uuid.UUID) ([]domain.Expense, error) {
	query := `
		SELECT e.id, e.amount, e.category, e.date, e.notes,
			e.created_at, e.updated_at,
			COALESCE(array_agg(ep2.pallet_id) FILTER (WHERE ep2.pallet_id IS NOT NULL), '{}')
		FROM expenses e
		JOIN expense_pallets ep ON ep.expense_id = e.id AND ep.pallet_id = $1
		LEFT JOIN expense_pallets ep2 ON ep2.expense_id = e.id
		GROUP BY e.id
		ORDER BY e.date DESC`

	rows, err := r.db.Query(ctx, query, palletID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pallet expenses: %w", err)
	}
	defer rows.Close()

	return scanExpenses(rows)
}

// Delete removes an expense; the join rows cascade
func (r *expenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}

	r.logger.InfoContext(ctx, "expense deleted",
		slog.String("id", id.String()))

	return nil
}

func scanExpenses(rows pgx.Rows) ([]domain.Expense, error) {
	var expenses []domain.Expense
	for rows.Next() {
		var e domain.Expense
		err := rows.Scan(
			&e.ID, &e.Amount, &e.Category, &e.Date, &e.Notes,
			&e.CreatedAt, &e.UpdatedAt, &e.PalletIDs,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return expenses, nil
}
