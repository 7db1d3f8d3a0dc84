// internal/core/domain/expense.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseCategory represents expense categories
type ExpenseCategory string

// Expense category constants
const (
	ExpenseSupplies  ExpenseCategory = "supplies"
	ExpenseShipping  ExpenseCategory = "shipping"
	ExpenseStorage   ExpenseCategory = "storage"
	ExpenseMileage   ExpenseCategory = "mileage"
	ExpenseFees      ExpenseCategory = "fees"
	ExpenseOtherCost ExpenseCategory = "other"
)

// Expense is a cost event optionally split across one or more pallets.
// A split expense contributes amount/len(PalletIDs) to each linked pallet.
type Expense struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Category  ExpenseCategory `json:"category"`
	Date      time.Time       `json:"date"`
	PalletIDs []uuid.UUID     `json:"pallet_ids,omitempty"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ShareFor returns this expense's contribution to the given pallet.
func (e *Expense) ShareFor(palletID uuid.UUID) decimal.Decimal {
	if len(e.PalletIDs) == 0 {
		return decimal.Zero
	}
	for _, id := range e.PalletIDs {
		if id == palletID {
			return e.Amount.Div(decimal.NewFromInt(int64(len(e.PalletIDs))))
		}
	}
	return decimal.Zero
}

// Validate performs domain validation on the expense
func (e *Expense) Validate() error {
	if e.Amount.IsNegative() {
		return fmt.Errorf("amount cannot be negative")
	}
	if e.Category == "" {
		e.Category = ExpenseOtherCost
	}
	return nil
}

// PrepareForStorage sets identity and timestamps ahead of persistence
func (e *Expense) PrepareForStorage() {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	if e.Date.IsZero() {
		e.Date = now
	}
}
