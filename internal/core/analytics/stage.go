// internal/core/analytics/stage.go
package analytics

import "github.com/ammerola/palletflow/internal/core/domain"

// UserStage classifies how far along a user is, from first launch to an
// established operation. Used to pick empty-state copy when no insights
// apply.
type UserStage string

// Stages, in order.
const (
	StageNewUser      UserStage = "new_user"
	StageHasInventory UserStage = "has_inventory"
	StageHasListings  UserStage = "has_listings"
	StageMakingSales  UserStage = "making_sales"
	StageEstablished  UserStage = "established"
)

// establishedSales is the sold-item count at which a user graduates to
// the established stage.
const establishedSales = 10

// GetUserStage maps the current data shape to a journey stage.
func GetUserStage(pallets []domain.Pallet, items []domain.Item) UserStage {
	soldCount, listedCount := 0, 0
	for i := range items {
		switch items[i].Status {
		case domain.ItemSold:
			soldCount++
		case domain.ItemListed:
			listedCount++
		}
	}

	switch {
	case soldCount >= establishedSales:
		return StageEstablished
	case soldCount > 0:
		return StageMakingSales
	case listedCount > 0:
		return StageHasListings
	case len(items) > 0 || len(pallets) > 0:
		return StageHasInventory
	default:
		return StageNewUser
	}
}

// EmptyState is contextual copy shown when the insights list is empty.
type EmptyState struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// GetEmptyStateContent returns the empty-state copy for a stage.
func GetEmptyStateContent(stage UserStage) EmptyState {
	switch stage {
	case StageNewUser:
		return EmptyState{
			Title:   "Welcome to palletflow",
			Message: "Add your first pallet or item to start tracking profits.",
			Action:  "add_pallet",
		}
	case StageHasInventory:
		return EmptyState{
			Title:   "Ready to list",
			Message: "List your items to start making sales.",
			Action:  "list_items",
		}
	case StageHasListings:
		return EmptyState{
			Title:   "Listings are live",
			Message: "Insights will appear here once your first sale comes in.",
		}
	case StageMakingSales:
		return EmptyState{
			Title:   "Sales are rolling",
			Message: "Keep selling. More insights unlock as your history grows.",
		}
	default:
		return EmptyState{
			Title:   "All caught up",
			Message: "Check back later for fresh insights on your inventory.",
		}
	}
}
