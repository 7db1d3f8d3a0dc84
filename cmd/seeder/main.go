// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/palletflow/internal/adapters/db"
	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/core/ports"
	"github.com/ammerola/palletflow/internal/core/services"
)

// Seeder loads demo inventory so a fresh install has something on the
// dashboard. It can also import items from a spreadsheet, one row per
// item with columns: name, quantity, condition, purchase cost.
type Seeder struct {
	pallets  ports.PalletRepository
	items    ports.ItemRepository
	expenses ports.ExpenseRepository
	alloc    *services.AllocationService
	logger   *slog.Logger
	dryRun   bool
}

func main() {
	var (
		itemsFile = flag.String("items", "", "Optional xlsx file with items to import")
		logLevel  = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun    = flag.Bool("dry-run", false, "Preview changes without modifying database")
		skipDemo  = flag.Bool("skip-demo", false, "Skip the built-in demo pallets")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()

	dbConfig := &db.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "palletflow"),
		Password: getEnv("DB_PASSWORD", "palletflow_dev_2026"),
		Database: getEnv("DB_NAME", "palletflow"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),

		MaxConnections:    5,
		MinConnections:    1,
		MaxConnLifetime:   time.Hour,
		MaxConnIdleTime:   30 * time.Minute,
		HealthCheckPeriod: time.Minute,
		ConnectTimeout:    10 * time.Second,
	}

	database, err := db.NewDatabase(ctx, dbConfig, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	palletRepo := db.NewPalletRepository(database, logger)
	itemRepo := db.NewItemRepository(database, logger)
	expenseRepo := db.NewExpenseRepository(database, logger)

	seeder := &Seeder{
		pallets:  palletRepo,
		items:    itemRepo,
		expenses: expenseRepo,
		alloc:    services.NewAllocationService(palletRepo, itemRepo, logger),
		logger:   logger,
		dryRun:   *dryRun,
	}

	totalPallets := 0
	totalItems := 0

	if !*skipDemo {
		pallets, items, err := seeder.seedDemoData(ctx)
		if err != nil {
			logger.Error("failed to seed demo data", slog.String("error", err.Error()))
			os.Exit(1)
		}
		totalPallets += pallets
		totalItems += items
	}

	if *itemsFile != "" {
		count, err := seeder.importSpreadsheet(ctx, *itemsFile)
		if err != nil {
			logger.Error("failed to import spreadsheet",
				slog.String("file", *itemsFile),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		totalItems += count
	}

	logger.Info("seed operation completed",
		slog.Int("pallets_created", totalPallets),
		slog.Int("items_created", totalItems),
		slog.Bool("dry_run", *dryRun))

	if *dryRun {
		fmt.Println("[DRY RUN] No changes were made to the database")
	}
}

// seedDemoData creates a small realistic inventory: two pallets with
// member items in various lifecycle states, a few individual items and
// a shared expense.
func (s *Seeder) seedDemoData(ctx context.Context) (int, int, error) {
	now := time.Now()

	electronics := &domain.Pallet{
		Name:         "Electronics Returns Pallet",
		Supplier:     "B-Stock",
		SourceType:   "Amazon Returns",
		PurchaseCost: decimal.NewFromInt(450),
		SalesTax:     decimal.NewFromFloat(38.81),
		PurchaseDate: now.AddDate(0, -2, 0),
		Notes:        "Mixed lot, mostly small appliances",
	}
	toys := &domain.Pallet{
		Name:         "Toy Liquidation Pallet",
		Supplier:     "Liquidation.com",
		SourceType:   "Target Liquidation",
		PurchaseCost: decimal.NewFromInt(280),
		SalesTax:     decimal.NewFromFloat(24.15),
		PurchaseDate: now.AddDate(0, -1, -10),
	}

	palletCount := 0
	for _, p := range []*domain.Pallet{electronics, toys} {
		p.PrepareForStorage()
		if err := p.Validate(); err != nil {
			return 0, 0, fmt.Errorf("invalid demo pallet %q: %w", p.Name, err)
		}
		if err := s.save(ctx, "pallet", p.Name, func() error {
			return s.pallets.Save(ctx, p)
		}); err != nil {
			return 0, 0, err
		}
		palletCount++
	}

	ebay := domain.PlatformEBay
	mercari := domain.PlatformMercari

	demoItems := []*domain.Item{
		{
			PalletID:     &electronics.ID,
			Name:         "Instant Pot Duo 6qt",
			Quantity:     1,
			Condition:    domain.ConditionLikeNew,
			Status:       domain.ItemSold,
			ListingPrice: money("65.00"),
			SalePrice:    money("58.00"),
			SaleDate:     timePtr(now.AddDate(0, 0, -12)),
			ListingDate:  timePtr(now.AddDate(0, -1, -15)),
			Platform:     &ebay,
			PlatformFee:  money("7.86"),
			ShippingCost: money("9.40"),
		},
		{
			PalletID:     &electronics.ID,
			Name:         "Dyson V8 Stick Vacuum",
			Quantity:     1,
			Condition:    domain.ConditionGood,
			Status:       domain.ItemListed,
			ListingPrice: money("180.00"),
			ListingDate:  timePtr(now.AddDate(0, 0, -40)),
		},
		{
			PalletID:  &electronics.ID,
			Name:      "Keurig K-Mini",
			Quantity:  1,
			Condition: domain.ConditionFair,
			Status:    domain.ItemUnprocessed,
		},
		{
			PalletID:     &toys.ID,
			Name:         "LEGO Creator Set 31058",
			Quantity:     2,
			Condition:    domain.ConditionNew,
			Status:       domain.ItemSold,
			ListingPrice: money("25.00"),
			SalePrice:    money("22.50"),
			SaleDate:     timePtr(now.AddDate(0, 0, -5)),
			ListingDate:  timePtr(now.AddDate(0, 0, -20)),
			Platform:     &mercari,
			PlatformFee:  money("2.25"),
		},
		{
			PalletID:  &toys.ID,
			Name:      "Melissa & Doug Puzzle Bundle",
			Quantity:  4,
			Condition: domain.ConditionNew,
			Status:    domain.ItemUnprocessed,
		},
		{
			Name:         "Vintage Pyrex Mixing Bowl",
			Quantity:     1,
			Condition:    domain.ConditionExcellent,
			Status:       domain.ItemListed,
			PurchaseCost: money("4.00"),
			ListingPrice: money("32.00"),
			ListingDate:  timePtr(now.AddDate(0, 0, -8)),
			Notes:        "Estate sale find",
		},
	}

	itemCount := 0
	for _, item := range demoItems {
		item.PrepareForStorage()
		if err := item.Validate(); err != nil {
			return 0, 0, fmt.Errorf("invalid demo item %q: %w", item.Name, err)
		}
		if err := s.save(ctx, "item", item.Name, func() error {
			return s.items.Save(ctx, item)
		}); err != nil {
			return 0, 0, err
		}
		itemCount++
	}

	// Spread each pallet's cost over its members.
	if !s.dryRun {
		for _, p := range []*domain.Pallet{electronics, toys} {
			if err := s.alloc.Reallocate(ctx, p.ID); err != nil {
				return 0, 0, fmt.Errorf("failed to allocate costs for %q: %w", p.Name, err)
			}
		}
	}

	expense := &domain.Expense{
		Amount:    decimal.NewFromFloat(42.30),
		Category:  domain.ExpenseSupplies,
		Date:      now.AddDate(0, 0, -14),
		PalletIDs: []uuid.UUID{electronics.ID, toys.ID},
		Notes:     "Poly mailers and bubble wrap",
	}
	expense.PrepareForStorage()
	if err := s.save(ctx, "expense", string(expense.Category), func() error {
		return s.expenses.Save(ctx, expense)
	}); err != nil {
		return 0, 0, err
	}

	return palletCount, itemCount, nil
}

// importSpreadsheet reads items from the first sheet of an xlsx file.
// Expected columns: name, quantity, condition, purchase cost. The first
// row is treated as a header.
func (s *Seeder) importSpreadsheet(ctx context.Context, path string) (int, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open items file: %w", err)
	}
	if len(file.Sheets) == 0 {
		return 0, fmt.Errorf("no sheets found in items file")
	}
	sheet := file.Sheets[0]

	count := 0
	rowIdx := 0
	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		// Skip header
		if rowIdx == 0 {
			rowIdx++
			return nil
		}
		rowIdx++

		get := func(i int) string {
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			if v, err := c.FormattedValue(); err == nil {
				return strings.TrimSpace(v)
			}
			return strings.TrimSpace(c.String())
		}

		name := get(0)
		if name == "" {
			return nil
		}

		quantity, _ := strconv.Atoi(get(1))
		if quantity <= 0 {
			quantity = 1
		}

		item := &domain.Item{
			Name:      name,
			Quantity:  quantity,
			Condition: domain.ItemCondition(strings.ToLower(get(2))),
			Status:    domain.ItemUnprocessed,
		}

		if costStr := get(3); costStr != "" {
			cost, err := decimal.NewFromString(strings.TrimPrefix(costStr, "$"))
			if err != nil {
				s.logger.Warn("skipping unparseable purchase cost",
					slog.String("item", name),
					slog.String("value", costStr))
			} else {
				item.PurchaseCost = &cost
			}
		}

		item.PrepareForStorage()
		if err := item.Validate(); err != nil {
			s.logger.Warn("skipping invalid row",
				slog.Int("row", rowIdx),
				slog.String("error", err.Error()))
			return nil
		}

		if err := s.save(ctx, "item", item.Name, func() error {
			return s.items.Save(ctx, item)
		}); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("failed to iterate rows: %w", err)
	}

	s.logger.Info("spreadsheet imported",
		slog.String("file", path),
		slog.Int("items", count))
	return count, nil
}

func (s *Seeder) save(ctx context.Context, kind, name string, fn func() error) error {
	if s.dryRun {
		s.logger.Info("would create "+kind, slog.String("name", name))
		return nil
	}
	if err := fn(); err != nil {
		return fmt.Errorf("failed to save %s %q: %w", kind, name, err)
	}
	s.logger.Debug(kind+" created", slog.String("name", name))
	return nil
}

func money(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
