// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/ammerola/palletflow/internal/adapters/db"
	redis_a "github.com/ammerola/palletflow/internal/adapters/redis_adapter"
	"github.com/ammerola/palletflow/internal/core/analytics"
	"github.com/ammerola/palletflow/internal/core/ports"
	"github.com/ammerola/palletflow/internal/core/services"
	"github.com/ammerola/palletflow/internal/handlers"
	"github.com/ammerola/palletflow/internal/handlers/middleware"
	"github.com/ammerola/palletflow/internal/pkg/config"
	"github.com/ammerola/palletflow/internal/pkg/logger"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	appLogger := logger.SetupLogger("debug", "json")
	slogger := appLogger.Logger

	slogger.Info("starting pallet tracker",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	appLogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger = appLogger.Logger
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	if !cfg.IsProduction() {
		if err := runMigrations(ctx, cfg, slogger); err != nil {
			slogger.Error("failed to run migrations", slog.String("error", err.Error()))
			// Don't exit in development, just warn
		}
	}

	server := setupHTTPServer(cfg, deps, appLogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	database       *db.Database
	redisClient    *redis.Client
	redisCache     ports.CacheRepository
	asynqClient    *asynq.Client
	asynqInspector *asynq.Inspector

	palletService   *services.PalletService
	itemService     *services.ItemService
	insightsService *services.InsightsService

	palletHandler    *handlers.PalletHandler
	itemHandler      *handlers.ItemHandler
	expenseHandler   *handlers.ExpenseHandler
	dashboardHandler *handlers.DashboardHandler
	exportHandler    *handlers.ExportHandler
	healthHandler    *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.database != nil {
		d.database.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	slogger.Info("connecting to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Name),
	)

	database, err := db.NewDatabase(ctx, &db.Config{
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		User:               cfg.Database.User,
		Password:           cfg.Database.Password,
		Database:           cfg.Database.Name,
		SSLMode:            cfg.Database.SSLMode,
		MaxConnections:     cfg.Database.MaxConnections,
		MinConnections:     cfg.Database.MinConnections,
		MaxConnLifetime:    cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:    cfg.Database.MaxConnIdleTime,
		HealthCheckPeriod:  cfg.Database.HealthCheckPeriod,
		ConnectTimeout:     cfg.Database.ConnectTimeout,
		EnableQueryLogging: cfg.Database.EnableQueryLogging,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	deps.database = database

	slogger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Repositories
	palletRepo := db.NewPalletRepository(database, slogger)
	itemRepo := db.NewItemRepository(database, slogger)
	expenseRepo := db.NewExpenseRepository(database, slogger)

	// Services
	allocSvc := services.NewAllocationService(palletRepo, itemRepo, slogger)
	limiter := services.NewTierLimiter(services.TierLimits{
		MaxPallets: cfg.Limits.MaxPallets,
		MaxItems:   cfg.Limits.MaxItems,
	}, palletRepo, itemRepo)

	deps.palletService = services.NewPalletService(
		palletRepo, itemRepo, expenseRepo, allocSvc, limiter, deps.redisCache, slogger)
	deps.itemService = services.NewItemService(
		itemRepo, palletRepo, allocSvc, limiter, analytics.DefaultFeeSchedule(), deps.redisCache, slogger)
	deps.insightsService = services.NewInsightsService(
		palletRepo, itemRepo, expenseRepo, deps.redisCache, cfg.Analytics.StaleThresholdDays, slogger)

	// Handlers
	deps.palletHandler = handlers.NewPalletHandler(deps.palletService, slogger)
	deps.itemHandler = handlers.NewItemHandler(deps.itemService, slogger)
	deps.expenseHandler = handlers.NewExpenseHandler(expenseRepo, deps.redisCache, slogger)
	deps.dashboardHandler = handlers.NewDashboardHandler(deps.insightsService, slogger)
	deps.exportHandler = handlers.NewExportHandler(deps.itemService, deps.redisCache, slogger)
	deps.healthHandler = handlers.NewHealthHandler(database, redisClient, deps.asynqInspector, cfg, slogger)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, appLogger *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	registerRoutes(mux, deps)

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux
	handler = middleware.SecureHeaders(handler)
	handler = middleware.Compression(handler)
	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}
	handler = middleware.Recovery(appLogger.Logger)(handler)
	handler = middleware.Logger(appLogger)(handler)
	handler = middleware.RequestID(handler)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(appLogger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)

	// Pallet endpoints
	mux.HandleFunc("GET "+apiV1+"/pallets", deps.palletHandler.ListPallets)
	mux.HandleFunc("GET "+apiV1+"/pallets/{id}", deps.palletHandler.GetPallet)
	mux.HandleFunc("POST "+apiV1+"/pallets", deps.palletHandler.CreatePallet)
	mux.HandleFunc("PUT "+apiV1+"/pallets/{id}", deps.palletHandler.UpdatePallet)
	mux.HandleFunc("DELETE "+apiV1+"/pallets/{id}", deps.palletHandler.DeletePallet)
	mux.HandleFunc("GET "+apiV1+"/pallets/{id}/profit", deps.palletHandler.GetPalletProfit)
	mux.HandleFunc("GET "+apiV1+"/pallets/{id}/expenses", deps.expenseHandler.ListPalletExpenses)

	// Item endpoints
	mux.HandleFunc("GET "+apiV1+"/items", deps.itemHandler.ListItems)
	mux.HandleFunc("GET "+apiV1+"/items/{id}", deps.itemHandler.GetItem)
	mux.HandleFunc("POST "+apiV1+"/items", deps.itemHandler.CreateItem)
	mux.HandleFunc("PUT "+apiV1+"/items/{id}", deps.itemHandler.UpdateItem)
	mux.HandleFunc("DELETE "+apiV1+"/items/{id}", deps.itemHandler.DeleteItem)
	mux.HandleFunc("POST "+apiV1+"/items/{id}/sold", deps.itemHandler.MarkItemSold)
	mux.HandleFunc("POST "+apiV1+"/items/{id}/move", deps.itemHandler.MoveItem)

	// Expense endpoints
	mux.HandleFunc("GET "+apiV1+"/expenses", deps.expenseHandler.ListExpenses)
	mux.HandleFunc("POST "+apiV1+"/expenses", deps.expenseHandler.CreateExpense)
	mux.HandleFunc("DELETE "+apiV1+"/expenses/{id}", deps.expenseHandler.DeleteExpense)

	// Dashboard endpoints
	mux.HandleFunc("GET "+apiV1+"/dashboard/insights", deps.dashboardHandler.GetInsights)
	mux.HandleFunc("GET "+apiV1+"/dashboard/empty-state", deps.dashboardHandler.GetEmptyState)
	mux.HandleFunc("GET "+apiV1+"/dashboard/summary", deps.dashboardHandler.GetSummary)

	// Export endpoints
	mux.HandleFunc("GET "+apiV1+"/export/excel", deps.exportHandler.ExportExcel)
	mux.HandleFunc("GET "+apiV1+"/export/json", deps.exportHandler.ExportJSON)
}

func runMigrations(ctx context.Context, cfg *config.Config, slogger *slog.Logger) error {
	slogger.Info("running database migrations")

	migrationConfig := &db.MigrationConfig{
		DatabaseURL: cfg.GetDatabaseURL(),
		SourcePath:  cfg.Database.MigrationPath,
	}

	return db.RunMigrationsWithRetry(ctx, migrationConfig, slogger, 3)
}
