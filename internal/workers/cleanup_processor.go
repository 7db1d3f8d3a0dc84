// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ammerola/palletflow/internal/adapters/db"
	"github.com/ammerola/palletflow/internal/pkg/config"
)

// CleanupProcessor handles cleanup tasks
type CleanupProcessor struct {
	db     *db.Database
	config *config.Config
	logger *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(db *db.Database, config *config.Config, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		db:     db,
		config: config,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupOldData purges soft-deleted rows past the retention window.
// Items go first so pallet deletes never trip the foreign key.
func (p *CleanupProcessor) CleanupOldData(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().Add(-p.config.Analytics.CleanupRetention)

	p.logger.InfoContext(ctx, "purging soft-deleted rows",
		slog.Time("cutoff", cutoff))

	var totalDeleted int64
	for _, table := range []string{"items", "pallets"} {
		query := fmt.Sprintf(
			`DELETE FROM %s WHERE deleted_at IS NOT NULL AND deleted_at < $1`, table)

		result, err := p.db.Exec(ctx, query, cutoff)
		if err != nil {
			return fmt.Errorf("failed to purge %s: %w", table, err)
		}

		p.logger.InfoContext(ctx, "table purged",
			slog.String("table", table),
			slog.Int64("rows_deleted", result.RowsAffected()))
		totalDeleted += result.RowsAffected()
	}

	p.logger.InfoContext(ctx, "cleanup completed",
		slog.Int64("total_rows_deleted", totalDeleted))

	return nil
}
