// internal/workers/insights_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/ammerola/palletflow/internal/core/analytics"
	"github.com/ammerola/palletflow/internal/core/ports"
)

const (
	TypeRefreshInsights = "insights:refresh"
	TypeCleanupOldData  = "cleanup:old_data"
)

// InsightsProcessor warms the dashboard caches so the first request
// after a rotation rollover does not pay the full aggregation cost.
type InsightsProcessor struct {
	insights ports.InsightsService
	logger   *slog.Logger
}

// NewInsightsProcessor creates a new insights processor
func NewInsightsProcessor(insights ports.InsightsService, logger *slog.Logger) *InsightsProcessor {
	return &InsightsProcessor{
		insights: insights,
		logger:   logger.With(slog.String("processor", "insights")),
	}
}

// RefreshInsights rebuilds the insight cards and the period summaries.
// The service caches on read, so touching each read model is enough.
func (p *InsightsProcessor) RefreshInsights(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "refreshing dashboard insights")

	insights, err := p.insights.Insights(ctx)
	if err != nil {
		return fmt.Errorf("failed to refresh insights: %w", err)
	}

	periods := []analytics.Period{
		analytics.PeriodWeek,
		analytics.PeriodMonth,
		analytics.PeriodYear,
		analytics.PeriodAll,
	}
	for _, period := range periods {
		if _, err := p.insights.Summary(ctx, period); err != nil {
			return fmt.Errorf("failed to refresh %s summary: %w", period, err)
		}
	}

	p.logger.InfoContext(ctx, "dashboard insights refreshed",
		slog.Int("insight_count", len(insights)),
		slog.Int("periods_warmed", len(periods)))

	return nil
}
