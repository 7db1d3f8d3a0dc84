// internal/workers/insights_processor_test.go
package workers_test

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ammerola/palletflow/internal/core/domain"
	"github.com/ammerola/palletflow/internal/workers"
	"github.com/ammerola/palletflow/test/helpers"
	"github.com/ammerola/palletflow/test/mocks"
)

func TestInsightsProcessor_RefreshInsights(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(service *mocks.MockInsightsService)
		expectedError bool
	}{
		{
			name: "warms_insights_and_all_period_summaries",
			setupMock: func(service *mocks.MockInsightsService) {
				service.EXPECT().
					Insights(gomock.Any()).
					Return([]domain.Insight{{ID: "roi", Type: domain.InsightSuccess}}, nil)
				service.EXPECT().
					Summary(gomock.Any(), gomock.Any()).
					Return(nil, nil).
					Times(4)
			},
		},
		{
			name: "insights_failure_fails_the_task",
			setupMock: func(service *mocks.MockInsightsService) {
				service.EXPECT().
					Insights(gomock.Any()).
					Return(nil, errors.New("snapshot unavailable"))
			},
			expectedError: true,
		},
		{
			name: "summary_failure_fails_the_task",
			setupMock: func(service *mocks.MockInsightsService) {
				service.EXPECT().
					Insights(gomock.Any()).
					Return(nil, nil)
				service.EXPECT().
					Summary(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("cache write failed"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := mocks.NewMockInsightsService(ctrl)
			tt.setupMock(service)

			processor := workers.NewInsightsProcessor(service, helpers.TestLogger())
			task := asynq.NewTask(workers.TypeRefreshInsights, nil)

			err := processor.RefreshInsights(context.Background(), task)

			if tt.expectedError {
				require.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
