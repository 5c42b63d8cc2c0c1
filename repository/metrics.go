package repository

import (
	"context"

	"github.com/fittrack/backend/domain"
)

// MetricsRepository is a read-only aggregation view over the activity store.
type MetricsRepository interface {
	Overall(ctx context.Context, ownerID string) (*domain.OverallMetrics, error)
	Daily(ctx context.Context, ownerID string, days int) ([]domain.DailyMetric, error)
	TopLabels(ctx context.Context, ownerID string, limit int) ([]domain.LabelMetric, error)
}
