package metrics

import (
	"context"

	"go.uber.org/zap"

	"github.com/fittrack/backend/domain"
	"github.com/fittrack/backend/repository"
)

const (
	weeklyWindowDays = 7
	topLabelLimit    = 5
)

// UseCase assembles the dashboard report. It only reads the activity store
// and consumes the same status vocabulary the lifecycle service produces.
type UseCase struct {
	metrics repository.MetricsRepository
	logger  *zap.Logger
}

func New(metrics repository.MetricsRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		metrics: metrics,
		logger:  logger,
	}
}

func (uc *UseCase) Report(ctx context.Context, ownerID string) (*domain.MetricsReport, error) {
	overall, err := uc.metrics.Overall(ctx, ownerID)
	if err != nil {
		return nil, storeError(err)
	}

	weekly, err := uc.metrics.Daily(ctx, ownerID, weeklyWindowDays)
	if err != nil {
		return nil, storeError(err)
	}

	labels, err := uc.metrics.TopLabels(ctx, ownerID, topLabelLimit)
	if err != nil {
		return nil, storeError(err)
	}

	return &domain.MetricsReport{
		Overall:   *overall,
		Weekly:    weekly,
		TopLabels: labels,
	}, nil
}

func storeError(err error) error {
	return domain.WrapError(domain.ErrCodeUnavailable, "metrics store unavailable", err)
}
