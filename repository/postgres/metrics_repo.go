package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fittrack/backend/domain"
	"github.com/fittrack/backend/repository"
)

type metricsRepository struct {
	pool *pgxpool.Pool
}

// NewMetricsRepository creates a read-only aggregation view over activities.
func NewMetricsRepository(pool *pgxpool.Pool) repository.MetricsRepository {
	return &metricsRepository{pool: pool}
}

func (r *metricsRepository) Overall(ctx context.Context, ownerID string) (*domain.OverallMetrics, error) {
	const query = `
	SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'completed') AS completed,
		COUNT(*) FILTER (WHERE status = 'missing') AS missing,
		COUNT(*) FILTER (WHERE status = 'incomplete') AS incomplete,
		COALESCE(ROUND(COUNT(*) FILTER (WHERE status = 'completed')::numeric / NULLIF(COUNT(*), 0) * 100, 1), 0) AS completion_rate
	FROM activities
	WHERE owner_id = $1
	`

	var metrics domain.OverallMetrics
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(
		&metrics.Total,
		&metrics.Completed,
		&metrics.Missing,
		&metrics.Incomplete,
		&metrics.CompletionRate,
	); err != nil {
		return nil, err
	}
	return &metrics, nil
}

func (r *metricsRepository) Daily(ctx context.Context, ownerID string, days int) ([]domain.DailyMetric, error) {
	if days <= 0 {
		days = 7
	}

	const query = `
	SELECT
		TO_CHAR(due_date, 'YYYY-MM-DD') AS day,
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'completed') AS completed
	FROM activities
	WHERE owner_id = $1
	  AND due_date >= CURRENT_DATE - $2::int
	GROUP BY due_date
	ORDER BY due_date DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var daily []domain.DailyMetric
	for rows.Next() {
		var m domain.DailyMetric
		if err := rows.Scan(&m.Day, &m.Total, &m.Completed); err != nil {
			return nil, err
		}
		daily = append(daily, m)
	}
	return daily, rows.Err()
}

func (r *metricsRepository) TopLabels(ctx context.Context, ownerID string, limit int) ([]domain.LabelMetric, error) {
	if limit <= 0 || limit > 20 {
		limit = 5
	}

	const query = `
	SELECT
		label,
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'completed') AS completed
	FROM activities
	WHERE owner_id = $1
	GROUP BY label
	ORDER BY total DESC
	LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []domain.LabelMetric
	for rows.Next() {
		var m domain.LabelMetric
		if err := rows.Scan(&m.Label, &m.Total, &m.Completed); err != nil {
			return nil, err
		}
		labels = append(labels, m)
	}
	return labels, rows.Err()
}
