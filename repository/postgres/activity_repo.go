package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fittrack/backend/domain"
	"github.com/fittrack/backend/repository"
)

type activityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository returns a Postgres-backed implementation of ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) repository.ActivityRepository {
	return &activityRepository{pool: pool}
}

const activityColumns = `id, owner_id, label, due_date, status, created_at, updated_at`

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	if activity == nil {
		return nil, domain.ErrInvalidPayload
	}
	if activity.ID == "" {
		activity.ID = uuid.NewString()
	}
	if activity.Status == "" {
		activity.Status = domain.StatusIncomplete
	}

	const query = `
	INSERT INTO activities (id, owner_id, label, due_date, status)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		activity.ID,
		activity.OwnerID,
		activity.Label,
		activity.DueDate.Time(),
		activity.Status,
	).Scan(&activity.CreatedAt, &activity.UpdatedAt); err != nil {
		return nil, err
	}

	return activity, nil
}

func (r *activityRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.Activity, error) {
	const query = `
	SELECT ` + activityColumns + `
	FROM activities
	WHERE id = $1 AND owner_id = $2
	`
	row := r.pool.QueryRow(ctx, query, id, ownerID)
	return scanActivity(row)
}

func (r *activityRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Activity, error) {
	const query = `
	SELECT ` + activityColumns + `
	FROM activities
	WHERE owner_id = $1
	ORDER BY due_date ASC
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, *activity)
	}
	return activities, rows.Err()
}

// Complete is a single conditional write: the status guard lives in the
// predicate so a concurrent completion or reconciler sweep can never be
// lost to a stale read. The follow-up select only classifies a miss.
func (r *activityRepository) Complete(ctx context.Context, ownerID, id string) (*domain.Activity, error) {
	const query = `
	UPDATE activities
	SET status = $3, updated_at = NOW()
	WHERE id = $1 AND owner_id = $2 AND status <> $3
	RETURNING ` + activityColumns + `
	`
	row := r.pool.QueryRow(ctx, query, id, ownerID, domain.StatusCompleted)
	activity, err := scanActivity(row)
	if err == nil {
		return activity, nil
	}
	if !errors.Is(err, domain.ErrActivityNotFound) {
		return nil, err
	}

	existing, getErr := r.GetByID(ctx, ownerID, id)
	if getErr != nil {
		return nil, getErr
	}
	if existing.IsCompleted() {
		return nil, domain.ErrActivityCompleted
	}
	return nil, domain.ErrActivityNotFound
}

func (r *activityRepository) MarkMissingBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	const query = `
	UPDATE activities
	SET status = $1, updated_at = NOW()
	WHERE status = $2 AND due_date < $3
	`
	tag, err := r.pool.Exec(ctx, query, domain.StatusMissing, domain.StatusIncomplete, cutoff.Time())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanActivity(row scanner) (*domain.Activity, error) {
	var activity domain.Activity
	var due pgDate

	if err := row.Scan(
		&activity.ID,
		&activity.OwnerID,
		&activity.Label,
		&due,
		&activity.Status,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, err
	}

	activity.DueDate = due.date
	return &activity, nil
}
