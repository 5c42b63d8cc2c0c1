package repository

import (
	"context"

	"github.com/fittrack/backend/domain"
)

// ActivityRepository is the store boundary for the activity lifecycle.
// Every operation is scoped to the owning user; an id owned by someone
// else behaves exactly like a missing id.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	GetByID(ctx context.Context, ownerID, id string) (*domain.Activity, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Activity, error)

	// Complete performs a single conditional update (id + owner + status not
	// yet completed) and returns the updated row. It reports
	// domain.ErrActivityCompleted when the row exists but is terminal, and
	// domain.ErrActivityNotFound otherwise.
	Complete(ctx context.Context, ownerID, id string) (*domain.Activity, error)

	// MarkMissingBefore bulk-advances every incomplete activity due strictly
	// before the cutoff date to missing, returning the number of rows moved.
	MarkMissingBefore(ctx context.Context, cutoff domain.Date) (int64, error)
}
