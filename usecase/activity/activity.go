package activity

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fittrack/backend/domain"
	"github.com/fittrack/backend/repository"
)

// UseCase is the single authority for creating activities and applying
// user-driven status transitions. The reconciler is the only other writer,
// and both consult the transition table in the domain package.
type UseCase struct {
	activities repository.ActivityRepository
	logger     *zap.Logger

	// Now is injectable so tests can pin the calendar.
	Now func() time.Time
}

func New(activities repository.ActivityRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		activities: activities,
		logger:     logger,
		Now:        time.Now,
	}
}

// CreateInput carries the raw user payload for a new activity.
type CreateInput struct {
	Label   string
	DueDate string
}

// Create validates and persists a new activity with status incomplete.
// The due date comparison is by calendar date, not timestamp, so a request
// near a timezone boundary is not falsely rejected.
func (uc *UseCase) Create(ctx context.Context, ownerID string, in CreateInput) (*domain.Activity, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "label is required")
	}
	if strings.TrimSpace(in.DueDate) == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "due_date is required")
	}

	due, err := domain.ParseDate(in.DueDate)
	if err != nil {
		return nil, domain.NewError(domain.ErrCodeInvalid, "due_date must be a valid YYYY-MM-DD date")
	}

	today := domain.NewDate(uc.Now())
	if due.Before(today) {
		return nil, domain.NewError(domain.ErrCodeInvalid, "due_date cannot be in the past")
	}

	created, err := uc.activities.Create(ctx, &domain.Activity{
		OwnerID: ownerID,
		Label:   label,
		DueDate: due,
		Status:  domain.StatusIncomplete,
	})
	if err != nil {
		uc.logger.Error("activity create failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, storeError(err)
	}
	return created, nil
}

// List returns every activity of the owner ordered by due date ascending,
// ties broken by status priority. The ordering is recomputed on each call.
func (uc *UseCase) List(ctx context.Context, ownerID string) ([]domain.Activity, error) {
	activities, err := uc.activities.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeError(err)
	}
	domain.SortActivities(activities)
	return activities, nil
}

// Complete transitions an owned activity to completed. Completing an
// activity the reconciler already marked missing is allowed (late
// completion); repeating the call on a completed activity reports the
// conflict every time. An id owned by someone else is indistinguishable
// from a missing id.
func (uc *UseCase) Complete(ctx context.Context, ownerID, id string) (*domain.Activity, error) {
	if id == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "activity id is required")
	}

	completed, err := uc.activities.Complete(ctx, ownerID, id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrActivityNotFound), errors.Is(err, domain.ErrActivityCompleted):
			return nil, err
		default:
			uc.logger.Error("activity complete failed",
				zap.String("owner_id", ownerID),
				zap.String("activity_id", id),
				zap.Error(err))
			return nil, storeError(err)
		}
	}
	return completed, nil
}

// storeError resolves raw store failures into the unavailable classification
// so no driver error leaks past the service boundary.
func storeError(err error) error {
	var dErr *domain.Error
	if errors.As(err, &dErr) {
		return err
	}
	return domain.WrapError(domain.ErrCodeUnavailable, "activity store unavailable", err)
}
