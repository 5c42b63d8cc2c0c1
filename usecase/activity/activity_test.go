package activity_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fittrack/backend/domain"
	activityUC "github.com/fittrack/backend/usecase/activity"
)

// fakeActivityRepo implements repository.ActivityRepository for testing.
type fakeActivityRepo struct {
	createFn            func(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	getByIDFn           func(ctx context.Context, ownerID, id string) (*domain.Activity, error)
	listByOwnerFn       func(ctx context.Context, ownerID string) ([]domain.Activity, error)
	completeFn          func(ctx context.Context, ownerID, id string) (*domain.Activity, error)
	markMissingBeforeFn func(ctx context.Context, cutoff domain.Date) (int64, error)
}

func (f *fakeActivityRepo) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	return f.createFn(ctx, activity)
}
func (f *fakeActivityRepo) GetByID(ctx context.Context, ownerID, id string) (*domain.Activity, error) {
	return f.getByIDFn(ctx, ownerID, id)
}
func (f *fakeActivityRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Activity, error) {
	return f.listByOwnerFn(ctx, ownerID)
}
func (f *fakeActivityRepo) Complete(ctx context.Context, ownerID, id string) (*domain.Activity, error) {
	return f.completeFn(ctx, ownerID, id)
}
func (f *fakeActivityRepo) MarkMissingBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	return f.markMissingBeforeFn(ctx, cutoff)
}

var today = time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

func mustDate(t *testing.T, value string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(value)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", value, err)
	}
	return d
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name     string
		input    activityUC.CreateInput
		wantCode domain.ErrorCode
	}{
		{"due today", activityUC.CreateInput{Label: "Morning run", DueDate: "2026-09-01"}, ""},
		{"due tomorrow", activityUC.CreateInput{Label: "Swim", DueDate: "2026-09-02"}, ""},
		{"label needs trimming", activityUC.CreateInput{Label: "  Yoga  ", DueDate: "2026-09-03"}, ""},
		{"empty label", activityUC.CreateInput{Label: "", DueDate: "2026-09-02"}, domain.ErrCodeInvalid},
		{"whitespace label", activityUC.CreateInput{Label: "   ", DueDate: "2026-09-02"}, domain.ErrCodeInvalid},
		{"missing due date", activityUC.CreateInput{Label: "Swim"}, domain.ErrCodeInvalid},
		{"unparseable due date", activityUC.CreateInput{Label: "Swim", DueDate: "tomorrow"}, domain.ErrCodeInvalid},
		{"due yesterday", activityUC.CreateInput{Label: "Swim", DueDate: "2026-08-31"}, domain.ErrCodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var persisted *domain.Activity
			repo := &fakeActivityRepo{
				createFn: func(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
					activity.ID = "act-1"
					persisted = activity
					return activity, nil
				},
			}
			uc := activityUC.New(repo, nil)
			uc.Now = func() time.Time { return today }

			got, err := uc.Create(context.Background(), "user-1", tt.input)

			if tt.wantCode != "" {
				if err == nil {
					t.Fatalf("expected %s error, got nil", tt.wantCode)
				}
				if !domain.IsDomainError(err, tt.wantCode) {
					t.Fatalf("expected %s error, got %v", tt.wantCode, err)
				}
				if persisted != nil {
					t.Fatal("validation failure must not reach the store")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != domain.StatusIncomplete {
				t.Errorf("new activity status = %s, want incomplete", got.Status)
			}
			if got.OwnerID != "user-1" {
				t.Errorf("owner = %s, want user-1", got.OwnerID)
			}
			if got.DueDate.String() != mustDate(t, tt.input.DueDate).String() {
				t.Errorf("due date = %s, want %s", got.DueDate, tt.input.DueDate)
			}
		})
	}
}

func TestCreateTrimsLabel(t *testing.T) {
	repo := &fakeActivityRepo{
		createFn: func(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
			return activity, nil
		},
	}
	uc := activityUC.New(repo, nil)
	uc.Now = func() time.Time { return today }

	got, err := uc.Create(context.Background(), "user-1", activityUC.CreateInput{Label: "  Stretching  ", DueDate: "2026-09-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Label != "Stretching" {
		t.Errorf("label = %q, want trimmed", got.Label)
	}
}

func TestCreatePastDateRejectedForEveryOwner(t *testing.T) {
	repo := &fakeActivityRepo{
		createFn: func(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
			t.Fatal("store must not be reached")
			return nil, nil
		},
	}
	uc := activityUC.New(repo, nil)
	uc.Now = func() time.Time { return today }

	for _, owner := range []string{"user-1", "user-2", "admin"} {
		_, err := uc.Create(context.Background(), owner, activityUC.CreateInput{Label: "Run", DueDate: "2026-08-31"})
		if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
			t.Errorf("owner %s: expected validation error, got %v", owner, err)
		}
	}
}

func TestCreateStoreFailure(t *testing.T) {
	repo := &fakeActivityRepo{
		createFn: func(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	uc := activityUC.New(repo, nil)
	uc.Now = func() time.Time { return today }

	_, err := uc.Create(context.Background(), "user-1", activityUC.CreateInput{Label: "Run", DueDate: "2026-09-01"})
	if !domain.IsDomainError(err, domain.ErrCodeUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestListAppliesDisplayOrdering(t *testing.T) {
	d := mustDate(t, "2026-09-05")
	dPlusOne := mustDate(t, "2026-09-06")

	repo := &fakeActivityRepo{
		listByOwnerFn: func(ctx context.Context, ownerID string) ([]domain.Activity, error) {
			// Store order: due date only, statuses interleaved.
			return []domain.Activity{
				{ID: "completed-d", DueDate: d, Status: domain.StatusCompleted},
				{ID: "missing-d", DueDate: d, Status: domain.StatusMissing},
				{ID: "incomplete-d1", DueDate: dPlusOne, Status: domain.StatusIncomplete},
			}, nil
		},
	}
	uc := activityUC.New(repo, nil)

	got, err := uc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"missing-d", "completed-d", "incomplete-d1"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %s, want %s", i, got[i].ID, id)
		}
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name     string
		repoErr  error
		wantCode domain.ErrorCode
	}{
		{"success", nil, ""},
		{"not found", domain.ErrActivityNotFound, domain.ErrCodeNotFound},
		{"foreign activity indistinguishable", domain.ErrActivityNotFound, domain.ErrCodeNotFound},
		{"already completed", domain.ErrActivityCompleted, domain.ErrCodeConflict},
		{"store down", errors.New("connection reset"), domain.ErrCodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeActivityRepo{
				completeFn: func(ctx context.Context, ownerID, id string) (*domain.Activity, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return &domain.Activity{ID: id, OwnerID: ownerID, Status: domain.StatusCompleted}, nil
				},
			}
			uc := activityUC.New(repo, nil)

			got, err := uc.Complete(context.Background(), "user-1", "act-1")

			if tt.wantCode != "" {
				if !domain.IsDomainError(err, tt.wantCode) {
					t.Fatalf("expected %s error, got %v", tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != domain.StatusCompleted {
				t.Errorf("status = %s, want completed", got.Status)
			}
		})
	}
}

func TestCompleteConflictRepeats(t *testing.T) {
	repo := &fakeActivityRepo{
		completeFn: func(ctx context.Context, ownerID, id string) (*domain.Activity, error) {
			return nil, domain.ErrActivityCompleted
		},
	}
	uc := activityUC.New(repo, nil)

	// The conflict is reported on every call, never swallowed.
	for i := 0; i < 3; i++ {
		_, err := uc.Complete(context.Background(), "user-1", "act-1")
		if !domain.IsDomainError(err, domain.ErrCodeConflict) {
			t.Fatalf("call %d: expected conflict, got %v", i+1, err)
		}
	}
}

func TestCompleteMissingID(t *testing.T) {
	uc := activityUC.New(&fakeActivityRepo{}, nil)
	_, err := uc.Complete(context.Background(), "user-1", "")
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
