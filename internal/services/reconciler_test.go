package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fittrack/backend/domain"
	"github.com/fittrack/backend/internal/services"
	activityUC "github.com/fittrack/backend/usecase/activity"
)

// memActivityStore is an in-memory stand-in for the activity table. Its
// Complete and MarkMissingBefore mirror the conditional-update semantics of
// the Postgres repository.
type memActivityStore struct {
	mu         sync.Mutex
	activities map[string]*domain.Activity
	nextID     int
	sweepCalls int

	sweepErr     error
	sweepEntered chan struct{}
	sweepRelease chan struct{}
}

func newMemActivityStore() *memActivityStore {
	return &memActivityStore{activities: map[string]*domain.Activity{}}
}

func (s *memActivityStore) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	activity.ID = time.Now().Format("20060102") + "-" + string(rune('a'+s.nextID))
	clone := *activity
	s.activities[activity.ID] = &clone
	return activity, nil
}

func (s *memActivityStore) GetByID(ctx context.Context, ownerID, id string) (*domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	activity, ok := s.activities[id]
	if !ok || activity.OwnerID != ownerID {
		return nil, domain.ErrActivityNotFound
	}
	clone := *activity
	return &clone, nil
}

func (s *memActivityStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Activity
	for _, activity := range s.activities {
		if activity.OwnerID == ownerID {
			out = append(out, *activity)
		}
	}
	return out, nil
}

func (s *memActivityStore) Complete(ctx context.Context, ownerID, id string) (*domain.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	activity, ok := s.activities[id]
	if !ok || activity.OwnerID != ownerID {
		return nil, domain.ErrActivityNotFound
	}
	if !activity.Status.CanTransition(domain.StatusCompleted) {
		return nil, domain.ErrActivityCompleted
	}
	activity.Status = domain.StatusCompleted
	clone := *activity
	return &clone, nil
}

func (s *memActivityStore) MarkMissingBefore(ctx context.Context, cutoff domain.Date) (int64, error) {
	if s.sweepEntered != nil {
		s.sweepEntered <- struct{}{}
		<-s.sweepRelease
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepCalls++
	if s.sweepErr != nil {
		return 0, s.sweepErr
	}
	var updated int64
	for _, activity := range s.activities {
		if activity.Status == domain.StatusIncomplete && activity.DueDate.Before(cutoff) {
			activity.Status = domain.StatusMissing
			updated++
		}
	}
	return updated, nil
}

func pin(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed.Add(8 * time.Hour)
}

func newReconciler(store *memActivityStore) *services.StatusReconciler {
	return services.NewStatusReconciler(store, nil, nil, services.ReconcilerConfig{})
}

func TestSweepMarksOverdueIncomplete(t *testing.T) {
	store := newMemActivityStore()
	uc := activityUC.New(store, nil)
	uc.Now = func() time.Time { return pin(t, "2026-09-01") }

	created, err := uc.Create(context.Background(), "user-1", activityUC.CreateInput{Label: "Run", DueDate: "2026-09-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Two days later the untouched activity is past due.
	r := newReconciler(store)
	r.Now = func() time.Time { return pin(t, "2026-09-03") }

	if err := r.RunSweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	got, err := store.GetByID(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.StatusMissing {
		t.Fatalf("status = %s, want missing", got.Status)
	}

	// Late completion is still allowed after the sweep.
	completed, err := uc.Complete(context.Background(), "user-1", created.ID)
	if err != nil {
		t.Fatalf("late complete: %v", err)
	}
	if completed.Status != domain.StatusCompleted {
		t.Fatalf("status = %s, want completed", completed.Status)
	}
}

func TestSweepLeavesDueTodayAlone(t *testing.T) {
	store := newMemActivityStore()
	uc := activityUC.New(store, nil)
	uc.Now = func() time.Time { return pin(t, "2026-09-01") }

	created, err := uc.Create(context.Background(), "user-1", activityUC.CreateInput{Label: "Swim", DueDate: "2026-09-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	r := newReconciler(store)
	r.Now = func() time.Time { return pin(t, "2026-09-01") }

	if err := r.RunSweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	got, _ := store.GetByID(context.Background(), "user-1", created.ID)
	if got.Status != domain.StatusIncomplete {
		t.Fatalf("due-today activity moved to %s, want incomplete", got.Status)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	store := newMemActivityStore()
	uc := activityUC.New(store, nil)
	uc.Now = func() time.Time { return pin(t, "2026-09-01") }

	if _, err := uc.Create(context.Background(), "user-1", activityUC.CreateInput{Label: "Run", DueDate: "2026-09-01"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	r := newReconciler(store)
	r.Now = func() time.Time { return pin(t, "2026-09-03") }

	if err := r.RunSweep(context.Background()); err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	first := snapshot(store)

	if err := r.RunSweep(context.Background()); err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	second := snapshot(store)

	if store.sweepCalls != 2 {
		t.Fatalf("sweep calls = %d, want 2", store.sweepCalls)
	}
	for id, status := range first {
		if second[id] != status {
			t.Fatalf("activity %s changed from %s to %s on a no-op sweep", id, status, second[id])
		}
	}
}

func TestSweepNeverRevertsCompleted(t *testing.T) {
	store := newMemActivityStore()
	uc := activityUC.New(store, nil)
	uc.Now = func() time.Time { return pin(t, "2026-09-01") }

	created, err := uc.Create(context.Background(), "user-1", activityUC.CreateInput{Label: "Run", DueDate: "2026-09-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := uc.Complete(context.Background(), "user-1", created.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	r := newReconciler(store)
	r.Now = func() time.Time { return pin(t, "2026-09-10") }
	if err := r.RunSweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	got, _ := store.GetByID(context.Background(), "user-1", created.ID)
	if got.Status != domain.StatusCompleted {
		t.Fatalf("completed activity reverted to %s", got.Status)
	}
}

func TestSweepPropagatesStoreError(t *testing.T) {
	store := newMemActivityStore()
	store.sweepErr = errors.New("connection refused")

	r := newReconciler(store)
	if err := r.RunSweep(context.Background()); err == nil {
		t.Fatal("expected store error to surface to the scheduler wrapper")
	}
}

func TestSweepSingleFlight(t *testing.T) {
	store := newMemActivityStore()
	store.sweepEntered = make(chan struct{})
	store.sweepRelease = make(chan struct{})

	r := newReconciler(store)

	done := make(chan error, 1)
	go func() {
		done <- r.RunSweep(context.Background())
	}()

	// Wait until the first sweep is inside the store call, then trigger a
	// second one: it must be skipped, not queued.
	<-store.sweepEntered
	if err := r.RunSweep(context.Background()); err != nil {
		t.Fatalf("overlapping sweep: %v", err)
	}

	close(store.sweepRelease)
	if err := <-done; err != nil {
		t.Fatalf("first sweep: %v", err)
	}

	if store.sweepCalls != 1 {
		t.Fatalf("sweep calls = %d, want 1", store.sweepCalls)
	}
}

func snapshot(store *memActivityStore) map[string]domain.Status {
	store.mu.Lock()
	defer store.mu.Unlock()
	out := make(map[string]domain.Status, len(store.activities))
	for id, activity := range store.activities {
		out[id] = activity.Status
	}
	return out
}
