package services

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fittrack/backend/domain"
	"github.com/fittrack/backend/internal/infrastructure/sweeplog"
	"github.com/fittrack/backend/repository"
)

// ReconcilerConfig controls the sweep schedule.
type ReconcilerConfig struct {
	// Schedule is a standard five-field cron expression. The default runs
	// once per day at midnight, a low-traffic hour.
	Schedule   string
	RunOnStart bool
	Timeout    time.Duration
}

// StatusReconciler keeps activity status consistent with the passage of
// time: each sweep bulk-advances every incomplete activity whose due date
// has passed to missing. It has no caller, so failures are logged and left
// for the next scheduled run; the sweep predicate is idempotent.
type StatusReconciler struct {
	activities repository.ActivityRepository
	journal    *sweeplog.Journal
	logger     *zap.Logger
	cron       *cron.Cron
	cfg        ReconcilerConfig

	// running serializes sweeps. A day-long interval makes overlap unlikely,
	// but a stuck run must not be doubled by the next trigger.
	running sync.Mutex

	// Now is injectable so tests can simulate later days without waiting.
	Now func() time.Time
}

func NewStatusReconciler(
	activities repository.ActivityRepository,
	journal *sweeplog.Journal,
	logger *zap.Logger,
	cfg ReconcilerConfig,
) *StatusReconciler {
	if cfg.Schedule == "" {
		cfg.Schedule = "0 0 * * *"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &StatusReconciler{
		activities: activities,
		journal:    journal,
		logger:     logger,
		cfg:        cfg,
		cron:       cron.New(),
		Now:        time.Now,
	}

	_, _ = r.cron.AddFunc(cfg.Schedule, func() {
		r.sweepWithTimeout()
	})

	return r
}

// Start launches the cron scheduler and, when configured, repairs any
// backlog accumulated while the process was down.
func (r *StatusReconciler) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.cron.Start()
	r.logger.Info("status reconciler started", zap.String("schedule", r.cfg.Schedule))

	if r.cfg.RunOnStart {
		go r.sweepWithTimeout()
	}
}

// Stop gracefully stops the scheduler, waiting for an in-flight sweep.
func (r *StatusReconciler) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("status reconciler stopped")
}

func (r *StatusReconciler) sweepWithTimeout() {
	ctx, cancel := context.WithTimeout(context.Background(), r.cfg.Timeout)
	defer cancel()
	if err := r.RunSweep(ctx); err != nil {
		r.logger.Error("status sweep failed", zap.Error(err))
	}
}

// RunSweep executes one sweep. "Today" is computed once per run as a
// calendar date, matching the date-only comparison used at creation time.
// A sweep starting while another is in flight is skipped.
func (r *StatusReconciler) RunSweep(ctx context.Context) error {
	if !r.running.TryLock() {
		r.logger.Warn("status sweep skipped, previous run still in flight")
		return nil
	}
	defer r.running.Unlock()

	started := r.Now()
	today := domain.NewDate(started)

	updated, err := r.activities.MarkMissingBefore(ctx, today)
	if err != nil {
		return err
	}

	r.logger.Info("status sweep finished",
		zap.String("cutoff", today.String()),
		zap.Int64("activities_marked_missing", updated))

	if r.journal != nil {
		entry := sweeplog.Entry{
			Cutoff:   today.String(),
			Updated:  updated,
			RanAt:    started,
			Duration: time.Since(started),
		}
		if err := r.journal.Record(entry); err != nil {
			r.logger.Warn("sweep journal write failed", zap.Error(err))
		}
	}
	return nil
}
