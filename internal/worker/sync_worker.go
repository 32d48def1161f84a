// Package worker runs the recurring sync on a schedule.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/billcycle/internal/domain"
	"github.com/iho/billcycle/internal/infrastructure/metrics"
	"github.com/iho/billcycle/internal/usecase"
)

// ErrSyncInProgress is returned by RunOnce when another process holds the
// sync lock.
var ErrSyncInProgress = errors.New("recurring sync already in progress")

const (
	lockKey       = "recurring-sync"
	unlockTimeout = 5 * time.Second
)

// Syncer runs one recurring sync pass.
type Syncer interface {
	SyncRecurring(ctx context.Context, now time.Time) (*usecase.SyncReport, error)
}

// CompletionNotifier receives the summary of every finished run.
type CompletionNotifier interface {
	SyncCompleted(ctx context.Context, event domain.SyncCompleted) error
}

// Config for SyncWorker.
type Config struct {
	Syncer       Syncer
	Lock         usecase.JobLock
	Notifier     CompletionNotifier
	Logger       zerolog.Logger
	Metrics      *metrics.Metrics
	Interval     time.Duration // Time between runs
	LockTTL      time.Duration // Upper bound on a single run
	RunOnStartup bool
}

// SyncWorker serializes sync runs across processes with a job lock.
type SyncWorker struct {
	syncer       Syncer
	lock         usecase.JobLock
	notifier     CompletionNotifier
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	interval     time.Duration
	lockTTL      time.Duration
	runOnStartup bool
	now          func() time.Time
}

// NewSyncWorker creates a new SyncWorker.
func NewSyncWorker(cfg Config) *SyncWorker {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 10 * time.Minute
	}

	return &SyncWorker{
		syncer:       cfg.Syncer,
		lock:         cfg.Lock,
		notifier:     cfg.Notifier,
		logger:       cfg.Logger.With().Str("component", "sync_worker").Logger(),
		metrics:      cfg.Metrics,
		interval:     cfg.Interval,
		lockTTL:      cfg.LockTTL,
		runOnStartup: cfg.RunOnStartup,
		now:          time.Now,
	}
}

// Start runs the sync every interval until ctx is cancelled.
func (w *SyncWorker) Start(ctx context.Context) error {
	w.logger.Info().
		Dur("interval", w.interval).
		Bool("run_on_startup", w.runOnStartup).
		Msg("sync worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if w.runOnStartup {
		w.tick(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("sync worker shutting down")
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *SyncWorker) tick(ctx context.Context) {
	_, err := w.RunOnce(ctx, w.now())
	switch {
	case err == nil:
	case errors.Is(err, ErrSyncInProgress):
		w.logger.Info().Msg("sync skipped: another run holds the lock")
	case errors.Is(err, context.Canceled):
	default:
		w.logger.Error().Err(err).Msg("sync run failed")
	}
}

// RunOnce performs a single locked sync pass as of now. The report is
// returned even when some blueprints failed.
func (w *SyncWorker) RunOnce(ctx context.Context, now time.Time) (*usecase.SyncReport, error) {
	if w.lock != nil {
		token, ok, err := w.lock.TryLock(ctx, lockKey, w.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire sync lock: %w", err)
		}
		if !ok {
			if w.metrics != nil {
				w.metrics.SyncRuns.WithLabelValues("locked").Inc()
			}
			return nil, ErrSyncInProgress
		}

		defer func() {
			unlockCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), unlockTimeout)
			defer cancel()

			if err := w.lock.Unlock(unlockCtx, lockKey, token); err != nil {
				w.logger.Warn().Err(err).Msg("failed to release sync lock")
			}
		}()
	}

	report, err := w.syncer.SyncRecurring(ctx, now)
	if report != nil {
		w.notifyCompleted(ctx, report)
	}

	return report, err
}

func (w *SyncWorker) notifyCompleted(ctx context.Context, report *usecase.SyncReport) {
	if w.notifier == nil {
		return
	}

	event := domain.SyncCompleted{
		StartedAt:         report.StartedAt,
		FinishedAt:        report.FinishedAt,
		BlueprintsScanned: report.BlueprintsScanned,
		PostingsCreated:   report.PostingsCreated,
		ChargesSkipped:    len(report.ChargesSkipped),
		Failures:          report.Failures,
	}

	if err := w.notifier.SyncCompleted(ctx, event); err != nil {
		w.logger.Error().Err(err).Msg("failed to deliver sync summary")
	}
}
