package usecase

import (
	"context"
	"log/slog"
	"time"
)

// PurgeWorker periodically deletes revocations whose tokens have expired.
type PurgeWorker struct {
	revocations RevocationUseCase
	interval    time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

// NewPurgeWorker creates a PurgeWorker that runs every interval.
func NewPurgeWorker(revocations RevocationUseCase, interval time.Duration, logger *slog.Logger) *PurgeWorker {
	return &PurgeWorker{
		revocations: revocations,
		interval:    interval,
		logger:      logger,
		now:         time.Now,
	}
}

// Start runs the purge loop until ctx is cancelled and then returns ctx.Err().
// A failed purge is logged and retried on the next tick. A non-positive interval
// disables purging and Start only waits for ctx.
func (w *PurgeWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		w.logger.Info("revoked token purge worker disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	w.logger.Info("starting revoked token purge worker", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopping revoked token purge worker")
			return ctx.Err()
		case <-ticker.C:
			w.purge(ctx)
		}
	}
}

func (w *PurgeWorker) purge(ctx context.Context) {
	deleted, err := w.revocations.PurgeExpired(ctx, w.now())
	if err != nil {
		w.logger.Error("failed to purge revoked tokens", slog.Any("error", err))
		return
	}
	if deleted > 0 {
		w.logger.Info("purged revoked tokens", slog.Int64("count", deleted))
	}
}
