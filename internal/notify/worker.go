package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
	"github.com/jpcaldeira/travel-desk/backend/internal/metrics"
)

// Worker drains a Queue and delivers each event through a Sender, retrying
// with exponential backoff. Events that exhaust their retries are
// dead-lettered. One Worker per process is enough; Redis BRPOP distributes
// work when several processes share a queue.
type Worker struct {
	queue  Queue
	sender Sender
	retry  RetryPolicy
	logger *slog.Logger
}

// NewWorker builds a Worker. A zero RetryPolicy falls back to
// DefaultRetryPolicy; a nil logger falls back to slog.Default.
func NewWorker(queue Queue, sender Sender, retry RetryPolicy, logger *slog.Logger) *Worker {
	if retry == (RetryPolicy{}) {
		retry = DefaultRetryPolicy()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{queue: queue, sender: sender, retry: retry, logger: logger}
}

// Run consumes events until ctx is canceled. It never returns an error:
// every failure is retried, dead-lettered, or logged.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("notification worker started")
	for {
		if ctx.Err() != nil {
			w.logger.Info("notification worker stopped")
			return
		}

		ev, ok, err := w.queue.Next(ctx)
		if err != nil {
			w.logger.Error("notification queue read failed", "error", err)
			sleepCtx(ctx, time.Second)
			continue
		}
		if !ok {
			continue
		}

		w.deliver(ctx, ev)
	}
}

// deliver attempts the send with retries; exhausted events go to the
// dead-letter store.
func (w *Worker) deliver(ctx context.Context, ev domain.StatusChange) {
	attempts := w.retry.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		err := w.sender.Send(ctx, ev)
		if err == nil {
			metrics.IncNotification("delivered")
			return
		}

		metrics.IncNotification("failed")
		w.logger.Warn("notification delivery failed",
			"public_id", ev.PublicID,
			"status", ev.NewStatus,
			"attempt", attempt,
			"error", err,
		)

		if attempt < attempts {
			sleepCtx(ctx, w.retry.NextDelay(attempt))
		}
	}

	metrics.IncNotification("dead_letter")
	if err := w.queue.DeadLetter(ctx, ev); err != nil {
		w.logger.Error("failed to dead-letter notification",
			"public_id", ev.PublicID,
			"error", err,
		)
	}
}

// sleepCtx sleeps for d or until ctx is canceled, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
