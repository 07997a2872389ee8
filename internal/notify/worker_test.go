package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
)

// recordingSender captures delivered events and can be told to fail.
type recordingSender struct {
	mu        sync.Mutex
	delivered []domain.StatusChange
	attempts  int
	fail      error
	done      chan struct{}
}

func newRecordingSender(fail error) *recordingSender {
	return &recordingSender{fail: fail, done: make(chan struct{}, 16)}
}

func (s *recordingSender) Send(_ context.Context, ev domain.StatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts++
	if s.fail != nil {
		s.done <- struct{}{}
		return s.fail
	}
	s.delivered = append(s.delivered, ev)
	s.done <- struct{}{}
	return nil
}

func (s *recordingSender) Delivered() []domain.StatusChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.StatusChange(nil), s.delivered...)
}

func (s *recordingSender) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fastRetry keeps the backoff out of test wall time.
func fastRetry(retries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries:    retries,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
		BackoffFactor: 2,
	}
}

func waitFor(t *testing.T, ch <-chan struct{}, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		select {
		case <-ch:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for send attempt %d", i+1)
		}
	}
}

func TestWorker_DeliversQueuedEvent(t *testing.T) {
	q := NewChanQueue(4)
	sender := newRecordingSender(nil)
	w := NewWorker(q, sender, fastRetry(3), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	ev := testEvent()
	require.NoError(t, q.Enqueue(context.Background(), ev))

	waitFor(t, sender.done, 1)
	cancel()

	delivered := sender.Delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, ev, delivered[0])
}

func TestWorker_DeadLettersAfterExhaustedRetries(t *testing.T) {
	q := NewChanQueue(4)
	sender := newRecordingSender(errors.New("smtp unreachable"))
	w := NewWorker(q, sender, fastRetry(3), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	ev := testEvent()
	require.NoError(t, q.Enqueue(context.Background(), ev))

	waitFor(t, sender.done, 3)

	select {
	case dead := <-q.DeadLetters():
		assert.Equal(t, ev, dead)
	case <-time.After(5 * time.Second):
		t.Fatal("event was never dead-lettered")
	}
	cancel()

	assert.Equal(t, 3, sender.Attempts())
}

func TestWorker_KeepsRunningAfterFailure(t *testing.T) {
	q := NewChanQueue(4)
	sender := newRecordingSender(errors.New("down"))
	w := NewWorker(q, sender, fastRetry(1), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	first := testEvent()
	first.OrderCode = "ORD-fail"
	require.NoError(t, q.Enqueue(context.Background(), first))
	waitFor(t, sender.done, 1)

	// Flip the sender to healthy; the next event must go through.
	sender.mu.Lock()
	sender.fail = nil
	sender.mu.Unlock()

	second := testEvent()
	second.OrderCode = "ORD-ok"
	require.NoError(t, q.Enqueue(context.Background(), second))
	waitFor(t, sender.done, 1)
	cancel()

	delivered := sender.Delivered()
	require.Len(t, delivered, 1)
	assert.Equal(t, "ORD-ok", delivered[0].OrderCode)
}

func TestWorker_StopsOnContextCancel(t *testing.T) {
	q := NewChanQueue(4)
	w := NewWorker(q, newRecordingSender(nil), fastRetry(1), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(stopped)
	}()

	cancel()

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
