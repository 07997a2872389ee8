package notify

import (
	"context"
	"errors"
	"time"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
)

// ErrQueueFull is returned by ChanQueue.Enqueue when the buffer is full.
// The caller logs and drops the event; the status change itself has already
// committed and must not be affected.
var ErrQueueFull = errors.New("notification queue full")

// ChanQueue is an in-memory buffered-channel Queue, used when no Redis
// address is configured. Events do not survive a restart; dead-lettered
// events are kept on a second channel that an operator can drain.
type ChanQueue struct {
	events      chan domain.StatusChange
	dead        chan domain.StatusChange
	pollTimeout time.Duration
}

// NewChanQueue builds a ChanQueue with the given buffer size.
func NewChanQueue(size int) *ChanQueue {
	if size <= 0 {
		size = 256
	}
	return &ChanQueue{
		events:      make(chan domain.StatusChange, size),
		dead:        make(chan domain.StatusChange, size),
		pollTimeout: 2 * time.Second,
	}
}

// Enqueue adds the event without blocking. Returns ErrQueueFull when the
// buffer has no room.
func (q *ChanQueue) Enqueue(_ context.Context, ev domain.StatusChange) error {
	select {
	case q.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Next waits up to the poll timeout for an event.
func (q *ChanQueue) Next(ctx context.Context) (domain.StatusChange, bool, error) {
	timer := time.NewTimer(q.pollTimeout)
	defer timer.Stop()

	select {
	case ev := <-q.events:
		return ev, true, nil
	case <-timer.C:
		return domain.StatusChange{}, false, nil
	case <-ctx.Done():
		return domain.StatusChange{}, false, nil
	}
}

// DeadLetter parks the event on the dead channel; when that is also full the
// event is dropped, which is acceptable for an in-memory queue.
func (q *ChanQueue) DeadLetter(_ context.Context, ev domain.StatusChange) error {
	select {
	case q.dead <- ev:
	default:
	}
	return nil
}

// DeadLetters exposes the parked events for draining.
func (q *ChanQueue) DeadLetters() <-chan domain.StatusChange {
	return q.dead
}
