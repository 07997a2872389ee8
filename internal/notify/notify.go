// Package notify implements the asynchronous notification pipeline.
// Status change events are queued when a transition commits and delivered
// at least once by a background worker with retries, fully decoupled from
// the request that triggered them. A delivery failure never rolls back a
// status change and never blocks a caller.
package notify

import (
	"context"

	"github.com/jpcaldeira/travel-desk/backend/internal/domain"
)

// Queue is the transport between the transition engine and the worker.
// Two implementations exist: RedisQueue (durable, shared between processes)
// and ChanQueue (in-memory fallback for single-process deployments).
type Queue interface {
	// Enqueue adds an event for later delivery. Must be cheap; the caller is
	// on the hot path of a status change.
	Enqueue(ctx context.Context, ev domain.StatusChange) error

	// Next blocks briefly waiting for the next event. ok is false when no
	// event arrived within the poll window (or the context ended); the worker
	// simply loops again.
	Next(ctx context.Context) (ev domain.StatusChange, ok bool, err error)

	// DeadLetter parks an event whose delivery retries are exhausted.
	DeadLetter(ctx context.Context, ev domain.StatusChange) error
}

// Sender delivers a single event to the recipient. Implementations decide
// the mechanics (SMTP, log line); rendering stays minimal.
type Sender interface {
	Send(ctx context.Context, ev domain.StatusChange) error
}
