package engine

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/streamexec/internal/domain/script"
)

// Run is the consumer's handle on one stream submission: a lazily-pulled
// event sequence plus a terminal result future. The producer runs eagerly in
// the background; a consumer that never pulls events, or pulls only a prefix,
// does not block or alter the terminal result.
type Run struct {
	mu     sync.Mutex
	events []script.Event
	closed bool

	// wake holds at most one token; the producer deposits it when the queue
	// transitions and a consumer may be parked in Next.
	wake chan struct{}

	done   chan struct{}
	result script.Result
}

func newRun() *Run {
	return &Run{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Next blocks until the next event is available and returns it. The second
// return value is false once the run has finished and every queued event has
// been consumed.
func (r *Run) Next(ctx context.Context) (script.Event, bool, error) {
	for {
		r.mu.Lock()
		if len(r.events) > 0 {
			ev := r.events[0]
			r.events = r.events[1:]
			r.mu.Unlock()
			return ev, true, nil
		}
		if r.closed {
			r.mu.Unlock()
			return script.Event{}, false, nil
		}
		r.mu.Unlock()

		select {
		case <-ctx.Done():
			return script.Event{}, false, ctx.Err()
		case <-r.wake:
		}
	}
}

// Wait blocks until the run finishes and returns the terminal result. The
// result is resolved by the producer when the stream is exhausted,
// independent of event consumption.
func (r *Run) Wait(ctx context.Context) (script.Result, error) {
	select {
	case <-ctx.Done():
		return script.Result{}, ctx.Err()
	case <-r.done:
		return r.result, nil
	}
}

// push appends one event and wakes a parked consumer, if any.
func (r *Run) push(ev script.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	r.notify()
}

// finish signals end-of-events and resolves the terminal result.
func (r *Run) finish(result script.Result) {
	r.mu.Lock()
	r.closed = true
	r.result = result
	r.mu.Unlock()
	close(r.done)
	r.notify()
}

func (r *Run) notify() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}
