package qprogress

import (
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/theapemachine/errnie"
)

/*
Tracker drives a QuantumState over the lifetime of a unit of work: every
Update advances and redraws it, and Close draws the final frame and ends the
line. Redraws in between are throttled by the configured minimum interval.

	tracker, err := qprogress.Track(len(files))
	if err != nil {
		return err
	}
	defer tracker.Close()

	for _, file := range files {
		process(file)
		tracker.Update(1)
	}
*/
type Tracker struct {
	mu      sync.Mutex
	state   *QuantumState
	limiter *RateLimiter
	closed  bool
}

// Track starts a Tracker over total steps.
func Track(total int, opts ...Option) (*Tracker, error) {
	state, err := NewQuantumState(total, opts...)
	if err != nil {
		return nil, fmt.Errorf("track: %w", err)
	}

	return &Tracker{
		state:   state,
		limiter: newRateLimiter(1, state.config.MinInterval, state.clock),
	}, nil
}

// State exposes the tracked QuantumState.
func (t *Tracker) State() *QuantumState {
	return t.state
}

// Update advances by steps and redraws unless a redraw happened too recently.
// Updates after Close are ignored.
func (t *Tracker) Update(steps int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	t.state.Advance(steps)
	if t.limiter.Limit() {
		return
	}
	t.render()
}

/*
Close draws the final frame and moves to the next line. Calling it more than
once has no further effect.
*/
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	t.render()
	_, err := fmt.Fprintln(t.state.out)
	return err
}

func (t *Tracker) render() {
	cfg := t.state.config
	t.state.Render(cfg.Width, cfg.QuantumStyle)
}

/*
Iterate wraps seq so that consuming it drives a Tracker of total steps, one
step per element. Stopping early still draws the final frame. If total is
not positive the elements are passed through without a bar.
*/
func Iterate[T any](seq iter.Seq[T], total int, opts ...Option) iter.Seq[T] {
	return func(yield func(T) bool) {
		tracker, err := Track(total, opts...)
		if err != nil {
			errnie.Info("Iterate - no progress bar: %v", err)
			for v := range seq {
				if !yield(v) {
					return
				}
			}
			return
		}
		defer tracker.Close()

		for v := range seq {
			if !yield(v) {
				return
			}
			tracker.Update(1)
		}
	}
}

// IterateSlice is Iterate over the elements of items, with len(items) steps.
func IterateSlice[T any](items []T, opts ...Option) iter.Seq[T] {
	return Iterate(slices.Values(items), len(items), opts...)
}
