package qprogress

import (
	"context"
	"fmt"
	"sync"
	"time"
)

/*
The default instance backs the free functions below, for callers that want a
bar without holding on to one. It is created on first use, lives for the
rest of the process and is never torn down. Library code should create and
pass its own QuantumState instead.
*/
var (
	defaultMu    sync.Mutex
	defaultState *QuantumState
)

// Default returns the process-wide instance, creating it on first use.
func Default() *QuantumState {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultState == nil {
		// DefaultTotal is positive and the default config is valid.
		defaultState, _ = NewQuantumState(DefaultTotal)
	}
	return defaultState
}

// SetDefault replaces the process-wide instance. A nil state means the next
// call to Default creates a fresh one.
func SetDefault(qs *QuantumState) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultState = qs
}

/*
Progress replaces the default instance with a new one of total steps and
animates it: one step and one frame every delay, until the bar shows 100%,
total frames have been drawn, or ctx is done.
*/
func Progress(ctx context.Context, total, width int, delay time.Duration, opts ...Option) error {
	qs, err := NewQuantumState(total, opts...)
	if err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	SetDefault(qs)

	defer fmt.Fprintln(qs.out)

	for frame := 0; frame < total; frame++ {
		qs.Advance(1)
		if qs.Render(width, qs.config.QuantumStyle) >= 100 {
			return nil
		}

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	return nil
}

// UncertaintyEstimate asks the default instance how long is left.
func UncertaintyEstimate() string {
	return Default().Estimate()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
