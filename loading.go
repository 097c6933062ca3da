package qprogress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

/*
Loading shows message next to a restless quantum-style bar for duration, or
until ctx is done, redrawing every configured delay. The bar is cleared at
the end and replaced by a line saying the state has collapsed.
*/
func Loading(ctx context.Context, w io.Writer, message string, duration time.Duration, width int, opts ...Option) error {
	opts = append(append([]Option{WithOutput(w)}, opts...), WithLabel(message))

	qs, err := NewQuantumState(DefaultTotal, opts...)
	if err != nil {
		return fmt.Errorf("loading: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()

	var loopErr error
	for {
		qs.Advance(1)
		qs.Render(width, true)

		if err := sleep(ctx, qs.config.Delay); err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				loopErr = err
			}
			break
		}
	}

	qs.Clear()
	fmt.Fprintf(w, "%s: state collapsed\n", message)

	return loopErr
}
