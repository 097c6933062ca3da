package qprogress

import (
	"fmt"
	"math"
)

const (
	UnknownEstimate    = "Unknown ± ∞"
	NoProgressEstimate = "∞ ± ∞ (Heisenberg is uncertain)"

	// jokeChance is how often an estimate gives up on time units altogether.
	jokeChance = 0.05
	jokeMax    = 42
)

var jokeUnits = []string{
	"light years",
	"eons",
	"quantum cycles",
	"galactic rotations",
	"CPU cycles",
}

/*
Estimate guesses how long is left until the counter reaches Total(). The
rate is measured from the first observation and is then scrambled by noise
proportional to the uncertainty level, and the answer comes with an even
wider confidence band.

Before the first observation, or while the counter is at zero, the answer is
UnknownEstimate. If the counter is no further than at the first observation
the answer is NoProgressEstimate.
*/
func (qs *QuantumState) Estimate() string {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	if len(qs.history) == 0 || qs.counter <= 0 {
		return UnknownEstimate
	}

	progress := qs.counter - qs.history[0]
	if progress <= 0 {
		return NoProgressEstimate
	}

	elapsed := qs.clock().Sub(qs.startTime).Seconds()
	rate := elapsed / float64(progress)

	u := float64(qs.uncertainty)
	noise := uniform(qs.rng.Float64(), 1-u, 1+3*u)
	adjustedRate := rate * noise

	central := float64(qs.total-qs.counter) * adjustedRate
	low := math.Max(1, central*(1-u))
	high := central * (1 + 2*u)

	if qs.rng.Float64() < jokeChance {
		qs.metrics.recordEstimate(true)
		return fmt.Sprintf(
			"%d %s ± uncertainty principle",
			qs.rng.IntN(jokeMax)+1,
			jokeUnits[qs.rng.IntN(len(jokeUnits))],
		)
	}

	qs.metrics.recordEstimate(false)
	return fmt.Sprintf(
		"%s (probably between %s - %s)",
		formatSeconds(central),
		formatSeconds(low),
		formatSeconds(high),
	)
}

// uniform maps a sample in [0, 1) onto [lo, hi).
func uniform(sample, lo, hi float64) float64 {
	return lo + (hi-lo)*sample
}

// formatSeconds picks the coarsest unit that keeps the number readable.
func formatSeconds(seconds float64) string {
	switch {
	case seconds < 60:
		return fmt.Sprintf("%d seconds", int(seconds))
	case seconds < 3600:
		return fmt.Sprintf("%d minutes", int(seconds/60))
	default:
		return fmt.Sprintf("%.1f hours", seconds/3600)
	}
}
