/*
Package qprogress draws terminal progress bars that behave like quantum
systems rather than like honest progress reports.

Looking at a bar changes it: every Render first collapses the state, moving
the counter a random distance in a direction biased by its recent trend.
Estimates of the time left are scrambled by an uncertainty level, and two
bars can be entangled so that advancing one disturbs the other.

	qs, err := qprogress.NewQuantumState(100, qprogress.WithCollapseFactor(0.3))
	if err != nil {
		return err
	}

	for range 10 {
		qs.Advance(1)
		qs.Render(50, true)
	}
	fmt.Println(" Estimated time:", qs.Estimate())

For a bar without bookkeeping, Track, Iterate and IterateSlice wrap a unit of
work, and Progress, UncertaintyEstimate and Loading drive a process-wide
default instance.
*/
package qprogress

// Version of the qprogress module.
const Version = "v0.1.0"
