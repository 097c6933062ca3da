package qprogress

// UncertaintyLevel defines how uncertain a time estimate is allowed to be.
type UncertaintyLevel float64

// CollapseFactor bounds how far a single observation may move the counter,
// relative to the total number of steps.
type CollapseFactor float64

const (
	MinUncertainty UncertaintyLevel = 0.0
	MaxUncertainty UncertaintyLevel = 1.0

	DefaultUncertainty    UncertaintyLevel = 0.8
	DefaultCollapseFactor CollapseFactor   = 0.2
)

func (u UncertaintyLevel) valid() bool {
	return u >= MinUncertainty && u <= MaxUncertainty
}

func (c CollapseFactor) valid() bool {
	return c >= 0 && c <= 1
}

// maxStep is the largest magnitude a collapse can move a counter of the given total.
func (c CollapseFactor) maxStep(total int) int {
	return int(float64(total) * float64(c))
}

// clamp keeps v inside [lo, hi].
func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
