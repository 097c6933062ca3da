package qprogress

/*
State represents a possible outcome of a measurement together with the
probability of the wave function collapsing onto it.
*/
type State struct {
	Value       int
	Probability float64
}
