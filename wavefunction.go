// wavefunction.go
package qprogress

import (
	"math/rand/v2"
)

const (
	forward  = 1
	backward = -1

	// initialBias is the chance of moving forward before there is enough
	// history to establish a trend.
	initialBias = 0.7
	// momentumBias shifts the odds towards continuing the most recent trend.
	momentumBias = 0.1
)

/*
WaveFunction holds the possible directions a collapse can take. Observation
forces it to choose exactly one of them.
*/
type WaveFunction struct {
	States []State
}

/*
NewDirectionWaveFunction builds the superposition of a forward and a backward
step, weighting forward with the given probability.
*/
func NewDirectionWaveFunction(pForward float64) *WaveFunction {
	return &WaveFunction{
		States: []State{
			{Value: forward, Probability: pForward},
			{Value: backward, Probability: 1 - pForward},
		},
	}
}

/*
directionFor selects the wave function for the given observation history.
With fewer than three recorded observations progress usually moves forward.
After that the last recorded delta biases the direction: an upward trend
continues upward 60% of the time, anything else continues downward 60% of
the time.
*/
func directionFor(history []int) *WaveFunction {
	if len(history) < 3 {
		return NewDirectionWaveFunction(initialBias)
	}

	trend := history[len(history)-1] - history[len(history)-2]
	sign := backward
	if trend > 0 {
		sign = forward
	}

	return NewDirectionWaveFunction(0.5 + momentumBias*float64(sign))
}

/*
Collapse draws a single uniform sample from r and returns the value of the
state it lands on.
*/
func (wf *WaveFunction) Collapse(r *rand.Rand) int {
	if len(wf.States) == 0 {
		return 0
	}

	sample := r.Float64()

	var cumulativeProb float64
	for _, state := range wf.States {
		cumulativeProb += state.Probability
		if sample < cumulativeProb {
			return state.Value
		}
	}

	// Fallback collapse
	return wf.States[len(wf.States)-1].Value
}
