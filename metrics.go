package qprogress

import (
	"sort"
	"sync"
	"time"
)

/*
Metrics counts what happened to a QuantumState over its lifetime: how often
it was observed, which way the collapses went and how far, and how often it
disturbed or was disturbed by its peer.
*/
type Metrics struct {
	mu sync.RWMutex

	Observations      int64
	ForwardCollapses  int64
	BackwardCollapses int64
	Renders           int64
	Fluctuations      int64 // Empty cells shown as a faint glyph
	PercentGlitches   int64 // Renders whose displayed percent was perturbed
	Estimates         int64
	JokeEstimates     int64
	Advances          int64
	PeerPerturbations int64
	LastObservation   time.Time

	AverageStep float64
	P95Step     int
	MaxStep     int

	stepWindow []int
	windowSize int
}

func newMetrics() *Metrics {
	return &Metrics{
		stepWindow: make([]int, 0, 256),
		windowSize: 256, // Keep the last 256 collapse magnitudes
	}
}

func (m *Metrics) recordCollapse(direction, magnitude int, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Observations++
	m.LastObservation = at

	if direction == forward {
		m.ForwardCollapses++
	} else {
		m.BackwardCollapses++
	}

	m.updateStepPercentiles(magnitude)
}

func (m *Metrics) updateStepPercentiles(magnitude int) {
	m.AverageStep = (m.AverageStep*float64(m.Observations-1) + float64(magnitude)) / float64(m.Observations)
	m.MaxStep = max(m.MaxStep, magnitude)

	m.stepWindow = append(m.stepWindow, magnitude)
	if len(m.stepWindow) > m.windowSize {
		m.stepWindow = m.stepWindow[1:]
	}

	sorted := make([]int, len(m.stepWindow))
	copy(sorted, m.stepWindow)
	sort.Ints(sorted)

	p95Index := int(float64(len(sorted)) * 0.95)
	if p95Index >= len(sorted) {
		p95Index = len(sorted) - 1
	}
	m.P95Step = sorted[p95Index]
}

func (m *Metrics) recordRender(fluctuations int, glitched bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Renders++
	m.Fluctuations += int64(fluctuations)
	if glitched {
		m.PercentGlitches++
	}
}

func (m *Metrics) recordEstimate(joke bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Estimates++
	if joke {
		m.JokeEstimates++
	}
}

func (m *Metrics) recordAdvance(perturbedPeer bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Advances++
	if perturbedPeer {
		m.PeerPerturbations++
	}
}

// ExportMetrics returns a point-in-time copy of the counters keyed by name.
func (m *Metrics) ExportMetrics() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"observations":       m.Observations,
		"forward_collapses":  m.ForwardCollapses,
		"backward_collapses": m.BackwardCollapses,
		"renders":            m.Renders,
		"fluctuations":       m.Fluctuations,
		"percent_glitches":   m.PercentGlitches,
		"estimates":          m.Estimates,
		"joke_estimates":     m.JokeEstimates,
		"advances":           m.Advances,
		"peer_perturbations": m.PeerPerturbations,
		"average_step":       m.AverageStep,
		"p95_step":           m.P95Step,
		"max_step":           m.MaxStep,
	}
}
