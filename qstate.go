package qprogress

import (
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/theapemachine/errnie"
)

const (
	// peerCoupling is the chance an advance disturbs the entangled peer.
	peerCoupling = 0.7

	entangledNotice = "⚛️ Progress bars are now quantum entangled! ⚛️"
)

/*
QuantumState is a progress counter that refuses to sit still. Every
observation disturbs it, its time estimates are deliberately unreliable, and
when entangled with another QuantumState advancing one may push the other
around.

The counter always stays within [0, Total()], and the history of observed
values only ever grows.
*/
type QuantumState struct {
	mu sync.Mutex

	total          int
	counter        int
	collapseFactor CollapseFactor
	uncertainty    UncertaintyLevel
	history        []int
	startTime      time.Time
	entanglement   *Entanglement

	config  *Config
	rng     *rand.Rand
	out     io.Writer
	clock   func() time.Time
	painter *painter
	metrics *Metrics
}

/*
NewQuantumState creates a state of the given total number of steps, starting
at a random point in the first third of the range.
*/
func NewQuantumState(total int, opts ...Option) (*QuantumState, error) {
	s := newSettings(opts)
	s.config.Total = total

	if total <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTotal, total)
	}
	if !s.config.CollapseFactor.valid() {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidCollapseFactor, s.config.CollapseFactor)
	}
	if !s.config.Uncertainty.valid() {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidUncertainty, s.config.Uncertainty)
	}

	errnie.Info(
		"NewQuantumState - total %v, collapseFactor %v, uncertainty %v",
		total,
		s.config.CollapseFactor,
		s.config.Uncertainty,
	)

	return &QuantumState{
		total:          total,
		counter:        s.rng.IntN(total/3 + 1),
		collapseFactor: s.config.CollapseFactor,
		uncertainty:    s.config.Uncertainty,
		history:        make([]int, 0),
		startTime:      s.clock(),
		config:         s.config,
		rng:            s.rng,
		out:            s.out,
		clock:          s.clock,
		painter:        newPainter(s.out, s.config.Color, s.config.Label),
		metrics:        newMetrics(),
	}, nil
}

/*
Collapse observes the state, which disturbs it. The current counter is
recorded in the history, a direction is chosen from the recent trend, and the
counter moves by a random amount of at most Total() * collapse factor.
*/
func (qs *QuantumState) Collapse() {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	qs.collapse()
}

// collapse performs the observation. The caller must hold qs.mu.
func (qs *QuantumState) collapse() {
	qs.history = append(qs.history, qs.counter)

	direction := directionFor(qs.history).Collapse(qs.rng)
	magnitude := qs.rng.IntN(qs.collapseFactor.maxStep(qs.total) + 1)

	qs.counter = clamp(qs.counter+direction*magnitude, 0, qs.total)
	qs.metrics.recordCollapse(direction, magnitude, qs.clock())
}

/*
Advance moves the counter by steps, which may be negative. If the state is
entangled, the peer is moved by the same number of steps in a random
direction 70% of the time. Both updates happen before Advance returns, and
concurrent advances on either side of the pair are serialized.
*/
func (qs *QuantumState) Advance(steps int) {
	qs.mu.Lock()
	ent := qs.entanglement
	if ent == nil {
		qs.counter = clamp(qs.counter+steps, 0, qs.total)
		qs.mu.Unlock()
		qs.metrics.recordAdvance(false)
		return
	}
	qs.mu.Unlock()

	ent.mu.Lock()
	defer ent.mu.Unlock()

	qs.mu.Lock()
	qs.counter = clamp(qs.counter+steps, 0, qs.total)

	perturb := qs.rng.Float64() < peerCoupling
	delta := steps
	if perturb && qs.rng.Float64() < 0.5 {
		delta = -steps
	}
	qs.mu.Unlock()

	peer := ent.other(qs)
	if peer == nil || !perturb {
		qs.metrics.recordAdvance(false)
		return
	}

	peer.mu.Lock()
	before := peer.counter
	peer.counter = clamp(peer.counter+delta, 0, peer.total)
	after := peer.counter
	peer.mu.Unlock()

	ent.record(StateChange{
		Steps:  steps,
		Delta:  delta,
		Before: before,
		After:  after,
	})
	qs.metrics.recordAdvance(true)
}

/*
Entangle links qs and other so that advancing either may disturb the other.
Any link either of them had before is broken first. Entangling a state with
itself or with nil does nothing.
*/
func (qs *QuantumState) Entangle(other *QuantumState) {
	if other == nil || other == qs {
		return
	}

	qs.Decohere()
	other.Decohere()

	ent := newEntanglement(qs, other)

	qs.mu.Lock()
	qs.entanglement = ent
	qs.mu.Unlock()

	other.mu.Lock()
	other.entanglement = ent
	other.mu.Unlock()

	fmt.Fprintln(qs.out, entangledNotice)
	errnie.Info("Entangle - %p <-> %p", qs, other)
}

// Decohere breaks the current entanglement, if any, on both sides.
func (qs *QuantumState) Decohere() {
	qs.mu.Lock()
	ent := qs.entanglement
	qs.mu.Unlock()

	if ent == nil {
		return
	}

	ent.Decohere()
	errnie.Info("Decohere - %p", qs)
}

// Peer returns the entangled state, or nil.
func (qs *QuantumState) Peer() *QuantumState {
	qs.mu.Lock()
	ent := qs.entanglement
	qs.mu.Unlock()

	if ent == nil {
		return nil
	}
	return ent.Other(qs)
}

// Entanglement returns the shared link, or nil when the state is not entangled.
func (qs *QuantumState) Entanglement() *Entanglement {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	return qs.entanglement
}

func (qs *QuantumState) Counter() int {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	return qs.counter
}

func (qs *QuantumState) Total() int {
	return qs.total
}

func (qs *QuantumState) CollapseFactor() CollapseFactor {
	return qs.collapseFactor
}

func (qs *QuantumState) Uncertainty() UncertaintyLevel {
	return qs.uncertainty
}

// History returns a copy of every counter value recorded by an observation.
func (qs *QuantumState) History() []int {
	qs.mu.Lock()
	defer qs.mu.Unlock()

	history := make([]int, len(qs.history))
	copy(history, qs.history)
	return history
}

func (qs *QuantumState) Metrics() *Metrics {
	return qs.metrics
}

// Config returns a copy of the settings the state was built with.
func (qs *QuantumState) Config() Config {
	return *qs.config
}

// Dump renders the internal state for debugging.
func (qs *QuantumState) Dump() string {
	qs.mu.Lock()
	snapshot := struct {
		Total          int
		Counter        int
		CollapseFactor CollapseFactor
		Uncertainty    UncertaintyLevel
		History        []int
		StartTime      time.Time
		Entangled      bool
	}{
		Total:          qs.total,
		Counter:        qs.counter,
		CollapseFactor: qs.collapseFactor,
		Uncertainty:    qs.uncertainty,
		History:        append([]int(nil), qs.history...),
		StartTime:      qs.startTime,
		Entangled:      qs.entanglement != nil,
	}
	qs.mu.Unlock()

	return spew.Sdump(snapshot)
}
