package qprogress

import (
	"sync"
	"time"
)

/*
Entanglement is the link shared by two entangled QuantumStates.

Neither side owns it: each state holds the same handle and asks it for its
peer, so either state may be dropped or decohered independently. Once
decohered the handle no longer resolves a peer for anyone, which keeps the
relation mutual at all times.

Every perturbation that travels across the link is recorded in a ledger, in
the order it happened, so the history of the pair can be inspected after the
fact. OnStateChange runs with the link locked and must not call back into it.
*/
type Entanglement struct {
	CreatedAt     time.Time
	LastModified  time.Time
	OnStateChange func(change StateChange)

	mu          sync.Mutex
	a, b        *QuantumState
	active      bool
	stateLedger []StateChange
}

/*
StateChange is an immutable record of one perturbation applied to the peer
of an advancing state.
*/
type StateChange struct {
	Timestamp time.Time
	Steps     int // Steps the source advanced by
	Delta     int // Change requested on the peer, +Steps or -Steps
	Before    int // Peer counter before the change
	After     int // Peer counter after clamping
	Sequence  uint64
}

func newEntanglement(a, b *QuantumState) *Entanglement {
	now := time.Now()
	return &Entanglement{
		CreatedAt:    now,
		LastModified: now,
		a:            a,
		b:            b,
		active:       true,
		stateLedger:  make([]StateChange, 0),
	}
}

// other returns the peer of qs. The caller must hold e.mu.
func (e *Entanglement) other(qs *QuantumState) *QuantumState {
	if !e.active {
		return nil
	}

	switch qs {
	case e.a:
		return e.b
	case e.b:
		return e.a
	}
	return nil
}

// Other returns the peer of qs, or nil once the link is broken.
func (e *Entanglement) Other(qs *QuantumState) *QuantumState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.other(qs)
}

// Active reports whether the link still joins its two states.
func (e *Entanglement) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// record appends a change to the ledger. The caller must hold e.mu.
func (e *Entanglement) record(change StateChange) {
	change.Timestamp = time.Now()
	change.Sequence = uint64(len(e.stateLedger))
	e.stateLedger = append(e.stateLedger, change)
	e.LastModified = change.Timestamp

	if e.OnStateChange != nil {
		e.OnStateChange(change)
	}
}

/*
GetStateHistory returns all recorded perturbations from the given sequence
number onward.
*/
func (e *Entanglement) GetStateHistory(sinceSequence uint64) []StateChange {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sinceSequence >= uint64(len(e.stateLedger)) {
		return []StateChange{}
	}

	history := make([]StateChange, len(e.stateLedger)-int(sinceSequence))
	copy(history, e.stateLedger[sinceSequence:])
	return history
}

/*
Decohere breaks the link on both sides. States that have since been
entangled elsewhere keep their newer link.
*/
func (e *Entanglement) Decohere() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.active {
		return
	}
	e.active = false
	e.LastModified = time.Now()

	for _, qs := range []*QuantumState{e.a, e.b} {
		qs.mu.Lock()
		if qs.entanglement == e {
			qs.entanglement = nil
		}
		qs.mu.Unlock()
	}
}
