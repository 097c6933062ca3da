package qprogress

import (
	"bytes"
	"math/rand/v2"
	"time"
)

// scriptedSource replays a fixed list of raw values, cycling when exhausted.
type scriptedSource struct {
	values []uint64
	next   int
}

func (s *scriptedSource) Uint64() uint64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

// draw encodes f so that rand.Rand.Float64 returns exactly f.
func draw(f float64) uint64 {
	return uint64(f * (1 << 53))
}

func scripted(samples ...float64) *rand.Rand {
	values := make([]uint64, len(samples))
	for i, f := range samples {
		values[i] = draw(f)
	}
	return rand.New(&scriptedSource{values: values})
}

// fakeClock is a settable clock for elapsed time measurements.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestState(total int, opts ...Option) (*QuantumState, *bytes.Buffer) {
	out := &bytes.Buffer{}
	opts = append([]Option{WithOutput(out), WithSeed(1, 2)}, opts...)

	qs, err := NewQuantumState(total, opts...)
	if err != nil {
		panic(err)
	}
	return qs, out
}
