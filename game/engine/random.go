package engine

import (
	"math/rand/v2"
	"time"
)

// RandomSource supplies tile colors. IntN returns a value in [0, n).
type RandomSource interface {
	IntN(n int) int
}

// NewRandomSource returns a seeded PCG source. The same seed always produces
// the same boards.
func NewRandomSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewTimeSource returns a source seeded from the wall clock.
func NewTimeSource() RandomSource {
	return NewRandomSource(uint64(time.Now().UnixNano()))
}

// FixedSource replays a fixed sequence of values, wrapping around at the end.
// It is meant for tests and reproducible demos.
type FixedSource struct {
	values []int
	pos    int
}

// NewFixedSource creates a FixedSource. With no values it always returns 0.
func NewFixedSource(values ...int) *FixedSource {
	return &FixedSource{values: values}
}

// IntN returns the next scripted value reduced modulo n
func (s *FixedSource) IntN(n int) int {
	if len(s.values) == 0 || n <= 0 {
		return 0
	}
	v := s.values[s.pos%len(s.values)]
	s.pos++
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
