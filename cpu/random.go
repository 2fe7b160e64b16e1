package cpu

import "math/rand"

// Random is the source of random bytes for CXNN.
type Random interface {
	// Byte returns a uniformly distributed byte.
	Byte() uint8
}

type globalRandom struct{}

func (globalRandom) Byte() uint8 {
	return uint8(rand.Intn(256))
}

// DefaultRandom returns a Random backed by the process wide math/rand source.
func DefaultRandom() Random {
	return globalRandom{}
}

type seededRandom struct {
	r *rand.Rand
}

func (s *seededRandom) Byte() uint8 {
	return uint8(s.r.Intn(256))
}

// NewSeededRandom returns a deterministic Random. Two sources with the
// same seed produce the same sequence.
func NewSeededRandom(seed int64) Random {
	return &seededRandom{rand.New(rand.NewSource(seed))}
}
