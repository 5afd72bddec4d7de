package analysis

import (
	"math/rand"
	"sync"
)

// RandomSource supplies the cosmetic randomness used for confidence
// percentages and assignee selection. Decision logic never reads it.
type RandomSource interface {
	// Intn returns a value in [0, n). n is always positive.
	Intn(n int) int
}

type globalRandom struct{}

func (globalRandom) Intn(n int) int {
	return rand.Intn(n)
}

// SeededRandom is a RandomSource with a fixed seed, safe for concurrent use.
type SeededRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededRandom creates a reproducible RandomSource.
func NewSeededRandom(seed int64) *SeededRandom {
	return &SeededRandom{rng: rand.New(rand.NewSource(seed))}
}

// Intn implements RandomSource.
func (s *SeededRandom) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// inBand returns min plus a random offset in [0, width).
func inBand(src RandomSource, min, width int) int {
	if width <= 0 {
		return min
	}
	return min + src.Intn(width)
}
