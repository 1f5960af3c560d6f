package feed

import "hash/fnv"

// seededRand is a small deterministic generator derived from a seed
// string: an fnv64 hash feeding a linear congruential step. Identical
// seeds always produce identical sequences.
type seededRand struct {
	state uint64
}

func newSeededRand(seed string) *seededRand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	s := h.Sum64()
	if s == 0 {
		s = 1
	}
	return &seededRand{state: s}
}

func (r *seededRand) next() uint64 {
	r.state = r.state*6364136223846793005 + 1442695040888963407
	return r.state
}

// Intn returns a deterministic value in [0, n).
func (r *seededRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int((r.next() >> 33) % uint64(n))
}
