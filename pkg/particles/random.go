package particles

import "math/rand"

// RandomSource supplies the uniform random numbers used when spawning particles.
type RandomSource interface {
	// RandomFloat returns a uniform value between lo and hi.
	RandomFloat(lo, hi float64) float64
	// RandomInt returns a uniform value in [0, n).
	RandomInt(n int) int
}

// DefaultRandom draws from the process-wide math/rand generator.
var DefaultRandom RandomSource = globalRandom{}

type globalRandom struct{}

func (globalRandom) RandomFloat(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

func (globalRandom) RandomInt(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.Intn(n)
}

type seededRandom struct {
	r *rand.Rand
}

// NewRandomSource returns a deterministic source, mostly useful in tests and
// for replaying an effect exactly.
func NewRandomSource(seed int64) RandomSource {
	return &seededRandom{r: rand.New(rand.NewSource(seed))}
}

func (s *seededRandom) RandomFloat(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

func (s *seededRandom) RandomInt(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n)
}
