package services

import (
	"math/rand/v2"
	"time"

	"delivertrack/internal/core/domain/model/kernel"
)

// DefaultStepSpan is the width of the uniform range each coordinate moves by per step:
// a sample is displaced by a value in [-DefaultStepSpan/2, DefaultStepSpan/2) degrees
// on each axis, roughly ±55 m of latitude.
const DefaultStepSpan = 0.001

// RandomWalk stands in for a real GPS feed. Each step perturbs the previous sample by a
// uniformly random delta; it knows nothing about addresses or roads.
//
// RandomWalk is not safe for concurrent use; every simulated partner owns its own.
//
// Example:
//
//	walk := services.NewRandomWalk(rand.New(rand.NewPCG(1, 2)), services.DefaultStepSpan)
//	next, err := walk.Next(current, time.Now())
type RandomWalk struct {
	rnd  *rand.Rand
	span float64
}

// NewRandomWalk creates a walk drawing from rnd. A nil rnd uses a randomly seeded source,
// and a non-positive span falls back to DefaultStepSpan.
func NewRandomWalk(rnd *rand.Rand, span float64) *RandomWalk {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // simulation only
	}
	if span <= 0 {
		span = DefaultStepSpan
	}
	return &RandomWalk{rnd: rnd, span: span}
}

// Span returns the width of the per-axis displacement range.
func (w *RandomWalk) Span() float64 {
	return w.span
}

// Next returns prev displaced by a random step and stamped with now.
func (w *RandomWalk) Next(prev kernel.Location, now time.Time) (kernel.Location, error) {
	dLat := (w.rnd.Float64() - 0.5) * w.span
	dLng := (w.rnd.Float64() - 0.5) * w.span
	return prev.Moved(dLat, dLng, now)
}
