package fake

import (
	"math"
	"math/rand/v2"
)

// A draw above this many standard deviations reverses the red noise walk.
const RED_NOISE_FLIP_SIGMA = 2.8

// User supplied red noise level is scaled by this to get a per sample step.
const RED_NOISE_STEP_SCALE = 0.0005

// Independent random streams derived from the one seed.
const (
	STREAM_RESOLVE uint64 = 1 // Random period and DM.
	STREAM_SYNTH   uint64 = 2 // Everything drawn while generating samples.
)

// NoiseSource is a random number stream.  Draws happen in simulated
// time order, so a given seed always produces the same output.
type NoiseSource struct {
	rng *rand.Rand
}

func NewNoiseSource(seed int64, stream uint64) *NoiseSource {
	return &NoiseSource{
		rng: rand.New(rand.NewPCG(uint64(seed), stream)), //nolint:gosec // Simulation, not crypto
	}
}

// Gauss returns a standard normal deviate: mean 0, variance 1.
func (n *NoiseSource) Gauss() float64 {
	return n.rng.NormFloat64()
}

// Flat returns a uniform deviate in [lo, hi).
func (n *NoiseSource) Flat(lo float64, hi float64) float64 {
	return lo + (hi-lo)*n.rng.Float64()
}

/*------------------------------------------------------------------
 *
 * Name:	RedNoise
 *
 * Purpose:	Slow, bounded baseline wander shared by every channel
 *		of a sample.
 *
 * Description:	A random walk with a fixed step size.  The direction
 *		reverses on a large Gaussian draw, and is forced back
 *		toward the middle whenever the next step would leave
 *		the band [lo, hi].  Turning before the edge, rather
 *		than once the sum has reached it, is deliberate: the
 *		sum never overshoots the band by a step.
 *
 *------------------------------------------------------------------*/

type RedNoise struct {
	step float64
	sum  float64
	lo   float64
	hi   float64
}

// NewRedNoise makes a walk confined to [lo, hi].
// A step of zero disables the walk entirely.
func NewRedNoise(step float64, lo float64, hi float64) *RedNoise {
	// With steps up to a quarter of the band, turning around at one edge
	// can never carry the walk past the other.
	var maxStep = (hi - lo) / 4
	if math.Abs(step) > maxStep {
		step = math.Copysign(maxStep, step)
	}

	return &RedNoise{step: step, lo: lo, hi: hi}
}

func (r *RedNoise) Enabled() bool {
	return r.step != 0
}

// Sum is the current baseline offset.
func (r *RedNoise) Sum() float64 {
	return r.sum
}

// Next advances the walk by one sample using Gaussian draw g and returns the new baseline.
func (r *RedNoise) Next(g float64) float64 {
	if !r.Enabled() {
		return r.sum
	}

	if g > RED_NOISE_FLIP_SIGMA {
		r.step = -r.step
	}

	var size = math.Abs(r.step)

	if r.sum+size > r.hi {
		r.step = -size
	} else if r.sum-size < r.lo {
		r.step = size
	}

	r.sum += r.step

	return r.sum
}
