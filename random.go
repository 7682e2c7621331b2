package brume

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// f32Mantissa converts the high bits of the xorshift state to a float32
// in [0,1). It is the maximum mantissa value plus one (2^24).
const f32Mantissa = float32(1 << 24)

const defaultSeed uint32 = 555555555

// Randf32 is a small xorshift generator producing float32 values in [0,1).
// Every particle system owns its own instance, so systems stay independent
// of each other and tests can seed them deterministically.
type Randf32 struct {
	state uint32
}

func NewRandf32() *Randf32 {
	return &Randf32{state: defaultSeed}
}

// NewRandf32Seeded creates a generator with an explicit seed.
// A zero seed would lock xorshift at zero forever, so it maps to the default.
func NewRandf32Seeded(seed uint32) *Randf32 {
	if seed == 0 {
		seed = defaultSeed
	}
	return &Randf32{state: seed}
}

// Next returns the next value in [0,1).
func (r *Randf32) Next() float32 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return float32(r.state>>8) / f32Mantissa
}

// InRange linearly maps the next value to [min, max).
func (r *Randf32) InRange(min, max float32) float32 {
	return (max-min)*r.Next() + min
}

// InVariance returns mean + variance*u for u uniform in [-1,1).
func (r *Randf32) InVariance(mv MVar) float32 {
	return mv.Mean + mv.Variance*(r.Next()*2.0-1.0)
}

// Vec3InVariance samples each component independently; components are
// not correlated.
func (r *Randf32) Vec3InVariance(mv *[3]MVar) mgl32.Vec3 {
	return mgl32.Vec3{
		r.InVariance(mv[0]),
		r.InVariance(mv[1]),
		r.InVariance(mv[2]),
	}
}

func (r *Randf32) Vec4InVariance(mv *[4]MVar) mgl32.Vec4 {
	return mgl32.Vec4{
		r.InVariance(mv[0]),
		r.InVariance(mv[1]),
		r.InVariance(mv[2]),
		r.InVariance(mv[3]),
	}
}

// QuatInVariance samples the four quaternion components independently and
// normalizes the result. A near-zero sample cannot be normalized and falls
// back to the identity rotation.
func (r *Randf32) QuatInVariance(mv *[4]MVar) mgl32.Quat {
	q := mgl32.Quat{
		W: r.InVariance(mv[0]),
		V: mgl32.Vec3{
			r.InVariance(mv[1]),
			r.InVariance(mv[2]),
			r.InVariance(mv[3]),
		},
	}
	if float64(q.Len()) < 1e-6 || math.IsNaN(float64(q.Len())) {
		return mgl32.QuatIdent()
	}
	return q.Normalize()
}
