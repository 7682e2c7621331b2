package brume

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// attractorG tunes the strength of attractor forces. Not the physical
// constant; chosen so that masses in the 1..100 range read well on screen.
const attractorG float32 = 1.0

// minAttractorDist floors the particle-attractor distance so the
// inverse-square term cannot blow up when a particle crosses the attractor.
const minAttractorDist float32 = 0.1

// Attractor is a point mass exerting inverse-square attraction on particles.
type Attractor struct {
	Pos  mgl32.Vec3
	Mass float32
}

// Fade modulates a particle's scale and alpha over its lifetime using a
// gween easing function. Ease receives (t, begin, change, duration); the
// system calls it with t = elapsed fraction of the particle's lifetime.
type Fade struct {
	Ease     ease.TweenFunc
	ScaleEnd float32 // scale multiplier at death, 1 = unchanged
	AlphaEnd float32 // alpha multiplier at death, 1 = unchanged
}

// Particle is one simulated unit. A slot whose particle has Life <= 0 is
// dead and eligible for reuse.
type Particle struct {
	Pos     mgl32.Vec3
	Vel     mgl32.Vec3
	Rot     mgl32.Quat
	Scale   float32
	Life    float32 // remaining lifetime in seconds
	MaxLife float32 // lifetime at spawn, for over-lifetime modulation
	Mass    float32
	Color   mgl32.Vec4
}

// deadParticle parks the slot far below the scene with zero scale so a
// stale record can never produce a visible instance.
func deadParticle() Particle {
	return Particle{
		Pos: mgl32.Vec3{0, -100, 0},
		Rot: mgl32.QuatIdent(),
	}
}

// Update integrates one semi-implicit Euler step: velocity advances by a
// half step of acceleration, then position by a full step of velocity.
// Acceleration combines the system gravity weighted by mass, any constant
// external forces divided by mass, and inverse-square attraction toward
// each attractor.
func (p *Particle) Update(delta float32, gravity mgl32.Vec3, forces []mgl32.Vec3, attractors []Attractor) {
	acc := gravity.Mul(p.Mass)

	if p.Mass > 0 {
		for _, f := range forces {
			acc = acc.Add(f.Mul(1.0 / p.Mass))
		}
	}
	for _, a := range attractors {
		toward := a.Pos.Sub(p.Pos)
		dist := toward.Len()
		if dist < minAttractorDist {
			dist = minAttractorDist
		}
		// G*M_a*m_p/d^2 toward the attractor, normalized by particle mass.
		acc = acc.Add(toward.Mul(attractorG * a.Mass / (dist * dist * dist)))
	}

	p.Vel = p.Vel.Add(acc.Mul(delta * 0.5))
	p.Pos = p.Pos.Add(p.Vel.Mul(delta))
}

// Instance projects the particle into its GPU record:
// model = translation * rotation * scale, normal = rotation only.
// Pure; no side effects.
func (p *Particle) Instance() ParticleInstance {
	rot := p.Rot.Mat4()
	model := mgl32.Translate3D(p.Pos.X(), p.Pos.Y(), p.Pos.Z()).
		Mul4(rot).
		Mul4(mgl32.Scale3D(p.Scale, p.Scale, p.Scale))

	// Upper-left 3x3 of the rotation matrix, column-major.
	normal := mgl32.Mat3{
		rot[0], rot[1], rot[2],
		rot[4], rot[5], rot[6],
		rot[8], rot[9], rot[10],
	}

	return ParticleInstance{
		Model:  model,
		Normal: normal,
		Color:  p.Color,
	}
}

// faded returns a copy with the fade curve applied to scale and alpha.
func (p *Particle) faded(f *Fade) Particle {
	q := *p
	if f == nil || p.MaxLife <= 0 {
		return q
	}
	t := 1.0 - p.Life/p.MaxLife
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	q.Scale *= f.Ease(t, 1.0, f.ScaleEnd-1.0, 1.0)
	q.Color[3] *= f.Ease(t, 1.0, f.AlphaEnd-1.0, 1.0)
	return q
}
