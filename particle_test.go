package brume

import (
	"math"
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

func TestParticleInstancePacking(t *testing.T) {
	// The GPU-side layout depends on the exact packing: 4x4 model + 3x3
	// normal + RGBA color, float32, no padding.
	if size := unsafe.Sizeof(ParticleInstance{}); size != 116 {
		t.Fatalf("sizeof(ParticleInstance) = %d, want 116", size)
	}
	if ParticleInstanceSize != 116 {
		t.Fatalf("ParticleInstanceSize = %d, want 116", ParticleInstanceSize)
	}
	var inst ParticleInstance
	base := uintptr(unsafe.Pointer(&inst))
	if off := uintptr(unsafe.Pointer(&inst.Normal)) - base; off != 64 {
		t.Errorf("Normal offset = %d, want 64", off)
	}
	if off := uintptr(unsafe.Pointer(&inst.Color)) - base; off != 100 {
		t.Errorf("Color offset = %d, want 100", off)
	}
}

func TestUpdateIntegratesGravity(t *testing.T) {
	p := Particle{
		Pos:   mgl32.Vec3{0, 10, 0},
		Rot:   mgl32.QuatIdent(),
		Scale: 1,
		Life:  5,
		Mass:  2,
	}
	p.Update(0.1, mgl32.Vec3{0, -10, 0}, nil, nil)

	// vel += gravity*mass*dt*0.5 = -1, pos += vel*dt = -0.1
	if got := p.Vel.Y(); !approxEq(got, -1.0) {
		t.Errorf("Vel.Y = %f, want -1", got)
	}
	if got := p.Pos.Y(); !approxEq(got, 9.9) {
		t.Errorf("Pos.Y = %f, want 9.9", got)
	}
}

func TestUpdateAppliesForcesDividedByMass(t *testing.T) {
	p := Particle{Rot: mgl32.QuatIdent(), Life: 1, Mass: 4}
	forces := []mgl32.Vec3{{8, 0, 0}, {8, 0, 0}}
	p.Update(1.0, mgl32.Vec3{}, forces, nil)

	// acc = (8+8)/4 = 4, vel += 4*1*0.5 = 2
	if got := p.Vel.X(); !approxEq(got, 2.0) {
		t.Errorf("Vel.X = %f, want 2", got)
	}
}

func TestUpdateIsDeterministic(t *testing.T) {
	mk := func() Particle {
		return Particle{
			Pos:   mgl32.Vec3{1, 2, 3},
			Vel:   mgl32.Vec3{0.5, -0.25, 0},
			Rot:   mgl32.QuatIdent(),
			Scale: 1,
			Life:  3,
			Mass:  1.5,
		}
	}
	forces := []mgl32.Vec3{{0.1, 0, 0}}
	attractors := []Attractor{{Pos: mgl32.Vec3{5, 5, 5}, Mass: 10}}

	a, b := mk(), mk()
	for i := 0; i < 100; i++ {
		a.Update(0.016, mgl32.Vec3{0, -9.8, 0}, forces, attractors)
		b.Update(0.016, mgl32.Vec3{0, -9.8, 0}, forces, attractors)
	}
	if a != b {
		t.Errorf("identical inputs produced different states:\n%+v\n%+v", a, b)
	}
}

func TestAttractorDistanceClamped(t *testing.T) {
	// A particle sitting exactly on the attractor must not blow up.
	p := Particle{Pos: mgl32.Vec3{1, 1, 1}, Rot: mgl32.QuatIdent(), Life: 1, Mass: 1}
	p.Update(0.016, mgl32.Vec3{}, nil, []Attractor{{Pos: mgl32.Vec3{1, 1, 1}, Mass: 100}})

	for i := 0; i < 3; i++ {
		if math.IsNaN(float64(p.Vel[i])) || math.IsInf(float64(p.Vel[i]), 0) {
			t.Fatalf("velocity component %d is not finite: %f", i, p.Vel[i])
		}
	}
}

func TestAttractorPullsToward(t *testing.T) {
	p := Particle{Pos: mgl32.Vec3{0, 0, 0}, Rot: mgl32.QuatIdent(), Life: 1, Mass: 1}
	p.Update(0.1, mgl32.Vec3{}, nil, []Attractor{{Pos: mgl32.Vec3{10, 0, 0}, Mass: 50}})
	if p.Vel.X() <= 0 {
		t.Errorf("Vel.X = %f, want > 0 (pull toward attractor)", p.Vel.X())
	}
}

func TestInstanceProjection(t *testing.T) {
	p := Particle{
		Pos:   mgl32.Vec3{1, 2, 3},
		Rot:   mgl32.QuatIdent(),
		Scale: 2,
		Color: mgl32.Vec4{0.1, 0.2, 0.3, 0.4},
	}
	inst := p.Instance()

	want := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.Scale3D(2, 2, 2))
	if !inst.Model.ApproxEqual(want) {
		t.Errorf("model matrix mismatch:\n%v\nwant\n%v", inst.Model, want)
	}
	if !inst.Normal.ApproxEqual(mgl32.Ident3()) {
		t.Errorf("normal matrix for identity rotation should be identity, got %v", inst.Normal)
	}
	if inst.Color != p.Color {
		t.Errorf("color mismatch: %v != %v", inst.Color, p.Color)
	}
}

func TestInstanceIsPure(t *testing.T) {
	p := Particle{Pos: mgl32.Vec3{1, 1, 1}, Rot: mgl32.QuatIdent(), Scale: 1, Life: 2}
	before := p
	_ = p.Instance()
	if p != before {
		t.Errorf("Instance mutated the particle")
	}
}

func TestDeadParticleInstanceInvisible(t *testing.T) {
	p := deadParticle()
	inst := p.Instance()
	// Zero scale collapses the model matrix columns that move vertices.
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			if inst.Model.At(row, col) != 0 {
				t.Fatalf("dead instance has non-degenerate model matrix: %v", inst.Model)
			}
		}
	}
}

func TestFadedScalesAndAlpha(t *testing.T) {
	p := Particle{
		Rot:     mgl32.QuatIdent(),
		Scale:   2,
		Life:    0, // fully elapsed
		MaxLife: 4,
		Color:   mgl32.Vec4{1, 1, 1, 1},
	}
	f := &Fade{Ease: ease.Linear, ScaleEnd: 0.5, AlphaEnd: 0}
	q := p.faded(f)

	if !approxEq(q.Scale, 1.0) {
		t.Errorf("faded scale = %f, want 1 (2 * 0.5)", q.Scale)
	}
	if !approxEq(q.Color[3], 0.0) {
		t.Errorf("faded alpha = %f, want 0", q.Color[3])
	}

	fresh := p
	fresh.Life = 4 // just spawned
	q = fresh.faded(f)
	if !approxEq(q.Scale, 2.0) || !approxEq(q.Color[3], 1.0) {
		t.Errorf("fresh particle should be unfaded, got scale %f alpha %f", q.Scale, q.Color[3])
	}
}

func approxEq(a, b float32) bool {
	return float32(math.Abs(float64(a-b))) < 1e-5
}
