package brume

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MVar is the mean and variance of one randomized particle attribute.
// Sampling draws mean + variance*u for u uniform in [-1,1).
type MVar struct {
	Mean     float32
	Variance float32
}

// ParticleSystemBounds describes the randomized range of every sampled
// particle attribute.
type ParticleSystemBounds struct {
	SpawnRange [3]MVar
	InitVel    [3]MVar
	Rot        [4]MVar
	Color      [4]MVar
	Life       MVar
	Mass       MVar
	Scale      MVar
}

// DefaultBounds is a gentle upward plume: useful smoke-like defaults.
func DefaultBounds() ParticleSystemBounds {
	return ParticleSystemBounds{
		SpawnRange: [3]MVar{},
		InitVel:    [3]MVar{{0.0, 0.2}, {0.7, 0.2}, {0.0, 0.2}},
		Rot:        [4]MVar{},
		Color:      [4]MVar{{0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}},
		Life:       MVar{5.0, 2.0},
		Mass:       MVar{2.0, 0.1},
		Scale:      MVar{0.007, 0.002},
	}
}

// ParticleSystemDescriptor holds the creation-time parameters of a particle
// system. It is consumed once at construction; later changes go through the
// setters on the live system.
type ParticleSystemDescriptor struct {
	Max     int
	Rate    int // particles spawned per update while system life remains
	Pos     mgl32.Vec3
	Name    string // generated when empty
	Life    float32
	Gravity mgl32.Vec3
	Bounds  ParticleSystemBounds
	Seed    uint32 // 0 selects the default seed
	Fade    *Fade  // optional over-lifetime scale/alpha modulation
	Logger  Logger // nil selects the no-op logger
}

// DefaultParticleSystemDescriptor mirrors the library defaults.
func DefaultParticleSystemDescriptor() ParticleSystemDescriptor {
	return ParticleSystemDescriptor{
		Max:    500,
		Rate:   1,
		Life:   1000.0,
		Bounds: DefaultBounds(),
	}
}

// Validate reports configuration errors before any GPU resource is
// allocated.
func (d *ParticleSystemDescriptor) Validate() error {
	if d.Max <= 0 {
		return &ConfigError{Option: "max", Value: fmt.Sprint(d.Max), Reason: "must be positive"}
	}
	if d.Rate < 0 {
		return &ConfigError{Option: "rate", Value: fmt.Sprint(d.Rate), Reason: "must not be negative"}
	}
	for _, mv := range d.Bounds.allVars() {
		if mv.Variance < 0 {
			return &ConfigError{Option: "bounds", Value: fmt.Sprint(mv.Variance), Reason: "variance must not be negative"}
		}
	}
	return nil
}

func (b *ParticleSystemBounds) allVars() []MVar {
	vars := make([]MVar, 0, 17)
	vars = append(vars, b.SpawnRange[:]...)
	vars = append(vars, b.InitVel[:]...)
	vars = append(vars, b.Rot[:]...)
	vars = append(vars, b.Color[:]...)
	vars = append(vars, b.Life, b.Mass, b.Scale)
	return vars
}
