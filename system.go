package brume

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// ParticleSystem owns a fixed-capacity pool of particles, spawns new ones
// at a configured rate while its own lifetime lasts, integrates them every
// frame and maintains the packed per-instance GPU buffer consumed by the
// renderer's instanced draw.
//
// Single writer, frame driven: exactly one Update (or UpdateSorted) per
// rendered frame, from the render thread. All instance writes for a frame
// must be queued before that frame's draw is submitted.
type ParticleSystem struct {
	pool       *particlePool
	buf        *wgpu.Buffer
	rate       int
	position   mgl32.Vec3
	name       string
	life       float32
	gravity    mgl32.Vec3
	bounds     ParticleSystemBounds
	forces     []mgl32.Vec3
	attractors []Attractor
	fade       *Fade
	rand       *Randf32
	log        Logger

	// scratch for the sorted update path, reused across frames
	sorted []ParticleInstance
}

// NewParticleSystem validates the descriptor, allocates the pool with every
// slot dead and builds the zero-initialized instance buffer sized
// max * ParticleInstanceSize.
func NewParticleSystem(device BufferAllocator, desc *ParticleSystemDescriptor) (*ParticleSystem, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	name := desc.Name
	if name == "" {
		name = "particle-system-" + uuid.NewString()
	}
	log := desc.Logger
	if log == nil {
		log = NewNopLogger()
	}

	buf, err := newInstanceBuffer(device, desc.Max)
	if err != nil {
		return nil, err
	}

	return &ParticleSystem{
		pool:     newParticlePool(desc.Max),
		buf:      buf,
		rate:     desc.Rate,
		position: desc.Pos,
		name:     name,
		life:     desc.Life,
		gravity:  desc.Gravity,
		bounds:   desc.Bounds,
		fade:     desc.Fade,
		rand:     NewRandf32Seeded(desc.Seed),
		log:      log,
	}, nil
}

// newInstanceBuffer allocates a zeroed vertex buffer for max instances.
// Zero records are degenerate (zero-scale model matrix), so freshly created
// or resized systems never draw stale particles.
func newInstanceBuffer(device BufferAllocator, max int) (*wgpu.Buffer, error) {
	return device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Particle Instance Buffer",
		Contents: make([]byte, uint64(max)*ParticleInstanceSize),
		Usage:    wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
}

// newParticle samples a fresh particle from the bounds, offset by the
// system's world position.
func (s *ParticleSystem) newParticle() Particle {
	life := s.rand.InVariance(s.bounds.Life)
	return Particle{
		Pos:     s.rand.Vec3InVariance(&s.bounds.SpawnRange).Add(s.position),
		Vel:     s.rand.Vec3InVariance(&s.bounds.InitVel),
		Rot:     s.rand.QuatInVariance(&s.bounds.Rot),
		Color:   s.rand.Vec4InVariance(&s.bounds.Color),
		Scale:   s.rand.InVariance(s.bounds.Scale),
		Life:    life,
		MaxLife: life,
		Mass:    s.rand.InVariance(s.bounds.Mass),
	}
}

// sanitizeDelta clamps untrusted frame deltas: negative or NaN values are
// treated as a zero-length frame.
func sanitizeDelta(delta time.Duration) float32 {
	dt := float32(delta.Seconds())
	if dt < 0 || math.IsNaN(float64(dt)) {
		return 0
	}
	return dt
}

// spawn requests up to rate slots from the pool. A full pool skips the
// remainder of the quota. Returns the number actually spawned.
func (s *ParticleSystem) spawn() int {
	spawned := 0
	for i := 0; i < s.rate; i++ {
		idx, ok := s.pool.take()
		if !ok {
			s.log.Debugf("%s: %v (%d of %d this frame)", s.name, ErrPoolExhausted, i, s.rate)
			break
		}
		s.pool.particles[idx] = s.newParticle()
		spawned++
	}
	return spawned
}

// Update spawns new particles while the system's lifetime has not expired,
// decrements every particle's life by delta and integrates the survivors.
// Live slots get their 116-byte instance record written at the slot's fixed
// byte offset; slots that expired this frame are blanked with a zero record
// and released to the free queue exactly once. Call once per frame.
func (s *ParticleSystem) Update(delta time.Duration, queue BufferWriter) error {
	dt := sanitizeDelta(delta)

	if s.life >= 0 {
		s.spawn()
	}
	s.life -= dt

	var zero [1]ParticleInstance
	for i := range s.pool.particles {
		p := &s.pool.particles[i]
		wasAlive := p.Life > 0
		p.Life -= dt

		offset := uint64(i) * ParticleInstanceSize
		switch {
		case p.Life > 0:
			p.Update(dt, s.gravity, s.forces, s.attractors)
			inst := s.project(p)
			if err := queue.WriteBuffer(s.buf, offset, wgpu.ToBytes([]ParticleInstance{inst})); err != nil {
				return err
			}
		case wasAlive:
			if err := queue.WriteBuffer(s.buf, offset, wgpu.ToBytes(zero[:])); err != nil {
				return err
			}
			s.pool.release(i)
		}
	}
	return nil
}

// UpdateSorted is the depth-sorted variant of Update for alpha-blended
// particles. Live instances are sorted by descending distance to viewPos
// and written contiguously from offset 0, so the instanced draw paints them
// back to front; the remainder of the buffer is zero-filled.
func (s *ParticleSystem) UpdateSorted(delta time.Duration, queue BufferWriter, viewPos mgl32.Vec3) error {
	dt := sanitizeDelta(delta)

	if s.life >= 0 {
		s.spawn()
	}
	s.life -= dt

	type depthEntry struct {
		dist float32
		slot int
	}
	order := make([]depthEntry, 0, s.pool.len())

	for i := range s.pool.particles {
		p := &s.pool.particles[i]
		wasAlive := p.Life > 0
		p.Life -= dt

		switch {
		case p.Life > 0:
			p.Update(dt, s.gravity, s.forces, s.attractors)
			order = append(order, depthEntry{
				dist: p.Pos.Sub(viewPos).LenSqr(),
				slot: i,
			})
		case wasAlive:
			s.pool.release(i)
		}
	}

	sort.Slice(order, func(a, b int) bool {
		return order[a].dist > order[b].dist
	})

	if cap(s.sorted) < s.pool.len() {
		s.sorted = make([]ParticleInstance, s.pool.len())
	}
	s.sorted = s.sorted[:s.pool.len()]
	for i, e := range order {
		s.sorted[i] = s.project(&s.pool.particles[e.slot])
	}
	for i := len(order); i < len(s.sorted); i++ {
		s.sorted[i] = ParticleInstance{}
	}

	return queue.WriteBuffer(s.buf, 0, wgpu.ToBytes(s.sorted))
}

func (s *ParticleSystem) project(p *Particle) ParticleInstance {
	if s.fade != nil {
		q := p.faded(s.fade)
		return q.Instance()
	}
	return p.Instance()
}

// Clear zeroes the whole instance buffer region, guaranteeing no stale
// instance survives across a discontinuity such as a scene change.
func (s *ParticleSystem) Clear(queue BufferWriter) error {
	return queue.WriteBuffer(s.buf, 0, make([]byte, s.ParticleBufSize()))
}

// SetMaxParticles resizes the pool and reallocates the instance buffer.
// No particle state is preserved across the call.
func (s *ParticleSystem) SetMaxParticles(max int, device BufferAllocator) error {
	if max <= 0 {
		return &ConfigError{Option: "max", Value: fmt.Sprint(max), Reason: "must be positive"}
	}
	s.pool.resize(max)
	buf, err := newInstanceBuffer(device, max)
	if err != nil {
		return err
	}
	if s.buf != nil {
		s.buf.Release()
	}
	s.buf = buf
	s.log.Debugf("%s: resized to %d particles", s.name, max)
	return nil
}

// ParticleCount returns the pool capacity; it is the instance range of the
// draw call. Dead slots hold degenerate records and draw nothing.
func (s *ParticleSystem) ParticleCount() uint32 {
	return uint32(s.pool.len())
}

// LiveCount returns the number of particles with Life > 0.
func (s *ParticleSystem) LiveCount() int {
	return s.pool.liveCount()
}

// ParticleBuf returns the instance buffer for binding as a vertex buffer.
func (s *ParticleSystem) ParticleBuf() *wgpu.Buffer {
	return s.buf
}

// ParticleBufSize returns the instance buffer size in bytes.
func (s *ParticleSystem) ParticleBufSize() uint64 {
	return uint64(s.pool.len()) * ParticleInstanceSize
}

// Name returns the system's name.
func (s *ParticleSystem) Name() string {
	return s.name
}

// SetPosition moves the spawn origin. Live particles are unaffected.
func (s *ParticleSystem) SetPosition(pos mgl32.Vec3) {
	s.position = pos
}

// SetRate changes the number of particles spawned per update.
func (s *ParticleSystem) SetRate(rate int) {
	if rate < 0 {
		rate = 0
	}
	s.rate = rate
}

// SetGravity changes the constant gravity applied during integration.
func (s *ParticleSystem) SetGravity(gravity mgl32.Vec3) {
	s.gravity = gravity
}

// SetName renames the system.
func (s *ParticleSystem) SetName(name string) {
	s.name = name
}

// SetLifeVariance sets the sampled particle lifetime. Takes effect on the
// next spawn.
func (s *ParticleSystem) SetLifeVariance(life MVar) {
	s.bounds.Life = life
}

// SetMassVariance sets the sampled particle mass.
func (s *ParticleSystem) SetMassVariance(mass MVar) {
	s.bounds.Mass = mass
}

// SetScaleVariance sets the sampled particle size.
func (s *ParticleSystem) SetScaleVariance(scale MVar) {
	s.bounds.Scale = scale
}

// SetSpawnVariance sets the dimensions of the area in which particles spawn.
func (s *ParticleSystem) SetSpawnVariance(spawn [3]MVar) {
	s.bounds.SpawnRange = spawn
}

// SetInitialVelocityVariance sets the sampled initial velocity.
func (s *ParticleSystem) SetInitialVelocityVariance(vel [3]MVar) {
	s.bounds.InitVel = vel
}

// SetRotationVariance sets the sampled rotation quaternion components.
func (s *ParticleSystem) SetRotationVariance(rot [4]MVar) {
	s.bounds.Rot = rot
}

// SetColorVariance sets the sampled RGBA values.
func (s *ParticleSystem) SetColorVariance(color [4]MVar) {
	s.bounds.Color = color
}

// SetFade replaces the over-lifetime fade curve; nil disables fading.
func (s *ParticleSystem) SetFade(fade *Fade) {
	s.fade = fade
}

// ApplyForce registers a constant external force applied to every particle.
// Forces accumulate until ClearForces is called.
func (s *ParticleSystem) ApplyForce(force mgl32.Vec3) {
	s.forces = append(s.forces, force)
}

// AddAttractor registers a point mass attracting every particle.
func (s *ParticleSystem) AddAttractor(pos mgl32.Vec3, mass float32) {
	s.attractors = append(s.attractors, Attractor{Pos: pos, Mass: mass})
}

// ClearForces drops all registered forces and attractors.
func (s *ParticleSystem) ClearForces() {
	s.forces = s.forces[:0]
	s.attractors = s.attractors[:0]
}
