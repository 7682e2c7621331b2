package brume

// particlePool is the fixed-capacity slot array plus an explicit FIFO of
// free slot indices. It replaces cursor scanning: allocation is O(1)
// amortized and a full pool reports exhaustion instead of silently
// overwriting a live slot. A slot index is never queued twice; the queued
// flags guard release against duplicates.
type particlePool struct {
	particles []Particle
	free      []int
	queued    []bool
}

func newParticlePool(max int) *particlePool {
	p := &particlePool{
		particles: make([]Particle, max),
		free:      make([]int, max),
		queued:    make([]bool, max),
	}
	for i := range p.particles {
		p.particles[i] = deadParticle()
		p.free[i] = i
		p.queued[i] = true
	}
	return p
}

func (p *particlePool) len() int {
	return len(p.particles)
}

func (p *particlePool) liveCount() int {
	n := 0
	for i := range p.particles {
		if p.particles[i].Life > 0 {
			n++
		}
	}
	return n
}

// take pops the oldest free slot. The second return is false when the pool
// is exhausted; callers must skip the spawn rather than overwrite slot 0.
func (p *particlePool) take() (int, bool) {
	if len(p.free) == 0 {
		return 0, false
	}
	i := p.free[0]
	p.free = p.free[1:]
	p.queued[i] = false
	return i, true
}

// release returns a slot to the free queue. Releasing an already-queued or
// out-of-range index is a no-op.
func (p *particlePool) release(i int) {
	if i < 0 || i >= len(p.particles) || p.queued[i] {
		return
	}
	p.queued[i] = true
	p.free = append(p.free, i)
}

// resize grows or shrinks the pool. Growing enqueues the new indices as
// free; shrinking drops live tail particles and any free-queue entries that
// fell out of range.
func (p *particlePool) resize(max int) {
	if max == len(p.particles) {
		return
	}
	if max > len(p.particles) {
		for i := len(p.particles); i < max; i++ {
			p.particles = append(p.particles, deadParticle())
			p.queued = append(p.queued, true)
			p.free = append(p.free, i)
		}
		return
	}
	p.particles = p.particles[:max]
	p.queued = p.queued[:max]
	kept := p.free[:0]
	for _, i := range p.free {
		if i < max {
			kept = append(kept, i)
		}
	}
	p.free = kept
}
