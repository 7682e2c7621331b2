package brume

import (
	"testing"
)

func queueHasDuplicates(p *particlePool) bool {
	seen := make(map[int]bool)
	for _, i := range p.free {
		if seen[i] {
			return true
		}
		seen[i] = true
	}
	return false
}

func TestPoolStartsAllFree(t *testing.T) {
	p := newParticlePool(8)
	if len(p.free) != 8 {
		t.Fatalf("free queue length = %d, want 8", len(p.free))
	}
	for i := range p.particles {
		if p.particles[i].Life > 0 {
			t.Errorf("slot %d starts alive", i)
		}
	}
}

func TestPoolTakeExhaustion(t *testing.T) {
	p := newParticlePool(3)
	for i := 0; i < 3; i++ {
		if _, ok := p.take(); !ok {
			t.Fatalf("take %d failed on a non-empty pool", i)
		}
	}
	if _, ok := p.take(); ok {
		t.Errorf("take succeeded on an exhausted pool")
	}
}

func TestPoolTakeIsFIFO(t *testing.T) {
	p := newParticlePool(4)
	for want := 0; want < 4; want++ {
		got, _ := p.take()
		if got != want {
			t.Errorf("take order: got %d, want %d", got, want)
		}
	}
	p.release(2)
	p.release(0)
	if got, _ := p.take(); got != 2 {
		t.Errorf("after release, take = %d, want 2", got)
	}
	if got, _ := p.take(); got != 0 {
		t.Errorf("after release, take = %d, want 0", got)
	}
}

func TestPoolReleaseNeverDuplicates(t *testing.T) {
	p := newParticlePool(4)
	i, _ := p.take()
	p.release(i)
	p.release(i) // second release must be a no-op
	p.release(99)
	p.release(-1)

	if queueHasDuplicates(p) {
		t.Errorf("free queue contains duplicates: %v", p.free)
	}
	if len(p.free) != 4 {
		t.Errorf("free queue length = %d, want 4", len(p.free))
	}
}

func TestPoolResizeGrow(t *testing.T) {
	p := newParticlePool(4)
	for i := 0; i < 4; i++ {
		p.take()
	}
	p.resize(10)

	// exactly new_max - old_max new free slots
	if len(p.free) != 6 {
		t.Fatalf("free queue length after grow = %d, want 6", len(p.free))
	}
	if p.len() != 10 {
		t.Fatalf("pool length = %d, want 10", p.len())
	}
	for _, i := range p.free {
		if i < 4 || i >= 10 {
			t.Errorf("unexpected free index %d after grow", i)
		}
	}
}

func TestPoolResizeShrinkDropsOutOfRange(t *testing.T) {
	p := newParticlePool(10)
	p.resize(4)

	if p.len() != 4 {
		t.Fatalf("pool length = %d, want 4", p.len())
	}
	for _, i := range p.free {
		if i >= 4 {
			t.Errorf("free queue references out-of-range slot %d", i)
		}
	}
	if queueHasDuplicates(p) {
		t.Errorf("free queue contains duplicates after shrink: %v", p.free)
	}
}

func TestPoolChurnKeepsQueueConsistent(t *testing.T) {
	p := newParticlePool(16)
	r := NewRandf32Seeded(7)

	taken := make(map[int]bool)
	for step := 0; step < 10000; step++ {
		if r.Next() < 0.5 {
			if i, ok := p.take(); ok {
				if taken[i] {
					t.Fatalf("slot %d handed out twice concurrently", i)
				}
				taken[i] = true
			}
		} else {
			for i := range taken {
				delete(taken, i)
				p.release(i)
				break
			}
		}
		if queueHasDuplicates(p) {
			t.Fatalf("duplicate free index at step %d: %v", step, p.free)
		}
		if len(p.free)+len(taken) != 16 {
			t.Fatalf("slot accounting broken at step %d: %d free + %d taken", step, len(p.free), len(taken))
		}
	}
}
