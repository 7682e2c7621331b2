package brume

import (
	"time"
)

// Delta tracks the elapsed time between frames. The render loop calls
// Update once per frame and feeds FrameTime into ParticleSystem.Update.
type Delta struct {
	last      time.Time
	frameTime time.Duration
}

func NewDelta() *Delta {
	return &Delta{last: time.Now()}
}

func (d *Delta) Update(now time.Time) {
	d.frameTime = now.Sub(d.last)
	d.last = now
}

func (d *Delta) FrameTime() time.Duration {
	return d.frameTime
}

func (d *Delta) FrameTimeSeconds() float32 {
	return float32(d.frameTime.Seconds())
}
