package preview

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Zoom limits and the duration of one zoom animation, in seconds.
const (
	MinZoom      = 1.0
	MaxZoom      = 16.0
	zoomDuration = 0.18
)

// Zoom animates the preview magnification between integer-ish levels.
// Call Update(dt) each tick and read Value.
type Zoom struct {
	Value  float64
	target float64
	tween  *gween.Tween
}

// NewZoom returns a zoom resting at level.
func NewZoom(level float64) *Zoom {
	level = clampZoom(level)
	return &Zoom{Value: level, target: level}
}

// Target returns the level the zoom is moving to.
func (z *Zoom) Target() float64 {
	return z.target
}

// Done reports whether the zoom is at rest.
func (z *Zoom) Done() bool {
	return z.tween == nil
}

// Set starts an animation from the current value to level.
func (z *Zoom) Set(level float64) {
	level = clampZoom(level)
	if level == z.target {
		return
	}
	z.target = level
	z.tween = gween.New(float32(z.Value), float32(level), zoomDuration, ease.OutCubic)
}

// In doubles the target level.
func (z *Zoom) In() { z.Set(z.target * 2) }

// Out halves the target level.
func (z *Zoom) Out() { z.Set(z.target / 2) }

// Update advances the animation by dt seconds.
func (z *Zoom) Update(dt float32) {
	if z.tween == nil {
		return
	}
	val, finished := z.tween.Update(dt)
	z.Value = float64(val)
	if finished {
		z.Value = z.target
		z.tween = nil
	}
}

func clampZoom(v float64) float64 {
	return min(max(v, MinZoom), MaxZoom)
}
