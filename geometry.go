package shadowgen

import "math"

// BaseShape is the rounded rectangle the shadows are cast by. Width, Height
// and CornerRadius are logical units; Scale converts them to device pixels.
//
// A BaseShape is a plain value. Each render works on its own copy.
type BaseShape struct {
	Width        float64
	Height       float64
	CornerRadius float64
	Scale        float64
}

// MaxCanvasSize is the largest device-pixel extent, per side, of the base
// shape and of any rendered canvas.
const MaxCanvasSize = 1 << 14

// DefaultBaseShape returns the 40x40 square with square corners at 100% scale.
func DefaultBaseShape() BaseShape {
	return BaseShape{Width: 40, Height: 40, CornerRadius: 0, Scale: 1}
}

// MaxCornerRadius returns the largest corner radius the shape accepts.
func (b BaseShape) MaxCornerRadius() float64 {
	return math.Min(b.Width, b.Height) / 2
}

// Validate reports ErrInvalidDimension if width, height or scale is not
// positive, if the device size exceeds MaxCanvasSize, or if the corner
// radius is negative or larger than half the smaller side.
func (b BaseShape) Validate() error {
	switch {
	case !positive(b.Width):
		return invalidf("width %v must be positive", b.Width)
	case !positive(b.Height):
		return invalidf("height %v must be positive", b.Height)
	case !positive(b.Scale):
		return invalidf("scale %v must be positive", b.Scale)
	case b.Width*b.Scale > MaxCanvasSize || b.Height*b.Scale > MaxCanvasSize:
		return invalidf("device size %vx%v exceeds %d pixels", b.Width*b.Scale, b.Height*b.Scale, MaxCanvasSize)
	case !finite(b.CornerRadius) || b.CornerRadius < 0:
		return invalidf("corner radius %v must be non-negative", b.CornerRadius)
	case b.CornerRadius > b.MaxCornerRadius():
		return invalidf("corner radius %v exceeds half the smaller side (%v)", b.CornerRadius, b.MaxCornerRadius())
	}
	return nil
}

// DeviceRect returns the shape's rectangle in device space, anchored at the
// origin. It does not validate.
func (b BaseShape) DeviceRect() Rect {
	return Rect{0, 0, b.Width * b.Scale, b.Height * b.Scale}
}

// DeviceRadius returns the corner radius in device space. It does not validate.
func (b BaseShape) DeviceRadius() float64 {
	return b.CornerRadius * b.Scale
}

// DeviceRect validates b and returns its device-space rectangle.
func DeviceRect(b BaseShape) (Rect, error) {
	if err := b.Validate(); err != nil {
		return Rect{}, err
	}
	return b.DeviceRect(), nil
}

// DeviceRadius validates b and returns its device-space corner radius.
func DeviceRadius(b BaseShape) (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	return b.DeviceRadius(), nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}
