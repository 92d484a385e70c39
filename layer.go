package shadowgen

import (
	"image/color"
	"math"
)

// ShadowParams is the per-layer record owned by a Session: everything a
// shadow does not inherit from the base shape.
type ShadowParams struct {
	// OffsetX and OffsetY move the shadow, in logical units.
	OffsetX float64 `json:"x" yaml:"x"`
	OffsetY float64 `json:"y" yaml:"y"`
	// Opacity is a percentage in [0, 100].
	Opacity int `json:"opacity" yaml:"opacity"`
	// Blur is the visual blur strength in logical units.
	Blur float64 `json:"blur" yaml:"blur"`
}

// DefaultShadowParams returns the parameters of a freshly added layer.
func DefaultShadowParams() ShadowParams {
	return ShadowParams{OffsetX: 0, OffsetY: 0, Opacity: 50, Blur: 1}
}

// Validate reports ErrInvalidDimension for an opacity outside [0, 100], a
// negative blur, or non-finite values.
func (p ShadowParams) Validate() error {
	switch {
	case !finite(p.OffsetX) || !finite(p.OffsetY):
		return invalidf("offset (%v, %v) must be finite", p.OffsetX, p.OffsetY)
	case p.Opacity < 0 || p.Opacity > 100:
		return invalidf("opacity %d outside [0, 100]", p.Opacity)
	case !finite(p.Blur) || p.Blur < 0:
		return invalidf("blur %v must be non-negative", p.Blur)
	}
	return nil
}

// ShadowLayer binds a ShadowParams to the base shape it inherits size and
// radius from. All derived values are computed on demand.
type ShadowLayer struct {
	Params      ShadowParams
	Base        BaseShape
	Calibration Calibration
}

// NewShadowLayer returns the layer for p cast by base, using cal (the zero
// Calibration means DefaultCalibration).
func NewShadowLayer(base BaseShape, p ShadowParams, cal Calibration) ShadowLayer {
	return ShadowLayer{Params: p, Base: base, Calibration: cal.orDefault()}
}

// DeviceOffset returns the shadow offset in device pixels.
func (l ShadowLayer) DeviceOffset() Vec2 {
	return Vec2{l.Params.OffsetX * l.Base.Scale, l.Params.OffsetY * l.Base.Scale}
}

// DeviceRect returns the base device rectangle translated by DeviceOffset.
func (l ShadowLayer) DeviceRect() Rect {
	off := l.DeviceOffset()
	return l.Base.DeviceRect().Translate(off.X, off.Y)
}

// DeviceRadius returns the corner radius in device pixels (the base shape's).
func (l ShadowLayer) DeviceRadius() float64 {
	return l.Base.DeviceRadius()
}

// FillAlpha returns round(255 * opacity/100 * AlphaGain) clamped to [0, 255].
func (l ShadowLayer) FillAlpha() uint8 {
	op := min(max(l.Params.Opacity, 0), 100)
	a := math.Round(255 * (float64(op) / 100) * l.Calibration.AlphaGain)
	switch {
	case a <= 0 || math.IsNaN(a):
		return 0
	case a >= 255:
		return 255
	}
	return uint8(a)
}

// FillColor returns black with the amplified alpha. Black premultiplied is
// the same as black straight, so the value can be used with either model.
func (l ShadowLayer) FillColor() color.RGBA {
	return color.RGBA{A: l.FillAlpha()}
}

// DeviceBlurRadius returns the radius handed to the blur primitive.
func (l ShadowLayer) DeviceBlurRadius() float64 {
	return l.Params.Blur * l.Base.Scale * l.Calibration.BlurGain * l.Calibration.BlurMultiplier
}

// BlurFootprint returns DeviceRect grown on every side by the padding b
// reports for DeviceBlurRadius.
func (l ShadowLayer) BlurFootprint(b Blur) Rect {
	return l.DeviceRect().Expand(float64(b.Padding(l.DeviceBlurRadius())))
}
