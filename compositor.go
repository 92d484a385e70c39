package shadowgen

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Stroke outlines the base shape. Width is in logical units and is scaled
// like every other dimension. The zero Stroke draws nothing.
type Stroke struct {
	Color Color
	Width float64
}

func (s Stroke) enabled() bool {
	return s.Width > 0 && s.Color.A > 0
}

// Canvas is a composited render: a premultiplied RGBA image plus where it
// sits in device space.
type Canvas struct {
	// Image holds the pixels. Its bounds start at (0, 0).
	Image *image.RGBA
	// Origin is the device-space coordinate of pixel (0, 0).
	Origin image.Point
	// BaseRect is the base shape's device rectangle, in device space.
	BaseRect Rect
}

// Bounds returns the canvas rectangle in device space.
func (c *Canvas) Bounds() image.Rectangle {
	return c.Image.Bounds().Add(c.Origin)
}

// BasePixels returns every canvas pixel the base rectangle touches, in
// canvas pixel coordinates, even where its coverage rounds to zero.
func (c *Canvas) BasePixels() image.Rectangle {
	local := c.BaseRect.Translate(-float64(c.Origin.X), -float64(c.Origin.Y))
	return local.Aligned().Intersect(c.Image.Rect)
}

// Compositor paints shadow layers and the base shape onto one canvas.
// Its fields are configuration only; a Compositor can serve renders from
// several goroutines as long as nobody mutates it meanwhile.
type Compositor struct {
	// Blur is the blur primitive. Nil means GaussianBlur.
	Blur Blur
	// Painter is the raster primitive. Nil means VectorPainter.
	Painter Painter
	// Calibration converts layer parameters. The zero value means
	// DefaultCalibration.
	Calibration Calibration
	// Fill is the base shape color. The zero value means ColorWhite.
	Fill Color
	// Stroke optionally outlines the base shape.
	Stroke Stroke
	// RenderSource paints the base shape on top of the shadows. With it
	// off the output holds the shadows only.
	RenderSource bool
}

// NewCompositor returns a compositor with the default primitives that
// renders the source shape.
func NewCompositor() *Compositor {
	return &Compositor{
		Blur:         GaussianBlur{},
		Painter:      VectorPainter{},
		Calibration:  DefaultCalibration(),
		Fill:         ColorWhite,
		RenderSource: true,
	}
}

func (c *Compositor) blur() Blur {
	if c.Blur == nil {
		return GaussianBlur{}
	}
	return c.Blur
}

func (c *Compositor) painter() Painter {
	if c.Painter == nil {
		return VectorPainter{}
	}
	return c.Painter
}

func (c *Compositor) fill() Color {
	if c.Fill == (Color{}) {
		return ColorWhite
	}
	return c.Fill
}

// Layers binds params to base with the compositor's calibration. The
// result is a fresh slice; later changes to params do not reach it.
func (c *Compositor) Layers(base BaseShape, params []ShadowParams) []ShadowLayer {
	cal := c.Calibration.orDefault()
	layers := make([]ShadowLayer, len(params))
	for i, p := range params {
		layers[i] = NewShadowLayer(base, p, cal)
	}
	return layers
}

// sourceRect returns the area the base shape paints, stroke included.
func (c *Compositor) sourceRect(base BaseShape) Rect {
	r := base.DeviceRect()
	if c.Stroke.enabled() {
		r = r.Expand(c.Stroke.Width * base.Scale / 2)
	}
	return r
}

// Bounds returns the aligned device-space canvas rectangle for base and
// layers: the union of the base rectangle and every blur footprint.
func (c *Compositor) Bounds(base BaseShape, layers []ShadowLayer) image.Rectangle {
	u := c.sourceRect(base)
	b := c.blur()
	for _, l := range layers {
		u = u.Union(l.BlurFootprint(b))
	}
	return u.Aligned()
}

// Render composites params (first = bottom-most) under base and returns the
// new canvas. It fails with ErrInvalidDimension for bad input and ErrRender
// for degenerate bounds.
func (c *Compositor) Render(base BaseShape, params []ShadowParams) (*Canvas, error) {
	if err := base.Validate(); err != nil {
		return nil, stageErr(StageGeometry, err)
	}
	if err := c.Calibration.Validate(); err != nil {
		return nil, stageErr(StageGeometry, err)
	}
	for i, p := range params {
		if err := p.Validate(); err != nil {
			return nil, layerErr(i, err)
		}
	}
	if c.Stroke.enabled() && !(c.Stroke.Width*base.Scale <= MaxCanvasSize) {
		return nil, stageErr(StageGeometry, invalidf("stroke width %v exceeds %d pixels", c.Stroke.Width*base.Scale, MaxCanvasSize))
	}
	layers := c.Layers(base, params)
	for i, l := range layers {
		off := l.DeviceOffset()
		if math.Abs(off.X) > MaxCanvasSize || math.Abs(off.Y) > MaxCanvasSize || l.DeviceBlurRadius() > MaxCanvasSize {
			return nil, layerErr(i, invalidf("device offset (%v, %v) or blur %v exceeds %d pixels",
				off.X, off.Y, l.DeviceBlurRadius(), MaxCanvasSize))
		}
	}

	bounds := c.Bounds(base, layers)
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, stageErr(StageComposite, ErrRender)
	}
	if bounds.Dx() > MaxCanvasSize || bounds.Dy() > MaxCanvasSize {
		return nil, stageErr(StageComposite, invalidf("canvas %dx%d exceeds %d pixels", bounds.Dx(), bounds.Dy(), MaxCanvasSize))
	}

	canvas := &Canvas{
		Image:    image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy())),
		Origin:   bounds.Min,
		BaseRect: base.DeviceRect(),
	}
	dx, dy := -float64(bounds.Min.X), -float64(bounds.Min.Y)
	blur, painter := c.blur(), c.painter()

	for _, l := range layers {
		if l.FillAlpha() == 0 {
			continue
		}
		area := l.BlurFootprint(blur).Translate(dx, dy).Aligned().Intersect(canvas.Image.Rect)
		mask := painter.FillMask(l.DeviceRect().Translate(dx, dy), l.DeviceRadius(), area)
		mask = blur.Apply(mask, l.DeviceBlurRadius())
		composite(canvas.Image, mask, l.FillColor())
	}

	if c.RenderSource {
		local := canvas.BaseRect.Translate(dx, dy)
		composite(canvas.Image, painter.FillMask(local, base.DeviceRadius(), canvas.Image.Rect), c.fill().RGBA8())
		if c.Stroke.enabled() {
			mask := painter.StrokeMask(local, base.DeviceRadius(), c.Stroke.Width*base.Scale, canvas.Image.Rect)
			composite(canvas.Image, mask, c.Stroke.Color.RGBA8())
		}
	}
	return canvas, nil
}

// composite paints the premultiplied color c through mask with source-over.
func composite(dst *image.RGBA, mask *image.Alpha, c color.RGBA) {
	r := mask.Bounds().Intersect(dst.Bounds())
	if r.Empty() || c.A == 0 {
		return
	}
	draw.DrawMask(dst, r, image.NewUniform(c), image.Point{}, mask, r.Min, draw.Over)
}
