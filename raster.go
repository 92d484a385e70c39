package shadowgen

import (
	"image"
	"math"

	"golang.org/x/image/vector"
)

// Painter is the raster primitive: it turns a rounded rectangle into an
// anti-aliased coverage mask. Rectangles are in the same pixel space as
// bounds.
type Painter interface {
	// FillMask returns the coverage of the rounded rect r over bounds.
	FillMask(r Rect, radius float64, bounds image.Rectangle) *image.Alpha
	// StrokeMask returns the coverage of a band of the given width centered
	// on the outline of the rounded rect r.
	StrokeMask(r Rect, radius, width float64, bounds image.Rectangle) *image.Alpha
}

// VectorPainter rasterizes with golang.org/x/image/vector.
type VectorPainter struct{}

// FillMask implements Painter.
func (VectorPainter) FillMask(r Rect, radius float64, bounds image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(bounds)
	if bounds.Empty() || r.Empty() {
		return mask
	}
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	origin := Vec2{float64(bounds.Min.X), float64(bounds.Min.Y)}
	roundedRectPath(z, r.Translate(-origin.X, -origin.Y), radius, false)
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// StrokeMask implements Painter. The outer outline is traced clockwise and
// the inner one counter-clockwise so the rasterizer leaves the middle empty.
func (VectorPainter) StrokeMask(r Rect, radius, width float64, bounds image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(bounds)
	if bounds.Empty() || r.Empty() || !(width > 0) {
		return mask
	}
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	local := r.Translate(-float64(bounds.Min.X), -float64(bounds.Min.Y))
	half := width / 2

	outerRadius := 0.0
	if radius > 0 {
		outerRadius = radius + half
	}
	roundedRectPath(z, local.Expand(half), outerRadius, false)

	inner := local.Expand(-half)
	if !inner.Empty() {
		roundedRectPath(z, inner, math.Max(radius-half, 0), true)
	}
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// bezierArc is the control point distance for approximating a quarter
// circle with one cubic Bezier.
const bezierArc = 4 * (math.Sqrt2 - 1) / 3

// roundedRectPath adds the outline of r with corner radius to z. The radius
// is clamped to half the smaller side. With reverse set the outline runs
// counter-clockwise.
func roundedRectPath(z *vector.Rasterizer, r Rect, radius float64, reverse bool) {
	rad := math.Min(math.Max(radius, 0), math.Min(r.Width, r.Height)/2)
	w, n := float32(r.X), float32(r.Y)
	e, s := float32(r.Right()), float32(r.Bottom())
	c := float32(rad)
	q := c * float32(1-bezierArc)

	if c == 0 {
		z.MoveTo(w, n)
		if reverse {
			z.LineTo(w, s)
			z.LineTo(e, s)
			z.LineTo(e, n)
		} else {
			z.LineTo(e, n)
			z.LineTo(e, s)
			z.LineTo(w, s)
		}
		z.ClosePath()
		return
	}

	if reverse {
		z.MoveTo(w+c, n)
		z.CubeTo(w+q, n, w, n+q, w, n+c) // NW
		z.LineTo(w, s-c)                 // W
		z.CubeTo(w, s-q, w+q, s, w+c, s) // SW
		z.LineTo(e-c, s)                 // S
		z.CubeTo(e-q, s, e, s-q, e, s-c) // SE
		z.LineTo(e, n+c)                 // E
		z.CubeTo(e, n+q, e-q, n, e-c, n) // NE
		z.ClosePath()
		return
	}

	z.MoveTo(w+c, n)
	z.LineTo(e-c, n)                 // N
	z.CubeTo(e-q, n, e, n+q, e, n+c) // NE
	z.LineTo(e, s-c)                 // E
	z.CubeTo(e, s-q, e-q, s, e-c, s) // SE
	z.LineTo(w+c, s)                 // S
	z.CubeTo(w+q, s, w, s-q, w, s-c) // SW
	z.LineTo(w, n+c)                 // W
	z.CubeTo(w, n+q, w+q, n, w+c, n) // NW
	z.ClosePath()
}
