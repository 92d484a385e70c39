package shadowgen

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/disintegration/imaging"
)

// Blur is the blur primitive the compositor feeds shadow masks through.
type Blur interface {
	// Apply returns a blurred copy of src with the same bounds. Pixels
	// outside src are treated as transparent.
	Apply(src *image.Alpha, radius float64) *image.Alpha
	// Padding returns the extra pixels needed around the source to
	// accommodate the blur at the given radius. Apply never produces a
	// non-zero pixel farther than Padding from a non-zero source pixel.
	Padding(radius float64) int
}

// GaussianBlur is a separable Gaussian blur (imaging.Blur) with
// sigma = radius/3. Its kernel reaches ceil(3*sigma) pixels on each side.
type GaussianBlur struct{}

func (GaussianBlur) sigma(radius float64) float64 {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return 0
	}
	return radius / 3
}

// Padding returns the kernel reach, or 0 for non-positive radii.
func (g GaussianBlur) Padding(radius float64) int {
	return int(math.Ceil(g.sigma(radius) * 3))
}

// Apply blurs src horizontally then vertically.
func (g GaussianBlur) Apply(src *image.Alpha, radius float64) *image.Alpha {
	pad := g.Padding(radius)
	if pad == 0 {
		return cloneAlpha(src)
	}
	out := imaging.Blur(padAlpha(src, pad), g.sigma(radius))
	return unpadAlpha(out.Pix, out.Stride, src.Rect, pad)
}

// BoxBlur approximates a Gaussian with repeated box passes (bild's
// blur.Box). Each pass spreads coverage by round(radius/Passes) pixels, so
// it grows the source by Passes times that amount, which differs from
// GaussianBlur.
type BoxBlur struct {
	// Passes is the number of box passes. Zero means 3.
	Passes int
}

func (b BoxBlur) passes() int {
	if b.Passes <= 0 {
		return 3
	}
	return b.Passes
}

// boxRadius returns the per-pass half width.
func (b BoxBlur) boxRadius(radius float64) int {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return 0
	}
	return max(int(math.Round(radius/float64(b.passes()))), 1)
}

// Padding returns Passes times the per-pass half width.
func (b BoxBlur) Padding(radius float64) int {
	return b.passes() * b.boxRadius(radius)
}

// Apply runs the box passes over src.
func (b BoxBlur) Apply(src *image.Alpha, radius float64) *image.Alpha {
	r := b.boxRadius(radius)
	if r == 0 {
		return cloneAlpha(src)
	}
	pad := b.Padding(radius)
	var cur image.Image = padAlpha(src, pad)
	var out *image.RGBA
	for range b.passes() {
		out = blur.Box(cur, float64(r))
		cur = out
	}
	return unpadAlpha(out.Pix, out.Stride, src.Rect, pad)
}

// padAlpha copies src into a transparent NRGBA image grown by pad on each
// side, with bounds starting at (0, 0). The blur libraries extend edge
// pixels outward; the margin keeps them transparent.
func padAlpha(src *image.Alpha, pad int) *image.NRGBA {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w+2*pad, h+2*pad))
	for y := 0; y < h; y++ {
		row := src.Pix[src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y):]
		d := dst.Pix[(y+pad)*dst.Stride+pad*4:]
		for x := 0; x < w; x++ {
			d[x*4+3] = row[x]
		}
	}
	return dst
}

// unpadAlpha reads the alpha channel of a 4-byte-per-pixel buffer back
// into an image with bounds r, skipping the pad margin.
func unpadAlpha(pix []uint8, stride int, r image.Rectangle, pad int) *image.Alpha {
	dst := image.NewAlpha(r)
	w := r.Dx()
	for y := 0; y < r.Dy(); y++ {
		s := pix[(y+pad)*stride+pad*4:]
		d := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			d[x] = s[x*4+3]
		}
	}
	return dst
}

func cloneAlpha(src *image.Alpha) *image.Alpha {
	dst := image.NewAlpha(src.Rect)
	w := src.Rect.Dx()
	for y := 0; y < src.Rect.Dy(); y++ {
		s := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[s:s+w])
	}
	return dst
}
