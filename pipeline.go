package shadowgen

import (
	"errors"
	"image"
	"slices"
	"time"
)

// Snapshot is the immutable input of one render.
type Snapshot struct {
	Base         BaseShape
	Layers       []ShadowParams
	RenderSource bool
}

// Clone returns a copy of s that shares no memory with it.
func (s Snapshot) Clone() Snapshot {
	s.Layers = slices.Clone(s.Layers)
	return s
}

// Stats holds per-stage timings of one render.
type Stats struct {
	Composite time.Duration
	Crop      time.Duration
	Insets    time.Duration
}

// Total returns the sum of all stages.
func (s Stats) Total() time.Duration {
	return s.Composite + s.Crop + s.Insets
}

// Result is the output of one render.
type Result struct {
	Snapshot Snapshot
	Canvas   *Canvas
	// Crop is the visible area, in canvas pixel coordinates.
	Crop   image.Rectangle
	Insets Insets
	Stats  Stats
}

// Cropped returns a copy of the visible area of the canvas.
func (r *Result) Cropped() *image.RGBA {
	return CropImage(r.Canvas.Image, r.Crop)
}

// Pipeline runs composite, crop and insets for one snapshot at a time.
type Pipeline struct {
	// Compositor renders the canvas. Nil means NewCompositor().
	Compositor *Compositor
	// Logf, if set, receives per-stage timings.
	Logf func(format string, args ...any)
}

// NewPipeline returns a pipeline over the default compositor.
func NewPipeline() *Pipeline {
	return &Pipeline{Compositor: NewCompositor()}
}

// Render renders s and computes the crop and insets. The snapshot is
// copied first, so the caller may keep mutating its layers.
//
// When the canvas holds no visible pixel, Render returns a Result with the
// canvas and an error matching ErrEmptyResult.
func (p *Pipeline) Render(s Snapshot) (*Result, error) {
	s = s.Clone()
	comp := NewCompositor()
	if p.Compositor != nil {
		c := *p.Compositor
		comp = &c
	}
	comp.RenderSource = s.RenderSource

	res := &Result{Snapshot: s}

	start := time.Now()
	canvas, err := comp.Render(s.Base, s.Layers)
	res.Stats.Composite = time.Since(start)
	if err != nil {
		return nil, err
	}
	res.Canvas = canvas

	start = time.Now()
	res.Crop, err = Crop(canvas.Image)
	if err == nil && s.RenderSource {
		// A fractional base edge can leave a column whose coverage rounds
		// to zero; the insets are measured against the geometric rect.
		res.Crop = res.Crop.Union(canvas.BasePixels())
	}
	res.Stats.Crop = time.Since(start)
	if err != nil {
		p.logStats(res)
		return res, err
	}

	start = time.Now()
	res.Insets, err = ComputeInsets(canvas.BaseRect, canvas.Origin, res.Crop)
	res.Stats.Insets = time.Since(start)
	p.logStats(res)
	if err != nil {
		return res, err
	}
	return res, nil
}

func (p *Pipeline) logStats(res *Result) {
	if p.Logf == nil {
		return
	}
	st := res.Stats
	p.Logf("composite: %v | crop: %v | insets: %v | total: %v",
		st.Composite, st.Crop, st.Insets, st.Total())
	p.Logf("canvas: %v origin %v | crop: %v | layers: %d",
		res.Canvas.Image.Bounds().Size(), res.Canvas.Origin, res.Crop, len(res.Snapshot.Layers))
}

// IsEmpty reports whether err is the empty-crop outcome.
func IsEmpty(err error) bool {
	return errors.Is(err, ErrEmptyResult)
}
