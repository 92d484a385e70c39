package shadowgen

import (
	"fmt"
	"math"
	"slices"
)

// ScaleStep is the scale increment of one slider step.
const ScaleStep = 0.25

// Session owns the editable state: the base shape fields and the ordered
// shadow layers. Presentation code reads and writes it through the methods
// below and renders from Snapshot; it never stores derived values here.
//
// A Session is not safe for concurrent mutation.
type Session struct {
	base         BaseShape
	layers       []ShadowParams
	renderSource bool
}

// NewSession returns a session with the default base shape and one
// default shadow layer.
func NewSession() *Session {
	return &Session{
		base:         DefaultBaseShape(),
		layers:       []ShadowParams{DefaultShadowParams()},
		renderSource: true,
	}
}

// Base returns the base shape.
func (s *Session) Base() BaseShape { return s.base }

// SetSource sets the logical size and corner radius. The radius is clamped
// to [0, min(width, height)/2].
func (s *Session) SetSource(width, height, radius float64) {
	s.base.Width = width
	s.base.Height = height
	s.base.CornerRadius = math.Min(math.Max(radius, 0), math.Max(math.Min(width, height)/2, 0))
}

// SetScale sets the device scale factor.
func (s *Session) SetScale(scale float64) { s.base.Scale = scale }

// SetScaleStep sets the scale from a slider position: step * ScaleStep.
func (s *Session) SetScaleStep(step int) { s.base.Scale = float64(step) * ScaleStep }

// ScaleStepOf returns the slider position closest to the current scale.
func (s *Session) ScaleStepOf() int { return int(math.Round(s.base.Scale / ScaleStep)) }

// RenderSource reports whether renders include the base shape.
func (s *Session) RenderSource() bool { return s.renderSource }

// SetRenderSource toggles painting the base shape.
func (s *Session) SetRenderSource(on bool) { s.renderSource = on }

// Len returns the number of shadow layers.
func (s *Session) Len() int { return len(s.layers) }

// Layers returns a copy of the layers, bottom-most first.
func (s *Session) Layers() []ShadowParams { return slices.Clone(s.layers) }

// Layer returns layer i.
func (s *Session) Layer(i int) (ShadowParams, error) {
	if err := s.checkIndex(i); err != nil {
		return ShadowParams{}, err
	}
	return s.layers[i], nil
}

// AddLayer appends p on top of the existing shadows and returns its index.
func (s *Session) AddLayer(p ShadowParams) int {
	s.layers = append(s.layers, p)
	return len(s.layers) - 1
}

// InsertLayer inserts p at index i (0 <= i <= Len).
func (s *Session) InsertLayer(i int, p ShadowParams) error {
	if i < 0 || i > len(s.layers) {
		return fmt.Errorf("shadowgen: insert index %d out of range [0, %d]", i, len(s.layers))
	}
	s.layers = slices.Insert(s.layers, i, p)
	return nil
}

// UpdateLayer replaces layer i.
func (s *Session) UpdateLayer(i int, p ShadowParams) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.layers[i] = p
	return nil
}

// RemoveLayer deletes layer i.
func (s *Session) RemoveLayer(i int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.layers = slices.Delete(s.layers, i, i+1)
	return nil
}

// MoveLayer moves layer from to index to, shifting the layers between.
func (s *Session) MoveLayer(from, to int) error {
	if err := s.checkIndex(from); err != nil {
		return err
	}
	if err := s.checkIndex(to); err != nil {
		return err
	}
	p := s.layers[from]
	s.layers = slices.Delete(s.layers, from, from+1)
	s.layers = slices.Insert(s.layers, to, p)
	return nil
}

// SetLayers replaces all layers with a copy of layers.
func (s *Session) SetLayers(layers []ShadowParams) {
	s.layers = slices.Clone(layers)
}

// Snapshot returns an independent copy of the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Base:         s.base,
		Layers:       slices.Clone(s.layers),
		RenderSource: s.renderSource,
	}
}

func (s *Session) checkIndex(i int) error {
	if i < 0 || i >= len(s.layers) {
		return fmt.Errorf("shadowgen: layer index %d out of range [0, %d)", i, len(s.layers))
	}
	return nil
}
