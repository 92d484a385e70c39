package preview

import (
	"fmt"

	"github.com/phanxgames/shadowgen"
)

// Action is one editing or view command.
type Action uint8

const (
	ActionNone Action = iota

	// Layer selection and list editing.
	ActionSelectNext
	ActionSelectPrev
	ActionAddLayer
	ActionRemoveLayer
	ActionMoveLayerUp
	ActionMoveLayerDown

	// Selected layer parameters.
	ActionOffsetXInc
	ActionOffsetXDec
	ActionOffsetYInc
	ActionOffsetYDec
	ActionOpacityInc
	ActionOpacityDec
	ActionBlurInc
	ActionBlurDec

	// Base shape.
	ActionWidthInc
	ActionWidthDec
	ActionHeightInc
	ActionHeightDec
	ActionRadiusInc
	ActionRadiusDec
	ActionScaleInc
	ActionScaleDec
	ActionToggleSource

	// View.
	ActionToggleGuides
	ActionZoomIn
	ActionZoomOut
	ActionSave
)

var actionNames = map[Action]string{
	ActionSelectNext:    "select-next",
	ActionSelectPrev:    "select-prev",
	ActionAddLayer:      "add-layer",
	ActionRemoveLayer:   "remove-layer",
	ActionMoveLayerUp:   "move-up",
	ActionMoveLayerDown: "move-down",
	ActionOffsetXInc:    "x+",
	ActionOffsetXDec:    "x-",
	ActionOffsetYInc:    "y+",
	ActionOffsetYDec:    "y-",
	ActionOpacityInc:    "opacity+",
	ActionOpacityDec:    "opacity-",
	ActionBlurInc:       "blur+",
	ActionBlurDec:       "blur-",
	ActionWidthInc:      "width+",
	ActionWidthDec:      "width-",
	ActionHeightInc:     "height+",
	ActionHeightDec:     "height-",
	ActionRadiusInc:     "radius+",
	ActionRadiusDec:     "radius-",
	ActionScaleInc:      "scale+",
	ActionScaleDec:      "scale-",
	ActionToggleSource:  "toggle-source",
	ActionToggleGuides:  "toggle-guides",
	ActionZoomIn:        "zoom-in",
	ActionZoomOut:       "zoom-out",
	ActionSave:          "save",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "none"
}

// Steppable reports whether a nudges a numeric value, so a held modifier
// may repeat it.
func (a Action) Steppable() bool {
	return a >= ActionOffsetXInc && a <= ActionScaleDec
}

// ParseAction returns the action named s.
func ParseAction(s string) (Action, error) {
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("shadowgen: unknown action %q", s)
}

// Step sizes of one key press, in logical units.
const (
	offsetStep  = 1
	opacityStep = 1
	blurStep    = 0.5
	sizeStep    = 1
	radiusStep  = 1
)

// Editor applies actions to a Session and tracks the selected layer.
type Editor struct {
	Session  *shadowgen.Session
	Selected int
}

// NewEditor returns an editor over s with the first layer selected.
func NewEditor(s *shadowgen.Session) *Editor {
	return &Editor{Session: s}
}

// Apply performs a on the session. It reports whether the session changed
// and so needs a new render. View actions return false.
func (e *Editor) Apply(a Action) (bool, error) {
	s := e.Session
	switch a {
	case ActionSelectNext:
		if s.Len() > 0 {
			e.Selected = (e.Selected + 1) % s.Len()
		}
		return false, nil
	case ActionSelectPrev:
		if s.Len() > 0 {
			e.Selected = (e.Selected - 1 + s.Len()) % s.Len()
		}
		return false, nil
	case ActionAddLayer:
		e.Selected = s.AddLayer(shadowgen.DefaultShadowParams())
		return true, nil
	case ActionRemoveLayer:
		if s.Len() == 0 {
			return false, nil
		}
		if err := s.RemoveLayer(e.Selected); err != nil {
			return false, err
		}
		e.clampSelection()
		return true, nil
	case ActionMoveLayerUp, ActionMoveLayerDown:
		to := e.Selected + 1
		if a == ActionMoveLayerDown {
			to = e.Selected - 1
		}
		if to < 0 || to >= s.Len() {
			return false, nil
		}
		if err := s.MoveLayer(e.Selected, to); err != nil {
			return false, err
		}
		e.Selected = to
		return true, nil

	case ActionOffsetXInc:
		return e.edit(func(p *shadowgen.ShadowParams) { p.OffsetX += offsetStep })
	case ActionOffsetXDec:
		return e.edit(func(p *shadowgen.ShadowParams) { p.OffsetX -= offsetStep })
	case ActionOffsetYInc:
		return e.edit(func(p *shadowgen.ShadowParams) { p.OffsetY += offsetStep })
	case ActionOffsetYDec:
		return e.edit(func(p *shadowgen.ShadowParams) { p.OffsetY -= offsetStep })
	case ActionOpacityInc:
		return e.edit(func(p *shadowgen.ShadowParams) { p.Opacity = min(p.Opacity+opacityStep, 100) })
	case ActionOpacityDec:
		return e.edit(func(p *shadowgen.ShadowParams) { p.Opacity = max(p.Opacity-opacityStep, 0) })
	case ActionBlurInc:
		return e.edit(func(p *shadowgen.ShadowParams) { p.Blur += blurStep })
	case ActionBlurDec:
		return e.edit(func(p *shadowgen.ShadowParams) { p.Blur = max(p.Blur-blurStep, 0) })

	case ActionWidthInc, ActionWidthDec, ActionHeightInc, ActionHeightDec, ActionRadiusInc, ActionRadiusDec:
		b := s.Base()
		switch a {
		case ActionWidthInc:
			b.Width += sizeStep
		case ActionWidthDec:
			b.Width = max(b.Width-sizeStep, sizeStep)
		case ActionHeightInc:
			b.Height += sizeStep
		case ActionHeightDec:
			b.Height = max(b.Height-sizeStep, sizeStep)
		case ActionRadiusInc:
			b.CornerRadius += radiusStep
		case ActionRadiusDec:
			b.CornerRadius -= radiusStep
		}
		before := s.Base()
		s.SetSource(b.Width, b.Height, b.CornerRadius)
		return s.Base() != before, nil
	case ActionScaleInc:
		s.SetScaleStep(s.ScaleStepOf() + 1)
		return true, nil
	case ActionScaleDec:
		step := s.ScaleStepOf()
		if step <= 1 {
			return false, nil
		}
		s.SetScaleStep(step - 1)
		return true, nil
	case ActionToggleSource:
		s.SetRenderSource(!s.RenderSource())
		return true, nil
	}
	return false, nil
}

func (e *Editor) edit(fn func(*shadowgen.ShadowParams)) (bool, error) {
	p, err := e.Session.Layer(e.Selected)
	if err != nil {
		return false, nil
	}
	before := p
	fn(&p)
	if p == before {
		return false, nil
	}
	return true, e.Session.UpdateLayer(e.Selected, p)
}

func (e *Editor) clampSelection() {
	if e.Selected >= e.Session.Len() {
		e.Selected = e.Session.Len() - 1
	}
	if e.Selected < 0 {
		e.Selected = 0
	}
}
