// Package preview is an interactive ebiten window for tuning a shadow
// stack. Every edit re-runs the pipeline on a fresh snapshot and uploads
// the canvas as a texture; guides mark the crop and the nine-slice insets.
//
//	err := preview.Run(preview.Config{Session: shadowgen.NewSession()})
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"log"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/shadowgen"
	"github.com/phanxgames/shadowgen/export"
)

// Config configures a preview window.
type Config struct {
	Title         string
	Width, Height int
	// Session is edited in place. Nil means shadowgen.NewSession().
	Session *shadowgen.Session
	// Pipeline renders each snapshot. Nil means shadowgen.NewPipeline().
	Pipeline *shadowgen.Pipeline
	// SaveDir receives saved images. Empty means "shadows".
	SaveDir string
	Export  export.Options
	// Zoom is the initial magnification.
	Zoom float64
	// Keymap overrides DefaultKeymap.
	Keymap map[ebiten.Key]Action
	// Script, if set, is replayed one step per tick.
	Script *Script
	// ExitOnScriptEnd closes the window once Script is done.
	ExitOnScriptEnd bool
}

// DefaultKeymap maps keys to actions.
var DefaultKeymap = map[ebiten.Key]Action{
	ebiten.KeyTab:       ActionSelectNext,
	ebiten.KeyBackquote: ActionSelectPrev,
	ebiten.KeyN:         ActionAddLayer,
	ebiten.KeyDelete:    ActionRemoveLayer,
	ebiten.KeyPageUp:    ActionMoveLayerUp,
	ebiten.KeyPageDown:  ActionMoveLayerDown,
	ebiten.KeyRight:     ActionOffsetXInc,
	ebiten.KeyLeft:      ActionOffsetXDec,
	ebiten.KeyDown:      ActionOffsetYInc,
	ebiten.KeyUp:        ActionOffsetYDec,
	ebiten.KeyQ:         ActionOpacityInc,
	ebiten.KeyA:         ActionOpacityDec,
	ebiten.KeyW:         ActionBlurInc,
	ebiten.KeyS:         ActionBlurDec,
	ebiten.KeyE:         ActionWidthInc,
	ebiten.KeyD:         ActionWidthDec,
	ebiten.KeyR:         ActionHeightInc,
	ebiten.KeyF:         ActionHeightDec,
	ebiten.KeyT:         ActionRadiusInc,
	ebiten.KeyG:         ActionRadiusDec,
	ebiten.KeyEqual:     ActionScaleInc,
	ebiten.KeyMinus:     ActionScaleDec,
	ebiten.KeyB:         ActionToggleSource,
	ebiten.KeyH:         ActionToggleGuides,
	ebiten.KeyZ:         ActionZoomIn,
	ebiten.KeyX:         ActionZoomOut,
	ebiten.KeyEnter:     ActionSave,
}

// Key repeat, in ticks.
const (
	repeatDelay    = 24
	repeatInterval = 4
)

// coarseFactor multiplies steppable actions while Shift is held.
const coarseFactor = 10

func shiftHeld() bool {
	return ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
}

// firedActions returns the actions of the keys firing this tick, in key
// order. pressed reports how many ticks a key has been held. With coarse
// set, steppable actions repeat coarseFactor times.
func firedActions(keys []ebiten.Key, keymap map[ebiten.Key]Action, pressed func(ebiten.Key) int, coarse bool) []Action {
	var out []Action
	for _, k := range keys {
		if !shouldRepeat(pressed(k)) {
			continue
		}
		act := keymap[k]
		n := 1
		if coarse && act.Steppable() {
			n = coarseFactor
		}
		for range n {
			out = append(out, act)
		}
	}
	return out
}

// shouldRepeat reports whether a key held for d ticks fires this tick.
func shouldRepeat(d int) bool {
	if d == 1 {
		return true
	}
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

var (
	colorBackground = color.RGBA{0x1e, 0x1e, 0x28, 0xff}
	colorCheckLight = color.RGBA{0x66, 0x66, 0x70, 0xff}
	colorCheckDark  = color.RGBA{0x50, 0x50, 0x5a, 0xff}
	colorCrop       = color.RGBA{0x40, 0xe0, 0x70, 0xff}
	colorInset      = color.RGBA{0xe0, 0x40, 0xc0, 0xff}
)

const checkSize = 8

// App is the preview game. It implements ebiten.Game.
type App struct {
	cfg    Config
	editor *Editor
	pipe   *shadowgen.Pipeline
	zoom   *Zoom
	keymap map[ebiten.Key]Action
	keys   []ebiten.Key

	guides  bool
	dirty   bool
	result  *shadowgen.Result
	lastErr error
	status  string

	texture *ebiten.Image
	checker *ebiten.Image
}

// New returns a preview app for cfg.
func New(cfg Config) *App {
	if cfg.Title == "" {
		cfg.Title = "shadowgen"
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 800, 600
	}
	if cfg.Session == nil {
		cfg.Session = shadowgen.NewSession()
	}
	if cfg.Pipeline == nil {
		cfg.Pipeline = shadowgen.NewPipeline()
	}
	if cfg.SaveDir == "" {
		cfg.SaveDir = "shadows"
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = 4
	}
	keymap := cfg.Keymap
	if keymap == nil {
		keymap = DefaultKeymap
	}
	return &App{
		cfg:    cfg,
		editor: NewEditor(cfg.Session),
		pipe:   cfg.Pipeline,
		zoom:   NewZoom(cfg.Zoom),
		keymap: keymap,
		keys:   slices.Sorted(maps.Keys(keymap)),
		guides: true,
		dirty:  true,
	}
}

// Run opens the window and blocks until it is closed.
func Run(cfg Config) error {
	app := New(cfg)
	ebiten.SetWindowTitle(app.cfg.Title)
	ebiten.SetWindowSize(app.cfg.Width, app.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(app); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Update handles input and re-renders after edits.
func (a *App) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))

	for _, act := range firedActions(a.keys, a.keymap, inpututil.KeyPressDuration, shiftHeld()) {
		a.dispatch(act)
	}
	if a.cfg.Script != nil {
		a.cfg.Script.step(a)
		if a.cfg.ExitOnScriptEnd && a.cfg.Script.Done() && !a.dirty {
			return ebiten.Termination
		}
	}

	a.zoom.Update(dt)
	if a.dirty {
		a.render()
	}
	return nil
}

func (a *App) dispatch(act Action) {
	switch act {
	case ActionToggleGuides:
		a.guides = !a.guides
		return
	case ActionZoomIn:
		a.zoom.In()
		return
	case ActionZoomOut:
		a.zoom.Out()
		return
	case ActionSave:
		a.save("")
		return
	}
	changed, err := a.editor.Apply(act)
	if err != nil {
		a.lastErr = err
		return
	}
	if changed {
		a.dirty = true
	}
}

func (a *App) busy() bool {
	return !a.zoom.Done()
}

func (a *App) render() {
	a.dirty = false
	res, err := a.pipe.Render(a.cfg.Session.Snapshot())
	a.lastErr = err
	if res == nil || res.Canvas == nil {
		return
	}
	a.result = res
	if a.texture != nil {
		a.texture.Deallocate()
	}
	a.texture = ebiten.NewImageFromImage(res.Canvas.Image)
}

func (a *App) save(label string) {
	if a.dirty {
		a.render()
	}
	if a.result == nil || a.lastErr != nil {
		a.status = "nothing to save"
		log.Printf("shadowgen: save: %v", a.lastErr)
		return
	}
	if err := os.MkdirAll(a.cfg.SaveDir, 0o755); err != nil {
		a.status = err.Error()
		log.Printf("shadowgen: save: mkdir %s: %v", a.cfg.SaveDir, err)
		return
	}
	if label == "" {
		label = "shadow"
	}
	stamp := time.Now().Format("20060102_150405")
	path := filepath.Join(a.cfg.SaveDir, fmt.Sprintf("%s_%s.png", export.SafeName(label), stamp))
	files, err := export.Save(path, a.result, a.cfg.Export)
	if err != nil {
		a.status = err.Error()
		log.Printf("shadowgen: save: %v", err)
		return
	}
	a.status = "saved " + files[0]
	log.Printf("shadowgen: saved %s", strings.Join(files, ", "))
}

// Layout uses the window size as the screen size.
func (a *App) Layout(w, h int) (int, int) {
	return w, h
}

// Draw paints the canvas centered on a checkerboard, then guides and text.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	if a.texture != nil {
		z := a.zoom.Value
		sb := screen.Bounds()
		tb := a.texture.Bounds()
		w, h := float64(tb.Dx())*z, float64(tb.Dy())*z
		x0 := (float64(sb.Dx()) - w) / 2
		y0 := (float64(sb.Dy()) - h) / 2

		a.drawChecker(screen, image.Rect(int(x0), int(y0), int(x0+w), int(y0+h)))

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(z, z)
		op.GeoM.Translate(x0, y0)
		op.Filter = ebiten.FilterNearest
		screen.DrawImage(a.texture, op)

		if a.guides && a.result != nil {
			a.drawGuides(screen, x0, y0, z)
		}
	}

	ebitenutil.DebugPrintAt(screen, overlayText(a.editor, a.result, a.lastErr, a.status), 8, 8)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f  zoom: %.2gx", ebiten.ActualFPS(), a.zoom.Value), 8, screen.Bounds().Dy()-20)
}

func (a *App) drawChecker(screen *ebiten.Image, r image.Rectangle) {
	if a.checker == nil {
		a.checker = ebiten.NewImage(2*checkSize, 2*checkSize)
		a.checker.Fill(colorCheckLight)
		vector.FillRect(a.checker, 0, 0, checkSize, checkSize, colorCheckDark, false)
		vector.FillRect(a.checker, checkSize, checkSize, checkSize, checkSize, colorCheckDark, false)
	}
	area := screen.SubImage(r).(*ebiten.Image)
	step := 2 * checkSize
	for y := r.Min.Y; y < r.Max.Y; y += step {
		for x := r.Min.X; x < r.Max.X; x += step {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x), float64(y))
			area.DrawImage(a.checker, op)
		}
	}
}

func (a *App) drawGuides(screen *ebiten.Image, x0, y0, z float64) {
	res := a.result
	c := res.Crop
	vector.StrokeRect(screen,
		float32(x0+float64(c.Min.X)*z), float32(y0+float64(c.Min.Y)*z),
		float32(float64(c.Dx())*z), float32(float64(c.Dy())*z),
		1, colorCrop, false)

	// Inset lines run across the crop at the base shape's edges.
	base := res.Canvas.BaseRect.Translate(-float64(res.Canvas.Origin.X), -float64(res.Canvas.Origin.Y))
	top, bottom := y0+float64(c.Min.Y)*z, y0+float64(c.Max.Y)*z
	left, right := x0+float64(c.Min.X)*z, x0+float64(c.Max.X)*z
	for _, x := range []float64{base.X, base.Right()} {
		sx := float32(x0 + x*z)
		vector.StrokeLine(screen, sx, float32(top), sx, float32(bottom), 1, colorInset, false)
	}
	for _, y := range []float64{base.Y, base.Bottom()} {
		sy := float32(y0 + y*z)
		vector.StrokeLine(screen, float32(left), sy, float32(right), sy, 1, colorInset, false)
	}
}

// overlayText is the status panel: base, layers with the selection marked,
// the crop and insets, and the last error.
func overlayText(e *Editor, res *shadowgen.Result, err error, status string) string {
	var b strings.Builder
	s := e.Session
	base := s.Base()
	src := "on"
	if !s.RenderSource() {
		src = "off"
	}
	fmt.Fprintf(&b, "base %gx%g r=%g scale=%g source=%s\n", base.Width, base.Height, base.CornerRadius, base.Scale, src)
	for i, l := range s.Layers() {
		mark := " "
		if i == e.Selected {
			mark = ">"
		}
		fmt.Fprintf(&b, "%s %d: x=%g y=%g opacity=%d blur=%g\n", mark, i, l.OffsetX, l.OffsetY, l.Opacity, l.Blur)
	}
	if res != nil {
		in := res.Insets
		fmt.Fprintf(&b, "crop %dx%d insets l=%g t=%g r=%g b=%g (%s)\n",
			res.Crop.Dx(), res.Crop.Dy(), in.Left, in.Top, in.Right, in.Bottom, res.Stats.Total().Round(time.Microsecond))
	}
	if err != nil {
		fmt.Fprintf(&b, "error: %v\n", err)
	}
	if status != "" {
		b.WriteString(status + "\n")
	}
	return b.String()
}
