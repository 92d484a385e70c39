package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/phanxgames/shadowgen"
	"github.com/phanxgames/shadowgen/preset"
)

// usageError marks bad command-line input.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// layerList collects repeated -layer "x,y,opacity,blur" flags.
type layerList []shadowgen.ShadowParams

func (l *layerList) String() string {
	parts := make([]string, len(*l))
	for i, p := range *l {
		parts[i] = fmt.Sprintf("%g,%g,%d,%g", p.OffsetX, p.OffsetY, p.Opacity, p.Blur)
	}
	return strings.Join(parts, " ")
}

func (l *layerList) Set(s string) error {
	p, err := parseLayer(s)
	if err != nil {
		return err
	}
	*l = append(*l, p)
	return nil
}

func parseLayer(s string) (shadowgen.ShadowParams, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return shadowgen.ShadowParams{}, fmt.Errorf("layer %q: want x,y,opacity,blur", s)
	}
	var nums [4]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return shadowgen.ShadowParams{}, fmt.Errorf("layer %q: %w", s, err)
		}
		nums[i] = v
	}
	if nums[2] != float64(int(nums[2])) {
		return shadowgen.ShadowParams{}, fmt.Errorf("layer %q: opacity must be a whole percentage", s)
	}
	return shadowgen.ShadowParams{OffsetX: nums[0], OffsetY: nums[1], Opacity: int(nums[2]), Blur: nums[3]}, nil
}

// shapeFlags are the inputs shared by every rendering command.
type shapeFlags struct {
	width, height, radius, scale float64
	layers                       layerList
	presetName, presetFile       string
	noSource                     bool

	fill, stroke string
	strokeWidth  float64
	blur         string

	alphaGain, blurGain, blurMult float64
	verbose                       bool
}

func (f *shapeFlags) register(fs *flag.FlagSet) {
	d := shadowgen.DefaultBaseShape()
	cal := shadowgen.DefaultCalibration()
	fs.Float64Var(&f.width, "w", d.Width, "base shape width")
	fs.Float64Var(&f.height, "h", d.Height, "base shape height")
	fs.Float64Var(&f.radius, "r", d.CornerRadius, "corner radius (clamped to min(w,h)/2)")
	fs.Float64Var(&f.scale, "scale", d.Scale, "device pixels per logical unit")
	fs.Var(&f.layers, "layer", "shadow layer `x,y,opacity,blur`; repeat for more, bottom-most first")
	fs.StringVar(&f.presetName, "preset", "", "use the layers of the named preset")
	fs.StringVar(&f.presetFile, "presets", "", "YAML preset file (default: built-in presets)")
	fs.BoolVar(&f.noSource, "no-source", false, "render the shadows without the base shape")
	fs.StringVar(&f.fill, "fill", "white", "base shape fill color (name or #rrggbb[aa])")
	fs.StringVar(&f.stroke, "stroke", "", "base shape stroke color")
	fs.Float64Var(&f.strokeWidth, "stroke-width", 1, "stroke width in logical units")
	fs.StringVar(&f.blur, "blur", "gaussian", "blur kernel: gaussian or box")
	fs.Float64Var(&f.alphaGain, "alpha-gain", cal.AlphaGain, "shadow opacity gain (the three gains cannot all be 0)")
	fs.Float64Var(&f.blurGain, "blur-gain", cal.BlurGain, "blur radius gain")
	fs.Float64Var(&f.blurMult, "blur-mult", cal.BlurMultiplier, "blur radius multiplier")
	fs.BoolVar(&f.verbose, "v", false, "log per-stage timings")
}

// presetSet loads -presets, or the built-in presets when it is empty.
// Rejected entries are logged and skipped.
func (f *shapeFlags) presetSet(log *slog.Logger) (*preset.Set, error) {
	if f.presetFile == "" {
		return &preset.Set{Presets: preset.Builtin()}, nil
	}
	set, err := preset.Load(f.presetFile)
	if set == nil {
		return nil, err
	}
	logEntryErrors(log, f.presetFile, err)
	return set, nil
}

func logEntryErrors(log *slog.Logger, file string, err error) {
	if err == nil {
		return
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		log.Warn("preset rejected", slog.String("file", file), slog.Any("err", err))
		return
	}
	for _, e := range joined.Unwrap() {
		var ee *preset.EntryError
		if errors.As(e, &ee) {
			log.Warn("preset rejected",
				slog.String("file", file),
				slog.Int("index", ee.Index),
				slog.Int("line", ee.Line),
				slog.String("name", ee.Name),
				slog.Any("err", ee.Err))
			continue
		}
		log.Warn("preset rejected", slog.String("file", file), slog.Any("err", e))
	}
}

// session builds the editing session the flags describe.
func (f *shapeFlags) session(log *slog.Logger) (*shadowgen.Session, error) {
	s := shadowgen.NewSession()
	s.SetSource(f.width, f.height, f.radius)
	s.SetScale(f.scale)
	s.SetRenderSource(!f.noSource)

	switch {
	case f.presetName != "" && len(f.layers) > 0:
		return nil, usagef("-preset and -layer are mutually exclusive")
	case f.presetName != "":
		set, err := f.presetSet(log)
		if err != nil {
			return nil, err
		}
		p, ok := set.Lookup(f.presetName)
		if !ok {
			return nil, usagef("unknown preset %q (have %s)", f.presetName, strings.Join(set.Names(), ", "))
		}
		s.SetLayers(p.Layers)
	case len(f.layers) > 0:
		s.SetLayers(f.layers)
	}
	return s, nil
}

func (f *shapeFlags) snapshot(log *slog.Logger) (shadowgen.Snapshot, error) {
	s, err := f.session(log)
	if err != nil {
		return shadowgen.Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// pipeline builds the compositor the flags describe. With -v, stage
// timings go to log at debug level.
func (f *shapeFlags) pipeline(log *slog.Logger) (*shadowgen.Pipeline, error) {
	c := shadowgen.NewCompositor()

	switch f.blur {
	case "gaussian":
		c.Blur = shadowgen.GaussianBlur{}
	case "box":
		c.Blur = shadowgen.BoxBlur{}
	default:
		return nil, usagef("unknown blur %q (want gaussian or box)", f.blur)
	}

	fill, err := shadowgen.ParseColor(f.fill)
	if err != nil {
		return nil, usagef("-fill: %v", err)
	}
	c.Fill = fill
	if f.stroke != "" {
		sc, err := shadowgen.ParseColor(f.stroke)
		if err != nil {
			return nil, usagef("-stroke: %v", err)
		}
		c.Stroke = shadowgen.Stroke{Color: sc, Width: f.strokeWidth}
	}

	c.Calibration = shadowgen.Calibration{
		AlphaGain:      f.alphaGain,
		BlurGain:       f.blurGain,
		BlurMultiplier: f.blurMult,
	}
	// The library reads an all-zero Calibration as the default one.
	if c.Calibration == (shadowgen.Calibration{}) {
		return nil, usagef("-alpha-gain, -blur-gain and -blur-mult cannot all be 0")
	}
	if err := c.Calibration.Validate(); err != nil {
		return nil, err
	}

	p := &shadowgen.Pipeline{Compositor: c}
	if f.verbose {
		p.Logf = func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		}
	}
	return p, nil
}
