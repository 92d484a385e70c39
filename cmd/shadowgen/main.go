// Command shadowgen renders drop shadows for a rounded rectangle and writes
// the cropped image together with its nine-slice insets.
//
//	shadowgen render -w 120 -h 40 -r 6 -layer 0,2,30,4 -qml -o button
//	shadowgen info -preset material-2
//	shadowgen watch -presets shadows.yaml -o out
//	shadowgen presets
//	shadowgen preview -preset soft
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/phanxgames/shadowgen"
	"github.com/phanxgames/shadowgen/export"
	"github.com/phanxgames/shadowgen/preset"
	"github.com/phanxgames/shadowgen/preview"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitInvalid = 2
	exitEmpty   = 3
)

type command struct {
	name  string
	usage string
	run   func(env *env, args []string) error
}

var commands = []command{
	{"render", "render a shadow stack to PNG (+ QML/JSON)", runRender},
	{"info", "print the crop and insets of a shadow stack", runInfo},
	{"watch", "re-render every preset in a file when it changes", runWatch},
	{"presets", "list or dump presets", runPresets},
	{"preview", "open the interactive preview window", runPreview},
}

// env is what a command may touch besides its arguments.
type env struct {
	stdout, stderr io.Writer
	log            *slog.Logger
	ctx            context.Context
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "-help" || args[0] == "help" {
		printUsage(stderr)
		if len(args) == 0 {
			return exitInvalid
		}
		return exitOK
	}
	for _, c := range commands {
		if c.name != args[0] {
			continue
		}
		e := &env{stdout: stdout, stderr: stderr, ctx: ctx, log: newLogger(stderr, verbose(args[1:]))}
		err := c.run(e, args[1:])
		if err != nil && !errors.Is(err, flag.ErrHelp) {
			e.log.Error(c.name+" failed", slog.Any("err", err))
		}
		return exitCode(err)
	}
	fmt.Fprintf(stderr, "shadowgen: unknown command %q\n", args[0])
	printUsage(stderr)
	return exitInvalid
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: shadowgen <command> [flags]")
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, c := range commands {
		fmt.Fprintf(tw, "  %s\t%s\n", c.name, c.usage)
	}
	tw.Flush()
	fmt.Fprintln(w, "\nRun 'shadowgen <command> -h' for the flags of a command.")
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// verbose peeks for -v before the flag set parses, so the logger exists
// while flags are being validated.
func verbose(args []string) bool {
	for _, a := range args {
		if a == "-v" || a == "--v" || a == "-v=true" {
			return true
		}
	}
	return false
}

func exitCode(err error) int {
	var ue *usageError
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.As(err, &ue), errors.Is(err, shadowgen.ErrInvalidDimension):
		return exitInvalid
	case errors.Is(err, shadowgen.ErrEmptyResult):
		return exitEmpty
	}
	return exitFailure
}

func newFlagSet(e *env, name string) *flag.FlagSet {
	fs := flag.NewFlagSet("shadowgen "+name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return &usageError{msg: err.Error()}
	}
	if fs.NArg() > 0 {
		return usagef("unexpected arguments: %q", fs.Args())
	}
	return nil
}

func runRender(e *env, args []string) error {
	var sf shapeFlags
	var out string
	var opts export.Options
	fs := newFlagSet(e, "render")
	sf.register(fs)
	fs.StringVar(&out, "o", "shadow.png", "output PNG path (.png is appended when missing)")
	fs.BoolVar(&opts.QML, "qml", false, "also write a QML BorderImage next to the PNG")
	fs.BoolVar(&opts.JSON, "json", false, "also write JSON metadata next to the PNG")
	fs.IntVar(&opts.Thumbnail, "thumb", 0, "also write a thumbnail no larger than `N` pixels")
	if err := parse(fs, args); err != nil {
		return err
	}

	snap, err := sf.snapshot(e.log)
	if err != nil {
		return err
	}
	p, err := sf.pipeline(e.log)
	if err != nil {
		return err
	}
	res, err := p.Render(snap)
	if err != nil {
		return err
	}
	files, err := export.Save(out, res, opts)
	if err != nil {
		return err
	}
	for _, f := range files {
		e.log.Info("wrote", slog.String("file", f))
	}
	return nil
}

// info is the machine-readable output of the info command.
type info struct {
	Canvas struct {
		Width   int `json:"width"`
		Height  int `json:"height"`
		OriginX int `json:"originX"`
		OriginY int `json:"originY"`
	} `json:"canvas"`
	Crop struct {
		X      int `json:"x"`
		Y      int `json:"y"`
		Width  int `json:"width"`
		Height int `json:"height"`
	} `json:"crop"`
	Insets struct {
		Left   float64 `json:"left"`
		Top    float64 `json:"top"`
		Right  float64 `json:"right"`
		Bottom float64 `json:"bottom"`
	} `json:"insets"`
	Layers []layerInfo `json:"layers"`
	Micros int64       `json:"micros"`
}

type layerInfo struct {
	shadowgen.ShadowParams
	Alpha      uint8   `json:"alpha"`
	BlurRadius float64 `json:"blurRadius"`
}

func newInfo(res *shadowgen.Result, layers []shadowgen.ShadowLayer) info {
	var in info
	b := res.Canvas.Image.Bounds()
	in.Canvas.Width, in.Canvas.Height = b.Dx(), b.Dy()
	in.Canvas.OriginX, in.Canvas.OriginY = res.Canvas.Origin.X, res.Canvas.Origin.Y
	in.Crop.X, in.Crop.Y = res.Crop.Min.X, res.Crop.Min.Y
	in.Crop.Width, in.Crop.Height = res.Crop.Dx(), res.Crop.Dy()
	in.Insets.Left, in.Insets.Top = res.Insets.Left, res.Insets.Top
	in.Insets.Right, in.Insets.Bottom = res.Insets.Right, res.Insets.Bottom
	in.Layers = make([]layerInfo, len(layers))
	for i, l := range layers {
		in.Layers[i] = layerInfo{ShadowParams: l.Params, Alpha: l.FillAlpha(), BlurRadius: l.DeviceBlurRadius()}
	}
	in.Micros = res.Stats.Total().Microseconds()
	return in
}

func runInfo(e *env, args []string) error {
	var sf shapeFlags
	var asJSON bool
	fs := newFlagSet(e, "info")
	sf.register(fs)
	fs.BoolVar(&asJSON, "json", false, "print JSON even on a terminal")
	if err := parse(fs, args); err != nil {
		return err
	}

	snap, err := sf.snapshot(e.log)
	if err != nil {
		return err
	}
	p, err := sf.pipeline(e.log)
	if err != nil {
		return err
	}
	res, err := p.Render(snap)
	if err != nil {
		return err
	}
	in := newInfo(res, p.Compositor.Layers(snap.Base, snap.Layers))

	if asJSON || !isTerminal(e.stdout) {
		enc := json.NewEncoder(e.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(in)
	}
	return writeInfoTable(e.stdout, in)
}

func writeInfoTable(w io.Writer, in info) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "canvas\t%dx%d at (%d, %d)\n", in.Canvas.Width, in.Canvas.Height, in.Canvas.OriginX, in.Canvas.OriginY)
	fmt.Fprintf(tw, "crop\t%dx%d at (%d, %d)\n", in.Crop.Width, in.Crop.Height, in.Crop.X, in.Crop.Y)
	fmt.Fprintf(tw, "insets\tleft %g\ttop %g\tright %g\tbottom %g\n", in.Insets.Left, in.Insets.Top, in.Insets.Right, in.Insets.Bottom)
	for i, l := range in.Layers {
		fmt.Fprintf(tw, "layer %d\toffset (%g, %g)\topacity %d%% (alpha %d)\tblur %g (radius %.2f)\n",
			i, l.OffsetX, l.OffsetY, l.Opacity, l.Alpha, l.Blur, l.BlurRadius)
	}
	fmt.Fprintf(tw, "time\t%s\n", time.Duration(in.Micros)*time.Microsecond)
	return tw.Flush()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runPresets(e *env, args []string) error {
	var sf shapeFlags
	var dump bool
	fs := newFlagSet(e, "presets")
	fs.StringVar(&sf.presetFile, "presets", "", "YAML preset file (default: built-in presets)")
	fs.BoolVar(&dump, "dump", false, "print the presets as YAML")
	if err := parse(fs, args); err != nil {
		return err
	}
	set, err := sf.presetSet(e.log)
	if err != nil {
		return err
	}
	if dump {
		data, err := preset.Marshal(set.Presets)
		if err != nil {
			return err
		}
		_, err = e.stdout.Write(data)
		return err
	}
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	for _, p := range set.Presets {
		fmt.Fprintf(tw, "%s\t%d layers\n", p.Name, len(p.Layers))
	}
	return tw.Flush()
}

// renderPresets renders every preset of set into dir as <name>.png plus
// the companion files opts asks for. A preset that fails is logged and
// the rest still render.
func renderPresets(e *env, sf *shapeFlags, set *preset.Set, dir string, opts export.Options) (int, error) {
	p, err := sf.pipeline(e.log)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("shadowgen: mkdir %s: %w", dir, err)
	}
	n := 0
	for _, pr := range set.Presets {
		s, err := sf.session(e.log)
		if err != nil {
			return n, err
		}
		s.SetLayers(pr.Layers)
		res, err := p.Render(s.Snapshot())
		if err != nil {
			e.log.Error("render failed", slog.String("preset", pr.Name), slog.Any("err", err))
			continue
		}
		files, err := export.Save(filepath.Join(dir, export.SafeName(pr.Name)), res, opts)
		if err != nil {
			e.log.Error("save failed", slog.String("preset", pr.Name), slog.Any("err", err))
			continue
		}
		e.log.Info("wrote", slog.String("preset", pr.Name), slog.String("file", files[0]))
		n++
	}
	return n, nil
}

func runWatch(e *env, args []string) error {
	var sf shapeFlags
	var out string
	var once bool
	var opts export.Options
	fs := newFlagSet(e, "watch")
	sf.register(fs)
	fs.StringVar(&out, "o", "shadows", "output directory")
	fs.BoolVar(&opts.QML, "qml", true, "also write QML BorderImage files")
	fs.BoolVar(&opts.JSON, "json", false, "also write JSON metadata files")
	fs.BoolVar(&once, "once", false, "render once and exit")
	if err := parse(fs, args); err != nil {
		return err
	}
	if sf.presetFile == "" {
		return usagef("watch needs -presets")
	}
	if sf.presetName != "" || len(sf.layers) > 0 {
		return usagef("watch renders every preset; drop -preset and -layer")
	}

	render := func() error {
		set, err := sf.presetSet(e.log)
		if err != nil {
			return err
		}
		n, err := renderPresets(e, &sf, set, out, opts)
		if err != nil {
			return err
		}
		e.log.Info("rendered", slog.Int("presets", n), slog.String("dir", out))
		return nil
	}
	if err := render(); err != nil {
		if once {
			return err
		}
		e.log.Error("render failed", slog.Any("err", err))
	}
	if once {
		return nil
	}

	w, err := newPresetWatcher(sf.presetFile, 150*time.Millisecond)
	if err != nil {
		return err
	}
	defer w.Close()
	w.OnChange = func() {
		if err := render(); err != nil {
			e.log.Error("render failed", slog.Any("err", err))
		}
	}
	w.OnError = func(err error) {
		e.log.Warn("watch error", slog.Any("err", err))
	}
	e.log.Info("watching", slog.String("file", sf.presetFile))
	w.EventLoop(e.ctx)
	return nil
}

func runPreview(e *env, args []string) error {
	var sf shapeFlags
	var cfg preview.Config
	var scriptFile string
	fs := newFlagSet(e, "preview")
	sf.register(fs)
	fs.StringVar(&cfg.SaveDir, "o", "shadows", "directory for saved images")
	fs.BoolVar(&cfg.Export.QML, "qml", true, "also write QML BorderImage files on save")
	fs.Float64Var(&cfg.Zoom, "zoom", 4, "initial zoom")
	fs.StringVar(&scriptFile, "script", "", "replay a JSON action script")
	fs.BoolVar(&cfg.ExitOnScriptEnd, "exit", false, "close the window when the script ends")
	if err := parse(fs, args); err != nil {
		return err
	}

	s, err := sf.session(e.log)
	if err != nil {
		return err
	}
	p, err := sf.pipeline(e.log)
	if err != nil {
		return err
	}
	cfg.Session = s
	cfg.Pipeline = p
	if scriptFile != "" {
		data, err := os.ReadFile(scriptFile)
		if err != nil {
			return err
		}
		if cfg.Script, err = preview.LoadScript(data); err != nil {
			return &usageError{msg: err.Error()}
		}
	}
	return preview.Run(cfg)
}
