// Package export writes rendered shadows to disk: the cropped PNG plus
// nine-slice metadata describing where the base shape sits inside it.
package export

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/draw"

	"github.com/phanxgames/shadowgen"
)

// EnsurePNGExt appends ".png" to name unless it already ends with it, in
// any letter case.
func EnsurePNGExt(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".png") {
		return name
	}
	return name + ".png"
}

// CompanionPath returns the path next to pngPath with its extension
// replaced by ext, e.g. "out/card.png" and ".qml" give "out/card.qml".
func CompanionPath(pngPath, ext string) string {
	return strings.TrimSuffix(pngPath, filepath.Ext(pngPath)) + ext
}

// Unpremultiply converts a premultiplied image to straight alpha. The
// result's bounds start at (0, 0).
func Unpremultiply(src *image.RGBA) *image.NRGBA {
	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Rect, src, b.Min, draw.Src)
	return img
}

// EncodePNG writes img to w as a straight-alpha PNG.
func EncodePNG(w io.Writer, img *image.RGBA) error {
	return png.Encode(w, Unpremultiply(img))
}

// WritePNG encodes img to a PNG file at path.
func WritePNG(path string, img *image.RGBA) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("shadowgen: create %s: %w", path, err)
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("shadowgen: encode %s: %w", path, err)
	}
	return f.Close()
}

// QML writes a QtQuick BorderImage item that stretches the image named
// source around its parent, with the insets as border widths and negative
// anchor margins.
func QML(w io.Writer, source string, in shadowgen.Insets) error {
	_, err := fmt.Fprintf(w, `import QtQuick 2.0

Item {
  BorderImage {
    source: %s

    anchors {
      fill: parent
      leftMargin: -border.left; topMargin: -border.top
      rightMargin: -border.right; bottomMargin: -border.bottom
    }

    border.left: %s; border.top: %s
    border.right: %s; border.bottom: %s
  }
}
`, strconv.Quote(source), num(in.Left), num(in.Top), num(in.Right), num(in.Bottom))
	return err
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Metadata is the JSON description of an exported image.
type Metadata struct {
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Insets struct {
		Left   float64 `json:"left"`
		Top    float64 `json:"top"`
		Right  float64 `json:"right"`
		Bottom float64 `json:"bottom"`
	} `json:"insets"`
	Base struct {
		Width        float64 `json:"width"`
		Height       float64 `json:"height"`
		CornerRadius float64 `json:"cornerRadius"`
		Scale        float64 `json:"scale"`
	} `json:"base"`
	RenderSource bool                     `json:"renderSource"`
	Layers       []shadowgen.ShadowParams `json:"layers"`
}

// NewMetadata describes res exported as the image named source.
func NewMetadata(source string, res *shadowgen.Result) Metadata {
	var m Metadata
	m.Image = source
	m.Width = res.Crop.Dx()
	m.Height = res.Crop.Dy()
	m.Insets.Left = res.Insets.Left
	m.Insets.Top = res.Insets.Top
	m.Insets.Right = res.Insets.Right
	m.Insets.Bottom = res.Insets.Bottom
	b := res.Snapshot.Base
	m.Base.Width = b.Width
	m.Base.Height = b.Height
	m.Base.CornerRadius = b.CornerRadius
	m.Base.Scale = b.Scale
	m.RenderSource = res.Snapshot.RenderSource
	m.Layers = res.Snapshot.Layers
	if m.Layers == nil {
		m.Layers = []shadowgen.ShadowParams{}
	}
	return m
}

// JSON writes the indented Metadata of res.
func JSON(w io.Writer, source string, res *shadowgen.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewMetadata(source, res))
}

// Thumbnail scales img down so neither side exceeds maxSide. Images that
// already fit are returned unchanged.
func Thumbnail(img *image.RGBA, maxSide int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img
	}
	tw, th := maxSide, maxSide
	if w >= h {
		th = max(1, h*maxSide/w)
	} else {
		tw = max(1, w*maxSide/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Options selects the companion files Save writes.
type Options struct {
	QML  bool
	JSON bool
	// Thumbnail, if positive, also writes "<base>.thumb.png" no larger
	// than Thumbnail pixels on a side.
	Thumbnail int
}

// Save writes the cropped image of res to path (".png" is appended when
// missing) and the companion files opts asks for. It returns the paths
// written, PNG first.
func Save(path string, res *shadowgen.Result, opts Options) ([]string, error) {
	path = EnsurePNGExt(path)
	img := res.Cropped()
	if err := WritePNG(path, img); err != nil {
		return nil, err
	}
	written := []string{path}
	source := filepath.Base(path)

	if opts.QML {
		p := CompanionPath(path, ".qml")
		if err := writeFile(p, func(w io.Writer) error { return QML(w, source, res.Insets) }); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	if opts.JSON {
		p := CompanionPath(path, ".json")
		if err := writeFile(p, func(w io.Writer) error { return JSON(w, source, res) }); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	if opts.Thumbnail > 0 {
		p := CompanionPath(path, ".thumb.png")
		if err := WritePNG(p, Thumbnail(img, opts.Thumbnail)); err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("shadowgen: create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("shadowgen: write %s: %w", path, err)
	}
	return f.Close()
}

// SafeName replaces characters that are unsafe in file names with
// underscores and falls back to "unnamed" for empty strings.
func SafeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unnamed"
	}
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
