package export

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/phanxgames/shadowgen"
)

func TestEnsurePNGExt(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"card", "card.png"},
		{"card.png", "card.png"},
		{"card.PNG", "card.PNG"},
		{"card.jpg", "card.jpg.png"},
		{"dir.v2/card", "dir.v2/card.png"},
	}
	for _, tt := range tests {
		if got := EnsurePNGExt(tt.in); got != tt.want {
			t.Errorf("EnsurePNGExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCompanionPath(t *testing.T) {
	if got := CompanionPath("out/card.png", ".qml"); got != "out/card.qml" {
		t.Errorf("CompanionPath = %q", got)
	}
	if got := CompanionPath("out/a.b.png", ".json"); got != "out/a.b.json" {
		t.Errorf("CompanionPath = %q", got)
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"material-2", "material-2"},
		{"v1.5", "v1.5"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"", "unnamed"},
		{"   ", "unnamed"},
	}
	for _, tt := range tests {
		if got := SafeName(tt.in); got != tt.want {
			t.Errorf("SafeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 1))
	src.SetRGBA(0, 0, color.RGBA{64, 0, 32, 128})
	src.SetRGBA(1, 0, color.RGBA{255, 255, 255, 255})
	dst := Unpremultiply(src)

	tests := []struct {
		x    int
		want color.NRGBA
	}{
		{0, color.NRGBA{127, 0, 63, 128}},
		{1, color.NRGBA{255, 255, 255, 255}},
		{2, color.NRGBA{}},
	}
	for _, tt := range tests {
		if got := dst.NRGBAAt(tt.x, 0); got != tt.want {
			t.Errorf("pixel %d = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestUnpremultiplySubImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	src.SetRGBA(2, 3, color.RGBA{0, 0, 0, 200})
	sub := src.SubImage(image.Rect(2, 2, 4, 4)).(*image.RGBA)
	dst := Unpremultiply(sub)
	if dst.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", dst.Bounds())
	}
	if got := dst.NRGBAAt(0, 1).A; got != 200 {
		t.Errorf("alpha = %d, want 200", got)
	}
}

func TestQML(t *testing.T) {
	var buf bytes.Buffer
	err := QML(&buf, "card.png", shadowgen.Insets{Left: 14, Top: 14, Right: 26, Bottom: 24.5})
	if err != nil {
		t.Fatal(err)
	}
	want := `import QtQuick 2.0

Item {
  BorderImage {
    source: "card.png"

    anchors {
      fill: parent
      leftMargin: -border.left; topMargin: -border.top
      rightMargin: -border.right; bottomMargin: -border.bottom
    }

    border.left: 14; border.top: 14
    border.right: 26; border.bottom: 24.5
  }
}
`
	if got := buf.String(); got != want {
		t.Errorf("QML mismatch:\n%s\nwant:\n%s", got, want)
	}
}

func scenarioResult(t *testing.T) *shadowgen.Result {
	t.Helper()
	res, err := shadowgen.NewPipeline().Render(shadowgen.Snapshot{
		Base:         shadowgen.DefaultBaseShape(),
		Layers:       []shadowgen.ShadowParams{{OffsetX: 5, OffsetY: 5, Opacity: 50, Blur: 10}},
		RenderSource: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestJSON(t *testing.T) {
	res := scenarioResult(t)
	var buf bytes.Buffer
	if err := JSON(&buf, "card.png", res); err != nil {
		t.Fatal(err)
	}
	var m Metadata
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	if m.Image != "card.png" || m.Width != res.Crop.Dx() || m.Height != res.Crop.Dy() {
		t.Errorf("metadata header = %s", spew.Sdump(m))
	}
	if m.Insets.Left != res.Insets.Left || m.Insets.Bottom != res.Insets.Bottom {
		t.Errorf("insets = %+v, want %+v", m.Insets, res.Insets)
	}
	if len(m.Layers) != 1 || m.Layers[0].Blur != 10 || m.Base.Scale != 1 {
		t.Errorf("snapshot not carried: %s", spew.Sdump(m))
	}
	if !strings.Contains(buf.String(), `"opacity": 50`) {
		t.Errorf("layer keys not lower case:\n%s", buf.String())
	}
}

func TestSave(t *testing.T) {
	res := scenarioResult(t)
	dir := t.TempDir()
	files, err := Save(filepath.Join(dir, "card"), res, Options{QML: true, JSON: true, Thumbnail: 16})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"card.png", "card.qml", "card.json", "card.thumb.png"}
	if len(files) != len(want) {
		t.Fatalf("files = %q", files)
	}
	for i, name := range want {
		if files[i] != filepath.Join(dir, name) {
			t.Errorf("file %d = %q, want %q", i, files[i], name)
		}
	}

	f, err := os.Open(files[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Size() != res.Crop.Size() {
		t.Errorf("png size %v, want %v", img.Bounds().Size(), res.Crop.Size())
	}

	qml, err := os.ReadFile(files[1])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(qml), `source: "card.png"`) {
		t.Errorf("qml does not reference the png:\n%s", qml)
	}
}

func TestThumbnail(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 98, 80))
	if got := Thumbnail(img, 49).Bounds(); got != image.Rect(0, 0, 49, 40) {
		t.Errorf("Thumbnail bounds = %v, want 49x40", got)
	}
	if got := Thumbnail(img, 200); got != img {
		t.Error("image that fits was copied")
	}
	tall := image.NewRGBA(image.Rect(0, 0, 10, 100))
	if got := Thumbnail(tall, 20).Bounds(); got != image.Rect(0, 0, 2, 20) {
		t.Errorf("tall Thumbnail bounds = %v, want 2x20", got)
	}
}
