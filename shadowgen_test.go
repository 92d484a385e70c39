package shadowgen

import (
	"image"
	"image/color"
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertRect(t *testing.T, name string, got, want Rect) {
	t.Helper()
	if math.Abs(got.X-want.X) > epsilon || math.Abs(got.Y-want.Y) > epsilon ||
		math.Abs(got.Width-want.Width) > epsilon || math.Abs(got.Height-want.Height) > epsilon {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}

// --- Rect ---

func TestRectContains(t *testing.T) {
	r := Rect{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 9, 40, false},
		{"outside below", 50, 71, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expect {
				t.Errorf("Rect%v.Contains(%v, %v) = %v, want %v", r, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

func TestRectUnion(t *testing.T) {
	a := Rect{0, 0, 40, 40}
	b := Rect{-24, 5, 10, 60}
	assertRect(t, "union", a.Union(b), Rect{-24, 0, 64, 65})
	assertRect(t, "union commutes", b.Union(a), a.Union(b))
}

func TestRectExpandTranslate(t *testing.T) {
	r := Rect{5, 5, 40, 40}
	assertRect(t, "expand", r.Expand(29), Rect{-24, -24, 98, 98})
	assertRect(t, "shrink", r.Expand(-5), Rect{10, 10, 30, 30})
	assertRect(t, "translate", r.Translate(-5, 3), Rect{0, 8, 40, 40})
}

func TestRectAligned(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want image.Rectangle
	}{
		{"integer", Rect{0, 0, 40, 40}, image.Rect(0, 0, 40, 40)},
		{"fractional", Rect{-0.5, 1.2, 10.1, 3.3}, image.Rect(-1, 1, 10, 5)},
		{"negative", Rect{-24.3, -24.3, 98.6, 98.6}, image.Rect(-25, -25, 75, 75)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Aligned(); got != tt.want {
				t.Errorf("Aligned(%+v) = %v, want %v", tt.r, got, tt.want)
			}
		})
	}
}

func TestRectContainsRect(t *testing.T) {
	outer := Rect{0, 0, 10, 10}
	if !outer.ContainsRect(Rect{0, 0, 10, 10}) {
		t.Error("rect should contain itself")
	}
	if outer.ContainsRect(Rect{1, 1, 10, 2}) {
		t.Error("overhanging rect reported as contained")
	}
}

// --- Color ---

func TestColorRGBA8Premultiplies(t *testing.T) {
	got := Color{1, 0.5, 0, 0.5}.RGBA8()
	want := color.RGBA{R: 128, G: 64, B: 0, A: 128}
	if got != want {
		t.Errorf("RGBA8() = %v, want %v", got, want)
	}
	if got := ColorWhite.RGBA8(); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("white RGBA8() = %v", got)
	}
	if got := (Color{2, -1, 0, 3}).RGBA8(); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("out-of-range components not clamped: %v", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"white", Color{1, 1, 1, 1}},
		{" Black ", Color{0, 0, 0, 1}},
		{"#ff0000", Color{1, 0, 0, 1}},
		{"#fff", Color{1, 1, 1, 1}},
		{"#00000080", Color{0, 0, 0, 128.0 / 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q): %v", tt.in, err)
			}
			assertNear(t, "R", got.R, tt.want.R)
			assertNear(t, "G", got.G, tt.want.G)
			assertNear(t, "B", got.B, tt.want.B)
			assertNear(t, "A", got.A, tt.want.A)
		})
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"", "notacolor", "#12", "#gggggg", "#1234567"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q) succeeded, want error", in)
		}
	}
}
