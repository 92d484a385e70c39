package shadowgen

import (
	"errors"
	"testing"
)

func TestShadowParamsValidate(t *testing.T) {
	tests := []struct {
		name string
		p    ShadowParams
		ok   bool
	}{
		{"default", DefaultShadowParams(), true},
		{"negative offsets", ShadowParams{OffsetX: -5, OffsetY: -3, Opacity: 100}, true},
		{"opacity over", ShadowParams{Opacity: 101}, false},
		{"opacity under", ShadowParams{Opacity: -1}, false},
		{"negative blur", ShadowParams{Opacity: 10, Blur: -0.5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.ok != (err == nil) {
				t.Fatalf("Validate() = %v, ok want %v", err, tt.ok)
			}
			if err != nil && !errors.Is(err, ErrInvalidDimension) {
				t.Fatalf("Validate() = %v, want ErrInvalidDimension", err)
			}
		})
	}
}

func TestShadowLayerScenario(t *testing.T) {
	base := DefaultBaseShape()
	l := NewShadowLayer(base, ShadowParams{OffsetX: 5, OffsetY: 5, Opacity: 50, Blur: 10}, Calibration{})

	if got := l.FillColor(); got.A != 180 || got.R != 0 || got.G != 0 || got.B != 0 {
		t.Errorf("FillColor() = %v, want black alpha 180", got)
	}
	assertNear(t, "DeviceBlurRadius", l.DeviceBlurRadius(), 28.28)
	assertRect(t, "DeviceRect", l.DeviceRect(), Rect{5, 5, 40, 40})

	fp := l.BlurFootprint(GaussianBlur{})
	assertRect(t, "BlurFootprint", fp, Rect{-24, -24, 98, 98})
	if !fp.ContainsRect(l.DeviceRect()) {
		t.Error("footprint does not contain the shadow rect")
	}
}

func TestShadowLayerFootprintFollowsBlur(t *testing.T) {
	l := NewShadowLayer(DefaultBaseShape(), ShadowParams{Opacity: 50, Blur: 10}, Calibration{})
	g := l.BlurFootprint(GaussianBlur{})
	b := l.BlurFootprint(BoxBlur{})
	// 28.28: Gaussian pads ceil(28.28) = 29, box pads 3*round(28.28/3) = 27.
	assertRect(t, "gaussian", g, Rect{-29, -29, 98, 98})
	assertRect(t, "box", b, Rect{-27, -27, 94, 94})
}

func TestFillAlphaClampAndMonotonic(t *testing.T) {
	base := DefaultBaseShape()
	prev := -1
	for op := 0; op <= 100; op++ {
		a := int(NewShadowLayer(base, ShadowParams{Opacity: op}, Calibration{}).FillAlpha())
		if a < 0 || a > 255 {
			t.Fatalf("opacity %d: alpha %d outside [0, 255]", op, a)
		}
		if a < prev {
			t.Fatalf("opacity %d: alpha %d decreased from %d", op, a, prev)
		}
		prev = a
	}
	if prev != 255 {
		t.Errorf("alpha at 100%% = %d, want 255 (clamped)", prev)
	}
	if a := NewShadowLayer(base, ShadowParams{Opacity: 0}, Calibration{}).FillAlpha(); a != 0 {
		t.Errorf("alpha at 0%% = %d, want 0", a)
	}
}

func TestFillAlphaCustomGain(t *testing.T) {
	cal := Calibration{AlphaGain: 1, BlurGain: 1, BlurMultiplier: 1}
	l := NewShadowLayer(DefaultBaseShape(), ShadowParams{Opacity: 50, Blur: 3}, cal)
	if a := l.FillAlpha(); a != 128 {
		t.Errorf("FillAlpha() = %d, want 128", a)
	}
	assertNear(t, "DeviceBlurRadius", l.DeviceBlurRadius(), 3)
}

func TestScaleLinearityLayer(t *testing.T) {
	p := ShadowParams{OffsetX: 3, OffsetY: -7, Opacity: 40, Blur: 2.5}
	b1 := BaseShape{Width: 30, Height: 20, CornerRadius: 4, Scale: 0.75}
	b2 := b1
	b2.Scale *= 2
	l1 := NewShadowLayer(b1, p, Calibration{})
	l2 := NewShadowLayer(b2, p, Calibration{})

	o1, o2 := l1.DeviceOffset(), l2.DeviceOffset()
	if o2.X != 2*o1.X || o2.Y != 2*o1.Y {
		t.Errorf("offset %v not double of %v", o2, o1)
	}
	if l2.DeviceBlurRadius() != 2*l1.DeviceBlurRadius() {
		t.Errorf("blur radius %v not double of %v", l2.DeviceBlurRadius(), l1.DeviceBlurRadius())
	}
	if l2.DeviceRadius() != 2*l1.DeviceRadius() {
		t.Errorf("corner radius %v not double of %v", l2.DeviceRadius(), l1.DeviceRadius())
	}
	r1, r2 := l1.DeviceRect(), l2.DeviceRect()
	if r2.X != 2*r1.X || r2.Y != 2*r1.Y || r2.Width != 2*r1.Width || r2.Height != 2*r1.Height {
		t.Errorf("rect %+v not double of %+v", r2, r1)
	}
}
