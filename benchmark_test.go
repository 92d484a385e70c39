package shadowgen

import "testing"

// benchSnapshot is a 240x80 button at 2x with a three-layer shadow.
func benchSnapshot() Snapshot {
	return Snapshot{
		Base: BaseShape{Width: 120, Height: 40, CornerRadius: 8, Scale: 2},
		Layers: []ShadowParams{
			{OffsetX: 0, OffsetY: 1, Opacity: 20, Blur: 1},
			{OffsetX: 0, OffsetY: 3, Opacity: 14, Blur: 4},
			{OffsetX: 0, OffsetY: 8, Opacity: 12, Blur: 10},
		},
		RenderSource: true,
	}
}

// --- Pipeline Benchmarks ---

func BenchmarkPipeline_Gaussian(b *testing.B) {
	p := NewPipeline()
	snap := benchSnapshot()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := p.Render(snap); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPipeline_Box(b *testing.B) {
	p := NewPipeline()
	p.Compositor.Blur = BoxBlur{}
	snap := benchSnapshot()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := p.Render(snap); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Stage Benchmarks ---

func BenchmarkGaussianBlur_R28(b *testing.B) {
	mask := squareMask(200, 50, 150)
	var blur GaussianBlur
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		blur.Apply(mask, 28.28)
	}
}

func BenchmarkBoxBlur_R28(b *testing.B) {
	mask := squareMask(200, 50, 150)
	var blur BoxBlur
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		blur.Apply(mask, 28.28)
	}
}

func BenchmarkCrop(b *testing.B) {
	res, err := NewPipeline().Render(benchSnapshot())
	if err != nil {
		b.Fatal(err)
	}
	img := res.Canvas.Image
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Crop(img); err != nil {
			b.Fatal(err)
		}
	}
}
