package axis

import (
	"math"
	"testing"

	"github.com/gogpu/vignet/internal/interp"
)

func TestLocate(t *testing.T) {
	tests := []struct {
		name   string
		src    int
		dst    int
		shift  float64
		step   float32
		want   Span
		wantOK bool
	}{
		{"identity", 8, 8, 0, 1, Span{Dst: 0, N: 8, Pos: 0}, true},
		{"odd sizes", 7, 5, 0, 1, Span{Dst: 0, N: 5, Pos: 1}, true},
		{"half pixel shift", 8, 8, 0.5, 1, Span{Dst: 0, N: 7, Pos: 0.5}, true},
		{"negative start clipped", 8, 8, -2.5, 1, Span{Dst: 3, N: 5, Pos: 0.5}, true},
		{"oversampled destination", 8, 8, 0, 0.5, Span{Dst: 0, N: 8, Pos: 2}, true},
		{"downsampled destination", 8, 8, 0, 2, Span{Dst: 3, N: 3, Pos: 2}, true},
		{"far right", 8, 8, 20, 1, Span{}, false},
		{"far left", 8, 8, -20, 1, Span{}, false},
		{"at source end", 4, 4, 4, 1, Span{}, false},
		{"inside last pixel", 4, 4, 3.5, 1, Span{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Locate(tt.src, tt.dst, tt.shift, tt.step)
			if ok != tt.wantOK {
				t.Fatalf("Locate() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Locate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMargin(t *testing.T) {
	tests := []struct {
		dstepi float64
		want   int
	}{
		{1, 6},
		{0.5, 10},
		{2, 4},
	}
	for _, tt := range tests {
		if got := Margin(tt.dstepi); got != tt.want {
			t.Errorf("Margin(%v) = %d, want %d", tt.dstepi, got, tt.want)
		}
	}
}

func TestBuildNormalizedInterior(t *testing.T) {
	for _, pos := range []float64{10, 10.25, 10.5, 13.9} {
		p := Build(Config{
			Pos:       pos,
			Step:      1,
			N:         4,
			SrcLen:    40,
			DStepI:    1,
			Kernel:    interp.Lanczos,
			Normalize: true,
		})
		for j, w := range p.Weights {
			if len(w) != 12 {
				t.Errorf("pos %v: len(Weights[%d]) = %d, want 12", pos, j, len(w))
			}
			var sum float64
			for _, v := range w {
				sum += v
			}
			if math.Abs(sum-1) > 1e-12 {
				t.Errorf("pos %v: sum(Weights[%d]) = %v, want 1", pos, j, sum)
			}
		}
	}
}

func TestBuildIntegerPositionIsIdentity(t *testing.T) {
	p := Build(Config{
		Pos:       10,
		Step:      1,
		N:         1,
		SrcLen:    40,
		DStepI:    1,
		Kernel:    interp.Lanczos,
		Normalize: true,
	})

	if p.Start[0] != 4 {
		t.Fatalf("Start[0] = %d, want 4", p.Start[0])
	}
	for i, v := range p.Weights[0] {
		want := 0.0
		if p.Start[0]+i == 10 {
			want = 1
		}
		if math.Abs(v-want) > 1e-12 {
			t.Errorf("Weights[0][%d] = %v, want %v", i, v, want)
		}
	}
}

func TestBuildTruncatesAtSourceStart(t *testing.T) {
	p := Build(Config{
		Pos:       1.5,
		Step:      1,
		N:         1,
		SrcLen:    40,
		DStepI:    1,
		Kernel:    interp.Lanczos,
		Normalize: true,
	})

	if p.Start[0] != 0 {
		t.Errorf("Start[0] = %d, want 0", p.Start[0])
	}
	// ix = 1 - 6 = -5, so 5 samples are dropped.
	if got := len(p.Weights[0]); got != 7 {
		t.Errorf("len(Weights[0]) = %d, want 7", got)
	}
}

func TestBuildTruncatesAtSourceEnd(t *testing.T) {
	p := Build(Config{
		Pos:       8.5,
		Step:      1,
		N:         1,
		SrcLen:    10,
		DStepI:    1,
		Kernel:    interp.Lanczos,
		Normalize: true,
	})

	if p.Start[0] != 2 {
		t.Errorf("Start[0] = %d, want 2", p.Start[0])
	}
	if got := len(p.Weights[0]); got != 8 {
		t.Errorf("len(Weights[0]) = %d, want 8", got)
	}
}

func TestBuildFlatFallback(t *testing.T) {
	// Every lag in the truncated window lies outside the nearest kernel.
	p := Build(Config{
		Pos:       11.9,
		Step:      1,
		N:         1,
		SrcLen:    12,
		DStepI:    1,
		Kernel:    interp.Nearest,
		Normalize: true,
	})

	for i, v := range p.Weights[0] {
		if v != 0 || math.IsNaN(v) {
			t.Errorf("Weights[0][%d] = %v, want 0", i, v)
		}
	}
}

func TestBuildUnnormalized(t *testing.T) {
	p := Build(Config{
		Pos:    10.25,
		Step:   2,
		N:      1,
		SrcLen: 40,
		DStepI: 1,
		Kernel: interp.ScaledTriangular(2),
	})

	var sum float64
	for _, v := range p.Weights[0] {
		sum += v
	}
	if math.Abs(sum-4) > 1e-12 {
		t.Errorf("sum(Weights[0]) = %v, want 4", sum)
	}
}

func TestBuildOversampledKernel(t *testing.T) {
	// stepi = 2 samples the kernel every half lag and doubles the window.
	p := Build(Config{
		Pos:       20,
		Step:      1,
		N:         1,
		SrcLen:    60,
		DStepI:    0.5,
		Kernel:    interp.Lanczos,
		Normalize: true,
	})

	if got := len(p.Weights[0]); got != 20 {
		t.Errorf("len(Weights[0]) = %d, want 20", got)
	}
	var sum float64
	for _, v := range p.Weights[0] {
		sum += v
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("sum(Weights[0]) = %v, want 1", sum)
	}
}
