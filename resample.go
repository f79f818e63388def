package vignet

import (
	"log/slog"
	"math"
	"sync"

	"github.com/gogpu/vignet/internal/axis"
	"github.com/gogpu/vignet/internal/interp"
)

// Geometry describes how a destination grid sits on a source grid.
type Geometry struct {
	// DX, DY shift the destination centre relative to the source centre,
	// in source pixels. Centres are at (w/2, h/2) with integer division.
	DX, DY float64

	// Step is the size of a destination pixel in source pixels.
	// It must be strictly positive.
	Step float32

	// StepI is the inverse oversampling factor: the kernel is sampled every
	// 1/StepI source pixels, widening its support when StepI > 1.
	// Values <= 0, NaN and +Inf are treated as 1.
	StepI float32
}

// DefaultGeometry returns the identity geometry: no shift, unit scale.
func DefaultGeometry() Geometry {
	return Geometry{Step: 1, StepI: 1}
}

// Resample shifts and scales src onto dst through separable windowed-sinc
// interpolation. Destination pixels that fall outside src are set to 0.
//
// The interpolation weights of each destination pixel are normalized to
// sum to 1. Use WithKernel to swap the Lanczos kernel for another one.
//
// Resample returns ErrNoOverlap, without touching dst, when the two grids do
// not overlap.
func Resample(dst, src *Raster, g Geometry, opts ...Option) error {
	o := buildOptions(opts)
	return resample(dst, src, g, o, interp.ForMode(o.kernel), true)
}

// ResamplePixel shifts and scales an image made of delta functions.
//
// Each source pixel is spread over the destination with a tent of half-width
// g.Step and the weights are not normalized, so isolated non-zero pixels keep
// their footprint instead of being redistributed by the normalization.
//
// ResamplePixel returns ErrNoOverlap, without touching dst, when the two
// grids do not overlap.
func ResamplePixel(dst, src *Raster, g Geometry, opts ...Option) error {
	o := buildOptions(opts)
	return resample(dst, src, g, o, interp.ScaledTriangular(float64(g.Step)), false)
}

func resample(dst, src *Raster, g Geometry, o options, k *interp.Kernel, normalize bool) error {
	if err := src.validate(); err != nil {
		return err
	}
	if err := dst.validate(); err != nil {
		return err
	}
	if !(g.Step > 0) {
		return ErrInvalidStep
	}

	stepi := g.StepI
	if !(stepi > 0) || math.IsInf(float64(stepi), 1) {
		o.logger.Warn("vignet: oversampling coerced to 1", slog.Float64("stepi", float64(stepi)))
		stepi = 1
	}
	dstepi := 1.0 / float64(stepi)

	sx, ok := axis.Locate(src.Width, dst.Width, g.DX, g.Step)
	if !ok {
		logNoOverlap(o.logger, "x", src, dst, g)
		return ErrNoOverlap
	}
	sy, ok := axis.Locate(src.Height, dst.Height, g.DY, g.Step)
	if !ok {
		logNoOverlap(o.logger, "y", src, dst, g)
		return ErrNoOverlap
	}

	// Source rows read by the x pass: the y range plus a margin for the
	// y kernel, so truncation in x does not bias the y support.
	hm := axis.Margin(dstepi)
	y0 := int(sy.Pos) - hm
	if y0 < 0 {
		y0 = 0
	}
	y1 := int(sy.Pos + float64(float32(sy.N)*g.Step) + float64(hm))
	if y1 > src.Height {
		y1 = src.Height
	}
	ny1 := y1 - y0

	out, err := dst.View(sx.Dst, sy.Dst, sx.N, sy.N)
	if err != nil {
		return err
	}
	dst.Clear()

	px := axis.Build(axis.Config{
		Pos:       sx.Pos,
		Step:      g.Step,
		N:         sx.N,
		SrcLen:    src.Width,
		DStepI:    dstepi,
		Kernel:    k,
		Normalize: normalize,
	})

	nx2 := sx.N
	tmp := getFrame(ny1 * nx2)
	defer putFrame(tmp)

	o.logger.Debug("vignet: resample",
		slog.String("kernel", k.String()),
		slog.Int("nx", sx.N), slog.Int("ny", sy.N),
		slog.Int("frame", ny1*nx2))

	// x pass: source rows y0..y1 into the ny1 x nx2 intermediate frame.
	for i := range ny1 {
		row := src.Row(y0 + i)
		line := tmp[i*nx2 : (i+1)*nx2]
		for j := range line {
			start := px.Start[j]
			var val float32
			for n, w := range px.Weights[j] {
				val = float32(float64(val) + float64(row[start+n])*w)
			}
			line[j] = val
		}
	}

	py := axis.Build(axis.Config{
		Pos:       sy.Pos - float64(y0),
		Step:      g.Step,
		N:         sy.N,
		SrcLen:    ny1,
		DStepI:    dstepi,
		Kernel:    k,
		Normalize: normalize,
	})

	// y pass: columns of the frame into the destination window.
	for j := range sy.N {
		start := py.Start[j]
		weights := py.Weights[j]
		line := out.Row(j)
		for i := range line {
			var val float32
			for n, w := range weights {
				val = float32(float64(val) + float64(tmp[(start+n)*nx2+i])*w)
			}
			line[i] = val
		}
	}

	return nil
}

func logNoOverlap(l *slog.Logger, axisName string, src, dst *Raster, g Geometry) {
	l.Debug("vignet: no overlap",
		slog.String("axis", axisName),
		slog.Int("w1", src.Width), slog.Int("h1", src.Height),
		slog.Int("w2", dst.Width), slog.Int("h2", dst.Height),
		slog.Float64("dx", g.DX), slog.Float64("dy", g.DY),
		slog.Float64("step", float64(g.Step)))
}

// frameBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type frameBuffer struct {
	data []float32
}

// framePool recycles intermediate frames between calls.
var framePool = sync.Pool{
	New: func() any {
		return &frameBuffer{data: make([]float32, 64*64)}
	},
}

// getFrame retrieves a zeroed frame of at least size elements.
func getFrame(size int) []float32 {
	fb := framePool.Get().(*frameBuffer)
	if cap(fb.data) < size {
		framePool.Put(fb)
		return make([]float32, size)
	}
	frame := fb.data[:size]
	clear(frame)
	return frame
}

// putFrame returns a frame to the pool.
func putFrame(frame []float32) {
	// Only pool vignette-sized frames.
	if cap(frame) <= 1024*1024 {
		framePool.Put(&frameBuffer{data: frame[:cap(frame)]})
	}
}
