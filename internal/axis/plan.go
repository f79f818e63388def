// Package axis plans one-dimensional resampling passes.
//
// A separable resampler runs two passes, one per axis. For each pass the
// planner answers two questions: which destination samples overlap the
// source at all (Locate), and which source samples feed each destination
// sample with what weight (Build).
package axis

import "github.com/gogpu/vignet/internal/interp"

// Span locates the destination samples of one axis that overlap the source.
type Span struct {
	// Dst is the index of the first overlapping destination sample.
	Dst int

	// N is the number of overlapping destination samples.
	N int

	// Pos is the continuous source coordinate of destination sample Dst.
	Pos float64
}

// Locate maps a destination axis of length dstLen onto a source axis of
// length srcLen. The destination centre sits at shift source pixels from the
// source centre, and step is the source distance between two destination
// samples. Centres are len/2 with integer division.
//
// ok is false when the axes do not overlap.
func Locate(srcLen, dstLen int, shift float64, step float32) (s Span, ok bool) {
	step64 := float64(step)
	pos := float64(srcLen/2) + shift - float64(dstLen/2)*step64

	if int(pos) >= srcLen {
		return Span{}, false
	}
	if pos < 0 {
		skip := int(1 - pos/step64)
		if skip >= dstLen {
			return Span{}, false
		}
		s.Dst = skip
		pos += float64(float32(skip) * step)
	}

	n := int((float64(srcLen-1)-pos)/step64 + 1)
	if rest := dstLen - s.Dst; n > rest {
		n = rest
	}
	if n <= 0 {
		return Span{}, false
	}

	s.N = n
	s.Pos = pos
	return s, true
}

// Margin returns the half-length, in source samples, of the window read
// around each destination sample when the kernel is sampled every dstepi
// source pixels.
func Margin(dstepi float64) int {
	return int(float64(interp.Width/2)/dstepi) + 2
}

// Plan holds, for every destination sample of a pass, the source index of
// its first contributing sample and the weights of the contributing run.
type Plan struct {
	Start   []int
	Weights [][]float64
}

// Config describes one pass.
type Config struct {
	// Pos is the source coordinate of the first destination sample.
	Pos float64

	// Step is the source distance between consecutive destination samples.
	Step float32

	// N is the number of destination samples.
	N int

	// SrcLen truncates the window at the end of the source.
	SrcLen int

	// DStepI is the lag increment between consecutive kernel samples.
	DStepI float64

	// Kernel evaluates the interpolant.
	Kernel *interp.Kernel

	// Normalize divides each weight vector by its sum.
	Normalize bool
}

// Build computes the plan of one pass. Windows are 2*Margin(DStepI) long and
// truncated at both ends of the source.
//
// With Normalize set, each weight vector is divided by its sum; when the sum
// is not positive the vector is scaled by DStepI instead, a flat
// reconstruction for windows whose support has slid off the source.
func Build(c Config) *Plan {
	half := Margin(c.DStepI)
	length := 2 * half

	p := &Plan{
		Start:   make([]int, c.N),
		Weights: make([][]float64, c.N),
	}
	store := make([]float64, c.N*length)

	x1 := c.Pos
	for j := 0; j < c.N; j, x1 = j+1, x1+float64(c.Step) {
		ix1 := int(x1)
		ix := ix1 - half
		lag := (float64(ix1) - x1 - float64(half)) * c.DStepI

		n := length
		if ix < 0 {
			n = length + ix
			lag -= float64(ix) * c.DStepI
			ix = 0
		}
		if t := c.SrcLen - ix; n > t {
			n = t
		}
		if n < 0 {
			n = 0
		}

		mask := store[j*length : j*length+n]
		var sum float64
		x := lag
		for i := range mask {
			mask[i] = c.Kernel.Weight(x)
			sum += mask[i]
			x += c.DStepI
		}

		if c.Normalize {
			norm := c.DStepI
			if sum > 0 {
				norm = 1 / sum
			}
			for i := range mask {
				mask[i] *= norm
			}
		}

		p.Start[j] = ix
		p.Weights[j] = mask
	}

	return p
}
