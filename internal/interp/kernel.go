// Package interp provides the 1D interpolation kernels used to resample
// vignettes.
//
// All kernels are even, compactly supported functions of a real-valued lag.
// Their guards and operation order are fixed so that resampled PSF models
// are reproducible to the last bit.
package interp

import (
	"math"

	"golang.org/x/image/draw"
)

const (
	// Width is the interpolation function range in samples. Resamplers use
	// Width/2 to size the margin they read around each output sample.
	Width = 9

	// Envelope is the Lanczos envelope factor. It is also the support radius
	// of the Lanczos kernel.
	Envelope = 5.0

	// lagEpsilon guards the removable singularity of the sinc at lag 0.
	lagEpsilon = 1e-5
)

// Mode selects one of the interchangeable interpolation kernels.
type Mode uint8

const (
	// ModeLanczos is the windowed-sinc kernel, the default for resampling.
	ModeLanczos Mode = iota

	// ModeTriangular is the linear (tent) kernel max(0, 1-|x|).
	ModeTriangular

	// ModeNearest is the box kernel: 1 for |x| <= 0.5, 0 elsewhere.
	ModeNearest
)

// String returns a string representation of the kernel mode.
func (m Mode) String() string {
	switch m {
	case ModeLanczos:
		return "Lanczos"
	case ModeTriangular:
		return "Triangular"
	case ModeNearest:
		return "Nearest"
	default:
		return "Unknown"
	}
}

// ParseMode returns the mode whose lower-cased name is s.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "lanczos":
		return ModeLanczos, true
	case "triangular", "linear":
		return ModeTriangular, true
	case "nearest":
		return ModeNearest, true
	default:
		return 0, false
	}
}

// Kernel is an even interpolation kernel with compact support.
type Kernel struct {
	name    string
	support float64
	weight  func(x float64) float64
}

// Weight returns the kernel value at lag x. It is defined for every real x.
func (k *Kernel) Weight(x float64) float64 {
	return k.weight(x)
}

// Support returns the radius beyond which Weight is zero.
func (k *Kernel) Support() float64 {
	return k.support
}

// String returns the kernel name.
func (k *Kernel) String() string {
	return k.name
}

// Draw adapts the kernel to golang.org/x/image/draw so it can drive the
// standard image scalers. draw only evaluates At on [0, Support), which is
// enough because every kernel here is even.
func (k *Kernel) Draw() *draw.Kernel {
	return &draw.Kernel{Support: k.support, At: k.weight}
}

var (
	// Lanczos is the windowed-sinc kernel with envelope Envelope.
	Lanczos = &Kernel{name: "Lanczos", support: Envelope, weight: lanczos}

	// Triangular is the linear interpolation kernel.
	Triangular = &Kernel{name: "Triangular", support: 1, weight: triangular}

	// Nearest is the nearest-neighbour kernel.
	Nearest = &Kernel{name: "Nearest", support: 0.5, weight: nearest}
)

// ForMode returns the kernel for mode m. Unknown modes fall back to Lanczos.
func ForMode(m Mode) *Kernel {
	switch m {
	case ModeTriangular:
		return Triangular
	case ModeNearest:
		return Nearest
	default:
		return Lanczos
	}
}

// ScaledTriangular returns the tent kernel of half-width s and peak s,
// max(0, s-|x|). It is the pixel footprint used to resample images made of
// delta functions; at s == 1 it coincides with Triangular.
func ScaledTriangular(s float64) *Kernel {
	return &Kernel{
		name:    "ScaledTriangular",
		support: s,
		weight: func(x float64) float64 {
			if math.Abs(x) > s {
				return 0
			}
			return s - math.Abs(x)
		},
	}
}

func lanczos(x float64) float64 {
	if x < lagEpsilon && x > -lagEpsilon {
		return 1
	}
	if x > Envelope || x < -Envelope {
		return 0
	}
	return math.Sin(math.Pi*x) * math.Sin(math.Pi/Envelope*x) / (math.Pi * math.Pi / Envelope * x * x)
}

func triangular(x float64) float64 {
	if math.Abs(x) > 1 {
		return 0
	}
	return 1 - math.Abs(x)
}

func nearest(x float64) float64 {
	if math.Abs(x) > 0.5 {
		return 0
	}
	return 1
}
