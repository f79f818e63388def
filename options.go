package vignet

import (
	"log/slog"

	"github.com/gogpu/vignet/internal/interp"
)

// Option configures a single resampling call.
// Use functional options to customize the interpolant or logging.
//
// Example:
//
//	// Default Lanczos resampling
//	err := vignet.Resample(dst, src, g)
//
//	// Bilinear-style resampling with a call-scoped logger
//	err := vignet.Resample(dst, src, g,
//		vignet.WithKernel(vignet.KernelTriangular),
//		vignet.WithLogger(logger))
type Option func(*options)

// options holds optional configuration for a resampling call.
type options struct {
	kernel interp.Mode
	logger *slog.Logger
}

// defaultOptions returns the default call options.
func defaultOptions() options {
	return options{
		kernel: interp.ModeLanczos,
		logger: nil, // Falls back to Logger() if nil
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	return o
}

// KernelMode selects the interpolant used by Resample.
type KernelMode = interp.Mode

// Interpolants available to Resample.
const (
	KernelLanczos    = interp.ModeLanczos
	KernelTriangular = interp.ModeTriangular
	KernelNearest    = interp.ModeNearest
)

// WithKernel sets the interpolant used by Resample. It has no effect on
// ResamplePixel, which always uses the pixel footprint kernel.
func WithKernel(m KernelMode) Option {
	return func(o *options) {
		o.kernel = m
	}
}

// WithLogger overrides the package logger for one call.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
