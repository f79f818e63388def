// Package vignet provides the small-image ("vignette") primitives used when
// building and fitting point-spread-function models.
//
// # Overview
//
// A vignette is a small row-major float32 raster centred on a source.
// The package offers four operations on them:
//   - Resample maps a source raster onto a destination grid with a
//     shift, a scale and a separable Lanczos kernel
//   - ResamplePixel does the same for delta-function pixel bases, using an
//     unnormalized triangular kernel
//   - Composite combines a raster into another with an integer centre
//     offset and a pointwise operation
//   - ApertureFlux integrates flux and its uncertainty in a circular
//     aperture, repairing bad pixels by symmetry
//
// # Quick Start
//
//	import "github.com/gogpu/vignet"
//
//	src, _ := vignet.NewRaster(25, 25)
//	dst, _ := vignet.NewRaster(51, 51)
//
//	// Shift by a third of a pixel and oversample by 2.
//	g := vignet.Geometry{DX: 0.33, Step: 0.5, StepI: 2}
//	if err := vignet.Resample(dst, src, g); err != nil {
//	    log.Fatal(err)
//	}
//
// # Coordinate System
//
// Rasters are indexed (x, y) with x the fast axis. The centre of a raster
// of width w and height h is pixel (w/2, h/2) with integer division, so
// odd sizes have a true centre pixel and even sizes are centred half a
// pixel towards the origin. Shifts and offsets are expressed relative to
// these centres.
//
// # Concurrency
//
// All operations are safe for concurrent use on distinct destination
// rasters. Scratch memory is pooled, so no state is retained between calls.
//
// # Logging
//
// The package is silent by default. See SetLogger and WithLogger.
package vignet

// Version is the library version reported by the vignet command.
const Version = "0.1.0"
