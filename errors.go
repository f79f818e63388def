package vignet

import "errors"

// Errors returned by vignet operations.
var (
	// ErrNoOverlap is returned when the source and destination grids share
	// no pixels. It is an expected outcome, not a failure of the inputs.
	ErrNoOverlap = errors.New("vignet: no overlap")

	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("vignet: invalid dimensions")

	// ErrDataTooSmall is returned when a pixel buffer is shorter than
	// width*height.
	ErrDataTooSmall = errors.New("vignet: data buffer too small")

	// ErrOutOfBounds is returned when a view does not fit in its raster.
	ErrOutOfBounds = errors.New("vignet: coordinates out of bounds")

	// ErrSizeMismatch is returned when a variance raster does not match its
	// image.
	ErrSizeMismatch = errors.New("vignet: raster sizes differ")

	// ErrNilRaster is returned when a required raster is nil.
	ErrNilRaster = errors.New("vignet: nil raster")

	// ErrInvalidStep is returned when the destination pixel scale is not
	// strictly positive.
	ErrInvalidStep = errors.New("vignet: pixel scale must be positive")

	// ErrInvalidOp is returned when Composite is given a nil operation.
	ErrInvalidOp = errors.New("vignet: invalid composite operation")
)
