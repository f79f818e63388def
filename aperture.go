package vignet

import (
	"log/slog"
	"math"
)

const (
	// ApertureOversample is the number of sub-samples per pixel side used to
	// estimate the covered fraction of pixels crossing the aperture edge.
	ApertureOversample = 5

	// apertureMargin widens the boundary annulus on both sides. Pixels closer
	// to the centre than r-apertureMargin are fully inside the aperture,
	// pixels farther than r+apertureMargin fully outside. It must exceed
	// half the pixel diagonal.
	apertureMargin = 0.75
)

// Aperture describes a circular aperture on a raster.
type Aperture struct {
	// DXC, DYC offset the aperture centre from the raster centre
	// (w/2, h/2, integer division), in pixels.
	DXC, DYC float32

	// Diameter is the aperture diameter in pixels.
	Diameter float32

	// Gain is the detector gain in e-/ADU. Non-positive disables shot noise.
	Gain float32

	// BackNoise is the background noise RMS. Its square is the per-pixel
	// variance when no variance raster is given.
	BackNoise float32

	// PixelGain selects the shot-noise model. When false, flux/Gain is added
	// once to the total variance. When true, every positive pixel adds
	// pix/Gain scaled by its variance relative to BackNoise².
	PixelGain bool
}

// Photometry is the result of an aperture measurement.
type Photometry struct {
	// Flux is the summed flux inside the aperture.
	Flux float64

	// FluxErr is the 1-sigma flux uncertainty.
	FluxErr float64

	// Area is the aperture area actually integrated, in pixels.
	Area float64

	// Inside reports whether the aperture fit in the raster. When false the
	// other fields are zero.
	Inside bool
}

// ApertureFlux integrates img inside a circular aperture.
//
// Pixels crossing the aperture edge are weighted by the fraction of an
// ApertureOversample x ApertureOversample sub-grid they put inside the
// circle. Bad pixels (value <= -Big, or variance >= Big/2) are replaced by
// their point reflection through the aperture centre when that pixel is
// valid, and ignored otherwise.
//
// variance may be nil, in which case every pixel has variance BackNoise².
// If the aperture's bounding box does not fit in img, ApertureFlux returns a
// zero Photometry and a nil error. Of the options only WithLogger applies.
func ApertureFlux(img, variance *Raster, ap Aperture, opts ...Option) (Photometry, error) {
	if err := img.validate(); err != nil {
		return Photometry{}, err
	}
	if variance != nil {
		if err := variance.validate(); err != nil {
			return Photometry{}, err
		}
		if variance.Width != img.Width || variance.Height != img.Height {
			return Photometry{}, ErrSizeMismatch
		}
	}

	w, h := img.Width, img.Height

	backVar := ap.BackNoise * ap.BackNoise
	var invBackVar, invGain float32
	if backVar > 0 {
		invBackVar = 1 / backVar
	}
	if ap.Gain > 0 {
		invGain = 1 / ap.Gain
	}

	raper := ap.Diameter / 2
	raper2 := raper * raper
	var rint2 float32
	if rint := raper - apertureMargin; rint > 0 {
		rint2 = rint * rint
	}
	rext2 := (raper + apertureMargin) * (raper + apertureMargin)

	scale := float32(1.0 / ApertureOversample)
	scale2 := scale * scale
	offset := 0.5 * (scale - 1)
	var vthresh float32 = Big / 2

	mx := ap.DXC + float32(w/2)
	my := ap.DYC + float32(h/2)

	xmin := int(float64(mx-raper) + 0.499999)
	xmax := int(float64(mx+raper) + 1.499999)
	ymin := int(float64(my-raper) + 0.499999)
	ymax := int(float64(my+raper) + 1.499999)
	if xmin < 0 || xmax > w || ymin < 0 || ymax > h {
		buildOptions(opts).logger.Debug("vignet: aperture outside raster",
			slog.Int("xmin", xmin), slog.Int("xmax", xmax),
			slog.Int("ymin", ymin), slog.Int("ymax", ymax),
			slog.Int("w", w), slog.Int("h", h))
		return Photometry{}, nil
	}

	var flux, sigma, area float64
	for y := ymin; y < ymax; y++ {
		for x := xmin; x < xmax; x++ {
			dx := float32(x) - mx
			dy := float32(y) - my
			r2 := dx*dx + dy*dy
			if r2 >= rext2 {
				continue
			}

			locarea := float32(1)
			if r2 > rint2 {
				locarea = 0
				dx += offset
				dy += offset
				for range ApertureOversample {
					dx1 := dx
					dy2 := dy * dy
					for range ApertureOversample {
						if dx1*dx1+dy2 < raper2 {
							locarea += scale2
						}
						dx1 += scale
					}
					dy += scale
				}
			}
			area += float64(locarea)

			pos := y*w + x
			pix := img.Pix[pos]
			pvar := backVar
			if variance != nil {
				pvar = variance.Pix[pos]
			}
			if pix <= -Big || (variance != nil && pvar >= vthresh) {
				pix, pvar = reflected(img, variance, backVar, mx, my, x, y)
			}

			flux += float64(locarea * pix)
			sigma += float64(locarea * pvar)
			if ap.PixelGain && pix > 0 && ap.Gain > 0 {
				sigma += float64(pix * invGain * pvar * invBackVar)
			}
		}
	}

	if !ap.PixelGain && flux > 0 {
		sigma += flux * float64(invGain)
	}

	return Photometry{
		Flux:    flux,
		FluxErr: math.Sqrt(sigma),
		Area:    area,
		Inside:  true,
	}, nil
}

// reflected returns the value and variance of the pixel symmetric to (x, y)
// about the aperture centre (mx, my), or zeros if that pixel is outside the
// raster or bad itself.
func reflected(img, variance *Raster, backVar, mx, my float32, x, y int) (pix, pvar float32) {
	x2 := int(float64(2*mx) + 0.49999 - float64(x))
	y2 := int(float64(2*my) + 0.49999 - float64(y))
	if x2 < 0 || x2 >= img.Width || y2 < 0 || y2 >= img.Height {
		return 0, 0
	}

	pos := y2*img.Width + x2
	pix = img.Pix[pos]
	if pix <= -Big {
		return 0, 0
	}
	if variance == nil {
		return pix, backVar
	}
	pvar = variance.Pix[pos]
	if pvar >= Big/2 {
		return 0, 0
	}
	return pix, pvar
}
