package imageio

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/vignet"
	"github.com/gogpu/vignet/internal/interp"
)

// Stretch maps r linearly onto 16-bit grey levels between its minimum and
// maximum finite values. Bad pixels (<= -vignet.Big) map to black. The
// image is flipped so that raster row 0 is at the bottom, as FITS viewers
// show it.
func Stretch(r *vignet.Raster) *image.Gray16 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range r.Pix[:r.Width*r.Height] {
		f := float64(v)
		if v <= -vignet.Big || math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		lo = math.Min(lo, f)
		hi = math.Max(hi, f)
	}

	scale := 0.0
	if hi > lo {
		scale = 0xffff / (hi - lo)
	}

	img := image.NewGray16(image.Rect(0, 0, r.Width, r.Height))
	for y := range r.Height {
		row := r.Row(r.Height - 1 - y)
		line := img.Pix[y*img.Stride:]
		for x, v := range row {
			g := 0.0
			if f := float64(v); v > -vignet.Big && !math.IsNaN(f) {
				g = math.Round(math.Min(math.Max((f-lo)*scale, 0), 0xffff))
			}
			line[2*x] = uint8(uint16(g) >> 8)
			line[2*x+1] = uint8(uint16(g))
		}
	}
	return img
}

// Preview stretches r and enlarges it by scale using the kernel selected by
// mode. A scale below 1 is treated as 1.
func Preview(r *vignet.Raster, scale int, mode interp.Mode) *image.Gray16 {
	src := Stretch(r)
	if scale <= 1 {
		return src
	}

	dst := image.NewGray16(image.Rect(0, 0, r.Width*scale, r.Height*scale))
	interp.ForMode(mode).Draw().Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// EncodePNG writes a quick-look preview of r as PNG.
func EncodePNG(w io.Writer, r *vignet.Raster, scale int, mode interp.Mode) error {
	if r == nil {
		return vignet.ErrNilRaster
	}
	if err := png.Encode(w, Preview(r, scale, mode)); err != nil {
		return fmt.Errorf("imageio: encode PNG: %w", err)
	}
	return nil
}

// SavePNG saves a quick-look preview of r as a PNG file.
func SavePNG(path string, r *vignet.Raster, scale int, mode interp.Mode) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}

	if err := EncodePNG(f, r, scale, mode); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
