package vignet

// Raster is a row-major float32 pixel buffer.
//
// Raster is not self-describing beyond its dimensions. Operations never
// reallocate Pix; they write into it only when the raster is the
// destination of the call.
type Raster struct {
	Width  int
	Height int
	Pix    []float32
}

// NewRaster allocates a zeroed raster.
func NewRaster(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height),
	}, nil
}

// FromPix wraps an existing buffer without copying.
// The caller must keep pix alive for the lifetime of the Raster.
func FromPix(pix []float32, width, height int) (*Raster, error) {
	r := &Raster{Width: width, Height: height, Pix: pix}
	if err := r.validate(); err != nil {
		return nil, err
	}
	r.Pix = pix[:width*height]
	return r, nil
}

// validate checks dimensions and buffer length.
func (r *Raster) validate() error {
	if r == nil {
		return ErrNilRaster
	}
	if r.Width <= 0 || r.Height <= 0 {
		return ErrInvalidDimensions
	}
	if len(r.Pix) < r.Width*r.Height {
		return ErrDataTooSmall
	}
	return nil
}

// Bounds returns the raster dimensions as (width, height).
func (r *Raster) Bounds() (int, int) {
	return r.Width, r.Height
}

// At returns the pixel at (x, y), or 0 outside the raster.
func (r *Raster) At(x, y int) float32 {
	if x < 0 || x >= r.Width || y < 0 || y >= r.Height {
		return 0
	}
	return r.Pix[y*r.Width+x]
}

// Set stores v at (x, y). Coordinates outside the raster are ignored.
func (r *Raster) Set(x, y int, v float32) {
	if x < 0 || x >= r.Width || y < 0 || y >= r.Height {
		return
	}
	r.Pix[y*r.Width+x] = v
}

// Row returns the pixels of row y, or nil if y is out of bounds.
func (r *Raster) Row(y int) []float32 {
	if y < 0 || y >= r.Height {
		return nil
	}
	start := y * r.Width
	return r.Pix[start : start+r.Width]
}

// Clear sets every pixel to zero.
func (r *Raster) Clear() {
	clear(r.Pix[:r.Width*r.Height])
}

// Fill sets every pixel to v.
func (r *Raster) Fill(v float32) {
	pix := r.Pix[:r.Width*r.Height]
	for i := range pix {
		pix[i] = v
	}
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	pix := make([]float32, r.Width*r.Height)
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Pix: pix}
}

// Sum returns the sum of all pixels, accumulated in float64.
func (r *Raster) Sum() float64 {
	var s float64
	for _, v := range r.Pix[:r.Width*r.Height] {
		s += float64(v)
	}
	return s
}

// View returns a window onto the rectangle (x, y, width, height) of r.
// The view shares pixels with r. Bounds are validated here, once, so rows
// of the view can be addressed without further checks.
func (r *Raster) View(x, y, width, height int) (View, error) {
	if width <= 0 || height <= 0 {
		return View{}, ErrInvalidDimensions
	}
	if x < 0 || y < 0 || x+width > r.Width || y+height > r.Height {
		return View{}, ErrOutOfBounds
	}

	offset := y*r.Width + x
	end := (y+height-1)*r.Width + x + width
	return View{
		Pix:    r.Pix[offset:end],
		Stride: r.Width,
		Width:  width,
		Height: height,
	}, nil
}

// View is a rectangular window onto a Raster.
//
// Pix starts at the window's top-left pixel; consecutive rows are Stride
// elements apart. A View never outlives the Raster it was taken from.
type View struct {
	Pix    []float32
	Stride int
	Width  int
	Height int
}

// Row returns the pixels of row y of the view.
func (v View) Row(y int) []float32 {
	start := y * v.Stride
	return v.Pix[start : start+v.Width]
}
