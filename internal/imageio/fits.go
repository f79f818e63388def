// Package imageio reads and writes vignettes for debugging: single-HDU FITS
// images and PNG quick-looks.
package imageio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gogpu/vignet"
)

const (
	blockSize = 2880
	cardSize  = 80

	// MaxPixels bounds the image size DecodeFITS accepts, far above any
	// vignette, so a corrupt header cannot trigger a huge allocation.
	MaxPixels = 1 << 24
)

// I/O errors.
var (
	// ErrNotFITS is returned when the input does not start with a valid
	// primary header.
	ErrNotFITS = errors.New("imageio: not a FITS file")

	// ErrUnsupportedBitpix is returned for BITPIX values other than
	// 8, 16, 32, -32 and -64.
	ErrUnsupportedBitpix = errors.New("imageio: unsupported BITPIX")

	// ErrUnsupportedFormat is returned for images that are not
	// two-dimensional, or whose axes are empty or exceed MaxPixels.
	ErrUnsupportedFormat = errors.New("imageio: unsupported format")
)

// card is one 80-column header record.
type card struct {
	key   string
	value any // bool, int, float64 or nil
}

func (c card) String() string {
	var s string
	switch v := c.value.(type) {
	case nil:
		s = fmt.Sprintf("%-8.8s", c.key)
	case bool:
		l := "F"
		if v {
			l = "T"
		}
		s = fmt.Sprintf("%-8.8s= %20s", c.key, l)
	case int:
		s = fmt.Sprintf("%-8.8s= %20d", c.key, v)
	case float64:
		s = fmt.Sprintf("%-8.8s= %20s", c.key, strconv.FormatFloat(v, 'E', -1, 64))
	}
	return fmt.Sprintf("%-80s", s)
}

// writeHeader writes cards followed by END, blank-padded to a whole block.
func writeHeader(w io.Writer, cards []card) error {
	var sb strings.Builder
	for _, c := range cards {
		sb.WriteString(c.String())
	}
	sb.WriteString(card{key: "END"}.String())
	if rem := sb.Len() % blockSize; rem != 0 {
		sb.WriteString(strings.Repeat(" ", blockSize-rem))
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// EncodeFITS writes r as a BITPIX -32 primary image. Rows are written in
// raster order, so row 0 becomes FITS row 1.
func EncodeFITS(w io.Writer, r *vignet.Raster) error {
	if r == nil {
		return vignet.ErrNilRaster
	}
	bw := bufio.NewWriter(w)

	err := writeHeader(bw, []card{
		{"SIMPLE", true},
		{"BITPIX", -32},
		{"NAXIS", 2},
		{"NAXIS1", r.Width},
		{"NAXIS2", r.Height},
	})
	if err != nil {
		return fmt.Errorf("imageio: write header: %w", err)
	}

	line := make([]byte, 4*r.Width)
	for y := range r.Height {
		for x, v := range r.Row(y) {
			binary.BigEndian.PutUint32(line[4*x:], math.Float32bits(v))
		}
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("imageio: write row %d: %w", y, err)
		}
	}
	if rem := (4 * r.Width * r.Height) % blockSize; rem != 0 {
		if _, err := bw.Write(make([]byte, blockSize-rem)); err != nil {
			return fmt.Errorf("imageio: pad data: %w", err)
		}
	}

	return bw.Flush()
}

// header holds the primary header keywords the decoder understands.
type header struct {
	bitpix int
	naxis  []int
	bscale float64
	bzero  float64
}

// readHeader consumes header blocks up to and including the one holding END.
func readHeader(r io.Reader) (header, error) {
	h := header{bscale: 1}
	block := make([]byte, blockSize)
	naxis := -1
	axes := map[int]int{}

	for first := true; ; first = false {
		if _, err := io.ReadFull(r, block); err != nil {
			if first {
				return h, fmt.Errorf("%w: %w", ErrNotFITS, err)
			}
			return h, fmt.Errorf("imageio: header without END: %w", err)
		}
		for i := 0; i < blockSize; i += cardSize {
			key, value := parseCard(block[i : i+cardSize])
			if first && i == 0 {
				if key != "SIMPLE" || value != "T" {
					return h, ErrNotFITS
				}
				continue
			}

			var err error
			switch {
			case key == "END":
				if h.bitpix == 0 || naxis < 0 {
					return h, fmt.Errorf("%w: missing BITPIX or NAXIS", ErrNotFITS)
				}
				h.naxis = make([]int, naxis)
				for n := range naxis {
					v, ok := axes[n+1]
					if !ok {
						return h, fmt.Errorf("%w: missing NAXIS%d", ErrNotFITS, n+1)
					}
					h.naxis[n] = v
				}
				return h, nil
			case key == "BITPIX":
				h.bitpix, err = strconv.Atoi(value)
			case key == "NAXIS":
				naxis, err = strconv.Atoi(value)
			case strings.HasPrefix(key, "NAXIS"):
				var n, v int
				if n, err = strconv.Atoi(key[len("NAXIS"):]); err == nil {
					v, err = strconv.Atoi(value)
					axes[n] = v
				}
			case key == "BSCALE":
				h.bscale, err = parseReal(value)
			case key == "BZERO":
				h.bzero, err = parseReal(value)
			}
			if err != nil {
				return h, fmt.Errorf("imageio: keyword %s: %w", key, err)
			}
		}
	}
}

// parseCard splits a card into its keyword and its value with any comment
// removed. String values keep their quotes.
func parseCard(c []byte) (key, value string) {
	key = strings.TrimSpace(string(c[:8]))
	if string(c[8:10]) != "= " {
		return key, ""
	}
	v := strings.TrimSpace(string(c[10:]))
	if strings.HasPrefix(v, "'") {
		if end := strings.Index(v[1:], "'"); end >= 0 {
			return key, v[:end+2]
		}
		return key, v
	}
	if slash := strings.IndexByte(v, '/'); slash >= 0 {
		v = strings.TrimSpace(v[:slash])
	}
	return key, v
}

// parseReal accepts Fortran-style D exponents.
func parseReal(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, "D", "E", 1), 64)
}

// DecodeFITS reads the primary image of a FITS stream. Integer data are
// scaled with BSCALE and BZERO. Axes beyond the second must have length 1.
func DecodeFITS(r io.Reader) (*vignet.Raster, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	if len(h.naxis) < 2 {
		return nil, fmt.Errorf("%w: NAXIS = %d", ErrUnsupportedFormat, len(h.naxis))
	}
	for i, n := range h.naxis[2:] {
		if n != 1 {
			return nil, fmt.Errorf("%w: NAXIS%d = %d", ErrUnsupportedFormat, i+3, n)
		}
	}

	size := 0
	switch h.bitpix {
	case 8, 16, 32, -32, -64:
		size = abs(h.bitpix) / 8
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitpix, h.bitpix)
	}

	w, ht := h.naxis[0], h.naxis[1]
	if w <= 0 || ht <= 0 || w > MaxPixels/ht {
		return nil, fmt.Errorf("%w: %d x %d pixels", ErrUnsupportedFormat, w, ht)
	}

	out, err := vignet.NewRaster(w, ht)
	if err != nil {
		return nil, err
	}

	data := make([]byte, size*len(out.Pix))
	if _, err := io.ReadFull(br, data); err != nil {
		return nil, fmt.Errorf("imageio: read data: %w", err)
	}

	for i := range out.Pix {
		b := data[i*size:]
		var raw float64
		switch h.bitpix {
		case 8:
			raw = float64(b[0])
		case 16:
			raw = float64(int16(binary.BigEndian.Uint16(b)))
		case 32:
			raw = float64(int32(binary.BigEndian.Uint32(b)))
		case -32:
			raw = float64(math.Float32frombits(binary.BigEndian.Uint32(b)))
		case -64:
			raw = math.Float64frombits(binary.BigEndian.Uint64(b))
		}
		out.Pix[i] = float32(h.bzero + h.bscale*raw)
	}

	return out, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// LoadFITS loads the primary image of the FITS file at path.
func LoadFITS(path string) (*vignet.Raster, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("imageio: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return DecodeFITS(f)
}

// SaveFITS saves r as a FITS file.
func SaveFITS(path string, r *vignet.Raster) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("imageio: create file: %w", err)
	}

	if err := EncodeFITS(f, r); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
