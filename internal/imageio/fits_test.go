package imageio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/vignet"
)

func testRaster(t *testing.T, w, h int) *vignet.Raster {
	t.Helper()
	r, err := vignet.NewRaster(w, h)
	if err != nil {
		t.Fatalf("NewRaster() error = %v", err)
	}
	for i := range r.Pix {
		r.Pix[i] = float32(i)*0.25 - 3
	}
	return r
}

func TestEncodeFITSLayout(t *testing.T) {
	r := testRaster(t, 5, 3)

	var buf bytes.Buffer
	if err := EncodeFITS(&buf, r); err != nil {
		t.Fatalf("EncodeFITS() error = %v", err)
	}

	// One header block plus one data block.
	if buf.Len() != 2*blockSize {
		t.Errorf("encoded length = %d, want %d", buf.Len(), 2*blockSize)
	}

	hdr := buf.String()[:blockSize]
	wantCards := []string{
		"SIMPLE  =                    T",
		"BITPIX  =                  -32",
		"NAXIS   =                    2",
		"NAXIS1  =                    5",
		"NAXIS2  =                    3",
		"END",
	}
	for i, want := range wantCards {
		got := hdr[i*cardSize : (i+1)*cardSize]
		if strings.TrimRight(got, " ") != want {
			t.Errorf("card %d = %q, want %q", i, strings.TrimRight(got, " "), want)
		}
	}

	data := buf.Bytes()[blockSize:]
	if got := binary.BigEndian.Uint32(data[4:]); got != 0xc0300000 {
		t.Errorf("second pixel bits = %#x, want %#x (-2.75 big-endian)", got, 0xc0300000)
	}
	for i, b := range data[4*15:] {
		if b != 0 {
			t.Fatalf("padding byte %d = %#x, want 0", i, b)
		}
	}
}

func TestFITSRoundTrip(t *testing.T) {
	sizes := [][2]int{{1, 1}, {25, 25}, {31, 17}, {720, 1}}

	for _, sz := range sizes {
		r := testRaster(t, sz[0], sz[1])

		var buf bytes.Buffer
		if err := EncodeFITS(&buf, r); err != nil {
			t.Fatalf("EncodeFITS(%v) error = %v", sz, err)
		}
		if buf.Len()%blockSize != 0 {
			t.Errorf("EncodeFITS(%v) length %d is not a multiple of %d", sz, buf.Len(), blockSize)
		}

		got, err := DecodeFITS(&buf)
		if err != nil {
			t.Fatalf("DecodeFITS(%v) error = %v", sz, err)
		}
		if got.Width != r.Width || got.Height != r.Height {
			t.Fatalf("DecodeFITS(%v) size = %dx%d", sz, got.Width, got.Height)
		}
		for i := range r.Pix {
			if got.Pix[i] != r.Pix[i] {
				t.Fatalf("DecodeFITS(%v) Pix[%d] = %v, want %v", sz, i, got.Pix[i], r.Pix[i])
			}
		}
	}
}

func TestDecodeFITSScaledIntegers(t *testing.T) {
	var buf bytes.Buffer
	err := writeHeader(&buf, []card{
		{"SIMPLE", true},
		{"BITPIX", 16},
		{"NAXIS", 3},
		{"NAXIS1", 2},
		{"NAXIS2", 2},
		{"NAXIS3", 1},
		{"BSCALE", 0.5},
		{"BZERO", 100.0},
	})
	if err != nil {
		t.Fatalf("writeHeader() error = %v", err)
	}
	for _, v := range []int16{-4, 0, 2, 1000} {
		_ = binary.Write(&buf, binary.BigEndian, v)
	}

	r, err := DecodeFITS(&buf)
	if err != nil {
		t.Fatalf("DecodeFITS() error = %v", err)
	}

	want := []float32{98, 100, 101, 600}
	for i := range want {
		if r.Pix[i] != want[i] {
			t.Errorf("Pix[%d] = %v, want %v", i, r.Pix[i], want[i])
		}
	}
}

func TestDecodeFITSErrors(t *testing.T) {
	header := func(cards ...card) []byte {
		var buf bytes.Buffer
		if err := writeHeader(&buf, cards); err != nil {
			t.Fatalf("writeHeader() error = %v", err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"empty", nil, ErrNotFITS},
		{"png", []byte("\x89PNG\r\n\x1a\n"), ErrNotFITS},
		{"not simple", header(card{"SIMPLE", false}, card{"BITPIX", 8}, card{"NAXIS", 0}), ErrNotFITS},
		{"no naxis", header(card{"SIMPLE", true}, card{"BITPIX", 8}), ErrNotFITS},
		{"bitpix 24", header(card{"SIMPLE", true}, card{"BITPIX", 24}, card{"NAXIS", 2},
			card{"NAXIS1", 1}, card{"NAXIS2", 1}), ErrUnsupportedBitpix},
		{"cube", header(card{"SIMPLE", true}, card{"BITPIX", -32}, card{"NAXIS", 3},
			card{"NAXIS1", 2}, card{"NAXIS2", 2}, card{"NAXIS3", 4}), ErrUnsupportedFormat},
		{"1d", header(card{"SIMPLE", true}, card{"BITPIX", -32}, card{"NAXIS", 1},
			card{"NAXIS1", 2}), ErrUnsupportedFormat},
		{"huge axes", header(card{"SIMPLE", true}, card{"BITPIX", -64}, card{"NAXIS", 2},
			card{"NAXIS1", 1 << 30}, card{"NAXIS2", 1 << 30}), ErrUnsupportedFormat},
		{"over limit", header(card{"SIMPLE", true}, card{"BITPIX", 8}, card{"NAXIS", 2},
			card{"NAXIS1", MaxPixels}, card{"NAXIS2", 2}), ErrUnsupportedFormat},
		{"zero axis", header(card{"SIMPLE", true}, card{"BITPIX", -32}, card{"NAXIS", 2},
			card{"NAXIS1", 0}, card{"NAXIS2", 4}), ErrUnsupportedFormat},
		{"negative axis", header(card{"SIMPLE", true}, card{"BITPIX", -32}, card{"NAXIS", 2},
			card{"NAXIS1", 4}, card{"NAXIS2", -4}), ErrUnsupportedFormat},
		{"truncated data", header(card{"SIMPLE", true}, card{"BITPIX", -32}, card{"NAXIS", 2},
			card{"NAXIS1", 4}, card{"NAXIS2", 4}), io.ErrUnexpectedEOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.data
			if tt.name == "truncated data" {
				data = append(data, make([]byte, 10)...)
			}
			_, err := DecodeFITS(bytes.NewReader(data))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeFITS() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		card      string
		key, want string
	}{
		{"BITPIX  =                  -32 / bits per pixel", "BITPIX", "-32"},
		{"OBJECT  = 'M31 / core'         / target", "OBJECT", "'M31 / core'"},
		{"COMMENT just text", "COMMENT", ""},
		{"BSCALE  =               1.0D+0", "BSCALE", "1.0D+0"},
	}

	for _, tt := range tests {
		c := []byte(tt.card + strings.Repeat(" ", cardSize-len(tt.card)))
		key, value := parseCard(c)
		if key != tt.key || value != tt.want {
			t.Errorf("parseCard(%q) = (%q, %q), want (%q, %q)", tt.card, key, value, tt.key, tt.want)
		}
	}

	if v, err := parseReal("1.5D+2"); err != nil || v != 150 {
		t.Errorf("parseReal(1.5D+2) = (%v, %v), want (150, nil)", v, err)
	}
}

func TestSaveLoadFITS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vignet.fits")
	r := testRaster(t, 9, 7)

	if err := SaveFITS(path, r); err != nil {
		t.Fatalf("SaveFITS() error = %v", err)
	}
	got, err := LoadFITS(path)
	if err != nil {
		t.Fatalf("LoadFITS() error = %v", err)
	}
	if got.Sum() != r.Sum() {
		t.Errorf("loaded Sum() = %v, want %v", got.Sum(), r.Sum())
	}

	if _, err := LoadFITS(filepath.Join(t.TempDir(), "missing.fits")); err == nil {
		t.Error("LoadFITS() of a missing file should fail")
	}
}
