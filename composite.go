package vignet

// Big is the magnitude written for quotients that diverge in OpDiv, and the
// threshold above which pixels and variances are considered bad by
// ApertureFlux.
const Big = 1e30

// Op is a pointwise operation applied by Composite. The set of operations is
// closed: only the values below implement Op.
type Op interface {
	String() string
	apply(dst, src []float32)
}

// Composite operations.
var (
	// OpCopy replaces the destination. Pixels outside the overlap are zeroed.
	OpCopy Op = copyOp{}

	// OpAdd adds the source to the destination.
	OpAdd Op = addOp{}

	// OpSub subtracts the source from the destination.
	OpSub Op = subOp{}

	// OpMul multiplies the destination by the source.
	OpMul Op = mulOp{}

	// OpDiv divides the destination by the source. A zero divisor stores
	// +Big when the destination pixel is positive and -Big otherwise.
	OpDiv Op = divOp{}
)

// ParseOp returns the operation named s ("copy", "add", "sub", "mul", "div").
func ParseOp(s string) (Op, bool) {
	switch s {
	case "copy":
		return OpCopy, true
	case "add":
		return OpAdd, true
	case "sub":
		return OpSub, true
	case "mul":
		return OpMul, true
	case "div":
		return OpDiv, true
	default:
		return nil, false
	}
}

type (
	copyOp struct{}
	addOp  struct{}
	subOp  struct{}
	mulOp  struct{}
	divOp  struct{}
)

func (copyOp) String() string { return "copy" }
func (addOp) String() string  { return "add" }
func (subOp) String() string  { return "sub" }
func (mulOp) String() string  { return "mul" }
func (divOp) String() string  { return "div" }

func (copyOp) apply(dst, src []float32) { copy(dst, src) }

func (addOp) apply(dst, src []float32) {
	for i, v := range src {
		dst[i] += v
	}
}

func (subOp) apply(dst, src []float32) {
	for i, v := range src {
		dst[i] -= v
	}
}

func (mulOp) apply(dst, src []float32) {
	for i, v := range src {
		dst[i] *= v
	}
}

func (divOp) apply(dst, src []float32) {
	for i, v := range src {
		if v == 0 {
			dst[i] = divergenceOf(dst[i]).value()
			continue
		}
		dst[i] /= v
	}
}

// divergence marks a quotient with a zero divisor by the sign of the
// infinity it tends to.
type divergence int8

const (
	divergesDown divergence = -1
	divergesUp   divergence = 1
)

func divergenceOf(numerator float32) divergence {
	if numerator > 0 {
		return divergesUp
	}
	return divergesDown
}

// value materializes the divergence as the ±Big sentinel expected downstream.
func (d divergence) value() float32 {
	if d == divergesUp {
		return Big
	}
	return -Big
}

// Composite places src on dst with src's centre offset by (idx, idy) pixels
// from dst's centre, and combines the overlapping pixels with op.
// Centres are at (w/2, h/2) with integer division.
//
// OpCopy zeroes dst before copying. The other operations leave pixels
// outside the overlap untouched.
//
// Composite returns ErrNoOverlap, without touching dst, when the rasters do
// not overlap, and ErrInvalidOp when op is nil.
func Composite(dst, src *Raster, idx, idy int, op Op) error {
	if op == nil {
		return ErrInvalidOp
	}
	if err := src.validate(); err != nil {
		return err
	}
	if err := dst.validate(); err != nil {
		return err
	}

	sy, dy, ny, ok := overlap(src.Height, dst.Height, idy)
	if !ok {
		return ErrNoOverlap
	}
	sx, dx, nx, ok := overlap(src.Width, dst.Width, idx)
	if !ok {
		return ErrNoOverlap
	}

	in, err := src.View(sx, sy, nx, ny)
	if err != nil {
		return err
	}
	out, err := dst.View(dx, dy, nx, ny)
	if err != nil {
		return err
	}

	if op == OpCopy {
		dst.Clear()
	}
	for y := range ny {
		op.apply(out.Row(y), in.Row(y))
	}

	return nil
}

// overlap clips one axis: a source of length n1 centred off a destination of
// length n2 by off. It returns the first source and destination indices and
// the run length.
func overlap(n1, n2, off int) (s, d, n int, ok bool) {
	d = n2/2 + off - n1/2
	n = n2 - d
	if n > n1 {
		n = n1
	}
	if d < 0 {
		s = -d
		n += d
		d = 0
	}
	if n <= 0 {
		return 0, 0, 0, false
	}
	return s, d, n, true
}
