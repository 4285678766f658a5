package field

import (
	"fmt"
	"sync"
)

const (
	// gf256Size is the order of the field
	gf256Size = 256

	// gf256Poly is the irreducible polynomial x^8 + x^4 + x^3 + x + 1
	gf256Poly = 0x11B

	// gf256Gen is a primitive element of the field; its powers enumerate
	// every non-zero element
	gf256Gen = 0x03
)

// Logarithm and antilogarithm tables over gf256Gen, built once and
// read-only afterwards. gf256Exp[i] = gen^i, gf256Log[gen^i] = i.
var (
	gf256Once sync.Once
	gf256Exp  [gf256Size - 1]uint16
	gf256Log  [gf256Size]uint16
)

func gf256InitTables() {
	x := uint16(1)
	for i := 0; i < gf256Size-1; i++ {
		gf256Exp[i] = x
		gf256Log[x] = uint16(i)

		// Carry-less multiply by the generator, reduced by the
		// irreducible polynomial
		x = x<<1 ^ x
		if x >= gf256Size {
			x ^= gf256Poly
		}
	}
}

// GF256 represents the binary extension field GF(2^8) with the fixed
// irreducible polynomial x^8 + x^4 + x^3 + x + 1
type GF256 struct{}

// NewGF256 creates the field GF(2^8). The multiplication tables are shared
// process-wide and built on first use.
func NewGF256() *GF256 {
	gf256Once.Do(gf256InitTables)
	return &GF256{}
}

// GF256Element represents an element in GF(2^8)
type GF256Element struct {
	value uint16 // element value in range [0, 255]
	field *GF256 // reference to parent field
}

// Field interface implementation for GF256

// Zero returns the additive identity element (0)
func (f *GF256) Zero() Element {
	return &GF256Element{value: 0, field: f}
}

// One returns the multiplicative identity element (1)
func (f *GF256) One() Element {
	return &GF256Element{value: 1, field: f}
}

// Element creates a field element from an integer value
func (f *GF256) Element(v uint) (Element, error) {
	if v >= gf256Size {
		return nil, fmt.Errorf("%w: %d is not in GF(256)", ErrOutOfRange, v)
	}
	return &GF256Element{value: uint16(v), field: f}, nil
}

// Generator returns the primitive element the tables are built over
func (f *GF256) Generator() Element {
	return &GF256Element{value: gf256Gen, field: f}
}

// Size returns the order of the field
func (f *GF256) Size() uint {
	return gf256Size
}

// Name returns a short name for the field
func (f *GF256) Name() string {
	return "GF(256)"
}

// GF256Element methods implementing the Element interface

func (e *GF256Element) other(b Element) *GF256Element {
	o, ok := b.(*GF256Element)
	if !ok {
		panic("incompatible field elements")
	}
	return o
}

// Field returns the field this element belongs to
func (e *GF256Element) Field() Field {
	return e.field
}

// Add returns e + b in the field (XOR in characteristic 2)
func (e *GF256Element) Add(b Element) Element {
	o := e.other(b)
	return &GF256Element{value: e.value ^ o.value, field: e.field}
}

// Sub returns e - b in the field (same as Add in characteristic 2)
func (e *GF256Element) Sub(b Element) Element {
	return e.Add(b)
}

// Mul returns e * b via the logarithm tables
func (e *GF256Element) Mul(b Element) Element {
	o := e.other(b)
	if e.value == 0 || o.value == 0 {
		return &GF256Element{value: 0, field: e.field}
	}
	idx := (uint(gf256Log[e.value]) + uint(gf256Log[o.value])) % (gf256Size - 1)
	return &GF256Element{value: gf256Exp[idx], field: e.field}
}

// Neg returns the additive inverse, which is the element itself in
// characteristic 2
func (e *GF256Element) Neg() Element {
	return &GF256Element{value: e.value, field: e.field}
}

// Inverse returns the multiplicative inverse of e
func (e *GF256Element) Inverse() (Element, error) {
	if e.value == 0 {
		return nil, fmt.Errorf("%w: zero has no inverse in GF(256)", ErrDivisionByZero)
	}
	idx := (gf256Size - 1 - uint(gf256Log[e.value])) % (gf256Size - 1)
	return &GF256Element{value: gf256Exp[idx], field: e.field}, nil
}

// Div returns e / b in the field
func (e *GF256Element) Div(b Element) (Element, error) {
	inv, err := e.other(b).Inverse()
	if err != nil {
		return nil, err
	}
	return e.Mul(inv), nil
}

// Pow returns e raised to the power exp. Negative exponents invert first.
func (e *GF256Element) Pow(exp int) (Element, error) {
	if exp < 0 {
		inv, err := e.Inverse()
		if err != nil {
			return nil, err
		}
		return inv.Pow(-exp)
	}
	if e.value == 0 {
		if exp == 0 {
			return e.field.One(), nil
		}
		return e.field.Zero(), nil
	}
	idx := uint(gf256Log[e.value]) * uint(exp) % (gf256Size - 1)
	return &GF256Element{value: gf256Exp[idx], field: e.field}, nil
}

// IsZero returns true if e equals zero
func (e *GF256Element) IsZero() bool {
	return e.value == 0
}

// Equal returns true if e equals b
func (e *GF256Element) Equal(b Element) bool {
	o, ok := b.(*GF256Element)
	if !ok {
		return false
	}
	return e.value == o.value
}

// Uint returns the integer value of e
func (e *GF256Element) Uint() uint {
	return uint(e.value)
}

// String returns the string representation of e
func (e *GF256Element) String() string {
	return fmt.Sprintf("0x%02x", e.value)
}
