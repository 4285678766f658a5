package field

import (
	"fmt"
)

// maxPrime bounds the field order so that a product of two reduced
// elements always fits in a uint64.
const maxPrime = 1 << 31

// PrimeField represents a prime finite field F_p
type PrimeField struct {
	p   uint64 // the prime modulus
	gen uint64 // smallest primitive root mod p
}

// NewPrimeField creates a new prime field of order p. The order must be a
// prime number no larger than 2^31.
func NewPrimeField(p uint) (*PrimeField, error) {
	if p > maxPrime {
		return nil, fmt.Errorf("field order %d exceeds maximum %d", p, maxPrime)
	}
	if !isPrime(uint64(p)) {
		return nil, fmt.Errorf("field order %d is not a prime number", p)
	}

	f := &PrimeField{p: uint64(p)}
	f.gen = f.findGenerator()
	return f, nil
}

// isPrime reports whether n is prime by trial division
func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := uint64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// findGenerator returns the smallest element whose multiplicative order is
// p-1, i.e. whose powers enumerate every non-zero element of the field.
// An element g is a generator iff g^((p-1)/q) != 1 for every prime factor
// q of the group order p-1.
func (f *PrimeField) findGenerator() uint64 {
	factors := primeFactors(f.p - 1)
	for g := uint64(1); g < f.p; g++ {
		isGen := true
		for _, q := range factors {
			if powmod(g, (f.p-1)/q, f.p) == 1 {
				isGen = false
				break
			}
		}
		if isGen {
			return g
		}
	}
	// Unreachable: the multiplicative group of a prime field is cyclic
	panic("prime field has no generator")
}

// primeFactors returns the distinct prime factors of n by trial division
func primeFactors(n uint64) []uint64 {
	var factors []uint64
	for d := uint64(2); d*d <= n; d++ {
		if n%d == 0 {
			factors = append(factors, d)
			for n%d == 0 {
				n /= d
			}
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

// PrimeElement represents an element in a prime field
type PrimeElement struct {
	value uint64      // element value in range [0, p-1]
	field *PrimeField // reference to parent field
}

// Field interface implementation for PrimeField

// Zero returns the additive identity element (0)
func (f *PrimeField) Zero() Element {
	return &PrimeElement{value: 0, field: f}
}

// One returns the multiplicative identity element (1)
func (f *PrimeField) One() Element {
	return &PrimeElement{value: 1, field: f}
}

// Element creates a field element from an integer value
func (f *PrimeField) Element(v uint) (Element, error) {
	if uint64(v) >= f.p {
		return nil, fmt.Errorf("%w: %d is not in GF(%d)", ErrOutOfRange, v, f.p)
	}
	return &PrimeElement{value: uint64(v), field: f}, nil
}

// Generator returns the smallest primitive root of the field
func (f *PrimeField) Generator() Element {
	return &PrimeElement{value: f.gen, field: f}
}

// Size returns the order of the field
func (f *PrimeField) Size() uint {
	return uint(f.p)
}

// Name returns a short name for the field
func (f *PrimeField) Name() string {
	return fmt.Sprintf("GF(%d)", f.p)
}

// PrimeElement methods implementing the Element interface

func (e *PrimeElement) other(b Element) *PrimeElement {
	o, ok := b.(*PrimeElement)
	if !ok || o.field.p != e.field.p {
		panic("incompatible field elements")
	}
	return o
}

// Field returns the field this element belongs to
func (e *PrimeElement) Field() Field {
	return e.field
}

// Add returns e + b modulo p
func (e *PrimeElement) Add(b Element) Element {
	o := e.other(b)
	return &PrimeElement{value: (e.value + o.value) % e.field.p, field: e.field}
}

// Sub returns e - b modulo p
func (e *PrimeElement) Sub(b Element) Element {
	o := e.other(b)
	return &PrimeElement{value: (e.value + e.field.p - o.value) % e.field.p, field: e.field}
}

// Mul returns e * b modulo p
func (e *PrimeElement) Mul(b Element) Element {
	o := e.other(b)
	return &PrimeElement{value: e.value * o.value % e.field.p, field: e.field}
}

// Neg returns the additive inverse of e
func (e *PrimeElement) Neg() Element {
	return &PrimeElement{value: (e.field.p - e.value) % e.field.p, field: e.field}
}

// Inverse returns the multiplicative inverse of e, computed by Fermat's
// little theorem as e^(p-2) mod p
func (e *PrimeElement) Inverse() (Element, error) {
	if e.value == 0 {
		return nil, fmt.Errorf("%w: zero has no inverse in %s", ErrDivisionByZero, e.field.Name())
	}
	return &PrimeElement{value: powmod(e.value, e.field.p-2, e.field.p), field: e.field}, nil
}

// Div returns e / b modulo p
func (e *PrimeElement) Div(b Element) (Element, error) {
	inv, err := e.other(b).Inverse()
	if err != nil {
		return nil, err
	}
	return e.Mul(inv), nil
}

// Pow returns e raised to the power exp by repeated squaring. Negative
// exponents invert first.
func (e *PrimeElement) Pow(exp int) (Element, error) {
	if exp < 0 {
		inv, err := e.Inverse()
		if err != nil {
			return nil, err
		}
		return inv.Pow(-exp)
	}
	return &PrimeElement{value: powmod(e.value, uint64(exp), e.field.p), field: e.field}, nil
}

// powmod computes b^e mod p by repeated squaring
func powmod(b, e, p uint64) uint64 {
	result := uint64(1)
	b %= p
	for e > 0 {
		if e&1 == 1 {
			result = result * b % p
		}
		b = b * b % p
		e >>= 1
	}
	return result
}

// IsZero returns true if e equals zero
func (e *PrimeElement) IsZero() bool {
	return e.value == 0
}

// Equal returns true if e equals b
func (e *PrimeElement) Equal(b Element) bool {
	o, ok := b.(*PrimeElement)
	if !ok {
		return false
	}
	return e.field.p == o.field.p && e.value == o.value
}

// Uint returns the integer value of e
func (e *PrimeElement) Uint() uint {
	return uint(e.value)
}

// String returns the string representation of e
func (e *PrimeElement) String() string {
	return fmt.Sprintf("%d", e.value)
}
