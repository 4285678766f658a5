// Package rs implements a Reed-Solomon error-correcting codec over an
// arbitrary finite field. A Coder configured with codeword length n and
// message length k corrects up to floor((n-k)/2) corrupted symbols in a
// received word.
//
// The codec operates purely on sequences of field-element values; mapping
// between raw bytes or characters and symbol values is the caller's job.
package rs

import (
	"errors"
	"fmt"

	"github.com/ethp2p/rs-codec/field"
	"github.com/ethp2p/rs-codec/poly"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("rs")

var (
	// ErrInvalidConfig is returned when the (n, k) configuration is out of
	// bounds for the chosen field
	ErrInvalidConfig = errors.New("invalid coder configuration")

	// ErrInputTooLong is returned when a message exceeds k symbols
	ErrInputTooLong = errors.New("message too long")

	// ErrWrongLength is returned when a codeword is not exactly n symbols
	ErrWrongLength = errors.New("wrong codeword length")

	// ErrUncorrectable is returned when a received word contains more
	// errors than the code can correct
	ErrUncorrectable = errors.New("too many errors to correct")
)

// Coder encodes and decodes Reed-Solomon codewords for a fixed (n, k)
// configuration. A Coder is immutable after construction and safe for
// concurrent use.
type Coder struct {
	field field.Field
	n     int // codeword length in symbols
	k     int // message length in symbols

	gen *poly.Polynomial // generator polynomial g(x), degree n-k
}

// NewCoder creates a Reed-Solomon coder over the given field with codeword
// length n and message length k. It requires 1 <= k < n and n < field size.
//
// The code corrects up to floor((n-k)/2) symbol errors per codeword.
func NewCoder(f field.Field, n, k int) (*Coder, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: message length k must be at least 1, got %d", ErrInvalidConfig, k)
	}
	if k >= n {
		return nil, fmt.Errorf("%w: codeword length n (%d) must be greater than message length k (%d)", ErrInvalidConfig, n, k)
	}
	if uint(n) >= f.Size() {
		return nil, fmt.Errorf("%w: codeword length n (%d) must be less than the field size (%d)", ErrInvalidConfig, n, f.Size())
	}

	c := &Coder{field: f, n: n, k: k}

	// g(x) = (x - α^0)(x - α^1)...(x - α^(n-k-1)), computed once and
	// reused by every encode/decode/verify call
	one := f.One()
	alpha := f.Generator()
	g := poly.New(f, []field.Element{one})
	root := one
	for i := 0; i < n-k; i++ {
		g = g.Mul(poly.New(f, []field.Element{one, root.Neg()}))
		root = root.Mul(alpha)
	}
	c.gen = g

	log.Debugf("new coder over %s: n=%d k=%d corrects up to %d errors", f.Name(), n, k, c.Correctable())
	return c, nil
}

// N returns the codeword length in symbols
func (c *Coder) N() int {
	return c.n
}

// K returns the message length in symbols
func (c *Coder) K() int {
	return c.k
}

// Correctable returns the maximum number of symbol errors the code can
// correct, floor((n-k)/2)
func (c *Coder) Correctable() int {
	return (c.n - c.k) / 2
}

// Field returns the field the coder operates over
func (c *Coder) Field() field.Field {
	return c.field
}

// Generator returns the generator polynomial g(x)
func (c *Coder) Generator() *poly.Polynomial {
	return c.gen
}

// Encode encodes a message of at most k symbol values into a codeword of
// exactly n symbol values: the k message symbols (messages shorter than k
// are treated as left-padded with zero symbols) followed by n-k parity
// symbols. It fails with ErrInputTooLong if the message exceeds k symbols
// and with field.ErrOutOfRange if a symbol value is not in the field.
func (c *Coder) Encode(message []uint) ([]uint, error) {
	cw, err := c.EncodePolynomial(message)
	if err != nil {
		return nil, err
	}
	return c.symbols(cw), nil
}

// EncodePolynomial encodes a message like Encode but returns the codeword
// polynomial c(x) = m(x)·x^(n-k) - (m(x)·x^(n-k) mod g(x)), which is
// divisible by g(x) by construction.
func (c *Coder) EncodePolynomial(message []uint) (*poly.Polynomial, error) {
	if len(message) > c.k {
		return nil, fmt.Errorf("%w: message length is max %d, got %d", ErrInputTooLong, c.k, len(message))
	}
	elems, err := c.elements(message)
	if err != nil {
		return nil, err
	}

	// Place the message symbols at powers n-1 ... n-k by appending n-k
	// zero coefficients below them
	coeffs := make([]field.Element, len(elems), len(elems)+c.n-c.k)
	copy(coeffs, elems)
	for i := 0; i < c.n-c.k; i++ {
		coeffs = append(coeffs, c.field.Zero())
	}
	m := poly.New(c.field, coeffs)

	// m = q·g + r, so m - r is a multiple of g
	r, err := m.Mod(c.gen)
	if err != nil {
		return nil, err
	}
	return m.Sub(r), nil
}

// Verify reports whether a candidate word of exactly n symbol values is a
// valid codeword, i.e. divisible by the generator polynomial.
func (c *Coder) Verify(candidate []uint) (bool, error) {
	if len(candidate) != c.n {
		return false, fmt.Errorf("%w: expected %d symbols, got %d", ErrWrongLength, c.n, len(candidate))
	}
	elems, err := c.elements(candidate)
	if err != nil {
		return false, err
	}

	r, err := poly.New(c.field, elems).Mod(c.gen)
	if err != nil {
		return false, err
	}
	return r.IsZero(), nil
}

// Decode decodes a received word of exactly n symbol values, correcting up
// to Correctable() symbol errors, and returns the message with leading zero
// symbols stripped (matching the conceptual left-padding used by Encode).
// It fails with ErrUncorrectable if the word contains more errors than the
// code can correct.
func (c *Coder) Decode(received []uint) ([]uint, error) {
	message, err := c.decode(received)
	if err != nil {
		return nil, err
	}
	start := 0
	for start < len(message)-1 && message[start].IsZero() {
		start++
	}
	if message[start].IsZero() {
		return []uint{}, nil
	}
	return c.symbolValues(message[start:]), nil
}

// DecodeFull decodes like Decode but always returns exactly k symbol
// values, preserving leading zero symbols. Use this when messages may
// legitimately begin with zero symbols.
func (c *Coder) DecodeFull(received []uint) ([]uint, error) {
	message, err := c.decode(received)
	if err != nil {
		return nil, err
	}
	return c.symbolValues(message), nil
}

// decode validates and corrects a received word, returning the k message
// elements of the corrected codeword.
func (c *Coder) decode(received []uint) ([]field.Element, error) {
	if len(received) != c.n {
		return nil, fmt.Errorf("%w: expected %d symbols, got %d", ErrWrongLength, c.n, len(received))
	}
	elems, err := c.elements(received)
	if err != nil {
		return nil, err
	}

	synd, clean := c.syndromes(elems)
	if !clean {
		if elems, err = c.correct(elems, synd); err != nil {
			return nil, err
		}
	}
	return elems[:c.k], nil
}

// syndromes evaluates the word at α^0 ... α^(n-k-1) and reports whether
// all syndromes are zero, i.e. the word is a valid codeword.
func (c *Coder) syndromes(word []field.Element) ([]field.Element, bool) {
	r := poly.New(c.field, word)
	synd := make([]field.Element, c.n-c.k)
	clean := true

	point := c.field.One()
	alpha := c.field.Generator()
	for i := range synd {
		synd[i] = r.Evaluate(point)
		if !synd[i].IsZero() {
			clean = false
		}
		point = point.Mul(alpha)
	}
	return synd, clean
}

// elements converts symbol values to field elements, validating every
// value before any arithmetic is attempted
func (c *Coder) elements(symbols []uint) ([]field.Element, error) {
	elems := make([]field.Element, len(symbols))
	for i, v := range symbols {
		e, err := c.field.Element(v)
		if err != nil {
			return nil, fmt.Errorf("symbol %d: %w", i, err)
		}
		elems[i] = e
	}
	return elems, nil
}

// symbols returns the n coefficients of a codeword polynomial as symbol
// values, left-padded with zeros up to length n
func (c *Coder) symbols(cw *poly.Polynomial) []uint {
	out := make([]uint, c.n)
	for i := range out {
		out[i] = cw.Coefficient(c.n - 1 - i).Uint()
	}
	return out
}

// symbolValues converts field elements back to their symbol values
func (c *Coder) symbolValues(elems []field.Element) []uint {
	out := make([]uint, len(elems))
	for i, e := range elems {
		out[i] = e.Uint()
	}
	return out
}
