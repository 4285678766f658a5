// Package poly implements polynomial arithmetic over an arbitrary finite
// field. Polynomials are immutable value objects; every operation returns a
// new polynomial in canonical form, with no leading zero coefficients above
// the true degree.
package poly

import (
	"fmt"
	"strings"

	"github.com/ethp2p/rs-codec/field"
)

// Polynomial represents a polynomial with coefficients in a finite field.
// Coefficients are stored densely, highest degree first: coeffs[0] is the
// coefficient of x^Degree(). The canonical zero polynomial has a single
// zero coefficient.
type Polynomial struct {
	field  field.Field
	coeffs []field.Element
}

// New creates a polynomial from a dense coefficient sequence ordered from
// the highest degree down. Leading zero coefficients are stripped; an
// empty sequence yields the zero polynomial.
func New(f field.Field, coeffs []field.Element) *Polynomial {
	firstNonZero := 0
	for firstNonZero < len(coeffs) && coeffs[firstNonZero].IsZero() {
		firstNonZero++
	}
	if firstNonZero == len(coeffs) {
		return &Polynomial{field: f, coeffs: []field.Element{f.Zero()}}
	}

	canonical := make([]field.Element, len(coeffs)-firstNonZero)
	copy(canonical, coeffs[firstNonZero:])
	return &Polynomial{field: f, coeffs: canonical}
}

// NewSparse creates a polynomial from a mapping of power to coefficient.
// Powers absent from the mapping default to the additive identity.
func NewSparse(f field.Field, terms map[int]field.Element) *Polynomial {
	maxPower := 0
	for power, c := range terms {
		if power < 0 {
			panic(fmt.Sprintf("negative power %d in polynomial", power))
		}
		if power > maxPower && !c.IsZero() {
			maxPower = power
		}
	}

	coeffs := make([]field.Element, maxPower+1)
	for i := range coeffs {
		coeffs[i] = f.Zero()
	}
	for power, c := range terms {
		if power <= maxPower {
			coeffs[maxPower-power] = c
		}
	}
	return New(f, coeffs)
}

// Monomial creates the polynomial c·x^degree
func Monomial(f field.Field, degree int, c field.Element) *Polynomial {
	if degree < 0 {
		panic(fmt.Sprintf("negative degree %d in monomial", degree))
	}
	if c.IsZero() {
		return New(f, nil)
	}
	coeffs := make([]field.Element, degree+1)
	coeffs[0] = c
	for i := 1; i <= degree; i++ {
		coeffs[i] = f.Zero()
	}
	return &Polynomial{field: f, coeffs: coeffs}
}

// Field returns the coefficient field of the polynomial
func (p *Polynomial) Field() field.Field {
	return p.field
}

// Degree returns the highest power with a non-zero coefficient, or 0 for
// the zero polynomial
func (p *Polynomial) Degree() int {
	return len(p.coeffs) - 1
}

// IsZero returns true if p is the zero polynomial
func (p *Polynomial) IsZero() bool {
	return len(p.coeffs) == 1 && p.coeffs[0].IsZero()
}

// Coefficient returns the coefficient of x^power. Powers outside the
// represented range yield the additive identity.
func (p *Polynomial) Coefficient(power int) field.Element {
	if power < 0 || power > p.Degree() {
		return p.field.Zero()
	}
	return p.coeffs[len(p.coeffs)-1-power]
}

// Coefficients returns the coefficients of p ordered from the highest
// degree down. The returned slice must not be modified.
func (p *Polynomial) Coefficients() []field.Element {
	return p.coeffs
}

// Evaluate computes p(x) by Horner's rule
func (p *Polynomial) Evaluate(x field.Element) field.Element {
	result := p.coeffs[0]
	for _, c := range p.coeffs[1:] {
		result = result.Mul(x).Add(c)
	}
	return result
}

// Add returns p + q
func (p *Polynomial) Add(q *Polynomial) *Polynomial {
	if p.IsZero() {
		return q
	}
	if q.IsZero() {
		return p
	}

	shorter, longer := p.coeffs, q.coeffs
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	sum := make([]field.Element, len(longer))
	pad := len(longer) - len(shorter)
	copy(sum, longer[:pad])
	for i := pad; i < len(longer); i++ {
		sum[i] = longer[i].Add(shorter[i-pad])
	}
	return New(p.field, sum)
}

// Sub returns p - q
func (p *Polynomial) Sub(q *Polynomial) *Polynomial {
	return p.Add(q.Neg())
}

// Neg returns the coefficientwise additive inverse of p
func (p *Polynomial) Neg() *Polynomial {
	neg := make([]field.Element, len(p.coeffs))
	for i, c := range p.coeffs {
		neg[i] = c.Neg()
	}
	return &Polynomial{field: p.field, coeffs: neg}
}

// Mul returns p * q by convolution of the coefficient sequences
func (p *Polynomial) Mul(q *Polynomial) *Polynomial {
	if p.IsZero() || q.IsZero() {
		return New(p.field, nil)
	}

	product := make([]field.Element, len(p.coeffs)+len(q.coeffs)-1)
	for i := range product {
		product[i] = p.field.Zero()
	}
	for i, a := range p.coeffs {
		for j, b := range q.coeffs {
			product[i+j] = product[i+j].Add(a.Mul(b))
		}
	}
	return New(p.field, product)
}

// MulScalar returns p with every coefficient multiplied by c
func (p *Polynomial) MulScalar(c field.Element) *Polynomial {
	if c.IsZero() {
		return New(p.field, nil)
	}
	product := make([]field.Element, len(p.coeffs))
	for i, a := range p.coeffs {
		product[i] = a.Mul(c)
	}
	return New(p.field, product)
}

// DivMod performs polynomial long division of p by divisor, returning the
// quotient and remainder with deg(remainder) < deg(divisor). It fails with
// field.ErrDivisionByZero if divisor is the zero polynomial.
func (p *Polynomial) DivMod(divisor *Polynomial) (*Polynomial, *Polynomial, error) {
	if divisor.IsZero() {
		return nil, nil, fmt.Errorf("%w: polynomial division by the zero polynomial", field.ErrDivisionByZero)
	}

	invLead, err := divisor.coeffs[0].Inverse()
	if err != nil {
		return nil, nil, err
	}

	quotient := New(p.field, nil)
	remainder := p
	for !remainder.IsZero() && remainder.Degree() >= divisor.Degree() {
		degreeDiff := remainder.Degree() - divisor.Degree()
		scale := remainder.coeffs[0].Mul(invLead)
		term := Monomial(p.field, degreeDiff, scale)
		quotient = quotient.Add(term)
		remainder = remainder.Sub(term.Mul(divisor))
	}
	return quotient, remainder, nil
}

// FloorDiv returns the quotient of the polynomial long division p / divisor
func (p *Polynomial) FloorDiv(divisor *Polynomial) (*Polynomial, error) {
	q, _, err := p.DivMod(divisor)
	return q, err
}

// Mod returns the remainder of the polynomial long division p / divisor
func (p *Polynomial) Mod(divisor *Polynomial) (*Polynomial, error) {
	_, r, err := p.DivMod(divisor)
	return r, err
}

// Equal returns true if p and q have identical canonical coefficient
// sequences
func (p *Polynomial) Equal(q *Polynomial) bool {
	if len(p.coeffs) != len(q.coeffs) {
		return false
	}
	for i, c := range p.coeffs {
		if !c.Equal(q.coeffs[i]) {
			return false
		}
	}
	return true
}

// String returns a human-readable representation of p
func (p *Polynomial) String() string {
	if p.IsZero() {
		return "0"
	}
	var terms []string
	for i, c := range p.coeffs {
		if c.IsZero() {
			continue
		}
		power := p.Degree() - i
		switch power {
		case 0:
			terms = append(terms, c.String())
		case 1:
			terms = append(terms, fmt.Sprintf("%s*x", c))
		default:
			terms = append(terms, fmt.Sprintf("%s*x^%d", c, power))
		}
	}
	return strings.Join(terms, " + ")
}
