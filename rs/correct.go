package rs

import (
	"fmt"

	"github.com/ethp2p/rs-codec/field"
	"github.com/ethp2p/rs-codec/poly"
)

// Error correction for received words with non-zero syndromes.
//
// The error locator polynomial σ(x) = Π (1 - X_i·x) has the inverses of the
// error locations X_i = α^(m_i) as its roots, where m_i is the power of x
// carrying the i-th corrupted symbol. Its coefficients satisfy a linear
// system over the syndromes, which is solved directly by Gaussian
// elimination over the field (Peterson-Gorenstein-Zierler). The error
// evaluator ω(x) = S(x)·σ(x) mod x^(n-k) then yields each error magnitude
// through Forney's formula.

// correct locates and removes the errors in a received word, returning the
// corrected codeword elements. It fails with ErrUncorrectable whenever the
// word cannot be consistently explained by at most Correctable() errors.
func (c *Coder) correct(word, synd []field.Element) ([]field.Element, error) {
	sigma, err := c.errorLocator(synd)
	if err != nil {
		return nil, err
	}
	omega := c.errorEvaluator(synd, sigma)

	positions, locations, err := c.errorPositions(sigma)
	if err != nil {
		return nil, err
	}
	magnitudes, err := c.errorMagnitudes(sigma, omega, locations)
	if err != nil {
		return nil, err
	}

	corrected := make([]field.Element, len(word))
	copy(corrected, word)
	for i, power := range positions {
		idx := c.n - 1 - power
		corrected[idx] = corrected[idx].Sub(magnitudes[i])
	}

	// A locator consistent with more than Correctable() actual errors can
	// still slip through the position checks; a corrected word that is not
	// a codeword is reported rather than returned.
	if _, clean := c.syndromes(corrected); !clean {
		return nil, fmt.Errorf("%w: corrected word is not a codeword", ErrUncorrectable)
	}

	log.Debugf("corrected %d symbol error(s) at positions %v", len(positions), positions)
	return corrected, nil
}

// errorLocator computes the error locator polynomial σ(x) from the
// syndromes by solving the key equation as a linear system. For an actual
// error count v <= Correctable(), the v×v syndrome matrix is the largest
// non-singular one, and its solution gives the locator coefficients.
func (c *Coder) errorLocator(synd []field.Element) (*poly.Polynomial, error) {
	one := c.field.One()

	for v := c.Correctable(); v >= 1; v-- {
		// Row j encodes Σ λ_m·S_(j+v-m) = -S_(j+v) for m = 1..v
		A := make([][]field.Element, v)
		b := make([]field.Element, v)
		for j := 0; j < v; j++ {
			A[j] = make([]field.Element, v)
			for m := 1; m <= v; m++ {
				A[j][m-1] = synd[j+v-m]
			}
			b[j] = synd[j+v].Neg()
		}

		lambda, err := field.SolveLinearSystem(A, b, c.field)
		if err != nil {
			// Singular system: fewer than v errors, try smaller v
			continue
		}

		// σ(x) = 1 + λ_1·x + ... + λ_v·x^v, highest degree first
		coeffs := make([]field.Element, v+1)
		for m := 1; m <= v; m++ {
			coeffs[v-m] = lambda[m-1]
		}
		coeffs[v] = one
		sigma := poly.New(c.field, coeffs)
		if sigma.Degree() != v {
			// Vanishing leading coefficient contradicts the assumed
			// error count
			continue
		}
		return sigma, nil
	}

	return nil, fmt.Errorf("%w: no consistent error locator of degree <= %d", ErrUncorrectable, c.Correctable())
}

// errorEvaluator computes ω(x) = S(x)·σ(x) mod x^(n-k), where S(x) has the
// i-th syndrome as its coefficient of x^i
func (c *Coder) errorEvaluator(synd []field.Element, sigma *poly.Polynomial) *poly.Polynomial {
	sCoeffs := make([]field.Element, len(synd))
	for i, s := range synd {
		sCoeffs[len(synd)-1-i] = s
	}
	product := poly.New(c.field, sCoeffs).Mul(sigma)

	truncated := make([]field.Element, len(synd))
	for power := 0; power < len(synd); power++ {
		truncated[len(synd)-1-power] = product.Coefficient(power)
	}
	return poly.New(c.field, truncated)
}

// errorPositions finds the roots of σ by evaluating it at the inverse of
// every non-zero field element. Each root α^(-l) marks an error at the
// symbol carrying the power l. It fails with ErrUncorrectable if a located
// position falls outside the codeword or the root count does not match the
// locator degree.
func (c *Coder) errorPositions(sigma *poly.Polynomial) ([]int, []field.Element, error) {
	alpha := c.field.Generator()
	alphaInv, err := alpha.Inverse()
	if err != nil {
		return nil, nil, err
	}

	var positions []int
	var locations []field.Element

	loc := c.field.One()
	locInv := c.field.One()
	for l := 0; l < int(c.field.Size())-1; l++ {
		if sigma.Evaluate(locInv).IsZero() {
			if l >= c.n {
				return nil, nil, fmt.Errorf("%w: error position %d outside codeword", ErrUncorrectable, l)
			}
			positions = append(positions, l)
			locations = append(locations, loc)
		}
		loc = loc.Mul(alpha)
		locInv = locInv.Mul(alphaInv)
	}

	if len(positions) != sigma.Degree() {
		return nil, nil, fmt.Errorf("%w: found %d error positions for a locator of degree %d",
			ErrUncorrectable, len(positions), sigma.Degree())
	}
	return positions, locations, nil
}

// errorMagnitudes applies Forney's formula Y_i = -X_i·ω(X_i⁻¹)/σ'(X_i⁻¹)
// at every error location X_i, with σ' the formal derivative of the locator
func (c *Coder) errorMagnitudes(sigma, omega *poly.Polynomial, locations []field.Element) ([]field.Element, error) {
	deriv := c.formalDerivative(sigma)

	magnitudes := make([]field.Element, len(locations))
	for i, x := range locations {
		xInv, err := x.Inverse()
		if err != nil {
			return nil, err
		}
		denom := deriv.Evaluate(xInv)
		if denom.IsZero() {
			return nil, fmt.Errorf("%w: locator derivative vanishes at error location", ErrUncorrectable)
		}
		y, err := x.Mul(omega.Evaluate(xInv)).Div(denom)
		if err != nil {
			return nil, err
		}
		magnitudes[i] = y.Neg()
	}
	return magnitudes, nil
}

// formalDerivative computes p'(x), with each scalar multiple i·c reduced in
// the field's characteristic
func (c *Coder) formalDerivative(p *poly.Polynomial) *poly.Polynomial {
	terms := make(map[int]field.Element, p.Degree())
	for power := 1; power <= p.Degree(); power++ {
		terms[power-1] = mulInt(c.field, p.Coefficient(power), power)
	}
	return poly.NewSparse(c.field, terms)
}

// mulInt computes the n-fold sum e + e + ... + e by double-and-add, which
// is correct in any characteristic
func mulInt(f field.Field, e field.Element, n int) field.Element {
	result := f.Zero()
	acc := e
	for n > 0 {
		if n&1 == 1 {
			result = result.Add(acc)
		}
		acc = acc.Add(acc)
		n >>= 1
	}
	return result
}
