package field

import (
	"fmt"
)

// Matrix operations over finite fields. Matrices are slices of rows;
// elements are never mutated, so rows may share elements freely.

// InvertMatrix computes the inverse of an n x n matrix over the field using
// Gaussian elimination. It returns an error if the matrix is singular.
func InvertMatrix(A [][]Element, f Field) ([][]Element, error) {
	n := len(A)
	// Initialize inverse matrix as identity matrix
	inv := make([][]Element, n)
	for i := range inv {
		inv[i] = make([]Element, n)
		for j := range inv[i] {
			if i == j {
				inv[i][j] = f.One()
			} else {
				inv[i][j] = f.Zero()
			}
		}
	}

	// Copy A to work on
	B := make([][]Element, n)
	for i := range A {
		B[i] = make([]Element, n)
		copy(B[i], A[i])
	}

	// Perform Gaussian elimination with pivoting
	for i := 0; i < n; i++ {
		// Find pivot: look for a non-zero element in column i
		pivot := -1
		for k := i; k < n; k++ {
			if !B[k][i].IsZero() {
				pivot = k
				break
			}
		}

		// If no pivot found, matrix is singular
		if pivot == -1 {
			return nil, fmt.Errorf("matrix not invertible")
		}

		// Swap rows if needed
		if pivot != i {
			B[i], B[pivot] = B[pivot], B[i]
			inv[i], inv[pivot] = inv[pivot], inv[i]
		}

		// Normalize the pivot row
		invPivot, err := B[i][i].Inverse()
		if err != nil {
			return nil, err
		}
		for j := 0; j < n; j++ {
			B[i][j] = B[i][j].Mul(invPivot)
			inv[i][j] = inv[i][j].Mul(invPivot)
		}

		// Eliminate other rows
		for k := 0; k < n; k++ {
			if k == i || B[k][i].IsZero() {
				continue
			}
			factor := B[k][i]
			for j := 0; j < n; j++ {
				B[k][j] = B[k][j].Sub(factor.Mul(B[i][j]))
				inv[k][j] = inv[k][j].Sub(factor.Mul(inv[i][j]))
			}
		}
	}
	return inv, nil
}

// MatrixMultiply computes A × B matrix multiplication over the field.
// A is m×n, B is n×p, result is m×p.
func MatrixMultiply(A, B [][]Element, f Field) [][]Element {
	if len(A) == 0 || len(B) == 0 {
		return nil
	}

	m := len(A)    // rows of A
	n := len(A[0]) // cols of A = rows of B
	p := len(B[0]) // cols of B

	// Verify dimensions match
	if len(B) != n {
		panic(fmt.Sprintf("matrix dimensions mismatch: A is %d×%d, B is %d×%d", m, n, len(B), p))
	}

	C := make([][]Element, m)
	for i := range C {
		C[i] = make([]Element, p)
		for j := 0; j < p; j++ {
			sum := f.Zero()
			for k := 0; k < n; k++ {
				sum = sum.Add(A[i][k].Mul(B[k][j]))
			}
			C[i][j] = sum
		}
	}
	return C
}

// SolveLinearSystem solves A·x = b for x over the field, where A is an
// n×n matrix and b a vector of length n. It returns an error if the
// system is singular.
func SolveLinearSystem(A [][]Element, b []Element, f Field) ([]Element, error) {
	n := len(A)
	if len(b) != n {
		panic(fmt.Sprintf("system dimensions mismatch: A has %d rows, b has %d entries", n, len(b)))
	}

	Ainv, err := InvertMatrix(A, f)
	if err != nil {
		return nil, err
	}

	// Compute x = A⁻¹ · b
	x := make([]Element, n)
	for i := range x {
		sum := f.Zero()
		for k := 0; k < n; k++ {
			sum = sum.Add(Ainv[i][k].Mul(b[k]))
		}
		x[i] = sum
	}
	return x, nil
}
