package field

import "errors"

// ErrDivisionByZero is returned when an inverse or division is attempted
// with the additive identity as the divisor.
var ErrDivisionByZero = errors.New("division by zero")

// ErrOutOfRange is returned when an integer value does not denote an
// element of the field it is constructed for.
var ErrOutOfRange = errors.New("value out of field range")

// Element represents an immutable element in a finite field. All operations
// return new elements in the same field; mixing elements from different
// fields is a programming error and panics.
type Element interface {
	// Field returns the field this element belongs to
	Field() Field

	// Add returns a + b in the field
	Add(b Element) Element

	// Sub returns a - b in the field
	Sub(b Element) Element

	// Mul returns a * b in the field
	Mul(b Element) Element

	// Neg returns the additive inverse of a
	Neg() Element

	// Inverse returns the multiplicative inverse of a.
	// It fails with ErrDivisionByZero for the zero element.
	Inverse() (Element, error)

	// Div returns a / b in the field.
	// It fails with ErrDivisionByZero if b is the zero element.
	Div(b Element) (Element, error)

	// Pow returns a raised to the power e. A negative exponent inverts
	// first and fails with ErrDivisionByZero for the zero element.
	Pow(e int) (Element, error)

	// IsZero returns true if the element is the zero element
	IsZero() bool

	// Equal returns true if two elements are equal
	Equal(b Element) bool

	// Uint returns the canonical integer value of the element
	Uint() uint

	// String returns the string representation of the element
	String() string
}

// Field represents a finite field
type Field interface {
	// Zero returns the zero element of the field
	Zero() Element

	// One returns the one element of the field
	One() Element

	// Element creates a field element from an integer value.
	// It fails with ErrOutOfRange if v is not in [0, Size()).
	Element(v uint) (Element, error)

	// Generator returns the distinguished primitive element of the field
	Generator() Element

	// Size returns the order of the field
	Size() uint

	// Name returns a short human-readable name for the field
	Name() string
}
