package bancor

import "errors"

var (
	// ErrInvalidArgument reports a violated precondition on supply, reserve,
	// ratio or amount. It is raised before any arithmetic executes.
	ErrInvalidArgument = errors.New("invalid conversion argument")

	// ErrArithmeticOverflow and ErrArithmeticUnderflow report a checked
	// operation leaving the 256-bit domain. The input combination is outside
	// the safely representable range; there is no partial result.
	ErrArithmeticOverflow  = errors.New("arithmetic overflow")
	ErrArithmeticUnderflow = errors.New("arithmetic underflow")

	// ErrPrecisionRangeExceeded reports a base/exponent ratio too extreme to
	// approximate safely at even the lowest supported precision.
	ErrPrecisionRangeExceeded = errors.New("exponent outside precision range")
)
