package primitives

import "errors"

var (
	// ErrInvalidCubeCount is returned when the cube count cannot hold every letter
	// at least once, or exceeds MaxCubes.
	ErrInvalidCubeCount = errors.New("primitives: invalid cube count")

	// ErrInvalidFrequencies is returned when letter frequencies are negative or do
	// not sum to 1.
	ErrInvalidFrequencies = errors.New("primitives: invalid letter frequencies")

	// ErrInvalidArrangement is returned when an arrangement contains a non-letter
	// or its length is not a whole number of cubes.
	ErrInvalidArrangement = errors.New("primitives: invalid arrangement")

	// ErrInventoryViolation is returned when an arrangement's letters diverge from
	// the inventory it is supposed to be a rearrangement of.
	ErrInventoryViolation = errors.New("primitives: arrangement does not match inventory")
)
