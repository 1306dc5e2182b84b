package material

import "errors"

var (
	// ErrUnknownMaterial indicates a material that is not in the table or library.
	ErrUnknownMaterial = errors.New("material: unknown material")

	// ErrUnknownFit indicates a fit name the material does not carry.
	ErrUnknownFit = errors.New("material: unknown fit")

	// ErrMalformedRecord indicates a fit record that failed validation at load.
	ErrMalformedRecord = errors.New("material: malformed fit record")

	// ErrMalformedTable indicates a table whose header cannot be parsed.
	ErrMalformedTable = errors.New("material: malformed table")

	// ErrNoFits indicates a material without any fit to interpolate.
	ErrNoFits = errors.New("material: no fits")

	// ErrOutsideInterpolation indicates a query beyond the sampled interpolation range.
	ErrOutsideInterpolation = errors.New("material: temperature outside interpolation range")
)
