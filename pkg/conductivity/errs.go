package conductivity

import "errors"

var (
	// ErrInvertedBounds indicates an integral whose lower bound exceeds the upper.
	ErrInvertedBounds = errors.New("conductivity: lower bound above upper bound")

	// ErrNoLibrary indicates a named fit or interpolation requested without a fit library.
	ErrNoLibrary = errors.New("conductivity: no fit library configured")
)
