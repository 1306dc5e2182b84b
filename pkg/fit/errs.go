package fit

import "errors"

var (
	// ErrUnknownType indicates a fit type tag that has no evaluator.
	ErrUnknownType = errors.New("fit: unknown fit type")

	// ErrNoParams indicates a fit with no usable parameters.
	ErrNoParams = errors.New("fit: no parameters")

	// ErrArity indicates a parameter count that does not match the fit type.
	ErrArity = errors.New("fit: parameter count mismatch")

	// ErrCrossover indicates a compound fit crossover that is neither -1, 0 nor positive.
	ErrCrossover = errors.New("fit: invalid compound crossover")

	// ErrShortData indicates too few samples for the requested polynomial order.
	ErrShortData = errors.New("fit: not enough samples")
)
