package cryo

import "errors"

var (
	// ErrMissingStage indicates a stage the vapor balance cannot do without.
	ErrMissingStage = errors.New("cryo: required stage missing")

	// ErrNonPositiveLoad indicates a load that must be positive to estimate hold time.
	ErrNonPositiveLoad = errors.New("cryo: load must be positive to estimate hold time")
)
