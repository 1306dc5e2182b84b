package optimize

import (
	"errors"

	"github.com/ja7ad/cryotherm/pkg/cryo"
)

var (
	// ErrMissingStage indicates the model lacks VCS 1, VCS 2 or 4K - LHe.
	ErrMissingStage = cryo.ErrMissingStage

	// ErrInvalidGrid indicates grid options that cannot span a search.
	ErrInvalidGrid = errors.New("optimize: invalid grid")
)
