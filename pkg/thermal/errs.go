package thermal

import "errors"

var (
	// ErrUnknownComponentType indicates a component "Type" tag with no power model.
	ErrUnknownComponentType = errors.New("thermal: unknown component type")

	// ErrUnknownStage indicates components filed under a stage without temperatures.
	ErrUnknownStage = errors.New("thermal: stage has no temperature details")

	// ErrInvalidComponent indicates a component that cannot be evaluated.
	ErrInvalidComponent = errors.New("thermal: invalid component")
)
