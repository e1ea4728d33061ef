package particle

import "errors"

var (
	// ErrInvalidSelector indicates a selection probability outside [0, 1].
	ErrInvalidSelector = errors.New("particle: selection probability must be in [0, 1]")

	// ErrInvalidPopulation indicates a non-positive population size.
	ErrInvalidPopulation = errors.New("particle: population size must be positive")
)
