package srs

import "github.com/phrazzld/scry-flashcards/internal/domain"

// Params defines all configurable parameters for the SM-2 algorithm
type Params struct {
	// Ease factor floor. There is no ceiling.
	MinEaseFactor float64

	// Quality ratings accepted by the algorithm; ratings at or above
	// PassingQuality count as a successful recall.
	MinQuality     int
	MaxQuality     int
	PassingQuality int

	// Fixed intervals in days
	FailedInterval int // after any failed recall
	FirstInterval  int // after the first successful recall
	SecondInterval int // after the second consecutive successful recall
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	MinEaseFactor  float64
	PassingQuality int
	FailedInterval int
	FirstInterval  int
	SecondInterval int
}

// NewDefaultParams creates a new Params instance with the classic SM-2 values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor: domain.MinEaseFactor,

		MinQuality:     0,
		MaxQuality:     5,
		PassingQuality: 3,

		FailedInterval: 1,
		FirstInterval:  1,
		SecondInterval: 6,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero values in config keep the defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.PassingQuality > 0 && config.PassingQuality <= params.MaxQuality {
		params.PassingQuality = config.PassingQuality
	}
	if config.FailedInterval > 0 {
		params.FailedInterval = config.FailedInterval
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}

	return params
}
