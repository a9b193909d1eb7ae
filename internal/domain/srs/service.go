// Package srs implements the SM-2 spaced repetition review engine. It is a
// pure computation: no I/O, no shared state, and deterministic for a fixed
// "now", so a single Service may be used from any number of goroutines.
package srs

import (
	"fmt"
	"time"

	"github.com/phrazzld/scry-flashcards/internal/domain"
)

// ErrInvalidQuality is returned when a quality rating is outside the accepted range.
var ErrInvalidQuality = fmt.Errorf("%w: quality must be an integer between 0 and 5", domain.ErrValidation)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// CalculateNextReview computes the scheduling state that follows a review
	// of the given quality at time now.
	CalculateNextReview(current domain.Schedule, quality int, now time.Time) (domain.Schedule, error)

	// InitialSchedule returns the scheduling state of a newly created card.
	InitialSchedule(now time.Time) domain.Schedule
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements Service.CalculateNextReview
func (s *defaultService) CalculateNextReview(
	current domain.Schedule,
	quality int,
	now time.Time,
) (domain.Schedule, error) {
	if quality < s.params.MinQuality || quality > s.params.MaxQuality {
		return domain.Schedule{}, fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	}

	return calculateNextSchedule(current, quality, now, s.params), nil
}

// InitialSchedule implements Service.InitialSchedule
func (s *defaultService) InitialSchedule(now time.Time) domain.Schedule {
	return domain.NewSchedule(now)
}
