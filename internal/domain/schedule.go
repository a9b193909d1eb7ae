package domain

import "time"

// Default scheduling values for a newly created flashcard.
const (
	InitialInterval   = 0
	InitialRepetition = 0
	InitialEaseFactor = 2.5

	// MinEaseFactor is the floor applied to every ease factor update.
	MinEaseFactor = 1.3
)

// Schedule is the SM-2 scheduling state of a flashcard plus its derived due date.
type Schedule struct {
	Interval   int       `json:"interval"`    // Days until the next review
	Repetition int       `json:"repetition"`  // Consecutive successful recalls
	EaseFactor float64   `json:"ease_factor"` // Interval growth multiplier, never below MinEaseFactor
	DueDate    time.Time `json:"due_date"`    // Next moment the card is eligible for review
}

// NewSchedule returns the scheduling state of a card that has never been
// reviewed. The card is due immediately.
func NewSchedule(now time.Time) Schedule {
	return Schedule{
		Interval:   InitialInterval,
		Repetition: InitialRepetition,
		EaseFactor: InitialEaseFactor,
		DueDate:    now,
	}
}

// IsDue reports whether the schedule is eligible for review at the reference time.
func (s Schedule) IsDue(ref time.Time) bool {
	return !s.DueDate.After(ref)
}

// Validate checks the scheduling invariants.
func (s Schedule) Validate() error {
	if s.Interval < 0 {
		return NewValidationError("interval", "must be greater than or equal to 0", ErrValidation)
	}
	if s.Repetition < 0 {
		return NewValidationError("repetition", "must be greater than or equal to 0", ErrValidation)
	}
	if s.EaseFactor < MinEaseFactor {
		return NewValidationError("ease_factor", "must be at least 1.3", ErrValidation)
	}
	if s.DueDate.IsZero() {
		return NewValidationError("due_date", "cannot be empty", ErrValidation)
	}
	return nil
}
