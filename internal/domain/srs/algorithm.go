package srs

import (
	"math"
	"time"

	"github.com/phrazzld/scry-flashcards/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease update for a quality rating.
//
// The update runs for every review, passed or failed:
//
//	ease' = ease + (0.1 - (5 - q) * (0.08 + (5 - q) * 0.02))
//
// The result is snapped to hundredths and floored at params.MinEaseFactor.
// There is no upper bound, so repeated perfect recalls keep raising the ease
// factor.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	d := float64(params.MaxQuality - quality)
	newEF := currentEF + (0.1 - d*(0.08+d*0.02))
	newEF = math.Round(newEF*100) / 100

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	return newEF
}

// calculateNewRepetition returns the consecutive-success count after a review.
func calculateNewRepetition(repetition, quality int, params *Params) int {
	if quality < params.PassingQuality {
		return 0
	}
	return repetition + 1
}

// calculateNewInterval determines the interval in days after a review.
//
// A failed recall always schedules the card for the next day. A successful
// recall uses the fixed first and second intervals, then grows the previous
// interval by the new ease factor, rounding half away from zero. The product
// is taken in integer hundredths so an exact half is never lost to float error.
func calculateNewInterval(currentInterval, newRepetition int, newEF float64, quality int, params *Params) int {
	if quality < params.PassingQuality {
		return params.FailedInterval
	}

	switch newRepetition {
	case 1:
		return params.FirstInterval
	case 2:
		return params.SecondInterval
	default:
		hundredths := int64(math.Round(newEF * 100))
		return int((int64(currentInterval)*hundredths + 50) / 100)
	}
}

// calculateDueDate adds the interval to now as calendar days, keeping the time of day.
func calculateDueDate(interval int, now time.Time) time.Time {
	return now.AddDate(0, 0, interval)
}

// calculateNextSchedule computes the complete next scheduling state. It never
// modifies its input.
func calculateNextSchedule(current domain.Schedule, quality int, now time.Time, params *Params) domain.Schedule {
	newEF := calculateNewEaseFactor(current.EaseFactor, quality, params)
	newRepetition := calculateNewRepetition(current.Repetition, quality, params)
	newInterval := calculateNewInterval(current.Interval, newRepetition, newEF, quality, params)

	return domain.Schedule{
		Interval:   newInterval,
		Repetition: newRepetition,
		EaseFactor: newEF,
		DueDate:    calculateDueDate(newInterval, now),
	}
}
