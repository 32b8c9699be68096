package scheduler

import (
	"math"

	"flashdeck/internal/models"
)

// SM2 is the classic SuperMemo-2 progression (1, 6, then interval
// times ease) with the ratings mapped onto the 0-3 feedback domain.
// Kept for decks that prefer the textbook curve over fsrs-lite.
type SM2 struct{}

// NewSM2 returns the classic strategy.
func NewSM2() *SM2 {
	return &SM2{}
}

func (s *SM2) ID() string {
	return "sm2"
}

func (s *SM2) InitialState(now int64) models.SchedulingState {
	return models.SchedulingState{
		Due:        now,
		Interval:   0,
		Ease:       2.5,
		Stability:  1.0,
		Difficulty: 0.5,
	}
}

func (s *SM2) Next(state models.SchedulingState, rating models.FeedbackRating, now int64) models.SchedulingState {
	next := state
	next.Reps++
	next.LastReview = now

	// EF' = EF + (0.1 - (3-q)*(0.08 + (3-q)*0.02)), q in 0..3
	q := float64(rating)
	next.Ease = clampEase(state.Ease + (0.1 - (3-q)*(0.08+(3-q)*0.02)))

	switch {
	case rating == models.RatingAgain:
		next.Interval = 0
		next.Stability = math.Max(minStability, state.Stability*0.3)
		next.Difficulty = clamp01(state.Difficulty + 0.15)
		next.Lapses++
	case rating == models.RatingHard:
		// Repeat at the shortest real interval rather than a full reset.
		next.Interval = 1
		next.Stability = math.Max(1, state.Stability)
		next.Difficulty = clamp01(state.Difficulty + 0.05)
	case state.Interval == 0:
		next.Interval = 1
		next.Stability = 1
		next.Difficulty = clamp01(state.Difficulty - 0.02)
	case state.Interval == 1:
		next.Interval = 6
		next.Stability = 6
		next.Difficulty = clamp01(state.Difficulty - 0.02)
	default:
		next.Interval = clampInterval(growInterval(state.Interval, next.Ease))
		next.Stability = float64(next.Interval)
		next.Difficulty = clamp01(state.Difficulty - 0.02)
	}

	next.Due = now + int64(next.Interval)*DayMillis
	return next
}
