package scheduler

import (
	"math"

	"flashdeck/internal/models"
)

// FSRSLite is the default strategy: SM-2 style interval growth driven
// by the ease factor, with FSRS-style stability and difficulty signals
// feeding the forgetting-risk analytics.
type FSRSLite struct {
	// Parameters of the stability growth formula
	// S' = S * (1 + a * D^(-b) * S^c * (e^(d*(1-R)) - 1))
	a, b, c, d       float64
	desiredRetention float64
}

// NewFSRSLite returns the strategy with its stock parameters.
func NewFSRSLite() *FSRSLite {
	return &FSRSLite{
		a:                0.2,
		b:                0.5,
		c:                0.1,
		d:                4.0,
		desiredRetention: 0.9,
	}
}

func (f *FSRSLite) ID() string {
	return "fsrs-lite"
}

func (f *FSRSLite) InitialState(now int64) models.SchedulingState {
	return models.SchedulingState{
		Due:        now,
		Interval:   0,
		Ease:       2.3,
		Stability:  1.0,
		Difficulty: 0.5,
	}
}

func (f *FSRSLite) Next(state models.SchedulingState, rating models.FeedbackRating, now int64) models.SchedulingState {
	next := state
	next.Reps++
	next.LastReview = now

	switch rating {
	case models.RatingAgain:
		// Reset to the same-day floor: the card lapses.
		next.Interval = 0
		next.Ease = clampEase(state.Ease - 0.20)
		next.Stability = math.Max(minStability, state.Stability*0.3)
		next.Difficulty = clamp01(state.Difficulty + 0.15)
		next.Lapses++
	case models.RatingHard:
		next.Interval = clampInterval(growInterval(state.Interval, 1.2))
		next.Ease = clampEase(state.Ease - 0.05)
		next.Stability = f.growStability(state.Stability, state.Difficulty, 0.8)
		next.Difficulty = clamp01(state.Difficulty + 0.05)
	case models.RatingGood:
		next.Interval = clampInterval(growInterval(state.Interval, state.Ease))
		next.Stability = f.growStability(state.Stability, state.Difficulty, 1.0)
		next.Difficulty = clamp01(state.Difficulty - 0.02)
	case models.RatingEasy:
		next.Interval = clampInterval(growInterval(state.Interval, state.Ease+0.15))
		next.Ease = clampEase(state.Ease + 0.05)
		next.Stability = f.growStability(state.Stability, state.Difficulty, 1.15)
		next.Difficulty = clamp01(state.Difficulty - 0.05)
	}

	next.Due = now + int64(next.Interval)*DayMillis
	return next
}

// growStability applies the FSRS growth formula for a successful
// review. Difficulty is stored in [0,1] and mapped onto the 1-10 range
// the formula expects; scale dampens (hard) or boosts (easy) growth.
func (f *FSRSLite) growStability(stability, difficulty, scale float64) float64 {
	if stability < 1 {
		stability = 1
	}
	d10 := 1 + difficulty*9
	factor := f.a * math.Pow(d10, -f.b) * math.Pow(stability, f.c)
	multiplier := math.Exp(f.d*(1-f.desiredRetention)) - 1
	return stability * (1 + scale*factor*multiplier)
}
