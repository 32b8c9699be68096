// Package scheduler contains the pure spaced-repetition scheduling
// strategies. Strategies have no side effects and no stored state of
// their own: given a card's current scheduling state and a feedback
// rating they compute the next state, so they are safe for unlimited
// concurrent use.
package scheduler

import (
	"fmt"

	"flashdeck/internal/models"
)

// DayMillis converts whole-day intervals to the epoch-millisecond due
// timestamps used throughout the scheduling state.
const DayMillis = int64(24 * 60 * 60 * 1000)

const (
	// DefaultStrategyID is used when a deck's settings name an unknown
	// or empty scheduler.
	DefaultStrategyID = "fsrs-lite"

	minEase         = 1.3
	maxEase         = 2.8
	maxIntervalDays = 365
	minStability    = 0.5
)

// Strategy computes scheduling state transitions for one algorithm.
type Strategy interface {
	// ID is the identifier decks reference in their settings.
	ID() string

	// InitialState is the state for a card that has never been scheduled:
	// due immediately, minimal interval.
	InitialState(now int64) models.SchedulingState

	// Next computes the state after reviewing a card with the given
	// rating at the given time. Pure and total over the rating domain.
	Next(state models.SchedulingState, rating models.FeedbackRating, now int64) models.SchedulingState
}

// Registry holds the closed set of named strategies. Unknown ids are
// caught here rather than falling through string dispatch.
type Registry struct {
	strategies map[string]Strategy
	defaultID  string
}

// NewRegistry returns a registry with the shipped strategies registered.
func NewRegistry() *Registry {
	r := &Registry{
		strategies: make(map[string]Strategy),
		defaultID:  DefaultStrategyID,
	}
	r.register(NewFSRSLite())
	r.register(NewSM2())
	return r
}

func (r *Registry) register(s Strategy) {
	r.strategies[s.ID()] = s
}

// Get returns the strategy for the given id
func (r *Registry) Get(id string) (Strategy, error) {
	s, ok := r.strategies[id]
	if !ok {
		return nil, fmt.Errorf("unknown scheduler %q", id)
	}
	return s, nil
}

// GetOrDefault resolves a deck's configured scheduler id, falling back
// to the default strategy when the id is empty or unknown.
func (r *Registry) GetOrDefault(id string) Strategy {
	if s, ok := r.strategies[id]; ok {
		return s
	}
	return r.strategies[r.defaultID]
}

func clampEase(ease float64) float64 {
	if ease < minEase {
		return minEase
	}
	if ease > maxEase {
		return maxEase
	}
	return ease
}

func clampInterval(days int) int {
	if days > maxIntervalDays {
		return maxIntervalDays
	}
	return days
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// growInterval multiplies an interval, truncating toward zero so that
// rounding always brings the next review sooner, never later.
func growInterval(days int, mult float64) int {
	if days <= 0 {
		return 1
	}
	grown := int(float64(days) * mult)
	if grown < days {
		grown = days
	}
	return grown
}
