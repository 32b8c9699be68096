// Package queue implements the ordering and reinsertion policies that
// decide which card a session presents next.
package queue

import (
	"fmt"
	"sort"

	"flashdeck/internal/models"
)

const (
	AlgorithmSequential = "sequential"
	AlgorithmFaust      = "faust"

	// DefaultAlgorithm is used when a session request leaves the
	// algorithm unset.
	DefaultAlgorithm = AlgorithmFaust

	// DefaultFaustOffset is how many positions ahead of a missed card
	// FAUST reinserts it, keeping it out of the very next slot.
	DefaultFaustOffset = 3
)

// Algorithm orders the initial queue of a session and decides where a
// missed card re-enters the queue in infinite mode.
type Algorithm interface {
	// Name is the identifier sessions store.
	Name() string

	// Build orders the scheduled cards into the initial queue. The input
	// slice is in authored deck order and is not modified.
	Build(cards []models.ScheduledCard, now int64) []models.ScheduledCard

	// Reinsert places a missed card back into the queue and returns the
	// updated queue.
	Reinsert(queue []models.ScheduledCard, card models.ScheduledCard) []models.ScheduledCard
}

// Resolve maps an algorithm name to its implementation. An empty name
// resolves to the default; unknown names are an error so bad input is
// caught at the boundary.
func Resolve(name string, faustOffset int) (Algorithm, error) {
	switch name {
	case AlgorithmSequential:
		return Sequential{}, nil
	case AlgorithmFaust, "":
		if faustOffset <= 0 {
			faustOffset = DefaultFaustOffset
		}
		return Faust{Offset: faustOffset}, nil
	default:
		return nil, fmt.Errorf("unknown queue algorithm %q", name)
	}
}

// Sequential preserves the deck's authored card order. Used for
// exam-style fixed-order drills; missed cards go to the back.
type Sequential struct{}

func (Sequential) Name() string {
	return AlgorithmSequential
}

func (Sequential) Build(cards []models.ScheduledCard, _ int64) []models.ScheduledCard {
	out := make([]models.ScheduledCard, len(cards))
	copy(out, cards)
	return out
}

func (Sequential) Reinsert(queue []models.ScheduledCard, card models.ScheduledCard) []models.ScheduledCard {
	return append(queue, card)
}

// Faust orders cards by urgency: overdue cards first, most overdue
// leading, then not-yet-due cards by nearest due date. That is a single
// ascending sort on the due timestamp; ties keep the authored deck
// order (stable sort). Reinsertion places a missed card Offset
// positions ahead rather than at the front, to avoid immediate
// repetition fatigue.
type Faust struct {
	Offset int
}

func (Faust) Name() string {
	return AlgorithmFaust
}

func (f Faust) Build(cards []models.ScheduledCard, _ int64) []models.ScheduledCard {
	out := make([]models.ScheduledCard, len(cards))
	copy(out, cards)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].State.Due < out[j].State.Due
	})
	return out
}

func (f Faust) Reinsert(queue []models.ScheduledCard, card models.ScheduledCard) []models.ScheduledCard {
	pos := f.Offset
	if pos <= 0 {
		pos = DefaultFaustOffset
	}
	if pos > len(queue) {
		pos = len(queue)
	}
	queue = append(queue, models.ScheduledCard{})
	copy(queue[pos+1:], queue[pos:])
	queue[pos] = card
	return queue
}
