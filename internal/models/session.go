package models

// SessionMode controls whether a session ends when the queue runs out
type SessionMode string

const (
	ModeFinite   SessionMode = "finite"
	ModeInfinite SessionMode = "infinite"
)

// SessionStatus is the lifecycle state of a study session
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
	StatusAbandoned SessionStatus = "abandoned"
)

// SchedulingState is the per-(user, card) memory state consumed and
// produced by the scheduler. Due and LastReview are epoch milliseconds,
// Interval is whole days.
type SchedulingState struct {
	Due        int64   `json:"due"`
	Interval   int     `json:"interval"`
	Ease       float64 `json:"easeFactor"`
	Stability  float64 `json:"stability"`
	Difficulty float64 `json:"difficulty"`
	LastReview int64   `json:"lastReview,omitempty"`
	Reps       int     `json:"reps"`
	Lapses     int     `json:"lapses"`
}

// ScheduledCard pairs a card with its current scheduling state. It only
// exists inside a session's queue and is never persisted on its own.
type ScheduledCard struct {
	Card  CardTemplate    `json:"card"`
	State SchedulingState `json:"state"`
}

// StudySession is the state machine owned by the session orchestrator.
// At most one card is active at a time; the remaining queue holds the
// cards still to be shown, completed holds the review events produced
// so far.
type StudySession struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	DeckID      string          `json:"deckId"`
	SchedulerID string          `json:"schedulerId"`
	Algorithm   string          `json:"algorithm"`
	Mode        SessionMode     `json:"mode"`
	Status      SessionStatus   `json:"status"`
	ActiveCard  *ScheduledCard  `json:"activeCard"`
	Queue       []ScheduledCard `json:"remainingQueue"`
	Completed   []ReviewEvent   `json:"completed"`
	StartedAt   int64           `json:"startedAt"`
	EndedAt     int64           `json:"endedAt,omitempty"`
}

// Terminal reports whether the session can no longer accept answers
func (s *StudySession) Terminal() bool {
	return s.Status != StatusActive
}

// CardCount is the number of cards currently accounted for by the
// session: completed attempts, queued cards, and the active card.
func (s *StudySession) CardCount() int {
	count := len(s.Completed) + len(s.Queue)
	if s.ActiveCard != nil {
		count++
	}
	return count
}
