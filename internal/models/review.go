package models

// FeedbackRating is the learner's self-assessment of recall quality.
// The numeric values are the wire format of the answer endpoint.
type FeedbackRating int

const (
	RatingAgain FeedbackRating = 0
	RatingHard  FeedbackRating = 1
	RatingGood  FeedbackRating = 2
	RatingEasy  FeedbackRating = 3
)

// Valid reports whether the rating is inside the feedback domain
func (r FeedbackRating) Valid() bool {
	return r >= RatingAgain && r <= RatingEasy
}

// Success reports whether the rating counts as a correct recall
func (r FeedbackRating) Success() bool {
	return r >= RatingGood
}

func (r FeedbackRating) String() string {
	switch r {
	case RatingAgain:
		return "again"
	case RatingHard:
		return "hard"
	case RatingGood:
		return "good"
	case RatingEasy:
		return "easy"
	}
	return "unknown"
}

// ReviewEvent is the immutable record of a single card review.
// Append-only; the ground truth for analytics. Timestamp is epoch
// milliseconds, intervals are whole days.
type ReviewEvent struct {
	CardID       string         `json:"cardId"`
	DeckID       string         `json:"deckId"`
	UserID       string         `json:"userId"`
	Timestamp    int64          `json:"timestamp"`
	Feedback     FeedbackRating `json:"feedback"`
	PrevInterval int            `json:"prevInterval"`
	NextInterval int            `json:"nextInterval"`
}
