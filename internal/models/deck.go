package models

import "time"

// DeckStatus is the lifecycle state of a deck
type DeckStatus string

const (
	DeckStatusDraft     DeckStatus = "draft"
	DeckStatusPublished DeckStatus = "published"
)

// DeckSettings selects the scheduling strategy and feedback policy for a deck
type DeckSettings struct {
	SchedulerID      string `json:"schedulerId"`
	FeedbackPolicyID string `json:"feedbackPolicyId"`
}

// CardTemplate is an immutable content unit owned by a deck
type CardTemplate struct {
	ID    string   `json:"id"`
	Front string   `json:"front"`
	Back  string   `json:"back"`
	Hint  string   `json:"hint,omitempty"`
	Tags  []string `json:"tags,omitempty"`
}

// Deck is an ordered collection of card templates owned by a user
type Deck struct {
	ID          string         `json:"id"`
	UserID      string         `json:"userId"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Cards       []CardTemplate `json:"cards"`
	Categories  []string       `json:"categories,omitempty"`
	Status      DeckStatus     `json:"status"`
	Settings    DeckSettings   `json:"settings"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// CardByID returns the card with the given id, or nil if the deck has no such card
func (d *Deck) CardByID(cardID string) *CardTemplate {
	for i := range d.Cards {
		if d.Cards[i].ID == cardID {
			return &d.Cards[i]
		}
	}
	return nil
}
