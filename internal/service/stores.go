package service

import "flashdeck/internal/models"

// Store interfaces consumed by the services. The SQL repositories
// satisfy them in production; tests substitute in-memory fakes, so no
// service ever touches shared global state.

// DeckStore persists decks and their cards
type DeckStore interface {
	Get(userID, deckID string) (*models.Deck, error)
	List(userID string, status models.DeckStatus) ([]models.Deck, error)
	Create(deck *models.Deck) error
	AddCard(deckID string, card models.CardTemplate) error
	Publish(userID, deckID string) error
	UpdateSettings(userID, deckID string, settings models.DeckSettings) error
}

// StateStore persists per-(user, card) scheduling states
type StateStore interface {
	ListDeckStates(userID, deckID string) (map[string]models.SchedulingState, error)
	Set(userID, deckID, cardID string, state models.SchedulingState) error
}

// SessionStore persists study sessions
type SessionStore interface {
	Create(session *models.StudySession) error
	Update(session *models.StudySession) error
	Get(sessionID string) (*models.StudySession, error)
}

// ReviewStore is the append-only review event log
type ReviewStore interface {
	Append(event models.ReviewEvent) error
	ListForDeck(userID, deckID string) ([]models.ReviewEvent, error)
}
