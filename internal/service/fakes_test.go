package service

import (
	"encoding/json"
	"errors"
	"time"

	"flashdeck/internal/models"
)

// In-memory store fakes. Session and deck reads hand out deep copies
// so tests only observe what the service explicitly persisted.

var errStoreDown = errors.New("store down")

func fixedNow() int64 {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
}

type fakeDeckStore struct {
	decks []*models.Deck
}

func (f *fakeDeckStore) Get(userID, deckID string) (*models.Deck, error) {
	for _, deck := range f.decks {
		if deck.ID == deckID && deck.UserID == userID {
			return copyOf(deck), nil
		}
	}
	return nil, nil
}

func (f *fakeDeckStore) List(userID string, status models.DeckStatus) ([]models.Deck, error) {
	var out []models.Deck
	for _, deck := range f.decks {
		if deck.UserID != userID {
			continue
		}
		if status != "" && deck.Status != status {
			continue
		}
		out = append(out, *copyOf(deck))
	}
	return out, nil
}

func (f *fakeDeckStore) Create(deck *models.Deck) error {
	f.decks = append(f.decks, copyOf(deck))
	return nil
}

func (f *fakeDeckStore) AddCard(deckID string, card models.CardTemplate) error {
	for _, deck := range f.decks {
		if deck.ID == deckID {
			deck.Cards = append(deck.Cards, card)
			return nil
		}
	}
	return errors.New("no such deck")
}

func (f *fakeDeckStore) Publish(userID, deckID string) error {
	for _, deck := range f.decks {
		if deck.ID == deckID && deck.UserID == userID {
			deck.Status = models.DeckStatusPublished
			return nil
		}
	}
	return errors.New("no such deck")
}

func (f *fakeDeckStore) UpdateSettings(userID, deckID string, settings models.DeckSettings) error {
	for _, deck := range f.decks {
		if deck.ID == deckID && deck.UserID == userID {
			deck.Settings = settings
			return nil
		}
	}
	return errors.New("no such deck")
}

type fakeStateStore struct {
	states  map[string]models.SchedulingState
	failSet bool
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{states: make(map[string]models.SchedulingState)}
}

func (f *fakeStateStore) ListDeckStates(userID, deckID string) (map[string]models.SchedulingState, error) {
	out := make(map[string]models.SchedulingState)
	for key, state := range f.states {
		out[key] = state
	}
	return out, nil
}

func (f *fakeStateStore) Set(userID, deckID, cardID string, state models.SchedulingState) error {
	if f.failSet {
		return errStoreDown
	}
	f.states[cardID] = state
	return nil
}

type fakeSessionStore struct {
	sessions map[string]*models.StudySession
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.StudySession)}
}

func (f *fakeSessionStore) Create(session *models.StudySession) error {
	f.sessions[session.ID] = copyOf(session)
	return nil
}

func (f *fakeSessionStore) Update(session *models.StudySession) error {
	f.sessions[session.ID] = copyOf(session)
	return nil
}

func (f *fakeSessionStore) Get(sessionID string) (*models.StudySession, error) {
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return copyOf(session), nil
}

type fakeReviewStore struct {
	events     []models.ReviewEvent
	failAppend bool
}

func (f *fakeReviewStore) Append(event models.ReviewEvent) error {
	if f.failAppend {
		return errStoreDown
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeReviewStore) ListForDeck(userID, deckID string) ([]models.ReviewEvent, error) {
	var out []models.ReviewEvent
	for _, event := range f.events {
		if event.UserID == userID && event.DeckID == deckID {
			out = append(out, event)
		}
	}
	return out, nil
}

// copyOf round-trips a value through JSON, mimicking a real store where
// callers never share memory with the persisted record.
func copyOf[T any](v *T) *T {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	out := new(T)
	if err := json.Unmarshal(data, out); err != nil {
		panic(err)
	}
	return out
}
