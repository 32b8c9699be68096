package service

import (
	"fmt"
	"strings"
	"time"

	"flashdeck/internal/models"
	"flashdeck/internal/policy"
	"flashdeck/internal/scheduler"

	"github.com/google/uuid"
)

// DeckService handles deck authoring: creation, card additions,
// publishing and per-deck scheduler settings.
type DeckService struct {
	decks    DeckStore
	registry *scheduler.Registry
}

// NewDeckService creates a new deck service
func NewDeckService(decks DeckStore, registry *scheduler.Registry) *DeckService {
	return &DeckService{decks: decks, registry: registry}
}

// Create builds a new draft deck for the user. Card ids are assigned
// here so the caller never has to invent them.
func (s *DeckService) Create(userID, title, description string, categories []string, cards []models.CardTemplate) (*models.Deck, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: deck title is required", ErrInvalidInput)
	}

	deck := &models.Deck{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Categories:  categories,
		Status:      models.DeckStatusDraft,
		Settings: models.DeckSettings{
			SchedulerID:      scheduler.DefaultStrategyID,
			FeedbackPolicyID: policy.DefaultPolicyID,
		},
		CreatedAt: time.Now().UTC(),
	}

	for _, card := range cards {
		withID, err := newCard(card)
		if err != nil {
			return nil, err
		}
		deck.Cards = append(deck.Cards, withID)
	}

	if err := s.decks.Create(deck); err != nil {
		return nil, fmt.Errorf("failed to create deck: %w", err)
	}

	return deck, nil
}

// Get retrieves a deck owned by the user
func (s *DeckService) Get(userID, deckID string) (*models.Deck, error) {
	deck, err := s.decks.Get(userID, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}
	if deck == nil {
		return nil, ErrDeckNotFound
	}
	return deck, nil
}

// List retrieves the user's decks, optionally filtered by status
func (s *DeckService) List(userID string, status string) ([]models.Deck, error) {
	switch models.DeckStatus(status) {
	case "", models.DeckStatusDraft, models.DeckStatusPublished:
	default:
		return nil, fmt.Errorf("%w: unknown deck status %q", ErrInvalidInput, status)
	}

	decks, err := s.decks.List(userID, models.DeckStatus(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	return decks, nil
}

// AddCard appends a card to the end of a deck the user owns
func (s *DeckService) AddCard(userID, deckID string, card models.CardTemplate) (*models.Deck, error) {
	deck, err := s.Get(userID, deckID)
	if err != nil {
		return nil, err
	}

	withID, err := newCard(card)
	if err != nil {
		return nil, err
	}

	if err := s.decks.AddCard(deck.ID, withID); err != nil {
		return nil, fmt.Errorf("failed to add card: %w", err)
	}

	deck.Cards = append(deck.Cards, withID)
	return deck, nil
}

// AddCards appends a batch of cards in order, used by CSV import
func (s *DeckService) AddCards(userID, deckID string, cards []models.CardTemplate) (*models.Deck, error) {
	deck, err := s.Get(userID, deckID)
	if err != nil {
		return nil, err
	}

	for _, card := range cards {
		withID, err := newCard(card)
		if err != nil {
			return nil, err
		}
		if err := s.decks.AddCard(deck.ID, withID); err != nil {
			return nil, fmt.Errorf("failed to add card: %w", err)
		}
		deck.Cards = append(deck.Cards, withID)
	}

	return deck, nil
}

// Publish marks a deck as published, making it eligible for study
func (s *DeckService) Publish(userID, deckID string) (*models.Deck, error) {
	deck, err := s.Get(userID, deckID)
	if err != nil {
		return nil, err
	}

	if err := s.decks.Publish(userID, deckID); err != nil {
		return nil, fmt.Errorf("failed to publish deck: %w", err)
	}

	deck.Status = models.DeckStatusPublished
	return deck, nil
}

// UpdateSettings changes the deck's scheduler and feedback policy.
// Both ids are validated against their catalogs before anything is
// written.
func (s *DeckService) UpdateSettings(userID, deckID string, settings models.DeckSettings) (*models.Deck, error) {
	if _, err := s.registry.Get(settings.SchedulerID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if _, err := policy.Get(settings.FeedbackPolicyID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPolicyNotFound, err)
	}

	deck, err := s.Get(userID, deckID)
	if err != nil {
		return nil, err
	}

	if err := s.decks.UpdateSettings(userID, deckID, settings); err != nil {
		return nil, fmt.Errorf("failed to update deck settings: %w", err)
	}

	deck.Settings = settings
	return deck, nil
}

func newCard(card models.CardTemplate) (models.CardTemplate, error) {
	card.Front = strings.TrimSpace(card.Front)
	card.Back = strings.TrimSpace(card.Back)
	if card.Front == "" || card.Back == "" {
		return models.CardTemplate{}, fmt.Errorf("%w: card front and back are required", ErrInvalidInput)
	}
	card.ID = uuid.New().String()
	return card, nil
}
