package service

import (
	"errors"
	"testing"

	"flashdeck/internal/models"
	"flashdeck/internal/scheduler"
)

func newDeckService() (*DeckService, *fakeDeckStore) {
	decks := &fakeDeckStore{}
	return NewDeckService(decks, scheduler.NewRegistry()), decks
}

func TestCreateDeck(t *testing.T) {
	svc, store := newDeckService()

	deck, err := svc.Create("user-1", "  Spanish Basics  ", "starter vocab", []string{"language"}, []models.CardTemplate{
		{Front: "hola", Back: "hello"},
		{Front: "adiós", Back: "goodbye", Tags: []string{"greetings"}},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if deck.ID == "" {
		t.Error("deck was not assigned an id")
	}
	if deck.Title != "Spanish Basics" {
		t.Errorf("title = %q, want trimmed title", deck.Title)
	}
	if deck.Status != models.DeckStatusDraft {
		t.Errorf("status = %s, want draft", deck.Status)
	}
	if deck.Settings.SchedulerID != scheduler.DefaultStrategyID {
		t.Errorf("scheduler = %s, want default", deck.Settings.SchedulerID)
	}
	for i, card := range deck.Cards {
		if card.ID == "" {
			t.Errorf("card %d was not assigned an id", i)
		}
	}
	if len(store.decks) != 1 {
		t.Errorf("persisted decks = %d, want 1", len(store.decks))
	}
}

func TestCreateDeckValidation(t *testing.T) {
	svc, _ := newDeckService()

	tests := []struct {
		name  string
		title string
		cards []models.CardTemplate
	}{
		{"empty title", "   ", nil},
		{"card missing back", "Deck", []models.CardTemplate{{Front: "q"}}},
		{"card missing front", "Deck", []models.CardTemplate{{Back: "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create("user-1", tt.title, "", nil, tt.cards); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Create() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestAddCardAssignsID(t *testing.T) {
	svc, _ := newDeckService()
	deck, err := svc.Create("user-1", "Deck", "", nil, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := svc.AddCard("user-1", deck.ID, models.CardTemplate{Front: "q", Back: "a"})
	if err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}
	if len(updated.Cards) != 1 || updated.Cards[0].ID == "" {
		t.Errorf("cards = %+v, want one card with an id", updated.Cards)
	}

	if _, err := svc.AddCard("user-2", deck.ID, models.CardTemplate{Front: "q", Back: "a"}); !errors.Is(err, ErrDeckNotFound) {
		t.Errorf("foreign AddCard() error = %v, want ErrDeckNotFound", err)
	}
}

func TestPublishDeck(t *testing.T) {
	svc, _ := newDeckService()
	deck, err := svc.Create("user-1", "Deck", "", nil, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	published, err := svc.Publish("user-1", deck.ID)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if published.Status != models.DeckStatusPublished {
		t.Errorf("status = %s, want published", published.Status)
	}

	if _, err := svc.Publish("user-1", "missing"); !errors.Is(err, ErrDeckNotFound) {
		t.Errorf("Publish() error = %v, want ErrDeckNotFound", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	svc, _ := newDeckService()
	deck, err := svc.Create("user-1", "Deck", "", nil, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name     string
		settings models.DeckSettings
		wantErr  error
	}{
		{"valid", models.DeckSettings{SchedulerID: "sm2", FeedbackPolicyID: "binary"}, nil},
		{"unknown scheduler", models.DeckSettings{SchedulerID: "anki", FeedbackPolicyID: "binary"}, ErrInvalidInput},
		{"unknown policy", models.DeckSettings{SchedulerID: "sm2", FeedbackPolicyID: "stars"}, ErrPolicyNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := svc.UpdateSettings("user-1", deck.ID, tt.settings)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UpdateSettings() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && updated.Settings != tt.settings {
				t.Errorf("settings = %+v, want %+v", updated.Settings, tt.settings)
			}
		})
	}
}

func TestListDecksFiltersStatus(t *testing.T) {
	svc, _ := newDeckService()
	if _, err := svc.Create("user-1", "Draft Deck", "", nil, nil); err != nil {
		t.Fatal(err)
	}
	deck, err := svc.Create("user-1", "Published Deck", "", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Publish("user-1", deck.ID); err != nil {
		t.Fatal(err)
	}

	published, err := svc.List("user-1", "published")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(published) != 1 || published[0].Title != "Published Deck" {
		t.Errorf("published list = %+v, want only the published deck", published)
	}

	all, err := svc.List("user-1", "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("unfiltered list = %d decks, want 2", len(all))
	}

	if _, err := svc.List("user-1", "archived"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("List() error = %v, want ErrInvalidInput", err)
	}
}
