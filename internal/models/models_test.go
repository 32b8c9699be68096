package models

import "testing"

func TestFeedbackRatingValid(t *testing.T) {
	tests := []struct {
		name   string
		rating FeedbackRating
		valid  bool
	}{
		{"again", RatingAgain, true},
		{"hard", RatingHard, true},
		{"good", RatingGood, true},
		{"easy", RatingEasy, true},
		{"negative", FeedbackRating(-1), false},
		{"out of range", FeedbackRating(4), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rating.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestFeedbackRatingSuccess(t *testing.T) {
	if RatingAgain.Success() || RatingHard.Success() {
		t.Error("again/hard should not count as success")
	}
	if !RatingGood.Success() || !RatingEasy.Success() {
		t.Error("good/easy should count as success")
	}
}

func TestSessionCardCount(t *testing.T) {
	session := StudySession{
		Queue: []ScheduledCard{
			{Card: CardTemplate{ID: "a"}},
			{Card: CardTemplate{ID: "b"}},
		},
		Completed: []ReviewEvent{{CardID: "c"}},
	}
	if got := session.CardCount(); got != 3 {
		t.Errorf("CardCount() = %d, want 3", got)
	}

	session.ActiveCard = &ScheduledCard{Card: CardTemplate{ID: "d"}}
	if got := session.CardCount(); got != 4 {
		t.Errorf("CardCount() with active card = %d, want 4", got)
	}
}

func TestDeckCardByID(t *testing.T) {
	deck := Deck{
		Cards: []CardTemplate{
			{ID: "a", Front: "Hallo"},
			{ID: "b", Front: "Tschüss"},
		},
	}

	if card := deck.CardByID("b"); card == nil || card.Front != "Tschüss" {
		t.Errorf("CardByID(b) = %+v, want Tschüss", card)
	}
	if card := deck.CardByID("missing"); card != nil {
		t.Errorf("CardByID(missing) = %+v, want nil", card)
	}
}
