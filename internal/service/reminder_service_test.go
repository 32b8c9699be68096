package service

import (
	"testing"

	"flashdeck/internal/models"
	"flashdeck/internal/scheduler"
)

func newReminderFixture() *ReminderService {
	day := scheduler.DayMillis
	now := fixedNow()

	neglected := &models.Deck{ID: "deck-n", UserID: "user-1", Title: "Neglected"}
	polished := &models.Deck{ID: "deck-p", UserID: "user-1", Title: "Polished"}

	states := newFakeStateStore()
	reviews := &fakeReviewStore{}

	for _, id := range []string{"n1", "n2", "n3", "n4"} {
		neglected.Cards = append(neglected.Cards, models.CardTemplate{ID: id, Front: id, Back: id})
		states.states[id] = models.SchedulingState{
			Due: now - 5*day, Interval: 2, Ease: 1.6, Stability: 1.5, LastReview: now - 20*day,
		}
	}
	for _, id := range []string{"p1", "p2", "p3", "p4"} {
		polished.Cards = append(polished.Cards, models.CardTemplate{ID: id, Front: id, Back: id})
		states.states[id] = models.SchedulingState{
			Due: now + 10*day, Interval: 30, Ease: 2.6, Stability: 40, LastReview: now - day,
		}
		reviews.events = append(reviews.events, models.ReviewEvent{
			CardID: id, DeckID: "deck-p", UserID: "user-1",
			Timestamp: now - 3600_000, Feedback: models.RatingGood,
		})
	}

	analytics := NewAnalyticsService(&fakeDeckStore{decks: []*models.Deck{neglected, polished}}, states, reviews, scheduler.NewRegistry())
	analytics.now = fixedNow

	svc := NewReminderService(analytics)
	svc.now = fixedNow
	return svc
}

func TestRemindersRankNeglectedDecksFirst(t *testing.T) {
	svc := newReminderFixture()

	reminders, err := svc.Reminders("user-1")
	if err != nil {
		t.Fatalf("Reminders() error = %v", err)
	}
	if len(reminders) != 2 {
		t.Fatalf("reminders = %d, want 2", len(reminders))
	}

	first, second := reminders[0], reminders[1]
	if first.DeckTitle != "Neglected" {
		t.Fatalf("top reminder = %s, want Neglected", first.DeckTitle)
	}
	if first.Priority <= second.Priority {
		t.Errorf("priority order broken: %v <= %v", first.Priority, second.Priority)
	}
	if first.Priority < 0 || first.Priority > 1 {
		t.Errorf("priority = %v, want within [0, 1]", first.Priority)
	}

	if first.Status != "struggling" {
		t.Errorf("Neglected status = %s, want struggling", first.Status)
	}
	if first.Overdue != 4 {
		t.Errorf("Neglected overdue = %d, want 4", first.Overdue)
	}
	if first.DaysSinceLastReview != neverReviewedDays {
		t.Errorf("Neglected idle days = %d, want %d (no events in window)", first.DaysSinceLastReview, neverReviewedDays)
	}

	if second.Status != "mastered" {
		t.Errorf("Polished status = %s, want mastered", second.Status)
	}
	if second.DaysSinceLastReview != 0 {
		t.Errorf("Polished idle days = %d, want 0", second.DaysSinceLastReview)
	}
	if second.Mastery != 100.0 {
		t.Errorf("Polished mastery = %v, want 100.0", second.Mastery)
	}
}

func TestRemindersEmptyAccount(t *testing.T) {
	analytics := NewAnalyticsService(&fakeDeckStore{}, newFakeStateStore(), &fakeReviewStore{}, scheduler.NewRegistry())
	svc := NewReminderService(analytics)

	reminders, err := svc.Reminders("user-1")
	if err != nil {
		t.Fatalf("Reminders() error = %v", err)
	}
	if len(reminders) != 0 {
		t.Errorf("reminders = %+v, want none", reminders)
	}
}
