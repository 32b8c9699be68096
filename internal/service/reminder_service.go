package service

import (
	"fmt"
	"sort"
	"time"

	"flashdeck/internal/models"
	"flashdeck/internal/scheduler"
)

// Priority weights for the review reminder score. They sum to 1 so the
// score stays in [0, 1] and decks are comparable across users.
const (
	weightOverdue    = 0.28
	weightInactivity = 0.24
	weightRisk       = 0.18
	weightDueSoon    = 0.16
	weightMasteryGap = 0.14

	// inactivityHorizonDays is the idle period at which the inactivity
	// signal saturates.
	inactivityHorizonDays = 21

	// neverReviewedDays stands in for decks with no review in the
	// retention window.
	neverReviewedDays = 90
)

// ReminderService ranks a user's decks by how urgently they need
// review, for the reminders endpoint and the email digest.
type ReminderService struct {
	analytics *AnalyticsService

	now func() int64
}

// NewReminderService creates a new reminder service
func NewReminderService(analytics *AnalyticsService) *ReminderService {
	return &ReminderService{
		analytics: analytics,
		now:       func() int64 { return time.Now().UnixMilli() },
	}
}

// Reminders computes the priority-ordered reminder list for a user
func (s *ReminderService) Reminders(userID string) ([]models.DeckReminder, error) {
	bundle, err := s.analytics.Bundle(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute analytics: %w", err)
	}

	now := s.now()
	reminders := make([]models.DeckReminder, 0, len(bundle.Decks))
	for i := range bundle.Decks {
		reminders = append(reminders, buildReminder(&bundle.Decks[i], now))
	}

	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].Priority > reminders[j].Priority
	})
	return reminders, nil
}

func buildReminder(a *models.DeckAnalytics, now int64) models.DeckReminder {
	total := a.Mastery.Total
	idleDays := daysSinceLastReview(a.Retention, now)

	var overdueShare, dueSoonShare float64
	if total > 0 {
		overdueShare = clamp01(float64(a.Workload.Overdue) / float64(total))
		dueSoonShare = clamp01(float64(a.Workload.DueNext7) / float64(total))
	}
	inactivity := clamp01(float64(idleDays) / inactivityHorizonDays)
	masteryGap := clamp01(1 - a.Mastery.Percentage/100)

	priority := weightOverdue*overdueShare +
		weightInactivity*inactivity +
		weightRisk*a.Forgetting.AverageRisk +
		weightDueSoon*dueSoonShare +
		weightMasteryGap*masteryGap

	status, reason := deckStatus(a, overdueShare, idleDays)

	return models.DeckReminder{
		DeckID:              a.DeckID,
		DeckTitle:           a.DeckTitle,
		Priority:            round2(priority),
		Overdue:             a.Workload.Overdue,
		DueToday:            a.Workload.DueToday,
		DueNext7:            a.Workload.DueNext7,
		AverageRisk:         a.Forgetting.AverageRisk,
		Mastery:             a.Mastery.Percentage,
		DaysSinceLastReview: idleDays,
		TotalCards:          total,
		Status:              status,
		StatusReason:        reason,
	}
}

func deckStatus(a *models.DeckAnalytics, overdueShare float64, idleDays int) (string, string) {
	switch {
	case a.Forgetting.AverageRisk >= 0.5:
		return "struggling", "high forgetting risk"
	case overdueShare >= 0.2:
		return "struggling", "large overdue backlog"
	case idleDays >= 14:
		return "struggling", "no recent reviews"
	case a.Mastery.Percentage >= 80 && a.Forgetting.AverageRisk < 0.25 &&
		a.Workload.Overdue <= 1 && idleDays < 45:
		return "mastered", "high mastery, low risk"
	default:
		return "good", "on track"
	}
}

// daysSinceLastReview derives the idle time from the retention series:
// the newest bucket with attempts marks the last review day.
func daysSinceLastReview(points []models.RetentionPoint, now int64) int {
	today := startOfUTCDay(now)
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Attempts == 0 {
			continue
		}
		day, err := time.ParseInLocation(dayLayout, points[i].Date, time.UTC)
		if err != nil {
			continue
		}
		return int((today - day.UnixMilli()) / scheduler.DayMillis)
	}
	return neverReviewedDays
}
