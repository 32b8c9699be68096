package service

import (
	"fmt"
	"math"
	"sort"
	"time"

	"flashdeck/internal/models"
	"flashdeck/internal/scheduler"
)

const (
	// retentionWindowDays is how many UTC day buckets the retention
	// series covers, ending today.
	retentionWindowDays = 14

	// masteredIntervalDays is the interval at which a card counts as
	// mastered.
	masteredIntervalDays = 21

	// forecastDays is the length of the upcoming workload forecast.
	forecastDays = 7

	// highRiskThreshold marks a card as at risk of being forgotten.
	highRiskThreshold = 0.55

	// maxHighRiskCards caps the high-risk list.
	maxHighRiskCards = 10

	dayLayout = "2006-01-02"
)

// AnalyticsService derives statistics from scheduling states and the
// review event log. Everything here is recomputed on demand and never
// written back, so a lost analytics response costs nothing.
type AnalyticsService struct {
	decks    DeckStore
	states   StateStore
	reviews  ReviewStore
	registry *scheduler.Registry

	now func() int64
}

// NewAnalyticsService creates a new analytics aggregator
func NewAnalyticsService(decks DeckStore, states StateStore, reviews ReviewStore, registry *scheduler.Registry) *AnalyticsService {
	return &AnalyticsService{
		decks:    decks,
		states:   states,
		reviews:  reviews,
		registry: registry,
		now:      func() int64 { return time.Now().UnixMilli() },
	}
}

// DeckAnalytics computes the full statistics bundle for one deck
func (s *AnalyticsService) DeckAnalytics(userID, deckID string) (*models.DeckAnalytics, error) {
	deck, err := s.decks.Get(userID, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}
	if deck == nil {
		return nil, ErrDeckNotFound
	}
	return s.computeDeck(userID, deck)
}

// Bundle computes analytics for every deck of the user plus the
// account-wide summary.
func (s *AnalyticsService) Bundle(userID string) (*models.AnalyticsBundle, error) {
	decks, err := s.decks.List(userID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}

	bundle := &models.AnalyticsBundle{Decks: []models.DeckAnalytics{}}

	var retentionSum float64
	var retentionDecks int

	for i := range decks {
		analytics, err := s.computeDeck(userID, &decks[i])
		if err != nil {
			return nil, err
		}
		bundle.Decks = append(bundle.Decks, *analytics)

		bundle.Summary.TotalCards += analytics.Mastery.Total
		bundle.Summary.CardsMastered += analytics.Mastery.Mastered
		bundle.Summary.UpcomingReviews += analytics.Workload.Overdue + analytics.Workload.DueNext7

		if rate, ok := overallRetention(analytics.Retention); ok {
			retentionSum += rate
			retentionDecks++
		}
	}

	bundle.Summary.TotalDecks = len(decks)
	if retentionDecks > 0 {
		bundle.Summary.AverageRetention = round1(retentionSum / float64(retentionDecks))
	}

	return bundle, nil
}

func (s *AnalyticsService) computeDeck(userID string, deck *models.Deck) (*models.DeckAnalytics, error) {
	states, err := s.states.ListDeckStates(userID, deck.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduling states: %w", err)
	}
	events, err := s.reviews.ListForDeck(userID, deck.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review events: %w", err)
	}

	now := s.now()
	cards := s.scheduledCards(deck, states, now)

	return &models.DeckAnalytics{
		DeckID:       deck.ID,
		DeckTitle:    deck.Title,
		Mastery:      computeMastery(cards),
		Workload:     computeWorkload(cards, now),
		Retention:    computeRetention(events, now),
		Forgetting:   computeForgetting(cards, now),
		TagBreakdown: computeTags(cards, now),
		LastUpdated:  time.UnixMilli(now).UTC().Format(time.RFC3339),
	}, nil
}

// scheduledCards pairs every deck card with its stored state. Cards the
// user never reviewed get an in-memory initial state; analytics never
// writes.
func (s *AnalyticsService) scheduledCards(deck *models.Deck, states map[string]models.SchedulingState, now int64) []models.ScheduledCard {
	strategy := s.registry.GetOrDefault(deck.Settings.SchedulerID)

	cards := make([]models.ScheduledCard, 0, len(deck.Cards))
	for _, card := range deck.Cards {
		state, ok := states[card.ID]
		if !ok {
			state = strategy.InitialState(now)
		}
		cards = append(cards, models.ScheduledCard{Card: card, State: state})
	}
	return cards
}

func computeMastery(cards []models.ScheduledCard) models.MasteryStats {
	stats := models.MasteryStats{Total: len(cards)}
	for _, card := range cards {
		if card.State.Interval >= masteredIntervalDays {
			stats.Mastered++
		}
	}
	if stats.Total > 0 {
		stats.Percentage = round1(float64(stats.Mastered) / float64(stats.Total) * 100)
	}
	return stats
}

func computeWorkload(cards []models.ScheduledCard, now int64) models.WorkloadStats {
	today := startOfUTCDay(now)

	stats := models.WorkloadStats{Forecast: make([]models.ForecastPoint, forecastDays)}
	for i := range stats.Forecast {
		day := today + int64(i)*scheduler.DayMillis
		stats.Forecast[i].Date = time.UnixMilli(day).UTC().Format(dayLayout)
	}

	for _, card := range cards {
		due := card.State.Due
		if due < now {
			stats.Overdue++
			continue
		}
		bucket := (startOfUTCDay(due) - today) / scheduler.DayMillis
		if bucket >= 0 && bucket < forecastDays {
			stats.Forecast[bucket].Count++
		}
	}

	stats.DueToday = stats.Forecast[0].Count
	for _, point := range stats.Forecast {
		stats.DueNext7 += point.Count
	}
	return stats
}

func computeRetention(events []models.ReviewEvent, now int64) []models.RetentionPoint {
	today := startOfUTCDay(now)
	oldest := today - int64(retentionWindowDays-1)*scheduler.DayMillis

	points := make([]models.RetentionPoint, retentionWindowDays)
	index := make(map[int64]int, retentionWindowDays)
	for i := range points {
		day := oldest + int64(i)*scheduler.DayMillis
		points[i].Date = time.UnixMilli(day).UTC().Format(dayLayout)
		index[day] = i
	}

	for _, event := range events {
		i, ok := index[startOfUTCDay(event.Timestamp)]
		if !ok {
			continue
		}
		points[i].Attempts++
		if event.Feedback.Success() {
			points[i].Correct++
		}
	}

	for i := range points {
		if points[i].Attempts > 0 {
			points[i].SuccessRate = round1(float64(points[i].Correct) / float64(points[i].Attempts) * 100)
		}
	}
	return points
}

// computeForgetting scores each card with an exponential forgetting
// curve: risk rises with time elapsed since the last review and falls
// with memory stability.
func computeForgetting(cards []models.ScheduledCard, now int64) models.ForgettingStats {
	stats := models.ForgettingStats{HighRiskCards: []models.RiskCard{}}
	if len(cards) == 0 {
		return stats
	}

	scored := make([]models.RiskCard, 0, len(cards))
	var sum float64
	for _, card := range cards {
		risk := forgettingRisk(card.State, now)
		sum += risk
		scored = append(scored, models.RiskCard{
			CardID: card.Card.ID,
			Front:  card.Card.Front,
			Due:    time.UnixMilli(card.State.Due).UTC().Format(time.RFC3339),
			Risk:   round2(risk),
		})
	}

	stats.AverageRisk = round2(sum / float64(len(cards)))

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Risk > scored[j].Risk
	})
	for _, card := range scored {
		if card.Risk < highRiskThreshold || len(stats.HighRiskCards) == maxHighRiskCards {
			break
		}
		stats.HighRiskCards = append(stats.HighRiskCards, card)
	}
	return stats
}

func forgettingRisk(state models.SchedulingState, now int64) float64 {
	lastReview := state.LastReview
	if lastReview == 0 {
		lastReview = state.Due - int64(state.Interval)*scheduler.DayMillis
	}

	elapsed := float64(now - lastReview)
	if elapsed < 0 {
		elapsed = 0
	}

	stabilityMs := state.Stability * float64(scheduler.DayMillis)
	if stabilityMs < float64(scheduler.DayMillis) {
		stabilityMs = float64(scheduler.DayMillis)
	}

	return clamp01(1 - math.Exp(-elapsed/stabilityMs))
}

func computeTags(cards []models.ScheduledCard, now int64) []models.TagStats {
	byTag := make(map[string]*models.TagStats)
	for _, card := range cards {
		tags := card.Card.Tags
		if len(tags) == 0 {
			tags = []string{"untagged"}
		}
		for _, tag := range tags {
			stats, ok := byTag[tag]
			if !ok {
				stats = &models.TagStats{Tag: tag}
				byTag[tag] = stats
			}
			stats.Total++
			if card.State.Interval >= masteredIntervalDays {
				stats.Mastered++
			}
			if card.State.Due <= now {
				stats.Due++
			}
		}
	}

	out := make([]models.TagStats, 0, len(byTag))
	for _, stats := range byTag {
		out = append(out, *stats)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

// overallRetention collapses a retention series into a single success
// rate over the window. Returns false when the window has no attempts.
func overallRetention(points []models.RetentionPoint) (float64, bool) {
	var attempts, correct int
	for _, point := range points {
		attempts += point.Attempts
		correct += point.Correct
	}
	if attempts == 0 {
		return 0, false
	}
	return float64(correct) / float64(attempts) * 100, true
}

func startOfUTCDay(ms int64) int64 {
	t := time.UnixMilli(ms).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).UnixMilli()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
