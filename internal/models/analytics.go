package models

// MasteryStats summarizes how many cards have crossed the long-term
// interval threshold
type MasteryStats struct {
	Total      int     `json:"total"`
	Mastered   int     `json:"mastered"`
	Percentage float64 `json:"percentage"`
}

// ForecastPoint is one day of the upcoming review workload
type ForecastPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// WorkloadStats counts cards by how soon they are due
type WorkloadStats struct {
	Overdue  int             `json:"overdue"`
	DueToday int             `json:"dueToday"`
	DueNext7 int             `json:"dueNext7Days"`
	Forecast []ForecastPoint `json:"forecast"`
}

// RetentionPoint is one day bucket of the retention series
type RetentionPoint struct {
	Date        string  `json:"date"`
	Attempts    int     `json:"attempts"`
	Correct     int     `json:"correct"`
	SuccessRate float64 `json:"successRate"`
}

// RiskCard is a card ranked by forgetting risk
type RiskCard struct {
	CardID string  `json:"cardId"`
	Front  string  `json:"front"`
	Due    string  `json:"due"`
	Risk   float64 `json:"risk"`
}

// ForgettingStats carries the average risk score and the highest-risk cards
type ForgettingStats struct {
	AverageRisk   float64    `json:"averageRisk"`
	HighRiskCards []RiskCard `json:"highRiskCards"`
}

// TagStats is the per-tag rollup of totals, mastered and due counts
type TagStats struct {
	Tag      string `json:"tag"`
	Total    int    `json:"total"`
	Mastered int    `json:"mastered"`
	Due      int    `json:"due"`
}

// DeckAnalytics is the derived, non-authoritative statistics bundle
// for a single deck. Recomputed on demand from review events and
// scheduling states.
type DeckAnalytics struct {
	DeckID       string           `json:"deckId"`
	DeckTitle    string           `json:"deckTitle"`
	Mastery      MasteryStats     `json:"mastery"`
	Workload     WorkloadStats    `json:"workload"`
	Retention    []RetentionPoint `json:"retention"`
	Forgetting   ForgettingStats  `json:"forgetting"`
	TagBreakdown []TagStats       `json:"tagBreakdown"`
	LastUpdated  string           `json:"lastUpdated"`
}

// AnalyticsSummary aggregates across every deck of a user
type AnalyticsSummary struct {
	TotalDecks       int     `json:"totalDecks"`
	TotalCards       int     `json:"totalCards"`
	CardsMastered    int     `json:"cardsMastered"`
	AverageRetention float64 `json:"averageRetention"`
	UpcomingReviews  int     `json:"upcomingReviews"`
}

// AnalyticsBundle is the account-wide analytics payload
type AnalyticsBundle struct {
	Summary AnalyticsSummary `json:"summary"`
	Decks   []DeckAnalytics  `json:"decks"`
}

// DeckReminder is one entry of the priority-ordered review nudge list
type DeckReminder struct {
	DeckID              string  `json:"deckId"`
	DeckTitle           string  `json:"deckTitle"`
	Priority            float64 `json:"priority"`
	Overdue             int     `json:"overdue"`
	DueToday            int     `json:"dueToday"`
	DueNext7            int     `json:"dueNext7Days"`
	AverageRisk         float64 `json:"averageRisk"`
	Mastery             float64 `json:"mastery"`
	DaysSinceLastReview int     `json:"daysSinceLastReview"`
	TotalCards          int     `json:"totalCards"`
	Status              string  `json:"status"`
	StatusReason        string  `json:"statusReason"`
}
