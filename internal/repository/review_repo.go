package repository

import (
	"flashdeck/internal/database"
	"flashdeck/internal/models"
)

// ReviewRepository handles the append-only review event log
type ReviewRepository struct {
	db database.DBTX
}

// NewReviewRepository creates a new review event repository
func NewReviewRepository(db database.DBTX) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Append records a review event. Events are never updated or deleted;
// they are the ground truth for analytics.
func (r *ReviewRepository) Append(event models.ReviewEvent) error {
	query := `
		INSERT INTO review_events
		(card_id, deck_id, user_id, ts_ms, feedback, prev_interval, next_interval)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecReturningID(query,
		event.CardID,
		event.DeckID,
		event.UserID,
		event.Timestamp,
		event.Feedback,
		event.PrevInterval,
		event.NextInterval,
	)
	return err
}

// ListForDeck retrieves all review events for a user's deck, oldest first
func (r *ReviewRepository) ListForDeck(userID, deckID string) ([]models.ReviewEvent, error) {
	query := `
		SELECT card_id, deck_id, user_id, ts_ms, feedback, prev_interval, next_interval
		FROM review_events
		WHERE user_id = ? AND deck_id = ?
		ORDER BY ts_ms ASC
	`

	rows, err := r.db.Query(query, userID, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.ReviewEvent
	for rows.Next() {
		var event models.ReviewEvent
		err := rows.Scan(
			&event.CardID,
			&event.DeckID,
			&event.UserID,
			&event.Timestamp,
			&event.Feedback,
			&event.PrevInterval,
			&event.NextInterval,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}
