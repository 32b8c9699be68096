package repository

import (
	"flashdeck/internal/database"
	"flashdeck/internal/models"
)

// StateRepository handles scheduling state database operations
type StateRepository struct {
	db database.DBTX
}

// NewStateRepository creates a new scheduling state repository
func NewStateRepository(db database.DBTX) *StateRepository {
	return &StateRepository{db: db}
}

// ListDeckStates retrieves every scheduling state the user has for a deck,
// keyed by card id. Cards never scheduled have no entry.
func (r *StateRepository) ListDeckStates(userID, deckID string) (map[string]models.SchedulingState, error) {
	query := `
		SELECT card_id, due_ms, interval_days, ease, stability, difficulty,
		       last_review_ms, reps, lapses
		FROM scheduling_states
		WHERE user_id = ? AND deck_id = ?
	`

	rows, err := r.db.Query(query, userID, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	states := make(map[string]models.SchedulingState)
	for rows.Next() {
		var cardID string
		var state models.SchedulingState

		err := rows.Scan(
			&cardID,
			&state.Due,
			&state.Interval,
			&state.Ease,
			&state.Stability,
			&state.Difficulty,
			&state.LastReview,
			&state.Reps,
			&state.Lapses,
		)
		if err != nil {
			return nil, err
		}

		states[cardID] = state
	}

	return states, rows.Err()
}

// Set upserts the scheduling state for a (user, card) pair. Written as
// update-then-insert so it works unchanged on all three dialects; the
// orchestrator's per-session lock prevents concurrent writers for the
// same pair.
func (r *StateRepository) Set(userID, deckID, cardID string, state models.SchedulingState) error {
	update := `
		UPDATE scheduling_states
		SET due_ms = ?, interval_days = ?, ease = ?, stability = ?,
		    difficulty = ?, last_review_ms = ?, reps = ?, lapses = ?
		WHERE user_id = ? AND card_id = ?
	`

	result, err := r.db.Exec(update,
		state.Due,
		state.Interval,
		state.Ease,
		state.Stability,
		state.Difficulty,
		state.LastReview,
		state.Reps,
		state.Lapses,
		userID,
		cardID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	insert := `
		INSERT INTO scheduling_states
		(user_id, deck_id, card_id, due_ms, interval_days, ease, stability,
		 difficulty, last_review_ms, reps, lapses)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(insert,
		userID,
		deckID,
		cardID,
		state.Due,
		state.Interval,
		state.Ease,
		state.Stability,
		state.Difficulty,
		state.LastReview,
		state.Reps,
		state.Lapses,
	)
	return err
}
