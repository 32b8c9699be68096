package repository

import (
	"database/sql"
	"encoding/json"

	"flashdeck/internal/database"
	"flashdeck/internal/models"
)

// DeckRepository handles deck and card database operations
type DeckRepository struct {
	db database.DBTX
}

// NewDeckRepository creates a new deck repository
func NewDeckRepository(db database.DBTX) *DeckRepository {
	return &DeckRepository{db: db}
}

// Get retrieves a deck with its cards. Returns nil if the deck does not
// exist or belongs to another user.
func (r *DeckRepository) Get(userID, deckID string) (*models.Deck, error) {
	query := `
		SELECT id, user_id, title, description, categories, status,
		       scheduler_id, feedback_policy_id, created_at
		FROM decks
		WHERE id = ? AND user_id = ?
	`

	deck := &models.Deck{}
	var categories string

	err := r.db.QueryRow(query, deckID, userID).Scan(
		&deck.ID,
		&deck.UserID,
		&deck.Title,
		&deck.Description,
		&categories,
		&deck.Status,
		&deck.Settings.SchedulerID,
		&deck.Settings.FeedbackPolicyID,
		&deck.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	deck.Categories = unmarshalStrings(categories)

	cards, err := r.loadCards(deckID)
	if err != nil {
		return nil, err
	}
	deck.Cards = cards

	return deck, nil
}

// List retrieves all decks for a user, newest first. An empty status
// returns every deck.
func (r *DeckRepository) List(userID string, status models.DeckStatus) ([]models.Deck, error) {
	query := `
		SELECT id, user_id, title, description, categories, status,
		       scheduler_id, feedback_policy_id, created_at
		FROM decks
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var deck models.Deck
		var categories string

		err := rows.Scan(
			&deck.ID,
			&deck.UserID,
			&deck.Title,
			&deck.Description,
			&categories,
			&deck.Status,
			&deck.Settings.SchedulerID,
			&deck.Settings.FeedbackPolicyID,
			&deck.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if status != "" && deck.Status != status {
			continue
		}

		deck.Categories = unmarshalStrings(categories)
		decks = append(decks, deck)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range decks {
		cards, err := r.loadCards(decks[i].ID)
		if err != nil {
			return nil, err
		}
		decks[i].Cards = cards
	}

	return decks, nil
}

// Create persists a new deck and its cards
func (r *DeckRepository) Create(deck *models.Deck) error {
	query := `
		INSERT INTO decks (id, user_id, title, description, categories, status,
		                   scheduler_id, feedback_policy_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		deck.ID,
		deck.UserID,
		deck.Title,
		deck.Description,
		marshalStrings(deck.Categories),
		deck.Status,
		deck.Settings.SchedulerID,
		deck.Settings.FeedbackPolicyID,
		deck.CreatedAt.UTC(),
	)
	if err != nil {
		return err
	}

	for i, card := range deck.Cards {
		if err := r.insertCard(deck.ID, i, card); err != nil {
			return err
		}
	}

	return nil
}

// AddCard appends a card to the end of a deck's authored order
func (r *DeckRepository) AddCard(deckID string, card models.CardTemplate) error {
	var position int
	query := "SELECT COALESCE(MAX(position) + 1, 0) FROM cards WHERE deck_id = ?"
	if err := r.db.QueryRow(query, deckID).Scan(&position); err != nil {
		return err
	}

	return r.insertCard(deckID, position, card)
}

// Publish flips a deck's lifecycle status to published
func (r *DeckRepository) Publish(userID, deckID string) error {
	query := "UPDATE decks SET status = ? WHERE id = ? AND user_id = ?"
	_, err := r.db.Exec(query, models.DeckStatusPublished, deckID, userID)
	return err
}

// UpdateSettings replaces the deck's scheduler and feedback policy selection
func (r *DeckRepository) UpdateSettings(userID, deckID string, settings models.DeckSettings) error {
	query := `
		UPDATE decks SET scheduler_id = ?, feedback_policy_id = ?
		WHERE id = ? AND user_id = ?
	`
	_, err := r.db.Exec(query, settings.SchedulerID, settings.FeedbackPolicyID, deckID, userID)
	return err
}

func (r *DeckRepository) insertCard(deckID string, position int, card models.CardTemplate) error {
	query := `
		INSERT INTO cards (id, deck_id, position, front, back, hint, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		card.ID,
		deckID,
		position,
		card.Front,
		card.Back,
		card.Hint,
		marshalStrings(card.Tags),
	)
	return err
}

func (r *DeckRepository) loadCards(deckID string) ([]models.CardTemplate, error) {
	query := `
		SELECT id, front, back, hint, tags
		FROM cards
		WHERE deck_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, deckID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.CardTemplate
	for rows.Next() {
		var card models.CardTemplate
		var tags string

		if err := rows.Scan(&card.ID, &card.Front, &card.Back, &card.Hint, &tags); err != nil {
			return nil, err
		}

		card.Tags = unmarshalStrings(tags)
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

func marshalStrings(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func unmarshalStrings(data string) []string {
	if data == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil
	}
	if len(values) == 0 {
		return nil
	}
	return values
}
