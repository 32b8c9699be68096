package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"flashdeck/internal/database"
	"flashdeck/internal/models"
)

// SessionRepository handles study session persistence. The queue, the
// active card and the completed list are stored as JSON columns so a
// session survives process restarts intact.
type SessionRepository struct {
	db database.DBTX
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create persists a new session
func (r *SessionRepository) Create(session *models.StudySession) error {
	activeCard, queue, completed, err := marshalSessionState(session)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO study_sessions
		(id, user_id, deck_id, scheduler_id, algorithm, mode, status,
		 active_card, queue, completed, started_at_ms, ended_at_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		session.ID,
		session.UserID,
		session.DeckID,
		session.SchedulerID,
		session.Algorithm,
		session.Mode,
		session.Status,
		activeCard,
		queue,
		completed,
		session.StartedAt,
		session.EndedAt,
	)
	return err
}

// Update replaces the stored state of an existing session
func (r *SessionRepository) Update(session *models.StudySession) error {
	activeCard, queue, completed, err := marshalSessionState(session)
	if err != nil {
		return err
	}

	query := `
		UPDATE study_sessions
		SET status = ?, active_card = ?, queue = ?, completed = ?, ended_at_ms = ?
		WHERE id = ?
	`

	_, err = r.db.Exec(query,
		session.Status,
		activeCard,
		queue,
		completed,
		session.EndedAt,
		session.ID,
	)
	return err
}

// Get retrieves a session by id. Returns nil if no such session exists;
// ownership is checked by the caller so it can distinguish not-found
// from forbidden.
func (r *SessionRepository) Get(sessionID string) (*models.StudySession, error) {
	query := `
		SELECT id, user_id, deck_id, scheduler_id, algorithm, mode, status,
		       active_card, queue, completed, started_at_ms, ended_at_ms
		FROM study_sessions
		WHERE id = ?
	`

	session := &models.StudySession{}
	var activeCard sql.NullString
	var queue, completed string

	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.UserID,
		&session.DeckID,
		&session.SchedulerID,
		&session.Algorithm,
		&session.Mode,
		&session.Status,
		&activeCard,
		&queue,
		&completed,
		&session.StartedAt,
		&session.EndedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if activeCard.Valid && activeCard.String != "" {
		card := &models.ScheduledCard{}
		if err := json.Unmarshal([]byte(activeCard.String), card); err != nil {
			return nil, fmt.Errorf("corrupt active card for session %s: %w", sessionID, err)
		}
		session.ActiveCard = card
	}

	if err := json.Unmarshal([]byte(queue), &session.Queue); err != nil {
		return nil, fmt.Errorf("corrupt queue for session %s: %w", sessionID, err)
	}
	if err := json.Unmarshal([]byte(completed), &session.Completed); err != nil {
		return nil, fmt.Errorf("corrupt completed list for session %s: %w", sessionID, err)
	}

	return session, nil
}

func marshalSessionState(session *models.StudySession) (activeCard interface{}, queue, completed string, err error) {
	if session.ActiveCard != nil {
		data, err := json.Marshal(session.ActiveCard)
		if err != nil {
			return nil, "", "", err
		}
		activeCard = string(data)
	}

	queueData, err := json.Marshal(session.Queue)
	if err != nil {
		return nil, "", "", err
	}
	completedData, err := json.Marshal(session.Completed)
	if err != nil {
		return nil, "", "", err
	}

	return activeCard, string(queueData), string(completedData), nil
}
