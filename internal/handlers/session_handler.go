package handlers

import (
	"net/http"

	"flashdeck/internal/models"
	"flashdeck/internal/policy"
	"flashdeck/internal/service"
)

// SessionHandler handles study session HTTP requests
type SessionHandler struct {
	sessionService *service.SessionService
	deckService    *service.DeckService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService, deckService *service.DeckService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		deckService:    deckService,
	}
}

type sessionResponse struct {
	Session        *models.StudySession `json:"session"`
	Deck           *models.Deck         `json:"deck"`
	FeedbackPolicy policy.Policy        `json:"feedbackPolicy"`
}

// Start handles POST /api/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req startSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	session, deck, err := h.sessionService.Start(userID, req.DeckID, models.SessionMode(req.Mode), req.Algorithm)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{
		Session:        session,
		Deck:           deck,
		FeedbackPolicy: h.sessionService.FeedbackPolicy(deck),
	})
}

// Get handles GET /api/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	session, err := h.sessionService.Get(userID, r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	deck, err := h.deckService.Get(userID, session.DeckID)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{
		Session:        session,
		Deck:           deck,
		FeedbackPolicy: h.sessionService.FeedbackPolicy(deck),
	})
}

// Answer handles POST /api/sessions/{id}/answer
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	session, err := h.sessionService.Answer(userID, r.PathValue("id"), models.FeedbackRating(*req.Feedback))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// End handles POST /api/sessions/{id}/end
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	req := endSessionRequest{}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
	}

	session, err := h.sessionService.End(userID, r.PathValue("id"), models.SessionStatus(req.Status))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}
