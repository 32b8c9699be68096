package handlers

import (
	"io"
	"net/http"
	"strings"

	"flashdeck/internal/models"
	"flashdeck/internal/service"
)

// DeckHandler handles deck authoring and import/export requests
type DeckHandler struct {
	deckService   *service.DeckService
	exportService *service.ExportService
}

// NewDeckHandler creates a new deck handler
func NewDeckHandler(deckService *service.DeckService, exportService *service.ExportService) *DeckHandler {
	return &DeckHandler{
		deckService:   deckService,
		exportService: exportService,
	}
}

// Create handles POST /api/decks
func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req createDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	cards := make([]models.CardTemplate, 0, len(req.Cards))
	for _, card := range req.Cards {
		cards = append(cards, models.CardTemplate{
			Front: card.Front,
			Back:  card.Back,
			Hint:  card.Hint,
			Tags:  card.Tags,
		})
	}

	deck, err := h.deckService.Create(userID, req.Title, req.Description, req.Categories, cards)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, deck)
}

// List handles GET /api/decks?status=draft|published
func (h *DeckHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	decks, err := h.deckService.List(userID, r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, err)
		return
	}
	if decks == nil {
		decks = []models.Deck{}
	}

	writeJSON(w, http.StatusOK, decks)
}

// Get handles GET /api/decks/{id}
func (h *DeckHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	deck, err := h.deckService.Get(userID, r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deck)
}

// AddCard handles POST /api/decks/{id}/cards
func (h *DeckHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req cardPayload
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	deck, err := h.deckService.AddCard(userID, r.PathValue("id"), models.CardTemplate{
		Front: req.Front,
		Back:  req.Back,
		Hint:  req.Hint,
		Tags:  req.Tags,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, deck)
}

// Publish handles POST /api/decks/{id}/publish
func (h *DeckHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	deck, err := h.deckService.Publish(userID, r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deck)
}

// UpdateSettings handles PUT /api/decks/{id}/settings
func (h *DeckHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var req updateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	deck, err := h.deckService.UpdateSettings(userID, r.PathValue("id"), models.DeckSettings{
		SchedulerID:      req.SchedulerID,
		FeedbackPolicyID: req.FeedbackPolicyID,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deck)
}

// Export handles GET /api/decks/{id}/export?format=csv|txt
func (h *DeckHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	deck, err := h.deckService.Get(userID, r.PathValue("id"))
	if err != nil {
		respondError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		body, err := h.exportService.DeckCSV(deck)
		if err != nil {
			respondError(w, err)
			return
		}
		writeAttachment(w, "text/csv", deck.ID+".csv", body)
	case "txt":
		writeAttachment(w, "text/plain", deck.ID+".txt", h.exportService.DeckTSV(deck))
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown export format " + format})
	}
}

// Import handles POST /api/decks/{id}/import. Accepts either a raw CSV
// body or a JSON envelope {"csv": "..."}, so exports round-trip with
// curl as easily as from the UI.
func (h *DeckHandler) Import(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var data string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req importDeckRequest
		if err := decodeJSON(r, &req); err != nil {
			respondError(w, err)
			return
		}
		data = req.CSV
	} else {
		body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			respondError(w, err)
			return
		}
		data = string(body)
	}

	cards, err := h.exportService.ParseDeckCSV(data)
	if err != nil {
		respondError(w, err)
		return
	}

	deck, err := h.deckService.AddCards(userID, r.PathValue("id"), cards)
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, deck)
}
