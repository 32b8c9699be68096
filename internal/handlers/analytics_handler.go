package handlers

import (
	"net/http"

	"flashdeck/internal/service"
)

// AnalyticsHandler serves deck analytics, the account-wide bundle and
// the reminder list.
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	reminderService  *service.ReminderService
	exportService    *service.ExportService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *service.AnalyticsService, reminderService *service.ReminderService, exportService *service.ExportService) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		reminderService:  reminderService,
		exportService:    exportService,
	}
}

// Deck handles GET /api/decks/{id}/analytics?format=json|csv
func (h *AnalyticsHandler) Deck(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	deckID := r.PathValue("id")

	analytics, err := h.analyticsService.DeckAnalytics(userID, deckID)
	if err != nil {
		respondError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, http.StatusOK, analytics)
	case "csv":
		body, err := h.exportService.AnalyticsCSV(analytics)
		if err != nil {
			respondError(w, err)
			return
		}
		writeAttachment(w, "text/csv", deckID+"-analytics.csv", body)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown analytics format " + format})
	}
}

// Overview handles GET /api/analytics
func (h *AnalyticsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.analyticsService.Bundle(GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

// Reminders handles GET /api/reminders
func (h *AnalyticsHandler) Reminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminderService.Reminders(GetUserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reminders)
}
