package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"flashdeck/internal/service"
)

var validate = validator.New()

// decodeJSON parses and validates a request body into dst. Failures
// are wrapped as invalid input so respondError maps them to 400s.
func decodeJSON(r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", service.ErrInvalidInput, err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidInput, err)
	}
	return nil
}

type cardPayload struct {
	Front string   `json:"front" validate:"required"`
	Back  string   `json:"back" validate:"required"`
	Hint  string   `json:"hint"`
	Tags  []string `json:"tags"`
}

type createDeckRequest struct {
	Title       string        `json:"title" validate:"required,max=255"`
	Description string        `json:"description" validate:"max=2000"`
	Categories  []string      `json:"categories" validate:"dive,required"`
	Cards       []cardPayload `json:"cards" validate:"dive"`
}

type updateSettingsRequest struct {
	SchedulerID      string `json:"schedulerId" validate:"required"`
	FeedbackPolicyID string `json:"feedbackPolicyId" validate:"required"`
}

type startSessionRequest struct {
	DeckID    string `json:"deckId" validate:"required"`
	Mode      string `json:"mode" validate:"omitempty,oneof=finite infinite"`
	Algorithm string `json:"algorithm" validate:"omitempty,oneof=sequential faust"`
}

type answerRequest struct {
	Feedback *int `json:"feedback" validate:"required,min=0,max=3"`
}

type endSessionRequest struct {
	Status string `json:"status" validate:"omitempty,oneof=completed abandoned"`
}

type importDeckRequest struct {
	CSV string `json:"csv" validate:"required"`
}
