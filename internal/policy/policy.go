// Package policy holds the closed catalog of feedback policies. A
// policy constrains which ratings the UI may offer for a deck; the
// scheduler itself always accepts the full rating domain, so stored
// ratings remain valid no matter which policy produced them.
package policy

import (
	"fmt"

	"flashdeck/internal/models"
)

// DefaultPolicyID is used when a deck's settings leave the policy unset
const DefaultPolicyID = "ternary"

// Option is one feedback button a policy exposes
type Option struct {
	Label  string                `json:"label"`
	Rating models.FeedbackRating `json:"rating"`
	Tone   string                `json:"tone"`
}

// Policy is a small ordered list of feedback options
type Policy struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// Allows reports whether the policy offers the given rating
func (p Policy) Allows(rating models.FeedbackRating) bool {
	for _, opt := range p.Options {
		if opt.Rating == rating {
			return true
		}
	}
	return false
}

var catalog = map[string]Policy{
	"binary": {
		ID:   "binary",
		Name: "Black & White",
		Options: []Option{
			{Label: "Again", Rating: models.RatingAgain, Tone: "danger"},
			{Label: "Mastered", Rating: models.RatingGood, Tone: "success"},
		},
	},
	"ternary": {
		ID:   "ternary",
		Name: "Ternary",
		Options: []Option{
			{Label: "Again", Rating: models.RatingAgain, Tone: "danger"},
			{Label: "Hard", Rating: models.RatingHard, Tone: "warn"},
			{Label: "Good", Rating: models.RatingGood, Tone: "success"},
		},
	},
}

// Get looks a policy up by id
func Get(id string) (Policy, error) {
	p, ok := catalog[id]
	if !ok {
		return Policy{}, fmt.Errorf("unknown feedback policy %q", id)
	}
	return p, nil
}

// GetOrDefault resolves a deck's configured policy id, falling back to
// the default when the id is empty or unknown.
func GetOrDefault(id string) Policy {
	if p, ok := catalog[id]; ok {
		return p
	}
	return catalog[DefaultPolicyID]
}

// IDs returns the ids of the shipped policies
func IDs() []string {
	return []string{"binary", "ternary"}
}
