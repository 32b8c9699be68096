package policy

import (
	"testing"

	"flashdeck/internal/models"
)

func TestGet(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
		options int
	}{
		{"binary", false, 2},
		{"ternary", false, 3},
		{"quaternary", true, 0},
		{"", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			p, err := Get(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Get(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err == nil && len(p.Options) != tt.options {
				t.Errorf("Get(%q) has %d options, want %d", tt.id, len(p.Options), tt.options)
			}
		})
	}
}

func TestBinaryPolicyAllowsOnlyAgainAndGood(t *testing.T) {
	p, err := Get("binary")
	if err != nil {
		t.Fatal(err)
	}

	if !p.Allows(models.RatingAgain) || !p.Allows(models.RatingGood) {
		t.Error("binary policy must allow again and good")
	}
	if p.Allows(models.RatingHard) || p.Allows(models.RatingEasy) {
		t.Error("binary policy must not allow hard or easy")
	}
}

func TestGetOrDefaultFallsBack(t *testing.T) {
	if got := GetOrDefault("nope").ID; got != DefaultPolicyID {
		t.Errorf("GetOrDefault(nope) = %s, want %s", got, DefaultPolicyID)
	}
	if got := GetOrDefault("binary").ID; got != "binary" {
		t.Errorf("GetOrDefault(binary) = %s, want binary", got)
	}
}
