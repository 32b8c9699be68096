package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"flashdeck/internal/models"
)

// ExportService renders decks and analytics into the flat interchange
// formats (CSV, TSV) and parses deck CSV back for import.
type ExportService struct{}

// NewExportService creates a new export service
func NewExportService() *ExportService {
	return &ExportService{}
}

var deckCSVHeader = []string{"front", "back", "hint", "tags"}

// DeckCSV renders a deck's cards as CSV. Tags are pipe-joined inside
// one column so the row count always equals the card count.
func (s *ExportService) DeckCSV(deck *models.Deck) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(deckCSVHeader); err != nil {
		return "", err
	}
	for _, card := range deck.Cards {
		record := []string{card.Front, card.Back, card.Hint, strings.Join(card.Tags, "|")}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

// DeckTSV renders a deck as tab-separated front/back pairs, the format
// most flashcard tools accept for quick import.
func (s *ExportService) DeckTSV(deck *models.Deck) string {
	var b strings.Builder
	for _, card := range deck.Cards {
		b.WriteString(card.Front)
		b.WriteByte('\t')
		b.WriteString(card.Back)
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseDeckCSV parses deck CSV back into card templates, accepting
// both headered exports and bare front,back rows. Card ids are not
// assigned here; the deck service owns id generation.
func (s *ExportService) ParseDeckCSV(data string) ([]models.CardTemplate, error) {
	r := csv.NewReader(strings.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: malformed CSV: %v", ErrInvalidInput, err)
	}

	var cards []models.CardTemplate
	for i, record := range records {
		if i == 0 && isDeckCSVHeader(record) {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: row %d needs at least front and back columns", ErrInvalidInput, i+1)
		}

		card := models.CardTemplate{
			Front: strings.TrimSpace(record[0]),
			Back:  strings.TrimSpace(record[1]),
		}
		if card.Front == "" || card.Back == "" {
			return nil, fmt.Errorf("%w: row %d has an empty front or back", ErrInvalidInput, i+1)
		}
		if len(record) > 2 {
			card.Hint = strings.TrimSpace(record[2])
		}
		if len(record) > 3 {
			card.Tags = splitTags(record[3])
		}
		cards = append(cards, card)
	}

	if len(cards) == 0 {
		return nil, fmt.Errorf("%w: CSV contains no cards", ErrInvalidInput)
	}
	return cards, nil
}

// AnalyticsCSV flattens a deck's analytics into section,label,value
// rows, one row per metric or series point.
func (s *ExportService) AnalyticsCSV(a *models.DeckAnalytics) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"section", "label", "value"},
		{"mastery", "total", strconv.Itoa(a.Mastery.Total)},
		{"mastery", "mastered", strconv.Itoa(a.Mastery.Mastered)},
		{"mastery", "percentage", formatFloat(a.Mastery.Percentage)},
		{"workload", "overdue", strconv.Itoa(a.Workload.Overdue)},
		{"workload", "dueToday", strconv.Itoa(a.Workload.DueToday)},
		{"workload", "dueNext7Days", strconv.Itoa(a.Workload.DueNext7)},
	}
	for _, point := range a.Workload.Forecast {
		rows = append(rows, []string{"forecast", point.Date, strconv.Itoa(point.Count)})
	}
	for _, point := range a.Retention {
		rows = append(rows,
			[]string{"retention", point.Date + " attempts", strconv.Itoa(point.Attempts)},
			[]string{"retention", point.Date + " successRate", formatFloat(point.SuccessRate)},
		)
	}
	rows = append(rows, []string{"forgetting", "averageRisk", formatFloat(a.Forgetting.AverageRisk)})
	for _, card := range a.Forgetting.HighRiskCards {
		rows = append(rows, []string{"risk", card.Front, formatFloat(card.Risk)})
	}
	for _, tag := range a.TagBreakdown {
		rows = append(rows,
			[]string{"tag", tag.Tag + " total", strconv.Itoa(tag.Total)},
			[]string{"tag", tag.Tag + " mastered", strconv.Itoa(tag.Mastered)},
			[]string{"tag", tag.Tag + " due", strconv.Itoa(tag.Due)},
		)
	}

	if err := w.WriteAll(rows); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func isDeckCSVHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(record[0]), "front")
}

func splitTags(field string) []string {
	var tags []string
	for _, tag := range strings.Split(field, "|") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
