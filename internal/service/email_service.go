package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"flashdeck/internal/models"
)

// EmailService sends review reminder digests via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service. If fromEmail is empty
// the service comes up disabled and silently skips all sends, so the
// server runs without SES credentials in development.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: email from address not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendReminderDigest emails the user their top decks due for review.
// Decks already mastered or with nothing pending are left out; sending
// an empty digest is a no-op.
func (s *EmailService) SendReminderDigest(ctx context.Context, toEmail, toName string, reminders []models.DeckReminder) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): reminder digest to %s", toEmail)
		return nil
	}

	var due []models.DeckReminder
	for _, reminder := range reminders {
		if reminder.Overdue > 0 || reminder.DueToday > 0 || reminder.Status == "struggling" {
			due = append(due, reminder)
		}
	}
	if len(due) == 0 {
		return nil
	}
	if len(due) > 5 {
		due = due[:5]
	}

	subject := fmt.Sprintf("You have %s waiting for review", deckCountLabel(len(due)))

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\nThese decks need your attention today:\n\n", toName)
	for _, reminder := range due {
		fmt.Fprintf(&text, "- %s: %d overdue, %d due today (%.0f%% mastered)\n",
			reminder.DeckTitle, reminder.Overdue, reminder.DueToday, reminder.Mastery)
	}
	if s.appBaseURL != "" {
		fmt.Fprintf(&text, "\nStart a session: %s/study\n", s.appBaseURL)
	}
	text.WriteString("\n---\nThis is an automated reminder. Please do not reply.\n")

	return s.sendEmail(ctx, toEmail, subject, text.String())
}

func deckCountLabel(n int) string {
	if n == 1 {
		return "1 deck"
	}
	return fmt.Sprintf("%d decks", n)
}

// sendEmail sends a plain-text email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
