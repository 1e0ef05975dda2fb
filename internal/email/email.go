package email

import (
	"context"
	"fmt"
	"time"

	"rewear/internal/config"
	"rewear/internal/logger"
	"rewear/internal/models"

	"github.com/mailgun/mailgun-go/v5"
)

type Service struct {
	client      mailgun.Mailgun
	domain      string
	senderEmail string
	senderName  string
	enabled     bool
}

func NewService(cfg *config.Config) *Service {
	enabled := cfg.MailgunDomain != "" && cfg.MailgunAPIKey != ""

	var client mailgun.Mailgun
	if enabled {
		client = mailgun.NewMailgun(cfg.MailgunAPIKey)
	}

	return &Service{
		client:      client,
		domain:      cfg.MailgunDomain,
		senderEmail: cfg.MailgunSenderEmail,
		senderName:  cfg.MailgunSenderName,
		enabled:     enabled,
	}
}

func (s *Service) IsEnabled() bool {
	return s.enabled
}

// SendSwapRequestEmail notifies an item owner that someone requested
// their listing.
func (s *Service) SendSwapRequestEmail(owner *models.User, requesterName string, swap *models.Swap) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	verb := "swap"
	if swap.Type == models.TypeRedeem {
		verb = "redeem"
	}

	itemTitle := ""
	if swap.Item != nil {
		itemTitle = swap.Item.Title
	}

	subject := fmt.Sprintf("New %s request for %q", verb, itemTitle)
	htmlBody := s.generateSwapRequestHTML(owner, requesterName, itemTitle, verb)
	textBody := s.generateSwapRequestText(owner, requesterName, itemTitle, verb)

	return s.send(owner.Email, subject, textBody, htmlBody)
}

// SendModerationEmail notifies a lister of the admin decision on their item.
func (s *Service) SendModerationEmail(owner *models.User, item *models.Item) error {
	if !s.enabled {
		return fmt.Errorf("email service is not configured")
	}

	var subject string
	if item.Status == models.ItemAvailable {
		subject = fmt.Sprintf("Your listing %q is now live", item.Title)
	} else {
		subject = fmt.Sprintf("Your listing %q was not approved", item.Title)
	}

	htmlBody := s.generateModerationHTML(owner, item)
	textBody := s.generateModerationText(owner, item)

	return s.send(owner.Email, subject, textBody, htmlBody)
}

func (s *Service) send(to, subject, textBody, htmlBody string) error {
	message := mailgun.NewMessage(
		s.domain,
		fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail),
		subject,
		textBody,
		to,
	)
	message.SetHTML(htmlBody)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	logger.Debug("Email sent", "to", to, "message_id", resp)
	return nil
}
