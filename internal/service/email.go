package service

import (
	"fmt"

	"bingohall-backend/internal/domain"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailService returns a sendgrid-backed EmailService, or nil when no API
// key is configured so callers can skip notifications entirely.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if apiKey == "" {
		return nil
	}
	return &emailService{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (s *emailService) SendCreditRequested(toEmail, toName, requesterName string, amountCents int64) error {
	subject := "New credit request"
	plain := fmt.Sprintf("%s has requested a credit of %s. Sign in to approve or reject it.",
		requesterName, formatCents(amountCents))
	html := fmt.Sprintf("<p><strong>%s</strong> has requested a credit of <strong>%s</strong>.</p><p>Sign in to approve or reject it.</p>",
		requesterName, formatCents(amountCents))
	return s.send(toEmail, toName, subject, plain, html)
}

func (s *emailService) SendCreditResolved(toEmail, toName string, amountCents int64, status domain.CreditRequestStatus) error {
	var subject, verdict string
	switch status {
	case domain.CreditRequestApproved:
		subject = "Credit request approved"
		verdict = "approved and credited to your wallet"
	case domain.CreditRequestRejected:
		subject = "Credit request rejected"
		verdict = "rejected"
	default:
		return fmt.Errorf("no notification for status %q", status)
	}
	plain := fmt.Sprintf("Your credit request for %s was %s.", formatCents(amountCents), verdict)
	html := fmt.Sprintf("<p>Your credit request for <strong>%s</strong> was %s.</p>", formatCents(amountCents), verdict)
	return s.send(toEmail, toName, subject, plain, html)
}

func (s *emailService) send(to, toName, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
