package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"church-inventory-backend/internal/domain"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) send(to, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail("", to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendLowStockAlert(ctx context.Context, toEmail, ministryName string, items []domain.Item) error {
	subject := fmt.Sprintf("Low stock alert - %s", ministryName)

	var b strings.Builder
	fmt.Fprintf(&b, "The following %s items are below their reorder threshold:\n\n", ministryName)
	for _, item := range items {
		fmt.Fprintf(&b, "  - %s: %d on hand (minimum %d)\n", item.Name, item.Quantity, item.MinQuantity)
	}
	b.WriteString("\nPlease review and restock as needed.\n")

	return s.send(toEmail, subject, b.String())
}

func (s *emailService) SendOverdueReminder(ctx context.Context, toEmail, itemName string, checkout *domain.Checkout) error {
	subject := fmt.Sprintf("Overdue checkout reminder - %s", itemName)
	body := fmt.Sprintf(
		"%d unit(s) of %s checked out on %s were due back on %s and have not been returned.\n\nPlease arrange the return or contact the borrower.\n",
		checkout.Quantity, itemName,
		checkout.CheckedOutOn.Format(time.DateOnly),
		checkout.DueOn.Format(time.DateOnly),
	)
	return s.send(toEmail, subject, body)
}
