package api

import (
	"context"
	"fmt"

	"github.com/mailersend/mailersend-go"
)

// MailerClient sends booking confirmations through MailerSend. The
// whole client is best effort by contract: callers must never let a
// send failure affect booking state.
type MailerClient struct {
	client    *mailersend.Mailersend
	fromName  string
	fromEmail string
}

func NewMailerClient(apiKey, fromName, fromEmail string) *MailerClient {
	if apiKey == "" {
		panic("mailer api key is required")
	}
	return &MailerClient{
		client:    mailersend.NewMailersend(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (m *MailerClient) SendBookingConfirmation(ctx context.Context, to string, eventTitle string, quantity int, totalPrice int) error {
	message := m.client.Email.NewMessage()
	message.SetFrom(mailersend.From{
		Name:  m.fromName,
		Email: m.fromEmail,
	})
	message.SetRecipients([]mailersend.Recipient{
		{Email: to},
	})
	message.SetSubject(fmt.Sprintf("Booking confirmed: %s", eventTitle))
	message.SetText(fmt.Sprintf(
		"Your booking for %q is confirmed.\nSeats: %d\nTotal: %d (smallest currency unit)\n",
		eventTitle, quantity, totalPrice,
	))

	_, err := m.client.Email.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	return nil
}
