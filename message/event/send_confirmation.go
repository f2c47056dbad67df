package event

import (
	"context"
	"marketplace/entities"
	"marketplace/observability"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

// SendBookingConfirmation delivers the confirmation mail for a fresh
// booking. It is strictly best effort: a mailer failure is logged and
// swallowed so it can never bounce back into the booking flow, and the
// booking itself committed long before this handler runs.
func (h Handler) SendBookingConfirmation(ctx context.Context, event *entities.BookingMade) error {
	logger := log.FromContext(ctx).WithField("booking_id", event.BookingID)
	logger.Info("Sending booking confirmation")

	err := h.mailer.SendBookingConfirmation(ctx, event.BuyerEmail, event.EventTitle, event.Quantity, event.TotalPrice)
	if err != nil {
		logger.WithField("error", err.Error()).Warn("Could not send booking confirmation")
		return nil
	}

	observability.ConfirmationEmailsSent.Inc()
	return nil
}
