package event

import (
	"context"
)

// Mailer is the outbound notifier collaborator. Implementations must be
// safe for concurrent use.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, to string, eventTitle string, quantity int, totalPrice int) error
}

type Handler struct {
	mailer Mailer
}

func NewHandler(mailer Mailer) Handler {
	if mailer == nil {
		panic("missing mailer")
	}
	return Handler{
		mailer: mailer,
	}
}
