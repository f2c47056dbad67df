package command

import (
	"context"

	"github.com/google/uuid"
)

type BookingsRepository interface {
	Cancel(ctx context.Context, bookingID uuid.UUID) error
}

type Handler struct {
	bookingsRepo BookingsRepository
}

func NewHandler(bookingsRepo BookingsRepository) Handler {
	if bookingsRepo == nil {
		panic("bookingsRepo is required")
	}

	return Handler{
		bookingsRepo: bookingsRepo,
	}
}
