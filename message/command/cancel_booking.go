package command

import (
	"context"
	"errors"
	"fmt"
	"marketplace/db"
	"marketplace/entities"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
)

func (h Handler) CancelBooking(ctx context.Context, cmd *entities.CancelBooking) error {
	err := h.bookingsRepo.Cancel(ctx, cmd.BookingID)
	if errors.Is(err, db.ErrAlreadyCancelled) {
		// commands are delivered at least once; a repeat is not a failure
		log.FromContext(ctx).WithField("booking_id", cmd.BookingID).
			Info("Booking already cancelled")
		return nil
	}
	if errors.Is(err, db.ErrSeatsExceedCapacity) {
		// an admin correction reclaimed the seats; retrying cannot
		// succeed, so ack and leave the booking for manual follow-up
		log.FromContext(ctx).WithField("booking_id", cmd.BookingID).
			Error("Cannot release seats for cancelled booking, capacity was corrected")
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not cancel booking: %w", err)
	}

	return nil
}
