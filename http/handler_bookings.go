package http

import (
	"errors"
	"net/http"

	"marketplace/db"
	"marketplace/entities"
	"marketplace/observability"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (h *Handler) PostBookSeats(c echo.Context) error {
	var bookReq entities.Booking

	err := c.Bind(&bookReq)
	if err != nil {
		return err
	}

	if bookReq.EventID == uuid.Nil || bookReq.BuyerID == uuid.Nil {
		return badRequest(c, "invalid_booking", "event_id and buyer_id are required")
	}

	bookReq.BookingID = uuid.New()

	bookResp, err := h.bookingRepo.Create(c.Request().Context(), bookReq)
	switch {
	case err == nil:
		observability.BookingsConfirmed.Inc()
	case errors.Is(err, db.ErrNotEnoughSeats):
		observability.BookingsRejected.WithLabelValues("not_enough_seats").Inc()
		return respondError(c, err)
	case errors.Is(err, db.ErrInvalidQuantity):
		observability.BookingsRejected.WithLabelValues("invalid_quantity").Inc()
		return respondError(c, err)
	case errors.Is(err, db.ErrEventNotFound), errors.Is(err, db.ErrUserNotFound):
		return respondError(c, err)
	default:
		// unexpected failure mid-booking; log enough context to
		// reconcile the ledger against availability by hand
		log.FromContext(c.Request().Context()).
			WithField("event_id", bookReq.EventID).
			WithField("buyer_id", bookReq.BuyerID).
			WithField("quantity", bookReq.Quantity).
			WithError(err).
			Error("booking failed")
		return err
	}

	return c.JSON(http.StatusCreated, bookResp)
}

func (h *Handler) GetAllBookings(c echo.Context) error {
	bookings, err := h.bookingRepo.ListAll(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bookings)
}

func (h *Handler) PutBookingCheckIn(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid_booking_id", "booking id must be a uuid")
	}

	checkedIn, err := h.bookingRepo.ToggleCheckIn(c.Request().Context(), bookingID)
	if err != nil {
		return respondError(c, err)
	}

	err = h.eventBus.Publish(c.Request().Context(), entities.BookingCheckedIn{
		Header:    entities.NewEventHeader(),
		BookingID: bookingID,
		CheckedIn: checkedIn,
	})
	if err != nil {
		// the toggle itself committed; the projection catches up from
		// the next event for this booking
		log.FromContext(c.Request().Context()).
			WithField("booking_id", bookingID).
			WithError(err).
			Warn("could not publish BookingCheckedIn")
	}

	return c.JSON(http.StatusOK, map[string]bool{"checked_in": checkedIn})
}
