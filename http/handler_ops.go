package http

import (
	"net/http"

	"marketplace/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (h *Handler) PostCancelBooking(c echo.Context) error {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid_booking_id", "booking id must be a uuid")
	}

	err = h.cmdBus.Send(c.Request().Context(), entities.CancelBooking{
		Header:    entities.NewEventHeader(),
		BookingID: bookingID,
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusAccepted)
}

func (h *Handler) GetOpsBookings(c echo.Context) error {
	var status *string
	if s := c.QueryParam("status"); s != "" {
		if s != entities.BookingStatusConfirmed && s != entities.BookingStatusCancelled {
			return badRequest(c, "invalid_status", "status must be confirmed or cancelled")
		}
		status = &s
	}

	resp, err := h.opsRepo.GetAll(c.Request().Context(), status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetOpsBookingByID(c echo.Context) error {
	resp, err := h.opsRepo.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

type seatCorrectionRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) PostSeatCorrection(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid_event_id", "event id must be a uuid")
	}

	var req seatCorrectionRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Delta == 0 {
		return badRequest(c, "invalid_correction", "delta must not be zero")
	}

	available, err := h.eventRepo.CorrectAvailableSeats(c.Request().Context(), eventID, req.Delta)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int{"available_seats": available})
}

func (h *Handler) GetStats(c echo.Context) error {
	stats, err := h.statsRepo.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetAnalytics(c echo.Context) error {
	analytics, err := h.statsRepo.Analytics(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, analytics)
}
