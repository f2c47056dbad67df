package http

import (
	"errors"
	"net/http"

	"marketplace/db"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// respondError maps repository sentinels to structured HTTP errors so
// the UI can tell "sold out" from "invalid input" from "not found".
// Anything unrecognized passes through to echo's generic handler.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, db.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, errorResponse{Kind: "invalid_quantity", Message: err.Error()})
	case errors.Is(err, db.ErrNotEnoughSeats):
		return c.JSON(http.StatusConflict, errorResponse{Kind: "not_enough_seats", Message: err.Error()})
	case errors.Is(err, db.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Kind: "event_not_found", Message: err.Error()})
	case errors.Is(err, db.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Kind: "user_not_found", Message: err.Error()})
	case errors.Is(err, db.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Kind: "booking_not_found", Message: err.Error()})
	case errors.Is(err, db.ErrAlreadyCancelled):
		return c.JSON(http.StatusConflict, errorResponse{Kind: "already_cancelled", Message: err.Error()})
	case errors.Is(err, db.ErrEmailTaken):
		return c.JSON(http.StatusConflict, errorResponse{Kind: "email_taken", Message: err.Error()})
	case errors.Is(err, db.ErrCorrectionOutOfBounds):
		return c.JSON(http.StatusConflict, errorResponse{Kind: "correction_out_of_bounds", Message: err.Error()})
	default:
		return err
	}
}

func badRequest(c echo.Context, kind string, message string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Kind: kind, Message: message})
}
