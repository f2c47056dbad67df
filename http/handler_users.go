package http

import (
	"net/http"
	"net/mail"

	"marketplace/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (h *Handler) PostUsers(c echo.Context) error {
	var userReq entities.User

	err := c.Bind(&userReq)
	if err != nil {
		return err
	}

	if userReq.Name == "" {
		return badRequest(c, "invalid_user", "name must not be empty")
	}
	if _, err := mail.ParseAddress(userReq.Email); err != nil {
		return badRequest(c, "invalid_user", "email is not a valid address")
	}

	userResp, err := h.userRepo.Create(c.Request().Context(), entities.User{
		Name:  userReq.Name,
		Email: userReq.Email,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, userResp)
}

func (h *Handler) GetUserBookings(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid_user_id", "user id must be a uuid")
	}

	// distinguish "unknown user" from "user with no bookings"
	if _, err := h.userRepo.ByID(c.Request().Context(), userID); err != nil {
		return respondError(c, err)
	}

	bookings, err := h.bookingRepo.ListByBuyer(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bookings)
}
