package http

import (
	"net/http"

	"marketplace/entities"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func (h *Handler) PostEvents(c echo.Context) error {
	var eventReq entities.Event

	err := c.Bind(&eventReq)
	if err != nil {
		return err
	}

	if eventReq.Title == "" {
		return badRequest(c, "invalid_event", "title must not be empty")
	}
	if eventReq.Capacity < 1 {
		return badRequest(c, "invalid_event", "capacity must be greater than 0")
	}
	if eventReq.PricePerSeat < 0 {
		return badRequest(c, "invalid_event", "price per seat must not be negative")
	}

	eventResp, err := h.eventRepo.Create(c.Request().Context(), entities.Event{
		Title:        eventReq.Title,
		Category:     eventReq.Category,
		Venue:        eventReq.Venue,
		StartsAt:     eventReq.StartsAt,
		PricePerSeat: eventReq.PricePerSeat,
		Capacity:     eventReq.Capacity,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, eventResp)
}

func (h *Handler) GetEvents(c echo.Context) error {
	events, err := h.eventRepo.List(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, events)
}

func (h *Handler) GetEventByID(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid_event_id", "event id must be a uuid")
	}

	event, err := h.eventRepo.ByID(c.Request().Context(), eventID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, event)
}
