package http

import (
	"net/http"

	libHttp "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func NewHttpRouter(
	eventBus *cqrs.EventBus,
	cmdBus *cqrs.CommandBus,
	eventRepo EventRepository,
	userRepo UserRepository,
	bookingRepo BookingRepository,
	opsRepo OpsBookingRepository,
	statsRepo StatsRepository,
) *echo.Echo {
	e := libHttp.NewEcho()
	e.Use(otelecho.Middleware("marketplace"))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	handler := Handler{
		eventBus:    eventBus,
		cmdBus:      cmdBus,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		opsRepo:     opsRepo,
		statsRepo:   statsRepo,
	}

	e.POST("/events", handler.PostEvents)
	e.GET("/events", handler.GetEvents)
	e.GET("/events/:id", handler.GetEventByID)

	e.POST("/users", handler.PostUsers)
	e.GET("/users/:id/bookings", handler.GetUserBookings)

	e.POST("/book-seats", handler.PostBookSeats)
	e.GET("/bookings", handler.GetAllBookings)
	e.PUT("/bookings/:id/check-in", handler.PutBookingCheckIn)

	e.POST("/ops/bookings/:id/cancel", handler.PostCancelBooking)
	e.GET("/ops/bookings", handler.GetOpsBookings)
	e.GET("/ops/bookings/:id", handler.GetOpsBookingByID)
	e.POST("/ops/events/:id/seat-correction", handler.PostSeatCorrection)
	e.GET("/ops/stats", handler.GetStats)
	e.GET("/ops/analytics", handler.GetAnalytics)

	return e
}
