package http

import (
	"context"
	"marketplace/db"
	"marketplace/entities"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/google/uuid"
)

type Handler struct {
	eventBus    *cqrs.EventBus
	cmdBus      *cqrs.CommandBus
	eventRepo   EventRepository
	userRepo    UserRepository
	bookingRepo BookingRepository
	opsRepo     OpsBookingRepository
	statsRepo   StatsRepository
}

type EventRepository interface {
	Create(ctx context.Context, event entities.Event) (entities.EventCreateResponse, error)
	List(ctx context.Context) ([]entities.Event, error)
	ByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error)
	CorrectAvailableSeats(ctx context.Context, eventID uuid.UUID, delta int) (int, error)
}

type UserRepository interface {
	Create(ctx context.Context, user entities.User) (entities.UserCreateResponse, error)
	ByID(ctx context.Context, userID uuid.UUID) (entities.User, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking entities.Booking) (entities.BookingCreateResponse, error)
	ToggleCheckIn(ctx context.Context, bookingID uuid.UUID) (bool, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]entities.BookingDetail, error)
	ListAll(ctx context.Context) ([]entities.BookingDetail, error)
}

type OpsBookingRepository interface {
	GetAll(ctx context.Context, status *string) ([]entities.OpsBooking, error)
	GetByID(ctx context.Context, bookingID string) (entities.OpsBooking, error)
}

type StatsRepository interface {
	Dashboard(ctx context.Context) (db.DashboardStats, error)
	Analytics(ctx context.Context) (db.Analytics, error)
}
