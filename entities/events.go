package entities

import (
	"time"

	"github.com/google/uuid"
)

type EventHeader struct {
	ID             string    `json:"id"`
	PublishedAt    time.Time `json:"published_at"`
	IdempotencyKey string    `json:"idempotency_key"`
}

func NewEventHeader() EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: uuid.NewString(),
	}
}

func NewEventHeaderWithIdempotencyKey(idempotencyKey string) EventHeader {
	return EventHeader{
		ID:             uuid.NewString(),
		PublishedAt:    time.Now().UTC(),
		IdempotencyKey: idempotencyKey,
	}
}

// IEvent lets the bus route internal events to a service-private topic.
type IEvent interface {
	IsInternal() bool
}

// BookingMade is published in the same database transaction that
// decremented availability and appended the booking, so consumers never
// observe a booking without its capacity delta. It carries everything
// the confirmation mail needs to avoid read-backs in consumers.
type BookingMade struct {
	Header EventHeader `json:"header"`

	BookingID  uuid.UUID `json:"booking_id"`
	EventID    uuid.UUID `json:"event_id"`
	EventTitle string    `json:"event_title"`
	BuyerID    uuid.UUID `json:"buyer_id"`
	BuyerEmail string    `json:"buyer_email"`
	Quantity   int       `json:"quantity"`
	TotalPrice int       `json:"total_price"`
}

func (BookingMade) IsInternal() bool { return false }

type BookingCheckedIn struct {
	Header EventHeader `json:"header"`

	BookingID uuid.UUID `json:"booking_id"`
	CheckedIn bool      `json:"checked_in"`
}

func (BookingCheckedIn) IsInternal() bool { return false }

type BookingCancelled struct {
	Header EventHeader `json:"header"`

	BookingID     uuid.UUID `json:"booking_id"`
	EventID       uuid.UUID `json:"event_id"`
	SeatsReleased int       `json:"seats_released"`
}

func (BookingCancelled) IsInternal() bool { return false }

type InternalOpsReadModelUpdated struct {
	Header EventHeader `json:"header"`

	BookingID uuid.UUID `json:"booking_id"`
}

func (InternalOpsReadModelUpdated) IsInternal() bool { return true }

// CancelBooking is the staff-tooling command consumed by the command
// processor.
type CancelBooking struct {
	Header EventHeader `json:"header"`

	BookingID uuid.UUID `json:"booking_id"`
}

// OpsBooking is the staff-facing projection of a booking's lifecycle,
// kept up to date from the events above.
type OpsBooking struct {
	BookingID  uuid.UUID `json:"booking_id"`
	EventID    uuid.UUID `json:"event_id"`
	EventTitle string    `json:"event_title"`
	BuyerID    uuid.UUID `json:"buyer_id"`
	BuyerEmail string    `json:"buyer_email"`
	Quantity   int       `json:"quantity"`
	TotalPrice int       `json:"total_price"`

	// Status is "confirmed" or "cancelled"
	Status    string `json:"status"`
	CheckedIn bool   `json:"checked_in"`

	BookedAt   time.Time `json:"booked_at"`
	LastUpdate time.Time `json:"last_update"`
}

// ArchivedEvent is a raw event envelope as stored in the data lake.
type ArchivedEvent struct {
	EventID     string    `json:"event_id" db:"event_id"`
	PublishedAt time.Time `json:"published_at" db:"published_at"`
	EventName   string    `json:"event_name" db:"event_name"`
	Payload     []byte    `json:"payload" db:"event_payload"`
}
