package entities

import (
	"time"

	"github.com/google/uuid"
)

// Event is a sellable occasion with a fixed seating capacity.
// AvailableSeats is the authoritative remaining-seat counter; it is only
// ever changed through EventRepository so the atomicity boundary lives in
// one place.
type Event struct {
	EventID        uuid.UUID `json:"event_id" db:"event_id"`
	Title          string    `json:"title" db:"title"`
	Category       string    `json:"category" db:"category"`
	Venue          string    `json:"venue" db:"venue"`
	StartsAt       time.Time `json:"starts_at" db:"starts_at"`
	PricePerSeat   int       `json:"price_per_seat" db:"price_per_seat"`
	Capacity       int       `json:"capacity" db:"capacity"`
	AvailableSeats int       `json:"available_seats" db:"available_seats"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type EventCreateResponse struct {
	EventID uuid.UUID `json:"event_id"`
}

// ReservationGrant is what TryReserveTx returns once seats have been
// decremented: the new availability plus the price and title frozen at
// reservation time.
type ReservationGrant struct {
	AvailableSeats int
	PricePerSeat   int
	Title          string
}
