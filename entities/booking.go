package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	BookingID  uuid.UUID `json:"booking_id" db:"booking_id"`
	EventID    uuid.UUID `json:"event_id" db:"event_id"`
	BuyerID    uuid.UUID `json:"buyer_id" db:"buyer_id"`
	Quantity   int       `json:"quantity" db:"quantity"`
	TotalPrice int       `json:"total_price" db:"total_price"`
	Status     string    `json:"status" db:"status"`
	CheckedIn  bool      `json:"checked_in" db:"checked_in"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type BookingCreateResponse struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Status     string    `json:"status"`
	TotalPrice int       `json:"total_price"`
}

// BookingDetail is a booking joined with the minimal event and buyer
// fields needed for display. The join happens at read time; nothing is
// stored denormalized.
type BookingDetail struct {
	BookingID    uuid.UUID `json:"booking_id" db:"booking_id"`
	EventID      uuid.UUID `json:"event_id" db:"event_id"`
	EventTitle   string    `json:"event_title" db:"event_title"`
	PricePerSeat int       `json:"price_per_seat" db:"price_per_seat"`
	BuyerID      uuid.UUID `json:"buyer_id" db:"buyer_id"`
	BuyerName    string    `json:"buyer_name" db:"buyer_name"`
	BuyerEmail   string    `json:"buyer_email" db:"buyer_email"`
	Quantity     int       `json:"quantity" db:"quantity"`
	TotalPrice   int       `json:"total_price" db:"total_price"`
	Status       string    `json:"status" db:"status"`
	CheckedIn    bool      `json:"checked_in" db:"checked_in"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
