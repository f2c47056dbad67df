package entities

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal buyer identity the booking core needs: a stable id
// to hang bookings on and a contact for confirmations. Authentication is
// an external concern.
type User struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type UserCreateResponse struct {
	UserID uuid.UUID `json:"user_id"`
}
