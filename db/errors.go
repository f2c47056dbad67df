package db

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotEnoughSeats is an expected business outcome under contention
// (sold out, or a race lost to another buyer), not an infrastructure
// fault. Callers should present it as such.
var ErrNotEnoughSeats = errors.New("not enough seats available")

// ErrInvalidQuantity is returned before any state is touched.
var ErrInvalidQuantity = errors.New("quantity out of allowed range")

var ErrEventNotFound = errors.New("event not found")
var ErrUserNotFound = errors.New("user not found")
var ErrBookingNotFound = errors.New("booking not found")

// ErrAlreadyCancelled is returned when cancelling a booking twice.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

// ErrEmailTaken is returned when a buyer registers an email that is
// already in use.
var ErrEmailTaken = errors.New("email already registered")

// ErrCorrectionOutOfBounds is returned when an administrative seat
// correction would push available_seats outside [0, capacity].
var ErrCorrectionOutOfBounds = errors.New("seat correction out of bounds")

// ErrSeatsExceedCapacity is returned when releasing seats would push
// available_seats above capacity. This happens when an admin correction
// reclaimed the seats after they were booked; retrying cannot succeed.
var ErrSeatsExceedCapacity = errors.New("seat release would exceed capacity")

const (
	postgresUniqueValueViolationErrorCode = "23505"
	postgresCheckViolationErrorCode       = "23514"
)

func isErrorUniqueViolation(err error) bool {
	var psqlErr *pq.Error
	return errors.As(err, &psqlErr) && psqlErr.Code == postgresUniqueValueViolationErrorCode
}

func isErrorCheckViolation(err error) bool {
	var psqlErr *pq.Error
	return errors.As(err, &psqlErr) && psqlErr.Code == postgresCheckViolationErrorCode
}
