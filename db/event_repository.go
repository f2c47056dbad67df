package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"marketplace/entities"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type IEventRepository interface {
	Create(ctx context.Context, event entities.Event) (entities.EventCreateResponse, error)
	List(ctx context.Context) ([]entities.Event, error)
	ByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error)
}

// EventRepository is the capacity store. available_seats is the single
// contended resource in the system; every mutation of it goes through
// one of the conditional updates below so the check and the decrement
// can never be separated.
type EventRepository struct {
	db *DB
}

func NewEventRepository(db *DB) EventRepository {
	if db == nil {
		panic("db is nil")
	}
	return EventRepository{
		db: db,
	}
}

func (er EventRepository) Create(ctx context.Context, event entities.Event) (entities.EventCreateResponse, error) {
	if event.Capacity < 1 {
		return entities.EventCreateResponse{}, fmt.Errorf("capacity must be positive, got %d", event.Capacity)
	}
	if event.PricePerSeat < 0 {
		return entities.EventCreateResponse{}, fmt.Errorf("price per seat must not be negative, got %d", event.PricePerSeat)
	}

	var eventID uuid.UUID
	// available_seats always starts equal to capacity
	err := er.db.Conn.QueryRowContext(
		ctx,
		`
		INSERT INTO events (title, category, venue, starts_at, price_per_seat, capacity, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING event_id`,
		event.Title, event.Category, event.Venue, event.StartsAt, event.PricePerSeat, event.Capacity,
	).Scan(&eventID)
	if err != nil {
		return entities.EventCreateResponse{}, fmt.Errorf("could not save event: %w", err)
	}

	return entities.EventCreateResponse{EventID: eventID}, nil
}

func (er EventRepository) List(ctx context.Context) ([]entities.Event, error) {
	var events []entities.Event
	err := er.db.Conn.SelectContext(ctx, &events, `
		SELECT
		    *
		FROM
		    events
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("could not list events: %w", err)
	}

	return events, nil
}

func (er EventRepository) ByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error) {
	var event entities.Event
	err := er.db.Conn.GetContext(ctx, &event, `
		SELECT
		    *
		FROM
		    events
		WHERE
		    event_id = $1
	`, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Event{}, ErrEventNotFound
	}
	if err != nil {
		return entities.Event{}, fmt.Errorf("could not get event: %w", err)
	}

	return event, nil
}

// TryReserveTx checks and decrements availability as one statement.
// Postgres row-locks the event row for the duration of the update, so
// concurrent reservations for the same event serialize here and only
// here; no two transactions can both pass the available_seats >= qty
// guard against the same seats.
func (er EventRepository) TryReserveTx(ctx context.Context, tx *sqlx.Tx, eventID uuid.UUID, quantity int) (entities.ReservationGrant, error) {
	var grant entities.ReservationGrant
	err := tx.QueryRowContext(ctx, `
		UPDATE events
		SET available_seats = available_seats - $2
		WHERE event_id = $1 AND available_seats >= $2
		RETURNING available_seats, price_per_seat, title
	`, eventID, quantity).Scan(&grant.AvailableSeats, &grant.PricePerSeat, &grant.Title)
	if errors.Is(err, sql.ErrNoRows) {
		// nothing was updated: either the event is unknown or it lost
		// the seats race; the caller must be able to tell these apart
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM events WHERE event_id = $1)`, eventID); err != nil {
			return entities.ReservationGrant{}, fmt.Errorf("could not check event existence: %w", err)
		}
		if !exists {
			return entities.ReservationGrant{}, ErrEventNotFound
		}
		return entities.ReservationGrant{}, ErrNotEnoughSeats
	}
	if err != nil {
		return entities.ReservationGrant{}, fmt.Errorf("could not reserve seats: %w", err)
	}

	return grant, nil
}

// RestoreSeatsTx gives seats back on cancellation. The capacity check
// constraint keeps available_seats from ever exceeding capacity.
func (er EventRepository) RestoreSeatsTx(ctx context.Context, tx *sqlx.Tx, eventID uuid.UUID, quantity int) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE events
		SET available_seats = available_seats + $2
		WHERE event_id = $1
	`, eventID, quantity)
	if isErrorCheckViolation(err) {
		return ErrSeatsExceedCapacity
	}
	if err != nil {
		return fmt.Errorf("could not restore seats: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrEventNotFound
	}

	return nil
}

// CorrectAvailableSeats applies an explicit administrative delta, the
// only sanctioned way to change availability outside the booking
// lifecycle. The update refuses corrections that would leave the
// counter outside [0, capacity].
func (er EventRepository) CorrectAvailableSeats(ctx context.Context, eventID uuid.UUID, delta int) (int, error) {
	var newAvailable int
	err := er.db.Conn.QueryRowContext(ctx, `
		UPDATE events
		SET available_seats = available_seats + $2
		WHERE event_id = $1
		  AND available_seats + $2 >= 0
		  AND available_seats + $2 <= capacity
		RETURNING available_seats
	`, eventID, delta).Scan(&newAvailable)
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := er.db.Conn.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM events WHERE event_id = $1)`, eventID); err != nil {
			return 0, fmt.Errorf("could not check event existence: %w", err)
		}
		if !exists {
			return 0, ErrEventNotFound
		}
		return 0, fmt.Errorf("%w: delta %d", ErrCorrectionOutOfBounds, delta)
	}
	if err != nil {
		return 0, fmt.Errorf("could not correct available seats: %w", err)
	}

	return newAvailable, nil
}
