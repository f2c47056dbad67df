package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"marketplace/entities"
	"marketplace/message/event"
	"marketplace/message/outbox"

	"github.com/google/uuid"
)

type IBookingRepository interface {
	Create(ctx context.Context, booking entities.Booking) (entities.BookingCreateResponse, error)
	ToggleCheckIn(ctx context.Context, bookingID uuid.UUID) (bool, error)
	Cancel(ctx context.Context, bookingID uuid.UUID) error
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]entities.BookingDetail, error)
	ListAll(ctx context.Context) ([]entities.BookingDetail, error)
}

// BookingRepository is the reservation engine and the booking ledger in
// one place: the capacity decrement, the ledger append and the outbox
// publish of BookingMade run inside a single transaction, so a booking
// can never exist without its capacity delta and a committed decrement
// can never be missing its booking record.
type BookingRepository struct {
	db            *DB
	eventRepo     EventRepository
	maxPerBooking int
}

func NewBookingRepository(db *DB, maxPerBooking int) BookingRepository {
	if db == nil {
		panic("db is nil")
	}
	if maxPerBooking < 1 {
		panic("maxPerBooking must be positive")
	}
	return BookingRepository{
		db:            db,
		eventRepo:     NewEventRepository(db),
		maxPerBooking: maxPerBooking,
	}
}

func (br BookingRepository) Create(ctx context.Context, booking entities.Booking) (resp entities.BookingCreateResponse, err error) {
	// validation happens before any state is touched
	if booking.Quantity < 1 || booking.Quantity > br.maxPerBooking {
		return entities.BookingCreateResponse{}, fmt.Errorf("%w: got %d, allowed 1..%d",
			ErrInvalidQuantity, booking.Quantity, br.maxPerBooking)
	}
	if booking.BookingID == uuid.Nil {
		booking.BookingID = uuid.New()
	}

	tx, err := br.db.Conn.BeginTxx(ctx, nil)
	if err != nil {
		return entities.BookingCreateResponse{}, fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback()
			err = errors.Join(err, rollbackErr)
			return
		}
		err = tx.Commit()
	}()

	var buyerEmail string
	err = tx.GetContext(ctx, &buyerEmail, `
		SELECT
		    email
		FROM
		    users
		WHERE
		    user_id = $1
	`, booking.BuyerID)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.BookingCreateResponse{}, ErrUserNotFound
	}
	if err != nil {
		return entities.BookingCreateResponse{}, fmt.Errorf("could not get buyer: %w", err)
	}

	grant, err := br.eventRepo.TryReserveTx(ctx, tx, booking.EventID, booking.Quantity)
	if err != nil {
		// ErrEventNotFound and ErrNotEnoughSeats propagate untouched;
		// the rollback leaves no partial state behind
		return entities.BookingCreateResponse{}, err
	}

	// price is frozen here; later price changes never touch the ledger
	booking.TotalPrice = booking.Quantity * grant.PricePerSeat
	booking.Status = entities.BookingStatusConfirmed

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO
		    bookings (booking_id, event_id, buyer_id, quantity, total_price, status)
		VALUES (:booking_id, :event_id, :buyer_id, :quantity, :total_price, :status)
		`, booking)
	if err != nil {
		return entities.BookingCreateResponse{}, fmt.Errorf("could not append booking: %w", err)
	}

	outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
	if err != nil {
		return entities.BookingCreateResponse{}, fmt.Errorf("could not create outbox publisher: %w", err)
	}
	err = event.NewBus(outboxPublisher).Publish(ctx, entities.BookingMade{
		Header:     entities.NewEventHeader(),
		BookingID:  booking.BookingID,
		EventID:    booking.EventID,
		EventTitle: grant.Title,
		BuyerID:    booking.BuyerID,
		BuyerEmail: buyerEmail,
		Quantity:   booking.Quantity,
		TotalPrice: booking.TotalPrice,
	})
	if err != nil {
		return entities.BookingCreateResponse{}, fmt.Errorf("could not publish BookingMade: %w", err)
	}

	return entities.BookingCreateResponse{
		BookingID:  booking.BookingID,
		Status:     booking.Status,
		TotalPrice: booking.TotalPrice,
	}, nil
}

// ToggleCheckIn flips the check-in flag and reports the new value. It is
// a deliberate toggle rather than a one-way mark so staff can correct a
// mistaken check-in; it never interacts with capacity.
func (br BookingRepository) ToggleCheckIn(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var checkedIn bool
	err := br.db.Conn.QueryRowContext(ctx, `
		UPDATE bookings
		SET checked_in = NOT checked_in
		WHERE booking_id = $1
		RETURNING checked_in
	`, bookingID).Scan(&checkedIn)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrBookingNotFound
	}
	if err != nil {
		return false, fmt.Errorf("could not toggle check-in: %w", err)
	}

	return checkedIn, nil
}

// Cancel flips a confirmed booking to cancelled and gives its seats
// back, keeping capacity - available_seats == sum(confirmed quantities).
func (br BookingRepository) Cancel(ctx context.Context, bookingID uuid.UUID) (err error) {
	tx, err := br.db.Conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback()
			err = errors.Join(err, rollbackErr)
			return
		}
		err = tx.Commit()
	}()

	var booking entities.Booking
	err = tx.GetContext(ctx, &booking, `
		SELECT
		    *
		FROM
		    bookings
		WHERE
		    booking_id = $1
		FOR UPDATE
	`, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("could not get booking: %w", err)
	}
	if booking.Status == entities.BookingStatusCancelled {
		return ErrAlreadyCancelled
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE bookings SET status = $2 WHERE booking_id = $1
	`, bookingID, entities.BookingStatusCancelled)
	if err != nil {
		return fmt.Errorf("could not cancel booking: %w", err)
	}

	if err = br.eventRepo.RestoreSeatsTx(ctx, tx, booking.EventID, booking.Quantity); err != nil {
		return err
	}

	outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx)
	if err != nil {
		return fmt.Errorf("could not create outbox publisher: %w", err)
	}
	err = event.NewBus(outboxPublisher).Publish(ctx, entities.BookingCancelled{
		Header:        entities.NewEventHeader(),
		BookingID:     bookingID,
		EventID:       booking.EventID,
		SeatsReleased: booking.Quantity,
	})
	if err != nil {
		return fmt.Errorf("could not publish BookingCancelled: %w", err)
	}

	return nil
}

const bookingDetailQuery = `
	SELECT b.booking_id, b.event_id, e.title AS event_title, e.price_per_seat,
	       b.buyer_id, u.name AS buyer_name, u.email AS buyer_email,
	       b.quantity, b.total_price, b.status, b.checked_in, b.created_at
	FROM bookings b
	JOIN events e ON e.event_id = b.event_id
	JOIN users u ON u.user_id = b.buyer_id`

func (br BookingRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]entities.BookingDetail, error) {
	bookings := []entities.BookingDetail{}
	err := br.db.Conn.SelectContext(ctx, &bookings,
		bookingDetailQuery+`
		WHERE b.buyer_id = $1
		ORDER BY b.created_at DESC`, buyerID)
	if err != nil {
		return nil, fmt.Errorf("could not list bookings for buyer: %w", err)
	}

	return bookings, nil
}

func (br BookingRepository) ListAll(ctx context.Context) ([]entities.BookingDetail, error) {
	bookings := []entities.BookingDetail{}
	err := br.db.Conn.SelectContext(ctx, &bookings,
		bookingDetailQuery+`
		ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("could not list bookings: %w", err)
	}

	return bookings, nil
}
