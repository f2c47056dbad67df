package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"marketplace/entities"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// OpsBookingReadModel keeps a staff-facing projection of every booking,
// built purely from domain events. It is eventually consistent with the
// ledger; the ledger itself stays the source of truth.
type OpsBookingReadModel struct {
	conn     *DB
	eventBus *cqrs.EventBus
}

func NewOpsBookingReadModel(db *DB, eventBus *cqrs.EventBus) OpsBookingReadModel {
	if db == nil {
		panic("db is nil")
	}
	return OpsBookingReadModel{
		conn:     db,
		eventBus: eventBus,
	}
}

func (r OpsBookingReadModel) OnBookingMade(ctx context.Context, bookingMade *entities.BookingMade) error {
	// first event of the lifecycle: create the read model row
	err := r.createReadModel(ctx, entities.OpsBooking{
		BookingID:  bookingMade.BookingID,
		EventID:    bookingMade.EventID,
		EventTitle: bookingMade.EventTitle,
		BuyerID:    bookingMade.BuyerID,
		BuyerEmail: bookingMade.BuyerEmail,
		Quantity:   bookingMade.Quantity,
		TotalPrice: bookingMade.TotalPrice,
		Status:     entities.BookingStatusConfirmed,
		BookedAt:   bookingMade.Header.PublishedAt,
		LastUpdate: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("could not create read model: %w", err)
	}

	return r.publishUpdated(ctx, bookingMade.BookingID.String())
}

func (r OpsBookingReadModel) OnBookingCheckedIn(ctx context.Context, event *entities.BookingCheckedIn) error {
	err := r.updateReadModel(
		ctx,
		event.BookingID.String(),
		func(rm entities.OpsBooking) (entities.OpsBooking, error) {
			rm.CheckedIn = event.CheckedIn
			return rm, nil
		},
	)
	if err != nil {
		return err
	}

	return r.publishUpdated(ctx, event.BookingID.String())
}

func (r OpsBookingReadModel) OnBookingCancelled(ctx context.Context, event *entities.BookingCancelled) error {
	err := r.updateReadModel(
		ctx,
		event.BookingID.String(),
		func(rm entities.OpsBooking) (entities.OpsBooking, error) {
			rm.Status = entities.BookingStatusCancelled
			return rm, nil
		},
	)
	if err != nil {
		return err
	}

	return r.publishUpdated(ctx, event.BookingID.String())
}

func (r OpsBookingReadModel) GetAll(ctx context.Context, status *string) ([]entities.OpsBooking, error) {
	query := `SELECT payload FROM read_model_ops_bookings`
	var args []any
	if status != nil && *status != "" {
		query += ` WHERE payload->>'status' = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY payload->>'booked_at' DESC`

	rows, err := r.conn.Conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not get ops bookings: %w", err)
	}
	defer rows.Close()

	result := []entities.OpsBooking{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rm entities.OpsBooking
		if err := json.Unmarshal(payload, &rm); err != nil {
			return nil, fmt.Errorf("could not unmarshal read model: %w", err)
		}
		result = append(result, rm)
	}

	return result, rows.Err()
}

func (r OpsBookingReadModel) GetByID(ctx context.Context, bookingID string) (entities.OpsBooking, error) {
	rm, err := r.findModelByBookingID(ctx, bookingID, r.conn.Conn)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.OpsBooking{}, ErrBookingNotFound
	}
	return rm, err
}

func (r OpsBookingReadModel) createReadModel(ctx context.Context, opsBooking entities.OpsBooking) error {
	payload, err := json.Marshal(opsBooking)
	if err != nil {
		return err
	}

	_, err = r.conn.Conn.ExecContext(ctx, `
		INSERT INTO
		    read_model_ops_bookings (payload, booking_id)
		VALUES
			($1, $2)
		ON CONFLICT (booking_id) DO NOTHING; -- events are delivered at least once
`, payload, opsBooking.BookingID)
	if err != nil {
		return fmt.Errorf("could not create read model: %w", err)
	}

	return nil
}

func (r OpsBookingReadModel) updateReadModel(
	ctx context.Context,
	bookingID string,
	updateFunc func(rm entities.OpsBooking) (entities.OpsBooking, error),
) error {
	return updateInTx(
		ctx,
		r.conn.Conn,
		sql.LevelRepeatableRead,
		func(ctx context.Context, tx *sqlx.Tx) error {
			rm, err := r.findModelByBookingID(ctx, bookingID, tx)
			if errors.Is(err, sql.ErrNoRows) {
				// events arrived out of order - spin until BookingMade created the row
				return fmt.Errorf("read model for booking %s does not exist yet", bookingID)
			} else if err != nil {
				return fmt.Errorf("could not find read model: %w", err)
			}

			updatedRm, err := updateFunc(rm)
			if err != nil {
				return err
			}

			return r.updateModel(ctx, tx, updatedRm)
		},
	)
}

func (r OpsBookingReadModel) updateModel(ctx context.Context, tx *sqlx.Tx, readModel entities.OpsBooking) error {
	readModel.LastUpdate = time.Now()

	payload, err := json.Marshal(readModel)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO
			read_model_ops_bookings (payload, booking_id)
		VALUES
			($1, $2)
		ON CONFLICT (booking_id) DO UPDATE SET payload = excluded.payload;
		`, payload, readModel.BookingID)
	if err != nil {
		return fmt.Errorf("could not update read model: %w", err)
	}

	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r OpsBookingReadModel) findModelByBookingID(ctx context.Context, bookingID string, db queryer) (entities.OpsBooking, error) {
	var payload []byte
	err := db.QueryRowContext(ctx, `
		SELECT payload FROM read_model_ops_bookings WHERE booking_id = $1
	`, bookingID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.OpsBooking{}, err
	}
	if err != nil {
		return entities.OpsBooking{}, fmt.Errorf("could not get read model: %w", err)
	}

	var rm entities.OpsBooking
	if err := json.Unmarshal(payload, &rm); err != nil {
		return entities.OpsBooking{}, fmt.Errorf("could not unmarshal read model: %w", err)
	}

	return rm, nil
}

func (r OpsBookingReadModel) publishUpdated(ctx context.Context, bookingID string) error {
	if r.eventBus == nil {
		return nil
	}

	bookingUUID, err := uuid.Parse(bookingID)
	if err != nil {
		return err
	}

	err = r.eventBus.Publish(ctx, entities.InternalOpsReadModelUpdated{
		Header:    entities.NewEventHeader(),
		BookingID: bookingUUID,
	})
	if err != nil {
		// the projection itself is already stored; a lost internal
		// notification only delays watchers
		log.FromContext(ctx).WithField("booking_id", bookingID).
			WithField("error", err.Error()).
			Warn("Could not publish InternalOpsReadModelUpdated")
	}

	return nil
}

func updateInTx(
	ctx context.Context,
	db *sqlx.DB,
	isolation sql.IsolationLevel,
	fn func(ctx context.Context, tx *sqlx.Tx) error,
) (err error) {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{Isolation: isolation})
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

	return fn(ctx, tx)
}
