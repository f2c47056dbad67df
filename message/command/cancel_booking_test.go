package command

import (
	"context"
	"errors"
	"testing"

	"marketplace/db"
	"marketplace/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingsRepoStub struct {
	err       error
	cancelled []uuid.UUID
}

func (s *bookingsRepoStub) Cancel(ctx context.Context, bookingID uuid.UUID) error {
	s.cancelled = append(s.cancelled, bookingID)
	return s.err
}

func TestCancelBooking(t *testing.T) {
	repo := &bookingsRepoStub{}
	handler := NewHandler(repo)

	cmd := &entities.CancelBooking{
		Header:    entities.NewEventHeader(),
		BookingID: uuid.New(),
	}

	require.NoError(t, handler.CancelBooking(context.Background(), cmd))
	require.Len(t, repo.cancelled, 1)
	assert.Equal(t, cmd.BookingID, repo.cancelled[0])
}

func TestCancelBookingRedeliveryIsAcked(t *testing.T) {
	repo := &bookingsRepoStub{err: db.ErrAlreadyCancelled}
	handler := NewHandler(repo)

	cmd := &entities.CancelBooking{
		Header:    entities.NewEventHeader(),
		BookingID: uuid.New(),
	}

	assert.NoError(t, handler.CancelBooking(context.Background(), cmd))
}

func TestCancelBookingReclaimedSeatsAreAcked(t *testing.T) {
	// when a seat correction already reclaimed the seats, retrying the
	// command can never succeed; it must be acked, not redelivered
	repo := &bookingsRepoStub{err: db.ErrSeatsExceedCapacity}
	handler := NewHandler(repo)

	cmd := &entities.CancelBooking{
		Header:    entities.NewEventHeader(),
		BookingID: uuid.New(),
	}

	assert.NoError(t, handler.CancelBooking(context.Background(), cmd))
}

func TestCancelBookingUnexpectedErrorIsRetried(t *testing.T) {
	repo := &bookingsRepoStub{err: errors.New("connection reset")}
	handler := NewHandler(repo)

	cmd := &entities.CancelBooking{
		Header:    entities.NewEventHeader(),
		BookingID: uuid.New(),
	}

	assert.Error(t, handler.CancelBooking(context.Background(), cmd))
}
