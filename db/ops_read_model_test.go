package db

import (
	"context"
	"testing"

	"marketplace/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpsBookingReadModelLifecycle(t *testing.T) {
	db := getDb(t)
	ctx := context.Background()
	readModel := NewOpsBookingReadModel(db, nil)

	bookingMade := &entities.BookingMade{
		Header:     entities.NewEventHeader(),
		BookingID:  uuid.New(),
		EventID:    uuid.New(),
		EventTitle: "Projection Night",
		BuyerID:    uuid.New(),
		BuyerEmail: "buyer@example.com",
		Quantity:   2,
		TotalPrice: 50,
	}

	require.NoError(t, readModel.OnBookingMade(ctx, bookingMade))

	rm, err := readModel.GetByID(ctx, bookingMade.BookingID.String())
	require.NoError(t, err)
	assert.Equal(t, entities.BookingStatusConfirmed, rm.Status)
	assert.Equal(t, "Projection Night", rm.EventTitle)
	assert.Equal(t, 2, rm.Quantity)
	assert.False(t, rm.CheckedIn)

	// redelivery must not reset the projection
	require.NoError(t, readModel.OnBookingMade(ctx, bookingMade))

	require.NoError(t, readModel.OnBookingCheckedIn(ctx, &entities.BookingCheckedIn{
		Header:    entities.NewEventHeader(),
		BookingID: bookingMade.BookingID,
		CheckedIn: true,
	}))

	require.NoError(t, readModel.OnBookingCancelled(ctx, &entities.BookingCancelled{
		Header:        entities.NewEventHeader(),
		BookingID:     bookingMade.BookingID,
		EventID:       bookingMade.EventID,
		SeatsReleased: 2,
	}))

	rm, err = readModel.GetByID(ctx, bookingMade.BookingID.String())
	require.NoError(t, err)
	assert.True(t, rm.CheckedIn)
	assert.Equal(t, entities.BookingStatusCancelled, rm.Status)

	cancelled := entities.BookingStatusCancelled
	all, err := readModel.GetAll(ctx, &cancelled)
	require.NoError(t, err)
	found := false
	for _, b := range all {
		if b.BookingID == bookingMade.BookingID {
			found = true
		}
	}
	assert.True(t, found)

	_, err = readModel.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}
