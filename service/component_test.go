package service_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"marketplace/api"
	"marketplace/db"
	"marketplace/entities"
	"marketplace/message"
	"marketplace/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "http://localhost:8080"

func TestComponent(t *testing.T) {
	if os.Getenv("POSTGRES_URL") == "" || os.Getenv("REDIS_ADDR") == "" {
		t.Skip("POSTGRES_URL and REDIS_ADDR not set")
	}

	conn, err := db.NewDBConn(os.Getenv("POSTGRES_URL"))
	require.NoError(t, err)
	defer conn.Close()
	conn.MigrateSchema()

	redisClient := message.NewRedisClient(os.Getenv("REDIS_ADDR"))
	defer redisClient.Close()

	mailer := &api.MailerMock{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		assert.NoError(t, service.New(redisClient, mailer, conn, 5).Run(ctx))
	}()

	waitForHttpServer(t)

	eventID := createEvent(t, 10, 25)
	userID := createUser(t)
	bookingID := bookSeats(t, eventID, userID, 2)

	// the confirmation mail goes out asynchronously via the outbox
	assert.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			sent := mailer.Sent()
			if !assert.NotEmpty(t, sent, "no confirmation sent yet") {
				return
			}
			assert.Equal(t, 2, sent[0].Quantity)
			assert.Equal(t, 50, sent[0].TotalPrice)
		},
		15*time.Second,
		100*time.Millisecond,
	)

	// the ops projection catches up from the same event
	assert.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			opsBooking, code := getOpsBooking(t, bookingID)
			if !assert.Equal(t, http.StatusOK, code) {
				return
			}
			assert.Equal(t, entities.BookingStatusConfirmed, opsBooking.Status)
			assert.Equal(t, 50, opsBooking.TotalPrice)
		},
		15*time.Second,
		100*time.Millisecond,
	)

	cancelBooking(t, bookingID)

	// cancellation is asynchronous; seats come back once the command
	// handler has run and the projection follows
	assert.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			assert.Equal(t, 10, getAvailableSeats(t, eventID))

			opsBooking, code := getOpsBooking(t, bookingID)
			if !assert.Equal(t, http.StatusOK, code) {
				return
			}
			assert.Equal(t, entities.BookingStatusCancelled, opsBooking.Status)
		},
		15*time.Second,
		100*time.Millisecond,
	)

	// a broken mailer must not affect booking success or capacity
	mailer.SetErr(errors.New("mailer down"))

	failMailEventID := createEvent(t, 4, 10)
	failMailBookingID := bookSeats(t, failMailEventID, userID, 2)
	require.NotEqual(t, uuid.Nil, failMailBookingID)
	assert.Equal(t, 2, getAvailableSeats(t, failMailEventID))
}

func waitForHttpServer(t *testing.T) {
	t.Helper()

	require.EventuallyWithT(
		t,
		func(t *assert.CollectT) {
			resp, err := http.Get(baseURL + "/health")
			if !assert.NoError(t, err) {
				return
			}
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
		},
		10*time.Second,
		50*time.Millisecond,
	)
}

func postJSON(t *testing.T, path string, body any, out any) int {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(baseURL+path, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func createEvent(t *testing.T, capacity int, pricePerSeat int) uuid.UUID {
	t.Helper()

	var resp entities.EventCreateResponse
	code := postJSON(t, "/events", map[string]any{
		"title":          "Component Test Event " + uuid.NewString(),
		"category":       "concert",
		"venue":          "Main Hall",
		"starts_at":      time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"price_per_seat": pricePerSeat,
		"capacity":       capacity,
	}, &resp)
	require.Equal(t, http.StatusCreated, code)
	return resp.EventID
}

func createUser(t *testing.T) uuid.UUID {
	t.Helper()

	var resp entities.UserCreateResponse
	code := postJSON(t, "/users", map[string]any{
		"name":  "Component Buyer",
		"email": fmt.Sprintf("component-%s@example.com", uuid.NewString()),
	}, &resp)
	require.Equal(t, http.StatusCreated, code)
	return resp.UserID
}

func bookSeats(t *testing.T, eventID uuid.UUID, buyerID uuid.UUID, quantity int) uuid.UUID {
	t.Helper()

	var resp entities.BookingCreateResponse
	code := postJSON(t, "/book-seats", map[string]any{
		"event_id": eventID,
		"buyer_id": buyerID,
		"quantity": quantity,
	}, &resp)
	require.Equal(t, http.StatusCreated, code)
	return resp.BookingID
}

func cancelBooking(t *testing.T, bookingID uuid.UUID) {
	t.Helper()

	code := postJSON(t, "/ops/bookings/"+bookingID.String()+"/cancel", nil, nil)
	require.Equal(t, http.StatusAccepted, code)
}

func getOpsBooking(t *assert.CollectT, bookingID uuid.UUID) (entities.OpsBooking, int) {
	resp, err := http.Get(baseURL + "/ops/bookings/" + bookingID.String())
	if !assert.NoError(t, err) {
		return entities.OpsBooking{}, 0
	}
	defer resp.Body.Close()

	var opsBooking entities.OpsBooking
	if resp.StatusCode == http.StatusOK {
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&opsBooking))
	}
	return opsBooking, resp.StatusCode
}

func getAvailableSeats(t assert.TestingT, eventID uuid.UUID) int {
	resp, err := http.Get(baseURL + "/events/" + eventID.String())
	if !assert.NoError(t, err) {
		return -1
	}
	defer resp.Body.Close()

	var event entities.Event
	if !assert.NoError(t, json.NewDecoder(resp.Body).Decode(&event)) {
		return -1
	}
	return event.AvailableSeats
}
