package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"marketplace/db"
	"marketplace/entities"
	"marketplace/message/command"
	"marketplace/message/event"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	lock      sync.Mutex
	published map[string][]*message.Message
}

func (p *capturingPublisher) Publish(topic string, messages ...*message.Message) error {
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.published == nil {
		p.published = map[string][]*message.Message{}
	}
	p.published[topic] = append(p.published[topic], messages...)
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func (p *capturingPublisher) topicCount(topic string) int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return len(p.published[topic])
}

type eventRepoFake struct {
	events     map[uuid.UUID]entities.Event
	reserveErr error
	correctErr error
	available  int
}

func (f *eventRepoFake) Create(ctx context.Context, e entities.Event) (entities.EventCreateResponse, error) {
	id := uuid.New()
	e.EventID = id
	e.AvailableSeats = e.Capacity
	if f.events == nil {
		f.events = map[uuid.UUID]entities.Event{}
	}
	f.events[id] = e
	return entities.EventCreateResponse{EventID: id}, nil
}

func (f *eventRepoFake) List(ctx context.Context) ([]entities.Event, error) {
	all := []entities.Event{}
	for _, e := range f.events {
		all = append(all, e)
	}
	return all, nil
}

func (f *eventRepoFake) ByID(ctx context.Context, eventID uuid.UUID) (entities.Event, error) {
	e, ok := f.events[eventID]
	if !ok {
		return entities.Event{}, db.ErrEventNotFound
	}
	return e, nil
}

func (f *eventRepoFake) CorrectAvailableSeats(ctx context.Context, eventID uuid.UUID, delta int) (int, error) {
	if f.correctErr != nil {
		return 0, f.correctErr
	}
	return f.available + delta, nil
}

type userRepoFake struct {
	users map[uuid.UUID]entities.User
}

func (f *userRepoFake) Create(ctx context.Context, u entities.User) (entities.UserCreateResponse, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return entities.UserCreateResponse{}, db.ErrEmailTaken
		}
	}
	id := uuid.New()
	u.UserID = id
	if f.users == nil {
		f.users = map[uuid.UUID]entities.User{}
	}
	f.users[id] = u
	return entities.UserCreateResponse{UserID: id}, nil
}

func (f *userRepoFake) ByID(ctx context.Context, userID uuid.UUID) (entities.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return entities.User{}, db.ErrUserNotFound
	}
	return u, nil
}

type bookingRepoFake struct {
	createErr error
	created   []entities.Booking
	checkedIn bool
	toggleErr error
	cancelErr error
	bookings  []entities.BookingDetail
}

func (f *bookingRepoFake) Create(ctx context.Context, b entities.Booking) (entities.BookingCreateResponse, error) {
	if f.createErr != nil {
		return entities.BookingCreateResponse{}, f.createErr
	}
	f.created = append(f.created, b)
	return entities.BookingCreateResponse{
		BookingID:  b.BookingID,
		Status:     entities.BookingStatusConfirmed,
		TotalPrice: b.Quantity * 25,
	}, nil
}

func (f *bookingRepoFake) ToggleCheckIn(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	if f.toggleErr != nil {
		return false, f.toggleErr
	}
	f.checkedIn = !f.checkedIn
	return f.checkedIn, nil
}

func (f *bookingRepoFake) Cancel(ctx context.Context, bookingID uuid.UUID) error {
	return f.cancelErr
}

func (f *bookingRepoFake) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]entities.BookingDetail, error) {
	return f.bookings, nil
}

func (f *bookingRepoFake) ListAll(ctx context.Context) ([]entities.BookingDetail, error) {
	return f.bookings, nil
}

type opsRepoFake struct {
	bookings []entities.OpsBooking
}

func (f *opsRepoFake) GetAll(ctx context.Context, status *string) ([]entities.OpsBooking, error) {
	return f.bookings, nil
}

func (f *opsRepoFake) GetByID(ctx context.Context, bookingID string) (entities.OpsBooking, error) {
	for _, b := range f.bookings {
		if b.BookingID.String() == bookingID {
			return b, nil
		}
	}
	return entities.OpsBooking{}, db.ErrBookingNotFound
}

type statsRepoFake struct {
	stats db.DashboardStats
}

func (f *statsRepoFake) Dashboard(ctx context.Context) (db.DashboardStats, error) {
	return f.stats, nil
}

func (f *statsRepoFake) Analytics(ctx context.Context) (db.Analytics, error) {
	return db.Analytics{ByCategory: []db.CategoryRevenue{}, Timeline: []db.TimelineRevenue{}}, nil
}

type routerFixture struct {
	echo      *echo.Echo
	publisher *capturingPublisher
	events    *eventRepoFake
	users     *userRepoFake
	bookings  *bookingRepoFake
	ops       *opsRepoFake
}

func newRouterFixture() *routerFixture {
	pub := &capturingPublisher{}
	events := &eventRepoFake{available: 10}
	users := &userRepoFake{}
	bookings := &bookingRepoFake{}
	ops := &opsRepoFake{}

	e := NewHttpRouter(
		event.NewBus(pub),
		command.NewCommandBus(pub),
		events,
		users,
		bookings,
		ops,
		&statsRepoFake{stats: db.DashboardStats{TotalBookings: 3, Revenue: 150}},
	)

	return &routerFixture{echo: e, publisher: pub, events: events, users: users, bookings: bookings, ops: ops}
}

func (f *routerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestPostBookSeats(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPost, "/book-seats", map[string]any{
		"event_id": uuid.NewString(),
		"buyer_id": uuid.NewString(),
		"quantity": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp entities.BookingCreateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, entities.BookingStatusConfirmed, resp.Status)
	assert.Equal(t, 50, resp.TotalPrice)
	assert.NotEqual(t, uuid.Nil, resp.BookingID)

	require.Len(t, f.bookings.created, 1)
	assert.NotEqual(t, uuid.Nil, f.bookings.created[0].BookingID, "server assigns the booking id")
}

func TestPostBookSeatsSoldOut(t *testing.T) {
	f := newRouterFixture()
	f.bookings.createErr = db.ErrNotEnoughSeats

	rec := f.do(t, http.MethodPost, "/book-seats", map[string]any{
		"event_id": uuid.NewString(),
		"buyer_id": uuid.NewString(),
		"quantity": 2,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "not_enough_seats", decodeError(t, rec).Kind)
}

func TestPostBookSeatsInvalidQuantity(t *testing.T) {
	f := newRouterFixture()
	f.bookings.createErr = fmt.Errorf("%w: got 0, allowed 1..5", db.ErrInvalidQuantity)

	rec := f.do(t, http.MethodPost, "/book-seats", map[string]any{
		"event_id": uuid.NewString(),
		"buyer_id": uuid.NewString(),
		"quantity": 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_quantity", decodeError(t, rec).Kind)
}

func TestPostBookSeatsUnknownEvent(t *testing.T) {
	f := newRouterFixture()
	f.bookings.createErr = db.ErrEventNotFound

	rec := f.do(t, http.MethodPost, "/book-seats", map[string]any{
		"event_id": uuid.NewString(),
		"buyer_id": uuid.NewString(),
		"quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "event_not_found", decodeError(t, rec).Kind)
}

func TestPostBookSeatsMissingIDs(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPost, "/book-seats", map[string]any{"quantity": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.bookings.created)
}

func TestPostEventsValidation(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPost, "/events", map[string]any{
		"title":          "No Capacity",
		"category":       "concert",
		"venue":          "Main Hall",
		"starts_at":      time.Now().Add(time.Hour).Format(time.RFC3339),
		"price_per_seat": 10,
		"capacity":       0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_event", decodeError(t, rec).Kind)
}

func TestEventLifecycle(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPost, "/events", map[string]any{
		"title":          "Fiesta",
		"category":       "concert",
		"venue":          "Main Hall",
		"starts_at":      time.Now().Add(time.Hour).Format(time.RFC3339),
		"price_per_seat": 10,
		"capacity":       100,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created entities.EventCreateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = f.do(t, http.MethodGet, "/events/"+created.EventID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got entities.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Fiesta", got.Title)
	assert.Equal(t, 100, got.AvailableSeats)

	rec = f.do(t, http.MethodGet, "/events/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/events/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPutBookingCheckInPublishesEvent(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPut, "/bookings/"+uuid.NewString()+"/check-in", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp["checked_in"])

	assert.Equal(t, 1, f.publisher.topicCount("events"))
}

func TestPutBookingCheckInUnknownBooking(t *testing.T) {
	f := newRouterFixture()
	f.bookings.toggleErr = db.ErrBookingNotFound

	rec := f.do(t, http.MethodPut, "/bookings/"+uuid.NewString()+"/check-in", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, f.publisher.topicCount("events"))
}

func TestPostCancelBookingSendsCommand(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPost, "/ops/bookings/"+uuid.NewString()+"/cancel", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, 1, f.publisher.topicCount("commands.entities.CancelBooking"))
}

func TestGetOpsBookingsStatusFilter(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodGet, "/ops/bookings?status=paid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/ops/bookings?status=confirmed", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetUserBookings(t *testing.T) {
	f := newRouterFixture()

	userResp, err := f.users.Create(context.Background(), entities.User{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/users/"+userResp.UserID.String()+"/bookings", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/users/"+uuid.NewString()+"/bookings", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "user_not_found", decodeError(t, rec).Kind)
}

func TestPostUsersValidation(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPost, "/users", map[string]any{"name": "Ana", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/users", map[string]any{"name": "Ana", "email": "ana@example.com"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/users", map[string]any{"name": "Other", "email": "ana@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email_taken", decodeError(t, rec).Kind)
}

func TestPostSeatCorrection(t *testing.T) {
	f := newRouterFixture()
	eventID := uuid.NewString()

	rec := f.do(t, http.MethodPost, "/ops/events/"+eventID+"/seat-correction", map[string]any{"delta": -2})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 8, resp["available_seats"])

	rec = f.do(t, http.MethodPost, "/ops/events/"+eventID+"/seat-correction", map[string]any{"delta": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.events.correctErr = fmt.Errorf("%w: delta -20", db.ErrCorrectionOutOfBounds)
	rec = f.do(t, http.MethodPost, "/ops/events/"+eventID+"/seat-correction", map[string]any{"delta": -20})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "correction_out_of_bounds", decodeError(t, rec).Kind)
}

func TestGetStats(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodGet, "/ops/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats db.DashboardStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TotalBookings)
	assert.Equal(t, 150, stats.Revenue)
}

func TestHealth(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
