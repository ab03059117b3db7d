package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rzazoo/zoo-booking/internal/middleware"
	"github.com/rzazoo/zoo-booking/internal/model"
	"github.com/rzazoo/zoo-booking/internal/queue"
	"github.com/rzazoo/zoo-booking/internal/repository"
)

var bob = model.User{ID: 7, Username: "Bob", Email: "bob@gmail.com", Role: model.RoleRegular}

type mockPublisher struct {
	events []queue.BookingEvent
}

func (m *mockPublisher) Publish(_ context.Context, ev queue.BookingEvent) error {
	m.events = append(m.events, ev)
	return nil
}

func bookingValues(date string, tickets string) url.Values {
	return url.Values{
		"name":        {"Bob"},
		"email":       {"bob@gmail.com"},
		"date":        {date},
		"tickets":     {tickets},
		"ticket_type": {model.TicketSingle},
	}
}

func nextWeek() string {
	return time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestSubmitCreatesBooking(t *testing.T) {
	store := &mockBookingStore{}
	pub := &mockPublisher{}
	h := NewBookingHandler(store, newTestFlashes(), pub)

	var saved model.Booking
	store.createFn = func(_ context.Context, b *model.Booking) error {
		b.ID = 1
		saved = *b
		return nil
	}

	c, rec, r := postForm(t, "/booking/submit", bookingValues(nextWeek(), "1"))
	middleware.SetCurrentUser(c, bob)
	require.NoError(t, h.Submit(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirmation", r.name)
	assert.Equal(t, 12.00, r.data["TotalCost"])

	assert.Equal(t, 1, store.createCalls)
	assert.Equal(t, "Bob", saved.Name)
	assert.Equal(t, bob.ID, saved.UserID)
	assert.Equal(t, 1, saved.Tickets)
	assert.Equal(t, model.TicketSingle, saved.TicketType)

	require.Len(t, pub.events, 1)
	assert.Equal(t, queue.ActionCreated, pub.events[0].Action)
	assert.Equal(t, 12.00, pub.events[0].TotalCost)
}

func TestSubmitRejectsBadInput(t *testing.T) {
	past := time.Now().UTC().AddDate(0, 0, -7).Format("2006-01-02")
	tooFar := time.Now().UTC().AddDate(1, 0, 7).Format("2006-01-02")

	tests := []struct {
		name    string
		date    string
		tickets string
	}{
		{"past date", past, "1"},
		{"more than a year ahead", tooFar, "1"},
		{"over the ticket cap", nextWeek(), "51"},
		{"zero tickets", nextWeek(), "0"},
		{"negative tickets", nextWeek(), "-2"},
		{"non-integer tickets", nextWeek(), "many"},
		{"malformed date", "15/12/2025", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &mockBookingStore{}
			h := NewBookingHandler(store, newTestFlashes(), nil)

			c, rec, _ := postForm(t, "/booking/submit", bookingValues(tt.date, tt.tickets))
			middleware.SetCurrentUser(c, bob)
			require.NoError(t, h.Submit(c))

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/booking", rec.Header().Get("Location"))
			assert.Zero(t, store.createCalls, "no booking row may be created")
		})
	}
}

func TestSubmitAcceptsFullCap(t *testing.T) {
	store := &mockBookingStore{}
	h := NewBookingHandler(store, newTestFlashes(), nil)

	c, _, r := postForm(t, "/booking/submit", bookingValues(nextWeek(), "50"))
	middleware.SetCurrentUser(c, bob)
	require.NoError(t, h.Submit(c))

	assert.Equal(t, "confirmation", r.name)
	assert.Equal(t, 1, store.createCalls)
	assert.Equal(t, 600.00, r.data["TotalCost"])
}

func TestEditSubmitDeniedForNonOwner(t *testing.T) {
	store := &mockBookingStore{
		updateFn: func(context.Context, *model.Booking, uint64, bool) error {
			return repository.ErrForbidden
		},
	}
	h := NewBookingHandler(store, newTestFlashes(), nil)

	c, rec, _ := postForm(t, "/edit_booking/5", bookingValues(nextWeek(), "2"))
	c.SetParamNames("id")
	c.SetParamValues("5")
	middleware.SetCurrentUser(c, bob)
	require.NoError(t, h.EditSubmit(c))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/account", rec.Header().Get("Location"))
}

func TestEditSubmitValidatesLikeCreate(t *testing.T) {
	store := &mockBookingStore{}
	h := NewBookingHandler(store, newTestFlashes(), nil)

	past := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	c, rec, _ := postForm(t, "/edit_booking/5", bookingValues(past, "2"))
	c.SetParamNames("id")
	c.SetParamValues("5")
	middleware.SetCurrentUser(c, bob)
	require.NoError(t, h.EditSubmit(c))

	assert.Equal(t, "/edit_booking/5", rec.Header().Get("Location"))
	assert.Zero(t, store.updateCalls, "invalid edits must not write")
}

func TestEditSubmitUpdates(t *testing.T) {
	store := &mockBookingStore{}
	pub := &mockPublisher{}
	h := NewBookingHandler(store, newTestFlashes(), pub)

	c, rec, _ := postForm(t, "/edit_booking/5", bookingValues(nextWeek(), "3"))
	c.SetParamNames("id")
	c.SetParamValues("5")
	middleware.SetCurrentUser(c, bob)
	require.NoError(t, h.EditSubmit(c))

	assert.Equal(t, "/account", rec.Header().Get("Location"))
	assert.Equal(t, 1, store.updateCalls)
	require.Len(t, pub.events, 1)
	assert.Equal(t, queue.ActionUpdated, pub.events[0].Action)
}

func TestDeleteDeniedForNonOwner(t *testing.T) {
	existing := model.Booking{ID: 5, UserID: 99, Name: "Alice"}
	store := &mockBookingStore{
		getFn: func(context.Context, uint64) (model.Booking, error) { return existing, nil },
		deleteFn: func(context.Context, uint64, uint64, bool) error {
			return repository.ErrForbidden
		},
	}
	h := NewBookingHandler(store, newTestFlashes(), nil)

	c, rec, _ := getReq(t, "/delete_booking/5")
	c.SetParamNames("id")
	c.SetParamValues("5")
	middleware.SetCurrentUser(c, bob)
	require.NoError(t, h.Delete(c))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/account", rec.Header().Get("Location"))
}

func TestDeleteRemovesOwnBooking(t *testing.T) {
	existing := model.Booking{ID: 5, UserID: bob.ID, Name: "Bob"}
	store := &mockBookingStore{
		getFn: func(context.Context, uint64) (model.Booking, error) { return existing, nil },
	}
	pub := &mockPublisher{}
	h := NewBookingHandler(store, newTestFlashes(), pub)

	c, rec, _ := getReq(t, "/delete_booking/5")
	c.SetParamNames("id")
	c.SetParamValues("5")
	middleware.SetCurrentUser(c, bob)
	require.NoError(t, h.Delete(c))

	assert.Equal(t, "/account", rec.Header().Get("Location"))
	assert.Equal(t, 1, store.deleteCalls)
	require.Len(t, pub.events, 1)
	assert.Equal(t, queue.ActionDeleted, pub.events[0].Action)
}

func TestAccountListsOwnBookings(t *testing.T) {
	store := &mockBookingStore{
		listByUserFn: func(_ context.Context, userID uint64) ([]model.Booking, error) {
			assert.Equal(t, bob.ID, userID)
			return []model.Booking{{ID: 1, UserID: bob.ID, Name: "Bob"}}, nil
		},
	}
	h := NewBookingHandler(store, newTestFlashes(), nil)

	c, _, r := getReq(t, "/account")
	middleware.SetCurrentUser(c, bob)
	require.NoError(t, h.Account(c))

	assert.Equal(t, "account", r.name)
	list, _ := r.data["Bookings"].([]model.Booking)
	require.Len(t, list, 1)
	assert.Equal(t, "Bob", list[0].Name)
}
