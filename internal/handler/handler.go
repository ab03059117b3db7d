// Package handler implements the server-rendered pages. Handlers bundle
// their dependencies in structs and depend on small store interfaces so
// tests can run without a database. Validation failures never surface as
// server errors; they redirect back with a severity-tagged flash message.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rzazoo/zoo-booking/internal/booking"
	"github.com/rzazoo/zoo-booking/internal/middleware"
	"github.com/rzazoo/zoo-booking/internal/model"
	"github.com/rzazoo/zoo-booking/internal/queue"
	"github.com/rzazoo/zoo-booking/internal/session"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// UserStore is the slice of repository.UserRepo the handlers need.
type UserStore interface {
	Create(ctx context.Context, username, email, password string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// BookingStore is the slice of repository.BookingRepo the handlers need.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListWithOwners(ctx context.Context) ([]model.BookingWithOwner, error)
	UpdateOwned(ctx context.Context, b *model.Booking, callerID uint64, callerAdmin bool) error
	DeleteOwned(ctx context.Context, id, callerID uint64, callerAdmin bool) error
}

// EventPublisher pushes booking lifecycle events to the broker. May be nil
// when no broker is configured.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

// render executes a page template with the flashes and current user merged
// into the data map.
func render(c echo.Context, flashes *session.Store, name string, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	data["Flashes"] = flashes.Take(c.Response(), c.Request())
	if u, ok := middleware.CurrentUser(c); ok {
		data["User"] = u
	}
	data["Year"] = time.Now().Year()
	return c.Render(http.StatusOK, name, data)
}

// redirectFlash queues a flash and redirects.
func redirectFlash(c echo.Context, flashes *session.Store, level, message, target string) error {
	flashes.Add(c.Response(), c.Request(), level, message)
	return c.Redirect(http.StatusFound, target)
}

// flashText maps a typed validation failure to its user-facing message.
func flashText(err error) string {
	switch err {
	case booking.ErrBadDate:
		return "Please pick a valid date."
	case booking.ErrPastDate:
		return "You cannot choose a past date."
	case booking.ErrTooFarAhead:
		return "Date too far in the future."
	case booking.ErrNoTickets:
		return "You must book at least one ticket."
	case booking.ErrTooManyTickets:
		return "You can only book 50 tickets max!"
	}
	return "Something went wrong. Please try again."
}
