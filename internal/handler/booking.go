package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rzazoo/zoo-booking/internal/booking"
	"github.com/rzazoo/zoo-booking/internal/middleware"
	"github.com/rzazoo/zoo-booking/internal/model"
	"github.com/rzazoo/zoo-booking/internal/queue"
	"github.com/rzazoo/zoo-booking/internal/repository"
	"github.com/rzazoo/zoo-booking/internal/session"
)

// BookingHandler covers the booking lifecycle: create, account listing,
// edit, delete. All routes behind it require authentication; ownership is
// enforced per booking for edit and delete.
type BookingHandler struct {
	Bookings BookingStore
	Flashes  *session.Store
	Events   EventPublisher // nil when no broker is configured
}

func NewBookingHandler(b BookingStore, f *session.Store, ev EventPublisher) *BookingHandler {
	return &BookingHandler{Bookings: b, Flashes: f, Events: ev}
}

type bookingForm struct {
	Name       string `form:"name" validate:"required,max=128"`
	Email      string `form:"email" validate:"required,email"`
	Date       string `form:"date" validate:"required"`
	Tickets    string `form:"tickets" validate:"required"`
	TicketType string `form:"ticket_type" validate:"required"`
}

// parse turns the raw form values into validated booking fields. A typed
// error comes back for anything the shared rules reject, including
// non-integer counts and malformed dates.
func (f bookingForm) parse(now time.Time) (visit time.Time, tickets int, err error) {
	tickets, convErr := strconv.Atoi(f.Tickets)
	if convErr != nil {
		return time.Time{}, 0, booking.ErrNoTickets
	}
	visit, err = booking.ParseVisitDate(f.Date)
	if err != nil {
		return time.Time{}, 0, err
	}
	return visit, tickets, booking.Validate(visit, now, tickets)
}

// Account lists the authenticated user's own bookings.
func (h *BookingHandler) Account(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	list, err := h.Bookings.ListByUser(ctx, u.ID)
	if err != nil {
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Could not load your bookings.", "/")
	}
	return render(c, h.Flashes, "account", map[string]any{"Bookings": list})
}

// Submit creates a booking from the form and renders the confirmation page
// with the computed total. The contact name/email are stored as given;
// ownership is the session identity alone.
func (h *BookingHandler) Submit(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	var form bookingForm
	if err := c.Bind(&form); err != nil {
		return redirectFlash(c, h.Flashes, session.FlashError, "Could not read the form.", "/booking")
	}
	if err := c.Validate(&form); err != nil {
		return redirectFlash(c, h.Flashes, session.FlashError, "Please fill in every field with a valid value.", "/booking")
	}
	visit, tickets, err := form.parse(time.Now().UTC())
	if err != nil {
		return redirectFlash(c, h.Flashes, session.FlashError, flashText(err), "/booking")
	}

	b := model.Booking{
		UserID:     u.ID,
		Name:       form.Name,
		Email:      form.Email,
		VisitDate:  visit,
		Tickets:    tickets,
		TicketType: form.TicketType,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Bookings.Create(ctx, &b); err != nil {
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Could not save the booking.", "/booking")
	}

	total := model.TotalPrice(b.TicketType, b.Tickets)
	h.publish(c, queue.ActionCreated, b, total)

	return render(c, h.Flashes, "confirmation", map[string]any{
		"Name":       b.Name,
		"Date":       form.Date,
		"Tickets":    b.Tickets,
		"TicketType": b.TicketType,
		"TotalCost":  total,
	})
}

// EditForm shows the edit page for a booking the caller may manage.
func (h *BookingHandler) EditForm(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Booking not found.", "/account")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return redirectFlash(c, h.Flashes, session.FlashDanger, "Booking not found.", "/account")
		}
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Could not load the booking.", "/account")
	}
	if b.UserID != u.ID && !u.IsAdmin() {
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Access denied.", "/account")
	}
	return render(c, h.Flashes, "edit_booking", map[string]any{
		"Booking": b,
		"TicketTypes": []string{
			model.TicketSingle, model.TicketChild, model.TicketFamily, model.TicketEducation,
		},
	})
}

// EditSubmit overwrites every editable field of a booking. The same
// validation rules as creation apply; ownership is re-checked inside the
// update transaction.
func (h *BookingHandler) EditSubmit(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Booking not found.", "/account")
	}
	editPath := "/edit_booking/" + c.Param("id")

	var form bookingForm
	if err := c.Bind(&form); err != nil {
		return redirectFlash(c, h.Flashes, session.FlashError, "Could not read the form.", editPath)
	}
	if err := c.Validate(&form); err != nil {
		return redirectFlash(c, h.Flashes, session.FlashError, "Please fill in every field with a valid value.", editPath)
	}
	visit, tickets, err := form.parse(time.Now().UTC())
	if err != nil {
		return redirectFlash(c, h.Flashes, session.FlashError, flashText(err), editPath)
	}

	b := model.Booking{
		ID:         id,
		Name:       form.Name,
		Email:      form.Email,
		VisitDate:  visit,
		Tickets:    tickets,
		TicketType: form.TicketType,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	switch err := h.Bookings.UpdateOwned(ctx, &b, u.ID, u.IsAdmin()); {
	case errors.Is(err, sql.ErrNoRows):
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Booking not found.", "/account")
	case errors.Is(err, repository.ErrForbidden):
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Access denied.", "/account")
	case err != nil:
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Could not update the booking.", editPath)
	}

	h.publish(c, queue.ActionUpdated, b, 0)
	return redirectFlash(c, h.Flashes, session.FlashSuccess, "Booking updated!", "/account")
}

// Delete removes a booking outright. Ownership is re-checked inside the
// delete transaction.
func (h *BookingHandler) Delete(c echo.Context) error {
	u, _ := middleware.CurrentUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Booking not found", "/account")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return redirectFlash(c, h.Flashes, session.FlashDanger, "Booking not found", "/account")
		}
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Could not load the booking.", "/account")
	}

	switch err := h.Bookings.DeleteOwned(ctx, id, u.ID, u.IsAdmin()); {
	case errors.Is(err, sql.ErrNoRows):
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Booking not found", "/account")
	case errors.Is(err, repository.ErrForbidden):
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Access denied", "/account")
	case err != nil:
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Could not delete the booking.", "/account")
	}

	h.publish(c, queue.ActionDeleted, b, 0)
	return redirectFlash(c, h.Flashes, session.FlashInfo, "Booking deleted.", "/account")
}

// publish sends a lifecycle event when a broker is wired. Failures are
// logged by the publisher and never affect the response.
func (h *BookingHandler) publish(c echo.Context, action string, b model.Booking, total float64) {
	if h.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), 3*time.Second)
	defer cancel()
	_ = h.Events.Publish(ctx, queue.BookingEvent{
		Action:     action,
		BookingID:  b.ID,
		UserID:     b.UserID,
		Name:       b.Name,
		Email:      b.Email,
		VisitDate:  b.VisitDate.Format("2006-01-02"),
		Tickets:    b.Tickets,
		TicketType: b.TicketType,
		TotalCost:  total,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
