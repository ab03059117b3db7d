package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rzazoo/zoo-booking/internal/booking"
	"github.com/rzazoo/zoo-booking/internal/model"
	"github.com/rzazoo/zoo-booking/internal/session"
)

// PageHandler serves the public pages.
type PageHandler struct {
	Bookings BookingStore
	Flashes  *session.Store
}

func NewPageHandler(b BookingStore, f *session.Store) *PageHandler {
	return &PageHandler{Bookings: b, Flashes: f}
}

// Home lists every booking on the landing page.
func (h *PageHandler) Home(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	list, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not load bookings")
	}
	return render(c, h.Flashes, "index", map[string]any{"Bookings": list})
}

// About renders the static about page.
func (h *PageHandler) About(c echo.Context) error {
	return render(c, h.Flashes, "about", nil)
}

// Education renders the education centre page.
func (h *PageHandler) Education(c echo.Context) error {
	return render(c, h.Flashes, "education", nil)
}

// AnimalsFact renders the animal facts page.
func (h *PageHandler) AnimalsFact(c echo.Context) error {
	return render(c, h.Flashes, "animals_fact", nil)
}

// BookingForm renders the booking form with the selectable ticket types
// and the allowed date window.
func (h *PageHandler) BookingForm(c echo.Context) error {
	today := time.Now().UTC()
	return render(c, h.Flashes, "booking", map[string]any{
		"TicketTypes": []string{
			model.TicketSingle, model.TicketChild, model.TicketFamily, model.TicketEducation,
		},
		"MinDate":    today.Format("2006-01-02"),
		"MaxDate":    today.AddDate(1, 0, 0).Format("2006-01-02"),
		"MaxTickets": booking.MaxTickets,
	})
}

// Health is a liveness probe for load balancers and monitoring.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
