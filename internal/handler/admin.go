package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/rzazoo/zoo-booking/internal/session"
)

// AdminHandler serves the read-only dashboard of all bookings joined with
// their owners' usernames. Routing puts it behind the admin-role gate.
type AdminHandler struct {
	Bookings BookingStore
	Flashes  *session.Store
}

func NewAdminHandler(b BookingStore, f *session.Store) *AdminHandler {
	return &AdminHandler{Bookings: b, Flashes: f}
}

// Dashboard lists every booking with its owning username.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	list, err := h.Bookings.ListWithOwners(ctx)
	if err != nil {
		return redirectFlash(c, h.Flashes, session.FlashDanger, "Could not load bookings.", "/")
	}
	return render(c, h.Flashes, "admin_dashboard", map[string]any{"Bookings": list})
}
