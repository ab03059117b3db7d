package model

import "time"

// Ticket types recognised by the price table. The booking form only offers
// these four; any other stored value prices at zero.
const (
	TicketSingle    = "Single"
	TicketChild     = "Child"
	TicketFamily    = "Family"
	TicketEducation = "Education"
)

// ticketPrices maps a ticket type to its unit price in pounds.
var ticketPrices = map[string]float64{
	TicketSingle:    12.00,
	TicketChild:     8.00,
	TicketFamily:    20.00,
	TicketEducation: 10.00,
}

// UnitPrice returns the per-ticket price for the given ticket type.
// Unknown types price at 0.00.
func UnitPrice(ticketType string) float64 {
	return ticketPrices[ticketType]
}

// TotalPrice returns the total cost for a quantity of tickets of one type.
func TotalPrice(ticketType string, tickets int) float64 {
	return UnitPrice(ticketType) * float64(tickets)
}

// Booking records a reserved zoo visit as stored in the `bookings` table.
// The contact name/email are free-form and may differ from the owning
// account (gift bookings are allowed); ownership is the account that
// submitted the booking.
//
// Fields:
//
//	ID         – primary key identifier.
//	UserID     – account that owns the booking.
//	Name       – visitor contact name.
//	Email      – visitor contact email.
//	VisitDate  – day of the visit (date only, UTC).
//	Tickets    – number of tickets (1..50).
//	TicketType – pricing category, see ticket type constants.
//	CreatedAt  – creation timestamp.
type Booking struct {
	ID         uint64    // bookings.id
	UserID     uint64    // bookings.user_id
	Name       string    // bookings.name
	Email      string    // bookings.email
	VisitDate  time.Time // bookings.visit_date
	Tickets    int       // bookings.tickets
	TicketType string    // bookings.ticket_type
	CreatedAt  time.Time // bookings.created_at
}

// BookingWithOwner joins a booking with the username of the owning
// account. Used by the admin dashboard listing.
type BookingWithOwner struct {
	Booking
	Username string // users.username
}
