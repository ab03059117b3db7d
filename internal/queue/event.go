// Package queue defines the booking lifecycle events exchanged over the
// message broker, a best-effort publisher, and the background consumer
// that turns events into notifications.
package queue

// Actions carried by BookingEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// BookingEvent is published on every booking write. It carries enough for
// downstream consumers to notify or log without querying the primary
// database.
type BookingEvent struct {
	Action     string  `json:"action"`
	BookingID  uint64  `json:"booking_id"`
	UserID     uint64  `json:"user_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	VisitDate  string  `json:"visit_date"`
	Tickets    int     `json:"tickets"`
	TicketType string  `json:"ticket_type"`
	TotalCost  float64 `json:"total_cost,omitempty"`
	OccurredAt string  `json:"occurred_at"`
}
