// Package booking holds the validation rules shared by the create and edit
// paths. The functions are pure so the same policy is applied on every
// write without duplicating checks in handlers.
package booking

import (
	"errors"
	"time"
)

// MaxTickets caps a single booking.
const MaxTickets = 50

// Typed validation failures. Handlers map each one to its own flash
// message.
var (
	ErrBadDate        = errors.New("date is not in YYYY-MM-DD form")
	ErrPastDate       = errors.New("date is in the past")
	ErrTooFarAhead    = errors.New("date is more than a year away")
	ErrNoTickets      = errors.New("ticket count must be at least 1")
	ErrTooManyTickets = errors.New("ticket count exceeds the maximum")
)

// ParseVisitDate parses a YYYY-MM-DD form value.
func ParseVisitDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrBadDate
	}
	return t, nil
}

// ValidateVisitDate checks that the visit date falls within
// [today, today + 1 year], both bounds inclusive. now supplies the current
// moment so the rule is testable on fixed dates.
func ValidateVisitDate(visit, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	visit = time.Date(visit.Year(), visit.Month(), visit.Day(), 0, 0, 0, 0, time.UTC)
	if visit.Before(today) {
		return ErrPastDate
	}
	if visit.After(today.AddDate(1, 0, 0)) {
		return ErrTooFarAhead
	}
	return nil
}

// ValidateTickets checks the ticket count against both bounds. The lower
// bound is enforced deliberately: zero or negative counts are rejected.
func ValidateTickets(tickets int) error {
	if tickets < 1 {
		return ErrNoTickets
	}
	if tickets > MaxTickets {
		return ErrTooManyTickets
	}
	return nil
}

// Validate applies every booking rule in one call and returns the first
// failure. Invoked identically at creation and edit time.
func Validate(visit, now time.Time, tickets int) error {
	if err := ValidateVisitDate(visit, now); err != nil {
		return err
	}
	return ValidateTickets(tickets)
}
