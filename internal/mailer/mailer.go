// Package mailer sends booking notification emails over a plain SMTP
// relay.
package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"

	"github.com/rzazoo/zoo-booking/internal/queue"
)

// Mailer holds SMTP relay settings. A nil Mailer is a valid "mail
// disabled" value for callers.
type Mailer struct {
	Host string
	Port string
	From string
	Pass string
	Log  zerolog.Logger
}

// New returns a Mailer, or nil when no host is configured.
func New(host, port, from, pass string, log zerolog.Logger) *Mailer {
	if host == "" || from == "" {
		return nil
	}
	return &Mailer{Host: host, Port: port, From: from, Pass: pass, Log: log}
}

// SendBookingNotification emails the booking's contact address about a
// lifecycle event.
func (m *Mailer) SendBookingNotification(ev queue.BookingEvent) error {
	var subject, body string
	switch ev.Action {
	case queue.ActionCreated:
		subject = "Your RZA Zoo booking is confirmed"
		body = fmt.Sprintf("Hello %s!\n\nYour visit on %s is booked: %d x %s tickets.\nTotal cost: £%.2f.\n\nSee you at the zoo!",
			ev.Name, ev.VisitDate, ev.Tickets, ev.TicketType, ev.TotalCost)
	case queue.ActionUpdated:
		subject = "Your RZA Zoo booking was updated"
		body = fmt.Sprintf("Hello %s!\n\nYour booking was changed. It is now %d x %s tickets on %s.",
			ev.Name, ev.Tickets, ev.TicketType, ev.VisitDate)
	case queue.ActionDeleted:
		subject = "Your RZA Zoo booking was cancelled"
		body = fmt.Sprintf("Hello %s!\n\nYour booking for %s has been cancelled.", ev.Name, ev.VisitDate)
	default:
		return fmt.Errorf("unknown booking action %q", ev.Action)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.From, ev.Email, subject, body)

	addr := m.Host + ":" + m.Port
	auth := smtp.PlainAuth("", m.From, m.Pass, m.Host)
	if err := smtp.SendMail(addr, auth, m.From, []string{ev.Email}, []byte(msg)); err != nil {
		m.Log.Warn().Err(err).Str("to", ev.Email).Msg("mailer: send failed")
		return fmt.Errorf("send email: %w", err)
	}
	m.Log.Info().Str("to", ev.Email).Str("action", ev.Action).Msg("mailer: notification sent")
	return nil
}
