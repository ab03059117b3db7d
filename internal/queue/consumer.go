package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Notifier receives decoded booking events. Implemented by mailer.Mailer.
type Notifier interface {
	SendBookingNotification(ev BookingEvent) error
}

// StartConsumer connects to RabbitMQ, declares the booking.events queue,
// and consumes until ctx is cancelled. Each event is logged; when a
// notifier is configured the contact address is emailed. The function runs
// a reconnect loop with backoff so a broker restart never takes the
// consumer down for good.
func StartConsumer(ctx context.Context, url string, notifier Notifier, log zerolog.Logger) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("booking-consumer: dial failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(ctx, conn, notifier, log); err != nil {
			log.Warn().Err(err).Msg("booking-consumer: consume loop ended, reconnecting")
		}
		_ = conn.Close()
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, notifier Notifier, log zerolog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn().Err(err).Msg("booking-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(bookingQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(bookingQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := handleMessage(d.Body, notifier, log); err != nil {
				log.Warn().Err(err).Msg("booking-consumer: handle message failed")
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func handleMessage(body []byte, notifier Notifier, log zerolog.Logger) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	log.Info().
		Str("action", ev.Action).
		Uint64("booking_id", ev.BookingID).
		Uint64("user_id", ev.UserID).
		Str("visit_date", ev.VisitDate).
		Int("tickets", ev.Tickets).
		Str("ticket_type", ev.TicketType).
		Msg("booking event")

	if notifier != nil {
		// Mail failures are already logged by the notifier; the event is
		// still acked so a dead relay cannot wedge the queue.
		_ = notifier.SendBookingNotification(ev)
	}
	return nil
}
