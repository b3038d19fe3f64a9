package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/sirupsen/logrus"
)

// Sender turns booking events into passenger notifications. Delivery is
// a structured log line; there is no mail transport.
type Sender struct {
	logger *logrus.Logger
}

func NewSender(logger *logrus.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		s.logger.WithField("booking_id", event.BookingID).Warn("booking event without email, nothing to send")
		return nil
	}
	s.logger.WithFields(logrus.Fields{
		"to":         event.Email,
		"booking_id": event.BookingID,
		"type":       event.Type,
	}).Info(Subject(event))
	return nil
}

func Subject(event kafka.BookingEvent) string {
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Booking %s created: flight %s seat %s, pay Rs.%s to confirm", event.BookingID, event.FlightID, event.SeatID, event.Price)
	case kafka.EventBookingConfirmed:
		return fmt.Sprintf("Booking %s confirmed: flight %s seat %s (txn %s)", event.BookingID, event.FlightID, event.SeatID, event.TxnID)
	case kafka.EventBookingCancelled:
		return fmt.Sprintf("Booking %s cancelled: refund Rs.%s", event.BookingID, event.Refund)
	default:
		return fmt.Sprintf("Booking %s: %s", event.BookingID, event.Type)
	}
}
