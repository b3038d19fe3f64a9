package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPendingPayment BookingStatus = "PENDING_PAYMENT"
	BookingStatusConfirmed      BookingStatus = "CONFIRMED"
	BookingStatusCancelled      BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

type Passenger struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p Passenger) Validate() error {
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Email) == "" {
		return ErrInvalidPassenger
	}
	return nil
}

type PaymentResult struct {
	Status PaymentStatus `json:"status"`
	TxnID  string        `json:"txn_id,omitempty"`
}

type Booking struct {
	ID                string          `json:"id"`
	FlightID          string          `json:"flight_id"`
	Passenger         Passenger       `json:"passenger"`
	SeatID            string          `json:"seat_id"`
	Price             decimal.Decimal `json:"price"`
	Status            BookingStatus   `json:"status"`
	LastPaymentStatus PaymentStatus   `json:"last_payment_status,omitempty"`
	LastTxnID         string          `json:"last_txn_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (b *Booking) IsActive() bool {
	return b.Status != BookingStatusCancelled
}

// BelongsTo reports whether the booking's passenger email matches email,
// ignoring case.
func (b *Booking) BelongsTo(email string) bool {
	return strings.EqualFold(b.Passenger.Email, strings.TrimSpace(email))
}

var transitions = map[BookingStatus][]BookingStatus{
	BookingStatusPendingPayment: {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:      {BookingStatusCancelled},
}

// CanTransition validates a status change and returns the error describing
// why it is rejected.
func CanTransition(from, to BookingStatus) error {
	if from == BookingStatusCancelled {
		return ErrAlreadyCancelled
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	if from == BookingStatusConfirmed && to == BookingStatusConfirmed {
		return ErrAlreadyConfirmed
	}
	return ErrInvalidTransition
}
