// Package checkout runs the payment workflow in front of the booking core:
// it validates the tendered amount, charges a payment channel and confirms
// the booking when the charge goes through.
package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/payment"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CheckoutUseCase interface {
	Pay(ctx context.Context, input PayInput) (*Receipt, error)
}

// GatewayFactory resolves a payment method name to a channel.
type GatewayFactory func(method string) (payment.Gateway, error)

type PayInput struct {
	BookingID string          `json:"booking_id"`
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
}

type Receipt struct {
	Booking      *domain.Booking       `json:"booking"`
	Payment      *domain.PaymentResult `json:"payment"`
	Method       string                `json:"method"`
	GatewayTxnID string                `json:"gateway_txn_id"`
	Change       decimal.Decimal       `json:"change"`
}

type Service struct {
	bookings booking.BookingUseCase
	attempts repository.BookingRepository
	gateways GatewayFactory
	delay    time.Duration
	logger   *logrus.Logger
}

type Option func(*Service)

// WithProcessingDelay makes every charge wait d before hitting the channel.
func WithProcessingDelay(d time.Duration) Option {
	return func(s *Service) {
		s.delay = d
	}
}

func WithGatewayFactory(f GatewayFactory) Option {
	return func(s *Service) {
		s.gateways = f
	}
}

func NewService(bookings booking.BookingUseCase, attempts repository.BookingRepository, logger *logrus.Logger, opts ...Option) *Service {
	s := &Service{
		bookings: bookings,
		attempts: attempts,
		gateways: func(method string) (payment.Gateway, error) { return payment.New(method) },
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Pay(ctx context.Context, input PayInput) (*Receipt, error) {
	current, err := s.bookings.GetBooking(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	switch current.Status {
	case domain.BookingStatusCancelled:
		return nil, domain.ErrAlreadyCancelled
	case domain.BookingStatusConfirmed:
		return nil, domain.ErrAlreadyConfirmed
	}
	if input.Amount.LessThan(current.Price) {
		return nil, fmt.Errorf("amount %s is below price %s: %w", input.Amount, current.Price, domain.ErrInvalidAmount)
	}

	gateway, err := s.gateways(input.Method)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithFields(logrus.Fields{
		"booking_id": current.ID,
		"method":     gateway.Name(),
		"amount":     current.Price.String(),
	})
	log.Info("processing payment")

	// No inventory or store lock is held from here until ConfirmPayment.
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	charged, err := gateway.Charge(ctx, current.Price, "booking "+current.ID)
	if err != nil {
		return nil, err
	}

	if charged.Status != domain.PaymentStatusSuccess {
		if _, err := s.attempts.RecordPaymentAttempt(ctx, current.ID, charged); err != nil {
			log.WithError(err).Warn("failed to record payment attempt")
		}
		log.Warn("payment declined")
		return nil, fmt.Errorf("%s: %w", gateway.Name(), domain.ErrPaymentFailed)
	}

	confirmed, err := s.bookings.ConfirmPayment(ctx, current.ID)
	if err != nil {
		// The booking was cancelled or confirmed while the charge was in flight.
		log.WithError(err).WithField("gateway_txn_id", charged.TxnID).Error("charge succeeded but confirmation failed")
		return nil, err
	}
	updated, err := s.bookings.GetBooking(ctx, current.ID)
	if err != nil {
		return nil, err
	}

	return &Receipt{
		Booking:      updated,
		Payment:      confirmed,
		Method:       strings.ToLower(gateway.Name()),
		GatewayTxnID: charged.TxnID,
		Change:       input.Amount.Sub(current.Price),
	}, nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ CheckoutUseCase = (*Service)(nil)
