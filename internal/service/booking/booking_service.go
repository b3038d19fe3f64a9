package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/pricing"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRefundWindow = 24 * time.Hour

	idAttempts = 3
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ConfirmPayment(ctx context.Context, id string) (*domain.PaymentResult, error)
	CancelBooking(ctx context.Context, id string) (decimal.Decimal, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListActive(ctx context.Context, email string) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
}

// Cache is the part of the flights cache the booking flow must keep fresh.
type Cache interface {
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	cache              Cache
	producer           Producer
	logger             *logrus.Logger
	bookingTopic       string
	notificationsTopic string
	refundWindow       time.Duration
	refundPercent      int64
	now                func() time.Time
	newID              func() string
}

type CreateBookingInput struct {
	FlightID  string           `json:"flight_id"`
	SeatID    string           `json:"seat_id"`
	Passenger domain.Passenger `json:"passenger"`
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithCache(cache Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithIDGenerator(newID func() string) BookingServiceOption {
	return func(s *BookingService) {
		s.newID = newID
	}
}

func WithRefundPolicy(window time.Duration, percent int64) BookingServiceOption {
	return func(s *BookingService) {
		s.refundWindow = window
		s.refundPercent = percent
	}
}

// NewBookingService accepts a nil producer; events are then not published.
func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	producer Producer,
	bookingTopic string,
	logger *logrus.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:      bookings,
		flights:       flights,
		producer:      producer,
		bookingTopic:  bookingTopic,
		logger:        logger,
		refundWindow:  DefaultRefundWindow,
		refundPercent: pricing.DefaultRefundPercent,
		now:           time.Now,
		newID:         NewBookingID,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// NewBookingID returns the first 8 characters of a random UUID, upper-cased.
func NewBookingID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	flightID := strings.TrimSpace(input.FlightID)
	seatID := strings.ToUpper(strings.TrimSpace(input.SeatID))
	if flightID == "" {
		return nil, domain.ErrFlightNotFound
	}
	if seatID == "" {
		return nil, domain.ErrInvalidSeat
	}
	passenger := domain.Passenger{
		Name:  strings.TrimSpace(input.Passenger.Name),
		Email: strings.TrimSpace(input.Passenger.Email),
	}
	if err := passenger.Validate(); err != nil {
		return nil, err
	}

	seats, err := s.flights.SeatMap(ctx, flightID)
	if err != nil {
		return nil, err
	}
	// Reserve fails both for seats taken and for ids outside the layout.
	if !seats.Reserve(seatID) {
		return nil, domain.ErrSeatUnavailable
	}

	price, ok := seats.PriceFor(seatID)
	if !ok {
		seats.Release(seatID)
		return nil, domain.ErrInvalidSeat
	}

	booking := &domain.Booking{
		FlightID:  flightID,
		Passenger: passenger,
		SeatID:    seatID,
		Price:     price,
		Status:    domain.BookingStatusPendingPayment,
		CreatedAt: s.now(),
	}
	if err := s.insert(ctx, booking); err != nil {
		seats.Release(seatID)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"flight_id":  flightID,
		"seat_id":    seatID,
		"price":      price.String(),
	}).Info("booking created")

	s.invalidateFlights(ctx)
	s.publish(ctx, kafka.EventBookingCreated, booking, decimal.Zero)
	return booking, nil
}

// insert retries with a fresh id when the generated one is already taken.
func (s *BookingService) insert(ctx context.Context, booking *domain.Booking) error {
	var err error
	for i := 0; i < idAttempts; i++ {
		booking.ID = s.newID()
		err = s.bookings.Insert(ctx, booking)
		if !errors.Is(err, domain.ErrBookingAlreadyExists) {
			return err
		}
	}
	return err
}

func (s *BookingService) ConfirmPayment(ctx context.Context, id string) (*domain.PaymentResult, error) {
	id = strings.TrimSpace(id)
	result := domain.PaymentResult{
		Status: domain.PaymentStatusSuccess,
		TxnID:  fmt.Sprintf("USER%d", s.now().UnixMilli()),
	}

	updated, err := s.bookings.Transition(ctx, id, domain.BookingStatusConfirmed, func(b *domain.Booking) error {
		b.LastPaymentStatus = result.Status
		b.LastTxnID = result.TxnID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"booking_id": id, "txn_id": result.TxnID}).Info("booking confirmed")
	s.publish(ctx, kafka.EventBookingConfirmed, updated, decimal.Zero)
	return &result, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, id string) (decimal.Decimal, error) {
	id = strings.TrimSpace(id)
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	if current.Status == domain.BookingStatusCancelled {
		return decimal.Zero, domain.ErrAlreadyCancelled
	}
	flight, err := s.flights.GetByID(ctx, current.FlightID)
	if err != nil {
		return decimal.Zero, err
	}

	now := s.now()
	// The status may have changed since the read above, so eligibility is
	// decided again under the store lock.
	updated, err := s.bookings.Transition(ctx, id, domain.BookingStatusCancelled, func(b *domain.Booking) error {
		if b.Status == domain.BookingStatusConfirmed && !flight.DepartureTime.After(now.Add(s.refundWindow)) {
			return domain.ErrNotRefundable
		}
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	seats, err := s.flights.SeatMap(ctx, updated.FlightID)
	if err != nil {
		return decimal.Zero, err
	}
	seats.Release(updated.SeatID)

	refund := pricing.Refund(updated.Price, s.refundPercent)
	s.logger.WithFields(logrus.Fields{
		"booking_id": id,
		"seat_id":    updated.SeatID,
		"refund":     refund.String(),
	}).Info("booking cancelled")

	s.invalidateFlights(ctx)
	s.publish(ctx, kafka.EventBookingCancelled, updated, refund)
	return refund, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, strings.TrimSpace(id))
}

// ListActive returns non-cancelled bookings. A blank email returns all of
// them, otherwise only those whose passenger email matches ignoring case.
func (s *BookingService) ListActive(ctx context.Context, email string) ([]domain.Booking, error) {
	active, err := s.bookings.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(email) == "" {
		return active, nil
	}
	out := make([]domain.Booking, 0, len(active))
	for _, b := range active {
		if b.BelongsTo(email) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *BookingService) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return s.bookings.ListAll(ctx)
}

func (s *BookingService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate flights cache")
	}
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, refund decimal.Decimal) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		BookingID:  booking.ID,
		FlightID:   booking.FlightID,
		SeatID:     booking.SeatID,
		Name:       booking.Passenger.Name,
		Email:      booking.Passenger.Email,
		Status:     string(booking.Status),
		Price:      booking.Price.String(),
		TxnID:      booking.LastTxnID,
		OccurredAt: s.now(),
	}
	if eventType == kafka.EventBookingCancelled {
		event.Refund = refund.String()
	}

	topics := []string{s.bookingTopic}
	if s.notificationsTopic != "" {
		topics = append(topics, s.notificationsTopic)
	}
	for _, topic := range topics {
		if err := s.producer.Publish(ctx, topic, booking.ID, event); err != nil {
			s.logger.WithFields(logrus.Fields{
				"event":      eventType,
				"booking_id": booking.ID,
				"topic":      topic,
			}).WithError(err).Warn("failed to publish booking event")
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
