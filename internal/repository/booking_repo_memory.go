package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
)

type BookingRepository interface {
	Insert(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// Transition moves the booking to status. apply, when not nil, runs under
	// the same lock after the transition has been validated and may veto it
	// by returning an error.
	Transition(ctx context.Context, id string, status domain.BookingStatus, apply func(*domain.Booking) error) (*domain.Booking, error)
	RecordPaymentAttempt(ctx context.Context, id string, result domain.PaymentResult) (*domain.Booking, error)
	ListActive(ctx context.Context) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
}

// MemoryBookingRepository keeps bookings in insertion order. Cancelled
// bookings stay in the table and are filtered out of the active view.
type MemoryBookingRepository struct {
	mu       sync.Mutex
	order    []string
	bookings map[string]*domain.Booking
	now      func() time.Time
}

type BookingRepositoryOption func(*MemoryBookingRepository)

// WithNow sets the clock used for booking timestamps.
func WithNow(now func() time.Time) BookingRepositoryOption {
	return func(r *MemoryBookingRepository) {
		r.now = now
	}
}

func NewBookingRepository(opts ...BookingRepositoryOption) *MemoryBookingRepository {
	r := &MemoryBookingRepository{
		bookings: make(map[string]*domain.Booking),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MemoryBookingRepository) Insert(ctx context.Context, booking *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[booking.ID]; ok {
		return domain.ErrBookingAlreadyExists
	}
	now := r.now()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now

	stored := *booking
	r.bookings[booking.ID] = &stored
	r.order = append(r.order, booking.ID)
	return nil
}

func (r *MemoryBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (r *MemoryBookingRepository) Transition(ctx context.Context, id string, status domain.BookingStatus, apply func(*domain.Booking) error) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if err := domain.CanTransition(b.Status, status); err != nil {
		return nil, err
	}

	// apply works on a copy so a veto leaves the stored booking untouched.
	next := *b
	if apply != nil {
		if err := apply(&next); err != nil {
			return nil, err
		}
	}
	next.Status = status
	next.UpdatedAt = r.now()
	*b = next

	out := next
	return &out, nil
}

func (r *MemoryBookingRepository) RecordPaymentAttempt(ctx context.Context, id string, result domain.PaymentResult) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if b.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}
	b.LastPaymentStatus = result.Status
	b.LastTxnID = result.TxnID
	b.UpdatedAt = r.now()

	out := *b
	return &out, nil
}

func (r *MemoryBookingRepository) ListActive(ctx context.Context) ([]domain.Booking, error) {
	return r.list(func(b *domain.Booking) bool { return b.IsActive() }), nil
}

func (r *MemoryBookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	return r.list(func(*domain.Booking) bool { return true }), nil
}

func (r *MemoryBookingRepository) list(keep func(*domain.Booking) bool) []domain.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Booking, 0, len(r.order))
	for _, id := range r.order {
		if b := r.bookings[id]; keep(b) {
			out = append(out, *b)
		}
	}
	return out
}

var _ BookingRepository = (*MemoryBookingRepository)(nil)
