// Package inventory tracks seat reservations for a single flight.
package inventory

import (
	"sync"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/pricing"
	"github.com/shopspring/decimal"
)

// SeatMap owns the seats of one flight. Every check-then-mutate sequence on
// the map runs under mu, so two callers can never both reserve a seat.
type SeatMap struct {
	mu       sync.Mutex
	baseFare decimal.Decimal
	order    []string
	seats    map[string]*domain.Seat
}

func NewSeatMap(baseFare decimal.Decimal, layout []domain.Seat) *SeatMap {
	m := &SeatMap{
		baseFare: baseFare,
		order:    make([]string, 0, len(layout)),
		seats:    make(map[string]*domain.Seat, len(layout)),
	}
	for _, s := range layout {
		seat := s
		m.order = append(m.order, seat.ID)
		m.seats[seat.ID] = &seat
	}
	return m
}

// Reserve marks the seat reserved. It returns false if the seat does not
// exist or is already taken.
func (m *SeatMap) Reserve(seatID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.seats[seatID]
	if !ok || s.Reserved {
		return false
	}
	s.Reserved = true
	return true
}

// Release clears the reservation. Unknown seats are ignored.
func (m *SeatMap) Release(seatID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.seats[seatID]; ok {
		s.Reserved = false
	}
}

func (m *SeatMap) Has(seatID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seats[seatID]
	return ok
}

func (m *SeatMap) IsReserved(seatID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.seats[seatID]
	return ok && s.Reserved
}

// Available returns a copy of the free seats in layout order.
func (m *SeatMap) Available() []domain.Seat {
	m.mu.Lock()
	defer m.mu.Unlock()

	free := make([]domain.Seat, 0, len(m.order))
	for _, id := range m.order {
		if s := m.seats[id]; !s.Reserved {
			free = append(free, *s)
		}
	}
	return free
}

// Seats returns a copy of the whole layout with reservation flags.
func (m *SeatMap) Seats() []domain.Seat {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]domain.Seat, 0, len(m.order))
	for _, id := range m.order {
		all = append(all, *m.seats[id])
	}
	return all
}

// PriceFor prices a seat from the flight's base fare and the seat's class.
func (m *SeatMap) PriceFor(seatID string) (decimal.Decimal, bool) {
	m.mu.Lock()
	s, ok := m.seats[seatID]
	m.mu.Unlock()
	if !ok {
		return decimal.Zero, false
	}
	return pricing.PriceFor(m.baseFare, s.Class), true
}
