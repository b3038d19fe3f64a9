package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/inventory"
)

type FlightRepository interface {
	Add(ctx context.Context, flight domain.Flight) error
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	SeatMap(ctx context.Context, id string) (*inventory.SeatMap, error)
}

type flightEntry struct {
	flight domain.Flight
	seats  *inventory.SeatMap
}

// MemoryFlightRepository is the flight catalog. Flights are added at seed
// time and live for the whole process; only their seat maps change.
type MemoryFlightRepository struct {
	mu      sync.RWMutex
	order   []string
	flights map[string]*flightEntry
}

func NewFlightRepository() *MemoryFlightRepository {
	return &MemoryFlightRepository{flights: make(map[string]*flightEntry)}
}

func (r *MemoryFlightRepository) Add(ctx context.Context, flight domain.Flight) error {
	if flight.ID == "" {
		return fmt.Errorf("flight id is required")
	}
	if flight.BaseFare.IsNegative() {
		return fmt.Errorf("flight %s: base fare cannot be negative", flight.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.flights[flight.ID]; ok {
		return fmt.Errorf("flight %s already exists", flight.ID)
	}
	r.flights[flight.ID] = &flightEntry{
		flight: flight,
		seats:  inventory.NewSeatMap(flight.BaseFare, domain.Layout()),
	}
	r.order = append(r.order, flight.ID)
	return nil
}

func (r *MemoryFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	flights := make([]domain.Flight, 0, len(r.order))
	for _, id := range r.order {
		flights = append(flights, r.flights[id].flight)
	}
	return flights, nil
}

func (r *MemoryFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	e, err := r.entry(id)
	if err != nil {
		return nil, err
	}
	f := e.flight
	return &f, nil
}

func (r *MemoryFlightRepository) SeatMap(ctx context.Context, id string) (*inventory.SeatMap, error) {
	e, err := r.entry(id)
	if err != nil {
		return nil, err
	}
	return e.seats, nil
}

func (r *MemoryFlightRepository) entry(id string) (*flightEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.flights[id]
	if !ok {
		return nil, domain.ErrFlightNotFound
	}
	return e, nil
}

var _ FlightRepository = (*MemoryFlightRepository)(nil)
