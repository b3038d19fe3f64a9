package flights

import (
	"context"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/sirupsen/logrus"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.FlightSummary, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	AvailableSeats(ctx context.Context, id string) ([]domain.Seat, error)
	Seats(ctx context.Context, id string) ([]domain.Seat, error)
	Legend() string
}

type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.FlightSummary, error)
	SetFlights(ctx context.Context, flights []domain.FlightSummary) error
}

type FlightService struct {
	repo     repository.FlightRepository
	cache    FlightCache
	cacheTTL time.Duration
	logger   *logrus.Logger
}

// NewFlightService accepts a nil cache.
func NewFlightService(repo repository.FlightRepository, cache FlightCache, cacheTTL time.Duration, logger *logrus.Logger) *FlightService {
	return &FlightService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *FlightService) List(ctx context.Context) ([]domain.FlightSummary, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			s.logger.WithError(err).Warn("flights cache read failed")
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]domain.FlightSummary, 0, len(flights))
	for _, f := range flights {
		seats, err := s.repo.SeatMap(ctx, f.ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, f.Summary(len(seats.Available())))
	}

	if s.cache != nil {
		// Summaries whose counts moved while building are returned but not cached.
		if s.moved(ctx, summaries) {
			s.logger.Debug("seat counts moved during listing, skipping cache write")
			return summaries, nil
		}
		if err := s.cache.SetFlights(ctx, summaries); err != nil {
			s.logger.WithError(err).Warn("flights cache write failed")
		}
	}
	return summaries, nil
}

func (s *FlightService) moved(ctx context.Context, summaries []domain.FlightSummary) bool {
	for _, summary := range summaries {
		seats, err := s.repo.SeatMap(ctx, summary.ID)
		if err != nil || len(seats.Available()) != summary.AvailableSeats {
			return true
		}
	}
	return false
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

// AvailableSeats is a point-in-time snapshot of the unreserved seats.
func (s *FlightService) AvailableSeats(ctx context.Context, id string) ([]domain.Seat, error) {
	seats, err := s.repo.SeatMap(ctx, id)
	if err != nil {
		return nil, err
	}
	return seats.Available(), nil
}

func (s *FlightService) Seats(ctx context.Context, id string) ([]domain.Seat, error) {
	seats, err := s.repo.SeatMap(ctx, id)
	if err != nil {
		return nil, err
	}
	return seats.Seats(), nil
}

func (s *FlightService) Legend() string {
	return domain.SeatLegend()
}

var _ FlightUseCase = (*FlightService)(nil)
