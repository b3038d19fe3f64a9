// Package catalog loads the configured flights into the flight repository.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/shopspring/decimal"
)

// DefaultFlights is used when the config has no catalog section.
var DefaultFlights = []config.FlightSeed{
	{ID: "AI101", Airline: "Air India", Origin: "DEL", Destination: "BLR", DepartureInHours: 24, DepartureTime: "09:25", BaseFare: "6500"},
	{ID: "6E202", Airline: "IndiGo", Origin: "BOM", Destination: "DEL", DepartureInHours: 48, DepartureTime: "14:10", BaseFare: "4200"},
	{ID: "UK303", Airline: "Vistara", Origin: "BLR", Destination: "GOI", DepartureInHours: 72, DepartureTime: "07:45", BaseFare: "3800"},
}

func Seed(ctx context.Context, repo repository.FlightRepository, seeds []config.FlightSeed, now time.Time) error {
	if len(seeds) == 0 {
		seeds = DefaultFlights
	}
	for _, s := range seeds {
		flight, err := Build(s, now)
		if err != nil {
			return err
		}
		if err := repo.Add(ctx, flight); err != nil {
			return fmt.Errorf("seed flight %s: %w", s.ID, err)
		}
	}
	return nil
}

func Build(s config.FlightSeed, now time.Time) (domain.Flight, error) {
	fare, err := decimal.NewFromString(s.BaseFare)
	if err != nil {
		return domain.Flight{}, fmt.Errorf("flight %s: invalid base fare %q: %w", s.ID, s.BaseFare, err)
	}
	if fare.IsNegative() {
		return domain.Flight{}, fmt.Errorf("flight %s: base fare cannot be negative", s.ID)
	}

	departure := now.Add(time.Duration(s.DepartureInHours) * time.Hour)
	if s.DepartureTime != "" {
		clock, err := time.Parse("15:04", s.DepartureTime)
		if err != nil {
			return domain.Flight{}, fmt.Errorf("flight %s: invalid departure time %q: %w", s.ID, s.DepartureTime, err)
		}
		departure = time.Date(departure.Year(), departure.Month(), departure.Day(),
			clock.Hour(), clock.Minute(), 0, 0, departure.Location())
	}

	return domain.Flight{
		ID:            s.ID,
		Airline:       s.Airline,
		Origin:        s.Origin,
		Destination:   s.Destination,
		DepartureTime: departure,
		BaseFare:      fare,
	}, nil
}
