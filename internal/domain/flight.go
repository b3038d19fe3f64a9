package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Fixed cabin layout shared by every flight.
const (
	SeatRows        = 6
	SeatColumns     = "ABCD"
	BusinessLastRow = 2
)

type Flight struct {
	ID            string          `json:"id"`
	Airline       string          `json:"airline"`
	Origin        string          `json:"origin"`
	Destination   string          `json:"destination"`
	DepartureTime time.Time       `json:"departure_time"`
	BaseFare      decimal.Decimal `json:"base_fare"`
}

// FlightSummary is the list view of a flight together with the number of
// seats that were free when the summary was taken.
type FlightSummary struct {
	ID             string          `json:"id"`
	Airline        string          `json:"airline"`
	Origin         string          `json:"origin"`
	Destination    string          `json:"destination"`
	DepartureTime  time.Time       `json:"departure_time"`
	BaseFare       decimal.Decimal `json:"base_fare"`
	AvailableSeats int             `json:"available_seats"`
}

func (f Flight) Summary(available int) FlightSummary {
	return FlightSummary{
		ID:             f.ID,
		Airline:        f.Airline,
		Origin:         f.Origin,
		Destination:    f.Destination,
		DepartureTime:  f.DepartureTime,
		BaseFare:       f.BaseFare,
		AvailableSeats: available,
	}
}

// Layout returns every seat of the standard cabin in row-major order.
func Layout() []Seat {
	seats := make([]Seat, 0, SeatRows*len(SeatColumns))
	for row := 1; row <= SeatRows; row++ {
		class := SeatClassEconomy
		if row <= BusinessLastRow {
			class = SeatClassBusiness
		}
		for _, col := range SeatColumns {
			seats = append(seats, Seat{
				ID:         fmt.Sprintf("%d%c", row, col),
				Class:      class,
				Multiplier: class.Multiplier(),
			})
		}
	}
	return seats
}

// SeatLegend describes the cabin classes for display next to a seat map.
func SeatLegend() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rows 1-%d: %s (%sx base fare)\n", BusinessLastRow, SeatClassBusiness, SeatClassBusiness.Multiplier())
	fmt.Fprintf(&b, "Rows %d-%d: %s (%sx base fare)\n", BusinessLastRow+1, SeatRows, SeatClassEconomy, SeatClassEconomy.Multiplier())
	fmt.Fprintf(&b, "%d seats per row labeled %s", len(SeatColumns), strings.Join(strings.Split(SeatColumns, ""), "-"))
	return b.String()
}
