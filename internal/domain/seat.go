package domain

import "github.com/shopspring/decimal"

type SeatClass string

const (
	SeatClassEconomy  SeatClass = "ECONOMY"
	SeatClassBusiness SeatClass = "BUSINESS"
)

var (
	economyMultiplier  = decimal.NewFromInt(1)
	businessMultiplier = decimal.RequireFromString("1.8")
)

// Multiplier is the factor applied to a flight's base fare for this class.
func (c SeatClass) Multiplier() decimal.Decimal {
	if c == SeatClassBusiness {
		return businessMultiplier
	}
	return economyMultiplier
}

type Seat struct {
	ID         string          `json:"id"`
	Class      SeatClass       `json:"class"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Reserved   bool            `json:"reserved"`
}
