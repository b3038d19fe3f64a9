// Package pricing holds the fare arithmetic. All results are rounded to whole
// currency units, half up.
package pricing

import (
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultRefundPercent is the share of the ticket price returned on an
// eligible cancellation.
const DefaultRefundPercent = 40

var hundred = decimal.NewFromInt(100)

// PriceFor returns baseFare × class multiplier.
func PriceFor(baseFare decimal.Decimal, class domain.SeatClass) decimal.Decimal {
	return roundHalfUp(baseFare.Mul(class.Multiplier()))
}

// Refund returns percent% of price.
func Refund(price decimal.Decimal, percent int64) decimal.Decimal {
	return roundHalfUp(price.Mul(decimal.NewFromInt(percent)).Div(hundred))
}

// Prices are never negative, so rounding half away from zero is half up.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}
