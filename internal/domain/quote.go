package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one row of a bid/offer price history.
type Quote struct {
	Date  time.Time // Day the prices were quoted
	Bid   float64   // Price the market buys units at (what a holder sells for)
	Offer float64   // Price the market sells units at (what a buyer pays)
}

// Holding describes units bought on a given day.
type Holding struct {
	Units float64
	Date  time.Time
}

// FeeSchedule is charged once per calendar year, on the first quote in January.
type FeeSchedule struct {
	Rate decimal.Decimal // Fraction of the held value
	Flat decimal.Decimal // Fixed amount added to the rate charge
}
