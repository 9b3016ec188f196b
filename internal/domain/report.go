package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ValuePoint is one row of the holding window.
type ValuePoint struct {
	Date              time.Time
	Bid               float64
	Offer             float64
	Sell              float64
	SellFees          float64
	BidCorrected      float64
	OfferCorrected    float64
	SellCorrected     float64
	SellFeesCorrected float64
}

// Value returns the value of the named column.
func (p ValuePoint) Value(col SeriesColumn) float64 {
	switch col {
	case ColumnBid:
		return p.Bid
	case ColumnOffer:
		return p.Offer
	case ColumnSell:
		return p.Sell
	case ColumnSellFees:
		return p.SellFees
	case ColumnBidCorrected:
		return p.BidCorrected
	case ColumnOfferCorrected:
		return p.OfferCorrected
	case ColumnSellCorrected:
		return p.SellCorrected
	case ColumnSellFeesCorrected:
		return p.SellFeesCorrected
	default:
		return math.NaN()
	}
}

// Report holds the return statistics of a holding.
// Rates are annualised fractions; NaN means undefined (zero buy price or zero duration).
type Report struct {
	RunID        string
	InputPath    string
	CreatedAt    time.Time
	Units        float64
	HoldingDate  time.Time // Requested purchase date
	PurchaseDate time.Time // Date of the quote the units were priced at
	BuyPrice     float64

	Premiums          decimal.Decimal // Fees accrued over the whole window
	Interest          float64
	CorrectedInterest float64

	InterestRate              float64
	InterestRateFees          float64
	CorrectedInterestRate     float64
	CorrectedInterestRateFees float64

	WindowStart  time.Time
	WindowEnd    time.Time
	SkippedYears []int // Years dropped for lack of an inflation multiplier

	Series []ValuePoint
}
