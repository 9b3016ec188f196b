package returns

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fundTools/internal/domain"
	"fundTools/internal/ports"
)

const daysPerYear = 365

// Params holds the inputs of a holding analysis.
type Params struct {
	Holding     domain.Holding
	Fees        domain.FeeSchedule
	Multipliers map[int]float64 // Deflator per calendar year, see inflation.Table.Multipliers
}

// AnalyzeHolding computes the value of units bought at the holding date over the
// rest of the price history. quotes must be sorted by date.
//
// The purchase is priced at the offer of the last quote on or before the holding
// date; the window starts strictly after that quote. Fees accrue on the first
// quote of every January inside the window. Rows whose year has no multiplier
// are dropped once fees are accrued.
func AnalyzeHolding(quotes []domain.Quote, params Params) (*domain.Report, error) {
	if len(quotes) == 0 {
		return nil, ports.ErrNoQuotes
	}

	purchase := -1
	for i, q := range quotes {
		if q.Date.After(params.Holding.Date) {
			break
		}
		purchase = i
	}
	if purchase < 0 {
		return nil, ports.ErrNoQuoteBeforeDate
	}

	units := params.Holding.Units
	report := &domain.Report{
		Units:        units,
		HoldingDate:  params.Holding.Date,
		PurchaseDate: quotes[purchase].Date,
		BuyPrice:     quotes[purchase].Offer * units,
	}

	// Positions held strictly after the purchase quote
	window := make([]domain.ValuePoint, 0, len(quotes)-purchase)
	for _, q := range quotes[purchase+1:] {
		if !q.Date.After(report.PurchaseDate) {
			continue
		}
		window = append(window, domain.ValuePoint{
			Date:  q.Date,
			Bid:   q.Bid,
			Offer: q.Offer,
			Sell:  q.Bid * units,
		})
	}

	report.Premiums = accrueFees(window, params.Fees)

	// Apply inflation
	skipped := make(map[int]struct{})
	series := window[:0]
	for _, p := range window {
		m, ok := params.Multipliers[p.Date.Year()]
		if !ok {
			skipped[p.Date.Year()] = struct{}{}
			continue
		}
		p.BidCorrected = p.Bid * m
		p.OfferCorrected = p.Offer * m
		p.SellCorrected = p.Sell * m
		p.SellFeesCorrected = p.SellFees * m
		series = append(series, p)
	}
	for year := range skipped {
		report.SkippedYears = append(report.SkippedYears, year)
	}
	sort.Ints(report.SkippedYears)

	if len(series) == 0 {
		return nil, ports.ErrEmptyWindow
	}
	report.Series = series

	first, last := series[0], series[len(series)-1]
	report.WindowStart = first.Date
	report.WindowEnd = last.Date
	report.Interest = last.Sell - report.BuyPrice
	report.CorrectedInterest = last.SellCorrected - report.BuyPrice

	duration := wholeDays(last.Date.Sub(first.Date)) / daysPerYear
	report.InterestRate = annualRate(last.Sell, report.BuyPrice, duration)
	report.InterestRateFees = annualRate(last.SellFees, report.BuyPrice, duration)
	report.CorrectedInterestRate = annualRate(last.SellCorrected, report.BuyPrice, duration)
	report.CorrectedInterestRateFees = annualRate(last.SellFeesCorrected, report.BuyPrice, duration)

	return report, nil
}

// accrueFees fills SellFees for every point and returns the total accrued.
// The charge is taken once per calendar year, on the first January quote.
func accrueFees(window []domain.ValuePoint, fees domain.FeeSchedule) decimal.Decimal {
	accrued := decimal.Zero
	lastYearTaken := 0
	for i := range window {
		p := &window[i]
		if p.Date.Month() == time.January && p.Date.Year() != lastYearTaken {
			lastYearTaken = p.Date.Year()
			accrued = accrued.Add(decimal.NewFromFloat(p.Sell).Mul(fees.Rate)).Add(fees.Flat)
		}
		p.SellFees = decimal.NewFromFloat(p.Sell).Sub(accrued).InexactFloat64()
	}
	return accrued
}

func wholeDays(d time.Duration) float64 {
	return math.Floor(d.Hours() / 24)
}

// annualRate is the relative gain over buy, divided by the duration in years.
// It is NaN when either divisor is zero.
func annualRate(sell, buy, years float64) float64 {
	if buy == 0 || years == 0 {
		return math.NaN()
	}
	return (sell - buy) / buy / years
}
