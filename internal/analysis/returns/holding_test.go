package returns

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundTools/internal/analysis/inflation"
	"fundTools/internal/domain"
	"fundTools/internal/ports"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testQuotes() []domain.Quote {
	return []domain.Quote{
		{Date: day(2020, time.June, 1), Bid: 9, Offer: 10},
		{Date: day(2020, time.December, 1), Bid: 10, Offer: 11},
		{Date: day(2021, time.January, 4), Bid: 12, Offer: 13},
		{Date: day(2021, time.January, 5), Bid: 12, Offer: 13},
		{Date: day(2021, time.June, 1), Bid: 14, Offer: 15},
		{Date: day(2022, time.January, 3), Bid: 15, Offer: 16},
	}
}

func defaultFees() domain.FeeSchedule {
	return domain.FeeSchedule{Rate: decimal.NewFromFloat(0.01), Flat: decimal.NewFromInt(6)}
}

func TestAnalyzeHolding(t *testing.T) {
	m2021 := 1 / 1.02
	m2022 := m2021 / 1.04
	params := Params{
		Holding:     domain.Holding{Units: 10, Date: day(2020, time.December, 15)},
		Fees:        defaultFees(),
		Multipliers: map[int]float64{2020: 1, 2021: m2021, 2022: m2022},
	}

	report, err := AnalyzeHolding(testQuotes(), params)
	require.NoError(t, err)

	// Priced at the last quote before the holding date
	assert.Equal(t, day(2020, time.December, 1), report.PurchaseDate)
	assert.Equal(t, 110.0, report.BuyPrice)
	assert.Equal(t, day(2021, time.January, 4), report.WindowStart)
	assert.Equal(t, day(2022, time.January, 3), report.WindowEnd)
	assert.Empty(t, report.SkippedYears)

	// 120*1% + 6 in 2021, 150*1% + 6 in 2022
	assert.Equal(t, "14.70", report.Premiums.StringFixed(2))

	require.Len(t, report.Series, 4)
	wantFees := []float64{112.8, 112.8, 132.8, 135.3}
	for i, p := range report.Series {
		assert.InDelta(t, wantFees[i], p.SellFees, 1e-9, "SellFees[%d]", i)
	}
	last := report.Series[3]
	assert.Equal(t, 150.0, last.Sell)
	assert.InDelta(t, 16*m2022, last.OfferCorrected, 1e-9)
	assert.InDelta(t, 150*m2022, last.SellCorrected, 1e-9)

	assert.InDelta(t, 40.0, report.Interest, 1e-9)
	assert.InDelta(t, 150*m2022-110, report.CorrectedInterest, 1e-9)

	years := 364.0 / 365.0
	assert.InDelta(t, 40.0/110.0/years, report.InterestRate, 1e-9)
	assert.InDelta(t, (135.3-110)/110/years, report.InterestRateFees, 1e-9)
	assert.InDelta(t, (150*m2022-110)/110/years, report.CorrectedInterestRate, 1e-9)
	assert.InDelta(t, (135.3*m2022-110)/110/years, report.CorrectedInterestRateFees, 1e-9)
}

func TestAnalyzeHolding_ExactDateIsExcludedFromWindow(t *testing.T) {
	params := Params{
		Holding:     domain.Holding{Units: 1, Date: day(2021, time.January, 4)},
		Fees:        defaultFees(),
		Multipliers: map[int]float64{2020: 1, 2021: 1, 2022: 1},
	}

	report, err := AnalyzeHolding(testQuotes(), params)
	require.NoError(t, err)

	assert.Equal(t, day(2021, time.January, 4), report.PurchaseDate)
	assert.Equal(t, 13.0, report.BuyPrice)
	assert.Equal(t, day(2021, time.January, 5), report.WindowStart)
	require.Len(t, report.Series, 3)
	// 2021 January fee is charged on the first window quote (5 Jan)
	assert.Equal(t, "12.27", report.Premiums.StringFixed(2))
}

func TestAnalyzeHolding_DropsYearsWithoutMultiplier(t *testing.T) {
	params := Params{
		Holding:     domain.Holding{Units: 10, Date: day(2020, time.December, 15)},
		Fees:        defaultFees(),
		Multipliers: map[int]float64{2020: 1, 2021: 1 / 1.02},
	}

	report, err := AnalyzeHolding(testQuotes(), params)
	require.NoError(t, err)

	assert.Equal(t, []int{2022}, report.SkippedYears)
	require.Len(t, report.Series, 3)
	assert.Equal(t, day(2021, time.June, 1), report.WindowEnd)
	assert.InDelta(t, 30.0, report.Interest, 1e-9)
	// Fees accrued on dropped rows still count
	assert.Equal(t, "14.70", report.Premiums.StringFixed(2))
}

func TestAnalyzeHolding_FirstDataYearIsDropped(t *testing.T) {
	quotes := []domain.Quote{
		{Date: day(2020, time.March, 1), Bid: 9, Offer: 10},
		{Date: day(2020, time.June, 1), Bid: 11, Offer: 12},
		{Date: day(2021, time.June, 1), Bid: 12, Offer: 13},
	}
	params := Params{
		Holding:     domain.Holding{Units: 1, Date: day(2020, time.March, 1)},
		Fees:        defaultFees(),
		Multipliers: inflation.UK().Multipliers(quotes[0].Date.Year()),
	}

	report, err := AnalyzeHolding(quotes, params)
	require.NoError(t, err)

	assert.Equal(t, []int{2020}, report.SkippedYears)
	require.Len(t, report.Series, 1)
	assert.Equal(t, day(2021, time.June, 1), report.WindowStart)
	assert.Equal(t, day(2021, time.June, 1), report.WindowEnd)
	assert.InDelta(t, 2.0, report.Interest, 1e-9)
	assert.InDelta(t, 12/1.0252, report.Series[0].SellCorrected, 1e-9)
	// A single remaining quote spans no time
	assert.True(t, math.IsNaN(report.InterestRate))
	assert.True(t, math.IsNaN(report.CorrectedInterestRateFees))
}

func TestAnalyzeHolding_ZeroUnitsHasUndefinedRates(t *testing.T) {
	params := Params{
		Holding:     domain.Holding{Units: 0, Date: day(2020, time.December, 1)},
		Fees:        defaultFees(),
		Multipliers: map[int]float64{2020: 1, 2021: 1, 2022: 1},
	}

	report, err := AnalyzeHolding(testQuotes(), params)
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.BuyPrice)
	assert.True(t, math.IsNaN(report.InterestRate))
	assert.True(t, math.IsNaN(report.CorrectedInterestRateFees))
	// Flat fee still accrues on a zero value holding
	assert.Equal(t, "12.00", report.Premiums.StringFixed(2))
	assert.InDelta(t, -12.0, report.Series[3].SellFees, 1e-9)
}

func TestAnalyzeHolding_SinglePointHasUndefinedRates(t *testing.T) {
	params := Params{
		Holding:     domain.Holding{Units: 1, Date: day(2021, time.June, 1)},
		Fees:        defaultFees(),
		Multipliers: map[int]float64{2020: 1, 2021: 1, 2022: 1},
	}

	report, err := AnalyzeHolding(testQuotes(), params)
	require.NoError(t, err)

	require.Len(t, report.Series, 1)
	assert.InDelta(t, 0.0, report.Interest, 1e-9) // bought at 15, sold at 15
	assert.True(t, math.IsNaN(report.InterestRate))
}

func TestAnalyzeHolding_Errors(t *testing.T) {
	fullTable := map[int]float64{2020: 1, 2021: 1, 2022: 1}
	tests := []struct {
		name    string
		quotes  []domain.Quote
		params  Params
		wantErr error
	}{
		{
			name:    "no quotes",
			quotes:  nil,
			params:  Params{Multipliers: fullTable},
			wantErr: ports.ErrNoQuotes,
		},
		{
			name:    "holding date before history",
			quotes:  testQuotes(),
			params:  Params{Holding: domain.Holding{Units: 1, Date: day(2019, time.January, 1)}, Multipliers: fullTable},
			wantErr: ports.ErrNoQuoteBeforeDate,
		},
		{
			name:    "holding date after history",
			quotes:  testQuotes(),
			params:  Params{Holding: domain.Holding{Units: 1, Date: day(2023, time.January, 1)}, Multipliers: fullTable},
			wantErr: ports.ErrEmptyWindow,
		},
		{
			name:    "no multipliers for window",
			quotes:  testQuotes(),
			params:  Params{Holding: domain.Holding{Units: 1, Date: day(2020, time.June, 1)}, Multipliers: map[int]float64{2019: 1}},
			wantErr: ports.ErrEmptyWindow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.params.Fees = defaultFees()
			report, err := AnalyzeHolding(tt.quotes, tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, report)
		})
	}
}
