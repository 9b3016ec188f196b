package app

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"fundTools/internal/domain"
)

// FormatRate renders an annual rate as a percentage with two decimals, or n/a.
func FormatRate(rate float64) string {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", rate*100)
}

// WriteReport prints the statistics of a holding report.
func WriteReport(w io.Writer, r *domain.Report) error {
	_, err := fmt.Fprintf(w,
		"Premiums paid to date: %s\n"+
			"Interest accrued: %.2f\n"+
			"Corrected interest accrued: %.2f\n"+
			"Interest rate: %s\n"+
			"Interest rate (fees): %s\n"+
			"Corrected interest rate: %s\n"+
			"Corrected interest rate (fees): %s\n",
		r.Premiums.StringFixed(2),
		r.Interest,
		r.CorrectedInterest,
		FormatRate(r.InterestRate),
		FormatRate(r.InterestRateFees),
		FormatRate(r.CorrectedInterestRate),
		FormatRate(r.CorrectedInterestRateFees),
	)
	return err
}

// WriteArchivedReport prints the run details of an archived report followed by its statistics.
func WriteArchivedReport(w io.Writer, r *domain.Report) error {
	_, err := fmt.Fprintf(w,
		"Run: %s\n"+
			"Created: %s\n"+
			"Input: %s\n"+
			"Holding: %g units bought %s at %.2f\n"+
			"Window: %s to %s\n",
		r.RunID,
		r.CreatedAt.Local().Format(time.DateTime),
		r.InputPath,
		r.Units,
		r.PurchaseDate.Format(time.DateOnly),
		r.BuyPrice,
		r.WindowStart.Format(time.DateOnly),
		r.WindowEnd.Format(time.DateOnly),
	)
	if err != nil {
		return err
	}
	return WriteReport(w, r)
}

// WriteHistory prints archived reports as an aligned table.
func WriteHistory(w io.Writer, reports []*domain.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Run\tCreated\tInput\tUnits\tBought\tBuy Price\tPremiums\tInterest\tRate\tRate (fees)\tCorrected\tCorrected (fees)")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\t%.2f\t%s\t%.2f\t%s\t%s\t%s\t%s\n",
			shortID(r.RunID),
			r.CreatedAt.Local().Format(time.DateTime),
			r.InputPath,
			r.Units,
			r.PurchaseDate.Format(time.DateOnly),
			r.BuyPrice,
			r.Premiums.StringFixed(2),
			r.Interest,
			FormatRate(r.InterestRate),
			FormatRate(r.InterestRateFees),
			FormatRate(r.CorrectedInterestRate),
			FormatRate(r.CorrectedInterestRateFees),
		)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
