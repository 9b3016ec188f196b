package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"fundTools/internal/domain"
	"fundTools/internal/ports"
)

// WriteRowsToCSV writes rows to filename, replacing any existing file.
func WriteRowsToCSV(rows [][]string, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteRows(file, rows); err != nil {
		return err
	}
	return file.Close()
}

// WriteRows writes rows as CSV records terminated by CRLF.
func WriteRows(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadQuotesFromCSV loads a price history file. See ParseQuotes.
func ReadQuotesFromCSV(filename string, layouts []string) ([]domain.Quote, int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	return ParseQuotes(file, layouts)
}

// ParseQuotes reads a CSV with Bid Price, Offer Price and Date columns and returns
// the quotes sorted by date. Rows with a blank price are skipped and counted.
func ParseQuotes(r io.Reader, layouts []string) ([]domain.Quote, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, 0, ports.ErrNoQuotes
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	idx := make(map[string]int, 3)
	for _, name := range []string{domain.HeaderBid, domain.HeaderOffer, domain.HeaderDate} {
		i, ok := cols[name]
		if !ok {
			return nil, 0, fmt.Errorf("column %q: %w", name, ports.ErrMissingColumn)
		}
		idx[name] = i
	}

	var quotes []domain.Quote
	skipped := 0
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read row %d: %w", line, err)
		}

		field := func(name string) string {
			if i := idx[name]; i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		bidStr, offerStr := field(domain.HeaderBid), field(domain.HeaderOffer)
		if bidStr == "" || offerStr == "" {
			skipped++
			continue
		}

		date, err := ParseDate(field(domain.HeaderDate), layouts)
		if err != nil {
			return nil, 0, fmt.Errorf("row %d: %w", line, err)
		}
		bid, err := ParsePrice(bidStr)
		if err != nil {
			return nil, 0, fmt.Errorf("row %d %s: %w", line, domain.HeaderBid, err)
		}
		offer, err := ParsePrice(offerStr)
		if err != nil {
			return nil, 0, fmt.Errorf("row %d %s: %w", line, domain.HeaderOffer, err)
		}

		quotes = append(quotes, domain.Quote{Date: date, Bid: bid, Offer: offer})
	}

	if len(quotes) == 0 {
		return nil, skipped, ports.ErrNoQuotes
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		return quotes[i].Date.Before(quotes[j].Date)
	})
	return quotes, skipped, nil
}

// ParseDate tries each layout in turn.
func ParseDate(value string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q: %w", value, ports.ErrInvalidRequest)
}

// ParsePrice parses a decimal price, tolerating thousands separators.
func ParsePrice(value string) (float64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(value, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("unparsable price %q: %w", value, ports.ErrInvalidRequest)
	}
	return d.InexactFloat64(), nil
}
