// Package inflation turns annual inflation rates into per-year deflators.
package inflation

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"fundTools/internal/ports"
)

// Table holds annual inflation rates as fractions (0.0792 for 7.92%).
type Table struct {
	Source string
	rates  map[int]float64
	years  []int
}

// tableFile is the YAML layout of an override table. Rates are in percent.
type tableFile struct {
	Source string          `yaml:"source"`
	Rates  map[int]float64 `yaml:"rates"`
}

// New builds a table from percent rates keyed by year.
func New(percent map[int]float64) *Table {
	t := &Table{rates: make(map[int]float64, len(percent))}
	for year, pct := range percent {
		t.rates[year] = pct / 100
		t.years = append(t.years, year)
	}
	sort.Ints(t.years)
	return t
}

// UK returns the built-in UK table.
func UK() *Table {
	t := New(ukRates)
	t.Source = "https://www.worlddata.info/europe/united-kingdom/inflation-rates.php"
	return t
}

// LoadYAML reads an override table from path.
func LoadYAML(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read inflation table '%s': %w", path, err)
	}

	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse inflation table '%s': %v: %w", path, err, ports.ErrConfigurationError)
	}
	if len(f.Rates) == 0 {
		return nil, fmt.Errorf("inflation table '%s' has no rates: %w", path, ports.ErrConfigurationError)
	}
	for year, pct := range f.Rates {
		if pct <= -100 {
			return nil, fmt.Errorf("inflation table '%s': rate %.2f%% for %d is below -100%%: %w", path, pct, year, ports.ErrConfigurationError)
		}
	}

	t := New(f.Rates)
	t.Source = f.Source
	return t, nil
}

// Years returns the covered years in ascending order.
func (t *Table) Years() []int {
	return append([]int(nil), t.years...)
}

// LastYear returns the most recent year in the table, or 0 when empty.
func (t *Table) LastYear() int {
	if len(t.years) == 0 {
		return 0
	}
	return t.years[len(t.years)-1]
}

// Multipliers maps each year to the factor converting its nominal values into
// money of the year before firstYear, which maps to 1.0. Every year y after
// firstYear maps to the previous factor divided by (1 + rate[y]). firstYear
// itself and years outside the table have no entry.
func (t *Table) Multipliers(firstYear int) map[int]float64 {
	out := map[int]float64{firstYear - 1: 1.0}
	value := 1.0
	for _, year := range t.years {
		if year <= firstYear {
			continue
		}
		value /= 1 + t.rates[year]
		out[year] = value
	}
	return out
}
