package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fundTools/internal/adapters/logger"
	"fundTools/internal/adapters/sqlite"
)

const priceCSV = "Date,Bid Price,Offer Price,Fund\n" +
	"03/01/2022,15,16,Growth\n" +
	"01/06/2021,14,15,Growth\n" +
	"05/01/2021,12,13,Growth\n" +
	"04/01/2021,12,13,Growth\n" +
	"01/12/2020,10,11,Growth\n" +
	"01/06/2020,9,10,Growth\n"

// testEnv points every output of the command into a temp dir.
func testEnv(t *testing.T) (input, chartPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	input = filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(input, []byte(priceCSV), 0600))

	chartPath = filepath.Join(dir, "chart.png")
	dbPath = filepath.Join(dir, "data", "reports.db")
	t.Setenv("CHART_PATH", chartPath)
	t.Setenv("REPORT_DB_PATH", dbPath)
	t.Setenv("RECORD_REPORTS", "")
	t.Setenv("INFLATION_TABLE_PATH", "")
	t.Setenv("ANNUAL_FEE_RATE", "")
	t.Setenv("ANNUAL_FLAT_FEE", "")
	t.Setenv("LOG_LEVEL", "ERROR")
	return input, chartPath, dbPath
}

func TestRun_Holding(t *testing.T) {
	// --- Arrange ---
	input, chartPath, dbPath := testEnv(t)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	// --- Act ---
	code := run([]string{input, "-u", "10", "--date", "15/12/2020"}, stdout, stderr)

	// --- Assert ---
	require.Equal(t, 0, code, stderr.String())
	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "Premiums paid to date: 14.70", lines[0])
	assert.Equal(t, "Interest accrued: 40.00", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Corrected interest accrued: "))
	assert.True(t, strings.HasPrefix(lines[3], "Interest rate: "))
	assert.True(t, strings.HasSuffix(lines[6], "%"))

	info, err := os.Stat(chartPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "archive is only created for recorded runs")
}

func TestRun_UnpaddedDate(t *testing.T) {
	input, _, _ := testEnv(t)
	padded, unpadded := &bytes.Buffer{}, &bytes.Buffer{}

	require.Equal(t, 0, run([]string{input, "-u", "10", "-d", "01/12/2020", "--chart", ""}, padded, &bytes.Buffer{}))
	require.Equal(t, 0, run([]string{input, "-u", "10", "-d", "1/12/2020", "--chart", ""}, unpadded, &bytes.Buffer{}))

	assert.Equal(t, padded.String(), unpadded.String())
	assert.Contains(t, unpadded.String(), "Interest accrued: 40.00\n")
}

func TestRun_DefaultHolding(t *testing.T) {
	input, _, _ := testEnv(t)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	code := run([]string{input, "--chart", ""}, stdout, stderr)

	require.Equal(t, 0, code, stderr.String())
	// Zero units bought in 2022 only pay the flat fee once
	assert.Contains(t, stdout.String(), "Premiums paid to date: 6.00\n")
	assert.Contains(t, stdout.String(), "Interest rate: n/a\n")
}

func TestRun_ChartFlag(t *testing.T) {
	input, defaultChart, _ := testEnv(t)
	svg := filepath.Join(filepath.Dir(defaultChart), "chart.svg")

	code := run([]string{"--chart", svg, input, "-u", "1", "-d", "01/12/2020"}, &bytes.Buffer{}, &bytes.Buffer{})

	require.Equal(t, 0, code)
	_, err := os.Stat(svg)
	assert.NoError(t, err)
	_, err = os.Stat(defaultChart)
	assert.True(t, os.IsNotExist(err))
}

func TestRun_InflationOverride(t *testing.T) {
	input, _, _ := testEnv(t)
	table := filepath.Join(t.TempDir(), "inflation.yaml")
	require.NoError(t, os.WriteFile(table, []byte("source: test\nrates:\n  2020: 1.0\n  2021: 2.0\n"), 0600))
	t.Setenv("INFLATION_TABLE_PATH", table)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	// Without a 2022 rate the January 2022 quote is dropped, leaving 2021 quotes only
	code := run([]string{input, "-u", "10", "-d", "15/12/2020", "--chart", ""}, stdout, stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Interest accrued: 30.00\n")
}

func TestRun_RecordAndHistory(t *testing.T) {
	input, _, dbPath := testEnv(t)

	stderr := &bytes.Buffer{}
	code := run([]string{input, "-u", "10", "-d", "15/12/2020", "--chart", "", "--record"}, &bytes.Buffer{}, stderr)
	require.Equal(t, 0, code, stderr.String())
	_, err := os.Stat(dbPath)
	require.NoError(t, err)

	t.Setenv("RECORD_REPORTS", "true")
	code = run([]string{input, "--chart", ""}, &bytes.Buffer{}, stderr)
	require.Equal(t, 0, code, stderr.String())

	stdout := &bytes.Buffer{}
	code = run([]string{"history", "--limit", "5"}, stdout, stderr)
	require.Equal(t, 0, code, stderr.String())

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "Run"))
	assert.Contains(t, stdout.String(), "2020-12-01")
	assert.Contains(t, stdout.String(), "14.70")

	stdout.Reset()
	code = run([]string{"history", "--limit", "1"}, stdout, stderr)
	require.Equal(t, 0, code)
	assert.Len(t, strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n"), 2)

	// Show the first run in full
	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: dbPath, Logger: logger.NewZeroLogger(logger.LevelError)})
	require.NoError(t, err)
	recent, err := repo.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	require.Len(t, recent, 2)
	var runID string
	for _, r := range recent {
		if r.Units == 10 {
			runID = r.RunID
		}
	}
	require.NotEmpty(t, runID)

	stdout.Reset()
	code = run([]string{"history", runID}, stdout, stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.True(t, strings.HasPrefix(stdout.String(), "Run: "+runID+"\n"))
	assert.Contains(t, stdout.String(), "Holding: 10 units bought 2020-12-01 at 110.00\n")
	assert.Contains(t, stdout.String(), "Premiums paid to date: 14.70\n")

	stderr.Reset()
	code = run([]string{"history", "no-such-run"}, &bytes.Buffer{}, stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "not found")
}

func TestRun_Errors(t *testing.T) {
	input, _, _ := testEnv(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{"no arguments", nil, 2, "expected exactly one input path"},
		{"units without date", []string{input, "-u", "5"}, 2, "if units or date are specified, both must be specified"},
		{"date without units", []string{input, "-d", "01/01/2021"}, 2, "if units or date are specified, both must be specified"},
		{"invalid date", []string{input, "-u", "5", "-d", "2021-01-01"}, 2, "expected DD/MM/YYYY"},
		{"invalid units", []string{input, "-u", "five", "-d", "01/01/2021"}, 2, "invalid argument"},
		{"history with two run IDs", []string{"history", "a", "b"}, 2, "history takes at most one run ID"},
		{"history zero limit", []string{"history", "--limit", "0"}, 2, "--limit must be positive"},
		{"missing file", []string{input + ".missing", "--chart", ""}, 1, "no such file"},
		{"holding before history", []string{input, "-u", "1", "-d", "01/01/2019", "--chart", ""}, 1, "no quote on or before the holding date"},
		{"unsupported chart format", []string{input, "--chart", filepath.Join(t.TempDir(), "chart")}, 1, "error:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stderr := &bytes.Buffer{}
			code := run(tt.args, &bytes.Buffer{}, stderr)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr.String(), tt.wantErr)
		})
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	input, _, _ := testEnv(t)
	t.Setenv("ANNUAL_FEE_RATE", "1.5")
	stderr := &bytes.Buffer{}

	code := run([]string{input}, &bytes.Buffer{}, stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "ANNUAL_FEE_RATE")
}
