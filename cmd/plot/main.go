package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"fundTools/config"
	"fundTools/internal/adapters/chart"
	"fundTools/internal/adapters/logger"
	"fundTools/internal/adapters/sqlite"
	"fundTools/internal/analysis/inflation"
	"fundTools/internal/app"
	"fundTools/internal/domain"
	"fundTools/internal/ports"
)

// holdingDateLayout accepts DD/MM/YYYY with or without zero padding.
const holdingDateLayout = "2/1/2006"

// usageError marks argument errors, reported with exit status 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	executed, err := cmd.ExecuteC()
	if err != nil {
		var uerr usageError
		if errors.As(err, &uerr) {
			fmt.Fprintf(stderr, "%s\nerror: %v\n", executed.UseLine(), err)
			return 2
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// runtimeDeps bundles what both sub-commands build from the configuration.
type runtimeDeps struct {
	cfg      *config.Config
	analyzer *app.HoldingAnalyzer
	close    func()
}

// setup builds the analyzer. The report archive is opened when openArchive
// is set or RECORD_REPORTS is enabled.
func setup(openArchive bool) (*runtimeDeps, error) {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// 2. Initialize Logger
	appLogger := logger.NewZeroLogger(cfg.LogLevel)
	ctx := context.Background()

	// 3. Inflation table
	table := inflation.UK()
	if cfg.InflationTablePath != "" {
		table, err = inflation.LoadYAML(cfg.InflationTablePath)
		if err != nil {
			return nil, err
		}
		appLogger.Debug(ctx, "Loaded inflation table", map[string]interface{}{
			"path":   cfg.InflationTablePath,
			"source": table.Source,
		})
	}

	// 4. Chart renderer
	renderer, err := chart.NewRenderer(chart.Config{
		Width:  vg.Length(cfg.ChartWidthCM) * vg.Centimeter,
		Height: vg.Length(cfg.ChartHeightCM) * vg.Centimeter,
		Logger: appLogger,
	})
	if err != nil {
		return nil, err
	}

	// 5. Report archive, opened only when needed
	deps := &runtimeDeps{cfg: cfg, close: func() {}}
	var reports ports.ReportRepository
	if openArchive || cfg.RecordReports {
		repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.ReportDBPath, Logger: appLogger})
		if err != nil {
			return nil, err
		}
		reports = repo
		deps.close = func() {
			if err := repo.Close(); err != nil {
				appLogger.Error(ctx, err, "Error closing report archive")
			}
		}
	}

	deps.analyzer, err = app.NewHoldingAnalyzer(cfg, appLogger, table, renderer, reports)
	if err != nil {
		deps.close()
		return nil, err
	}
	return deps, nil
}

func newRootCmd() *cobra.Command {
	var (
		units     float64
		dateStr   string
		chartPath string
		record    bool
	)

	cmd := &cobra.Command{
		Use:   "plot input_path",
		Short: "Analyse a fund holding",
		Long: "Analyse the return of a fund holding against a CSV price history with\n" +
			"Bid Price, Offer Price and Date columns, after annual fees and inflation.\n" +
			"Without --units and --date, zero units bought on 1 January of the last\n" +
			"year of the inflation table are assumed.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError{fmt.Errorf("expected exactly one input path, got %d", len(args))}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("units") != flags.Changed("date") {
				return usageError{errors.New("if units or date are specified, both must be specified")}
			}

			var holding *domain.Holding
			if flags.Changed("date") {
				date, err := time.Parse(holdingDateLayout, dateStr)
				if err != nil {
					return usageError{fmt.Errorf("invalid --date %q, expected DD/MM/YYYY", dateStr)}
				}
				holding = &domain.Holding{Units: units, Date: date}
			}

			deps, err := setup(record)
			if err != nil {
				return err
			}
			defer deps.close()

			if !flags.Changed("chart") {
				chartPath = deps.cfg.ChartPath
			}

			report, err := deps.analyzer.Analyze(context.Background(), app.AnalyzeRequest{
				InputPath: args[0],
				Holding:   holding,
				ChartPath: chartPath,
				Record:    record || deps.cfg.RecordReports,
			})
			if err != nil {
				return err
			}
			return app.WriteReport(cmd.OutOrStdout(), report)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	flags := cmd.Flags()
	flags.Float64VarP(&units, "units", "u", 0, "Number of units held")
	flags.StringVarP(&dateStr, "date", "d", "", "Date of purchase (DD/MM/YYYY)")
	flags.StringVar(&chartPath, "chart", "", "Chart output path; .png, .svg or .pdf. Defaults to CHART_PATH, empty disables the chart")
	flags.BoolVar(&record, "record", false, "Archive the report in the SQLite database at REPORT_DB_PATH")

	cmd.AddCommand(newHistoryCmd())
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [run_id]",
		Short: "List archived reports, newest first, or show one by run ID",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageError{fmt.Errorf("history takes at most one run ID, got %d arguments", len(args))}
			}
			if limit <= 0 {
				return usageError{fmt.Errorf("--limit must be positive, got %d", limit)}
			}
			return nil
		},
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := setup(true)
			if err != nil {
				return err
			}
			defer deps.close()
			ctx := context.Background()

			if len(args) == 1 {
				report, err := deps.analyzer.Report(ctx, args[0])
				if err != nil {
					return err
				}
				return app.WriteArchivedReport(cmd.OutOrStdout(), report)
			}

			reports, err := deps.analyzer.History(ctx, limit)
			if err != nil {
				return err
			}
			return app.WriteHistory(cmd.OutOrStdout(), reports)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of reports to list")

	return cmd
}
