package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fundTools/config"
	"fundTools/internal/analysis/inflation"
	"fundTools/internal/analysis/returns"
	"fundTools/internal/domain"
	"fundTools/internal/ports"
	"fundTools/internal/utils"
)

// AnalyzeRequest describes one run of the holding analysis.
type AnalyzeRequest struct {
	InputPath string
	// Holding is optional; nil means zero units on 1 January of the inflation table's last year.
	Holding   *domain.Holding
	ChartPath string // Empty skips the chart
	Record    bool   // Archive the report
}

// HoldingAnalyzer orchestrates loading a price history, computing returns,
// drawing the chart and archiving the report.
type HoldingAnalyzer struct {
	cfg       *config.Config
	logger    ports.Logger
	inflation *inflation.Table
	chart     ports.ChartRenderer
	reports   ports.ReportRepository // Optional; required only for recorded runs

	now func() time.Time
}

// NewHoldingAnalyzer creates a new application service instance.
func NewHoldingAnalyzer(
	cfg *config.Config,
	logger ports.Logger,
	table *inflation.Table,
	chart ports.ChartRenderer,
	reports ports.ReportRepository,
) (*HoldingAnalyzer, error) {
	if cfg == nil || logger == nil || table == nil || chart == nil {
		return nil, fmt.Errorf("missing required dependencies for HoldingAnalyzer")
	}
	if len(table.Years()) == 0 {
		return nil, fmt.Errorf("inflation table is empty: %w", ports.ErrConfigurationError)
	}
	if len(cfg.DateLayouts) == 0 {
		return nil, fmt.Errorf("no date layouts configured: %w", ports.ErrConfigurationError)
	}

	return &HoldingAnalyzer{
		cfg:       cfg,
		logger:    logger,
		inflation: table,
		chart:     chart,
		reports:   reports,
		now:       time.Now,
	}, nil
}

// DefaultHolding is used when no units/date are given.
func (a *HoldingAnalyzer) DefaultHolding() domain.Holding {
	return domain.Holding{
		Units: 0,
		Date:  time.Date(a.inflation.LastYear(), time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Analyze runs the full analysis for req.
func (a *HoldingAnalyzer) Analyze(ctx context.Context, req AnalyzeRequest) (*domain.Report, error) {
	if req.Record && a.reports == nil {
		return nil, fmt.Errorf("report archive is not configured: %w", ports.ErrConfigurationError)
	}

	holding := a.DefaultHolding()
	if req.Holding != nil {
		holding = *req.Holding
	}

	quotes, skipped, err := utils.ReadQuotesFromCSV(req.InputPath, a.cfg.DateLayouts)
	if err != nil {
		a.logger.Error(ctx, err, "Failed to load price history", map[string]interface{}{"input": req.InputPath})
		return nil, fmt.Errorf("failed to load price history from '%s': %w", req.InputPath, err)
	}
	fields := map[string]interface{}{"input": req.InputPath, "quotes": len(quotes)}
	if skipped > 0 {
		fields["skipped"] = skipped
		a.logger.Warn(ctx, "Skipped rows with blank prices", fields)
	} else {
		a.logger.Debug(ctx, "Price history loaded", fields)
	}

	report, err := returns.AnalyzeHolding(quotes, returns.Params{
		Holding: holding,
		Fees: domain.FeeSchedule{
			Rate: decimal.NewFromFloat(a.cfg.AnnualFeeRate),
			Flat: decimal.NewFromFloat(a.cfg.AnnualFlatFee),
		},
		Multipliers: a.inflation.Multipliers(quotes[0].Date.Year()),
	})
	if err != nil {
		a.logger.Error(ctx, err, "Holding analysis failed", map[string]interface{}{
			"units": holding.Units,
			"date":  holding.Date.Format(time.DateOnly),
		})
		return nil, fmt.Errorf("failed to analyze holding: %w", err)
	}
	if len(report.SkippedYears) > 0 {
		a.logger.Warn(ctx, "Dropped quotes from years without an inflation multiplier", map[string]interface{}{
			"years":     report.SkippedYears,
			"firstYear": quotes[0].Date.Year(),
			"tableLast": a.inflation.LastYear(),
		})
	}

	report.RunID = uuid.NewString()
	report.InputPath = req.InputPath
	report.CreatedAt = a.now().UTC()

	if req.ChartPath != "" {
		if err := a.chart.Render(ctx, report, req.ChartPath); err != nil {
			a.logger.Error(ctx, err, "Failed to render chart", map[string]interface{}{"path": req.ChartPath})
			return nil, fmt.Errorf("failed to render chart: %w", err)
		}
		a.logger.Info(ctx, "Chart written", map[string]interface{}{"path": req.ChartPath})
	}

	if req.Record {
		if err := a.reports.Save(ctx, report); err != nil {
			a.logger.Error(ctx, err, "Failed to archive report", map[string]interface{}{"runID": report.RunID})
			return nil, fmt.Errorf("failed to archive report: %w", err)
		}
		a.logger.Info(ctx, "Report archived", map[string]interface{}{"runID": report.RunID})
	}

	return report, nil
}

// History returns the most recent archived reports.
func (a *HoldingAnalyzer) History(ctx context.Context, limit int) ([]*domain.Report, error) {
	if a.reports == nil {
		return nil, fmt.Errorf("report archive is not configured: %w", ports.ErrConfigurationError)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive: %w", ports.ErrInvalidRequest)
	}
	return a.reports.Recent(ctx, limit)
}

// Report returns the archived report with the given run ID.
func (a *HoldingAnalyzer) Report(ctx context.Context, runID string) (*domain.Report, error) {
	if a.reports == nil {
		return nil, fmt.Errorf("report archive is not configured: %w", ports.ErrConfigurationError)
	}
	if runID == "" {
		return nil, fmt.Errorf("run ID is required: %w", ports.ErrInvalidRequest)
	}
	report, err := a.reports.FindByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load report %s: %w", runID, err)
	}
	if report == nil {
		return nil, fmt.Errorf("report %s: %w", runID, ports.ErrNotFound)
	}
	return report, nil
}
