package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"fundTools/internal/domain"
	"fundTools/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.ReportRepository interface using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/reports.db" // Default path
	}

	if dbPath != ":memory:" {
		// Create data directory if it doesn't exist
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
			cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %v: %w", dbPath, err, ports.ErrDBConnection)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %v: %w", dbPath, err, ports.ErrDBConnection)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// A single connection keeps ":memory:" databases alive and serialises writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	cfg.Logger.Debug(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS holding_reports (
		run_id TEXT PRIMARY KEY,
		input_path TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		units REAL NOT NULL,
		holding_date TIMESTAMP NOT NULL,
		purchase_date TIMESTAMP NOT NULL,
		buy_price REAL NOT NULL,
		premiums TEXT NOT NULL, -- decimal, kept exact
		interest REAL NOT NULL,
		corrected_interest REAL NOT NULL,
		interest_rate REAL NULL, -- NULL when undefined
		interest_rate_fees REAL NULL,
		corrected_interest_rate REAL NULL,
		corrected_interest_rate_fees REAL NULL,
		window_start TIMESTAMP NOT NULL,
		window_end TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_holding_reports_created_at ON holding_reports (created_at);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Debug(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// Save stores a report under its RunID.
func (r *Repository) Save(ctx context.Context, report *domain.Report) error {
	if report.RunID == "" {
		return fmt.Errorf("report has no run ID: %w", ports.ErrInvalidRequest)
	}

	const query = `
	INSERT INTO holding_reports (run_id, input_path, created_at, units, holding_date, purchase_date,
	                             buy_price, premiums, interest, corrected_interest,
	                             interest_rate, interest_rate_fees, corrected_interest_rate, corrected_interest_rate_fees,
	                             window_start, window_end)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		report.RunID, report.InputPath, report.CreatedAt, report.Units, report.HoldingDate, report.PurchaseDate,
		report.BuyPrice, report.Premiums, report.Interest, report.CorrectedInterest,
		nullRate(report.InterestRate), nullRate(report.InterestRateFees),
		nullRate(report.CorrectedInterestRate), nullRate(report.CorrectedInterestRateFees),
		report.WindowStart, report.WindowEnd)
	if err != nil {
		return fmt.Errorf("failed to insert report %s: %v: %w", report.RunID, err, ports.ErrQueryFailed)
	}
	r.logger.Debug(ctx, "Report saved", map[string]interface{}{"runID": report.RunID})
	return nil
}

const selectReports = `
	SELECT run_id, input_path, created_at, units, holding_date, purchase_date,
	       buy_price, premiums, interest, corrected_interest,
	       interest_rate, interest_rate_fees, corrected_interest_rate, corrected_interest_rate_fees,
	       window_start, window_end
	FROM holding_reports`

// Recent retrieves the most recently created reports, newest first, up to a limit.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*domain.Report, error) {
	rows, err := r.db.QueryContext(ctx, selectReports+` ORDER BY created_at DESC, run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %v: %w", err, ports.ErrQueryFailed)
	}
	defer rows.Close()

	reports := make([]*domain.Report, 0)
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report during Recent: %w", err)
		}
		reports = append(reports, report)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", err)
	}
	return reports, nil
}

// FindByID retrieves a report by its run ID.
func (r *Repository) FindByID(ctx context.Context, runID string) (*domain.Report, error) {
	row := r.db.QueryRowContext(ctx, selectReports+` WHERE run_id = ?`, runID)
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Debug(ctx, "Report not found by ID", map[string]interface{}{"runID": runID})
			return nil, nil // Not an error, just not found
		}
		return nil, fmt.Errorf("failed to query report %s: %w", runID, err)
	}
	return report, nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(s scanner) (*domain.Report, error) {
	rep := &domain.Report{}
	var rate, rateFees, corrected, correctedFees sql.NullFloat64
	err := s.Scan(
		&rep.RunID, &rep.InputPath, &rep.CreatedAt, &rep.Units, &rep.HoldingDate, &rep.PurchaseDate,
		&rep.BuyPrice, &rep.Premiums, &rep.Interest, &rep.CorrectedInterest,
		&rate, &rateFees, &corrected, &correctedFees,
		&rep.WindowStart, &rep.WindowEnd)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	rep.InterestRate = rateValue(rate)
	rep.InterestRateFees = rateValue(rateFees)
	rep.CorrectedInterestRate = rateValue(corrected)
	rep.CorrectedInterestRateFees = rateValue(correctedFees)
	rep.CreatedAt = rep.CreatedAt.UTC()
	return rep, nil
}

func nullRate(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func rateValue(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
