package ports

import (
	"context"

	"fundTools/internal/domain"
)

// ReportRepository defines the interface for archiving holding reports.
type ReportRepository interface {
	// Save stores a report under its RunID.
	Save(ctx context.Context, report *domain.Report) error
	// Recent retrieves the most recently created reports, newest first, up to a limit.
	// Series data is not archived, so returned reports carry none.
	Recent(ctx context.Context, limit int) ([]*domain.Report, error)
	// FindByID retrieves a report by its run ID.
	// Returns nil, nil if not found.
	FindByID(ctx context.Context, runID string) (*domain.Report, error)
}

// ChartRenderer draws a report's series to an image file.
type ChartRenderer interface {
	Render(ctx context.Context, report *domain.Report, path string) error
}
