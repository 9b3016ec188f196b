package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"fundTools/internal/adapters/htmltable"
	"fundTools/internal/ports"
	"fundTools/internal/utils"
)

// ConvertResult summarises a table conversion.
type ConvertResult struct {
	OutputPath  string
	RowsWritten int
	RowsSkipped int // Title row plus blank rows
}

// TableConverter turns the first table of an HTML file into a CSV file.
type TableConverter struct {
	logger ports.Logger
}

// NewTableConverter creates a converter.
func NewTableConverter(logger ports.Logger) (*TableConverter, error) {
	if logger == nil {
		return nil, fmt.Errorf("missing required dependencies for TableConverter")
	}
	return &TableConverter{logger: logger}, nil
}

// DefaultOutputPath replaces the final extension of input with .csv.
func DefaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	if ext == "" || strings.HasSuffix(input, string(filepath.Separator)+ext) || input == ext {
		// Dotfiles like ".prices" have no extension
		return input + ".csv"
	}
	return strings.TrimSuffix(input, ext) + ".csv"
}

// DataRows drops the first (title) row and rows without any non-empty cell.
func DataRows(rows [][]string) (kept [][]string, skipped int) {
	if len(rows) == 0 {
		return nil, 0
	}
	skipped = 1
	for _, row := range rows[1:] {
		if isBlank(row) {
			skipped++
			continue
		}
		kept = append(kept, row)
	}
	return kept, skipped
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}

// Convert reads inputPath and writes the data rows of its first table to outputPath.
// An empty outputPath means DefaultOutputPath(inputPath).
func (c *TableConverter) Convert(ctx context.Context, inputPath, outputPath string) (*ConvertResult, error) {
	if outputPath == "" {
		outputPath = DefaultOutputPath(inputPath)
	}

	rows, err := htmltable.ReadFirstTableFile(inputPath)
	if err != nil {
		c.logger.Error(ctx, err, "Failed to read HTML table", map[string]interface{}{"input": inputPath})
		return nil, fmt.Errorf("failed to read table from '%s': %w", inputPath, err)
	}
	c.logger.Debug(ctx, "Table parsed", map[string]interface{}{"input": inputPath, "rows": len(rows)})

	kept, skipped := DataRows(rows)
	if err := utils.WriteRowsToCSV(kept, outputPath); err != nil {
		c.logger.Error(ctx, err, "Failed to write CSV", map[string]interface{}{"output": outputPath})
		return nil, fmt.Errorf("failed to write CSV to '%s': %w", outputPath, err)
	}

	res := &ConvertResult{OutputPath: outputPath, RowsWritten: len(kept), RowsSkipped: skipped}
	c.logger.Info(ctx, "Table converted", map[string]interface{}{
		"input":   inputPath,
		"output":  outputPath,
		"written": res.RowsWritten,
		"skipped": res.RowsSkipped,
	})
	return res, nil
}
