package chart

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgimg" // png, jpg, tiff
	_ "gonum.org/v1/plot/vg/vgpdf" // pdf
	_ "gonum.org/v1/plot/vg/vgsvg" // svg

	"fundTools/internal/domain"
	"fundTools/internal/ports"
)

var (
	marketColumns = []domain.SeriesColumn{
		domain.ColumnBid,
		domain.ColumnOffer,
		domain.ColumnBidCorrected,
		domain.ColumnOfferCorrected,
	}
	holdingColumns = []domain.SeriesColumn{
		domain.ColumnSell,
		domain.ColumnSellFees,
		domain.ColumnSellCorrected,
		domain.ColumnSellFeesCorrected,
	}
)

// Config holds configuration for the chart renderer.
type Config struct {
	Width  vg.Length
	Height vg.Length
	Logger ports.Logger
}

// Renderer draws the market and holding panels of a report, one above the other.
type Renderer struct {
	width  vg.Length
	height vg.Length
	logger ports.Logger
}

// NewRenderer creates a renderer.
func NewRenderer(cfg Config) (*Renderer, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for chart renderer")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("chart size must be positive, got %vx%v", cfg.Width, cfg.Height)
	}
	return &Renderer{width: cfg.Width, height: cfg.Height, logger: cfg.Logger}, nil
}

// Render writes the chart to path. The image format follows the extension.
func (r *Renderer) Render(ctx context.Context, report *domain.Report, path string) error {
	if len(report.Series) == 0 {
		return ports.ErrEmptyWindow
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		return fmt.Errorf("chart path '%s' has no extension: %w", path, ports.ErrInvalidRequest)
	}

	market, err := panel("Market", marketColumns, report.Series)
	if err != nil {
		return err
	}
	holding, err := panel("Held value", holdingColumns, report.Series)
	if err != nil {
		return err
	}
	market.X.Label.Text = ""

	buy := plotter.NewFunction(func(float64) float64 { return report.BuyPrice })
	buy.Color = color.Black
	buy.Width = vg.Points(1)
	buy.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
	holding.Add(buy)
	holding.Legend.Add("Buy price", buy)
	if report.BuyPrice < holding.Y.Min {
		holding.Y.Min = report.BuyPrice
	}
	if report.BuyPrice > holding.Y.Max {
		holding.Y.Max = report.BuyPrice
	}

	// Shared x axis
	xMin := math.Min(market.X.Min, holding.X.Min)
	xMax := math.Max(market.X.Max, holding.X.Max)
	for _, p := range []*plot.Plot{market, holding} {
		p.X.Min, p.X.Max = xMin, xMax
	}

	canvas, err := draw.NewFormattedCanvas(r.width, r.height, format)
	if err != nil {
		return fmt.Errorf("unsupported chart format %q: %w", format, err)
	}
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      1,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
		PadY:      vg.Millimeter * 4,
	}
	plots := [][]*plot.Plot{{market}, {holding}}
	canvases := plot.Align(plots, tiles, draw.New(canvas))
	market.Draw(canvases[0][0])
	holding.Draw(canvases[1][0])

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file '%s': %w", path, err)
	}
	defer f.Close()
	if _, err := canvas.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write chart '%s': %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close chart '%s': %w", path, err)
	}

	r.logger.Debug(ctx, "Chart rendered", map[string]interface{}{"path": path, "points": len(report.Series)})
	return nil
}

// panel builds a time series plot with one line per column.
func panel(title string, cols []domain.SeriesColumn, series []domain.ValuePoint) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	for i, col := range cols {
		xys := make(plotter.XYs, len(series))
		for j, pt := range series {
			xys[j].X = float64(pt.Date.Unix())
			xys[j].Y = pt.Value(col)
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("failed to plot %s: %w", col, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(string(col), line)
	}
	return p, nil
}
