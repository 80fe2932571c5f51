// Package chart renders the download history as a PNG line chart.
package chart

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/grazulex/packagist-stats/internal/history"
	"github.com/grazulex/packagist-stats/internal/models"
)

// Image size of the rendered chart.
const (
	Width  = 10 * vg.Inch
	Height = 5 * vg.Inch
)

// maxTickLabels bounds how many date labels are drawn on the X axis.
const maxTickLabels = 30

// ErrNoData is returned when asked to render an empty series.
var ErrNoData = errors.New("no data to plot")

// Title returns the chart title for vendor/pkg.
func Title(vendor, pkg string) string {
	return fmt.Sprintf("Total Downloads: %s/%s", vendor, pkg)
}

// Points converts s into plot coordinates: X is the index of the date in the
// series, Y is the total.
func Points(s models.Series) plotter.XYs {
	pts := make(plotter.XYs, s.Len())
	for i := range s.Dates {
		pts[i].X = float64(i)
		pts[i].Y = s.Totals[i]
	}
	return pts
}

// Build assembles a line-and-marker plot of s with a grid and rotated date labels.
func Build(s models.Series, title string) (*plot.Plot, error) {
	if s.Len() == 0 {
		return nil, ErrNoData
	}
	if len(s.Totals) != s.Len() {
		return nil, fmt.Errorf("series has %d dates but %d totals", s.Len(), len(s.Totals))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Total Downloads"

	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(Points(s))
	if err != nil {
		return nil, fmt.Errorf("failed to build series: %w", err)
	}
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)

	p.X.Tick.Marker = plot.ConstantTicks(dateTicks(s.Dates))
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.X.Tick.Label.YAlign = text.YCenter

	return p, nil
}

// Render draws s and saves it as a PNG at path, overwriting any previous image.
func Render(path string, s models.Series, title string) error {
	p, err := Build(s, title)
	if err != nil {
		return err
	}

	if err := history.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

// dateTicks labels each point with its date, thinning labels on long series.
func dateTicks(dates []string) []plot.Tick {
	step := 1
	if len(dates) > maxTickLabels {
		step = int(math.Ceil(float64(len(dates)) / maxTickLabels))
	}

	last := len(dates) - 1
	ticks := make([]plot.Tick, len(dates))
	for i, d := range dates {
		ticks[i] = plot.Tick{Value: float64(i)}
		// The last date is always labelled; drop a step label that would crowd it.
		if (i%step == 0 && last-i >= step) || i == last {
			ticks[i].Label = d
		}
	}
	return ticks
}
