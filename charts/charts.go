// Package charts renders the dashboard panels as PNG images with
// gonum/plot, for clients that cannot run the interactive page.
package charts

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"dairy-dashboard/dataset"
	"dairy-dashboard/figures"
	"dairy-dashboard/models"
)

const (
	Width  = 8 * vg.Inch
	Height = 5 * vg.Inch
)

var (
	lineColor = color.RGBA{R: 197, G: 219, B: 95, A: 255}
	barColor  = color.RGBA{R: 70, G: 130, B: 180, A: 255}
)

// RenderSeries draws price against year for one country. The X axis always
// spans the dashboard's year range; an empty series draws the axes only.
// Years without a price are left out of the line.
func RenderSeries(w io.Writer, country string, records []models.PriceRecord) error {
	p := plot.New()
	p.Title.Text = country
	if country == "" {
		p.Title.Text = figures.NoSelectionTitle
	}
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Timestamp"
	p.Y.Label.Text = "Price"
	p.Add(plotter.NewGrid())

	points := make(plotter.XYs, 0, len(records))
	for _, r := range records {
		if r.PriceMissing {
			continue
		}
		points = append(points, plotter.XY{X: float64(r.Year), Y: r.Price})
	}
	if len(points) > 0 {
		line, err := plotter.NewLine(points)
		if err != nil {
			return fmt.Errorf("series line: %w", err)
		}
		line.Color = lineColor
		line.Width = vg.Points(2)
		p.Add(line)
	} else {
		p.Y.Min, p.Y.Max = 0, 1
	}

	p.X.Min = figures.SeriesYearMin
	p.X.Max = figures.SeriesYearMax

	return save(p, w)
}

// RenderCluster draws one bar per country of the map subset. It is the
// static stand-in for the choropleth. A country without a price gets an
// empty bar.
func RenderCluster(w io.Writer, cluster int, records []models.PriceRecord) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s prices %d, cluster %d", dataset.MapProduct, dataset.MapYear, cluster)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "country_3"
	p.Y.Label.Text = "Price"

	p.Y.Min = 0
	p.Y.Max = figures.ColorMax

	if len(records) > 0 {
		values := make(plotter.Values, len(records))
		labels := make([]string, len(records))
		for i, r := range records {
			if !r.PriceMissing {
				values[i] = r.Price
			}
			labels[i] = r.CountryCode
			p.Y.Max = math.Max(p.Y.Max, r.Price)
		}
		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return fmt.Errorf("cluster bars: %w", err)
		}
		bars.Color = barColor
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.NominalX(labels...)
	}
	p.Add(plotter.NewGrid())

	return save(p, w)
}

func save(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("create png canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}
