// Package figures builds the plotly figure documents the dashboard page
// draws. The documents are plain JSON so the browser only has to call
// Plotly.react with them.
package figures

import (
	"fmt"

	"dairy-dashboard/models"
)

// Fixed axes shared with the PNG renderer.
const (
	ColorMin = 26.0
	ColorMax = 38.0

	SeriesYearMin = 2005
	SeriesYearMax = 2024

	NoSelectionTitle = "No country selected"
	Template         = "plotly_dark"
)

type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace covers the two trace kinds used here; unused fields are omitted.
// A nil entry in Z or Y is a missing price: plotly leaves the country
// uncolored and breaks the line there.
type Trace struct {
	Type          string     `json:"type"`
	Mode          string     `json:"mode,omitempty"`
	Name          string     `json:"name,omitempty"`
	Locations     []string   `json:"locations,omitempty"`
	Z             []*float64 `json:"z,omitempty"`
	ZMin          *float64   `json:"zmin,omitempty"`
	ZMax          *float64   `json:"zmax,omitempty"`
	ColorScale    string     `json:"colorscale,omitempty"`
	ColorBar      *ColorBar  `json:"colorbar,omitempty"`
	X             []int      `json:"x,omitempty"`
	Y             []*float64 `json:"y,omitempty"`
	CustomData    [][]any    `json:"customdata,omitempty"`
	HoverTemplate string     `json:"hovertemplate,omitempty"`
}

type ColorBar struct {
	Title Title `json:"title"`
}

type Layout struct {
	Template string `json:"template"`
	Title    *Title `json:"title,omitempty"`
	Geo      *Geo   `json:"geo,omitempty"`
	XAxis    *Axis  `json:"xaxis,omitempty"`
	YAxis    *Axis  `json:"yaxis,omitempty"`
}

type Title struct {
	Text    string  `json:"text"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	XAnchor string  `json:"xanchor,omitempty"`
	YAnchor string  `json:"yanchor,omitempty"`
}

type Geo struct {
	Scope string `json:"scope"`
}

type Axis struct {
	Title Title     `json:"title"`
	Range []float64 `json:"range,omitempty"`
}

// MapFigure colors each country of records by its price. Hover data carries
// [country, cluster] so the page can feed it back into the series query.
func MapFigure(records []models.PriceRecord) Figure {
	zmin, zmax := ColorMin, ColorMax
	trace := Trace{
		Type:          "choropleth",
		Locations:     make([]string, 0, len(records)),
		Z:             make([]*float64, 0, len(records)),
		CustomData:    make([][]any, 0, len(records)),
		ZMin:          &zmin,
		ZMax:          &zmax,
		ColorScale:    "Viridis",
		ColorBar:      &ColorBar{Title: Title{Text: "Price"}},
		HoverTemplate: "country_3=%{customdata[0]}<br>Price=%{z}<extra></extra>",
	}
	for _, r := range records {
		trace.Locations = append(trace.Locations, r.CountryCode)
		trace.Z = append(trace.Z, r.PricePtr())
		trace.CustomData = append(trace.CustomData, []any{r.CountryCode, r.Cluster})
	}

	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Template: Template,
			Geo:      &Geo{Scope: "europe"},
		},
	}
}

// SeriesFigure draws price against year for one country. An empty country
// means nothing is hovered.
func SeriesFigure(country string, records []models.PriceRecord) Figure {
	trace := Trace{
		Type: "scatter",
		Mode: "lines",
		Name: country,
		X:    make([]int, 0, len(records)),
		Y:    make([]*float64, 0, len(records)),
	}
	for _, r := range records {
		trace.X = append(trace.X, r.Year)
		trace.Y = append(trace.Y, r.PricePtr())
	}

	title := country
	if title == "" {
		title = NoSelectionTitle
	}

	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Template: Template,
			Title: &Title{
				Text:    title,
				X:       0.5,
				Y:       0.9,
				XAnchor: "center",
				YAnchor: "top",
			},
			XAxis: &Axis{Title: Title{Text: "Timestamp"}, Range: []float64{SeriesYearMin, SeriesYearMax}},
			YAxis: &Axis{Title: Title{Text: "Price"}},
		},
	}
}

// ClusterMessage is the text line shown under the cluster selector.
func ClusterMessage(cluster int) string {
	return fmt.Sprintf("The cluster chosen by user was: %d", cluster)
}
