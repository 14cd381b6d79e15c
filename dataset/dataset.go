// Package dataset loads the dairy price CSV into an immutable gota data
// frame and answers the dashboard queries against it.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"dairy-dashboard/models"
)

// Column headers expected in the input file.
const (
	ColumnYear    = "Timestamp"
	ColumnProduct = "Product desc"
	ColumnCountry = "country_3"
	ColumnCluster = "cluster_cows"
	ColumnPrice   = "Price"
)

// Extra columns of the typed frame: the CSV index and the source position.
const (
	columnID  = "index"
	columnRow = "row"
)

var ErrMissingColumn = errors.New("missing column")

// Dataset holds every price record. gota frames are values and every
// operation returns a new frame, so a Dataset is never modified after Read
// returns and is safe to share between goroutines.
type Dataset struct {
	frame   dataframe.DataFrame
	missing int
}

// Load reads the CSV file at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return ds, nil
}

// Read parses a CSV stream. The first column is the row index; the others
// are located by header name. Rows with an empty or NaN price are kept and
// flagged with PriceMissing.
func Read(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty file: %w", ErrMissingColumn)
	}
	header := rows[0]
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", i+2, len(header), len(row))
		}
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}
	if len(rows) == 1 {
		return New(nil), nil
	}

	raw := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if raw.Err != nil {
		return nil, fmt.Errorf("load frame: %w", raw.Err)
	}
	names := raw.Names()
	cells := func(i int) []string {
		return raw.Col(names[i]).Records()
	}
	ids, years, products := cells(0), cells(cols.year), cells(cols.product)
	countries, clusters, prices := cells(cols.country), cells(cols.cluster), cells(cols.price)

	records := make([]models.PriceRecord, len(ids))
	for i := range records {
		rec, err := parseRow(ids[i], years[i], clusters[i], prices[i])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		rec.Product = strings.TrimSpace(products[i])
		rec.CountryCode = strings.TrimSpace(countries[i])
		records[i] = rec
	}
	return New(records), nil
}

// New builds a dataset from already parsed records.
func New(records []models.PriceRecord) *Dataset {
	ds := &Dataset{frame: frameOf(records)}
	for _, r := range records {
		if r.PriceMissing {
			ds.missing++
		}
	}
	return ds
}

type columns struct {
	year, product, country, cluster, price int
}

func columnIndex(header []string) (columns, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	lookup := func(name string) (int, error) {
		i, ok := pos[name]
		if !ok || i == 0 {
			return 0, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		return i, nil
	}

	var c columns
	var err error
	if c.year, err = lookup(ColumnYear); err != nil {
		return c, err
	}
	if c.product, err = lookup(ColumnProduct); err != nil {
		return c, err
	}
	if c.country, err = lookup(ColumnCountry); err != nil {
		return c, err
	}
	if c.cluster, err = lookup(ColumnCluster); err != nil {
		return c, err
	}
	if c.price, err = lookup(ColumnPrice); err != nil {
		return c, err
	}
	return c, nil
}

func parseRow(id, year, cluster, price string) (models.PriceRecord, error) {
	var rec models.PriceRecord
	var err error
	if rec.ID, err = parseWhole(id); err != nil {
		return rec, fmt.Errorf("index: %w", err)
	}
	if rec.Year, err = parseWhole(year); err != nil {
		return rec, fmt.Errorf("%s: %w", ColumnYear, err)
	}
	if rec.Cluster, err = parseWhole(cluster); err != nil {
		return rec, fmt.Errorf("%s: %w", ColumnCluster, err)
	}
	rec.Price, rec.PriceMissing, err = parsePrice(price)
	if err != nil {
		return rec, fmt.Errorf("%s: %w", ColumnPrice, err)
	}
	return rec, nil
}

// parsePrice treats empty and NaN cells as a missing price. Infinite values
// are rejected because they cannot be encoded as JSON.
func parsePrice(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, true, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsInf(f, 0) {
		return 0, false, fmt.Errorf("%q is not a finite price", s)
	}
	return f, false, nil
}

// parseWhole accepts "2018" as well as the "2018.0" pandas writes for
// integer columns that once held NaN.
func parseWhole(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int(f), nil
}

// frameOf builds the typed frame. A missing price is stored as NaN.
func frameOf(records []models.PriceRecord) dataframe.DataFrame {
	n := len(records)
	rows, ids, years, clusters := make([]int, n), make([]int, n), make([]int, n), make([]int, n)
	products, countries := make([]string, n), make([]string, n)
	prices := make([]float64, n)
	for i, r := range records {
		rows[i], ids[i], years[i], clusters[i] = i, r.ID, r.Year, r.Cluster
		products[i], countries[i] = r.Product, r.CountryCode
		prices[i] = r.Price
		if r.PriceMissing {
			prices[i] = math.NaN()
		}
	}
	return dataframe.New(
		series.New(rows, series.Int, columnRow),
		series.New(ids, series.Int, columnID),
		series.New(years, series.Int, ColumnYear),
		series.New(products, series.String, ColumnProduct),
		series.New(countries, series.String, ColumnCountry),
		series.New(clusters, series.Int, ColumnCluster),
		series.New(prices, series.Float, ColumnPrice),
	)
}

// recordsOf converts a frame back into typed rows. The result is never nil.
func recordsOf(f dataframe.DataFrame) ([]models.PriceRecord, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]models.PriceRecord, f.Nrow())
	if len(out) == 0 {
		return out, nil
	}
	ints := func(name string) ([]int, error) {
		v, err := f.Col(name).Int()
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		return v, nil
	}
	ids, err := ints(columnID)
	if err != nil {
		return nil, err
	}
	years, err := ints(ColumnYear)
	if err != nil {
		return nil, err
	}
	clusters, err := ints(ColumnCluster)
	if err != nil {
		return nil, err
	}
	products := f.Col(ColumnProduct).Records()
	countries := f.Col(ColumnCountry).Records()
	prices := f.Col(ColumnPrice).Float()

	for i := range out {
		out[i] = models.PriceRecord{
			ID:          ids[i],
			Year:        years[i],
			Product:     products[i],
			CountryCode: countries[i],
			Cluster:     clusters[i],
			Price:       prices[i],
		}
		if math.IsNaN(prices[i]) {
			out[i].Price, out[i].PriceMissing = 0, true
		}
	}
	return out, nil
}

// Len reports the number of loaded records.
func (d *Dataset) Len() int {
	return d.frame.Nrow()
}

// Missing reports how many records have no price.
func (d *Dataset) Missing() int {
	return d.missing
}

// Records returns a copy of every record in source order.
func (d *Dataset) Records() ([]models.PriceRecord, error) {
	return recordsOf(d.frame)
}
