// Package export writes dashboard selections to Excel workbooks.
package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"dairy-dashboard/figures"
	"dairy-dashboard/models"
)

const mapSheet = "Map"

// Workbook is the content of one export: the map subset of a cluster and
// the price series of one product for every country on that map.
type Workbook struct {
	Cluster int
	Product string
	Map     []models.PriceRecord
	Series  map[string][]models.PriceRecord
}

// Source is the query side of the dataset.
type Source interface {
	MapRecords(cluster int) ([]models.PriceRecord, error)
	SeriesRecords(country, product string) ([]models.PriceRecord, error)
}

// Build collects the workbook content for a cluster and product from src.
func Build(src Source, cluster int, product string) (Workbook, error) {
	records, err := src.MapRecords(cluster)
	if err != nil {
		return Workbook{}, fmt.Errorf("map cluster %d: %w", cluster, err)
	}
	wb := Workbook{
		Cluster: cluster,
		Product: product,
		Map:     records,
		Series:  make(map[string][]models.PriceRecord),
	}
	for _, r := range wb.Map {
		series, err := src.SeriesRecords(r.CountryCode, product)
		if err != nil {
			return Workbook{}, fmt.Errorf("series %s: %w", r.CountryCode, err)
		}
		wb.Series[r.CountryCode] = series
	}
	return wb, nil
}

// Write encodes wb as an xlsx document. The first sheet holds the map
// subset; each country gets its own sheet, in alphabetical order.
func Write(w io.Writer, wb Workbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", mapSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetCellValue(mapSheet, "A1", figures.ClusterMessage(wb.Cluster)); err != nil {
		return err
	}
	if err := f.SetSheetRow(mapSheet, "A2", &[]any{"country_3", "Timestamp", "Product desc", "cluster_cows", "Price"}); err != nil {
		return err
	}
	for i, r := range wb.Map {
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		if err := f.SetSheetRow(mapSheet, cell, &[]any{r.CountryCode, r.Year, r.Product, r.Cluster, priceCell(r)}); err != nil {
			return fmt.Errorf("write map row %d: %w", i, err)
		}
	}
	if err := f.SetColWidth(mapSheet, "A", "E", 14); err != nil {
		return err
	}

	countries := make([]string, 0, len(wb.Series))
	for c := range wb.Series {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	for _, country := range countries {
		if err := writeSeries(f, country, wb.Product, wb.Series[country]); err != nil {
			return fmt.Errorf("write series %s: %w", country, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSeries(f *excelize.File, country, product string, records []models.PriceRecord) error {
	if _, err := f.NewSheet(country); err != nil {
		return err
	}
	if err := f.SetSheetRow(country, "A1", &[]any{"Timestamp", product}); err != nil {
		return err
	}
	for i, r := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(country, cell, &[]any{r.Year, priceCell(r)}); err != nil {
			return err
		}
	}
	return nil
}

// priceCell leaves the cell blank when the price is missing.
func priceCell(r models.PriceRecord) any {
	if r.PriceMissing {
		return nil
	}
	return r.Price
}
