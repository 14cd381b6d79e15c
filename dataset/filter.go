package dataset

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"dairy-dashboard/models"
)

// The map always shows raw milk prices for this year.
const (
	MapYear    = 2018
	MapProduct = models.ProductRawMilk
)

// where keeps the rows whose column equals value. Chained calls combine
// with AND; an empty frame is returned unchanged.
func where(f dataframe.DataFrame, column string, value any) dataframe.DataFrame {
	if f.Err != nil || f.Nrow() == 0 {
		return f
	}
	return f.Filter(dataframe.F{
		Colname:    column,
		Comparator: series.Eq,
		Comparando: value,
	})
}

// MapRecords returns the raw milk rows of MapYear belonging to cluster, in
// source order. The result is never nil.
func (d *Dataset) MapRecords(cluster int) ([]models.PriceRecord, error) {
	f := where(d.frame, ColumnYear, MapYear)
	f = where(f, ColumnProduct, MapProduct)
	f = where(f, ColumnCluster, cluster)
	return recordsOf(f)
}

// SeriesRecords returns the rows for one country and product sorted by
// year. Rows sharing a year keep their source order.
func (d *Dataset) SeriesRecords(country, product string) ([]models.PriceRecord, error) {
	f := where(d.frame, ColumnCountry, country)
	f = where(f, ColumnProduct, product)
	if f.Err == nil && f.Nrow() > 1 {
		f = f.Arrange(dataframe.Sort(ColumnYear), dataframe.Sort(columnRow))
	}
	return recordsOf(f)
}

// Countries returns the distinct country codes, sorted.
func (d *Dataset) Countries() ([]string, error) {
	out := make([]string, 0)
	if d.frame.Nrow() == 0 {
		return out, nil
	}
	seen := make(map[string]struct{})
	for _, c := range d.frame.Col(ColumnCountry).Records() {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out, nil
}

// Summaries aggregates the prices of every cluster for one year and
// product. Rows without a price are not counted. Clusters without rows are
// reported with a zero count.
func (d *Dataset) Summaries(year int, product string) ([]models.ClusterSummary, error) {
	f := where(d.frame, ColumnYear, year)
	f = where(f, ColumnProduct, product)
	records, err := recordsOf(f)
	if err != nil {
		return nil, err
	}

	out := make([]models.ClusterSummary, 0, len(models.Clusters))
	for _, c := range models.Clusters {
		s := models.ClusterSummary{Cluster: c.Value, MinPrice: math.Inf(1), MaxPrice: math.Inf(-1)}
		var sum float64
		for _, r := range records {
			if r.Cluster != c.Value || r.PriceMissing {
				continue
			}
			s.Count++
			sum += r.Price
			s.MinPrice = math.Min(s.MinPrice, r.Price)
			s.MaxPrice = math.Max(s.MaxPrice, r.Price)
		}
		if s.Count == 0 {
			s.MinPrice, s.MaxPrice = 0, 0
		} else {
			s.AvgPrice = sum / float64(s.Count)
		}
		out = append(out, s)
	}
	return out, nil
}
