package figures

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dairy-dashboard/models"
)

func prices(vals ...float64) []*float64 {
	out := make([]*float64, len(vals))
	for i := range vals {
		out[i] = &vals[i]
	}
	return out
}

func TestMapFigure(t *testing.T) {
	fig := MapFigure([]models.PriceRecord{
		{Year: 2018, Product: "Raw Milk", CountryCode: "IRL", Cluster: 0, Price: 30},
		{Year: 2018, Product: "Raw Milk", CountryCode: "FRA", Cluster: 0, Price: 34.2},
	})

	require.Len(t, fig.Data, 1)
	tr := fig.Data[0]
	assert.Equal(t, "choropleth", tr.Type)
	assert.Equal(t, []string{"IRL", "FRA"}, tr.Locations)
	assert.Equal(t, prices(30, 34.2), tr.Z)
	assert.Equal(t, ColorMin, *tr.ZMin)
	assert.Equal(t, ColorMax, *tr.ZMax)
	assert.Equal(t, []any{"IRL", 0}, tr.CustomData[0])
	assert.Equal(t, "europe", fig.Layout.Geo.Scope)
	assert.Equal(t, Template, fig.Layout.Template)
}

func TestMapFigure_Empty(t *testing.T) {
	fig := MapFigure(nil)

	require.Len(t, fig.Data, 1)
	assert.Empty(t, fig.Data[0].Locations)

	_, err := json.Marshal(fig)
	assert.NoError(t, err)
}

func TestMapFigure_MissingPrice(t *testing.T) {
	fig := MapFigure([]models.PriceRecord{
		{Year: 2018, Product: "Raw Milk", CountryCode: "IRL", Cluster: 0, Price: 30},
		{Year: 2018, Product: "Raw Milk", CountryCode: "CZE", Cluster: 0, PriceMissing: true},
	})

	tr := fig.Data[0]
	assert.Equal(t, []string{"IRL", "CZE"}, tr.Locations)
	require.Len(t, tr.Z, 2)
	assert.Nil(t, tr.Z[1])

	body, err := json.Marshal(fig)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"z":[30,null]`)
}

func TestSeriesFigure_MissingPrice(t *testing.T) {
	fig := SeriesFigure("DEU", []models.PriceRecord{
		{Year: 2012, Price: 290},
		{Year: 2013, PriceMissing: true},
		{Year: 2014, Price: 301},
	})

	body, err := json.Marshal(fig)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"y":[290,null,301]`)
}

func TestSeriesFigure(t *testing.T) {
	fig := SeriesFigure("DEU", []models.PriceRecord{
		{Year: 2012, Price: 290},
		{Year: 2014, Price: 301},
	})

	require.Len(t, fig.Data, 1)
	assert.Equal(t, []int{2012, 2014}, fig.Data[0].X)
	assert.Equal(t, prices(290, 301), fig.Data[0].Y)
	assert.Equal(t, "DEU", fig.Layout.Title.Text)
	assert.Equal(t, 0.5, fig.Layout.Title.X)
	assert.Equal(t, []float64{2005, 2024}, fig.Layout.XAxis.Range)
}

func TestSeriesFigure_NoSelection(t *testing.T) {
	fig := SeriesFigure("", nil)

	assert.Equal(t, NoSelectionTitle, fig.Layout.Title.Text)
	assert.Empty(t, fig.Data[0].X)
	assert.Equal(t, []float64{2005, 2024}, fig.Layout.XAxis.Range)
}

func TestClusterMessage(t *testing.T) {
	assert.Equal(t, "The cluster chosen by user was: 2", ClusterMessage(2))
}
