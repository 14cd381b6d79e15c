package figures

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHover(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantSel bool
	}{
		{name: "plotly event", raw: `{"points":[{"customdata":["DEU",1],"location":"DEU"}]}`, want: "DEU", wantSel: true},
		{name: "location only", raw: `{"points":[{"location":"POL"}]}`, want: "POL", wantSel: true},
		{name: "numeric customdata falls back to location", raw: `{"points":[{"customdata":[3],"location":"FRA"}]}`, want: "FRA", wantSel: true},
		{name: "empty", raw: ``},
		{name: "null", raw: `null`},
		{name: "no points", raw: `{"points":[]}`},
		{name: "point without data", raw: `{"points":[{}]}`},
		{name: "blank code", raw: `{"points":[{"customdata":["  "]}]}`},
		{name: "not json", raw: `{points`},
		{name: "wrong shape", raw: `{"points":"IRL"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseHover([]byte(tt.raw))
			assert.Equal(t, tt.wantSel, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultHover(t *testing.T) {
	h := DefaultHover()

	got, ok := h.Country()
	assert.True(t, ok)
	assert.Equal(t, DefaultHoverCountry, got)

	raw, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"points":[{"customdata":["IRL",0],"location":""}]}`, string(raw))
}

func TestCountry_DefaultHover(t *testing.T) {
	country, ok := DefaultHover().Country()
	assert.True(t, ok)
	assert.Equal(t, DefaultHoverCountry, country)

	_, ok = HoverData{}.Country()
	assert.False(t, ok)
}
