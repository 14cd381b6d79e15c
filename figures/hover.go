package figures

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultHoverCountry seeds the series chart before the user hovers the map.
const DefaultHoverCountry = "IRL"

// HoverData mirrors the plotly hover event sent by the page.
type HoverData struct {
	Points []HoverPoint `json:"points"`
}

type HoverPoint struct {
	CustomData []json.RawMessage `json:"customdata"`
	Location   string            `json:"location"`
}

// DefaultHover returns the hover event the page starts with.
func DefaultHover() HoverData {
	return HoverData{Points: []HoverPoint{{
		CustomData: []json.RawMessage{json.RawMessage(fmt.Sprintf("%q", DefaultHoverCountry)), json.RawMessage("0")},
	}}}
}

// Country extracts the hovered country code from the first point's custom
// data, falling back to the point location. ok is false when the event
// carries no usable country, which callers treat as no selection.
func (h HoverData) Country() (string, bool) {
	if len(h.Points) == 0 {
		return "", false
	}
	p := h.Points[0]
	if len(p.CustomData) > 0 {
		var code string
		if err := json.Unmarshal(p.CustomData[0], &code); err == nil {
			if code = strings.TrimSpace(code); code != "" {
				return code, true
			}
		}
	}
	if code := strings.TrimSpace(p.Location); code != "" {
		return code, true
	}
	return "", false
}

// ParseHover decodes a raw hover event. Anything malformed yields no
// selection rather than an error.
func ParseHover(raw []byte) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var h HoverData
	if err := json.Unmarshal(raw, &h); err != nil {
		return "", false
	}
	return h.Country()
}
