package card

import (
	"net/url"
	"sort"

	json "github.com/goccy/go-json"
)

// Theme holds the colour roles of a visitor counter card.
type Theme struct {
	PanelColor      string `json:"panelColor"`
	TextColor       string `json:"textColor"`
	LabelColor      string `json:"labelColor"`
	LastDigitColor  string `json:"lastDigitColor"`
	BorderColor     string `json:"borderColor"`
	DividerColor    string `json:"dividerColor"`
	BackgroundColor string `json:"backgroundColor"`
}

// DefaultTheme is used when a request names no preset and no overrides.
func DefaultTheme() Theme {
	return Theme{
		PanelColor:      "#1e1e1e",
		TextColor:       "#ffffff",
		LabelColor:      "#22f374",
		LastDigitColor:  "#dc2626",
		BorderColor:     "#30363d",
		DividerColor:    "#0a0a0a",
		BackgroundColor: "#1a1b27",
	}
}

var presets = map[string]Theme{
	"default": DefaultTheme(),
	"ocean": {
		PanelColor:      "#0f172a",
		TextColor:       "#e2e8f0",
		LabelColor:      "#22f374",
		LastDigitColor:  "#0ea5e9",
		BorderColor:     "#1e293b",
		DividerColor:    "#1e293b",
		BackgroundColor: "#0f172a",
	},
	"forest": {
		PanelColor:      "#14532d",
		TextColor:       "#dcfce7",
		LabelColor:      "#22f374",
		LastDigitColor:  "#22c55e",
		BorderColor:     "#166534",
		DividerColor:    "#166534",
		BackgroundColor: "#14532d",
	},
	"sunset": {
		PanelColor:      "#451a03",
		TextColor:       "#fef3c7",
		LabelColor:      "#22f374",
		LastDigitColor:  "#f59e0b",
		BorderColor:     "#92400e",
		DividerColor:    "#92400e",
		BackgroundColor: "#451a03",
	},
}

// Preset returns the named preset theme.
func Preset(name string) (Theme, bool) {
	t, ok := presets[name]
	return t, ok
}

// Presets returns a copy of every preset, keyed by name.
func Presets() map[string]Theme {
	out := make(map[string]Theme, len(presets))
	for k, v := range presets {
		out[k] = v
	}
	return out
}

// PresetNames lists the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for k := range presets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ParseTheme overlays the colours found in raw, a JSON object, onto base.
// raw may still be percent-encoded. Unknown keys are ignored; missing, null,
// empty or non-string values keep the base colour. Malformed input returns
// base unchanged.
func ParseTheme(raw string, base Theme) Theme {
	if raw == "" {
		return base
	}
	if decoded, err := url.QueryUnescape(raw); err == nil {
		raw = decoded
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return base
	}

	t := base
	pick := func(name string, dst *string) {
		if s, ok := fields[name].(string); ok && s != "" {
			*dst = s
		}
	}
	pick("panelColor", &t.PanelColor)
	pick("textColor", &t.TextColor)
	pick("labelColor", &t.LabelColor)
	pick("lastDigitColor", &t.LastDigitColor)
	pick("borderColor", &t.BorderColor)
	pick("dividerColor", &t.DividerColor)
	pick("backgroundColor", &t.BackgroundColor)
	return t
}

// JSON encodes the theme the way the theme query parameter expects it.
func (t Theme) JSON() string {
	b, err := json.Marshal(t)
	if err != nil {
		return "{}"
	}
	return string(b)
}
