package charts

import (
	"cyberdash/internal/models"
)

// Kind names a chart the formatter can build.
type Kind string

const (
	KindMap               Kind = "map"
	KindTemporalEvolution Kind = "temporal-evolution"
	KindAttackTypes       Kind = "attack-types-distribution"
	KindAttackSources     Kind = "attack-sources"
	KindVulnerabilities   Kind = "vulnerabilities"
	KindCountries         Kind = "countries-distribution"
	KindTypesByCountry    Kind = "types-by-country"
	KindLossesByType      Kind = "losses-by-type-temporal"
	KindDefenseEfficiency Kind = "defense-efficiency"
)

// Theme is the static presentation applied to every chart.
type Theme struct {
	Template   string          `yaml:"template"`
	Background string          `yaml:"background"`
	FontColor  string          `yaml:"font_color"`
	FontFamily string          `yaml:"font_family"`
	Titles     map[Kind]string `yaml:"titles"`
}

// DefaultTheme returns the dark dashboard theme. Each call returns a fresh
// Titles map, so callers may override entries.
func DefaultTheme() Theme {
	return Theme{
		Template:   "plotly_dark",
		Background: "rgba(0,0,0,0)",
		FontColor:  "#ffffff",
		FontFamily: "monospace",
		Titles: map[Kind]string{
			KindMap:               "Global Map of Cyberattacks - Banking Sector (2015-2025)",
			KindTemporalEvolution: "Evolution of Cyberattacks in the Financial Sector (2015-2025)",
			KindAttackTypes:       "Attack Types Targeting Financial Institutions",
			KindAttackSources:     "Origins of Cyber Threats in the Financial Sector",
			KindVulnerabilities:   "Security Vulnerabilities Exploited - Banking Systems",
			KindCountries:         "Cyberattacks by Country - Banking and Financial Sector",
			KindTypesByCountry:    "Attack Types by Country (Top 5) - Financial Sector",
			KindLossesByType:      "Financial Losses by Threat Type (2015-2025)",
			KindDefenseEfficiency: "Mean Resolution Time by Defense Mechanism - Banking Sector",
		},
	}
}

// Title returns the configured title for k, falling back to the kind name.
func (t Theme) Title(k Kind) string {
	if s, ok := t.Titles[k]; ok && s != "" {
		return s
	}
	return string(k)
}

func (t Theme) baseLayout(k Kind, height int) models.Layout {
	return models.Layout{
		Title:        models.Title{Text: t.Title(k)},
		Template:     t.Template,
		Height:       height,
		PaperBGColor: t.Background,
		PlotBGColor:  t.Background,
		Font:         &models.Font{Color: t.FontColor, Family: t.FontFamily},
	}
}

// Palettes
const (
	colorCyan      = "#06b6d4"
	colorEfficient = "rgb(39,174,96)"
	colorModerate  = "rgb(230,126,34)"
	colorSlow      = "rgb(231,76,60)"
)

// reversed sequential Reds, darkest first
var redsReversed = []string{
	"rgb(103,0,13)", "rgb(165,15,21)", "rgb(203,24,29)",
	"rgb(239,59,44)", "rgb(251,106,74)", "rgb(252,146,114)",
	"rgb(252,187,161)", "rgb(254,224,210)", "rgb(255,245,240)",
}

// qualitative palette for multi-series charts
var seriesColors = []string{
	"#636efa", "#EF553B", "#00cc96", "#ab63fa", "#FFA15A",
	"#19d3f3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

func cycle(palette []string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = palette[i%len(palette)]
	}
	return out
}

func axis(title string) *models.Axis {
	return &models.Axis{Title: models.Title{Text: title}}
}

func boolPtr(b bool) *bool { return &b }

// legend above the plot, right-aligned
func topLegend() *models.Legend {
	return &models.Legend{Orientation: "h", YAnchor: "bottom", Y: 1.02, XAnchor: "right", X: 1}
}
