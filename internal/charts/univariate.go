package charts

import (
	"cyberdash/internal/engine"
	"cyberdash/internal/models"
)

// TemporalEvolution plots the number of incidents per year.
func (f *Formatter) TemporalEvolution() (*models.Chart, error) {
	byYear, err := f.store.CountByYear()
	if err != nil {
		return nil, err
	}

	years := make([]int, len(byYear))
	counts := make([]int, len(byYear))
	for i, yc := range byYear {
		years[i] = yc.Year
		counts[i] = yc.Count
	}

	trace := models.Trace{
		Type:   "scatter",
		Mode:   "lines+markers",
		Name:   "Incidents",
		X:      years,
		Y:      counts,
		Line:   &models.Line{Color: colorCyan, Width: 3},
		Marker: &models.Marker{Color: colorCyan, Size: 10},
	}

	layout := f.theme.baseLayout(KindTemporalEvolution, 500)
	layout.XAxis = axis("Year")
	layout.YAxis = axis("Number of Attacks")
	layout.HoverMode = "x unified"

	return &models.Chart{Data: []models.Trace{trace}, Layout: layout}, nil
}

// AttackTypesDistribution is a donut with one slice per attack type.
func (f *Formatter) AttackTypesDistribution() (*models.Chart, error) {
	ranked, err := f.store.RankCategories(engine.AttackType)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(ranked))
	values := make([]float64, len(ranked))
	for i, c := range ranked {
		labels[i] = c.Label
		values[i] = float64(c.Count)
	}

	trace := models.Trace{
		Type:         "pie",
		Labels:       labels,
		Values:       values,
		Hole:         0.4,
		TextInfo:     "percent+label",
		TextPosition: "inside",
		Marker:       &models.Marker{Colors: cycle(redsReversed, len(labels))},
	}

	layout := f.theme.baseLayout(KindAttackTypes, 500)
	layout.ShowLegend = boolPtr(true)
	layout.Legend = &models.Legend{Orientation: "v", YAnchor: "middle", Y: 0.5, XAnchor: "left", X: 1.1}

	return &models.Chart{Data: []models.Trace{trace}, Layout: layout}, nil
}

// barSpec describes a single-dimension frequency bar chart.
type barSpec struct {
	kind          Kind
	dim           engine.Dimension
	horizontal    bool
	colorScale    string
	categoryTitle string
	valueTitle    string
	height        int
}

// AttackSourcesBar counts incidents per attack source, vertical bars.
func (f *Formatter) AttackSourcesBar() (*models.Chart, error) {
	return f.countBar(barSpec{
		kind:          KindAttackSources,
		dim:           engine.AttackSource,
		colorScale:    "Oranges",
		categoryTitle: "Attack Source",
		valueTitle:    "Number of Incidents",
		height:        500,
	})
}

// VulnerabilitiesBar counts incidents per vulnerability type, horizontal bars.
func (f *Formatter) VulnerabilitiesBar() (*models.Chart, error) {
	return f.countBar(barSpec{
		kind:          KindVulnerabilities,
		dim:           engine.VulnerabilityType,
		horizontal:    true,
		colorScale:    "Reds",
		categoryTitle: "Vulnerability Type",
		valueTitle:    "Number of Incidents",
		height:        500,
	})
}

// CountriesBar counts incidents per country, horizontal bars, most attacked
// first.
func (f *Formatter) CountriesBar() (*models.Chart, error) {
	return f.countBar(barSpec{
		kind:          KindCountries,
		dim:           engine.Country,
		horizontal:    true,
		colorScale:    "Reds",
		categoryTitle: "Country",
		valueTitle:    "Number of Attacks",
		height:        600,
	})
}

func (f *Formatter) countBar(spec barSpec) (*models.Chart, error) {
	ranked, err := f.store.RankCategories(spec.dim)
	if err != nil {
		return nil, err
	}

	labels := make([]string, len(ranked))
	counts := make([]int, len(ranked))
	shade := make([]float64, len(ranked))
	for i, c := range ranked {
		labels[i] = c.Label
		counts[i] = c.Count
		shade[i] = float64(c.Count)
	}

	trace := models.Trace{
		Type:         "bar",
		Name:         spec.categoryTitle,
		Text:         counts,
		TextPosition: "outside",
		Marker: &models.Marker{
			Color:      shade,
			ColorScale: spec.colorScale,
			ShowScale:  true,
			ColorBar:   &models.ColorBar{Title: models.Title{Text: "Count"}},
		},
	}

	layout := f.theme.baseLayout(spec.kind, spec.height)
	layout.ShowLegend = boolPtr(false)
	if spec.horizontal {
		trace.Orientation = "h"
		trace.X, trace.Y = counts, labels
		layout.XAxis, layout.YAxis = axis(spec.valueTitle), axis(spec.categoryTitle)
	} else {
		trace.Orientation = "v"
		trace.X, trace.Y = labels, counts
		layout.XAxis, layout.YAxis = axis(spec.categoryTitle), axis(spec.valueTitle)
	}

	return &models.Chart{Data: []models.Trace{trace}, Layout: layout}, nil
}
