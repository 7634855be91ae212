package charts

import (
	"cyberdash/internal/engine"
	"cyberdash/internal/models"
	"sort"
)

const (
	typesByCountryCountries = 5
	typesByCountryTypes     = 4
	lossesByTypeTypes       = 4
)

// TypesByCountry is a grouped bar chart of incident counts for the most
// frequent attack types within the most attacked countries. Countries run
// along x alphabetically; one series per attack type, alphabetical, each
// zero-filled to the full country axis.
func (f *Formatter) TypesByCountry() (*models.Chart, error) {
	countries, err := f.store.TopCategories(engine.Country, typesByCountryCountries)
	if err != nil {
		return nil, err
	}
	types, err := f.store.TopCategories(engine.AttackType, typesByCountryTypes)
	if err != nil {
		return nil, err
	}
	sort.Strings(countries)
	sort.Strings(types)

	matrix, err := f.store.CrossCount(countries, types)
	if err != nil {
		return nil, err
	}

	traces := make([]models.Trace, 0, len(types))
	for t, name := range types {
		counts := make([]int, len(countries))
		for c := range countries {
			counts[c] = matrix[c][t]
		}
		traces = append(traces, models.Trace{
			Type:   "bar",
			Name:   name,
			X:      countries,
			Y:      counts,
			Marker: &models.Marker{Color: seriesColors[t%len(seriesColors)]},
		})
	}

	layout := f.theme.baseLayout(KindTypesByCountry, 500)
	layout.XAxis = axis("Country")
	layout.YAxis = axis("Number of Incidents")
	layout.BarMode = "group"
	layout.Legend = topLegend()

	return &models.Chart{Data: traces, Layout: layout}, nil
}

// LossesByTypeTemporal draws one line per frequent attack type: the summed
// financial loss of each year in which that type occurred.
func (f *Formatter) LossesByTypeTemporal() (*models.Chart, error) {
	types, err := f.store.TopCategories(engine.AttackType, lossesByTypeTypes)
	if err != nil {
		return nil, err
	}
	sort.Strings(types)

	byType, err := f.store.LossByYearAndType(types)
	if err != nil {
		return nil, err
	}

	traces := make([]models.Trace, 0, len(types))
	for i, name := range types {
		points := byType[name]
		years := make([]int, len(points))
		losses := make([]float64, len(points))
		for j, p := range points {
			years[j] = p.Year
			losses[j] = engine.RoundTo2(p.Loss)
		}
		color := seriesColors[i%len(seriesColors)]
		traces = append(traces, models.Trace{
			Type:   "scatter",
			Mode:   "lines+markers",
			Name:   name,
			X:      years,
			Y:      losses,
			Line:   &models.Line{Color: color, Width: 3},
			Marker: &models.Marker{Color: color, Size: 8},
		})
	}

	layout := f.theme.baseLayout(KindLossesByType, 500)
	layout.XAxis = axis("Year")
	layout.YAxis = axis("Financial Losses (M$)")
	layout.HoverMode = "x unified"
	layout.Legend = topLegend()

	return &models.Chart{Data: traces, Layout: layout}, nil
}

// Band is the efficiency class of a defense mechanism.
type Band string

const (
	BandEfficient Band = "efficient"
	BandModerate  Band = "moderate"
	BandSlow      Band = "slow"
)

var bandColors = map[Band]string{
	BandEfficient: colorEfficient,
	BandModerate:  colorModerate,
	BandSlow:      colorSlow,
}

// ClassifyBand places v relative to the slowest mean: strictly below half is
// efficient, strictly below three quarters is moderate, anything else slow.
func ClassifyBand(v, slowest float64) Band {
	switch {
	case v < slowest/2:
		return BandEfficient
	case v < slowest*0.75:
		return BandModerate
	default:
		return BandSlow
	}
}

// DefenseEfficiency is a horizontal bar per defense mechanism showing mean
// resolution time, fastest first, coloured by band.
func (f *Formatter) DefenseEfficiency() (*models.Chart, error) {
	means, err := f.store.MeanResolutionByDefense()
	if err != nil {
		return nil, err
	}

	var slowest float64
	for _, m := range means {
		if m.MeanHours > slowest {
			slowest = m.MeanHours
		}
	}

	names := make([]string, len(means))
	hours := make([]float64, len(means))
	text := make([]float64, len(means))
	colors := make([]string, len(means))
	bands := make([]string, len(means))
	for i, m := range means {
		band := ClassifyBand(m.MeanHours, slowest)
		names[i] = m.Mechanism
		hours[i] = m.MeanHours
		text[i] = engine.RoundTo1(m.MeanHours)
		colors[i] = bandColors[band]
		bands[i] = string(band)
	}

	trace := models.Trace{
		Type:         "bar",
		Orientation:  "h",
		X:            hours,
		Y:            names,
		Text:         text,
		TextPosition: "outside",
		TextTemplate: "%{text}h",
		CustomData:   bands,
		Marker:       &models.Marker{Color: colors},
	}

	layout := f.theme.baseLayout(KindDefenseEfficiency, 500)
	layout.XAxis = axis("Mean Resolution Time (hours)")
	layout.YAxis = axis("Defense Mechanism")
	layout.ShowLegend = boolPtr(false)

	return &models.Chart{Data: []models.Trace{trace}, Layout: layout}, nil
}
