package charts

import (
	"cyberdash/internal/engine"
	"cyberdash/internal/models"
	"fmt"

	"github.com/dustin/go-humanize"
)

// Largest marker diameter in pixels.
const mapMaxMarkerSize = 50

// MapChart places one marker per country: area proportional to the number
// of incidents, colour on a continuous scale of total loss.
func (f *Formatter) MapChart() (*models.Chart, error) {
	totals, err := f.store.CountryTotals()
	if err != nil {
		return nil, err
	}

	countries := make([]string, len(totals))
	sizes := make([]int, len(totals))
	losses := make([]float64, len(totals))
	hover := make([]string, len(totals))
	maxAttacks := 0
	for i, ct := range totals {
		countries[i] = ct.Country
		sizes[i] = ct.Attacks
		losses[i] = engine.RoundTo2(ct.TotalLoss)
		hover[i] = fmt.Sprintf("<b>%s</b><br>Attacks: %d<br>Total loss: %.2f M$<br>Affected users: %s",
			ct.Country, ct.Attacks, ct.TotalLoss, humanize.Comma(ct.TotalUsers))
		if ct.Attacks > maxAttacks {
			maxAttacks = ct.Attacks
		}
	}

	// Area sizing: the largest marker gets mapMaxMarkerSize px.
	var sizeRef float64
	if maxAttacks > 0 {
		sizeRef = 2 * float64(maxAttacks) / (mapMaxMarkerSize * mapMaxMarkerSize)
	}

	trace := models.Trace{
		Type:         "scattergeo",
		Name:         "Incidents",
		Locations:    countries,
		LocationMode: "country names",
		HoverText:    hover,
		HoverInfo:    "text",
		Marker: &models.Marker{
			Size:       sizes,
			SizeMode:   "area",
			SizeRef:    sizeRef,
			Color:      losses,
			ColorScale: "Reds",
			ShowScale:  true,
			ColorBar:   &models.ColorBar{Title: models.Title{Text: "Total loss (M$)"}},
		},
	}

	layout := f.theme.baseLayout(KindMap, 600)
	layout.Margin = &models.Margin{T: 50}
	layout.Geo = &models.Geo{
		Projection:    &models.GeoProjection{Type: "natural earth"},
		ShowLand:      true,
		LandColor:     "#1a1927",
		ShowOcean:     true,
		OceanColor:    "#13121d",
		ShowCountries: true,
		CountryColor:  "#2d2c3d",
	}

	return &models.Chart{Data: []models.Trace{trace}, Layout: layout}, nil
}
