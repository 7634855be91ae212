package models

// Chart is a renderer-agnostic chart description. The JSON shape follows the
// Plotly figure format ({data, layout}) so a frontend can hand it straight to
// Plotly.newPlot.
type Chart struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is one data series. X and Y hold typed slices ([]string, []int,
// []float64) depending on orientation.
type Trace struct {
	Type        string `json:"type"`
	Name        string `json:"name,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Orientation string `json:"orientation,omitempty"`

	X any `json:"x,omitempty"`
	Y any `json:"y,omitempty"`

	// pie
	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values,omitempty"`
	Hole   float64   `json:"hole,omitempty"`

	// scattergeo
	Locations    []string `json:"locations,omitempty"`
	LocationMode string   `json:"locationmode,omitempty"`

	Text         any      `json:"text,omitempty"`
	TextPosition string   `json:"textposition,omitempty"`
	TextInfo     string   `json:"textinfo,omitempty"`
	TextTemplate string   `json:"texttemplate,omitempty"`
	HoverText    []string `json:"hovertext,omitempty"`
	HoverInfo    string   `json:"hoverinfo,omitempty"`
	CustomData   []string `json:"customdata,omitempty"`

	Marker *Marker `json:"marker,omitempty"`
	Line   *Line   `json:"line,omitempty"`
}

// Marker styles points, bars and slices. Color is either a single colour
// string, a per-point []string, or a []float64 mapped through ColorScale.
type Marker struct {
	Color      any       `json:"color,omitempty"`
	Colors     []string  `json:"colors,omitempty"`
	ColorScale string    `json:"colorscale,omitempty"`
	ShowScale  bool      `json:"showscale,omitempty"`
	ColorBar   *ColorBar `json:"colorbar,omitempty"`
	Size       any       `json:"size,omitempty"`
	SizeMode   string    `json:"sizemode,omitempty"`
	SizeRef    float64   `json:"sizeref,omitempty"`
	SizeMin    float64   `json:"sizemin,omitempty"`
}

type ColorBar struct {
	Title Title `json:"title"`
}

type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

type Title struct {
	Text string `json:"text"`
}

type Axis struct {
	Title Title `json:"title"`
}

type Font struct {
	Color  string `json:"color,omitempty"`
	Family string `json:"family,omitempty"`
}

type Margin struct {
	R int `json:"r"`
	T int `json:"t"`
	L int `json:"l"`
	B int `json:"b"`
}

type Legend struct {
	Orientation string  `json:"orientation,omitempty"`
	YAnchor     string  `json:"yanchor,omitempty"`
	Y           float64 `json:"y"`
	XAnchor     string  `json:"xanchor,omitempty"`
	X           float64 `json:"x"`
}

type GeoProjection struct {
	Type string `json:"type"`
}

type Geo struct {
	Projection    *GeoProjection `json:"projection,omitempty"`
	ShowLand      bool           `json:"showland"`
	LandColor     string         `json:"landcolor,omitempty"`
	ShowOcean     bool           `json:"showocean"`
	OceanColor    string         `json:"oceancolor,omitempty"`
	ShowCountries bool           `json:"showcountries"`
	CountryColor  string         `json:"countrycolor,omitempty"`
}

type Layout struct {
	Title        Title   `json:"title"`
	Template     string  `json:"template,omitempty"`
	XAxis        *Axis   `json:"xaxis,omitempty"`
	YAxis        *Axis   `json:"yaxis,omitempty"`
	Height       int     `json:"height,omitempty"`
	Margin       *Margin `json:"margin,omitempty"`
	ShowLegend   *bool   `json:"showlegend,omitempty"`
	Legend       *Legend `json:"legend,omitempty"`
	HoverMode    string  `json:"hovermode,omitempty"`
	BarMode      string  `json:"barmode,omitempty"`
	PaperBGColor string  `json:"paper_bgcolor,omitempty"`
	PlotBGColor  string  `json:"plot_bgcolor,omitempty"`
	Font         *Font   `json:"font,omitempty"`
	Geo          *Geo    `json:"geo,omitempty"`
}
