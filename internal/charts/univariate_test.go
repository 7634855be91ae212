package charts

import (
	"cyberdash/internal/engine"
	"errors"
	"testing"
)

func TestTemporalEvolution(t *testing.T) {
	store := engine.FromIncidents([]engine.Incident{{Year: 2020}, {Year: 2021}, {Year: 2020}})

	chart, err := New(store, DefaultTheme()).TemporalEvolution()
	if err != nil {
		t.Fatal(err)
	}
	if len(chart.Data) != 1 {
		t.Fatalf("Expected 1 trace, got %d", len(chart.Data))
	}
	tr := chart.Data[0]
	years, counts := tr.X.([]int), tr.Y.([]int)
	if len(years) != 2 || years[0] != 2020 || years[1] != 2021 {
		t.Errorf("Expected years [2020 2021], got %v", years)
	}
	if len(counts) != 2 || counts[0] != 2 || counts[1] != 1 {
		t.Errorf("Expected counts [2 1], got %v", counts)
	}
	if tr.Mode != "lines+markers" || chart.Layout.HoverMode != "x unified" {
		t.Errorf("Unexpected styling: mode=%q hover=%q", tr.Mode, chart.Layout.HoverMode)
	}
	if chart.Layout.Title.Text != DefaultTheme().Titles[KindTemporalEvolution] {
		t.Errorf("Unexpected title %q", chart.Layout.Title.Text)
	}
}

func TestAttackTypesDistribution(t *testing.T) {
	store := engine.FromIncidents([]engine.Incident{
		{AttackType: "Phishing"}, {AttackType: "DDoS"}, {AttackType: "Phishing"},
		{AttackType: "Malware"}, {AttackType: "Phishing"},
	})

	chart, err := New(store, DefaultTheme()).AttackTypesDistribution()
	if err != nil {
		t.Fatal(err)
	}
	tr := chart.Data[0]
	if tr.Type != "pie" || tr.Hole != 0.4 {
		t.Errorf("Expected donut, got type=%q hole=%v", tr.Type, tr.Hole)
	}

	var sum float64
	for _, v := range tr.Values {
		sum += v
	}
	if int(sum) != store.Len() {
		t.Errorf("Slice values must sum to %d, got %v", store.Len(), sum)
	}
	if tr.Labels[0] != "Phishing" || tr.Values[0] != 3 {
		t.Errorf("Most frequent type first: got %s=%v", tr.Labels[0], tr.Values[0])
	}
	if len(tr.Marker.Colors) != len(tr.Labels) {
		t.Errorf("Expected one colour per slice, got %d", len(tr.Marker.Colors))
	}
}

func TestCountBarsOrientation(t *testing.T) {
	store := engine.FromIncidents([]engine.Incident{
		{Country: "USA", AttackSource: "Insider", VulnerabilityType: "Weak Passwords"},
		{Country: "UK", AttackSource: "Hacker Group", VulnerabilityType: "Weak Passwords"},
		{Country: "UK", AttackSource: "Hacker Group", VulnerabilityType: "Zero-day"},
	})
	f := New(store, DefaultTheme())

	sources, err := f.AttackSourcesBar()
	if err != nil {
		t.Fatal(err)
	}
	tr := sources.Data[0]
	if tr.Orientation != "v" {
		t.Errorf("Attack sources should be vertical, got %q", tr.Orientation)
	}
	labels := tr.X.([]string)
	counts := tr.Y.([]int)
	if labels[0] != "Hacker Group" || counts[0] != 2 {
		t.Errorf("Expected Hacker Group=2 first, got %s=%d", labels[0], counts[0])
	}
	if tr.Marker.ColorScale != "Oranges" {
		t.Errorf("Expected Oranges scale, got %q", tr.Marker.ColorScale)
	}

	countries, err := f.CountriesBar()
	if err != nil {
		t.Fatal(err)
	}
	tr = countries.Data[0]
	if tr.Orientation != "h" {
		t.Errorf("Countries should be horizontal, got %q", tr.Orientation)
	}
	if names := tr.Y.([]string); names[0] != "UK" {
		t.Errorf("Expected UK first, got %v", names)
	}
	if countries.Layout.Height != 600 {
		t.Errorf("Expected height 600, got %d", countries.Layout.Height)
	}
	if countries.Layout.ShowLegend == nil || *countries.Layout.ShowLegend {
		t.Error("Count bars hide the legend")
	}

	vulns, err := f.VulnerabilitiesBar()
	if err != nil {
		t.Fatal(err)
	}
	if got := vulns.Data[0].X.([]int); got[0] != 2 {
		t.Errorf("Expected Weak Passwords=2 first, got %v", got)
	}
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := New(engine.FromIncidents(nil), DefaultTheme()).Build("pie-of-pies")
	if !errors.Is(err, engine.ErrInvalidArgument) {
		t.Fatalf("Expected ErrInvalidArgument, got %v", err)
	}
}

func TestBuildEveryKind(t *testing.T) {
	store := engine.FromIncidents([]engine.Incident{
		{Country: "USA", Year: 2020, AttackType: "Phishing", FinancialLoss: 3, AffectedUsers: 10,
			AttackSource: "Insider", VulnerabilityType: "Zero-day", DefenseMechanism: "VPN", ResolutionHours: 5},
	})
	f := New(store, DefaultTheme())
	for kind := range builders {
		chart, err := f.Build(kind)
		if err != nil {
			t.Errorf("%s: %v", kind, err)
			continue
		}
		if len(chart.Data) == 0 {
			t.Errorf("%s: no traces", kind)
		}
		if chart.Layout.Template != "plotly_dark" {
			t.Errorf("%s: theme not applied", kind)
		}
	}
}

func TestBuildMissingColumn(t *testing.T) {
	store := engine.FromIncidents([]engine.Incident{{Country: "USA"}}, engine.ColCountry)
	_, err := New(store, DefaultTheme()).Build(KindTemporalEvolution)
	if !errors.Is(err, engine.ErrSchema) {
		t.Fatalf("Expected ErrSchema, got %v", err)
	}
}

func TestThemeTitleFallback(t *testing.T) {
	theme := DefaultTheme()
	theme.Titles[KindMap] = ""
	if got := theme.Title(KindMap); got != "map" {
		t.Errorf("Expected fallback to kind name, got %q", got)
	}
	if DefaultTheme().Titles[KindMap] == "" {
		t.Error("DefaultTheme must return a fresh titles map")
	}
}
