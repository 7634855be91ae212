package api

import (
	"cyberdash/internal/charts"
	"cyberdash/internal/config"
	"cyberdash/internal/engine"
	"cyberdash/internal/models"
	"cyberdash/internal/observability"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const fixtureCSV = `Country,Year,Attack Type,Target Industry,Financial Loss (in Million $),Number of Affected Users,Attack Source,Security Vulnerability Type,Defense Mechanism Used,Incident Resolution Time (in Hours)
US,2020,Phishing,Banking,10,1000,Hacker Group,Weak Passwords,Firewall,10
US,2021,DDoS,Banking,5,500,Insider,Zero-day,VPN,30
FR,2021,Phishing,Banking,20,2000,Nation-state,Weak Passwords,Firewall,20
`

func newTestServer(t *testing.T, csv string) (*echo.Echo, *engine.Source) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "incidents.csv")
	if csv != "" {
		if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Server.RateLimit = 0
	source := engine.NewSource(path)
	h := NewHandler(source, Options{
		Theme:     charts.DefaultTheme(),
		Dashboard: cfg.Dashboard,
		Metrics:   observability.NewMetrics(),
		Version:   "test",
	})
	return NewServer(h, cfg.Server, zap.NewNop()), source
}

func get(t *testing.T, e *echo.Echo, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func TestHealthDoesNotLoad(t *testing.T) {
	e, source := newTestServer(t, fixtureCSV)

	rec := get(t, e, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var health models.Health
	decode(t, rec, &health)
	if health.Status != "ok" || health.DatasetLoaded {
		t.Errorf("Expected ok and not loaded, got %+v", health)
	}
	if source.Loaded() != nil {
		t.Error("Health must not trigger a load")
	}

	get(t, e, "/api/dashboard/kpis")
	decode(t, get(t, e, "/api/health"), &health)
	if !health.DatasetLoaded || health.TotalRecords != 3 {
		t.Errorf("Expected loaded with 3 records, got %+v", health)
	}
}

func TestGetKPIs(t *testing.T) {
	e, _ := newTestServer(t, fixtureCSV)

	rec := get(t, e, "/api/dashboard/kpis")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var kpis models.GlobalKPIs
	decode(t, rec, &kpis)
	want := models.GlobalKPIs{TotalAttacks: 3, TotalFinancialLoss: 35, TotalAffectedUsers: 3500, AvgResolutionTime: 20}
	if kpis != want {
		t.Errorf("Expected %+v, got %+v", want, kpis)
	}
}

func TestTopIncidentsEndpoint(t *testing.T) {
	e, _ := newTestServer(t, fixtureCSV)

	var body struct {
		TopIncidents []models.TopIncident `json:"top_incidents"`
	}
	decode(t, get(t, e, "/api/dashboard/top-incidents?n=2"), &body)
	if len(body.TopIncidents) != 2 {
		t.Fatalf("Expected 2 incidents, got %+v", body)
	}
	if body.TopIncidents[0].Country != "FR" || body.TopIncidents[1].FinancialLoss != 10 {
		t.Errorf("Unexpected ranking: %+v", body.TopIncidents)
	}

	// default n=5 covers the whole fixture
	decode(t, get(t, e, "/api/dashboard/top-incidents"), &body)
	if len(body.TopIncidents) != 3 {
		t.Errorf("Expected all 3 incidents, got %d", len(body.TopIncidents))
	}
}

func TestTopCountriesEndpoint(t *testing.T) {
	e, _ := newTestServer(t, fixtureCSV)

	var body struct {
		TopCountries []models.TopCountry `json:"top_countries"`
	}
	decode(t, get(t, e, "/api/dashboard/top-countries?n=1"), &body)
	want := models.TopCountry{Rank: 1, Country: "FR", TotalLoss: 20, AttackCount: 1, AvgLoss: 20}
	if len(body.TopCountries) != 1 || body.TopCountries[0] != want {
		t.Errorf("Expected [%+v], got %+v", want, body.TopCountries)
	}
}

func TestInvalidCount(t *testing.T) {
	e, _ := newTestServer(t, fixtureCSV)

	for _, target := range []string{
		"/api/dashboard/top-incidents?n=-1",
		"/api/dashboard/top-countries?n=-1",
		"/api/dashboard/top-incidents?n=abc",
	} {
		rec := get(t, e, target)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rec.Code)
			continue
		}
		var body ErrorResponse
		decode(t, rec, &body)
		if body.Kind != "invalid_argument" {
			t.Errorf("%s: expected kind invalid_argument, got %+v", target, body)
		}
	}
}

func TestChartEndpoints(t *testing.T) {
	e, _ := newTestServer(t, fixtureCSV)

	paths := []string{"/api/dashboard/map"}
	for _, k := range univariateCharts {
		paths = append(paths, "/api/univariate/"+string(k))
	}
	for _, k := range bivariateCharts {
		paths = append(paths, "/api/bivariate/"+string(k))
	}

	for _, p := range paths {
		rec := get(t, e, p)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d: %s", p, rec.Code, rec.Body.String())
			continue
		}
		var body struct {
			Chart models.Chart `json:"chart"`
		}
		decode(t, rec, &body)
		if len(body.Chart.Data) == 0 || body.Chart.Layout.Title.Text == "" {
			t.Errorf("%s: incomplete chart %s", p, rec.Body.String())
		}
	}
}

func TestMissingColumnIs422(t *testing.T) {
	e, _ := newTestServer(t, "Country,Attack Type\nUS,Phishing\n")

	rec := get(t, e, "/api/univariate/temporal-evolution")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Year") {
		t.Errorf("Error should name the missing column: %s", rec.Body.String())
	}

	// Attack-type distribution only needs the columns that are present
	if rec := get(t, e, "/api/univariate/attack-types-distribution"); rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
}

func TestMissingDatasetIs503(t *testing.T) {
	e, _ := newTestServer(t, "")

	rec := get(t, e, "/api/dashboard/kpis")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", rec.Code)
	}
	var body ErrorResponse
	decode(t, rec, &body)
	if body.Kind != "not_found" {
		t.Errorf("Expected kind not_found, got %+v", body)
	}
}

func TestMalformedDatasetIs500(t *testing.T) {
	e, _ := newTestServer(t, strings.Replace(fixtureCSV, "US,2020", "US,soon", 1))

	if rec := get(t, e, "/api/dashboard/kpis"); rec.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rec.Code)
	}
}

func TestDatasetInfo(t *testing.T) {
	e, _ := newTestServer(t, fixtureCSV)

	var info models.DatasetInfo
	decode(t, get(t, e, "/api/dataset/info"), &info)
	if info.TotalRecords != 3 || info.DateRange.Min != 2020 || info.DateRange.Max != 2021 {
		t.Errorf("Unexpected info: %+v", info)
	}
	if len(info.Countries) != 2 || info.Countries[0] != "FR" {
		t.Errorf("Countries should be sorted: %v", info.Countries)
	}
}

func TestRootAndMetrics(t *testing.T) {
	e, _ := newTestServer(t, fixtureCSV)

	var root map[string]string
	decode(t, get(t, e, "/"), &root)
	if root["status"] != "running" || root["version"] != "test" {
		t.Errorf("Unexpected root payload: %v", root)
	}

	get(t, e, "/api/dashboard/kpis")
	rec := get(t, e, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `cyberdash_queries_total{query="kpis",status="200"} 1`) {
		t.Errorf("Query counter missing from metrics output")
	}
}

func TestRequestIDHeader(t *testing.T) {
	e, _ := newTestServer(t, fixtureCSV)
	rec := get(t, e, "/api/health")
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Error("Expected a request id header")
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	e, _ := newTestServer(t, fixtureCSV)
	if rec := get(t, e, "/api/univariate/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}
