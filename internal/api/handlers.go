package api

import (
	"cyberdash/internal/charts"
	"cyberdash/internal/config"
	"cyberdash/internal/engine"
	"cyberdash/internal/models"
	"cyberdash/internal/observability"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

type Options struct {
	Theme     charts.Theme
	Dashboard config.DashboardConfig
	Metrics   *observability.Metrics
	Version   string
}

type Handler struct {
	source   *engine.Source
	theme    charts.Theme
	defaults config.DashboardConfig
	metrics  *observability.Metrics
	version  string
}

func NewHandler(source *engine.Source, opts Options) *Handler {
	return &Handler{
		source:   source,
		theme:    opts.Theme,
		defaults: opts.Dashboard,
		metrics:  opts.Metrics,
		version:  opts.Version,
	}
}

var univariateCharts = []charts.Kind{
	charts.KindTemporalEvolution,
	charts.KindAttackTypes,
	charts.KindAttackSources,
	charts.KindVulnerabilities,
	charts.KindCountries,
}

var bivariateCharts = []charts.Kind{
	charts.KindTypesByCountry,
	charts.KindLossesByType,
	charts.KindDefenseEfficiency,
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Root)
	if h.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
	}

	api := e.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/dataset/info", h.instrument("dataset-info", h.GetDatasetInfo))

	dash := api.Group("/dashboard")
	dash.GET("/kpis", h.instrument("kpis", h.GetKPIs))
	dash.GET("/top-incidents", h.instrument("top-incidents", h.GetTopIncidents))
	dash.GET("/top-countries", h.instrument("top-countries", h.GetTopCountries))
	dash.GET("/map", h.instrument(string(charts.KindMap), h.chart(charts.KindMap)))

	uni := api.Group("/univariate")
	for _, k := range univariateCharts {
		uni.GET("/"+string(k), h.instrument(string(k), h.chart(k)))
	}

	bi := api.Group("/bivariate")
	for _, k := range bivariateCharts {
		bi.GET("/"+string(k), h.instrument(string(k), h.chart(k)))
	}
}

// --- HANDLERS ---

// countParam reads the optional "n" query parameter. Range checks are left
// to the engine so every caller gets the same InvalidArgument error.
func countParam(c echo.Context, defaultN int) (int, error) {
	raw := c.QueryParam("n")
	if raw == "" {
		return defaultN, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: n must be an integer, got %q", engine.ErrInvalidArgument, raw)
	}
	return n, nil
}

func (h *Handler) store(c echo.Context) (*engine.ColumnStore, error) {
	return h.source.Get(c.Request().Context())
}

func (h *Handler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "CyberAttack Analytics API",
		"status":  "running",
		"version": h.version,
	})
}

// Health never triggers a dataset load.
func (h *Handler) Health(c echo.Context) error {
	resp := models.Health{Status: "ok", Message: "Backend is running"}
	if cs := h.source.Loaded(); cs != nil {
		resp.DatasetLoaded = true
		resp.TotalRecords = cs.Len()
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetDatasetInfo(c echo.Context) error {
	cs, err := h.store(c)
	if err != nil {
		return err
	}
	info, err := engine.Describe(cs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, info)
}

func (h *Handler) GetKPIs(c echo.Context) error {
	cs, err := h.store(c)
	if err != nil {
		return err
	}
	kpis, err := cs.GlobalKPIs()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, kpis)
}

// returns the costliest incidents (default 5)
func (h *Handler) GetTopIncidents(c echo.Context) error {
	n, err := countParam(c, h.defaults.TopIncidents)
	if err != nil {
		return err
	}
	cs, err := h.store(c)
	if err != nil {
		return err
	}
	top, err := cs.TopIncidents(n)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"top_incidents": top})
}

// returns the countries with the largest cumulative loss (default 10)
func (h *Handler) GetTopCountries(c echo.Context) error {
	n, err := countParam(c, h.defaults.TopCountries)
	if err != nil {
		return err
	}
	cs, err := h.store(c)
	if err != nil {
		return err
	}
	top, err := cs.TopCountries(n)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"top_countries": top})
}

func (h *Handler) chart(kind charts.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		cs, err := h.store(c)
		if err != nil {
			return err
		}
		chart, err := charts.New(cs, h.theme).Build(kind)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]interface{}{"chart": chart})
	}
}

func (h *Handler) instrument(query string, next echo.HandlerFunc) echo.HandlerFunc {
	if h.metrics == nil {
		return next
	}
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		status := http.StatusOK
		if err != nil {
			status, _ = classify(err)
		}
		h.metrics.ObserveQuery(query, status, time.Since(start))
		return err
	}
}
