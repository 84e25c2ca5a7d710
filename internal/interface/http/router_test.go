package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/gdp-chart/internal/domain/gdpchart"
	"github.com/yanqian/gdp-chart/internal/infra/chartstore"
	"github.com/yanqian/gdp-chart/internal/infra/config"
)

var sampleDataset = gdpchart.Dataset{
	Name:       "US GDP",
	SourceName: "Federal Reserve Economic Data",
	Records: []gdpchart.RawRecord{
		{Date: "1947-01-01", Value: 243.1, ValueText: "243.1"},
		{Date: "1947-04-01", Value: 246.3, ValueText: "246.3"},
	},
}

func TestRouter_Healthz(t *testing.T) {
	server, _ := newRouterUnderTest(t, &stubLoader{dataset: sampleDataset}, config.RateLimitConfig{})

	rec := performRequest(server, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_ChartPage(t *testing.T) {
	server, _ := newRouterUnderTest(t, &stubLoader{dataset: sampleDataset}, config.RateLimitConfig{})

	rec := performRequest(server, http.MethodGet, "/chart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, contentTypeHTML, rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Server-Timing"), "fetch;dur=")
	body := rec.Body.String()
	require.Equal(t, 2, strings.Count(body, `class="bar"`))
	require.Contains(t, body, `id="tooltip"`)
	require.Contains(t, body, `data-date="1947-01-01" data-gdp="243.1"`)
}

func TestRouter_ChartSVGFetchFailureRendersEmptyChart(t *testing.T) {
	loader := &stubLoader{err: errors.New("gdp request error: status=503 body=")}
	server, counter := newRouterUnderTest(t, loader, config.RateLimitConfig{})

	rec := performRequest(server, http.MethodGet, "/chart.svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, contentTypeSVG, rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	require.Contains(t, body, `id="x-axis"`)
	require.Contains(t, body, `id="y-axis"`)
	require.NotContains(t, body, `class="bar"`)
	require.NotContains(t, body, "503")
	require.Empty(t, rec.Header().Get("Server-Timing"))
	require.Equal(t, 1, counter.count(slog.LevelError))
}

func TestRouter_ChartPageFetchFailureHasNoErrorMessage(t *testing.T) {
	server, counter := newRouterUnderTest(t, &stubLoader{err: errors.New("boom")}, config.RateLimitConfig{})

	rec := performRequest(server, http.MethodGet, "/chart", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "boom")
	require.NotContains(t, rec.Body.String(), `class="bar"`)
	require.Equal(t, 1, counter.count(slog.LevelError))
}

func TestRouter_ChartQueryOverrides(t *testing.T) {
	server, _ := newRouterUnderTest(t, &stubLoader{dataset: sampleDataset}, config.RateLimitConfig{})

	rec := performRequest(server, http.MethodGet, "/chart.svg?tooltip=false&fill=steelblue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotContains(t, rec.Body.String(), "data-tooltip")
	require.Contains(t, rec.Body.String(), `fill="steelblue"`)

	rec = performRequest(server, http.MethodGet, "/chart.svg?tooltip=maybe", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(server, http.MethodGet, "/chart.svg?fill=url(x)", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_ChartPNG(t *testing.T) {
	server, _ := newRouterUnderTest(t, &stubLoader{dataset: sampleDataset}, config.RateLimitConfig{})

	rec := performRequest(server, http.MethodGet, "/chart.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, contentTypePNG, rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
}

func TestRouter_ChartPNGFetchFailure(t *testing.T) {
	server, counter := newRouterUnderTest(t, &stubLoader{err: errors.New("boom")}, config.RateLimitConfig{})

	rec := performRequest(server, http.MethodGet, "/chart.png", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, gdpchart.CodeFetchFailure, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
	require.Equal(t, 1, counter.count(slog.LevelError))
}

func TestRouter_ChartPNGSinglePoint(t *testing.T) {
	dataset := gdpchart.Dataset{Records: sampleDataset.Records[:1]}
	server, _ := newRouterUnderTest(t, &stubLoader{dataset: dataset}, config.RateLimitConfig{})

	rec := performRequest(server, http.MethodGet, "/chart.png", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRouter_ChartLifecycleAndHover(t *testing.T) {
	server, _ := newRouterUnderTest(t, &stubLoader{dataset: sampleDataset}, config.RateLimitConfig{})

	rec := performRequest(server, http.MethodPost, "/api/v1/charts", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var view gdpchart.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Bars, 2)
	require.NotNil(t, view.Tooltip)
	require.Equal(t, -1, view.Tooltip.HoveredBar)
	base := "/api/v1/charts/" + view.ID

	rec = performRequest(server, http.MethodPost, base+"/bars/0/hover", `{"pageX":300,"pageY":200}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var tip gdpchart.Tooltip
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tip))
	require.Equal(t, gdpchart.TooltipVisibleOpacity, tip.Opacity)
	require.Equal(t, "1947-01-01", tip.DataDate)
	require.Contains(t, tip.Content, "243.1")
	require.Equal(t, 305.0, tip.Left)
	require.Equal(t, 162.0, tip.Top)

	rec = performRequest(server, http.MethodGet, base+"/svg", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, strings.Count(rec.Body.String(), `class="bar"`))

	rec = performRequest(server, http.MethodGet, base+"/points.parquet", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, contentTypeParquet, rec.Header().Get("Content-Type"))
	require.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PAR1")))

	rec = performRequest(server, http.MethodDelete, base+"/bars/0/hover", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tip))
	require.Equal(t, 0.0, tip.Opacity)

	rec = performRequest(server, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(server, http.MethodDelete, base, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = performRequest(server, http.MethodGet, base, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, gdpchart.CodeNotFound, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_HoverErrors(t *testing.T) {
	server, _ := newRouterUnderTest(t, &stubLoader{dataset: sampleDataset}, config.RateLimitConfig{})

	rec := performRequest(server, http.MethodPost, "/api/v1/charts", `{"enableTooltip":false}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var view gdpchart.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Nil(t, view.Tooltip)
	base := "/api/v1/charts/" + view.ID

	rec = performRequest(server, http.MethodPost, base+"/bars/0/hover", "")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, gdpchart.CodeTooltipDisabled, decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])

	rec = performRequest(server, http.MethodPost, base+"/bars/abc/hover", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = performRequest(server, http.MethodPost, "/api/v1/charts/missing/bars/0/hover", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = performRequest(server, http.MethodPost, "/api/v1/charts", `{"enableTooltip":"yes"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CreateChartFetchFailure(t *testing.T) {
	server, _ := newRouterUnderTest(t, &stubLoader{err: errors.New("boom")}, config.RateLimitConfig{})

	rec := performRequest(server, http.MethodPost, "/api/v1/charts", `{}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	limit := config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 1}
	server, _ := newRouterUnderTest(t, &stubLoader{dataset: sampleDataset}, limit)

	rec := performRequest(server, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(server, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "60", rec.Header().Get("Retry-After"))
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	server, _ := newRouterUnderTest(t, &stubLoader{dataset: sampleDataset}, config.RateLimitConfig{})

	rec := performRequest(server, http.MethodOptions, "/api/v1/charts", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestIPRateLimiterRefills(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := newIPRateLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 2}, func() time.Time { return now })

	require.True(t, limiter.allow("1.1.1.1"))
	require.True(t, limiter.allow("1.1.1.1"))
	require.False(t, limiter.allow("1.1.1.1"))
	require.True(t, limiter.allow("2.2.2.2"))

	now = now.Add(time.Second)
	require.True(t, limiter.allow("1.1.1.1"))
	require.False(t, limiter.allow("1.1.1.1"))
	require.Equal(t, 1, limiter.retryAfterSeconds())
}

func performRequest(server *http.Server, method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, loader gdpchart.DatasetLoader, limit config.RateLimitConfig) (*http.Server, *countingHandler) {
	t.Helper()
	counter := &countingHandler{}
	logger := slog.New(counter)

	svc := gdpchart.NewService(gdpchart.Config{
		Title: "United States GDP",
		Canvas: gdpchart.Canvas{
			Width:  900,
			Height: 500,
			Margin: gdpchart.Margin{Top: 80, Right: 60, Bottom: 50, Left: 100},
		},
		Defaults:  gdpchart.Options{EnableTooltip: true, BarFillColor: "#0de21a"},
		TickCount: gdpchart.DefaultTickCount,
	}, loader, chartstore.NewMemoryStore(time.Minute, 16), logger)

	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
			RateLimit:    limit,
		},
	}
	return NewRouter(cfg, NewChartHandler(svc, logger), logger), counter
}

type stubLoader struct {
	dataset gdpchart.Dataset
	err     error
}

func (s *stubLoader) Load(context.Context) (gdpchart.Dataset, error) {
	if s.err != nil {
		return gdpchart.Dataset{}, s.err
	}
	return s.dataset, nil
}

type countingHandler struct {
	mu     sync.Mutex
	levels []slog.Level
}

func (h *countingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *countingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.levels = append(h.levels, r.Level)
	return nil
}

func (h *countingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *countingHandler) WithGroup(string) slog.Handler { return h }

func (h *countingHandler) count(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, l := range h.levels {
		if l == level {
			n++
		}
	}
	return n
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
