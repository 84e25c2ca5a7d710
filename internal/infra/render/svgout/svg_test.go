package svgout

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/gdp-chart/internal/domain/gdpchart"
)

var testCanvas = gdpchart.Canvas{
	Width:  900,
	Height: 500,
	Margin: gdpchart.Margin{Top: 80, Right: 60, Bottom: 50, Left: 100},
}

func renderChart(t *testing.T, tooltip bool) *gdpchart.Chart {
	t.Helper()
	points, err := gdpchart.ToDataPoints([]gdpchart.RawRecord{
		{Date: "1947-01-01", Value: 243.1, ValueText: "243.1"},
		{Date: "1947-04-01", Value: 246.3, ValueText: "246.3"},
		{Date: "1947-07-01", Value: 250.1, ValueText: "250.10"},
	})
	require.NoError(t, err)
	chart := gdpchart.Render(points, testCanvas, gdpchart.Options{EnableTooltip: tooltip, BarFillColor: "#0de21a"})
	chart.Title = "United States GDP"
	chart.Caption = "Source: FRED"
	return chart
}

func TestWriteSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, renderChart(t, true)))
	out := buf.String()

	require.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg"`))
	require.Contains(t, out, `width="900" height="500"`)
	require.Contains(t, out, `<g transform="translate(100,80)">`)
	require.Contains(t, out, `id="x-axis"`)
	require.Contains(t, out, `id="y-axis"`)
	require.Contains(t, out, `transform="translate(0,370)"`)
	require.Equal(t, 3, strings.Count(out, `class="bar"`))
	require.Contains(t, out, `data-date="1947-01-01" data-gdp="243.1"`)
	require.Contains(t, out, `data-gdp="250.10"`)
	require.Contains(t, out, "data-tooltip=\"Date: 1947-01-01\nGDP: $243.1 Billion\"")
	require.Contains(t, out, `fill="#0de21a"`)
	require.Contains(t, out, `<title>United States GDP</title>`)
}

func TestWriteSVGStatic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, renderChart(t, false)))

	require.NotContains(t, buf.String(), "data-tooltip")
	require.Equal(t, 3, strings.Count(buf.String(), `class="bar"`))
}

func TestWriteSVGEmptyChart(t *testing.T) {
	chart := gdpchart.Render(nil, testCanvas, gdpchart.Options{EnableTooltip: true, BarFillColor: "#0de21a"})

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, chart))
	out := buf.String()
	require.Contains(t, out, `id="x-axis"`)
	require.NotContains(t, out, `class="bar"`)
	require.NotContains(t, out, `class="tick"`)
}

func TestWriteSVGEscapesLabels(t *testing.T) {
	chart := renderChart(t, true)
	chart.Title = `<script>alert(1)</script>`
	chart.Bars[0].DataGDP = `"><b>`

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, chart))
	require.NotContains(t, buf.String(), "<script>")
	require.NotContains(t, buf.String(), `"><b>`)
}

func TestWritePage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, renderChart(t, true)))
	out := buf.String()

	require.Contains(t, out, `<h1 id="title">United States GDP</h1>`)
	require.Contains(t, out, `<div id="tooltip" style="opacity: 0"></div>`)
	require.Contains(t, out, `<p class="caption">Source: FRED</p>`)
	require.Contains(t, out, "mouseover")
	require.Contains(t, out, "mouseout")
	require.Equal(t, 3, strings.Count(out, `class="bar"`))
}

func TestWritePageStatic(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, renderChart(t, false)))

	require.NotContains(t, buf.String(), `id="tooltip"`)
	require.NotContains(t, buf.String(), "<script>")
}

func TestFormatNumber(t *testing.T) {
	require.Equal(t, "0", formatNumber(-0.001))
	require.Equal(t, "12.35", formatNumber(12.345678))
	require.Equal(t, "900", formatNumber(900))
}
