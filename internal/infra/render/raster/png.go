package raster

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/colornames"

	"github.com/yanqian/gdp-chart/internal/domain/gdpchart"
)

// ErrTooFewPoints is returned when there is not enough data to span a time axis.
var ErrTooFewPoints = errors.New("png preview needs at least two data points")

// WritePNG renders the chart's points as a filled time series using the same fill colour and
// axis ticks as the SVG rendition.
func WritePNG(w io.Writer, c *gdpchart.Chart) error {
	if len(c.Points) < 2 {
		return ErrTooFewPoints
	}

	xs := make([]time.Time, 0, len(c.Points))
	ys := make([]float64, 0, len(c.Points))
	maxY := 0.0
	for _, p := range c.Points {
		xs = append(xs, p.Date)
		ys = append(ys, p.Value)
		maxY = math.Max(maxY, p.Value)
	}
	minX, maxX := xRange(c.Points)
	if maxY <= 0 {
		maxY = 1
	}

	fill := fillColor(c.Options.BarFillColor)
	area := fill
	if area.A == 255 {
		area = fill.WithAlpha(200)
	}
	margin := c.Canvas.Margin
	ch := chart.Chart{
		Title:  c.Title,
		Width:  int(c.Canvas.Width),
		Height: int(c.Canvas.Height),
		Background: chart.Style{Padding: chart.Box{
			Top:    int(margin.Top),
			Left:   int(margin.Left),
			Right:  int(margin.Right),
			Bottom: int(margin.Bottom),
		}},
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: chart.TimeToFloat64(minX), Max: chart.TimeToFloat64(maxX)},
			Ticks: timeTicks(c.XAxis.Ticks),
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxY},
			Ticks: valueTicks(c.YAxis.Ticks),
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "GDP",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: 1,
					StrokeColor: fill,
					FillColor:   area,
				},
			},
		},
	}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

// xRange spans the earliest to the latest date regardless of input order.
func xRange(points []gdpchart.DataPoint) (time.Time, time.Time) {
	lo, hi := points[0].Date, points[0].Date
	for _, p := range points[1:] {
		if p.Date.Before(lo) {
			lo = p.Date
		}
		if p.Date.After(hi) {
			hi = p.Date
		}
	}
	return lo, hi
}

func timeTicks(ticks []gdpchart.Tick) []chart.Tick {
	out := make([]chart.Tick, 0, len(ticks))
	for _, t := range ticks {
		at := time.UnixMilli(int64(t.Value)).UTC()
		out = append(out, chart.Tick{Value: chart.TimeToFloat64(at), Label: t.Label})
	}
	return out
}

func valueTicks(ticks []gdpchart.Tick) []chart.Tick {
	out := make([]chart.Tick, 0, len(ticks))
	for _, t := range ticks {
		out = append(out, chart.Tick{Value: t.Value, Label: t.Label})
	}
	return out
}

// fillColor accepts #rgb, #rrggbb, #rrggbbaa and CSS color names. Anything else falls back to the
// default series blue.
func fillColor(css string) drawing.Color {
	css = strings.ToLower(strings.TrimSpace(css))
	if named, ok := colornames.Map[css]; ok {
		return drawing.Color{R: named.R, G: named.G, B: named.B, A: named.A}
	}
	hex, ok := strings.CutPrefix(css, "#")
	if !ok {
		return chart.ColorBlue
	}
	switch len(hex) {
	case 3, 6:
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
			return chart.ColorBlue
		}
		return drawing.ColorFromHex(hex)
	case 8:
		alpha, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return chart.ColorBlue
		}
		if _, err := strconv.ParseUint(hex[:6], 16, 32); err != nil {
			return chart.ColorBlue
		}
		return drawing.ColorFromHex(hex[:6]).WithAlpha(uint8(alpha))
	}
	return chart.ColorBlue
}
