package gdpchart

import (
	"math"
	"strings"

	"github.com/google/uuid"
)

// DefaultTickCount is the approximate number of ticks requested per axis.
const DefaultTickCount = 10

// barGap is the horizontal space reserved between neighbouring bars.
const barGap = 1.0

// Render lays out axes and one bar per point, in input order. The scales are derived once
// from the full point set before any bar is positioned.
func Render(points []DataPoint, canvas Canvas, opts Options) *Chart {
	return render(points, canvas, opts, DefaultTickCount)
}

func render(points []DataPoint, canvas Canvas, opts Options, tickCount int) *Chart {
	if tickCount <= 0 {
		tickCount = DefaultTickCount
	}
	width, height := canvas.InnerWidth(), canvas.InnerHeight()
	opts.BarFillColor = strings.TrimSpace(opts.BarFillColor)

	lo, hi := dateExtent(points)
	x := NewTimeScale(lo, hi, 0, width)
	y := NewLinearScale(0, maxValue(points), height, 0)

	chart := &Chart{
		ID:      uuid.NewString(),
		Canvas:  canvas,
		Options: opts,
		Points:  points,
		XAxis: Axis{
			ID:          "x-axis",
			Orientation: "bottom",
			TranslateY:  height,
			RangeStart:  0,
			RangeEnd:    width,
		},
		YAxis: Axis{
			ID:          "y-axis",
			Orientation: "left",
			RangeStart:  height,
			RangeEnd:    0,
		},
		Bars: make([]Bar, 0, len(points)),
	}
	if len(points) == 0 {
		chart.XAxis.Ticks = []Tick{}
		chart.YAxis.Ticks = []Tick{}
	} else {
		chart.XAxis.Ticks = x.Ticks(tickCount)
		chart.YAxis.Ticks = y.Ticks(tickCount)
	}

	barWidth := barWidthFor(width, len(points))
	for i, p := range points {
		top := y.Map(p.Value)
		chart.Bars = append(chart.Bars, Bar{
			Index:    i,
			X:        x.Map(p.Date),
			Y:        top,
			Width:    barWidth,
			Height:   height - top,
			Fill:     opts.BarFillColor,
			DataDate: p.DateTag,
			DataGDP:  p.ValueTag,
		})
	}

	if opts.EnableTooltip {
		chart.tooltip = &Tooltip{HoveredBar: -1}
		chart.hover = make([]HoverState, len(points))
	}
	return chart
}

func barWidthFor(width float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Max(0, width/float64(count)-barGap)
}
