package gdpchart

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/gdp-chart/pkg/metrics"
)

// Error codes surfaced by the chart domain.
const (
	CodeInvalidInput    = "invalid_input"
	CodeFetchFailure    = "fetch_failure"
	CodeNotFound        = "not_found"
	CodeTooltipDisabled = "tooltip_disabled"
)

// DateLayout is the ISO-8601 calendar date format used by the dataset.
const DateLayout = "2006-01-02"

// RawRecord is one (date, value) pair exactly as the upstream sent it.
type RawRecord struct {
	Date      string
	Value     float64
	ValueText string
}

// Dataset is the decoded upstream envelope.
type Dataset struct {
	Name        string
	Description string
	SourceName  string
	DisplayURL  string
	FromDate    string
	ToDate      string
	Records     []RawRecord
}

// DataPoint is a parsed record. DateTag and ValueTag keep the upstream strings.
type DataPoint struct {
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	DateTag  string    `json:"-"`
	ValueTag string    `json:"-"`
}

// Margin is the box between the outer canvas and the plotting area.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Canvas is the drawing surface a chart is rendered into.
type Canvas struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin Margin  `json:"margin"`
}

// InnerWidth is the width of the plotting area.
func (c Canvas) InnerWidth() float64 {
	return c.Width - c.Margin.Left - c.Margin.Right
}

// InnerHeight is the height of the plotting area.
func (c Canvas) InnerHeight() float64 {
	return c.Height - c.Margin.Top - c.Margin.Bottom
}

// Options selects between the interactive and the static rendition.
type Options struct {
	EnableTooltip bool   `json:"enableTooltip"`
	BarFillColor  string `json:"barFillColor"`
}

var colorPattern = regexp.MustCompile(`^(#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})|[a-zA-Z]{3,32})$`)

// Validate rejects fill colors that are neither hex nor a bare CSS color name.
func (o Options) Validate() error {
	if !colorPattern.MatchString(strings.TrimSpace(o.BarFillColor)) {
		return errInvalidColor
	}
	return nil
}

// Config wires runtime dependencies for the chart domain.
type Config struct {
	Title     string
	Canvas    Canvas
	Defaults  Options
	TickCount int
}

// Request carries per-build overrides of the configured defaults.
type Request struct {
	EnableTooltip *bool   `json:"enableTooltip"`
	BarFillColor  *string `json:"barFillColor"`
}

// Tick is one labelled axis mark.
type Tick struct {
	Value  float64 `json:"value"`
	Offset float64 `json:"offset"`
	Label  string  `json:"label"`
}

// Axis is an axis decoration positioned inside the plotting area.
type Axis struct {
	ID          string  `json:"id"`
	Orientation string  `json:"orientation"`
	TranslateX  float64 `json:"translateX"`
	TranslateY  float64 `json:"translateY"`
	RangeStart  float64 `json:"rangeStart"`
	RangeEnd    float64 `json:"rangeEnd"`
	Ticks       []Tick  `json:"ticks"`
}

// Bar is the rendered rectangle for one data point.
type Bar struct {
	Index    int     `json:"index"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Fill     string  `json:"fill"`
	DataDate string  `json:"dataDate"`
	DataGDP  string  `json:"dataGdp"`
}

// Chart is a rendered chart instance. Layout fields are immutable after Render;
// tooltip and hover state are guarded by mu.
type Chart struct {
	ID        string
	Title     string
	Caption   string
	Canvas    Canvas
	Options   Options
	Points    []DataPoint
	XAxis     Axis
	YAxis     Axis
	Bars      []Bar
	CreatedAt time.Time
	Stats     metrics.PipelineStats

	mu      sync.Mutex
	tooltip *Tooltip
	hover   []HoverState
}

// View is the serializable snapshot of a chart.
type View struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Caption   string                `json:"caption,omitempty"`
	Canvas    Canvas                `json:"canvas"`
	Options   Options               `json:"options"`
	XAxis     Axis                  `json:"xAxis"`
	YAxis     Axis                  `json:"yAxis"`
	Bars      []Bar                 `json:"bars"`
	Tooltip   *Tooltip              `json:"tooltip,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
	Stats     metrics.PipelineStats `json:"stats"`
}

// View copies the chart into a value safe to hand to encoders.
func (c *Chart) View() View {
	v := View{
		ID:        c.ID,
		Title:     c.Title,
		Caption:   c.Caption,
		Canvas:    c.Canvas,
		Options:   c.Options,
		XAxis:     c.XAxis,
		YAxis:     c.YAxis,
		Bars:      c.Bars,
		CreatedAt: c.CreatedAt,
		Stats:     c.Stats,
	}
	if t, ok := c.Tooltip(); ok {
		v.Tooltip = &t
	}
	return v
}
