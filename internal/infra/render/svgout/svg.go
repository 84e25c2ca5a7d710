package svgout

import (
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"

	"github.com/yanqian/gdp-chart/internal/domain/gdpchart"
)

// tickSize is the length of an axis tick mark; labels sit tickPadding beyond it.
const (
	tickSize    = 6.0
	tickPadding = 3.0
)

var funcs = template.FuncMap{
	"num": formatNumber,
}

var templates = template.Must(template.New("chart").Funcs(funcs).Parse(svgTemplate + pageTemplate))

type svgData struct {
	Title       string
	Width       float64
	Height      float64
	Left        float64
	Top         float64
	InnerWidth  float64
	InnerHeight float64
	XAxis       axisData
	YAxis       axisData
	Bars        []barData
}

type axisData struct {
	ID         string
	TranslateX float64
	TranslateY float64
	Domain     string
	Ticks      []tickData
}

type tickData struct {
	Transform string
	Line      template.HTMLAttr
	Text      template.HTMLAttr
	Label     string
}

type barData struct {
	gdpchart.Bar
	Tooltip string
}

// WriteSVG writes the chart as a standalone SVG document. Bars carry the upstream date and
// value strings unchanged in data-date and data-gdp.
func WriteSVG(w io.Writer, chart *gdpchart.Chart) error {
	if err := templates.ExecuteTemplate(w, "svg", newSVGData(chart)); err != nil {
		return fmt.Errorf("render svg: %w", err)
	}
	return nil
}

func newSVGData(chart *gdpchart.Chart) svgData {
	canvas := chart.Canvas
	data := svgData{
		Title:       chart.Title,
		Width:       canvas.Width,
		Height:      canvas.Height,
		Left:        canvas.Margin.Left,
		Top:         canvas.Margin.Top,
		InnerWidth:  canvas.InnerWidth(),
		InnerHeight: canvas.InnerHeight(),
		XAxis:       bottomAxis(chart.XAxis),
		YAxis:       leftAxis(chart.YAxis),
		Bars:        make([]barData, 0, len(chart.Bars)),
	}
	for _, bar := range chart.Bars {
		b := barData{Bar: bar}
		if chart.Options.EnableTooltip {
			b.Tooltip = gdpchart.TooltipContent(bar)
		}
		data.Bars = append(data.Bars, b)
	}
	return data
}

func bottomAxis(axis gdpchart.Axis) axisData {
	out := axisData{
		ID:         axis.ID,
		TranslateX: axis.TranslateX,
		TranslateY: axis.TranslateY,
		Domain:     fmt.Sprintf("M%s,%sV0H%sV%s", formatNumber(axis.RangeStart), formatNumber(tickSize), formatNumber(axis.RangeEnd), formatNumber(tickSize)),
		Ticks:      make([]tickData, 0, len(axis.Ticks)),
	}
	for _, t := range axis.Ticks {
		out.Ticks = append(out.Ticks, tickData{
			Transform: fmt.Sprintf("translate(%s,0)", formatNumber(t.Offset)),
			Line:      template.HTMLAttr(fmt.Sprintf(`y2="%s"`, formatNumber(tickSize))),
			Text:      template.HTMLAttr(fmt.Sprintf(`y="%s" dy="0.71em" text-anchor="middle"`, formatNumber(tickSize+tickPadding))),
			Label:     t.Label,
		})
	}
	return out
}

func leftAxis(axis gdpchart.Axis) axisData {
	out := axisData{
		ID:         axis.ID,
		TranslateX: axis.TranslateX,
		TranslateY: axis.TranslateY,
		Domain:     fmt.Sprintf("M-%s,%sH0V%sH-%s", formatNumber(tickSize), formatNumber(axis.RangeStart), formatNumber(axis.RangeEnd), formatNumber(tickSize)),
		Ticks:      make([]tickData, 0, len(axis.Ticks)),
	}
	for _, t := range axis.Ticks {
		out.Ticks = append(out.Ticks, tickData{
			Transform: fmt.Sprintf("translate(0,%s)", formatNumber(t.Offset)),
			Line:      template.HTMLAttr(fmt.Sprintf(`x2="-%s"`, formatNumber(tickSize))),
			Text:      template.HTMLAttr(fmt.Sprintf(`x="-%s" dy="0.32em" text-anchor="end"`, formatNumber(tickSize+tickPadding))),
			Label:     t.Label,
		})
	}
	return out
}

// formatNumber prints coordinates with at most two decimals and no trailing zeros.
func formatNumber(v float64) string {
	rounded := math.Round(v*100) / 100
	if rounded == 0 {
		// drop the sign of negative zero
		rounded = 0
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

const svgTemplate = `{{define "svg"}}<svg xmlns="http://www.w3.org/2000/svg" id="chart" width="{{num .Width}}" height="{{num .Height}}" viewBox="0 0 {{num .Width}} {{num .Height}}" font-family="sans-serif" font-size="10">
<title>{{.Title}}</title>
<g transform="translate({{num .Left}},{{num .Top}})">
{{template "axis" .XAxis}}
{{template "axis" .YAxis}}
<g class="bars">
{{- range .Bars}}
<rect class="bar" data-index="{{.Index}}" data-date="{{.DataDate}}" data-gdp="{{.DataGDP}}"{{if .Tooltip}} data-tooltip="{{.Tooltip}}"{{end}} x="{{num .X}}" y="{{num .Y}}" width="{{num .Width}}" height="{{num .Height}}" fill="{{.Fill}}"></rect>
{{- end}}
</g>
</g>
</svg>{{end}}
{{define "axis"}}<g id="{{.ID}}" class="axis" transform="translate({{num .TranslateX}},{{num .TranslateY}})" fill="none" text-anchor="middle">
<path class="domain" stroke="currentColor" d="{{.Domain}}"></path>
{{- range .Ticks}}
<g class="tick" opacity="1" transform="{{.Transform}}"><line stroke="currentColor" {{.Line}}></line><text fill="currentColor" {{.Text}}>{{.Label}}</text></g>
{{- end}}
</g>{{end}}
`
