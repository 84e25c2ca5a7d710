package svgout

import (
	"fmt"
	"io"

	"github.com/yanqian/gdp-chart/internal/domain/gdpchart"
)

type pageData struct {
	SVG            svgData
	Title          string
	Caption        string
	Interactive    bool
	OffsetX        float64
	OffsetY        float64
	VisibleOpacity float64
}

// WritePage writes an HTML document embedding the chart. Interactive charts get a tooltip
// element and a hover script that follows the same state machine as gdpchart.Chart.
func WritePage(w io.Writer, chart *gdpchart.Chart) error {
	data := pageData{
		SVG:            newSVGData(chart),
		Title:          chart.Title,
		Caption:        chart.Caption,
		Interactive:    chart.Options.EnableTooltip,
		OffsetX:        gdpchart.TooltipOffsetX,
		OffsetY:        gdpchart.TooltipOffsetY,
		VisibleOpacity: gdpchart.TooltipVisibleOpacity,
	}
	if err := templates.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

const pageTemplate = `{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
#chart .bar:hover { fill: #1b3a6b; }
#tooltip { position: absolute; pointer-events: none; padding: 6px 10px; border-radius: 4px; background: #222; color: #fff; font-size: 12px; white-space: pre-line; }
.caption { color: #666; font-size: 12px; }
</style>
</head>
<body>
<h1 id="title">{{.Title}}</h1>
{{template "svg" .SVG}}
{{- if .Caption}}
<p class="caption">{{.Caption}}</p>
{{- end}}
{{- if .Interactive}}
<div id="tooltip" style="opacity: 0"></div>
<script>
(function () {
  var offsetX = {{.OffsetX}}, offsetY = {{.OffsetY}}, visible = {{.VisibleOpacity}};
  var tooltip = document.getElementById("tooltip");
  var hovered = null;
  document.querySelectorAll("#chart rect.bar").forEach(function (bar) {
    bar.addEventListener("mouseover", function (event) {
      hovered = bar;
      tooltip.style.opacity = visible;
      tooltip.textContent = bar.getAttribute("data-tooltip");
      tooltip.setAttribute("data-date", bar.getAttribute("data-date"));
      tooltip.style.left = (event.pageX + offsetX) + "px";
      tooltip.style.top = (event.pageY + offsetY) + "px";
    });
    bar.addEventListener("mouseout", function () {
      if (hovered !== bar) {
        return;
      }
      hovered = null;
      tooltip.style.opacity = 0;
    });
  });
})();
</script>
{{- end}}
</body>
</html>
{{end}}`
