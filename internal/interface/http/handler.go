package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/gdp-chart/internal/domain/gdpchart"
	"github.com/yanqian/gdp-chart/internal/infra/export/parquetout"
	"github.com/yanqian/gdp-chart/internal/infra/render/raster"
	"github.com/yanqian/gdp-chart/internal/infra/render/svgout"
	apperrors "github.com/yanqian/gdp-chart/pkg/errors"
)

const (
	contentTypeHTML    = "text/html; charset=utf-8"
	contentTypeSVG     = "image/svg+xml"
	contentTypePNG     = "image/png"
	contentTypeParquet = "application/vnd.apache.parquet"
)

// ChartHandler wires the HTTP transport to the chart service.
type ChartHandler struct {
	chartSvc gdpchart.Service
	logger   *slog.Logger
}

// NewChartHandler constructs the chart HTTP handler.
func NewChartHandler(chartSvc gdpchart.Service, logger *slog.Logger) *ChartHandler {
	return &ChartHandler{
		chartSvc: chartSvc,
		logger:   logger.With("component", "http.handler"),
	}
}

type chartQuery struct {
	Tooltip *bool   `form:"tooltip"`
	Fill    *string `form:"fill"`
}

func (q chartQuery) request() gdpchart.Request {
	return gdpchart.Request{EnableTooltip: q.Tooltip, BarFillColor: q.Fill}
}

// Health reports liveness.
func (h *ChartHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Page renders the chart as an HTML document.
func (h *ChartHandler) Page(c *gin.Context) {
	h.renderDocument(c, contentTypeHTML, svgout.WritePage)
}

// SVG renders the chart as a standalone SVG document.
func (h *ChartHandler) SVG(c *gin.Context) {
	h.renderDocument(c, contentTypeSVG, svgout.WriteSVG)
}

// renderDocument runs the pipeline once. A failed fetch still yields an empty chart area: the
// service has already logged the diagnostic and the viewer sees no error message.
func (h *ChartHandler) renderDocument(c *gin.Context, contentType string, write func(io.Writer, *gdpchart.Chart) error) {
	req, ok := bindChartQuery(c)
	if !ok {
		return
	}

	chart, err := h.chartSvc.Build(c.Request.Context(), req)
	if apperrors.IsCode(err, gdpchart.CodeFetchFailure) {
		chart, err = h.chartSvc.Blank(req)
	}
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	h.writeChart(c, contentType, chart, write)
}

// PNG renders a raster preview of the chart.
func (h *ChartHandler) PNG(c *gin.Context) {
	req, ok := bindChartQuery(c)
	if !ok {
		return
	}

	chart, err := h.chartSvc.Build(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	h.writeChart(c, contentTypePNG, chart, raster.WritePNG)
}

// CreateChart builds and keeps a chart, returning its JSON view.
func (h *ChartHandler) CreateChart(c *gin.Context) {
	var req gdpchart.Request
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	chart, err := h.chartSvc.Build(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.JSON(http.StatusCreated, chart.View())
}

// GetChart returns a kept chart.
func (h *ChartHandler) GetChart(c *gin.Context) {
	chart, err := h.chartSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, chart.View())
}

// ChartSVG renders a kept chart as SVG.
func (h *ChartHandler) ChartSVG(c *gin.Context) {
	chart, err := h.chartSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	h.writeChart(c, contentTypeSVG, chart, svgout.WriteSVG)
}

// ChartPoints exports the data points of a kept chart as Parquet.
func (h *ChartHandler) ChartPoints(c *gin.Context) {
	chart, err := h.chartSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="gdp-points.parquet"`)
	h.writeChart(c, contentTypeParquet, chart, func(w io.Writer, chart *gdpchart.Chart) error {
		return parquetout.WritePoints(w, chart.Points)
	})
}

// DeleteChart discards a kept chart.
func (h *ChartHandler) DeleteChart(c *gin.Context) {
	if err := h.chartSvc.Discard(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// HoverEnter moves the pointer onto a bar.
func (h *ChartHandler) HoverEnter(c *gin.Context) {
	index, ok := barIndex(c)
	if !ok {
		return
	}
	var pointer gdpchart.Pointer
	if err := c.ShouldBindJSON(&pointer); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	tip, err := h.chartSvc.HoverEnter(c.Request.Context(), c.Param("id"), index, pointer)
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, tip)
}

// HoverExit moves the pointer off a bar.
func (h *ChartHandler) HoverExit(c *gin.Context) {
	index, ok := barIndex(c)
	if !ok {
		return
	}
	tip, err := h.chartSvc.HoverExit(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		abortWithError(c, toHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, tip)
}

func (h *ChartHandler) writeChart(c *gin.Context, contentType string, chart *gdpchart.Chart, write func(io.Writer, *gdpchart.Chart) error) {
	var buf bytes.Buffer
	if err := write(&buf, chart); err != nil {
		if errors.Is(err, raster.ErrTooFewPoints) {
			abortWithError(c, NewHTTPError(http.StatusUnprocessableEntity, "not_enough_data", errMessage(err), err))
			return
		}
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "render_failed", "failed to render chart", err))
		return
	}
	if !chart.Stats.IsZero() {
		c.Header("Server-Timing", fmt.Sprintf("fetch;dur=%d, render;dur=%d", chart.Stats.FetchMillis, chart.Stats.RenderMillis))
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func bindChartQuery(c *gin.Context) (gdpchart.Request, bool) {
	var q chartQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return gdpchart.Request{}, false
	}
	return q.request(), true
}

func barIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "bar index must be an integer", err))
		return 0, false
	}
	return index, true
}

// toHTTPError maps domain error codes onto transport statuses.
func toHTTPError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := "chart_failed"
	switch apperrors.CodeOf(err) {
	case gdpchart.CodeInvalidInput:
		status, code = http.StatusBadRequest, "invalid_request"
	case gdpchart.CodeNotFound:
		status, code = http.StatusNotFound, gdpchart.CodeNotFound
	case gdpchart.CodeTooltipDisabled:
		status, code = http.StatusConflict, gdpchart.CodeTooltipDisabled
	case gdpchart.CodeFetchFailure:
		status, code = http.StatusBadGateway, gdpchart.CodeFetchFailure
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
