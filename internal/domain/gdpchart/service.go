package gdpchart

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/gdp-chart/pkg/errors"
	"github.com/yanqian/gdp-chart/pkg/metrics"
	"github.com/yanqian/gdp-chart/pkg/util"
)

// Service exposes the fetch → transform → render pipeline and chart interaction.
type Service interface {
	Build(ctx context.Context, req Request) (*Chart, error)
	Blank(req Request) (*Chart, error)
	Get(ctx context.Context, id string) (*Chart, error)
	Discard(ctx context.Context, id string) error
	HoverEnter(ctx context.Context, id string, index int, p Pointer) (Tooltip, error)
	HoverExit(ctx context.Context, id string, index int) (Tooltip, error)
}

// DatasetLoader fetches the upstream dataset.
type DatasetLoader interface {
	Load(ctx context.Context) (Dataset, error)
}

// Store keeps rendered charts addressable by ID.
type Store interface {
	Save(ctx context.Context, chart *Chart) error
	Get(ctx context.Context, id string) (*Chart, bool, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	cfg    Config
	loader DatasetLoader
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the chart domain.
func NewService(cfg Config, loader DatasetLoader, store Store, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		loader: loader,
		store:  store,
		logger: logger.With("component", "gdpchart.service"),
		now:    util.NowUTC,
	}
}

func (s *service) Build(ctx context.Context, req Request) (*Chart, error) {
	opts, err := s.resolveOptions(req)
	if err != nil {
		return nil, err
	}

	fetchStart := time.Now()
	dataset, err := s.loader.Load(ctx)
	if err == nil {
		var points []DataPoint
		if points, err = ToDataPoints(dataset.Records); err == nil {
			return s.finish(ctx, dataset, points, opts, util.MillisSince(fetchStart))
		}
	}
	s.logger.Error("gdp dataset fetch failed", "error", err)
	return nil, apperrors.Wrap(CodeFetchFailure, "failed to fetch GDP dataset", err)
}

func (s *service) finish(ctx context.Context, dataset Dataset, points []DataPoint, opts Options, fetchMs int64) (*Chart, error) {
	renderStart := time.Now()
	chart := render(points, s.cfg.Canvas, opts, s.cfg.TickCount)
	chart.Title = firstNonEmpty(s.cfg.Title, dataset.Name)
	chart.Caption = caption(dataset)
	chart.CreatedAt = s.now()
	chart.Stats = metrics.PipelineStats{
		Records:      len(points),
		FetchMillis:  fetchMs,
		RenderMillis: util.MillisSince(renderStart),
	}

	if err := s.store.Save(ctx, chart); err != nil {
		return nil, apperrors.Wrap("store_error", "failed to keep rendered chart", err)
	}
	s.logger.Info("gdp chart rendered", "chart_id", chart.ID, "bars", len(chart.Bars), "tooltip", opts.EnableTooltip, "fetch_ms", fetchMs)
	return chart, nil
}

func (s *service) Blank(req Request) (*Chart, error) {
	opts, err := s.resolveOptions(req)
	if err != nil {
		return nil, err
	}
	chart := render(nil, s.cfg.Canvas, opts, s.cfg.TickCount)
	chart.Title = s.cfg.Title
	chart.CreatedAt = s.now()
	return chart, nil
}

func (s *service) Get(ctx context.Context, id string) (*Chart, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.Wrap(CodeInvalidInput, "chart id cannot be empty", nil)
	}
	chart, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap("store_error", "failed to load chart", err)
	}
	if !ok {
		return nil, apperrors.Wrap(CodeNotFound, fmt.Sprintf("chart %s not found", id), nil)
	}
	return chart, nil
}

func (s *service) Discard(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return apperrors.Wrap("store_error", "failed to discard chart", err)
	}
	return nil
}

func (s *service) HoverEnter(ctx context.Context, id string, index int, p Pointer) (Tooltip, error) {
	chart, err := s.Get(ctx, id)
	if err != nil {
		return Tooltip{}, err
	}
	tip, err := chart.HoverEnter(index, p)
	if err != nil {
		return Tooltip{}, err
	}
	s.logger.Debug("bar hovered", "chart_id", id, "bar", index, "date", tip.DataDate)
	return tip, nil
}

func (s *service) HoverExit(ctx context.Context, id string, index int) (Tooltip, error) {
	chart, err := s.Get(ctx, id)
	if err != nil {
		return Tooltip{}, err
	}
	return chart.HoverExit(index)
}

func (s *service) resolveOptions(req Request) (Options, error) {
	opts := s.cfg.Defaults
	if req.EnableTooltip != nil {
		opts.EnableTooltip = *req.EnableTooltip
	}
	if req.BarFillColor != nil && strings.TrimSpace(*req.BarFillColor) != "" {
		opts.BarFillColor = strings.TrimSpace(*req.BarFillColor)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, apperrors.Wrap(CodeInvalidInput, "invalid chart options", err)
	}
	return opts, nil
}

func caption(d Dataset) string {
	source := strings.TrimSpace(d.SourceName)
	if source == "" {
		return ""
	}
	if d.FromDate != "" && d.ToDate != "" {
		return fmt.Sprintf("Source: %s, %s to %s", source, d.FromDate, d.ToDate)
	}
	return "Source: " + source
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
