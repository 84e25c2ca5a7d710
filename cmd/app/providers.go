package main

import (
	"log/slog"

	"github.com/yanqian/gdp-chart/internal/domain/gdpchart"
	"github.com/yanqian/gdp-chart/internal/infra/chartstore"
	"github.com/yanqian/gdp-chart/internal/infra/config"
	"github.com/yanqian/gdp-chart/internal/infra/gdp/fcc"
)

func provideChartConfig(cfg *config.Config) gdpchart.Config {
	chart := cfg.Chart
	return gdpchart.Config{
		Title: chart.Title,
		Canvas: gdpchart.Canvas{
			Width:  chart.Width,
			Height: chart.Height,
			Margin: gdpchart.Margin{
				Top:    chart.Margin.Top,
				Right:  chart.Margin.Right,
				Bottom: chart.Margin.Bottom,
				Left:   chart.Margin.Left,
			},
		},
		Defaults: gdpchart.Options{
			EnableTooltip: chart.EnableTooltip,
			BarFillColor:  chart.BarFillColor,
		},
		TickCount: chart.TickCount,
	}
}

func provideGDPClient(cfg *config.Config, logger *slog.Logger) *fcc.Client {
	logger.Info("gdp source configured", "url", cfg.Source.URL, "timeout", cfg.Source.Timeout.String())
	return fcc.NewClient(cfg.Source.URL, cfg.Source.Timeout)
}

func provideChartStore(cfg *config.Config) *chartstore.MemoryStore {
	return chartstore.NewMemoryStore(cfg.Store.TTL, cfg.Store.MaxCharts)
}
