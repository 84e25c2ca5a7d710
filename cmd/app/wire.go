//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/gdp-chart/internal/bootstrap"
	"github.com/yanqian/gdp-chart/internal/domain/gdpchart"
	"github.com/yanqian/gdp-chart/internal/infra/chartstore"
	"github.com/yanqian/gdp-chart/internal/infra/config"
	"github.com/yanqian/gdp-chart/internal/infra/gdp/fcc"
	httpiface "github.com/yanqian/gdp-chart/internal/interface/http"
	"github.com/yanqian/gdp-chart/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideChartConfig,
		provideGDPClient,
		provideChartStore,
		gdpchart.NewService,
		wire.Bind(new(gdpchart.DatasetLoader), new(*fcc.Client)),
		wire.Bind(new(gdpchart.Store), new(*chartstore.MemoryStore)),
		httpiface.NewChartHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
