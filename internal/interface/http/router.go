package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/gdp-chart/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *ChartHandler, logger *slog.Logger) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	logger = logger.With("component", "http.router")

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		errorHandlingMiddleware(logger),
		corsMiddleware(cfg.HTTP.CORSOrigins),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/chart") })
	router.GET("/chart", handler.Page)
	router.GET("/chart.svg", handler.SVG)
	router.GET("/chart.png", handler.PNG)

	api := router.Group("/api/v1")
	{
		api.POST("/charts", handler.CreateChart)
		api.GET("/charts/:id", handler.GetChart)
		api.DELETE("/charts/:id", handler.DeleteChart)
		api.GET("/charts/:id/svg", handler.ChartSVG)
		api.GET("/charts/:id/points.parquet", handler.ChartPoints)
		api.POST("/charts/:id/bars/:index/hover", handler.HoverEnter)
		api.DELETE("/charts/:id/bars/:index/hover", handler.HoverExit)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
