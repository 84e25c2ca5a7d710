package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yanqian/gdp-chart/internal/domain/gdpchart"
)

// DefaultSourceURL is the public GDP dataset rendered by the service.
const DefaultSourceURL = "https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/GDP-data.json"

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP   HTTPConfig   `yaml:"http"`
	Log    LogConfig    `yaml:"log"`
	Source SourceConfig `yaml:"source"`
	Chart  ChartConfig  `yaml:"chart"`
	Store  StoreConfig  `yaml:"store"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address         string          `yaml:"address"`
	ReadTimeout     time.Duration   `yaml:"readTimeout"`
	WriteTimeout    time.Duration   `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration   `yaml:"shutdownTimeout"`
	CORSOrigins     []string        `yaml:"corsOrigins"`
	RateLimit       RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// SourceConfig points at the upstream dataset.
type SourceConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ChartConfig holds the drawing surface and the default render options.
type ChartConfig struct {
	Title         string       `yaml:"title"`
	Width         float64      `yaml:"width"`
	Height        float64      `yaml:"height"`
	Margin        MarginConfig `yaml:"margin"`
	EnableTooltip bool         `yaml:"enableTooltip"`
	BarFillColor  string       `yaml:"barFillColor"`
	TickCount     int          `yaml:"tickCount"`
}

// MarginConfig is the margin box around the plotting area.
type MarginConfig struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// StoreConfig bounds the in-memory chart registry.
type StoreConfig struct {
	TTL       time.Duration `yaml:"ttl"`
	MaxCharts int           `yaml:"maxCharts"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("GDP_SOURCE_URL"); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv("GDP_FETCH_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Source.Timeout = parsed
		}
	}
	if v := os.Getenv("CHART_TITLE"); v != "" {
		cfg.Chart.Title = v
	}
	if v := os.Getenv("CHART_WIDTH"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Chart.Width = parsed
		}
	}
	if v := os.Getenv("CHART_HEIGHT"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Chart.Height = parsed
		}
	}
	if v := os.Getenv("CHART_TOOLTIP_ENABLED"); v != "" {
		cfg.Chart.EnableTooltip = parseBool(v)
	}
	if v := os.Getenv("CHART_BAR_FILL"); v != "" {
		cfg.Chart.BarFillColor = v
	}
	if v := os.Getenv("CHART_TICK_COUNT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Chart.TickCount = parsed
		}
	}
	if v := os.Getenv("CHART_STORE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Store.TTL = parsed
		}
	}
	if v := os.Getenv("CHART_STORE_MAX"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Store.MaxCharts = parsed
		}
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Source: SourceConfig{
			URL:     DefaultSourceURL,
			Timeout: 10 * time.Second,
		},
		Chart: ChartConfig{
			Title:  "United States GDP",
			Width:  900,
			Height: 500,
			Margin: MarginConfig{
				Top:    80,
				Right:  60,
				Bottom: 50,
				Left:   100,
			},
			EnableTooltip: true,
			BarFillColor:  "#0de21a",
			TickCount:     10,
		},
		Store: StoreConfig{
			TTL:       30 * time.Minute,
			MaxCharts: 256,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.Source.URL) == "" {
		return errors.New("source.url cannot be empty")
	}
	if u, err := url.Parse(c.Source.URL); err != nil || !u.IsAbs() {
		return errors.New("source.url must be an absolute URL")
	}
	if c.Source.Timeout < 0 {
		return errors.New("source.timeout cannot be negative")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return errors.New("chart.width and chart.height must be positive")
	}
	m := c.Chart.Margin
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return errors.New("chart.margin values cannot be negative")
	}
	if m.Left+m.Right >= c.Chart.Width || m.Top+m.Bottom >= c.Chart.Height {
		return errors.New("chart.margin leaves no plotting area")
	}
	if strings.TrimSpace(c.Chart.BarFillColor) == "" {
		return errors.New("chart.barFillColor cannot be empty")
	}
	if err := (gdpchart.Options{BarFillColor: c.Chart.BarFillColor}).Validate(); err != nil {
		return fmt.Errorf("chart.barFillColor: %w", err)
	}
	if c.Chart.TickCount <= 0 {
		return errors.New("chart.tickCount must be positive")
	}
	if c.Store.TTL < 0 {
		return errors.New("store.ttl cannot be negative")
	}
	if c.Store.MaxCharts <= 0 {
		return errors.New("store.maxCharts must be positive")
	}
	return nil
}
