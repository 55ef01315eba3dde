package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	CORS      CORSConfig      `yaml:"cors"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Finnhub   FinnhubConfig   `yaml:"finnhub"`
	Auth      AuthConfig      `yaml:"auth"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Cache     CacheConfig     `yaml:"cache"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Chart     ChartConfig     `yaml:"chart"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	LogLevel  string          `yaml:"log_level"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `yaml:"port"`
	Host string `yaml:"host"`
	Addr string `yaml:"-"` // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// GatewayConfig points at the remote market-data / summarization backend.
// PriceSource selects where price series come from: "gateway" or "yahoo".
type GatewayConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	PriceSource string        `yaml:"price_source"`
}

// FinnhubConfig enables remote symbol search. An empty token means the
// built-in symbol universe is used instead.
type FinnhubConfig struct {
	Token    string `yaml:"token"`
	Exchange string `yaml:"exchange"`
}

// AuthConfig holds the fernet signing key and session lifetime.
type AuthConfig struct {
	FernetKey string        `yaml:"fernet_key"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// GeminiConfig switches the summary panel to Gemini when APIKey is set.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// CacheConfig controls the shared price-series cache.
type CacheConfig struct {
	SeriesTTL time.Duration `yaml:"series_ttl"`
}

// ScheduleConfig holds cron expressions (with seconds field).
type ScheduleConfig struct {
	MoversCron string `yaml:"movers_cron"`
	SweepCron  string `yaml:"sweep_cron"`
}

// ChartConfig holds chart defaults.
type ChartConfig struct {
	DefaultTickers []string      `yaml:"default_tickers"`
	DefaultRange   string        `yaml:"default_range"`
	SearchDebounce time.Duration `yaml:"search_debounce"`
}

// WorkspaceConfig controls how long idle per-user state is kept.
type WorkspaceConfig struct {
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Load reads configuration from an optional YAML file, the environment and a .env file.
// Precedence, lowest first: defaults, YAML file named by CONFIG_FILE, environment.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := config.mergeYAML(path); err != nil {
			return nil, err
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "5001",
			Host: "localhost",
		},
		Database: DatabaseConfig{
			Path: "./data/investif.db",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://localhost:3000",
				"http://localhost",
			},
		},
		Gateway: GatewayConfig{
			BaseURL:     "http://127.0.0.1:5000",
			Timeout:     15 * time.Second,
			PriceSource: "gateway",
		},
		Finnhub: FinnhubConfig{
			Exchange: "US",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.5-flash",
		},
		Cache: CacheConfig{
			SeriesTTL: 30 * time.Minute,
		},
		Schedule: ScheduleConfig{
			MoversCron: "0 */15 * * * *",
			SweepCron:  "0 */5 * * * *",
		},
		Chart: ChartConfig{
			DefaultTickers: []string{"AAPL"},
			DefaultRange:   "6mo",
			SearchDebounce: 300 * time.Millisecond,
		},
		Workspace: WorkspaceConfig{
			IdleTimeout: time.Hour,
		},
		LogLevel: "info",
	}
}

func (c *Config) mergeYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.CORS.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)
	c.Gateway.BaseURL = strings.TrimRight(getEnv("GATEWAY_BASE_URL", c.Gateway.BaseURL), "/")
	c.Gateway.PriceSource = getEnv("PRICE_SOURCE", c.Gateway.PriceSource)
	c.Finnhub.Token = getEnv("FINNHUB_TOKEN", c.Finnhub.Token)
	c.Finnhub.Exchange = getEnv("FINNHUB_EXCHANGE", c.Finnhub.Exchange)
	c.Auth.FernetKey = getEnv("FERNET_KEY", c.Auth.FernetKey)
	c.Gemini.APIKey = getEnv("GEMINI_API_KEY", c.Gemini.APIKey)
	c.Gemini.Model = getEnv("GEMINI_MODEL", c.Gemini.Model)
	c.Schedule.MoversCron = getEnv("MOVERS_CRON", c.Schedule.MoversCron)
	c.Schedule.SweepCron = getEnv("SWEEP_CRON", c.Schedule.SweepCron)
	c.Chart.DefaultTickers = getEnvList("CHART_DEFAULT_TICKERS", c.Chart.DefaultTickers)
	c.Chart.DefaultRange = getEnv("CHART_DEFAULT_RANGE", c.Chart.DefaultRange)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"GATEWAY_TIMEOUT", &c.Gateway.Timeout},
		{"TOKEN_TTL", &c.Auth.TokenTTL},
		{"SERIES_CACHE_TTL", &c.Cache.SeriesTTL},
		{"SEARCH_DEBOUNCE", &c.Chart.SearchDebounce},
		{"WORKSPACE_IDLE_TIMEOUT", &c.Workspace.IdleTimeout},
	}
	for _, d := range durations {
		v, err := getEnvDuration(d.key, *d.target)
		if err != nil {
			return err
		}
		*d.target = v
	}

	switch c.Gateway.PriceSource {
	case "gateway", "yahoo":
	default:
		return fmt.Errorf("PRICE_SOURCE must be gateway or yahoo, got %q", c.Gateway.PriceSource)
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvList reads a comma separated list.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnvDuration accepts Go duration strings ("15s") or plain seconds ("15").
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}
