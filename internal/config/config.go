package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vango-dev/routetable/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "routetable.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ROUTETABLE_"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultServiceName names the service in traces.
	DefaultServiceName = "routetable"

	// DefaultLoadTimeout bounds a single view load.
	DefaultLoadTimeout = 10 * time.Second
)

// Config represents the complete routetable.json configuration.
type Config struct {
	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server,omitempty" envPrefix:"SERVER_"`

	// Routes contains route table configuration.
	Routes RoutesConfig `json:"routes,omitempty" envPrefix:"ROUTES_"`

	// Chunks contains view chunk storage configuration.
	Chunks ChunksConfig `json:"chunks,omitempty" envPrefix:"CHUNKS_"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics,omitempty" envPrefix:"METRICS_"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing,omitempty" envPrefix:"TRACING_"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty" envPrefix:"LOG_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" env:"HOST"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" env:"PORT"`

	// LoadTimeout bounds a single view load (e.g., "10s").
	LoadTimeout string `json:"loadTimeout,omitempty" env:"LOAD_TIMEOUT"`

	// NavRate is the number of live navigations per second allowed per
	// websocket connection. Zero disables the limit.
	NavRate float64 `json:"navRate,omitempty" env:"NAV_RATE"`
}

// RoutesConfig contains route table settings.
type RoutesConfig struct {
	// Manifest is the YAML route manifest. Empty serves the built-in table.
	Manifest string `json:"manifest,omitempty" env:"MANIFEST"`
}

// ChunksConfig contains view chunk storage settings.
type ChunksConfig struct {
	// Dir is the directory holding chunk files. Empty uses the built-in chunks.
	Dir string `json:"dir,omitempty" env:"DIR"`

	// Extension is appended to chunk names (default: ".html").
	Extension string `json:"extension,omitempty" env:"EXTENSION"`

	// Cache keeps loaded views in memory.
	Cache bool `json:"cache,omitempty" env:"CACHE"`

	// S3 reads chunks from a bucket instead of Dir when Bucket is set.
	S3 S3Config `json:"s3,omitempty" envPrefix:"S3_"`
}

// S3Config contains S3 chunk storage settings.
type S3Config struct {
	Bucket   string `json:"bucket,omitempty" env:"BUCKET"`
	Prefix   string `json:"prefix,omitempty" env:"PREFIX"`
	Region   string `json:"region,omitempty" env:"REGION"`
	Endpoint string `json:"endpoint,omitempty" env:"ENDPOINT"`

	// PathStyle forces path-style addressing, needed by most S3-compatible stores.
	PathStyle bool `json:"pathStyle,omitempty" env:"PATH_STYLE"`

	// Credentials are read from the environment only.
	AccessKeyID     string `json:"-" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `json:"-" env:"SECRET_ACCESS_KEY"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled serves metrics and instruments view loads.
	Enabled bool `json:"enabled,omitempty" env:"ENABLED"`

	// Path is the metrics endpoint path.
	Path string `json:"path,omitempty" env:"PATH"`

	// Namespace prefixes metric names.
	Namespace string `json:"namespace,omitempty" env:"NAMESPACE"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled exports spans to Endpoint.
	Enabled bool `json:"enabled,omitempty" env:"ENABLED"`

	// Endpoint is the OTLP/HTTP collector URL.
	Endpoint string `json:"endpoint,omitempty" env:"ENDPOINT"`

	// ServiceName is reported as service.name.
	ServiceName string `json:"serviceName,omitempty" env:"SERVICE_NAME"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" env:"LEVEL"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" env:"FORMAT"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			LoadTimeout: DefaultLoadTimeout.String(),
		},
		Chunks: ChunksConfig{
			Extension: ".html",
			Cache:     true,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      DefaultMetricsPath,
			Namespace: "routetable",
		},
		Tracing: TracingConfig{
			ServiceName: DefaultServiceName,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the specified directory. A missing
// routetable.json is not an error: defaults and environment overrides apply.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ConfigFileName)
	cfg, err := LoadFile(path)
	if err == nil {
		return cfg, nil
	}
	var e *errors.Error
	if errors.As(err, &e) && e.Code == "E101" {
		cfg = New()
		cfg.configPath = path
		if err := cfg.ApplyEnv(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return nil, err
}

// LoadFile reads configuration from the specified file path, then applies
// environment overrides.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E101").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or set ROUTETABLE_* environment variables")
		}
		return nil, errors.New("E100").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E100").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides fields from ROUTETABLE_* environment variables. Unset
// variables leave the current values alone.
func (c *Config) ApplyEnv() error {
	if err := ParseEnv(c); err != nil {
		return errors.New("E103").Wrap(err).
			WithSuggestion("Check the ROUTETABLE_* variables in your environment")
	}
	c.applyDefaults()
	return nil
}

// ParseEnv loads ROUTETABLE_* environment variables into target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return errors.Newf(errors.CategoryConfig, "parse env").Wrap(err)
	}
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.LoadTimeout == "" {
		c.Server.LoadTimeout = DefaultLoadTimeout.String()
	}

	if c.Chunks.Extension == "" {
		c.Chunks.Extension = ".html"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "routetable"
	}

	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = DefaultServiceName
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E102").
			WithDetail("server.port must be between 0 and 65535")
	}
	if d, err := time.ParseDuration(c.Server.LoadTimeout); err != nil || d <= 0 {
		return errors.New("E102").
			WithDetail("server.loadTimeout must be a positive duration such as \"10s\"")
	}
	if c.Server.NavRate < 0 {
		return errors.New("E102").
			WithDetail("server.navRate must not be negative")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E102").
			WithDetail("metrics.path must start with /")
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return errors.New("E102").
			WithDetail("tracing.endpoint is required when tracing is enabled").
			WithSuggestion("Set ROUTETABLE_TRACING_ENDPOINT=http://localhost:4318")
	}
	if _, ok := parseLevel(c.Log.Level); !ok {
		return errors.New("E102").
			WithDetail("log.level must be one of debug, info, warn, error")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("E102").
			WithDetail("log.format must be text or json")
	}
	return nil
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// LoadTimeout returns the parsed view load timeout.
func (c *Config) LoadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.LoadTimeout)
	if err != nil || d <= 0 {
		return DefaultLoadTimeout
	}
	return d
}

// ManifestPath returns the manifest path resolved against the config
// directory, or "" when no manifest is configured.
func (c *Config) ManifestPath() string {
	return c.resolve(c.Routes.Manifest)
}

// ChunksPath returns the chunk directory resolved against the config
// directory, or "" when none is configured.
func (c *Config) ChunksPath() string {
	return c.resolve(c.Chunks.Dir)
}

// UseS3 reports whether chunks are read from S3.
func (c *Config) UseS3() bool {
	return c.Chunks.S3.Bucket != ""
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	level, _ := parseLevel(c.Log.Level)
	return level
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelInfo, false
}
