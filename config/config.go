package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"kuanb/gosm-geo/geom"
)

// Config holds the application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Geo     GeoConfig     `mapstructure:"geo"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// GeoConfig controls how requests reach package geom
type GeoConfig struct {
	DefaultUnit        string `mapstructure:"default_unit"`
	Strict             bool   `mapstructure:"strict"`
	MaxPolygonVertices int    `mapstructure:"max_polygon_vertices"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	LogInterval time.Duration `mapstructure:"log_interval"`
}

// Addr returns host:port for the HTTP listener
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Unit parses DefaultUnit
func (g GeoConfig) Unit() (geom.DistanceUnit, error) {
	return geom.ParseDistanceUnit(g.DefaultUnit)
}

// Load reads defaults, then the optional config file, then GEOTOOL_* environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GEOTOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.no_color", false)

	v.SetDefault("geo.default_unit", "nm")
	v.SetDefault("geo.strict", true)
	v.SetDefault("geo.max_polygon_vertices", 10000)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.log_interval", 30*time.Second)
}

// Validate checks values that would otherwise fail later at startup
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if _, err := c.Geo.Unit(); err != nil {
		return fmt.Errorf("geo.default_unit: %w", err)
	}
	if c.Geo.MaxPolygonVertices < 3 {
		return fmt.Errorf("geo.max_polygon_vertices must be at least 3, got %d", c.Geo.MaxPolygonVertices)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	return nil
}
