package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	ArchiCAD ArchiCADConfig `mapstructure:"archicad"`
	EPSGIO   EPSGIOConfig   `mapstructure:"epsgio"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type ArchiCADConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

// Address is the base URL of the ArchiCAD JSON automation port.
func (a ArchiCADConfig) Address() string {
	return fmt.Sprintf("http://%s:%d", a.Host, a.Port)
}

type EPSGIOConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // seconds
}

type CacheConfig struct {
	TTL int `mapstructure:"ttl"` // seconds, resolved CRS metadata
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8740)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("archicad.host", "127.0.0.1")
	v.SetDefault("archicad.port", 19723)
	v.SetDefault("archicad.timeout", 30)
	v.SetDefault("epsgio.base_url", "https://epsg.io")
	v.SetDefault("epsgio.timeout", 6)
	v.SetDefault("cache.ttl", 86400)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GEOREF_ARCHICAD_PORT → archicad.port
	v.SetEnvPrefix("GEOREF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.ArchiCAD.Host == "" {
		errs = append(errs, "archicad.host is required")
	}
	if c.ArchiCAD.Port <= 0 || c.ArchiCAD.Port > 65535 {
		errs = append(errs, fmt.Sprintf("archicad.port must be 1-65535, got %d", c.ArchiCAD.Port))
	}
	if c.ArchiCAD.Timeout <= 0 {
		errs = append(errs, "archicad.timeout must be positive")
	}
	if c.EPSGIO.BaseURL == "" {
		errs = append(errs, "epsgio.base_url is required")
	}
	if c.EPSGIO.Timeout <= 0 {
		errs = append(errs, "epsgio.timeout must be positive")
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, "cache.ttl must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
