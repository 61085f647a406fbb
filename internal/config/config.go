package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Content  ContentConfig  `mapstructure:"content"`
}

type ServerConfig struct {
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

// SnapshotConfig controls the optional persistence hook of the learner
// store. The store itself is in-process; when enabled, profiles are
// restored from MySQL at startup and written back when the host asks.
type SnapshotConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

// ContentConfig points at an optional lesson catalog override file;
// when Watch is set the file is hot-reloaded on change.
type ContentConfig struct {
	CatalogPath string `mapstructure:"catalog_path"`
	Watch       bool   `mapstructure:"watch"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("QURAN_AGENT")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Snapshot
	viper.BindEnv("snapshot.enabled", "SNAPSHOT_ENABLED")

	// Metrics
	viper.BindEnv("metrics.enabled", "METRICS_ENABLED")
	viper.BindEnv("metrics.addr", "METRICS_ADDR")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	// Content catalog
	viper.BindEnv("content.catalog_path", "CONTENT_CATALOG_PATH")

	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("metrics.addr", ":9091")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
