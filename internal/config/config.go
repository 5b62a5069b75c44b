package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Neo4j   Neo4jConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host              string
	Port              int
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	AllowedOriginsCSV string
}

// Neo4jConfig describes connectivity to the graph database.
type Neo4jConfig struct {
	URI           string
	Username      string
	Password      string
	Database      string
	MaxResultRows int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level string
	Dir   string
}

const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 5001
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultDatabase        = "neo4j"
	defaultMaxResultRows   = 50000
	defaultLoggingLevel    = "info"
	defaultLoggingDir      = "logs"
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_HOST", defaultHost)
	v.SetDefault("SERVER_PORT", defaultPort)
	v.SetDefault("SERVER_READ_TIMEOUT", defaultReadTimeout)
	v.SetDefault("SERVER_WRITE_TIMEOUT", defaultWriteTimeout)
	v.SetDefault("SERVER_IDLE_TIMEOUT", defaultIdleTimeout)
	v.SetDefault("SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout)
	v.SetDefault("NEO4J_DATABASE", defaultDatabase)
	v.SetDefault("NEO4J_MAX_RESULT_ROWS", defaultMaxResultRows)
	v.SetDefault("LOG_LEVEL", defaultLoggingLevel)
	v.SetDefault("LOG_DIR", defaultLoggingDir)

	cfg := Config{
		HTTP: HTTPConfig{
			Host:              v.GetString("SERVER_HOST"),
			Port:              v.GetInt("SERVER_PORT"),
			ReadTimeout:       v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:      v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:       v.GetDuration("SERVER_IDLE_TIMEOUT"),
			ShutdownTimeout:   v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
			AllowedOriginsCSV: v.GetString("SERVER_ALLOWED_ORIGINS"),
		},
		Neo4j: Neo4jConfig{
			URI:           v.GetString("NEO4J_URI"),
			Username:      v.GetString("NEO4J_USER"),
			Password:      v.GetString("NEO4J_PASSWORD"),
			Database:      v.GetString("NEO4J_DATABASE"),
			MaxResultRows: v.GetInt("NEO4J_MAX_RESULT_ROWS"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
	}

	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return Config{}, fmt.Errorf("port %d is out of range", cfg.HTTP.Port)
	}
	if cfg.Neo4j.MaxResultRows < 0 {
		return Config{}, fmt.Errorf("NEO4J_MAX_RESULT_ROWS must not be negative")
	}

	return cfg, nil
}
