package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
// Values come from defaults, then an optional YAML file, then environment variables.
type Config struct {
	Server    ServerConfig  `yaml:"server"`
	CORS      CORSConfig    `yaml:"cors"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Notify    NotifyConfig  `yaml:"notify"`
	LogLevel  string        `yaml:"logLevel" validate:"oneof=debug info warn error"`
	LogFormat string        `yaml:"logFormat" validate:"oneof=json text"`
}

// ServerConfig holds HTTP server settings; timeouts are in seconds
type ServerConfig struct {
	Port            string `yaml:"port" validate:"required,numeric"`
	Host            string `yaml:"host"`
	ReadTimeout     int    `yaml:"readTimeout" validate:"min=1"`
	WriteTimeout    int    `yaml:"writeTimeout" validate:"min=1"`
	ShutdownTimeout int    `yaml:"shutdownTimeout" validate:"min=1"`
	RequestTimeout  int    `yaml:"requestTimeout" validate:"min=1"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins" validate:"min=1,dive,required"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"startswith=/"`
}

// NotifyConfig controls order-created notifications. An empty RabbitMQURL disables them.
type NotifyConfig struct {
	RabbitMQURL string `yaml:"rabbitmqURL" validate:"omitempty,url"`
	Queue       string `yaml:"queue" validate:"required"`
	Timeout     int    `yaml:"timeout" validate:"min=1"`
}

// Enabled reports whether a broker is configured
func (n NotifyConfig) Enabled() bool {
	return n.RabbitMQURL != ""
}

// Addr returns the listen address
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// Seconds converts a timeout setting to a time.Duration
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Host:            "0.0.0.0",
			ReadTimeout:     15,
			WriteTimeout:    15,
			ShutdownTimeout: 30,
			RequestTimeout:  60,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Notify: NotifyConfig{
			Queue:   "notifications",
			Timeout: 5,
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load builds the configuration. path may be empty, in which case no file is read.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Host = getEnv("HOST", c.Server.Host)
	c.Server.ReadTimeout = getEnvAsInt("READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.ShutdownTimeout = getEnvAsInt("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)
	c.Server.RequestTimeout = getEnvAsInt("REQUEST_TIMEOUT", c.Server.RequestTimeout)

	c.CORS.AllowedOrigins = getEnvAsSlice("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)

	c.Metrics.Enabled = getEnvAsBool("METRICS_ENABLED", c.Metrics.Enabled)
	c.Metrics.Path = getEnv("METRICS_PATH", c.Metrics.Path)

	c.Notify.RabbitMQURL = getEnv("RABBITMQ_URL", c.Notify.RabbitMQURL)
	c.Notify.Queue = getEnv("NOTIFY_QUEUE", c.Notify.Queue)
	c.Notify.Timeout = getEnvAsInt("NOTIFY_TIMEOUT", c.Notify.Timeout)

	c.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", c.LogLevel))
	c.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", c.LogFormat))
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
