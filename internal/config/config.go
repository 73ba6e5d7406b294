package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	KeyCRM    KeyCRMConfig
	Tracing   TracingConfig
	LogLevel  string
	LogFormat string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	// RequestTimeout bounds a request, including the KeyCRM call.
	// WriteTimeout must be longer or the response is cut off first.
	RequestTimeout  int
	MaxBodyBytes    int64
}

type CORSConfig struct {
	AllowedOrigins []string
}

// KeyCRMConfig holds the CRM secrets. They are not checked by Validate:
// a missing secret is reported on each submission instead of stopping the server.
type KeyCRMConfig struct {
	Token    string
	SourceID string
	BaseURL  string
}

// TracingConfig selects the span exporter: none, stdout or otlp
type TracingConfig struct {
	Exporter     string
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("read_timeout", 15)
	v.SetDefault("write_timeout", 75)
	v.SetDefault("shutdown_timeout", 30)
	v.SetDefault("request_timeout", 60)
	v.SetDefault("max_body_bytes", 1<<20)
	v.SetDefault("cors_allowed_origins", "*")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("keycrm_base_url", "https://openapi.keycrm.app/v1")
	v.SetDefault("tracing_exporter", "none")
	v.SetDefault("otel_exporter_otlp_endpoint", "localhost:4317")
	v.SetDefault("otel_service_name", "order-intake")

	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("port"),
			Host:            v.GetString("host"),
			ReadTimeout:     v.GetInt("read_timeout"),
			WriteTimeout:    v.GetInt("write_timeout"),
			ShutdownTimeout: v.GetInt("shutdown_timeout"),
			RequestTimeout:  v.GetInt("request_timeout"),
			MaxBodyBytes:    v.GetInt64("max_body_bytes"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		},
		KeyCRM: KeyCRMConfig{
			Token:    strings.TrimSpace(v.GetString("keycrm_token")),
			SourceID: strings.TrimSpace(v.GetString("keycrm_source_id")),
			BaseURL:  v.GetString("keycrm_base_url"),
		},
		Tracing: TracingConfig{
			Exporter:     strings.ToLower(v.GetString("tracing_exporter")),
			OTLPEndpoint: v.GetString("otel_exporter_otlp_endpoint"),
			ServiceName:  v.GetString("otel_service_name"),
		},
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.Server.WriteTimeout <= c.Server.RequestTimeout {
		return fmt.Errorf("WRITE_TIMEOUT (%ds) must be longer than REQUEST_TIMEOUT (%ds)",
			c.Server.WriteTimeout, c.Server.RequestTimeout)
	}

	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one CORS origin must be configured")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	validLogFormats := map[string]bool{"json": true, "console": true}
	if !validLogFormats[strings.ToLower(c.LogFormat)] {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.LogFormat)
	}

	switch c.Tracing.Exporter {
	case "", "none", "stdout", "otlp":
	default:
		return fmt.Errorf("invalid tracing exporter: %s (must be none, stdout, or otlp)", c.Tracing.Exporter)
	}

	return nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
