// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	// DefaultPort is the health endpoint port when PORT is unset.
	DefaultPort = 3000
	// DefaultLedgerTimezone is the zone used for timestamps and month headers.
	DefaultLedgerTimezone = "Asia/Ho_Chi_Minh"
)

// Telemetry exporter names accepted in TELEMETRY_EXPORTER.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// Config holds all configuration for the application.
type Config struct {
	BotToken        string
	WebhookURL      string
	QueryWebhookURL string
	Port            int
	LogLevel        string
	LogFormat       string
	LedgerTimezone  string
	GatewayTimeout  time.Duration

	TelemetryExporter string
	OTLPProtocol      string
	ServiceName       string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:        os.Getenv("BOT_TOKEN"),
		WebhookURL:      strings.TrimSpace(os.Getenv("WEBHOOK_URL")),
		QueryWebhookURL: strings.TrimSpace(os.Getenv("WEBHOOK_URL_V2")),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		LogFormat:       strings.ToLower(os.Getenv("LOG_FORMAT")),
		OTLPProtocol:    os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"),
		ServiceName:     os.Getenv("OTEL_SERVICE_NAME"),
	}

	if cfg.BotToken == "" {
		cfg.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	}

	cfg.Port = DefaultPort
	if portStr := os.Getenv("PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil && p > 0 && p <= 65535 {
			cfg.Port = p
		}
	}

	cfg.LedgerTimezone = DefaultLedgerTimezone
	if tz := os.Getenv("LEDGER_TIMEZONE"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			cfg.LedgerTimezone = tz
		}
	}

	if timeoutStr := os.Getenv("GATEWAY_TIMEOUT"); timeoutStr != "" {
		if d, err := time.ParseDuration(timeoutStr); err == nil && d > 0 {
			cfg.GatewayTimeout = d
		}
	}

	cfg.TelemetryExporter = strings.ToLower(strings.TrimSpace(os.Getenv("TELEMETRY_EXPORTER")))
	if cfg.TelemetryExporter == "" {
		cfg.TelemetryExporter = ExporterNone
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "ledger-bot"
	}

	// Validate required configuration.
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.BotToken == "" {
		errs = append(errs, "BOT_TOKEN is required")
	}

	if msg := checkWebhookURL("WEBHOOK_URL", c.WebhookURL); msg != "" {
		errs = append(errs, msg)
	}

	if msg := checkWebhookURL("WEBHOOK_URL_V2", c.QueryWebhookURL); msg != "" {
		errs = append(errs, msg)
	}

	switch c.TelemetryExporter {
	case ExporterNone, ExporterStdout, ExporterOTLP:
	default:
		errs = append(errs, fmt.Sprintf("TELEMETRY_EXPORTER must be one of none, stdout, otlp (got %q)", c.TelemetryExporter))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// checkWebhookURL returns a validation message, or "" when raw is usable.
func checkWebhookURL(name, raw string) string {
	if raw == "" {
		return name + " is required"
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return name + " must be an absolute http(s) URL"
	}
	return ""
}

// HealthAddr returns the listen address of the health endpoint.
func (c *Config) HealthAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Location returns the ledger timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.LedgerTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
