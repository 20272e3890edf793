// Package config loads the server configuration from an optional YAML file
// and the process environment. Environment variables always take precedence
// over file values.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds the full server configuration.
type Config struct {
	// Upstream patrimônio API.
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`

	// Logging.
	LogLevel string `yaml:"log_level"`

	// Transport selection.
	TransportMode string `yaml:"transport_mode"`

	// HTTP transport.
	HTTPHost    string   `yaml:"http_host"`
	HTTPPort    int      `yaml:"http_port"`
	APIKeys     []string `yaml:"api_keys"`
	JWTSecret   string   `yaml:"jwt_secret"`
	EnableCORS  bool     `yaml:"enable_cors"`
	CORSOrigins []string `yaml:"cors_origins"`

	// Metrics endpoint, disabled when empty.
	MetricsAddr string `yaml:"metrics_addr"`
}

// defaults returns a Config populated with default values.
func defaults() (cfg Config) {
	cfg = Config{
		LogLevel:      "info",
		TransportMode: TransportStdio,
		HTTPHost:      "0.0.0.0",
		HTTPPort:      3000,
		EnableCORS:    true,
		CORSOrigins:   []string{"*"},
	}
	return cfg
}

// Load builds the configuration from the optional CONFIG_FILE YAML file and
// the environment, then validates it.
func Load() (cfg Config, err error) {
	cfg = defaults()

	path := os.Getenv("CONFIG_FILE")
	if path != "" {
		err = loadFile(&cfg, path)
		if err != nil {
			return cfg, err
		}
	}

	applyEnv(&cfg)

	err = cfg.Validate()
	if err != nil {
		return cfg, err
	}

	return cfg, err
}

// loadFile merges YAML file values into cfg.
func loadFile(cfg *Config, path string) (err error) {
	data, readErr := os.ReadFile(path)
	if readErr != nil {
		err = fmt.Errorf("reading config file: %w", readErr)
		return err
	}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = fmt.Errorf("parsing config file: %w", err)
		return err
	}

	return err
}

// applyEnv overrides cfg fields from environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("PATRIMONIO_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("PATRIMONIO_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TRANSPORT_MODE"); v != "" {
		cfg.TransportMode = v
	}
	if v := os.Getenv("HTTP_HOST"); v != "" {
		cfg.HTTPHost = v
	}
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, convErr := strconv.Atoi(v); convErr == nil {
			cfg.HTTPPort = port
		}
	}
	if v := os.Getenv("API_KEYS"); v != "" {
		cfg.APIKeys = splitCSV(v)
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("ENABLE_CORS"); v != "" {
		cfg.EnableCORS = v == "true"
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitCSV(v)
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
}

// Validate checks required fields and enum values.
func (c Config) Validate() (err error) {
	if c.BaseURL == "" {
		err = fmt.Errorf("PATRIMONIO_BASE_URL é obrigatório")
		return err
	}

	if !isValidURL(c.BaseURL) {
		err = fmt.Errorf("PATRIMONIO_BASE_URL deve ser uma URL válida: %q", c.BaseURL)
		return err
	}

	if c.Token == "" {
		err = fmt.Errorf("PATRIMONIO_TOKEN é obrigatório")
		return err
	}

	switch c.TransportMode {
	case TransportStdio, TransportHTTP:
	default:
		err = fmt.Errorf("TRANSPORT_MODE inválido: %q (esperado: stdio ou http)", c.TransportMode)
		return err
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		err = fmt.Errorf("LOG_LEVEL inválido: %q", c.LogLevel)
		return err
	}

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		err = fmt.Errorf("HTTP_PORT inválido: %d", c.HTTPPort)
		return err
	}

	return err
}

// HTTPAddr returns the host:port bind address for the HTTP transport.
func (c Config) HTTPAddr() (addr string) {
	addr = fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
	return addr
}

// isValidURL reports whether s parses as an absolute http(s) URL.
func isValidURL(s string) (valid bool) {
	parsed, err := url.Parse(s)
	if err != nil {
		return valid
	}

	valid = parsed.Scheme == "http" || parsed.Scheme == "https"
	return valid
}

// MaskSecret renders a token safe for logging, keeping only the first and
// last four characters.
func MaskSecret(s string) (masked string) {
	if len(s) <= 8 {
		masked = "***"
		return masked
	}

	masked = s[:4] + "..." + s[len(s)-4:]
	return masked
}

// splitCSV splits a comma-separated value, trimming whitespace and dropping
// empty entries.
func splitCSV(v string) (out []string) {
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
