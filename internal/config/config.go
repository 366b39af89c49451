package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Transport selects how the server is exposed.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type AppConfig struct {
	// Transport is either "stdio" (MCP over stdin/stdout) or "http"
	// (REST + MCP streamable handler on one port).
	Transport string

	Port string

	// HTTPTimeout bounds each outbound Open-Meteo call.
	HTTPTimeout time.Duration

	// Server read/write timeouts for the HTTP transport.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Upstream endpoints and client identity.
	APIBase        string
	ArchiveAPIBase string
	UserAgent      string

	// ProbeInterval controls how often upstream reachability is checked.
	ProbeInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Transport = getenvDefault("TRANSPORT", TransportStdio)
	if cfg.Transport != TransportStdio && cfg.Transport != TransportHTTP {
		return nil, fmt.Errorf("invalid TRANSPORT %q: must be %q or %q", cfg.Transport, TransportStdio, TransportHTTP)
	}

	cfg.Port = getenvDefault("PORT", "8080")

	timeout, err := getenvDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	cfg.ReadTimeout, err = getenvDuration("READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.WriteTimeout, err = getenvDuration("WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.APIBase = os.Getenv("OPENMETEO_API_BASE")
	cfg.ArchiveAPIBase = os.Getenv("OPENMETEO_ARCHIVE_API_BASE")
	cfg.UserAgent = os.Getenv("USER_AGENT")

	cfg.ProbeInterval, err = getenvDuration("PROBE_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
