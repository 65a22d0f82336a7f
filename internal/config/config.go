// Package config provides runtime configuration for the service.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the knobs for the HTTP server, storage and collaborators.
type Config struct {
	Port            string
	DatabaseURL     string
	TokenSecret     string
	BrokerURL       string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
}

const (
	defaultPort        = "8080"
	defaultTokenSecret = "dev-only-proof-token-secret"
	defaultCORSOrigins = "http://localhost:5173,http://127.0.0.1:5173"
)

// StartupTimeout bounds storage connection and migration work at boot.
const StartupTimeout = 5 * time.Second

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durenvs(key string, defSec int) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return time.Duration(defSec) * time.Second
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return time.Duration(defSec) * time.Second
	}
	return time.Duration(n) * time.Second
}

// Load collects configuration from the environment with defaults.
func Load() Config {
	return Config{
		Port:            getenv("PORT", defaultPort),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		TokenSecret:     getenv("TOKEN_SECRET", defaultTokenSecret),
		BrokerURL:       os.Getenv("BROKER_URL"),
		CORSOrigins:     parseCSV(getenv("CORS_ORIGINS", defaultCORSOrigins)),
		ShutdownTimeout: durenvs("SHUTDOWN_TIMEOUT_S", 10),
	}
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
