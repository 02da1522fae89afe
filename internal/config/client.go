package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultAPIURL      = "http://localhost:8080"
	defaultWalletURL   = "http://127.0.0.1:1248"
	defaultNetwork     = "base-sepolia"
	defaultHTTPTimeout = 10 * time.Second
	httpTimeoutEnvVar  = "TIPPER_HTTP_TIMEOUT"
)

// ClientConfig configures the donor-side tipper client.
type ClientConfig struct {
	APIURL      string
	WalletURL   string
	RedisURL    string
	Network     string
	User        string
	LogLevel    string
	HTTPTimeout time.Duration
}

// LoadClient reads tipper configuration from the environment.
func LoadClient() (ClientConfig, error) {
	cfg := ClientConfig{
		APIURL:      strings.TrimRight(getEnv("TIPPER_API_URL", defaultAPIURL), "/"),
		WalletURL:   getEnv("TIPPER_WALLET_URL", defaultWalletURL),
		RedisURL:    os.Getenv("TIPPER_REDIS_URL"),
		Network:     strings.ToLower(getEnv("TIPPER_NETWORK", defaultNetwork)),
		User:        strings.ToLower(os.Getenv("TIPPER_USER")),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		HTTPTimeout: defaultHTTPTimeout,
	}

	if v := os.Getenv(httpTimeoutEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return ClientConfig{}, fmt.Errorf("invalid %s: %w", httpTimeoutEnvVar, err)
		}
		cfg.HTTPTimeout = d
	}

	if !strings.HasPrefix(cfg.APIURL, "http://") && !strings.HasPrefix(cfg.APIURL, "https://") {
		return ClientConfig{}, fmt.Errorf("TIPPER_API_URL must be an http(s) url, got %q", cfg.APIURL)
	}

	return cfg, nil
}
