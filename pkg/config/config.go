// Package config loads and validates service configuration.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	XRPL   XRPLConfig
	Xumm   XummConfig
	Issuer IssuerConfig
}

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// XRPLConfig describes the ledger node the facade queries.
type XRPLConfig struct {
	NodeURL      string
	QueryTimeout time.Duration
}

// XummConfig carries the XUMM platform API credentials.
type XummConfig struct {
	BaseURL   string
	APIKey    string
	APISecret string
}

// IssuerConfig holds the issuer (cold) and hot wallet pair used by the
// administrative token-issuance flow, plus the token identity served by the
// balance and send endpoints.
type IssuerConfig struct {
	ColdAddress  string
	ColdSecret   string
	HotAddress   string
	HotSecret    string
	CurrencyCode string
	ImageURL     string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Redis: RedisConfig{
			URL:      normalizeRedisURL(getEnv("REDIS_URL", "localhost:6379")),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		XRPL: XRPLConfig{
			NodeURL:      getEnv("XRP_NODE_URL", "wss://s.altnet.rippletest.net:51233"),
			QueryTimeout: getDurationEnv("XRPL_QUERY_TIMEOUT", 10*time.Second),
		},
		Xumm: XummConfig{
			BaseURL:   getEnv("XUMM_BASE_URL", "https://xumm.app"),
			APIKey:    getEnv("XUMM_API_KEY", ""),
			APISecret: getEnv("XUMM_API_SECRET", ""),
		},
		Issuer: IssuerConfig{
			ColdAddress:  getEnv("COLD_ADDRESS", ""),
			ColdSecret:   getEnv("COLD_SECRET", ""),
			HotAddress:   getEnv("HOT_ADDRESS", ""),
			HotSecret:    getEnv("HOT_SECRET", ""),
			CurrencyCode: getEnv("CURRENCY_CODE", ""),
			ImageURL:     getEnv("IMAGE_URL", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func normalizeRedisURL(url string) string {
	// Strip redis:// or redis+tls:// scheme if present
	if strings.HasPrefix(url, "redis+tls://") {
		return url[len("redis+tls://"):]
	}
	if strings.HasPrefix(url, "redis://") {
		return url[len("redis://"):]
	}
	return url
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
