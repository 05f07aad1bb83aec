// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Token modes.
const (
	// TokenModePASETO issues PASETO v4 local tokens whose subject is the user id.
	TokenModePASETO = "paseto"
	// TokenModePlain uses the raw user id as the bearer token.
	TokenModePlain = "plain"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Auth      AuthConfig
	Store     StoreConfig
	Facade    FacadeConfig
	RateLimit RateLimitConfig
	Search    SearchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           string        // Server port (default: 8080)
	ReadTimeout    time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout   time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout    time.Duration // HTTP idle timeout (default: 60s)
	AllowedOrigins []string      // CORS origins (default: *)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	TokenMode string
	// PASETO v4 symmetric key (32 bytes). Empty means KeyFile or an ephemeral key.
	AccessTokenKey      []byte
	KeyFile             string
	AccessTokenDuration time.Duration
}

// StoreConfig selects and configures the fixture store backend.
type StoreConfig struct {
	Backend       string
	SQLitePath    string
	BadgerPath    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	Seed          bool // load the seed fixture when the store is empty
}

// FacadeConfig tunes the service façade.
type FacadeConfig struct {
	// Latency is an artificial delay applied before every operation.
	Latency time.Duration
}

// RateLimitConfig configures the login/register limiter.
type RateLimitConfig struct {
	AuthPerMinute int
	AuthBurst     int
}

// SearchConfig configures the deck search index.
type SearchConfig struct {
	// IndexPath is the directory holding the bleve index. Empty keeps it in memory.
	IndexPath string
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("flashly", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	allowedOrigins := fs.String("allowed-origins", "", "Comma separated CORS origins (default: *)")

	tokenMode := fs.String("token-mode", "", "Bearer token mode (paseto, plain)")
	tokenKey := fs.String("token-key", "", "Hex encoded 32 byte PASETO key")
	keyFile := fs.String("token-key-file", "", "File holding the PASETO key, created if missing")
	accessTokenDuration := fs.String("access-token-duration", "", "Access token lifetime (e.g., 24h)")

	backend := fs.String("store", "", "Store backend (memory, sqlite, redis, badger)")
	sqlitePath := fs.String("sqlite-path", "", "SQLite database file")
	badgerPath := fs.String("badger-path", "", "Badger database directory")
	redisAddr := fs.String("redis-addr", "", "Redis address (default: localhost:6379)")
	redisDB := fs.String("redis-db", "", "Redis database number")
	seed := fs.String("seed", "", "Load the seed fixture into an empty store (default: true)")

	latency := fs.String("latency", "", "Artificial delay before each operation (default: 0s)")
	searchPath := fs.String("search-index-path", "", "Directory for the deck search index (default: in memory)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// godotenv never overrides variables already present in the environment.
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load env file %s: %w", *envFile, err)
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue(*allowedOrigins, "CORS_ALLOWED_ORIGINS", "*")),
		},
		Auth: AuthConfig{
			TokenMode: getConfigValue(*tokenMode, "AUTH_TOKEN_MODE", TokenModePASETO),
			KeyFile:   getConfigValue(*keyFile, "AUTH_TOKEN_KEY_FILE", ""),
		},
		Store: StoreConfig{
			Backend:       getConfigValue(*backend, "STORE_BACKEND", BackendMemory),
			SQLitePath:    getConfigValue(*sqlitePath, "SQLITE_PATH", "flashly.db"),
			BadgerPath:    getConfigValue(*badgerPath, "BADGER_PATH", "flashly.badger"),
			RedisAddr:     getConfigValue(*redisAddr, "REDIS_ADDR", "localhost:6379"),
			RedisPassword: getConfigValue("", "REDIS_PASSWORD", ""),
			RedisDB:       getIntConfigValue(*redisDB, "REDIS_DB", 0),
			RedisPrefix:   getConfigValue("", "REDIS_PREFIX", "flashly"),
			Seed:          getBoolConfigValue(*seed, "STORE_SEED", true),
		},
		RateLimit: RateLimitConfig{
			AuthPerMinute: getIntConfigValue("", "RATE_LIMIT_AUTH_PER_MINUTE", 20),
			AuthBurst:     getIntConfigValue("", "RATE_LIMIT_AUTH_BURST", 5),
		},
		Search: SearchConfig{
			IndexPath: getConfigValue(*searchPath, "SEARCH_INDEX_PATH", ""),
		},
	}

	if keyHex := getConfigValue(*tokenKey, "AUTH_TOKEN_KEY", ""); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil {
			return nil, fmt.Errorf("invalid auth token key: not valid hex: %w", err)
		}
		cfg.Auth.AccessTokenKey = key
	}

	durations := []struct {
		flagValue string
		envKey    string
		def       string
		dst       *time.Duration
	}{
		{*accessTokenDuration, "ACCESS_TOKEN_DURATION", "24h", &cfg.Auth.AccessTokenDuration},
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*latency, "FACADE_LATENCY", "0s", &cfg.Facade.Latency},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToLower(d.envKey), raw, err)
		}
		*d.dst = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis backend")
		}
	case BackendBadger:
		if c.Store.BadgerPath == "" {
			return errors.New("BADGER_PATH is required for the badger backend")
		}
	default:
		return fmt.Errorf("invalid store backend: %s (must be memory, sqlite, redis, or badger)", c.Store.Backend)
	}

	switch c.Auth.TokenMode {
	case TokenModePASETO, TokenModePlain:
	default:
		return fmt.Errorf("invalid token mode: %s (must be paseto or plain)", c.Auth.TokenMode)
	}

	if c.Auth.TokenMode == TokenModePlain && c.App.Environment == "production" {
		return errors.New("plain bearer tokens are not allowed in production")
	}

	if len(c.Auth.AccessTokenKey) != 0 && len(c.Auth.AccessTokenKey) != 32 {
		return fmt.Errorf("auth token key must be 32 bytes, got %d", len(c.Auth.AccessTokenKey))
	}

	if c.Facade.Latency < 0 {
		return errors.New("facade latency cannot be negative")
	}

	return nil
}

// IsDevelopment reports whether the app runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
