package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	RankedBaseURL        string
	RankedAPIKey         string
	ServerPort           string
	LogLevel             string
	DefaultUsername      string
	RecentMatchesLimit   int
	OpponentDisplayLimit int
	CORSAllowedOrigins   []string

	// EnvFileLoaded is false when no .env was found. Load runs before the
	// logger exists, so LogSummary reports it.
	EnvFileLoaded bool
}

// Load reads .env when present, then the environment. Only the integer
// settings can fail.
func Load() (*Config, error) {
	envErr := godotenv.Load()

	cfg := &Config{
		EnvFileLoaded:      envErr == nil,
		RankedBaseURL:      strings.TrimRight(getEnv("RANKED_API_BASE_URL", "https://api.mcsrranked.com"), "/"),
		RankedAPIKey:       getEnv("RANKED_API_KEY", ""),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DefaultUsername:    getEnv("DEFAULT_USERNAME", "_parad0xx"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	if cfg.RecentMatchesLimit, err = getEnvInt("RECENT_MATCHES_LIMIT", 10); err != nil {
		return nil, err
	}
	if cfg.OpponentDisplayLimit, err = getEnvInt("OPPONENT_DISPLAY_LIMIT", 6); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

// LogSummary writes the effective configuration without secrets.
func LogSummary(cfg *Config, logger zerolog.Logger) {
	if !cfg.EnvFileLoaded {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}
	logger.Info().
		Str("ranked_base_url", cfg.RankedBaseURL).
		Bool("ranked_api_key_set", cfg.RankedAPIKey != "").
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("default_username", cfg.DefaultUsername).
		Int("recent_matches_limit", cfg.RecentMatchesLimit).
		Int("opponent_display_limit", cfg.OpponentDisplayLimit).
		Msg("configuration loaded")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
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
