package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds service configuration.
type Config struct {
	ServerAddr string
	LogLevel   string

	VerificationToken string
	AppID             string
	AppSecret         string
	FeishuBaseURL     string
	FeishuTimeout     time.Duration
	BotOpenID         string

	EnforceArity bool

	DedupWindow      int
	DedupGenerations int
	RedisURL         string
	DedupTTL         time.Duration

	DatabaseURL   string
	MigrationsDir string
}

// Load reads configuration from environment.
func Load() (*Config, error) {
	cfg := &Config{
		ServerAddr:        getenv("SERVER_ADDR", "0.0.0.0:8080"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		VerificationToken: os.Getenv("FEISHU_VERIFICATION_TOKEN"),
		AppID:             os.Getenv("FEISHU_APP_ID"),
		AppSecret:         os.Getenv("FEISHU_APP_SECRET"),
		FeishuBaseURL:     getenv("FEISHU_BASE_URL", "https://open.feishu.cn"),
		FeishuTimeout:     parseDuration(getenv("FEISHU_TIMEOUT", "10s"), 10*time.Second),
		BotOpenID:         os.Getenv("FEISHU_BOT_OPEN_ID"),
		EnforceArity:      parseBool(getenv("ENFORCE_ARITY", "false"), false),
		DedupWindow:       parseInt(getenv("DEDUP_WINDOW", "1000"), 1000),
		DedupGenerations:  parseInt(getenv("DEDUP_GENERATIONS", "2"), 2),
		RedisURL:          os.Getenv("REDIS_URL"),
		DedupTTL:          parseDuration(getenv("DEDUP_TTL", "6h"), 6*time.Hour),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MigrationsDir:     getenv("MIGRATIONS_DIR", "internal/migrations"),
	}

	if cfg.VerificationToken == "" {
		return nil, fmt.Errorf("FEISHU_VERIFICATION_TOKEN is required")
	}
	if cfg.AppID == "" || cfg.AppSecret == "" {
		return nil, fmt.Errorf("FEISHU_APP_ID and FEISHU_APP_SECRET are required")
	}
	if cfg.DedupWindow < 1 {
		return nil, fmt.Errorf("DEDUP_WINDOW must be positive, got %d", cfg.DedupWindow)
	}
	if cfg.DedupGenerations < 2 {
		return nil, fmt.Errorf("DEDUP_GENERATIONS must be at least 2, got %d", cfg.DedupGenerations)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	return val
}

func parseDuration(val string, def time.Duration) time.Duration {
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return def
	}
	return d
}

func parseBool(val string, def bool) bool {
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return b
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return n
}
