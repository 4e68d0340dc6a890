package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the Gomes decision service
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Claude classifier (AI path of the synthesis engine)
	Claude ClaudeConfig

	// News scraper
	News NewsConfig

	// Webhook notifications
	Notify NotifyConfig

	// Gomes rule policy knobs (heuristic constants, tunable)
	Gomes GomesConfig

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

// ClaudeConfig holds the Anthropic classifier configuration
type ClaudeConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Enabled   bool

	// RequestsPerMinute bounds outbound classification calls.
	RequestsPerMinute int
}

// NewsConfig holds the headline scraper configuration
type NewsConfig struct {
	BaseURL      string
	PollSchedule string // cron expression (with seconds)
	Enabled      bool
}

// NotifyConfig holds webhook fan-out configuration
type NotifyConfig struct {
	WebhookURLs []string
	Timeout     time.Duration
}

// GomesConfig holds the tunable rule constants. The defaults are the
// published Gomes methodology values.
type GomesConfig struct {
	BlackoutDays        int     // earnings blackout window
	OrangeDampening     float64 // tier-cap multiplier under ORANGE regime
	BullishBonusEnabled bool    // +1 when bullish language meets the green line
	VolatilityThreshold float64
	VolatilityDecay     float64
}

// SchedulerConfig holds cron schedules for background jobs
type SchedulerConfig struct {
	DriftScanSchedule string
	Enabled           bool
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Claude: ClaudeConfig{
			APIKey:            getEnv("ANTHROPIC_API_KEY", ""),
			Model:             getEnv("CLAUDE_MODEL", "claude-sonnet-4-20250514"),
			MaxTokens:         getEnvAsInt("CLAUDE_MAX_TOKENS", 1024),
			Timeout:           getEnvAsDuration("CLAUDE_TIMEOUT", "20s"),
			Enabled:           getEnvAsBool("CLAUDE_ENABLED", true),
			RequestsPerMinute: getEnvAsInt("CLAUDE_RPM", 30),
		},

		News: NewsConfig{
			BaseURL:      getEnv("NEWS_BASE_URL", "https://finviz.com/quote.ashx"),
			PollSchedule: getEnv("NEWS_POLL_SCHEDULE", "0 */30 * * * *"),
			Enabled:      getEnvAsBool("NEWS_ENABLED", false),
		},

		Notify: NotifyConfig{
			WebhookURLs: getEnvAsList("NOTIFY_WEBHOOK_URLS"),
			Timeout:     getEnvAsDuration("NOTIFY_TIMEOUT", "10s"),
		},

		Gomes: GomesConfig{
			BlackoutDays:        getEnvAsInt("GOMES_BLACKOUT_DAYS", 14),
			OrangeDampening:     getEnvAsFloat("GOMES_ORANGE_DAMPENING", 0.5),
			BullishBonusEnabled: getEnvAsBool("GOMES_BULLISH_BONUS", true),
			VolatilityThreshold: getEnvAsFloat("GOMES_VOL_THRESHOLD", 0.40),
			VolatilityDecay:     getEnvAsFloat("GOMES_VOL_DECAY", 2.0),
		},

		Scheduler: SchedulerConfig{
			DriftScanSchedule: getEnv("DRIFT_SCAN_SCHEDULE", "0 0 22 * * *"),
			Enabled:           getEnvAsBool("SCHEDULER_ENABLED", true),
		},

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Gomes.BlackoutDays < 0 {
		return fmt.Errorf("GOMES_BLACKOUT_DAYS must not be negative")
	}
	if c.Gomes.OrangeDampening <= 0 || c.Gomes.OrangeDampening > 1 {
		return fmt.Errorf("GOMES_ORANGE_DAMPENING must be in (0, 1]")
	}

	if c.Claude.Enabled && c.Claude.APIKey == "" && c.Env == "production" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when CLAUDE_ENABLED=true in production")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsList(key string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return nil
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
