package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Providers ProvidersConfig
	Engine    EngineConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	// FixturesPath feeds an in-memory store when no database host is set.
	FixturesPath string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration

	MigrationsDir string
}

// Enabled reports whether a Postgres host was configured.
func (d DatabaseConfig) Enabled() bool {
	return d.DBHost != ""
}

type RedisConfig struct {
	URL         string
	Host        string
	Port        string
	Password    string
	DefaultTTL  time.Duration
	FacetTTL    time.Duration
	TrendingTTL time.Duration
}

type JWTConfig struct {
	AccessSecret string
	AccessTTL    time.Duration
}

type ProvidersConfig struct {
	// Order lists provider names in fallback order, e.g. "gemini,openai".
	Order []string

	GeminiAPIKey string
	GeminiModel  string

	OpenAIBaseURL      string
	OpenAIAPIKey       string
	OpenAIFallbackKeys []string
	OpenAIModel        string
	MaxTokens          int
	Temperature        float64

	CallTimeout   time.Duration
	RatePerMinute int
	RateBurst     int
}

type EngineConfig struct {
	RecommendPoolCap int
	DiscoveryPoolCap int
	FacetPoolCap     int
	SemanticPromptN  int
	WarmCron         string
	WarmLimits       []int
}

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing, invalid []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key string) string {
		return strings.TrimSpace(os.Getenv(key))
	}

	cfg.App = AppConfig{
		AppName:      req("APP_NAME"),
		Environment:  req("APP_ENV"),
		HTTPPort:     req("HTTP_PORT"),
		FixturesPath: opt("FIXTURES_PATH"),
	}

	cfg.Database = DatabaseFromEnv()
	if cfg.Database.Enabled() {
		for _, key := range []string{"DB_NAME", "DB_USER"} {
			req(key)
		}
	}
	if !cfg.Database.Enabled() && cfg.App.FixturesPath == "" {
		missing = append(missing, "DB_HOST or FIXTURES_PATH")
	}

	cfg.Redis = RedisConfig{
		URL:         opt("REDIS_URL"),
		Host:        env.Str("REDIS_HOST", "localhost"),
		Port:        env.Str("REDIS_PORT", "6379"),
		Password:    opt("REDIS_PASSWORD"),
		DefaultTTL:  env.Duration("REDIS_TTL", 10*time.Minute),
		FacetTTL:    env.Duration("FACET_CACHE_TTL", time.Minute),
		TrendingTTL: env.Duration("TRENDING_CACHE_TTL", 5*time.Minute),
	}

	cfg.JWT = JWTConfig{
		AccessSecret: req("JWT_ACCESS_SECRET"),
		AccessTTL:    env.Duration("JWT_ACCESS_TTL", time.Hour),
	}

	cfg.Providers = ProvidersFromEnv()

	engine, err := EngineFromEnv()
	if err != nil {
		invalid = append(invalid, "ENGINE_WARM_LIMITS")
	}
	cfg.Engine = engine

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func parseLimits(raw []string) ([]int, error) {
	out := make([]int, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 50 {
			return nil, fmt.Errorf("invalid limit %q", s)
		}
		out = append(out, n)
	}
	return out, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ProvidersFromEnv reads the provider chain settings. Every value is optional.
func ProvidersFromEnv() ProvidersConfig {
	return ProvidersConfig{
		Order:              lowerAll(env.List("PROVIDER_ORDER", "gemini,openai")),
		GeminiAPIKey:       strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:        env.Str("GEMINI_MODEL", "gemini-1.5-flash"),
		OpenAIBaseURL:      env.Str("LLM_API_BASE", "https://api.openai.com/v1"),
		OpenAIAPIKey:       strings.TrimSpace(os.Getenv("LLM_API_KEY")),
		OpenAIFallbackKeys: env.List("LLM_API_KEY_FALLBACKS", ""),
		OpenAIModel:        env.Str("LLM_MODEL", "gpt-4o-mini"),
		MaxTokens:          env.Int("LLM_MAX_TOKENS", 4096),
		Temperature:        env.Float("LLM_TEMPERATURE", 0.1),
		CallTimeout:        env.Duration("PROVIDER_CALL_TIMEOUT", 20*time.Second),
		RatePerMinute:      env.Int("PROVIDER_RATE_PER_MINUTE", 30),
		RateBurst:          env.Int("PROVIDER_RATE_BURST", 5),
	}
}

// EngineFromEnv reads pool caps and the warm schedule.
func EngineFromEnv() (EngineConfig, error) {
	warmLimits, err := parseLimits(env.List("ENGINE_WARM_LIMITS", "10,20"))
	return EngineConfig{
		RecommendPoolCap: env.Int("ENGINE_RECOMMEND_POOL_CAP", 500),
		DiscoveryPoolCap: env.Int("ENGINE_DISCOVERY_POOL_CAP", 1000),
		FacetPoolCap:     env.Int("ENGINE_FACET_POOL_CAP", 1000),
		SemanticPromptN:  env.Int("ENGINE_SEMANTIC_PROMPT_N", 20),
		WarmCron:         env.Str("ENGINE_WARM_CRON", "@every 5m"),
		WarmLimits:       warmLimits,
	}, err
}

// DatabaseFromEnv reads the Postgres settings. The database is disabled when
// DB_HOST is empty.
func DatabaseFromEnv() DatabaseConfig {
	return DatabaseConfig{
		DBHost:                strings.TrimSpace(os.Getenv("DB_HOST")),
		DBPort:                env.Str("DB_PORT", "5432"),
		DBName:                strings.TrimSpace(os.Getenv("DB_NAME")),
		DBUser:                strings.TrimSpace(os.Getenv("DB_USER")),
		DBPassword:            strings.TrimSpace(os.Getenv("DB_PASSWORD")),
		DBSSLMode:             env.Str("DB_SSL_MODE", "disable"),
		ConnectTimeout:        env.Duration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(env.Int("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(env.Int("DB_POOL_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   env.Duration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   env.Duration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: env.Duration("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
		MigrationsDir:         strings.TrimSpace(os.Getenv("DB_MIGRATIONS_DIR")),
	}
}
