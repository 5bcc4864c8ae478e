// Package config lê a configuração do gateway do ambiente (e de um .env opcional).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server      ServerConfig
	Providers   ProvidersConfig
	Email       EmailConfig
	Probe       ProbeConfig
	RateLimit   RateLimitConfig
	Redis       RedisConfig
	Concurrency ConcurrencyConfig
	Metrics     MetricsConfig
	Log         LogConfig
}

type ServerConfig struct {
	ListenAddr string
	AuditPath  string
}

// ProvidersConfig: chaves e endpoints das APIs externas. Base URL vazia = endpoint público.
type ProvidersConfig struct {
	GoogleAPIKey     string
	PageSpeedBaseURL string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string

	ResendAPIKey  string
	ResendBaseURL string
}

type EmailConfig struct {
	From            string
	Contact         string
	DispatchTimeout time.Duration
}

type ProbeConfig struct {
	Timeout time.Duration
	RPS     float64
	Burst   int
}

type RateLimitConfig struct {
	Limit      int
	Window     time.Duration
	Store      string
	KeyHeader  string
	TrustXFF   bool
	AddHeaders bool

	RedisPrefix string

	StatsRedis     bool
	StatsTTL       time.Duration
	StatsTrackKeys bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ConcurrencyConfig struct {
	Max            int
	AcquireTimeout time.Duration
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

type LogConfig struct {
	Format  string
	Verbose bool
}

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Load carrega .env (se existir) e depois lê o ambiente.
// Variáveis já definidas no processo não são sobrescritas pelo .env.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv aplica os defaults sem validar.
func FromEnv() Config {
	return Config{
		Server: ServerConfig{
			ListenAddr: getenvDefault("LISTEN_ADDR", ":8080"),
			AuditPath:  getenvDefault("AUDIT_PATH", "/api/analyze"),
		},
		Providers: ProvidersConfig{
			GoogleAPIKey:     os.Getenv("GOOGLE_API_KEY"),
			PageSpeedBaseURL: os.Getenv("PAGESPEED_BASE_URL"),
			OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:      getenvDefault("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIBaseURL:    os.Getenv("OPENAI_BASE_URL"),
			GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
			GeminiModel:      getenvDefault("GEMINI_MODEL", "gemini-pro"),
			GeminiBaseURL:    os.Getenv("GEMINI_BASE_URL"),
			ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
			ResendBaseURL:    os.Getenv("RESEND_BASE_URL"),
		},
		Email: EmailConfig{
			From:            getenvDefault("EMAIL_FROM", "Pomelo SEO/GEO <onboarding@resend.dev>"),
			Contact:         getenvDefault("EMAIL_CONTACT", "pomelomarketingandsoft@gmail.com"),
			DispatchTimeout: getenvDurationDefault("DISPATCH_TIMEOUT", 15*time.Second),
		},
		Probe: ProbeConfig{
			Timeout: getenvDurationDefault("PROBE_TIMEOUT", 8*time.Second),
			RPS:     getenvFloatDefault("PROBE_RPS", 5),
			Burst:   getenvIntDefault("PROBE_BURST", 5),
		},
		RateLimit: RateLimitConfig{
			Limit:          getenvIntDefault("RATE_LIMIT", 3),
			Window:         getenvDurationDefault("RATE_WINDOW", time.Hour),
			Store:          strings.ToLower(getenvDefault("RATE_STORE", StoreMemory)),
			KeyHeader:      os.Getenv("RATE_KEY_HEADER"),
			TrustXFF:       getenvBoolDefault("TRUST_XFF", true),
			AddHeaders:     getenvBoolDefault("ADD_RATELIMIT_HEADERS", true),
			RedisPrefix:    getenvDefault("RATE_REDIS_PREFIX", "audit:ratelimit"),
			StatsRedis:     getenvBoolDefault("RATE_STATS_REDIS", false),
			StatsTTL:       getenvDurationDefault("RATE_STATS_TTL", 24*time.Hour),
			StatsTrackKeys: getenvBoolDefault("RATE_STATS_TRACK_KEYS", false),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getenvIntDefault("REDIS_DB", 0),
		},
		Concurrency: ConcurrencyConfig{
			Max:            getenvIntDefault("CONCURRENCY_MAX", 20),
			AcquireTimeout: getenvDurationDefault("CONCURRENCY_TIMEOUT", 0),
		},
		Metrics: MetricsConfig{
			Enabled: getenvBoolDefault("METRICS_ENABLED", true),
			Path:    getenvDefault("METRICS_PATH", "/metrics"),
		},
		Log: LogConfig{
			Format:  strings.ToLower(getenvDefault("LOG_FORMAT", "text")),
			Verbose: getenvBoolDefault("LOG_VERBOSE", false),
		},
	}
}

// NeedsRedis indica se algum componente usa o Redis.
func (c Config) NeedsRedis() bool {
	return c.RateLimit.Store == StoreRedis || c.RateLimit.StatsRedis
}

// Validate falha no primeiro valor inválido.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.Server.AuditPath, "/") {
		return fmt.Errorf("AUDIT_PATH must start with /: %q", c.Server.AuditPath)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("METRICS_PATH must start with /: %q", c.Metrics.Path)
	}
	if c.Metrics.Enabled && c.Metrics.Path == c.Server.AuditPath {
		return errors.New("METRICS_PATH and AUDIT_PATH must differ")
	}
	if c.Probe.Timeout <= 0 {
		return errors.New("PROBE_TIMEOUT must be > 0")
	}
	if c.Probe.RPS < 0 {
		return errors.New("PROBE_RPS must be >= 0")
	}
	if c.Probe.Burst <= 0 {
		return errors.New("PROBE_BURST must be > 0")
	}
	if c.Email.DispatchTimeout <= 0 {
		return errors.New("DISPATCH_TIMEOUT must be > 0")
	}
	if c.RateLimit.Limit <= 0 {
		return errors.New("RATE_LIMIT must be > 0")
	}
	if c.RateLimit.Window <= 0 {
		return errors.New("RATE_WINDOW must be > 0")
	}
	switch c.RateLimit.Store {
	case StoreMemory, StoreRedis:
	default:
		return fmt.Errorf("RATE_STORE must be %q or %q, got %q", StoreMemory, StoreRedis, c.RateLimit.Store)
	}
	if c.NeedsRedis() && strings.TrimSpace(c.Redis.Addr) == "" {
		return errors.New("REDIS_ADDR is required when RATE_STORE=redis or RATE_STATS_REDIS=true")
	}
	if c.Concurrency.Max < 0 {
		return errors.New("CONCURRENCY_MAX must be >= 0")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}
	return nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getenvFloatDefault(k string, def float64) float64 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getenvBoolDefault(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getenvDurationDefault(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
