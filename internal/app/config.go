package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/procuremind-backend/internal/observability"
	"github.com/yungbote/procuremind-backend/internal/platform/envutil"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

const configFileEnv = "PROCUREMIND_CONFIG"

type StoreConfig struct {
	Mode        string        `yaml:"mode"`
	DatabaseURL string        `yaml:"database_url"`
	SQLitePath  string        `yaml:"sqlite_path"`
	AutoMigrate bool          `yaml:"auto_migrate"`
	RESTURL     string        `yaml:"rest_url"`
	RESTKey     string        `yaml:"rest_key"`
	RESTTimeout time.Duration `yaml:"rest_timeout"`
}

type LLMConfig struct {
	Provider         string        `yaml:"provider"`
	EmbeddingDims    int           `yaml:"embedding_dims"`
	OpenAIKey        string        `yaml:"openai_api_key"`
	OpenAIBaseURL    string        `yaml:"openai_base_url"`
	OpenAIModel      string        `yaml:"openai_model"`
	OpenAIEmbedModel string        `yaml:"openai_embed_model"`
	OpenAITimeout    time.Duration `yaml:"openai_timeout"`
	GeminiKey        string        `yaml:"gemini_api_key"`
	GeminiModel      string        `yaml:"gemini_model"`
	GeminiEmbedModel string        `yaml:"gemini_embed_model"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type ExportConfig struct {
	Bucket       string        `yaml:"bucket"`
	Prefix       string        `yaml:"prefix"`
	Credentials  string        `yaml:"credentials"`
	StorageMode  string        `yaml:"storage_mode"`
	EmulatorHost string        `yaml:"emulator_host"`
	Timeout      time.Duration `yaml:"timeout"`
}

type OtelFileConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Config is built once at startup. Runtime changes go through the settings
// module, which swaps whole runtimes instead of editing this value.
type Config struct {
	Env         string   `yaml:"env"`
	Version     string   `yaml:"version"`
	Port        string   `yaml:"port"`
	LogMode     string   `yaml:"log_mode"`
	LogLevel    string   `yaml:"log_level"`
	LogHashSalt string   `yaml:"log_hash_salt"`
	CORSOrigins []string `yaml:"cors_origins"`

	Store  StoreConfig    `yaml:"store"`
	LLM    LLMConfig      `yaml:"llm"`
	Redis  RedisConfig    `yaml:"redis"`
	Export ExportConfig   `yaml:"export"`
	Otel   OtelFileConfig `yaml:"otel"`

	MatchConcurrency   int           `yaml:"match_concurrency"`
	RuntimeRetireAfter time.Duration `yaml:"runtime_retire_after"`
}

func defaultConfig() Config {
	return Config{
		Env:     "development",
		Port:    "8080",
		LogMode: "development",
		Store: StoreConfig{
			Mode:        string(StoreModeGorm),
			SQLitePath:  "procuremind.db",
			AutoMigrate: true,
			RESTTimeout: 30 * time.Second,
		},
		LLM: LLMConfig{
			Provider:      "gemini",
			EmbeddingDims: 768,
			OpenAITimeout: 120 * time.Second,
		},
		Redis: RedisConfig{
			TTL: 7 * 24 * time.Hour,
		},
		Export: ExportConfig{
			Prefix:  "exports",
			Timeout: 30 * time.Second,
		},
		Otel: OtelFileConfig{
			SampleRatio: 1,
		},
		MatchConcurrency:   4,
		RuntimeRetireAfter: 30 * time.Second,
	}
}

// LoadConfig layers defaults, the optional YAML file named by
// PROCUREMIND_CONFIG, then the environment (a .env file included).
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := defaultConfig()
	if path := envutil.String(configFileEnv, ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("APP_ENV", cfg.Env)
	cfg.Version = envutil.String("APP_VERSION", cfg.Version)
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.LogLevel = envutil.String("LOG_LEVEL", cfg.LogLevel)
	cfg.LogHashSalt = envutil.String("LOG_HASH_SALT", cfg.LogHashSalt)
	cfg.CORSOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.CORSOrigins)

	cfg.Store.Mode = envutil.String("STORE_MODE", cfg.Store.Mode)
	cfg.Store.DatabaseURL = envutil.String("DATABASE_URL", cfg.Store.DatabaseURL)
	cfg.Store.SQLitePath = envutil.String("SQLITE_PATH", cfg.Store.SQLitePath)
	cfg.Store.AutoMigrate = envutil.Bool("DB_AUTO_MIGRATE", cfg.Store.AutoMigrate)
	cfg.Store.RESTURL = envutil.String("SUPABASE_URL", cfg.Store.RESTURL)
	cfg.Store.RESTKey = envutil.String("SUPABASE_KEY", cfg.Store.RESTKey)
	cfg.Store.RESTTimeout = envutil.Seconds("SUPABASE_TIMEOUT_SECONDS", cfg.Store.RESTTimeout)

	cfg.LLM.Provider = strings.ToLower(envutil.String("LLM_PROVIDER", cfg.LLM.Provider))
	cfg.LLM.EmbeddingDims = envutil.Int("EMBEDDING_DIMS", cfg.LLM.EmbeddingDims)
	cfg.LLM.OpenAIKey = envutil.String("OPENAI_API_KEY", cfg.LLM.OpenAIKey)
	cfg.LLM.OpenAIBaseURL = envutil.String("OPENAI_BASE_URL", cfg.LLM.OpenAIBaseURL)
	cfg.LLM.OpenAIModel = envutil.String("OPENAI_MODEL", cfg.LLM.OpenAIModel)
	cfg.LLM.OpenAIEmbedModel = envutil.String("OPENAI_EMBED_MODEL", cfg.LLM.OpenAIEmbedModel)
	cfg.LLM.OpenAITimeout = envutil.Seconds("OPENAI_TIMEOUT_SECONDS", cfg.LLM.OpenAITimeout)
	cfg.LLM.GeminiKey = envutil.String("GOOGLE_API_KEY", cfg.LLM.GeminiKey)
	cfg.LLM.GeminiModel = envutil.String("GEMINI_MODEL", cfg.LLM.GeminiModel)
	cfg.LLM.GeminiEmbedModel = envutil.String("GEMINI_EMBED_MODEL", cfg.LLM.GeminiEmbedModel)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.TTL = envutil.Seconds("DRAFT_TTL_SECONDS", cfg.Redis.TTL)

	cfg.Export.Bucket = envutil.String("EXPORT_GCS_BUCKET", cfg.Export.Bucket)
	cfg.Export.Prefix = envutil.String("EXPORT_GCS_PREFIX", cfg.Export.Prefix)
	cfg.Export.Credentials = envutil.String("GOOGLE_APPLICATION_CREDENTIALS", cfg.Export.Credentials)
	cfg.Export.StorageMode = envutil.String("OBJECT_STORAGE_MODE", cfg.Export.StorageMode)
	cfg.Export.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", cfg.Export.EmulatorHost)
	cfg.Export.Timeout = envutil.Seconds("EXPORT_TIMEOUT_SECONDS", cfg.Export.Timeout)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint)
	cfg.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.Otel.Headers)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", cfg.Otel.SampleRatio)

	cfg.MatchConcurrency = envutil.Int("MATCH_CONCURRENCY", cfg.MatchConcurrency)
	cfg.RuntimeRetireAfter = envutil.Seconds("RUNTIME_RETIRE_AFTER_SECONDS", cfg.RuntimeRetireAfter)
}

func (c Config) LoggerOptions() logger.Options {
	return logger.Options{Level: c.LogLevel, HashSalt: c.LogHashSalt}
}

func (c Config) OtelConfig() observability.OtelConfig {
	return observability.OtelConfig{
		Enabled:     c.Otel.Enabled,
		ServiceName: "procuremind-backend",
		Environment: c.Env,
		Version:     c.Version,
		SampleRatio: c.Otel.SampleRatio,
		Endpoint:    c.Otel.Endpoint,
		Headers:     observability.ParseHeaders(c.Otel.Headers),
		Insecure:    c.Otel.Insecure,
	}
}

func (c Config) Addr() string {
	port := strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if port == "" {
		port = "8080"
	}
	return ":" + port
}
