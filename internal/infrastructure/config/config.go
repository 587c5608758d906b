package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Redis       RedisConfig      `mapstructure:"redis"`
	AI          AIConfig         `mapstructure:"ai"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	Gemini      GeminiConfig     `mapstructure:"gemini"`
	Cache       CacheConfig      `mapstructure:"cache"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Plan        PlanConfig       `mapstructure:"plan"`
	Catalog     CatalogConfig    `mapstructure:"catalog"`
	Import      ImportConfig     `mapstructure:"import"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// DatabaseConfig 資料庫設定
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // sqlite | postgres
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"log_level"`
}

// RedisConfig Redis 二級快取設定
type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// AIConfig AI 備援生成設定
type AIConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Provider   string        `mapstructure:"provider"` // openrouter | gemini
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
	BaseURL   string `mapstructure:"base_url"`
}

// GeminiConfig Gemini 配置
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// CacheConfig 記憶體快取配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// PlanConfig 餐點計畫設定
type PlanConfig struct {
	MaxPlans      int           `mapstructure:"max_plans"`
	MaxDays       int           `mapstructure:"max_days"`
	FetchLimitCap int           `mapstructure:"fetch_limit_cap"`
	StoreRetries  int           `mapstructure:"store_retries"`
	StoreDelay    time.Duration `mapstructure:"store_delay"`
}

// CatalogConfig 種子食譜設定
type CatalogConfig struct {
	SeedFile string `mapstructure:"seed_file"`
}

// ImportConfig 食譜匯入設定
type ImportConfig struct {
	ChunkSize  int           `mapstructure:"chunk_size"`
	Retries    int           `mapstructure:"retries"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	ChunkDelay time.Duration `mapstructure:"chunk_delay"`
}

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// .env 不存在時仍使用環境變數與預設值
	_ = godotenv.Load()

	setDefaults()

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 綁定環境變量
	viper.BindEnv("openrouter.api_key", "OPENROUTER_API_KEY")
	viper.BindEnv("openrouter.model", "OPENROUTER_MODEL")
	viper.BindEnv("openrouter.max_tokens", "MODEL_MAX_TOKENS")
	viper.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	viper.BindEnv("gemini.model", "GEMINI_MODEL")
	viper.BindEnv("ai.enabled", "AI_ENABLED")
	viper.BindEnv("ai.provider", "AI_PROVIDER")
	viper.BindEnv("database.driver", "DATABASE_DRIVER")
	viper.BindEnv("database.dsn", "DATABASE_DSN")
	viper.BindEnv("redis.enabled", "REDIS_ENABLED")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("catalog.seed_file", "CATALOG_SEED_FILE")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// logger 尚未初始化，改用 fmt.Println
	fmt.Println("Loading configuration",
		"ai_provider:", viper.GetString("ai.provider"),
		"openrouter_api_key:", maskAPIKey(viper.GetString("openrouter.api_key")),
		"gemini_api_key:", maskAPIKey(viper.GetString("gemini.api_key")),
		"database_driver:", viper.GetString("database.driver"),
	)

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults() {
	// 應用程式設定
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "meal-planner")

	// 伺服器設定
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "90s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.request_timeout", "60s")
	viper.SetDefault("server.max_body_bytes", 1<<20)

	// 資料庫設定
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "meal-planner.db")
	viper.SetDefault("database.log_level", "warn")

	// Redis 設定
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", "24h")

	// AI 設定
	viper.SetDefault("ai.enabled", false)
	viper.SetDefault("ai.provider", "openrouter")
	viper.SetDefault("ai.retries", 3)
	viper.SetDefault("ai.retry_delay", "1s")
	viper.SetDefault("ai.timeout", "60s")

	// OpenRouter 設定
	viper.SetDefault("openrouter.model", "openai/gpt-4o-mini")
	viper.SetDefault("openrouter.max_tokens", 4000)
	viper.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")

	// Gemini 設定
	viper.SetDefault("gemini.model", "gemini-1.5-flash")

	// 快取設定
	viper.SetDefault("cache.enabled", true)
	viper.SetDefault("cache.max_size", 500)
	viper.SetDefault("cache.ttl", "6h")
	viper.SetDefault("cache.cleanup_interval", "10m")

	// 限流設定
	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	// 餐點計畫設定
	viper.SetDefault("plan.max_plans", 3)
	viper.SetDefault("plan.max_days", 14)
	viper.SetDefault("plan.fetch_limit_cap", 21)
	viper.SetDefault("plan.store_retries", 3)
	viper.SetDefault("plan.store_delay", "500ms")

	// 匯入設定
	viper.SetDefault("import.chunk_size", 50)
	viper.SetDefault("import.retries", 3)
	viper.SetDefault("import.retry_delay", "1s")
	viper.SetDefault("import.chunk_delay", "100ms")

	viper.SetDefault("catalog.seed_file", "configs/recipes.yaml")
	viper.SetDefault("dedup_window", "1s")
	viper.SetDefault("log_level", "info")
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	switch config.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Cache.Enabled {
		if config.Cache.MaxSize <= 0 {
			return fmt.Errorf("invalid cache max size")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
		if config.Cache.CleanupInterval <= 0 {
			return fmt.Errorf("invalid cache cleanup interval")
		}
	}

	if config.AI.Enabled {
		switch config.AI.Provider {
		case "openrouter":
			if config.OpenRouter.APIKey == "" {
				return fmt.Errorf("openrouter api key is required when ai is enabled")
			}
		case "gemini":
			if config.Gemini.APIKey == "" {
				return fmt.Errorf("gemini api key is required when ai is enabled")
			}
		default:
			return fmt.Errorf("unsupported ai provider %q", config.AI.Provider)
		}
	}

	if config.Plan.MaxPlans <= 0 {
		return fmt.Errorf("invalid plan max plans")
	}
	if config.Plan.MaxDays <= 0 {
		return fmt.Errorf("invalid plan max days")
	}
	if config.Plan.FetchLimitCap <= 0 {
		return fmt.Errorf("invalid plan fetch limit cap")
	}
	if config.Import.ChunkSize <= 0 {
		return fmt.Errorf("invalid import chunk size")
	}

	return nil
}
