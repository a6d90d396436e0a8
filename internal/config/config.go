package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/user/moovie-discover/internal/logging"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env       string `validate:"oneof=development production test"`
	AppSecret string `validate:"required,min=16"`
	Port      string `validate:"required,numeric"`

	// TMDB 目录服务
	TMDBBaseURL  string        `validate:"required,url"`
	TMDBToken    string        `validate:"required"`
	TMDBLanguage string        `validate:"required"`
	TMDBRPS      float64       `validate:"gt=0"`
	TMDBTimeout  time.Duration `validate:"gt=0"`

	// 片单存储
	StoreDriver string `validate:"oneof=memory postgres sqlite badger"`
	DatabaseURL string
	SQLitePath  string
	BadgerDir   string

	DebounceDelay   time.Duration `validate:"gte=0"`
	SessionTTL      time.Duration `validate:"gt=0"`
	SearchCacheSize int           `validate:"gt=0"`
	SearchCacheTTL  time.Duration `validate:"gt=0"`
	DetailCacheTTL  time.Duration `validate:"gte=0"`

	LogLevel  string
	LogFormat string `validate:"oneof=json console"`
}

// Load 加载配置
func Load() *Config {
	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "moovie")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	appSecret := getEnv("APP_SECRET", defaultSecret)
	env := getEnv("APP_ENV", "development")

	if env == "production" && appSecret == defaultSecret {
		logging.Warn().Msg("[Config] 生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:       env,
		AppSecret: appSecret,
		Port:      getEnv("PORT", "5005"),

		TMDBBaseURL:  getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3/"),
		TMDBToken:    getEnv("TMDB_API_KEY", ""),
		TMDBLanguage: getEnv("TMDB_LANGUAGE", "en-AU"),
		TMDBRPS:      getEnvAsFloat("TMDB_RPS", 40),
		TMDBTimeout:  getEnvAsDuration("TMDB_TIMEOUT", 10*time.Second),

		StoreDriver: getEnv("STORE_DRIVER", "sqlite"),
		DatabaseURL: dbURL,
		SQLitePath:  getEnv("SQLITE_PATH", "moovie.db"),
		BadgerDir:   getEnv("BADGER_DIR", "data/badger"),

		DebounceDelay:   time.Duration(getEnvAsInt("DEBOUNCE_MS", 500)) * time.Millisecond,
		SessionTTL:      getEnvAsDuration("SESSION_TTL", 30*time.Minute),
		SearchCacheSize: getEnvAsInt("SEARCH_CACHE_SIZE", 1000),
		SearchCacheTTL:  getEnvAsDuration("SEARCH_CACHE_TTL", 10*time.Minute),
		DetailCacheTTL:  getEnvAsDuration("DETAIL_CACHE_TTL", 30*time.Minute),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("配置校验失败: %w", err)
	}
	if c.StoreDriver == "postgres" && c.DatabaseURL == "" {
		return fmt.Errorf("配置校验失败: postgres 存储需要 DatabaseURL")
	}
	if c.StoreDriver == "sqlite" && c.SQLitePath == "" {
		return fmt.Errorf("配置校验失败: sqlite 存储需要 SQLITE_PATH")
	}
	if c.StoreDriver == "badger" && c.BadgerDir == "" {
		return fmt.Errorf("配置校验失败: badger 存储需要 BADGER_DIR")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		logging.Warn().Str("key", key).Str("value", raw).Msg("[Config] 无效的时长配置，使用默认值")
		return defaultValue
	}
	return value
}
