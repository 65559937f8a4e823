// Package config はアプリケーション設定を環境変数と .env ファイルから読み込みます。
package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the full runtime configuration of the API server.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	FMP    FMPConfig
	Log    LogConfig
}

// ServerConfig configures the HTTP listener and Gin.
type ServerConfig struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
}

// DBConfig configures the relational store.
// Driver is "postgres" (default) or "sqlite" for local development.
type DBConfig struct {
	Driver        string
	URL           string
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	SSLMode       string
	SQLitePath    string
	RunMigrations bool
	ConnectWait   time.Duration
}

// RedisConfig configures the optional stock cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	CacheTTL time.Duration
}

// Enabled reports whether a Redis host was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// JWTConfig configures token signing.
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// FMPConfig configures the Financial Modeling Prep profile lookup used
// when a portfolio symbol is not yet stored.
type FMPConfig struct {
	APIKey         string
	BaseURL        string
	Timeout        time.Duration
	RateLimit      int
	RateLimitEvery time.Duration
}

// Enabled reports whether an API key was configured.
func (c FMPConfig) Enabled() bool {
	return c.APIKey != ""
}

// LogConfig configures slog.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads .env (if present) and environment variables into a Config.
func Load() (*Config, error) {
	// .envを読み込む（なくても環境変数で続行）
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	return FromViper(newViper()), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "./stock.db")
	v.SetDefault("RUN_MIGRATIONS", false)
	v.SetDefault("DB_CONNECT_WAIT", "60s")

	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("STOCK_CACHE_TTL", "5m")

	v.SetDefault("JWT_EXPIRATION", "24h")

	v.SetDefault("FMP_BASE_URL", "https://financialmodelingprep.com/stable")
	v.SetDefault("FMP_TIMEOUT", "10s")
	v.SetDefault("FMP_RATE_LIMIT", 5)
	v.SetDefault("FMP_RATE_LIMIT_INTERVAL", "1m")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:            v.GetString("PORT"),
			GinMode:         v.GetString("GIN_MODE"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
			AllowedOrigins:  splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		DB: DBConfig{
			Driver:        strings.ToLower(v.GetString("DB_DRIVER")),
			URL:           v.GetString("DATABASE_URL"),
			Host:          v.GetString("DB_HOST"),
			Port:          v.GetString("DB_PORT"),
			User:          v.GetString("DB_USER"),
			Password:      v.GetString("DB_PASSWORD"),
			Name:          v.GetString("DB_NAME"),
			SSLMode:       v.GetString("DB_SSLMODE"),
			SQLitePath:    v.GetString("DB_SQLITE_PATH"),
			RunMigrations: v.GetBool("RUN_MIGRATIONS"),
			ConnectWait:   v.GetDuration("DB_CONNECT_WAIT"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			CacheTTL: v.GetDuration("STOCK_CACHE_TTL"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: v.GetDuration("JWT_EXPIRATION"),
		},
		FMP: FMPConfig{
			APIKey:         v.GetString("FMP_API_KEY"),
			BaseURL:        strings.TrimRight(v.GetString("FMP_BASE_URL"), "/"),
			Timeout:        v.GetDuration("FMP_TIMEOUT"),
			RateLimit:      v.GetInt("FMP_RATE_LIMIT"),
			RateLimitEvery: v.GetDuration("FMP_RATE_LIMIT_INTERVAL"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
