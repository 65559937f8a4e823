// Package db opens the relational store and applies schema migrations.
package db

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	accountentity "stock_tracker/internal/feature/account/domain/entity"
	commententity "stock_tracker/internal/feature/comment/domain/entity"
	portfolioentity "stock_tracker/internal/feature/portfolio/domain/entity"
	stockentity "stock_tracker/internal/feature/stock/domain/entity"
	"stock_tracker/internal/platform/config"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Opener opens a gorm connection for a DSN. Tests replace it.
type Opener func(dsn string) (*gorm.DB, error)

// gormConfig is shared by every connection so driver errors are translated
// into gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated.
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// PostgresOpener opens a PostgreSQL connection through pgx.
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), gormConfig())
}

// SQLiteOpener opens a SQLite database with foreign keys enforced.
func SQLiteOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), gormConfig())
}

// BuildDSN returns the PostgreSQL DSN for cfg. DATABASE_URL wins when set.
func BuildDSN(cfg config.DBConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)
}

// SQLiteDSN returns the SQLite DSN for a file path with foreign keys on.
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// ConnectWithRetry calls opener until it succeeds or timeout elapses.
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// OpenDB connects to the configured store and migrates it when RunMigrations is set.
func OpenDB(cfg config.DBConfig) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case "sqlite":
		db, err = ConnectWithRetry(SQLiteDSN(cfg.SQLitePath), cfg.ConnectWait, SQLiteOpener)
	case "postgres", "":
		db, err = ConnectWithRetry(BuildDSN(cfg), cfg.ConnectWait, PostgresOpener)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	slog.Info("database connected", "driver", db.Dialector.Name())

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate creates or updates every table the API uses.
func Migrate(db *gorm.DB) error {
	// マイグレーション（AppUser, Stock, Comment, Portfolio）
	if err := db.AutoMigrate(
		&accountentity.AppUser{},
		&stockentity.Stock{},
		&commententity.Comment{},
		&portfolioentity.Portfolio{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	return sqlDB.Close()
}
