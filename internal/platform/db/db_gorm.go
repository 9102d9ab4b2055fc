// Package db はPostgreSQLへの接続とマイグレーションを提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	// DefaultConnectTimeout は起動時にDB接続を待つ最大時間です。
	DefaultConnectTimeout = 60 * time.Second
	retryInterval         = 3 * time.Second
)

// ErrConnectTimeout はタイムアウトまでに接続できなかったことを示します。
var ErrConnectTimeout = errors.New("db connect timed out")

// Config はデータベース接続設定です。
// InstanceName が設定されている場合は Cloud SQL の Unix ソケットで接続します。
type Config struct {
	User         string
	Password     string
	Name         string
	Host         string
	Port         string
	SSLMode      string
	InstanceName string
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		Host:         os.Getenv("DB_HOST"),
		Port:         os.Getenv("DB_PORT"),
		SSLMode:      os.Getenv("DB_SSLMODE"),
		InstanceName: os.Getenv("INSTANCE_CONNECTION_NAME"),
	}
}

// BuildDSN は pgx 形式（key=value）の DSN を組み立てます。
func BuildDSN(cfg Config) string {
	host := cfg.Host
	if cfg.InstanceName != "" {
		host = "/cloudsql/" + cfg.InstanceName
	}
	parts := []string{
		"host=" + host,
		"user=" + cfg.User,
		"password=" + cfg.Password,
		"dbname=" + cfg.Name,
	}
	if cfg.InstanceName == "" && cfg.Port != "" {
		parts = append(parts, "port="+cfg.Port)
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	parts = append(parts, "sslmode="+sslmode, "TimeZone=UTC")
	return strings.Join(parts, " ")
}

// Opener は DSN から接続を開く関数です。テストで差し替えます。
type Opener func(dsn string) (*gorm.DB, error)

// PostgresOpener は gorm の postgres ドライバで接続を開きます。
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
}

// ConnectWithRetry は timeout までの間、3秒間隔で接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	return connectWithRetry(dsn, timeout, retryInterval, opener)
}

func connectWithRetry(dsn string, timeout, interval time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("%w after %v: %w", ErrConnectTimeout, timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", interval)
		time.Sleep(interval)
	}
}

// OpenDB は設定に従って接続し、migrate が true の場合は models を AutoMigrate します。
func OpenDB(cfg Config, migrate bool, models ...any) (*gorm.DB, error) {
	db, err := ConnectWithRetry(BuildDSN(cfg), DefaultConnectTimeout, PostgresOpener)
	if err != nil {
		return nil, err
	}
	if migrate && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		slog.Info("database migrated", "models", len(models))
	}
	return db, nil
}
