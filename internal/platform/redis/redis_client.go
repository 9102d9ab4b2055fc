// Package redis はRedisクライアントの生成を提供します。
package redis

import (
	"context"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

// Config はRedis接続設定です。Host が空の場合はキャッシュを無効にします。
type Config struct {
	Host     string
	Port     string
	Password string
}

// LoadConfig は環境変数からRedis設定を読み込みます。
func LoadConfig() Config {
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	return Config{
		Host:     os.Getenv("REDIS_HOST"),
		Port:     port,
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}

// Enabled はRedisを使うかどうかを返します。
func (c Config) Enabled() bool {
	return c.Host != ""
}

// Addr は host:port を返します。
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// NewRedisClient は接続を確認した上でクライアントを返します。
// キャッシュは任意のため、無効な設定のときは (nil, nil) を返します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	if !cfg.Enabled() {
		slog.Info("Redis is not configured; cache disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       0,
	})

	// 接続確認
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", cfg.Addr(), "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", cfg.Addr())
	return rdb, nil
}
