// Package ratelimiter は外部API呼び出しの頻度を制限します。
package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter は interval あたり limit 回までの呼び出しを許可するトークンバケットです。
// Twelve Data の無料枠（8回/分）のように、期間ごとの上限をそのまま表現します。
type RateLimiter struct {
	lim      *rate.Limiter
	limit    int
	interval time.Duration
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{lim: rate.NewLimiter(rate.Inf, 0)}
	}
	every := interval / time.Duration(limit)
	return &RateLimiter{
		lim:      rate.NewLimiter(rate.Every(every), limit),
		limit:    limit,
		interval: interval,
	}
}

// Wait はトークンが得られるまで待機します。ctx が終了した場合はエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	r := rl.lim.Reserve()
	if !r.OK() {
		return rl.lim.Wait(ctx)
	}
	d := r.Delay()
	if d == 0 {
		return nil
	}
	slog.Info("rate limit reached, waiting", "limit", rl.limit, "interval", rl.interval, "delay", d)
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}

// Allow はトークンが残っていれば消費して true を返します。待機はしません。
func (rl *RateLimiter) Allow() bool {
	return rl.lim.Allow()
}
