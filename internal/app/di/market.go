// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"stock_terrain/internal/feature/candles/adapters/twelvedata"
	infrahttp "stock_terrain/internal/platform/http"
	"stock_terrain/internal/shared/ratelimiter"
)

// defaultMarketRatePerMinute matches the Twelve Data free plan.
const defaultMarketRatePerMinute = 8

// NewMarket creates a fully configured TwelveDataMarket with HTTP client.
// It returns nil when no API key is configured.
func NewMarket() *twelvedata.TwelveDataMarket {
	cfg := twelvedata.LoadConfig()
	if !cfg.Enabled() {
		slog.Info("TWELVE_DATA_API_KEY is not set; market fetches disabled")
		return nil
	}
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout)
	return twelvedata.NewTwelveDataMarket(cfg, httpClient)
}

// NewMarketLimiter creates the limiter shared by every Twelve Data caller in
// the process. TWELVE_DATA_RATE_PER_MIN overrides the per-minute credit budget.
func NewMarketLimiter() *ratelimiter.RateLimiter {
	perMin := defaultMarketRatePerMinute
	if v := os.Getenv("TWELVE_DATA_RATE_PER_MIN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid TWELVE_DATA_RATE_PER_MIN, using default", "value", v, "default", perMin)
		} else {
			perMin = n
		}
	}
	return ratelimiter.NewRateLimiter(perMin, time.Minute)
}
