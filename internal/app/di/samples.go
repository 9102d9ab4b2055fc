package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	candlesadapters "stock_terrain/internal/feature/candles/adapters"
	candlesusecase "stock_terrain/internal/feature/candles/usecase"
	"stock_terrain/internal/platform/cache"
)

// NewSampleRepository creates the sample repository used by read paths.
// If Redis is available, the gorm repository is wrapped with the caching decorator
// whose TTL runs until the next 08:00 JST refresh, recomputed on every write.
func NewSampleRepository(db *gorm.DB, rdb *redis.Client) candlesusecase.SampleRepository {
	repo := candlesadapters.NewSampleRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingSampleRepository(rdb, cache.TimeUntilNext8AM(), repo, "samples").
		WithTTLFunc(cache.TimeUntilNext8AM)
}
