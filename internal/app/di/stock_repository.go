package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	commentusecase "stock_tracker/internal/feature/comment/usecase"
	stockadapters "stock_tracker/internal/feature/stock/adapters"
	stockusecase "stock_tracker/internal/feature/stock/usecase"
	"stock_tracker/internal/platform/cache"
	"stock_tracker/internal/platform/config"
)

// NewStockRepository creates a StockRepository implementation.
// If Redis is available, it returns a Redis-cached implementation together with
// its invalidator. Otherwise, it falls back to the database and a nil invalidator.
func NewStockRepository(rdb *redis.Client, db *gorm.DB, cfg config.RedisConfig) (stockusecase.StockRepository, commentusecase.StockCache) {
	base := stockadapters.NewStockRepository(db)
	if rdb == nil {
		return base, nil
	}
	cached := cache.NewCachingStockRepository(rdb, cfg.CacheTTL, base, "stocks")
	return cached, cached
}
