// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_tracker/internal/feature/stock/domain/entity"
	"stock_tracker/internal/feature/stock/usecase"
	"stock_tracker/internal/shared/query"
)

// CachingStockRepository decorates a StockRepository with Redis caching of
// single-stock reads and list pages. Writes invalidate the affected entries.
type CachingStockRepository struct {
	inner     usecase.StockRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.StockRepository = (*CachingStockRepository)(nil)

// NewCachingStockRepository decorates a StockRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "stocks".
func NewCachingStockRepository(rdb *redis.Client, ttl time.Duration, inner usecase.StockRepository, namespace string) *CachingStockRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "stocks"
	}
	return &CachingStockRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// List returns a cached page when present, otherwise loads and caches it.
func (c *CachingStockRepository) List(ctx context.Context, q query.StockQuery) ([]entity.Stock, error) {
	if c.rdb == nil {
		return c.inner.List(ctx, q)
	}
	key := c.listKey(q.Normalize())

	var out []entity.Stock
	if c.get(ctx, key, &out) {
		return out, nil
	}
	out, err := c.inner.List(ctx, q)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// FindByID checks the cache first then falls back to the database.
// Not-found results are not cached.
func (c *CachingStockRepository) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}
	key := c.idKey(id)

	var cached entity.Stock
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}
	s, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, s)
	return s, nil
}

func (c *CachingStockRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	return c.inner.FindBySymbol(ctx, symbol)
}

func (c *CachingStockRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return c.inner.Exists(ctx, id)
}

// Create inserts the stock and drops every cached list page.
func (c *CachingStockRepository) Create(ctx context.Context, s *entity.Stock) error {
	if err := c.inner.Create(ctx, s); err != nil {
		return err
	}
	if c.rdb != nil {
		_ = c.deleteByPattern(ctx, c.listPrefix()+"*") // Best effort
	}
	return nil
}

func (c *CachingStockRepository) Update(ctx context.Context, id uint, f entity.Fields) (*entity.Stock, error) {
	s, err := c.inner.Update(ctx, id, f)
	if err != nil {
		return nil, err
	}
	_ = c.Invalidate(ctx, id)
	return s, nil
}

func (c *CachingStockRepository) Delete(ctx context.Context, id uint) (*entity.Stock, error) {
	s, err := c.inner.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	_ = c.Invalidate(ctx, id)
	return s, nil
}

// Invalidate drops the cached stock and every cached list page, since any
// page may embed the stock and its comments.
func (c *CachingStockRepository) Invalidate(ctx context.Context, id uint) error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Del(ctx, c.idKey(id)).Err(); err != nil {
		return err
	}
	return c.deleteByPattern(ctx, c.listPrefix()+"*")
}

// get decodes a cached value into dst. Corrupted entries are deleted.
func (c *CachingStockRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v (best effort).
func (c *CachingStockRepository) set(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

func (c *CachingStockRepository) idKey(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}

func (c *CachingStockRepository) listPrefix() string {
	return c.namespace + ":list:"
}

// listKey はクエリの全項目をURLエンコードしてキーにします。
// エンコードは可逆なので、異なるフィルタが同じキーになることはありません。
// SCANのグロブ文字（* ? [）もエスケープされます。
func (c *CachingStockRepository) listKey(q query.StockQuery) string {
	v := url.Values{}
	v.Set("companyName", q.CompanyName)
	v.Set("symbol", q.Symbol)
	v.Set("sortBy", strings.ToLower(q.SortBy))
	v.Set("desc", strconv.FormatBool(q.IsDescending))
	v.Set("page", strconv.Itoa(q.PageNumber))
	v.Set("size", strconv.Itoa(q.PageSize))
	return c.listPrefix() + v.Encode()
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingStockRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}
