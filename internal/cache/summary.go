package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/metrics"
	"github.com/Spok95/showcase-judging/internal/models"
)

const keyPrefix = "showcase:summary:"

// SummaryCache хранит результат get_judging_summary в Redis.
// Любая ошибка Redis логируется и трактуется как промах.
type SummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func Connect(ctx context.Context, url string, ttl time.Duration, log *zap.Logger) (*SummaryCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return New(rdb, ttl, log), nil
}

func New(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *SummaryCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &SummaryCache{rdb: rdb, ttl: ttl, log: log}
}

func key(productID string) string { return keyPrefix + productID }

func (c *SummaryCache) GetSummary(ctx context.Context, productID string) ([]models.CriterionSummary, bool) {
	raw, err := c.rdb.Get(ctx, key(productID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("summary cache get failed", zap.String("product_id", productID), zap.Error(err))
		}
		metrics.SummaryCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	var rows []models.CriterionSummary
	if err := json.Unmarshal(raw, &rows); err != nil {
		c.log.Warn("summary cache corrupt entry", zap.String("product_id", productID), zap.Error(err))
		metrics.SummaryCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.SummaryCache.WithLabelValues("hit").Inc()
	return rows, true
}

func (c *SummaryCache) PutSummary(ctx context.Context, productID string, rows []models.CriterionSummary) {
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key(productID), raw, c.ttl).Err(); err != nil {
		c.log.Warn("summary cache put failed", zap.String("product_id", productID), zap.Error(err))
	}
}

func (c *SummaryCache) Invalidate(ctx context.Context, productID string) {
	if err := c.rdb.Del(ctx, key(productID)).Err(); err != nil {
		c.log.Warn("summary cache invalidate failed", zap.String("product_id", productID), zap.Error(err))
	}
}

// InvalidateAll удаляет сводки всех продуктов. Нужен после правки критериев
// и удаления судьи: их изменения затрагивают каждый продукт.
func (c *SummaryCache) InvalidateAll(ctx context.Context) {
	iter := c.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	keys := make([]string, 0, 100)
	flush := func() bool {
		if len(keys) == 0 {
			return true
		}
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			c.log.Warn("summary cache invalidate all failed", zap.Error(err))
			return false
		}
		keys = keys[:0]
		return true
	}
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == cap(keys) && !flush() {
			return
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("summary cache scan failed", zap.Error(err))
	}
	flush()
}

func (c *SummaryCache) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

func (c *SummaryCache) Close() error { return c.rdb.Close() }
