package product

import (
	"context"
	"errors"

	"github.com/mohib357/mamstar-plan/pkg/db"
	"github.com/mohib357/mamstar-plan/pkg/redis"
)

const statsCacheKey = "products:stats"

// Stats counts active, low-stock and out-of-stock products. The result is
// cached for StatsCacheTTL and dropped on every product write.
func (s *service) Stats(ctx context.Context) (*Stats, error) {
	key := s.statsKey()
	if key != "" {
		var cached Stats
		err := s.cache.GetJSON(ctx, key, &cached)
		switch {
		case err == nil:
			return &cached, nil
		case !errors.Is(err, redis.ErrCacheMiss):
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "product.stats_cache_read_failed")
		}
	}

	active, low, out := true, true, true
	var stats Stats
	var err error
	if stats.TotalProducts, err = s.repo.CountMatching(ctx, ListFilter{Active: &active}); err != nil {
		return nil, db.StorageError(err, "count products")
	}
	if stats.LowStockProducts, err = s.repo.CountMatching(ctx, ListFilter{Active: &active, LowStock: &low}); err != nil {
		return nil, db.StorageError(err, "count low stock products")
	}
	if stats.OutOfStockProducts, err = s.repo.CountMatching(ctx, ListFilter{Active: &active, OutOfStock: &out}); err != nil {
		return nil, db.StorageError(err, "count out of stock products")
	}

	if key != "" && s.cfg.StatsCacheTTL > 0 {
		if err := s.cache.SetJSON(ctx, key, stats, s.cfg.StatsCacheTTL); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "product.stats_cache_write_failed")
		}
	}
	return &stats, nil
}

func (s *service) statsKey() string {
	if s.cache == nil {
		return ""
	}
	return s.cache.CacheKey(statsCacheKey)
}

func (s *service) invalidateStats(ctx context.Context) {
	key := s.statsKey()
	if key == "" {
		return
	}
	if err := s.cache.Del(ctx, key); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "product.stats_cache_invalidate_failed")
	}
}
