// Package cache memoizes derived goal progress in Redis. Optional: with no
// Redis configured the aggregator simply recomputes on every read.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/focusopolis/internal/core"
)

type ProgressCache struct {
	rdb *redis.Client
}

func NewProgressCache(addr string) *ProgressCache {
	return &ProgressCache{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

func (c *ProgressCache) Get(ctx context.Context, key string) (*core.GoalProgress, bool) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("module", "cache").Str("key", key).Msg("cache get")
		}
		return nil, false
	}
	var p core.GoalProgress
	if err := json.Unmarshal(b, &p); err != nil {
		log.Warn().Err(err).Str("module", "cache").Str("key", key).Msg("cache decode")
		return nil, false
	}
	return &p, true
}

func (c *ProgressCache) Set(ctx context.Context, key string, p *core.GoalProgress, ttl time.Duration) {
	b, err := json.Marshal(p)
	if err != nil {
		log.Warn().Err(err).Str("module", "cache").Str("key", key).Msg("cache encode")
		return
	}
	if err := c.rdb.Set(ctx, key, b, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("module", "cache").Str("key", key).Msg("cache set")
	}
}

func (c *ProgressCache) Close() error { return c.rdb.Close() }
