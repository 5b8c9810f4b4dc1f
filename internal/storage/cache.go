package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/msyu/cambia-arena/internal/codec"
	"github.com/msyu/cambia-arena/internal/models"
	"github.com/msyu/cambia-arena/internal/module"
)

// DefaultCacheTTL bounds how long a cached snapshot may go stale before a
// reader falls back to Postgres regardless of hits.
const DefaultCacheTTL = 10 * time.Minute

type cacheEntry struct {
	GameType string `json:"gameType"`
	Payload  string `json:"payload"`
}

// Cached decorates a Repository with a Redis read-through cache, grounded
// on the teacher's internal/cache Redis client wiring. It exists because a
// match's MakeMove fires a SaveSnapshot on every accepted move (spec.md
// §4.4); caching the hot snapshot avoids round-tripping to Postgres for the
// immediately-following GetState a client typically issues to confirm its
// own move. LoadAll always goes to the source of truth: restore must see
// every row, not whatever happens to be warm in the cache.
type Cached struct {
	base
	inner Repository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCached(inner Repository, rdb *redis.Client, registry *module.Registry, sc codec.StateCodec, log *logrus.Logger) *Cached {
	return &Cached{base: newBase(registry, sc, log), inner: inner, rdb: rdb, ttl: DefaultCacheTTL}
}

func cacheKey(id models.GameId) string {
	return fmt.Sprintf("cambia-arena:snapshot:%s", id)
}

func (c *Cached) Init(ctx context.Context) error {
	return c.inner.Init(ctx)
}

func (c *Cached) Save(ctx context.Context, id models.GameId, gameType models.GameType, state module.GameModel) error {
	if err := c.inner.Save(ctx, id, gameType, state); err != nil {
		return err
	}
	payload, err := c.codec.Encode(state)
	if err != nil {
		c.log.WithFields(logrus.Fields{"gameId": id, "error": err}).Warn("cache: failed to encode for cache population")
		return nil
	}
	data, err := json.Marshal(cacheEntry{GameType: string(gameType), Payload: payload})
	if err != nil {
		return nil
	}
	if err := c.rdb.Set(ctx, cacheKey(id), data, c.ttl).Err(); err != nil {
		c.log.WithFields(logrus.Fields{"gameId": id, "error": err}).Warn("cache: failed to populate snapshot cache")
	}
	return nil
}

func (c *Cached) Load(ctx context.Context, id models.GameId, gameType models.GameType) (module.GameModel, bool, error) {
	if val, err := c.rdb.Get(ctx, cacheKey(id)).Result(); err == nil {
		var entry cacheEntry
		if json.Unmarshal([]byte(val), &entry) == nil && entry.GameType == string(gameType) {
			if snap, ok := c.decodeRow(id, entry.GameType, entry.Payload); ok {
				return snap.State, true, nil
			}
		}
	} else if err != redis.Nil {
		c.log.WithFields(logrus.Fields{"gameId": id, "error": err}).Warn("cache: redis get failed, falling back to repository")
	}

	state, ok, err := c.inner.Load(ctx, id, gameType)
	if err != nil || !ok {
		return state, ok, err
	}
	if payload, encErr := c.codec.Encode(state); encErr == nil {
		if data, jsonErr := json.Marshal(cacheEntry{GameType: string(gameType), Payload: payload}); jsonErr == nil {
			_ = c.rdb.Set(ctx, cacheKey(id), data, c.ttl).Err()
		}
	}
	return state, true, nil
}

func (c *Cached) LoadAll(ctx context.Context) (map[models.GameId]Snapshot, error) {
	return c.inner.LoadAll(ctx)
}
