package proposals

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/redis/go-redis/v9"
)

const cachePrefix = "proposals:"

// Cache stores flattened query results by query key.
type Cache interface {
	Get(ctx context.Context, key string) ([]Proposal, bool, error)
	Set(ctx context.Context, key string, items []Proposal) error
}

// NopCache never hits.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]Proposal, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, string, []Proposal) error         { return nil }

// QueryKey derives the cache key from everything that should trigger a
// refetch: filters, search phrase, sorting, DRep id and the latest vote tx.
func QueryKey(id Identity, q Query) string {
	h := xxhash.NewS64(0)
	write := func(s string) {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	for _, f := range q.Filters {
		write(f)
	}
	_, _ = h.Write([]byte{1})
	write(q.SearchPhrase)
	write(q.Sorting)
	write(id.DRepID)
	write(id.PendingVoteTx)

	var sum [8]byte
	v := h.Sum64()
	for i := range sum {
		sum[i] = byte(v >> (56 - 8*i))
	}
	return cachePrefix + hex.EncodeToString(sum[:])
}

// RedisCache keeps results in redis for ttl.
type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisCache(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]Proposal, bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var items []Proposal
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, items []Proposal) error {
	if c.ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, raw, c.ttl).Err()
}
