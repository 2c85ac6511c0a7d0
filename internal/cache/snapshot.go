// Package cache memoizes ledger partition snapshots. Reads that only render
// availability to a browsing supplier may serve a slightly stale snapshot;
// the booking coordinator invalidates at exactly two points — right before
// its availability check and right after a commit — so correctness-sensitive
// reads always hit the ledger.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ljbyon/almacen-v3-g/internal/ledger"
)

// Snapshot caches partition reads in Redis with a bounded TTL. When no Redis
// client is configured (or Redis misbehaves) every call falls through to the
// ledger, so the cache can never make the system less correct — only faster.
type Snapshot struct {
	store  ledger.Store
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// New builds a snapshot cache over the given store. rdb may be nil to disable
// caching entirely.
func New(store ledger.Store, rdb *redis.Client, ttl time.Duration) *Snapshot {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Snapshot{store: store, rdb: rdb, ttl: ttl, prefix: "snapshot"}
}

func (c *Snapshot) key(partition string) string { return c.prefix + ":" + partition }

// GetOrFetch returns the partition's rows, serving from Redis when a cached
// copy exists and reading the ledger (then repopulating) otherwise.
func (c *Snapshot) GetOrFetch(ctx context.Context, partition string) ([][]string, error) {
	if c.rdb != nil {
		if bs, err := c.rdb.Get(ctx, c.key(partition)).Bytes(); err == nil {
			var rows [][]string
			if err := json.Unmarshal(bs, &rows); err == nil {
				return rows, nil
			}
			// Unreadable payload: drop it and fall through to the ledger.
			_ = c.rdb.Del(ctx, c.key(partition)).Err()
		}
	}
	rows, err := c.store.ReadAll(ctx, partition)
	if err != nil {
		return nil, err
	}
	if c.rdb != nil {
		if bs, err := json.Marshal(rows); err == nil {
			if err := c.rdb.SetEx(ctx, c.key(partition), bs, c.ttl).Err(); err != nil {
				log.Printf("snapshot-cache: set %s failed: %v", partition, err)
			}
		}
	}
	return rows, nil
}

// Invalidate drops the cached copy of a partition. A failed delete is logged
// and ignored: the TTL bounds the staleness window either way, and the
// coordinator re-reads the ledger directly after invalidating.
func (c *Snapshot) Invalidate(ctx context.Context, partition string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, c.key(partition)).Err(); err != nil {
		log.Printf("snapshot-cache: invalidate %s failed: %v", partition, err)
	}
}
