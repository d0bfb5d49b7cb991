package fingerprint

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/titooo7/teamarr-sub001/pkg/models"
)

// Redis key layout
const (
	keyPrefix     = "epg:fp:"
	generationKey = "epg:fp:generation"
	indexKey      = "epg:fp:generations"
)

// RedisStore is the durable fingerprint cache. Entries live as JSON
// values keyed by the stream fingerprint; a ZSET indexes every entry
// key by its last-seen generation so staleness purges are a single
// range query. The generation counter is a plain Redis INCR, atomic
// under concurrent runs sharing the store.
type RedisStore struct {
	client    *redis.Client
	retention int64 // generations an untouched entry survives a purge
}

// NewRedisStore creates a fingerprint store. retention is the number
// of runs an entry may go unseen before PurgeStale evicts it; 0 evicts
// anything not touched in the purging run.
func NewRedisStore(client *redis.Client, retention int64) *RedisStore {
	if retention < 0 {
		retention = 0
	}
	return &RedisStore{
		client:    client,
		retention: retention,
	}
}

// entryKey builds the composite fingerprint key. Stream names are
// free-form text, so the name component is hashed to keep keys flat.
func entryKey(groupID, streamID, streamName string) string {
	nameHash := sha256.Sum256([]byte(streamName))
	return fmt.Sprintf("%s%s:%s:%x", keyPrefix, groupID, streamID, nameHash[:8])
}

// Get retrieves the cache entry for a fingerprint, or nil if absent.
// The entry's last-seen generation comes from the ZSET index, which is
// authoritative after Touch.
func (s *RedisStore) Get(ctx context.Context, groupID, streamID, streamName string) (*models.CacheEntry, error) {
	key := entryKey(groupID, streamID, streamName)

	data, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cache entry: %w", err)
	}

	var entry models.CacheEntry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		return nil, fmt.Errorf("unmarshaling cache entry: %w", err)
	}

	if score, err := s.client.ZScore(ctx, indexKey, key).Result(); err == nil {
		entry.LastSeenGeneration = int64(score)
	}

	return &entry, nil
}

// Set inserts or replaces the entry for its fingerprint and records
// the entry's generation as last seen
func (s *RedisStore) Set(ctx context.Context, entry *models.CacheEntry) error {
	key := entryKey(entry.GroupID, entry.StreamID, entry.StreamName)

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(entry.LastSeenGeneration), Member: key})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set cache entry: %w", err)
	}

	return nil
}

// Touch marks the entry as seen at the given generation without
// altering the stored event, league, or snapshot
func (s *RedisStore) Touch(ctx context.Context, groupID, streamID, streamName string, generation int64) error {
	key := entryKey(groupID, streamID, streamName)

	// XX: only re-score existing members; touching an absent entry is
	// not allowed to create an index orphan
	added := s.client.ZAddXX(ctx, indexKey, redis.Z{Score: float64(generation), Member: key})
	if err := added.Err(); err != nil {
		return fmt.Errorf("touch cache entry: %w", err)
	}

	return nil
}

// Delete removes the entry for a fingerprint, forcing a full rematch
// on the next run
func (s *RedisStore) Delete(ctx context.Context, groupID, streamID, streamName string) error {
	key := entryKey(groupID, streamID, streamName)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.ZRem(ctx, indexKey, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}

	return nil
}

// PurgeStale deletes every entry whose last-seen generation has
// dropped out of the retention window relative to the given
// generation. Returns the number of entries removed.
func (s *RedisStore) PurgeStale(ctx context.Context, generation int64) (int, error) {
	threshold := generation - s.retention

	stale, err := s.client.ZRangeByScore(ctx, indexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("(%d", threshold),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("list stale entries: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, stale...)
	members := make([]interface{}, len(stale))
	for i, key := range stale {
		members[i] = key
	}
	pipe.ZRem(ctx, indexKey, members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("purge stale entries: %w", err)
	}

	return len(stale), nil
}

// Generation reads the shared generation counter
func (s *RedisStore) Generation(ctx context.Context) (int64, error) {
	gen, err := s.client.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read generation counter: %w", err)
	}
	return gen, nil
}

// IncrementGeneration atomically bumps and returns the shared
// generation counter. Two concurrent runs never observe the same
// post-increment value.
func (s *RedisStore) IncrementGeneration(ctx context.Context) (int64, error) {
	gen, err := s.client.Incr(ctx, generationKey).Result()
	if err != nil {
		return 0, fmt.Errorf("increment generation counter: %w", err)
	}
	return gen, nil
}

// Size returns the number of cached entries
func (s *RedisStore) Size(ctx context.Context) (int64, error) {
	size, err := s.client.ZCard(ctx, indexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("cache size: %w", err)
	}
	return size, nil
}

// Stats returns an introspection snapshot of the store
func (s *RedisStore) Stats(ctx context.Context) (*models.CacheStats, error) {
	size, err := s.Size(ctx)
	if err != nil {
		return nil, err
	}
	gen, err := s.Generation(ctx)
	if err != nil {
		return nil, err
	}
	return &models.CacheStats{Size: size, Generation: gen}, nil
}
