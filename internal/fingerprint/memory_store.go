package fingerprint

import (
	"context"
	"sync"

	"github.com/titooo7/teamarr-sub001/pkg/models"
)

// MemoryStore is an in-process FingerprintStore with the same contract
// as RedisStore, used in tests and local development
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]models.CacheEntry
	generation int64
	retention  int64
}

// NewMemoryStore creates an empty in-memory fingerprint store
func NewMemoryStore(retention int64) *MemoryStore {
	if retention < 0 {
		retention = 0
	}
	return &MemoryStore{
		entries:   make(map[string]models.CacheEntry),
		retention: retention,
	}
}

// Get retrieves the entry for a fingerprint, or nil if absent
func (s *MemoryStore) Get(ctx context.Context, groupID, streamID, streamName string) (*models.CacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[entryKey(groupID, streamID, streamName)]
	if !ok {
		return nil, nil
	}
	copied := entry
	return &copied, nil
}

// Set inserts or replaces the entry for its fingerprint
func (s *MemoryStore) Set(ctx context.Context, entry *models.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entryKey(entry.GroupID, entry.StreamID, entry.StreamName)] = *entry
	return nil
}

// Touch updates the entry's last-seen generation, if the entry exists
func (s *MemoryStore) Touch(ctx context.Context, groupID, streamID, streamName string, generation int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entryKey(groupID, streamID, streamName)
	if entry, ok := s.entries[key]; ok {
		entry.LastSeenGeneration = generation
		s.entries[key] = entry
	}
	return nil
}

// Delete removes the entry for a fingerprint
func (s *MemoryStore) Delete(ctx context.Context, groupID, streamID, streamName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, entryKey(groupID, streamID, streamName))
	return nil
}

// PurgeStale removes entries whose last-seen generation fell out of
// the retention window
func (s *MemoryStore) PurgeStale(ctx context.Context, generation int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	threshold := generation - s.retention
	purged := 0
	for key, entry := range s.entries {
		if entry.LastSeenGeneration < threshold {
			delete(s.entries, key)
			purged++
		}
	}
	return purged, nil
}

// Generation reads the generation counter
func (s *MemoryStore) Generation(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation, nil
}

// IncrementGeneration bumps and returns the generation counter
func (s *MemoryStore) IncrementGeneration(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	return s.generation, nil
}

// Size returns the number of cached entries
func (s *MemoryStore) Size(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.entries)), nil
}

// Stats returns an introspection snapshot of the store
func (s *MemoryStore) Stats(ctx context.Context) (*models.CacheStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &models.CacheStats{
		Size:       int64(len(s.entries)),
		Generation: s.generation,
	}, nil
}
