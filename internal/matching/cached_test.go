package matching_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/titooo7/teamarr-sub001/internal/fingerprint"
	"github.com/titooo7/teamarr-sub001/internal/matching"
	"github.com/titooo7/teamarr-sub001/pkg/contracts"
	"github.com/titooo7/teamarr-sub001/pkg/models"
)

const groupID = "sports"

func newCachedMatcher(provider *fakeProvider, store contracts.FingerprintStore, excludeFinal bool) *matching.CachedMatcher {
	m := matching.NewMultiLeagueMatcher(
		[]string{"nba", "ufc", "fra.1"}, nil, testConfig(), provider, testAliasStore())
	return matching.NewCachedMatcher(m, store, provider, groupID, excludeFinal)
}

func TestMatchAllCachesAndServesHits(t *testing.T) {
	provider := testProvider()
	store := fingerprint.NewMemoryStore(0)
	cm := newCachedMatcher(provider, store, true)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	streams := []models.Stream{{ID: "s1", Name: "Lakers vs Celtics"}}

	// First run: miss, full match, entry persisted
	first, err := cm.MatchAll(ctx, streams, date)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.CacheHits != 0 || first.CacheMisses != 1 {
		t.Errorf("first run hits/misses = %d/%d, want 0/1", first.CacheHits, first.CacheMisses)
	}
	if first.CachedResults[0].FromCache {
		t.Error("first run result should not come from cache")
	}
	if first.Generation != 1 {
		t.Errorf("first run generation = %d, want 1", first.Generation)
	}

	entry, _ := store.Get(ctx, groupID, "s1", "Lakers vs Celtics")
	if entry == nil || entry.EventID != "401585601" {
		t.Fatalf("expected persisted entry for the match, got %+v", entry)
	}

	// Second run: hit, refreshed, touched at the new generation
	second, err := cm.MatchAll(ctx, streams, date)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.CacheHits != 1 || second.CacheMisses != 0 {
		t.Errorf("second run hits/misses = %d/%d, want 1/0", second.CacheHits, second.CacheMisses)
	}
	r := second.CachedResults[0]
	if !r.FromCache || !r.Refreshed || !r.Included || !r.Matched {
		t.Errorf("second run result = %+v, want cached refreshed included match", r)
	}
	if second.CacheHitRate != 1.0 {
		t.Errorf("hit rate = %f, want 1.0", second.CacheHitRate)
	}

	entry, _ = store.Get(ctx, groupID, "s1", "Lakers vs Celtics")
	if entry.LastSeenGeneration != second.Generation {
		t.Errorf("entry generation = %d, want %d", entry.LastSeenGeneration, second.Generation)
	}
}

func TestHitRefreshFailureKeepsCachedData(t *testing.T) {
	provider := testProvider()
	store := fingerprint.NewMemoryStore(0)
	cm := newCachedMatcher(provider, store, true)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	streams := []models.Stream{{ID: "s1", Name: "Lakers vs Celtics"}}

	if _, err := cm.MatchAll(ctx, streams, date); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	provider.refreshErr = errors.New("provider unavailable")
	batch, err := cm.MatchAll(ctx, streams, date)
	if err != nil {
		t.Fatalf("run with failing refresh: %v", err)
	}

	r := batch.CachedResults[0]
	if !r.FromCache || r.Refreshed {
		t.Errorf("result = %+v, want cached and not refreshed", r)
	}
	if !r.Matched || !r.Included {
		t.Errorf("refresh failure must not fail the stream: %+v", r)
	}
	if r.Event == nil || r.Event.EventID != "401585601" {
		t.Errorf("expected cached snapshot served, got %+v", r.Event)
	}
}

func TestTerminalEventInvalidatesEntry(t *testing.T) {
	provider := testProvider()
	store := fingerprint.NewMemoryStore(0)
	cm := newCachedMatcher(provider, store, true)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	streams := []models.Stream{{ID: "s1", Name: "Lakers vs Celtics"}}

	if _, err := cm.MatchAll(ctx, streams, date); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	final := nbaEvent()
	final.Status = models.StatusFinal
	final.HomeScore = 112
	final.AwayScore = 104
	provider.refreshed = map[string]*models.Event{"401585601": &final}

	batch, err := cm.MatchAll(ctx, streams, date)
	if err != nil {
		t.Fatalf("run after final: %v", err)
	}

	r := batch.CachedResults[0]
	if r.Included || r.ExclusionReason != models.ReasonEventFinal {
		t.Errorf("result = %+v, want excluded with reason %q", r, models.ReasonEventFinal)
	}
	if !r.FromCache || !r.Refreshed {
		t.Errorf("result = %+v, want from_cache and refreshed", r)
	}

	// Entry deleted: next run recomputes from scratch
	entry, _ := store.Get(ctx, groupID, "s1", "Lakers vs Celtics")
	if entry != nil {
		t.Errorf("expected entry deleted after terminal status, got %+v", entry)
	}
}

func TestTerminalEventKeptWhenPolicyAllows(t *testing.T) {
	provider := testProvider()
	store := fingerprint.NewMemoryStore(0)
	cm := newCachedMatcher(provider, store, false)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	streams := []models.Stream{{ID: "s1", Name: "Lakers vs Celtics"}}

	if _, err := cm.MatchAll(ctx, streams, date); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	final := nbaEvent()
	final.Status = models.StatusFinal
	provider.refreshed = map[string]*models.Event{"401585601": &final}

	batch, err := cm.MatchAll(ctx, streams, date)
	if err != nil {
		t.Fatalf("run after final: %v", err)
	}

	r := batch.CachedResults[0]
	if !r.Included || !r.Matched {
		t.Errorf("with exclude-final off the hit stays included, got %+v", r)
	}
	if entry, _ := store.Get(ctx, groupID, "s1", "Lakers vs Celtics"); entry == nil {
		t.Error("entry should survive when terminal events are not excluded")
	}
}

func TestVanishedStreamsArePurged(t *testing.T) {
	provider := testProvider()
	store := fingerprint.NewMemoryStore(0)
	cm := newCachedMatcher(provider, store, true)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	if _, err := cm.MatchAll(ctx, []models.Stream{
		{ID: "s1", Name: "Lakers vs Celtics"},
		{ID: "s2", Name: "UFC PPV Feed 1"},
	}, date); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	// s2 disappears from the source list
	batch, err := cm.MatchAll(ctx, []models.Stream{{ID: "s1", Name: "Lakers vs Celtics"}}, date)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if batch.PurgedEntries != 1 {
		t.Errorf("purged = %d, want 1", batch.PurgedEntries)
	}
	if entry, _ := store.Get(ctx, groupID, "s2", "UFC PPV Feed 1"); entry != nil {
		t.Errorf("vanished stream's entry should be purged, got %+v", entry)
	}
	if entry, _ := store.Get(ctx, groupID, "s1", "Lakers vs Celtics"); entry == nil {
		t.Error("live stream's entry must survive the purge")
	}
}

func TestExceptionScreenSkipsCache(t *testing.T) {
	provider := testProvider()
	store := fingerprint.NewMemoryStore(0)
	cm := newCachedMatcher(provider, store, true)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	batch, err := cm.MatchAll(ctx, []models.Stream{{ID: "s1", Name: "NFL RedZone Channel"}}, date)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	r := batch.CachedResults[0]
	if r.Matched || r.ExclusionReason != models.ReasonException {
		t.Errorf("result = %+v, want exception screen", r)
	}
	// Exception-screened streams never count as hits or misses
	if batch.CacheHits != 0 || batch.CacheMisses != 0 {
		t.Errorf("hits/misses = %d/%d, want 0/0", batch.CacheHits, batch.CacheMisses)
	}
	if batch.CacheHitRate != 0 {
		t.Errorf("hit rate = %f, want 0 with no lookups", batch.CacheHitRate)
	}
}

func TestUnmatchedStreamsAreNotCached(t *testing.T) {
	provider := testProvider()
	store := fingerprint.NewMemoryStore(0)
	cm := newCachedMatcher(provider, store, true)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	if _, err := cm.MatchAll(ctx, []models.Stream{{ID: "s1", Name: "Cooking With Carla"}}, date); err != nil {
		t.Fatalf("run: %v", err)
	}

	size, _ := store.Size(ctx)
	if size != 0 {
		t.Errorf("cache size = %d, want 0 after unmatched-only run", size)
	}
}

// failingStore wraps MemoryStore and fails selected operations
type failingStore struct {
	*fingerprint.MemoryStore
	failGet       bool
	failTouch     bool
	failIncrement bool
}

func (f *failingStore) Get(ctx context.Context, groupID, streamID, streamName string) (*models.CacheEntry, error) {
	if f.failGet {
		return nil, errors.New("redis: connection refused")
	}
	return f.MemoryStore.Get(ctx, groupID, streamID, streamName)
}

func (f *failingStore) Touch(ctx context.Context, groupID, streamID, streamName string, generation int64) error {
	if f.failTouch {
		return errors.New("redis: connection refused")
	}
	return f.MemoryStore.Touch(ctx, groupID, streamID, streamName, generation)
}

func (f *failingStore) IncrementGeneration(ctx context.Context) (int64, error) {
	if f.failIncrement {
		return 0, errors.New("redis: connection refused")
	}
	return f.MemoryStore.IncrementGeneration(ctx)
}

func TestCacheGetFailureFailsOnlyThatStream(t *testing.T) {
	provider := testProvider()
	store := &failingStore{MemoryStore: fingerprint.NewMemoryStore(0), failGet: true}
	cm := newCachedMatcher(provider, store, true)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	batch, err := cm.MatchAll(ctx, []models.Stream{
		{ID: "s1", Name: "Lakers vs Celtics"},
		{ID: "s2", Name: "NFL RedZone Channel"},
	}, date)
	if err != nil {
		t.Fatalf("batch must survive per-stream store failures: %v", err)
	}

	if batch.CachedResults[0].ExclusionReason != models.ReasonCacheError {
		t.Errorf("result = %+v, want cache_error", batch.CachedResults[0])
	}
	// The exception stream never touches the store and is unaffected
	if batch.CachedResults[1].ExclusionReason != models.ReasonException {
		t.Errorf("result = %+v, want exception", batch.CachedResults[1])
	}
}

func TestGenerationFailureAbortsBatch(t *testing.T) {
	provider := testProvider()
	store := &failingStore{MemoryStore: fingerprint.NewMemoryStore(0), failIncrement: true}
	cm := newCachedMatcher(provider, store, true)

	_, err := cm.MatchAll(context.Background(), []models.Stream{
		{ID: "s1", Name: "Lakers vs Celtics"},
	}, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected batch abort when the generation counter cannot be incremented")
	}
}

func TestCachedResultsPreserveInputOrder(t *testing.T) {
	provider := testProvider()
	store := fingerprint.NewMemoryStore(0)
	cm := newCachedMatcher(provider, store, true)
	ctx := context.Background()
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	streams := []models.Stream{
		{ID: "s1", Name: "Lakers vs Celtics"},
		{ID: "s2", Name: "NFL RedZone Channel"},
		{ID: "s3", Name: "UFC PPV Feed 1"},
		{ID: "s4", Name: "PSG - OM"},
	}

	// Seed, then rerun so the batch mixes hits, misses, and exceptions
	if _, err := cm.MatchAll(ctx, streams[:2], date); err != nil {
		t.Fatalf("seed run: %v", err)
	}
	batch, err := cm.MatchAll(ctx, streams, date)
	if err != nil {
		t.Fatalf("mixed run: %v", err)
	}

	for i, r := range batch.CachedResults {
		if r.StreamID != streams[i].ID {
			t.Fatalf("result %d has stream id %s, want %s", i, r.StreamID, streams[i].ID)
		}
	}
}
