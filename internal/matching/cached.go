package matching

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/titooo7/teamarr-sub001/pkg/contracts"
	"github.com/titooo7/teamarr-sub001/pkg/models"
)

// CachedMatcher composes the multi-league matcher with the fingerprint
// store. Cache hits skip full matching and only refresh the volatile
// event fields through the provider's single-event lookup; misses fall
// through to the full algorithm and persist new matches. Entries not
// seen during a run are purged at the end of it.
//
// Storage failure policy: a Get, Touch, or Delete failure fails only
// the affected stream (exclusion reason "cache_error"); a Set failure
// is logged and the fresh match is still returned, it simply is not
// remembered. A generation-counter failure aborts the whole batch,
// since purging against an unknown generation could evict live
// entries.
type CachedMatcher struct {
	matcher      *MultiLeagueMatcher
	store        contracts.FingerprintStore
	provider     contracts.EventProvider
	groupID      string
	excludeFinal bool
}

// NewCachedMatcher creates a cache-backed matcher for one channel
// group. excludeFinal drops events that have reached a terminal status
// from the output, invalidating their cache entries.
func NewCachedMatcher(matcher *MultiLeagueMatcher, store contracts.FingerprintStore, provider contracts.EventProvider, groupID string, excludeFinal bool) *CachedMatcher {
	return &CachedMatcher{
		matcher:      matcher,
		store:        store,
		provider:     provider,
		groupID:      groupID,
		excludeFinal: excludeFinal,
	}
}

// MatchAll runs the cached matching state machine for every stream, in
// input order. The generation counter is incremented exactly once,
// before any per-stream work; stale entries are purged once at the
// end.
func (cm *CachedMatcher) MatchAll(ctx context.Context, streams []models.Stream, date time.Time) (*models.CachedBatchResult, error) {
	generation, err := cm.store.IncrementGeneration(ctx)
	if err != nil {
		return nil, err
	}

	candidates := cm.matcher.Prepare(ctx, date)

	batch := &models.CachedBatchResult{
		BatchMatchResult: models.BatchMatchResult{
			RunID:           uuid.NewString(),
			TargetDate:      date,
			LeaguesSearched: cm.matcher.Leagues(),
			Results:         make([]models.StreamMatchResult, 0, len(streams)),
		},
		CachedResults: make([]models.CachedStreamResult, 0, len(streams)),
		Generation:    generation,
	}

	for _, stream := range streams {
		result := cm.matchStream(ctx, stream, candidates, generation, batch)
		batch.CachedResults = append(batch.CachedResults, result)
		batch.Results = append(batch.Results, result.StreamMatchResult)
	}

	purged, err := cm.store.PurgeStale(ctx, generation)
	if err != nil {
		// Stale entries linger one extra run; the next purge catches them
		log.Printf("stale purge failed at generation %d: %v", generation, err)
	}
	batch.PurgedEntries = purged

	batch.Tally()
	batch.ComputeHitRate()
	return batch, nil
}

// matchStream runs the per-stream state machine: exception screen,
// cache lookup, then either a hit refresh or a full match.
func (cm *CachedMatcher) matchStream(ctx context.Context, stream models.Stream, candidates []models.EventPatterns, generation int64, batch *models.CachedBatchResult) models.CachedStreamResult {
	base := models.StreamMatchResult{
		StreamID:   stream.ID,
		StreamName: stream.Name,
	}

	// Exception screen short-circuits before any cache work
	if kw, ok := cm.matcher.Config().ExceptionKeyword(stream.Name); ok {
		base.ExclusionReason = models.ReasonException
		base.ExceptionKeyword = kw
		return models.CachedStreamResult{StreamMatchResult: base}
	}

	entry, err := cm.store.Get(ctx, cm.groupID, stream.ID, stream.Name)
	if err != nil {
		log.Printf("cache get failed for stream %s: %v", stream.ID, err)
		base.ExclusionReason = models.ReasonCacheError
		return models.CachedStreamResult{StreamMatchResult: base}
	}

	if entry != nil {
		batch.CacheHits++
		return cm.serveHit(ctx, stream, entry, generation)
	}

	batch.CacheMisses++
	result := cm.matcher.MatchOne(ctx, stream, candidates)
	if result.Matched && result.Included {
		cm.persist(ctx, stream, &result, generation)
	}

	return models.CachedStreamResult{StreamMatchResult: result}
}

// serveHit refreshes the volatile fields of a cached match and decides
// whether the entry is still valid. Static identity fields always come
// from the cached snapshot.
func (cm *CachedMatcher) serveHit(ctx context.Context, stream models.Stream, entry *models.CacheEntry, generation int64) models.CachedStreamResult {
	result := models.CachedStreamResult{
		StreamMatchResult: models.StreamMatchResult{
			StreamID:   stream.ID,
			StreamName: stream.Name,
			Matched:    true,
			League:     entry.League,
		},
		FromCache: true,
	}

	snapshot := *entry.Snapshot
	fresh, err := cm.provider.Event(ctx, entry.EventID, entry.League)
	if err != nil {
		// Provider unavailable: keep cached data, mark not refreshed
		log.Printf("refresh failed for event %s, serving cached data: %v", entry.EventID, err)
	} else if fresh != nil {
		snapshot.Status = fresh.Status
		snapshot.HomeScore = fresh.HomeScore
		snapshot.AwayScore = fresh.AwayScore
		snapshot.Odds = fresh.Odds
		result.Refreshed = true
	}
	result.Event = &snapshot

	if result.Refreshed && snapshot.Status.IsTerminal() && cm.excludeFinal {
		if err := cm.store.Delete(ctx, cm.groupID, stream.ID, stream.Name); err != nil {
			log.Printf("cache delete failed for stream %s: %v", stream.ID, err)
			result.StreamMatchResult = models.StreamMatchResult{
				StreamID:        stream.ID,
				StreamName:      stream.Name,
				ExclusionReason: models.ReasonCacheError,
			}
			return result
		}
		result.Included = false
		result.ExclusionReason = models.ReasonEventFinal
		return result
	}

	if err := cm.store.Touch(ctx, cm.groupID, stream.ID, stream.Name, generation); err != nil {
		log.Printf("cache touch failed for stream %s: %v", stream.ID, err)
		result.StreamMatchResult = models.StreamMatchResult{
			StreamID:        stream.ID,
			StreamName:      stream.Name,
			ExclusionReason: models.ReasonCacheError,
		}
		return result
	}

	result.Included = true
	return result
}

// persist records a fresh included match in the fingerprint store
func (cm *CachedMatcher) persist(ctx context.Context, stream models.Stream, result *models.StreamMatchResult, generation int64) {
	entry := &models.CacheEntry{
		GroupID:            cm.groupID,
		StreamID:           stream.ID,
		StreamName:         stream.Name,
		EventID:            result.Event.EventID,
		League:             result.League,
		Snapshot:           result.Event,
		LastSeenGeneration: generation,
		MatchedAt:          time.Now(),
	}
	if err := cm.store.Set(ctx, entry); err != nil {
		// The match stands; it just will not be remembered for next run
		log.Printf("cache set failed for stream %s: %v", stream.ID, err)
	}
}
