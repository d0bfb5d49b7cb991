package runner

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/titooo7/teamarr-sub001/internal/matching"
	"github.com/titooo7/teamarr-sub001/pkg/contracts"
	"github.com/titooo7/teamarr-sub001/pkg/models"
)

// Runner drives the periodic matching job: pull the stream list, match
// it against today's events through the cached matcher, and keep the
// latest batch result for introspection
type Runner struct {
	matcher  *matching.CachedMatcher
	source   contracts.StreamSource
	interval time.Duration

	mu   sync.RWMutex
	last *models.CachedBatchResult
}

// New creates a runner that executes every interval
func New(matcher *matching.CachedMatcher, source contracts.StreamSource, interval time.Duration) *Runner {
	return &Runner{
		matcher:  matcher,
		source:   source,
		interval: interval,
	}
}

// Run executes one matching pass immediately and then on every tick
// until the context is canceled
func (r *Runner) Run(ctx context.Context) {
	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Runner stopped")
			return
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

// runOnce performs a single matching pass for today
func (r *Runner) runOnce(ctx context.Context) {
	streams, err := r.source.ListStreams(ctx)
	if err != nil {
		log.Printf("stream list fetch failed, skipping run: %v", err)
		return
	}
	if len(streams) == 0 {
		log.Println("stream list empty, skipping run")
		return
	}

	batch, err := r.matcher.MatchAll(ctx, streams, time.Now().UTC())
	if err != nil {
		log.Printf("matching run failed: %v", err)
		return
	}

	log.Printf("run %s generation %d: %d streams, %d matched (%.0f%%), %d included, %d cache hits (%.0f%%), %d purged",
		batch.RunID, batch.Generation, len(batch.Results), batch.MatchedCount,
		batch.MatchRate*100, batch.IncludedCount, batch.CacheHits,
		batch.CacheHitRate*100, batch.PurgedEntries)

	r.mu.Lock()
	r.last = batch
	r.mu.Unlock()
}

// LastResult returns the most recent batch result, or nil before the
// first successful run
func (r *Runner) LastResult() *models.CachedBatchResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.last
}
