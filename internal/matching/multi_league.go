package matching

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/titooo7/teamarr-sub001/internal/alias"
	"github.com/titooo7/teamarr-sub001/pkg/contracts"
	"github.com/titooo7/teamarr-sub001/pkg/models"
)

// MultiLeagueMatcher matches streams against the events of several
// leagues at once. An optional include-leagues whitelist flags matches
// outside it as excluded; matching against non-whitelisted leagues
// still occurs so the result documents what the stream is.
type MultiLeagueMatcher struct {
	leagues        []string
	includeLeagues map[string]bool // nil means include every matched league
	cfg            Config
	builder        *PatternBuilder
	aliases        *alias.Resolver
}

// NewMultiLeagueMatcher creates a matcher over the given leagues. An
// empty includeLeagues slice means no whitelist: every match is
// included.
func NewMultiLeagueMatcher(leagues, includeLeagues []string, cfg Config, provider contracts.EventProvider, aliasStore contracts.AliasStore) *MultiLeagueMatcher {
	var whitelist map[string]bool
	if len(includeLeagues) > 0 {
		whitelist = make(map[string]bool, len(includeLeagues))
		for _, l := range includeLeagues {
			whitelist[l] = true
		}
	}

	return &MultiLeagueMatcher{
		leagues:        leagues,
		includeLeagues: whitelist,
		cfg:            cfg,
		builder:        NewPatternBuilder(provider),
		aliases:        alias.NewResolver(aliasStore),
	}
}

// MatchStreams matches every stream against all leagues' events on the
// target date. Results preserve input order.
func (m *MultiLeagueMatcher) MatchStreams(ctx context.Context, streams []models.Stream, date time.Time) *models.BatchMatchResult {
	candidates := m.Prepare(ctx, date)

	batch := &models.BatchMatchResult{
		RunID:           uuid.NewString(),
		TargetDate:      date,
		LeaguesSearched: m.leagues,
		Results:         make([]models.StreamMatchResult, 0, len(streams)),
	}

	for _, stream := range streams {
		batch.Results = append(batch.Results, m.MatchOne(ctx, stream, candidates))
	}

	batch.Tally()
	return batch
}

// Prepare builds (or reuses) the candidate event patterns for a date
func (m *MultiLeagueMatcher) Prepare(ctx context.Context, date time.Time) []models.EventPatterns {
	return m.builder.Rebuild(ctx, m.leagues, date)
}

// MatchOne runs the full matching algorithm for a single stream
// against prepared candidates and applies the inclusion decision.
func (m *MultiLeagueMatcher) MatchOne(ctx context.Context, stream models.Stream, candidates []models.EventPatterns) models.StreamMatchResult {
	result := matchStream(ctx, stream, candidates, m.cfg, m.aliases)

	if !result.Matched {
		return result
	}
	if m.includeLeagues == nil || m.includeLeagues[result.League] {
		result.Included = true
		return result
	}

	result.Included = false
	result.ExclusionReason = models.ReasonNotInWhitelist
	return result
}

// Config returns the matcher's matching settings
func (m *MultiLeagueMatcher) Config() Config {
	return m.cfg
}

// Leagues returns the leagues this matcher searches
func (m *MultiLeagueMatcher) Leagues() []string {
	return m.leagues
}
