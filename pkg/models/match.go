package models

import "time"

// Exclusion reasons recorded on non-included match results
const (
	ReasonException      = "exception"
	ReasonUnmatched      = "unmatched"
	ReasonNotInWhitelist = "league_not_in_whitelist"
	ReasonEventFinal     = "event_final"
	ReasonCacheError     = "cache_error"
)

// Stream is one raw live-stream entry from the source list
type Stream struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamPattern is a normalized candidate string for a team
type TeamPattern struct {
	Text   string `json:"text"`
	Source string `json:"source"` // "name", "short_name", or "abbreviation"
}

// EventPatterns holds the searchable patterns for one event on a target date
type EventPatterns struct {
	Event         *Event        `json:"event"`
	League        string        `json:"league"`
	HomePatterns  []TeamPattern `json:"home_patterns"`
	AwayPatterns  []TeamPattern `json:"away_patterns"`
	EventPatterns []string      `json:"event_patterns"`
}

// StreamMatchResult is the outcome of one stream match attempt
type StreamMatchResult struct {
	StreamID         string  `json:"stream_id"`
	StreamName       string  `json:"stream_name"`
	Matched          bool    `json:"matched"`
	Event            *Event  `json:"event,omitempty"`
	League           string  `json:"league,omitempty"`
	Included         bool    `json:"included"`
	ExclusionReason  string  `json:"exclusion_reason,omitempty"`
	ExceptionKeyword string  `json:"exception_keyword,omitempty"`
	MatchPass        string  `json:"match_pass,omitempty"` // which pass produced the match
	Score            float64 `json:"score,omitempty"`
}

// BatchMatchResult aggregates one matching run
type BatchMatchResult struct {
	RunID           string              `json:"run_id"`
	Results         []StreamMatchResult `json:"results"`
	TargetDate      time.Time           `json:"target_date"`
	LeaguesSearched []string            `json:"leagues_searched"`
	MatchedCount    int                 `json:"matched_count"`
	IncludedCount   int                 `json:"included_count"`
	ExcludedCount   int                 `json:"excluded_count"`
	UnmatchedCount  int                 `json:"unmatched_count"`
	ExceptionCount  int                 `json:"exception_count"`
	MatchRate       float64             `json:"match_rate"`
}

// Tally recomputes the aggregate counts and match rate from Results.
// The match rate denominator excludes exception-screened streams.
func (b *BatchMatchResult) Tally() {
	b.MatchedCount = 0
	b.IncludedCount = 0
	b.ExcludedCount = 0
	b.UnmatchedCount = 0
	b.ExceptionCount = 0

	for _, r := range b.Results {
		switch {
		case r.ExclusionReason == ReasonException:
			b.ExceptionCount++
		case r.Matched:
			b.MatchedCount++
		default:
			b.UnmatchedCount++
		}
		if r.Included {
			b.IncludedCount++
		} else if r.Matched {
			b.ExcludedCount++
		}
	}

	denom := len(b.Results) - b.ExceptionCount
	if denom > 0 {
		b.MatchRate = float64(b.MatchedCount) / float64(denom)
	} else {
		b.MatchRate = 0
	}
}

// CachedStreamResult is a StreamMatchResult annotated with cache provenance
type CachedStreamResult struct {
	StreamMatchResult
	FromCache bool `json:"from_cache"`
	Refreshed bool `json:"refreshed"`
}

// CachedBatchResult is the cache-aware extension of BatchMatchResult
type CachedBatchResult struct {
	BatchMatchResult
	CachedResults []CachedStreamResult `json:"cached_results"`
	Generation    int64                `json:"generation"`
	CacheHits     int                  `json:"cache_hits"`
	CacheMisses   int                  `json:"cache_misses"`
	CacheHitRate  float64              `json:"cache_hit_rate"`
	PurgedEntries int                  `json:"purged_entries"`
}

// ComputeHitRate sets CacheHitRate from CacheHits and CacheMisses,
// defined as 0 when both are 0.
func (c *CachedBatchResult) ComputeHitRate() {
	total := c.CacheHits + c.CacheMisses
	if total > 0 {
		c.CacheHitRate = float64(c.CacheHits) / float64(total)
	} else {
		c.CacheHitRate = 0
	}
}
