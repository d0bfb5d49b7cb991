package matching

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/titooo7/teamarr-sub001/internal/alias"
	"github.com/titooo7/teamarr-sub001/internal/textmatch"
	"github.com/titooo7/teamarr-sub001/pkg/contracts"
	"github.com/titooo7/teamarr-sub001/pkg/models"
)

// Match pass identifiers recorded on StreamMatchResult.MatchPass
const (
	PassAlias       = "alias"
	PassAliasFuzzy  = "alias_fuzzy"
	PassFuzzy       = "fuzzy"
	PassEventName   = "event_name"
	PassSingleEvent = "single_event"
)

// Config holds the externally managed matching settings
type Config struct {
	// ExceptionKeywords force a non-match when present in a stream
	// name, e.g. "redzone" or "multicam"
	ExceptionKeywords []string

	// SingleEventLeagues maps leagues that produce at most one event
	// per day to the keywords enabling keyword-only fallback matching,
	// e.g. "ufc" -> ["ufc"]
	SingleEventLeagues map[string][]string

	// EventNameThreshold is the token-set score required by the
	// event-name pass; zero means textmatch.DefaultThreshold
	EventNameThreshold float64
}

func (c Config) threshold() float64 {
	if c.EventNameThreshold > 0 {
		return c.EventNameThreshold
	}
	return textmatch.DefaultThreshold
}

// ExceptionKeyword returns the first configured exception keyword
// contained in the stream name, comparing lowercased
func (c Config) ExceptionKeyword(streamName string) (string, bool) {
	lower := strings.ToLower(streamName)
	for _, kw := range c.ExceptionKeywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return strings.ToLower(kw), true
		}
	}
	return "", false
}

// Matcher matches streams against the events of a single league.
// A matcher instance belongs to one logical run; it is not safe for
// concurrent use.
type Matcher struct {
	league  string
	cfg     Config
	builder *PatternBuilder
	aliases *alias.Resolver
}

// NewMatcher creates a single-league matcher
func NewMatcher(league string, cfg Config, provider contracts.EventProvider, aliasStore contracts.AliasStore) *Matcher {
	return &Matcher{
		league:  league,
		cfg:     cfg,
		builder: NewPatternBuilder(provider),
		aliases: alias.NewResolver(aliasStore),
	}
}

// MatchStreams matches every stream against the league's events on the
// target date. Results preserve input order.
func (m *Matcher) MatchStreams(ctx context.Context, streams []models.Stream, date time.Time) *models.BatchMatchResult {
	candidates := m.builder.Rebuild(ctx, []string{m.league}, date)

	batch := &models.BatchMatchResult{
		RunID:           uuid.NewString(),
		TargetDate:      date,
		LeaguesSearched: []string{m.league},
		Results:         make([]models.StreamMatchResult, 0, len(streams)),
	}

	for _, stream := range streams {
		result := matchStream(ctx, stream, candidates, m.cfg, m.aliases)
		// Single-league matching has no whitelist: included == matched
		result.Included = result.Matched
		batch.Results = append(batch.Results, result)
	}

	batch.Tally()
	return batch
}

// matchStream runs the multi-pass algorithm for one stream against the
// candidate events, in strict precedence order. The first candidate
// satisfying a pass wins, in provider-returned order; there is no
// score-based tie-break between candidates within a pass.
func matchStream(ctx context.Context, stream models.Stream, candidates []models.EventPatterns, cfg Config, aliases *alias.Resolver) models.StreamMatchResult {
	result := models.StreamMatchResult{
		StreamID:   stream.ID,
		StreamName: stream.Name,
	}

	// Pass 1: exception screen short-circuits everything else
	if kw, ok := cfg.ExceptionKeyword(stream.Name); ok {
		result.ExclusionReason = models.ReasonException
		result.ExceptionKeyword = kw
		return result
	}

	// Pass 2: expand abbreviations once for all subsequent passes
	expanded := textmatch.ExpandAbbreviations(stream.Name)

	// Pass 3: alias pass, highest precision
	for i := range candidates {
		c := &candidates[i]
		ids := aliases.FindAliasTeamIDs(ctx, expanded, c.League)
		if len(ids) == 0 {
			continue
		}
		homeAlias := ids[c.Event.HomeTeam.TeamID]
		awayAlias := ids[c.Event.AwayTeam.TeamID]

		switch {
		case homeAlias && awayAlias:
			return matched(result, c, PassAlias, 100)
		case homeAlias:
			if hit := textmatch.MatchAny(c.AwayPatterns, expanded); hit.Matched {
				return matched(result, c, PassAliasFuzzy, hit.Score)
			}
		case awayAlias:
			if hit := textmatch.MatchAny(c.HomePatterns, expanded); hit.Matched {
				return matched(result, c, PassAliasFuzzy, hit.Score)
			}
		}
	}

	// Pass 4: two-sided fuzzy pass
	for i := range candidates {
		c := &candidates[i]
		home := textmatch.MatchAny(c.HomePatterns, expanded)
		if !home.Matched {
			continue
		}
		away := textmatch.MatchAny(c.AwayPatterns, expanded)
		if away.Matched {
			score := home.Score
			if away.Score < score {
				score = away.Score
			}
			return matched(result, c, PassFuzzy, score)
		}
	}

	// Pass 5: event-name pass, including colon-prefix variants
	threshold := cfg.threshold()
	for i := range candidates {
		c := &candidates[i]
		for _, pattern := range c.EventPatterns {
			if ok, score := textmatch.MatchEventName(expanded, pattern, threshold); ok {
				return matched(result, c, PassEventName, score)
			}
		}
	}

	// Pass 6: single-event-league keyword fallback. With exactly one
	// candidate on the date there is nothing to disambiguate against.
	// Walks candidates rather than the config map so that overlapping
	// keyword sets resolve in provider order on every run.
	for i := range candidates {
		c := &candidates[i]
		keywords, ok := cfg.SingleEventLeagues[c.League]
		if !ok || !containsAnyKeyword(expanded, keywords) {
			continue
		}
		if soleLeagueCandidate(candidates, c.League) == c {
			return matched(result, c, PassSingleEvent, 100)
		}
	}

	result.ExclusionReason = models.ReasonUnmatched
	return result
}

// matched fills in the match fields on a copy of the base result
func matched(base models.StreamMatchResult, c *models.EventPatterns, pass string, score float64) models.StreamMatchResult {
	base.Matched = true
	base.Event = c.Event
	base.League = c.League
	base.MatchPass = pass
	base.Score = score
	return base
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// soleLeagueCandidate returns the league's candidate if exactly one
// exists, nil otherwise
func soleLeagueCandidate(candidates []models.EventPatterns, league string) *models.EventPatterns {
	var sole *models.EventPatterns
	for i := range candidates {
		if candidates[i].League != league {
			continue
		}
		if sole != nil {
			return nil
		}
		sole = &candidates[i]
	}
	return sole
}
