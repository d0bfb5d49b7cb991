package matching

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/titooo7/teamarr-sub001/internal/textmatch"
	"github.com/titooo7/teamarr-sub001/pkg/contracts"
	"github.com/titooo7/teamarr-sub001/pkg/models"
)

// PatternBuilder derives searchable patterns for every candidate event
// in scope for a set of leagues and a target date. Built patterns are
// kept until the target date changes; they are never implicitly reused
// across dates.
type PatternBuilder struct {
	provider contracts.EventProvider

	builtDate    time.Time
	builtLeagues string
	patterns     []models.EventPatterns
}

// NewPatternBuilder creates a pattern builder backed by the provider
func NewPatternBuilder(provider contracts.EventProvider) *PatternBuilder {
	return &PatternBuilder{provider: provider}
}

// Rebuild fetches events for each league on the target date and builds
// their patterns, in provider-returned order. Rebuilding is a no-op
// when the requested date and leagues match the last build. A provider
// failure for one league is logged and treated as an empty event list;
// other leagues are unaffected.
func (b *PatternBuilder) Rebuild(ctx context.Context, leagues []string, date time.Time) []models.EventPatterns {
	day := date.Truncate(24 * time.Hour)
	leaguesKey := strings.Join(leagues, ",")
	if b.patterns != nil && day.Equal(b.builtDate) && leaguesKey == b.builtLeagues {
		return b.patterns
	}

	patterns := make([]models.EventPatterns, 0)
	for _, league := range leagues {
		events, err := b.provider.Events(ctx, league, date)
		if err != nil {
			log.Printf("provider failed for league %s, treating as no events: %v", league, err)
			continue
		}
		for i := range events {
			patterns = append(patterns, BuildEventPatterns(&events[i]))
		}
	}

	b.builtDate = day
	b.builtLeagues = leaguesKey
	b.patterns = patterns
	return b.patterns
}

// BuildEventPatterns generates the searchable patterns for one event:
// home and away team variants plus event display-name variants. When a
// display name contains a colon, the prefix before the colon is
// registered as an additional pattern, capturing series-level naming
// like "UFC 300: Pereira vs Hill".
func BuildEventPatterns(event *models.Event) models.EventPatterns {
	ep := models.EventPatterns{
		Event:        event,
		League:       event.League,
		HomePatterns: textmatch.TeamPatterns(event.HomeTeam),
		AwayPatterns: textmatch.TeamPatterns(event.AwayTeam),
	}

	seen := make(map[string]bool)
	add := func(raw string) {
		text := textmatch.Normalize(raw)
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		ep.EventPatterns = append(ep.EventPatterns, text)
	}

	for _, name := range []string{event.Name, event.ShortName} {
		add(name)
		if idx := strings.Index(name, ":"); idx > 0 {
			add(name[:idx])
		}
	}

	return ep
}
