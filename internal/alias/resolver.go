package alias

import (
	"context"
	"log"
	"strings"

	"github.com/titooo7/teamarr-sub001/internal/textmatch"
	"github.com/titooo7/teamarr-sub001/pkg/contracts"
)

// Target is the team an alias resolves to
type Target struct {
	TeamID   string
	TeamName string
}

// Resolver maps user-defined alias text to team ids, one league at a
// time. Alias sets are loaded lazily and memoized for the lifetime of
// the resolver; a resolver belongs to a single matching run and is not
// safe for concurrent use.
type Resolver struct {
	store  contracts.AliasStore
	loaded map[string]map[string]Target // league -> normalized alias -> target
}

// NewResolver creates an alias resolver backed by the given store
func NewResolver(store contracts.AliasStore) *Resolver {
	return &Resolver{
		store:  store,
		loaded: make(map[string]map[string]Target),
	}
}

// FindAliasTeamIDs returns every team id whose alias text appears in
// the stream text as a whole word. Both sides are compared with space
// padding so "om" cannot match inside "tottenham".
func (r *Resolver) FindAliasTeamIDs(ctx context.Context, streamTextLower, league string) map[string]bool {
	aliases := r.leagueAliases(ctx, league)
	if len(aliases) == 0 {
		return nil
	}

	padded := " " + strings.TrimSpace(streamTextLower) + " "
	teamIDs := make(map[string]bool)
	for text, target := range aliases {
		if strings.Contains(padded, " "+text+" ") {
			teamIDs[target.TeamID] = true
		}
	}

	return teamIDs
}

// leagueAliases loads and memoizes the alias map for a league. A store
// failure degrades to an empty alias set; the alias pass is skipped for
// that league but matching continues.
func (r *Resolver) leagueAliases(ctx context.Context, league string) map[string]Target {
	if aliases, ok := r.loaded[league]; ok {
		return aliases
	}

	aliases := make(map[string]Target)
	rows, err := r.store.ListAliases(ctx, league)
	if err != nil {
		log.Printf("alias load failed for league %s, continuing without aliases: %v", league, err)
		r.loaded[league] = aliases
		return aliases
	}

	for _, row := range rows {
		text := textmatch.Normalize(row.Alias)
		if text == "" {
			continue
		}
		aliases[text] = Target{TeamID: row.TeamID, TeamName: row.TeamName}
	}

	r.loaded[league] = aliases
	return aliases
}
