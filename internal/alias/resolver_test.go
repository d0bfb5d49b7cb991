package alias_test

import (
	"context"
	"errors"
	"testing"

	"github.com/titooo7/teamarr-sub001/internal/alias"
	"github.com/titooo7/teamarr-sub001/pkg/models"
)

// fakeStore returns canned aliases per league and counts calls
type fakeStore struct {
	aliases map[string][]models.TeamAlias
	err     error
	calls   int
}

func (f *fakeStore) ListAliases(ctx context.Context, league string) ([]models.TeamAlias, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.aliases[league], nil
}

func frenchAliases() map[string][]models.TeamAlias {
	return map[string][]models.TeamAlias{
		"fra.1": {
			{Alias: "PSG", League: "fra.1", TeamID: "73", TeamName: "Paris Saint-Germain"},
			{Alias: "OM", League: "fra.1", TeamID: "176", TeamName: "Marseille"},
		},
	}
}

func TestFindAliasTeamIDs(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		league  string
		wantIDs []string
	}{
		{
			name:    "both sides found",
			text:    "psg om",
			league:  "fra.1",
			wantIDs: []string{"73", "176"},
		},
		{
			name:    "word bounded only",
			text:    "omaha psgx feed",
			league:  "fra.1",
			wantIDs: nil,
		},
		{
			name:    "one side found",
			text:    "psg vs lyon",
			league:  "fra.1",
			wantIDs: []string{"73"},
		},
		{
			name:    "unknown league",
			text:    "psg om",
			league:  "eng.1",
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := alias.NewResolver(&fakeStore{aliases: frenchAliases()})
			got := r.FindAliasTeamIDs(context.Background(), tt.text, tt.league)

			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d team ids (%v), want %d", len(got), got, len(tt.wantIDs))
			}
			for _, id := range tt.wantIDs {
				if !got[id] {
					t.Errorf("expected team id %s in %v", id, got)
				}
			}
		})
	}
}

func TestResolverMemoizesLoads(t *testing.T) {
	store := &fakeStore{aliases: frenchAliases()}
	r := alias.NewResolver(store)
	ctx := context.Background()

	r.FindAliasTeamIDs(ctx, "psg om", "fra.1")
	r.FindAliasTeamIDs(ctx, "psg vs lyon", "fra.1")

	if store.calls != 1 {
		t.Errorf("store called %d times, want 1", store.calls)
	}
}

func TestResolverDegradesOnStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	r := alias.NewResolver(store)
	ctx := context.Background()

	got := r.FindAliasTeamIDs(ctx, "psg om", "fra.1")
	if len(got) != 0 {
		t.Errorf("expected empty alias set on store failure, got %v", got)
	}

	// Failure is memoized too: no retry storm within one run
	r.FindAliasTeamIDs(ctx, "psg om", "fra.1")
	if store.calls != 1 {
		t.Errorf("store called %d times after failure, want 1", store.calls)
	}
}
