package runner_test

import (
	"context"
	"testing"
	"time"

	"github.com/titooo7/teamarr-sub001/internal/fingerprint"
	"github.com/titooo7/teamarr-sub001/internal/matching"
	"github.com/titooo7/teamarr-sub001/internal/runner"
	"github.com/titooo7/teamarr-sub001/pkg/models"
)

type staticProvider struct {
	events []models.Event
}

func (p *staticProvider) Events(ctx context.Context, league string, date time.Time) ([]models.Event, error) {
	return p.events, nil
}

func (p *staticProvider) Event(ctx context.Context, eventID, league string) (*models.Event, error) {
	for i := range p.events {
		if p.events[i].EventID == eventID {
			return &p.events[i], nil
		}
	}
	return nil, nil
}

type staticAliases struct{}

func (staticAliases) ListAliases(ctx context.Context, league string) ([]models.TeamAlias, error) {
	return nil, nil
}

type staticSource struct {
	streams []models.Stream
}

func (s *staticSource) ListStreams(ctx context.Context) ([]models.Stream, error) {
	return s.streams, nil
}

func TestRunnerRecordsLastResult(t *testing.T) {
	provider := &staticProvider{events: []models.Event{{
		EventID:  "401585601",
		League:   "nba",
		HomeTeam: models.Team{TeamID: "13", Name: "Los Angeles Lakers"},
		AwayTeam: models.Team{TeamID: "2", Name: "Boston Celtics"},
		Status:   models.StatusScheduled,
	}}}

	matcher := matching.NewMultiLeagueMatcher([]string{"nba"}, nil, matching.Config{}, provider, staticAliases{})
	cached := matching.NewCachedMatcher(matcher, fingerprint.NewMemoryStore(0), provider, "sports", true)
	source := &staticSource{streams: []models.Stream{{ID: "s1", Name: "Los Angeles Lakers vs Boston Celtics"}}}

	r := runner.New(cached, source, time.Hour)
	if r.LastResult() != nil {
		t.Fatal("expected nil last result before the first run")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	// The first pass runs immediately; wait for it, then stop
	deadline := time.After(2 * time.Second)
	for r.LastResult() == nil {
		select {
		case <-deadline:
			t.Fatal("runner did not record a result in time")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done

	last := r.LastResult()
	if last.MatchedCount != 1 || last.Generation != 1 {
		t.Errorf("last result = matched %d generation %d, want 1/1", last.MatchedCount, last.Generation)
	}
}
