package espn

import (
	"encoding/json"
	"testing"

	"github.com/titooo7/teamarr-sub001/pkg/models"
)

const sampleEvent = `{
	"id": "401585601",
	"name": "Boston Celtics at Los Angeles Lakers",
	"shortName": "BOS @ LAL",
	"date": "2026-03-14T02:00Z",
	"competitions": [{
		"competitors": [
			{
				"homeAway": "home",
				"score": "112",
				"team": {
					"id": "13",
					"displayName": "Los Angeles Lakers",
					"shortDisplayName": "Lakers",
					"abbreviation": "LAL"
				}
			},
			{
				"homeAway": "away",
				"score": "104",
				"team": {
					"id": "2",
					"displayName": "Boston Celtics",
					"shortDisplayName": "Celtics",
					"abbreviation": "BOS"
				}
			}
		],
		"status": {"type": {"state": "post", "name": "STATUS_FINAL"}},
		"odds": [{"details": "LAL -3.5"}]
	}]
}`

func TestScoreboardEventToModel(t *testing.T) {
	var raw scoreboardEvent
	if err := json.Unmarshal([]byte(sampleEvent), &raw); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	event := raw.toModel("nba")

	if event.EventID != "401585601" || event.League != "nba" {
		t.Errorf("identity = %s/%s", event.EventID, event.League)
	}
	if event.HomeTeam.Name != "Los Angeles Lakers" || event.HomeTeam.Abbreviation != "LAL" {
		t.Errorf("home team = %+v", event.HomeTeam)
	}
	if event.AwayTeam.TeamID != "2" || event.AwayTeam.ShortName != "Celtics" {
		t.Errorf("away team = %+v", event.AwayTeam)
	}
	if event.HomeScore != 112 || event.AwayScore != 104 {
		t.Errorf("score = %d-%d, want 112-104", event.HomeScore, event.AwayScore)
	}
	if event.Status != models.StatusFinal {
		t.Errorf("status = %s, want final", event.Status)
	}
	if event.Odds != "LAL -3.5" {
		t.Errorf("odds = %q", event.Odds)
	}
	if event.StartTime.IsZero() {
		t.Error("start time not parsed")
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		state string
		name  string
		want  models.EventStatus
	}{
		{"pre", "STATUS_SCHEDULED", models.StatusScheduled},
		{"in", "STATUS_IN_PROGRESS", models.StatusLive},
		{"post", "STATUS_FINAL", models.StatusFinal},
		{"post", "STATUS_POSTPONED", models.StatusPostponed},
		{"post", "STATUS_CANCELED", models.StatusCanceled},
		{"", "", models.StatusScheduled},
	}

	for _, tt := range tests {
		if got := parseStatus(tt.state, tt.name); got != tt.want {
			t.Errorf("parseStatus(%q, %q) = %s, want %s", tt.state, tt.name, got, tt.want)
		}
	}
}

func TestLeaguePath(t *testing.T) {
	tests := []struct {
		league string
		want   string
	}{
		{"nba", "basketball/nba"},
		{"ufc", "mma/ufc"},
		{"fra.1", "soccer/fra.1"},
		{"eng.1", "soccer/eng.1"},
	}

	for _, tt := range tests {
		if got := leaguePath(tt.league); got != tt.want {
			t.Errorf("leaguePath(%q) = %q, want %q", tt.league, got, tt.want)
		}
	}
}
