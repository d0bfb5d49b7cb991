package models

import "time"

// EventStatus represents the current state of an event
type EventStatus string

const (
	StatusScheduled EventStatus = "scheduled"
	StatusLive      EventStatus = "live"
	StatusFinal     EventStatus = "final"
	StatusPostponed EventStatus = "postponed"
	StatusCanceled  EventStatus = "canceled"
)

// IsTerminal reports whether the event has reached an end state
// (final, postponed, or canceled) and will not go live again.
func (s EventStatus) IsTerminal() bool {
	switch s {
	case StatusFinal, StatusPostponed, StatusCanceled:
		return true
	}
	return false
}

// Team is one side of an event
type Team struct {
	TeamID       string `json:"team_id"`
	Name         string `json:"name"`         // Full team name, e.g. "Los Angeles Lakers"
	ShortName    string `json:"short_name"`   // e.g. "Lakers"
	Abbreviation string `json:"abbreviation"` // e.g. "LAL"
}

// Event is the universal model for any sport
type Event struct {
	EventID   string      `json:"event_id"`
	League    string      `json:"league"` // e.g. "nba", "fra.1"
	Sport     string      `json:"sport"`  // e.g. "basketball"
	HomeTeam  Team        `json:"home_team"`
	AwayTeam  Team        `json:"away_team"`
	Name      string      `json:"name"`       // Full display name, e.g. "Los Angeles Lakers at Boston Celtics"
	ShortName string      `json:"short_name"` // e.g. "LAL @ BOS"
	StartTime time.Time   `json:"start_time"`
	Status    EventStatus `json:"status"`
	HomeScore int         `json:"home_score"`
	AwayScore int         `json:"away_score"`
	Odds      string      `json:"odds,omitempty"` // Display odds line, volatile
}

// TeamAlias is a user-defined text-to-team override mapping
type TeamAlias struct {
	Alias    string `json:"alias"`
	League   string `json:"league"`
	Provider string `json:"provider"`
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
}
