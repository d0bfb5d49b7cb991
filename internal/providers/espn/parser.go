package espn

import (
	"strconv"
	"time"

	"github.com/titooo7/teamarr-sub001/pkg/models"
)

// Scoreboard response shapes, reduced to the fields this service reads

type scoreboard struct {
	Events []scoreboardEvent `json:"events"`
}

type summary struct {
	Header struct {
		ID           string        `json:"id"`
		Competitions []competition `json:"competitions"`
	} `json:"header"`
}

type scoreboardEvent struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Date         string        `json:"date"`
	Competitions []competition `json:"competitions"`
}

type competition struct {
	Name        string       `json:"name"`
	Competitors []competitor `json:"competitors"`
	Status      struct {
		Type struct {
			State string `json:"state"` // "pre", "in", "post"
			Name  string `json:"name"`  // e.g. "STATUS_POSTPONED"
		} `json:"type"`
	} `json:"status"`
	Odds []struct {
		Details string `json:"details"`
	} `json:"odds"`
}

type competitor struct {
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Team     struct {
		ID               string `json:"id"`
		DisplayName      string `json:"displayName"`
		ShortDisplayName string `json:"shortDisplayName"`
		Abbreviation     string `json:"abbreviation"`
	} `json:"team"`
}

// toModel flattens an ESPN event into the universal event model
func (e scoreboardEvent) toModel(league string) models.Event {
	event := models.Event{
		EventID:   e.ID,
		League:    league,
		Name:      e.Name,
		ShortName: e.ShortName,
		Status:    models.StatusScheduled,
	}

	if e.Date != "" {
		if t, err := time.Parse("2006-01-02T15:04Z", e.Date); err == nil {
			event.StartTime = t
		}
	}

	if len(e.Competitions) == 0 {
		return event
	}
	comp := e.Competitions[0]
	if event.Name == "" {
		event.Name = comp.Name
	}

	event.Status = parseStatus(comp.Status.Type.State, comp.Status.Type.Name)
	if len(comp.Odds) > 0 {
		event.Odds = comp.Odds[0].Details
	}

	for _, c := range comp.Competitors {
		team := models.Team{
			TeamID:       c.Team.ID,
			Name:         c.Team.DisplayName,
			ShortName:    c.Team.ShortDisplayName,
			Abbreviation: c.Team.Abbreviation,
		}
		score, _ := strconv.Atoi(c.Score)

		switch c.HomeAway {
		case "home":
			event.HomeTeam = team
			event.HomeScore = score
		case "away":
			event.AwayTeam = team
			event.AwayScore = score
		}
	}

	return event
}

// parseStatus maps ESPN status fields onto the event status enum
func parseStatus(state, name string) models.EventStatus {
	switch name {
	case "STATUS_POSTPONED":
		return models.StatusPostponed
	case "STATUS_CANCELED":
		return models.StatusCanceled
	}

	switch state {
	case "in":
		return models.StatusLive
	case "post":
		return models.StatusFinal
	default:
		return models.StatusScheduled
	}
}
