package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/titooo7/teamarr-sub001/pkg/models"
)

const (
	BaseURL = "https://site.api.espn.com/apis/site/v2/sports"
)

// leaguePaths maps league keys to ESPN sport paths. Leagues not listed
// here are assumed to be soccer competitions, whose ESPN path is just
// the league key under soccer.
var leaguePaths = map[string]string{
	"nba":   "basketball/nba",
	"wnba":  "basketball/wnba",
	"nfl":   "football/nfl",
	"mlb":   "baseball/mlb",
	"nhl":   "hockey/nhl",
	"ufc":   "mma/ufc",
	"pfl":   "mma/pfl",
	"f1":    "racing/f1",
	"ncaab": "basketball/mens-college-basketball",
	"ncaaf": "football/college-football",
}

// Client fetches events from the ESPN site API
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// New creates a new ESPN API client
func New() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent: "Mozilla/5.0 (compatible; TeamarrBot/1.0)",
	}
}

// Events fetches the scoreboard for a league on a specific date and
// returns the events in the order ESPN lists them
func (c *Client) Events(ctx context.Context, league string, date time.Time) ([]models.Event, error) {
	url := fmt.Sprintf("%s/%s/scoreboard?dates=%s", BaseURL, leaguePath(league), date.Format("20060102"))

	var board scoreboard
	if err := c.fetch(ctx, url, &board); err != nil {
		return nil, err
	}

	events := make([]models.Event, 0, len(board.Events))
	for _, raw := range board.Events {
		events = append(events, raw.toModel(league))
	}

	return events, nil
}

// Event fetches a single event by id, used to refresh volatile fields
// on a cache hit. Returns (nil, nil) when ESPN no longer knows the id.
func (c *Client) Event(ctx context.Context, eventID, league string) (*models.Event, error) {
	url := fmt.Sprintf("%s/%s/summary?event=%s", BaseURL, leaguePath(league), eventID)

	var sum summary
	if err := c.fetch(ctx, url, &sum); err != nil {
		return nil, err
	}
	if len(sum.Header.Competitions) == 0 {
		return nil, nil
	}

	raw := scoreboardEvent{
		ID:           sum.Header.ID,
		Name:         sum.Header.Competitions[0].Name,
		Competitions: sum.Header.Competitions,
	}
	event := raw.toModel(league)
	return &event, nil
}

// fetch makes an HTTP GET request and decodes the JSON response
func (c *Client) fetch(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ESPN API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func leaguePath(league string) string {
	if path, ok := leaguePaths[league]; ok {
		return path
	}
	return "soccer/" + league
}
