package streams

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/titooo7/teamarr-sub001/pkg/models"
)

// HTTPSource fetches the raw stream list from the upstream playlist
// service as a JSON array of {id, name} objects
type HTTPSource struct {
	httpClient *http.Client
	url        string
}

// NewHTTPSource creates a stream source reading from the given URL
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		url: url,
	}
}

// ListStreams fetches the current stream list
func (s *HTTPSource) ListStreams(ctx context.Context) ([]models.Stream, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("stream source error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var streams []models.Stream
	if err := json.NewDecoder(resp.Body).Decode(&streams); err != nil {
		return nil, fmt.Errorf("decoding stream list: %w", err)
	}

	return streams, nil
}
