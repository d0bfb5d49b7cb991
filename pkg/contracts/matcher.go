package contracts

import (
	"context"
	"time"

	"github.com/titooo7/teamarr-sub001/pkg/models"
)

// EventProvider supplies candidate events per league and date.
// Event is the lightweight single-event lookup used to refresh volatile
// fields on a cache hit; it returns (nil, nil) when the event is unknown.
type EventProvider interface {
	Events(ctx context.Context, league string, date time.Time) ([]models.Event, error)
	Event(ctx context.Context, eventID, league string) (*models.Event, error)
}

// AliasStore lists the user-defined team aliases for one league
type AliasStore interface {
	ListAliases(ctx context.Context, league string) ([]models.TeamAlias, error)
}

// FingerprintStore is the durable backing for stream match memory.
// Each operation is its own atomic unit; IncrementGeneration must be a
// single atomic read-and-increment, safe under concurrent runs.
type FingerprintStore interface {
	Get(ctx context.Context, groupID, streamID, streamName string) (*models.CacheEntry, error)
	Set(ctx context.Context, entry *models.CacheEntry) error
	Touch(ctx context.Context, groupID, streamID, streamName string, generation int64) error
	Delete(ctx context.Context, groupID, streamID, streamName string) error
	PurgeStale(ctx context.Context, generation int64) (int, error)
	Generation(ctx context.Context) (int64, error)
	IncrementGeneration(ctx context.Context) (int64, error)
	Size(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (*models.CacheStats, error)
}

// StreamSource supplies the raw stream list for a matching run
type StreamSource interface {
	ListStreams(ctx context.Context) ([]models.Stream, error)
}
