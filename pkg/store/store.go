package store

import (
	"context"
	"time"

	"github.com/OmkarYeole/ArtifyAI/pkg/domain"
)

// Store manages the durable representation of session transcripts.
// A Store has sole write access to the backing record of an identifier;
// concurrent writers are last-writer-wins.
type Store interface {
	// Load returns the transcript stored under id.
	// Returns domain.ErrNotFound if no record exists and
	// domain.ErrCorruptRecord if the stored data cannot be parsed.
	Load(ctx context.Context, id string) (domain.Transcript, error)

	// Save fully overwrites any existing record for id, creating it if
	// absent. From the caller's point of view a save completes or fails
	// atomically: a partial write must never load as a truncated
	// transcript. Returns domain.ErrStorage on I/O failure; not retried.
	Save(ctx context.Context, id string, transcript domain.Transcript) error

	// List enumerates existing record identifiers, most recent first.
	// Enumeration failures are logged and yield an empty result; List
	// never surfaces an application error.
	List(ctx context.Context) []string

	// Delete removes the record for id. Returns domain.ErrNotFound if
	// no record exists.
	Delete(ctx context.Context, id string) error
}

// TimestampID generates a session identifier from a creation time.
// The format sorts lexicographically in chronological order.
func TimestampID(t time.Time) string {
	return t.Format("2006-01-02_15-04-05") + ".json"
}
