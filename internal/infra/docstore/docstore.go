// Package docstore is the client side of the remote document database:
// named collections of schemaless documents with create, read, replace,
// delete and live snapshot subscriptions.
package docstore

import (
	"context"
	"errors"
	"maps"
	"time"

	"github.com/spf13/cast"
)

// ErrNotFound is returned (possibly wrapped) when a document id does not exist.
var ErrNotFound = errors.New("document not found")

type Document struct {
	ID   string
	Data map[string]any
}

// Driver is implemented by every storage backend. List returns documents in
// insertion order; ordering by field is applied by the Client. Watch
// registers a callback invoked after every change to the collection; the
// callback must not block.
type Driver interface {
	Name() string
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	Get(ctx context.Context, collection, id string) (Document, error)
	Replace(ctx context.Context, collection, id string, data map[string]any, preserve ...string) error
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([]Document, error)
	Watch(collection string, notify func()) (cancel func())
	Close() error
}

const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTimestamp renders t as a fixed-width UTC string so that stored
// timestamps order the same way in every driver.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ParseTimestamp reads a stored timestamp, returning the zero time when v is
// missing or malformed.
func ParseTimestamp(v any) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	s := cast.ToString(v)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// MergePreserved returns a copy of data with the preserved keys taken from old.
func MergePreserved(old, data map[string]any, preserve []string) map[string]any {
	out := maps.Clone(data)
	if out == nil {
		out = map[string]any{}
	}
	for _, k := range preserve {
		if v, ok := old[k]; ok {
			out[k] = v
		}
	}
	return out
}
