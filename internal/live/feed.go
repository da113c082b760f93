package live

import (
	"context"
	"sync"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/infra/docstore"

	log "github.com/sirupsen/logrus"
)

// Feed keeps a View in sync with a live document query.
type Feed[T any] struct {
	*View[T]

	name   string
	query  docstore.Query
	decode func(docstore.Document) T

	mu    sync.Mutex
	unsub docstore.Unsubscribe
}

// NewFeed decodes every document of query into the view. name labels the
// remote error and log lines, e.g. "bookings".
func NewFeed[T any](name string, query docstore.Query, decode func(docstore.Document) T) *Feed[T] {
	return &Feed[T]{View: NewView[T](), name: name, query: query, decode: decode}
}

// Start subscribes once; later calls are no-ops until Stop.
func (f *Feed[T]) Start(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unsub != nil {
		return
	}
	f.unsub = f.query.OnSnapshot(ctx,
		func(docs []docstore.Document) {
			items := make([]T, 0, len(docs))
			for _, d := range docs {
				items = append(items, f.decode(d))
			}
			f.Publish(items)
		},
		func(err error) {
			log.WithField("collection", f.name).WithError(err).Error("Failed to fetch " + f.name)
			f.Fail(apperr.Remote("fetch "+f.name, err))
		},
	)
}

func (f *Feed[T]) Stop() {
	f.mu.Lock()
	unsub := f.unsub
	f.unsub = nil
	f.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}
