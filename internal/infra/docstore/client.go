package docstore

import (
	"context"
	"errors"
	"sync"

	"booking-app/internal/infra/metrics"

	log "github.com/sirupsen/logrus"
)

type Direction int

const (
	Asc Direction = iota
	Desc
)

// Unsubscribe stops a live subscription. It waits for an in-flight callback
// to return, so it must not be called from inside that callback.
type Unsubscribe func()

type Client struct {
	driver  Driver
	metrics *metrics.Store
}

type Option func(*Client)

func WithMetrics(m *metrics.Store) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(d Driver, opts ...Option) *Client {
	c := &Client{driver: d}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Driver() Driver { return c.driver }

func (c *Client) Close() error { return c.driver.Close() }

func (c *Client) Collection(name string) *Collection {
	return &Collection{client: c, name: name}
}

func (c *Client) observe(collection, op string, err error) {
	result := metrics.ResultOK
	switch {
	case errors.Is(err, ErrNotFound):
		result = metrics.ResultNotFound
	case err != nil:
		result = metrics.ResultError
	}
	c.metrics.ObserveOp(collection, op, result)
}

type Collection struct {
	client *Client
	name   string
}

func (c *Collection) Name() string { return c.name }

// Add stores data as a new document and returns the id assigned by the store.
func (c *Collection) Add(ctx context.Context, data map[string]any) (string, error) {
	id, err := c.client.driver.Add(ctx, c.name, data)
	c.client.observe(c.name, "add", err)
	return id, err
}

func (c *Collection) Doc(id string) *DocRef {
	return &DocRef{coll: c, ID: id}
}

func (c *Collection) OrderBy(field string, dir Direction) Query {
	return Query{coll: c, field: field, dir: dir}
}

type DocRef struct {
	coll *Collection
	ID   string
}

func (r *DocRef) Get(ctx context.Context) (Document, error) {
	doc, err := r.coll.client.driver.Get(ctx, r.coll.name, r.ID)
	r.coll.client.observe(r.coll.name, "get", err)
	return doc, err
}

// Replace overwrites the document's data, keeping the current values of the
// preserve keys. It fails with ErrNotFound if the document does not exist.
func (r *DocRef) Replace(ctx context.Context, data map[string]any, preserve ...string) error {
	err := r.coll.client.driver.Replace(ctx, r.coll.name, r.ID, data, preserve...)
	r.coll.client.observe(r.coll.name, "replace", err)
	return err
}

// Delete removes the document. Deleting a missing document is not an error.
func (r *DocRef) Delete(ctx context.Context) error {
	err := r.coll.client.driver.Delete(ctx, r.coll.name, r.ID)
	r.coll.client.observe(r.coll.name, "delete", err)
	return err
}

type Query struct {
	coll  *Collection
	field string
	dir   Direction
}

func (q Query) Documents(ctx context.Context) ([]Document, error) {
	docs, err := q.coll.client.driver.List(ctx, q.coll.name)
	q.coll.client.observe(q.coll.name, "list", err)
	if err != nil {
		return nil, err
	}
	sortDocuments(docs, q.field, q.dir)
	return docs, nil
}

// OnSnapshot delivers the full ordered result set once on start and again
// after every change to the collection. Bursts of changes are coalesced into
// a single delivery. Callbacks run on a dedicated goroutine, one at a time.
func (q Query) OnSnapshot(ctx context.Context, onNext func([]Document), onError func(error)) Unsubscribe {
	ctx, cancel := context.WithCancel(ctx)
	client := q.coll.client

	signal := make(chan struct{}, 1)
	signal <- struct{}{}
	stopWatch := client.driver.Watch(q.coll.name, func() {
		select {
		case signal <- struct{}{}:
		default:
		}
	})

	client.metrics.SubscriptionOpened(q.coll.name)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-signal:
			}
			docs, err := q.Documents(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				log.WithFields(log.Fields{
					"collection": q.coll.name,
					"driver":     client.driver.Name(),
				}).WithError(err).Warn("Snapshot query failed")
				if onError != nil {
					onError(err)
				}
				continue
			}
			onNext(docs)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			stopWatch()
			cancel()
			<-done
			client.metrics.SubscriptionClosed(q.coll.name)
		})
	}
}
