// Package records keeps the live list of plan records and writes them back
// to the document store.
package records

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/columns"
	"booking-app/internal/domain/plans"
	"booking-app/internal/infra/docstore"
	"booking-app/internal/live"

	log "github.com/sirupsen/logrus"
)

// Collection is the document collection holding plan records.
const Collection = "plans"

// Schema supplies the current column definitions.
type Schema interface {
	Columns() []columns.Column
}

type Store struct {
	coll   *docstore.Collection
	schema Schema
	now    func() time.Time
	view   *live.View[plans.Plan]

	mu    sync.Mutex
	unsub docstore.Unsubscribe
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(client *docstore.Client, schema Schema, opts ...Option) *Store {
	s := &Store{
		coll:   client.Collection(Collection),
		schema: schema,
		now:    time.Now,
		view:   live.NewView[plans.Plan](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start subscribes to the plans collection, newest first.
func (s *Store) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsub != nil {
		return
	}
	s.unsub = s.coll.OrderBy(plans.FieldCreatedAt, docstore.Desc).OnSnapshot(ctx,
		func(docs []docstore.Document) { s.view.Publish(plans.FromDocuments(docs)) },
		func(err error) {
			log.WithField("collection", Collection).WithError(err).Error("Failed to fetch plans")
			s.view.Fail(apperr.Remote("fetch plans", err))
		},
	)
}

func (s *Store) Stop() {
	s.mu.Lock()
	unsub := s.unsub
	s.unsub = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Plans returns the last known-good list, newest first.
func (s *Store) Plans() []plans.Plan { return s.view.Snapshot() }

func (s *Store) Subscribe(fn func([]plans.Plan)) func() { return s.view.Subscribe(fn) }

func (s *Store) Err() error { return s.view.Err() }

func (s *Store) Ready() bool { return s.view.Ready() }

// Get looks a plan up in the live list.
func (s *Store) Get(id string) (plans.Plan, bool) {
	return plans.Find(s.Plans(), id)
}

// prepare keeps the fields that belong to stored columns of the current
// schema and checks that every required column has a value.
func (s *Store) prepare(fields map[string]string) (map[string]any, error) {
	cols := columns.Stored(s.schema.Columns())
	if len(cols) == 0 {
		return nil, apperr.Validation("", "Column schema is not loaded yet")
	}
	data := make(map[string]any, len(cols))
	for _, c := range cols {
		v, ok := fields[c.DataIndex]
		if c.Required && strings.TrimSpace(v) == "" {
			return nil, apperr.Validation(c.DataIndex, c.Title+" is required")
		}
		if ok {
			data[c.DataIndex] = v
		}
	}
	return data, nil
}

func (s *Store) CreateRecord(ctx context.Context, fields map[string]string) (plans.Plan, error) {
	data, err := s.prepare(fields)
	if err != nil {
		return plans.Plan{}, err
	}
	now := s.now()
	ts := docstore.FormatTimestamp(now)
	data[plans.FieldCreatedAt] = ts
	data[plans.FieldUpdatedAt] = ts

	id, err := s.coll.Add(ctx, data)
	if err != nil {
		return plans.Plan{}, apperr.Remote("create plan", err)
	}
	return plans.FromDocument(docstore.Document{ID: id, Data: data}), nil
}

// UpdateRecord replaces the plan's column fields; column fields left out are
// removed. Fields whose column no longer exists are carried over unchanged.
func (s *Store) UpdateRecord(ctx context.Context, id string, fields map[string]string) (plans.Plan, error) {
	data, err := s.prepare(fields)
	if err != nil {
		return plans.Plan{}, err
	}
	ref := s.coll.Doc(id)
	current, err := ref.Get(ctx)
	if err != nil {
		return plans.Plan{}, mapStoreError("update plan", id, err)
	}
	preserve := append([]string{plans.FieldCreatedAt}, orphans(current.Data, s.schema.Columns())...)
	data[plans.FieldUpdatedAt] = docstore.FormatTimestamp(s.now())

	if err := ref.Replace(ctx, data, preserve...); err != nil {
		return plans.Plan{}, mapStoreError("update plan", id, err)
	}
	return plans.FromDocument(docstore.Document{ID: id, Data: docstore.MergePreserved(current.Data, data, preserve)}), nil
}

// orphans lists the keys of data that belong to no column.
func orphans(data map[string]any, cols []columns.Column) []string {
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c.DataIndex] = true
	}
	var out []string
	for k := range data {
		if known[k] || k == plans.FieldCreatedAt || k == plans.FieldUpdatedAt {
			continue
		}
		out = append(out, k)
	}
	return out
}

func mapStoreError(op, id string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound("plan", id)
	}
	return apperr.Remote(op, err)
}

// DeleteRecord removes the plan. Deleting an absent plan succeeds.
func (s *Store) DeleteRecord(ctx context.Context, id string) error {
	if err := s.coll.Doc(id).Delete(ctx); err != nil {
		return apperr.Remote("delete plan", err)
	}
	return nil
}
