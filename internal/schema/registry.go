// Package schema owns the ordered column definitions of the plan table.
package schema

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/columns"
	"booking-app/internal/infra/docstore"
	"booking-app/internal/live"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Collection is the document collection holding column definitions.
const Collection = "planColumns"

type Registry struct {
	coll *docstore.Collection
	now  func() time.Time
	view *live.View[columns.Column]

	seedMu        sync.Mutex
	seedAttempted atomic.Bool

	mu    sync.Mutex
	unsub docstore.Unsubscribe
}

type Option func(*Registry)

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func NewRegistry(client *docstore.Client, opts ...Option) *Registry {
	r := &Registry{
		coll: client.Collection(Collection),
		now:  time.Now,
		view: live.NewView[columns.Column](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start subscribes to the column collection. The first empty snapshot seeds
// the default columns.
func (r *Registry) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unsub != nil {
		return
	}
	r.unsub = r.coll.OrderBy(columns.FieldCreatedAt, docstore.Asc).OnSnapshot(ctx,
		func(docs []docstore.Document) { r.onSnapshot(ctx, docs) },
		r.onError,
	)
}

func (r *Registry) Stop() {
	r.mu.Lock()
	unsub := r.unsub
	r.unsub = nil
	r.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (r *Registry) onSnapshot(ctx context.Context, docs []docstore.Document) {
	cols := columns.FromDocuments(docs)
	if len(cols) == 0 && r.seedAttempted.CompareAndSwap(false, true) {
		created, err := r.EnsureDefaultColumns(ctx)
		if created > 0 {
			// The writes trigger a fresh snapshot carrying the seeded columns.
			// A partial seed error is only logged: that snapshot clears the
			// view error, and the missing defaults can be added by hand.
			return
		}
		r.view.Publish(cols)
		if err != nil {
			r.view.Fail(err)
		}
		return
	}
	r.view.Publish(cols)
}

func (r *Registry) onError(err error) {
	log.WithField("collection", Collection).WithError(err).Error("Failed to fetch columns")
	r.view.Fail(apperr.Remote("fetch columns", err))
}

// Columns returns the current schema ordered by creation time.
func (r *Registry) Columns() []columns.Column {
	return r.view.Snapshot()
}

// Subscribe calls fn with the schema now (if loaded) and after every change.
func (r *Registry) Subscribe(fn func([]columns.Column)) func() {
	return r.view.Subscribe(fn)
}

// Err is the last subscription error, cleared by the next good snapshot.
func (r *Registry) Err() error { return r.view.Err() }

func (r *Registry) Ready() bool { return r.view.Ready() }

// EnsureDefaultColumns seeds the default column set when the collection is
// empty and returns how many columns it created. The writes are independent:
// on failure some defaults may already exist.
func (r *Registry) EnsureDefaultColumns(ctx context.Context) (int, error) {
	r.seedMu.Lock()
	defer r.seedMu.Unlock()

	existing, err := r.coll.OrderBy(columns.FieldCreatedAt, docstore.Asc).Documents(ctx)
	if err != nil {
		return 0, apperr.Remote("create default columns", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	base := r.now()
	var created atomic.Int32
	var g errgroup.Group
	for i, in := range columns.Defaults() {
		data := in.Data()
		data[columns.FieldCreatedAt] = docstore.FormatTimestamp(base.Add(time.Duration(i)))
		g.Go(func() error {
			if _, err := r.coll.Add(ctx, data); err != nil {
				return err
			}
			created.Add(1)
			return nil
		})
	}

	logCtx := log.WithField("collection", Collection)
	if err := g.Wait(); err != nil {
		logCtx.WithError(err).WithField("created", created.Load()).Error("Failed to create default columns")
		return int(created.Load()), apperr.Remote("create default columns", err)
	}
	logCtx.Info("Default columns created successfully")
	return int(created.Load()), nil
}

func (r *Registry) CreateColumn(ctx context.Context, in columns.Input) (columns.Column, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return columns.Column{}, err
	}
	if err := columns.CheckConflicts(r.Columns(), in, ""); err != nil {
		return columns.Column{}, err
	}

	now := r.now()
	data := in.Data()
	data[columns.FieldCreatedAt] = docstore.FormatTimestamp(now)

	id, err := r.coll.Add(ctx, data)
	if err != nil {
		return columns.Column{}, apperr.Remote("create column", err)
	}
	return columns.Column{
		ID:        id,
		Title:     in.Title,
		DataIndex: in.DataIndex,
		Type:      in.Type,
		Required:  in.Required,
		CreatedAt: now,
	}, nil
}

// UpdateColumn replaces every editable field of the column.
func (r *Registry) UpdateColumn(ctx context.Context, id string, in columns.Input) (columns.Column, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return columns.Column{}, err
	}
	if err := columns.CheckConflicts(r.Columns(), in, id); err != nil {
		return columns.Column{}, err
	}

	ref := r.coll.Doc(id)
	doc, err := ref.Get(ctx)
	if err != nil {
		return columns.Column{}, mapStoreError("update column", id, err)
	}

	now := r.now()
	data := in.Data()
	data[columns.FieldUpdatedAt] = docstore.FormatTimestamp(now)
	if err := ref.Replace(ctx, data, columns.FieldCreatedAt); err != nil {
		return columns.Column{}, mapStoreError("update column", id, err)
	}

	col := columns.FromDocument(docstore.Document{ID: id, Data: docstore.MergePreserved(doc.Data, data, []string{columns.FieldCreatedAt})})
	return col, nil
}

// DeleteColumn removes a non-required column. Values stored under its
// dataIndex on existing plans are left in place.
func (r *Registry) DeleteColumn(ctx context.Context, id string) error {
	if c, ok := columns.Find(r.Columns(), id); ok && c.Required {
		return apperr.Policy("Cannot delete required column")
	}

	ref := r.coll.Doc(id)
	doc, err := ref.Get(ctx)
	if err != nil {
		return mapStoreError("delete column", id, err)
	}
	if columns.FromDocument(doc).Required {
		return apperr.Policy("Cannot delete required column")
	}
	if err := ref.Delete(ctx); err != nil {
		return apperr.Remote("delete column", err)
	}
	return nil
}

func mapStoreError(op, id string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound("column", id)
	}
	return apperr.Remote(op, err)
}
