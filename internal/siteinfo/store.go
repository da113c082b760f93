// Package siteinfo reads and saves the website information document.
package siteinfo

import (
	"context"
	"sync"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/site"
	"booking-app/internal/infra/docstore"

	log "github.com/sirupsen/logrus"
)

type Store struct {
	coll *docstore.Collection
	now  func() time.Time

	// serialises saves so a first save cannot create two documents
	mu sync.Mutex
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(client *docstore.Client, opts ...Option) *Store {
	s := &Store{coll: client.Collection(site.Collection), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// current returns the first stored document, if any.
func (s *Store) current(ctx context.Context) (docstore.Document, bool, error) {
	docs, err := s.coll.OrderBy(site.FieldUpdatedAt, docstore.Asc).Documents(ctx)
	if err != nil {
		return docstore.Document{}, false, err
	}
	if len(docs) == 0 {
		return docstore.Document{}, false, nil
	}
	return docs[0], true, nil
}

// Get returns the stored information, or the zero Info before the first
// save.
func (s *Store) Get(ctx context.Context) (site.Info, error) {
	doc, ok, err := s.current(ctx)
	if err != nil {
		return site.Info{}, apperr.Remote("fetch website information", err)
	}
	if !ok {
		return site.Info{}, nil
	}
	return site.FromDocument(doc), nil
}

// Save merges the set fields of in into the stored information.
func (s *Store) Save(ctx context.Context, in site.Input) (site.Info, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return site.Info{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok, err := s.current(ctx)
	if err != nil {
		return site.Info{}, apperr.Remote("save website information", err)
	}
	var info site.Info
	if ok {
		info = site.FromDocument(doc)
	}
	info = in.Apply(info)
	now := s.now()
	data := info.Data()
	data[site.FieldUpdatedAt] = docstore.FormatTimestamp(now)

	if ok {
		err = s.coll.Doc(doc.ID).Replace(ctx, data)
	} else {
		_, err = s.coll.Add(ctx, data)
	}
	if err != nil {
		return site.Info{}, apperr.Remote("save website information", err)
	}
	log.WithField("collection", site.Collection).Info("Website information updated")
	info.UpdatedAt = &now
	return info, nil
}
