// Package roster keeps the live list of companion profiles and writes
// profile changes back to the document store.
package roster

import (
	"context"
	"errors"
	"maps"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/contact"
	"booking-app/internal/domain/profiles"
	"booking-app/internal/infra/docstore"
	"booking-app/internal/live"
)

type Store struct {
	*live.Feed[profiles.Profile]

	coll *docstore.Collection
	now  func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(client *docstore.Client, opts ...Option) *Store {
	coll := client.Collection(profiles.Collection)
	s := &Store{
		Feed: live.NewFeed(profiles.Collection, coll.OrderBy(profiles.FieldCreatedAt, docstore.Desc), profiles.FromDocument),
		coll: coll,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Profiles returns the last known-good list, newest first.
func (s *Store) Profiles() []profiles.Profile { return s.Snapshot() }

func (s *Store) Get(id string) (profiles.Profile, bool) {
	return profiles.Find(s.Profiles(), id)
}

func (s *Store) Create(ctx context.Context, in profiles.Input) (profiles.Profile, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return profiles.Profile{}, err
	}
	data := in.Data()
	ts := docstore.FormatTimestamp(s.now())
	data[profiles.FieldCreatedAt] = ts
	data[profiles.FieldUpdatedAt] = ts

	id, err := s.coll.Add(ctx, data)
	if err != nil {
		return profiles.Profile{}, apperr.Remote("create profile", err)
	}
	return profiles.FromDocument(docstore.Document{ID: id, Data: data}), nil
}

// Update replaces the editable fields. An empty image URL keeps the stored
// photo.
func (s *Store) Update(ctx context.Context, id string, in profiles.Input) (profiles.Profile, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return profiles.Profile{}, err
	}
	data := in.Data()
	preserve := []string{profiles.FieldCreatedAt}
	if in.ImageURL == "" {
		delete(data, profiles.FieldImageURL)
		preserve = append(preserve, profiles.FieldImageURL)
	}
	return s.replace(ctx, "update profile", id, data, preserve)
}

// SetImage points the profile at a freshly uploaded photo.
func (s *Store) SetImage(ctx context.Context, id, url string) (profiles.Profile, error) {
	if !contact.ValidURL(url) {
		return profiles.Profile{}, apperr.Validation(profiles.FieldImageURL, "Image URL must be an http or https link")
	}
	current, err := s.coll.Doc(id).Get(ctx)
	if err != nil {
		return profiles.Profile{}, mapStoreError("update profile image", id, err)
	}
	data := maps.Clone(current.Data)
	data[profiles.FieldImageURL] = url
	return s.replace(ctx, "update profile image", id, data, []string{profiles.FieldCreatedAt})
}

func (s *Store) replace(ctx context.Context, op, id string, data map[string]any, preserve []string) (profiles.Profile, error) {
	data[profiles.FieldUpdatedAt] = docstore.FormatTimestamp(s.now())
	ref := s.coll.Doc(id)
	if err := ref.Replace(ctx, data, preserve...); err != nil {
		return profiles.Profile{}, mapStoreError(op, id, err)
	}
	doc, err := ref.Get(ctx)
	if err != nil {
		return profiles.Profile{}, mapStoreError(op, id, err)
	}
	return profiles.FromDocument(doc), nil
}

// Delete removes the profile. Deleting an absent profile succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.coll.Doc(id).Delete(ctx); err != nil {
		return apperr.Remote("delete profile", err)
	}
	return nil
}

func mapStoreError(op, id string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound("profile", id)
	}
	return apperr.Remote(op, err)
}
