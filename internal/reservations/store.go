// Package reservations keeps the live list of customer bookings and applies
// the admin status changes.
package reservations

import (
	"context"
	"errors"
	"maps"
	"time"

	"booking-app/internal/domain/apperr"
	"booking-app/internal/domain/bookings"
	"booking-app/internal/infra/docstore"
	"booking-app/internal/live"

	log "github.com/sirupsen/logrus"
)

type Store struct {
	*live.Feed[bookings.Booking]

	coll *docstore.Collection
	now  func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(client *docstore.Client, opts ...Option) *Store {
	coll := client.Collection(bookings.Collection)
	s := &Store{
		Feed: live.NewFeed(bookings.Collection, coll.OrderBy(bookings.FieldCreatedAt, docstore.Desc), bookings.FromDocument),
		coll: coll,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Bookings returns the last known-good list, newest first.
func (s *Store) Bookings() []bookings.Booking { return s.Snapshot() }

func (s *Store) Get(id string) (bookings.Booking, bool) {
	return bookings.Find(s.Bookings(), id)
}

func (s *Store) Stats() bookings.Stats { return bookings.Count(s.Bookings()) }

// Create stores a new pending booking.
func (s *Store) Create(ctx context.Context, in bookings.Input) (bookings.Booking, error) {
	in = in.Normalize()
	now := s.now()
	if err := in.Validate(now); err != nil {
		return bookings.Booking{}, err
	}
	data := in.Data()
	data[bookings.FieldCreatedAt] = docstore.FormatTimestamp(now)

	id, err := s.coll.Add(ctx, data)
	if err != nil {
		return bookings.Booking{}, apperr.Remote("submit booking", err)
	}
	log.WithFields(log.Fields{"booking": id, "location": in.Location}).Info("Booking submitted")
	return bookings.FromDocument(docstore.Document{ID: id, Data: data}), nil
}

// Complete marks the booking as completed. Completing it twice is not an
// error.
func (s *Store) Complete(ctx context.Context, id string) (bookings.Booking, error) {
	ref := s.coll.Doc(id)
	current, err := ref.Get(ctx)
	if err != nil {
		return bookings.Booking{}, mapStoreError("complete booking", id, err)
	}
	data := maps.Clone(current.Data)
	data[bookings.FieldStatus] = string(bookings.StatusCompleted)
	data[bookings.FieldUpdatedAt] = docstore.FormatTimestamp(s.now())
	if err := ref.Replace(ctx, data, bookings.FieldCreatedAt); err != nil {
		return bookings.Booking{}, mapStoreError("complete booking", id, err)
	}
	return bookings.FromDocument(docstore.Document{ID: id, Data: data}), nil
}

// Delete removes the booking. Deleting an absent booking succeeds.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.coll.Doc(id).Delete(ctx); err != nil {
		return apperr.Remote("delete booking", err)
	}
	return nil
}

func mapStoreError(op, id string, err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound("booking", id)
	}
	return apperr.Remote(op, err)
}
