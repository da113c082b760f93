// Package memory implements an in-process docstore driver, used for local
// development and tests.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"booking-app/internal/infra/docstore"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type collection struct {
	order []string
	docs  map[string]map[string]any
}

type Store struct {
	mu       sync.Mutex
	colls    map[string]*collection
	failures map[string]error
	sticky   map[string]error
	hub      *docstore.Hub
}

func New() *Store {
	return &Store{
		colls:    make(map[string]*collection),
		failures: make(map[string]error),
		sticky:   make(map[string]error),
		hub:      docstore.NewHub(),
	}
}

func (s *Store) Name() string { return "memory" }

// FailNext makes the next call of op ("add", "get", "replace", "delete",
// "list") return err.
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// FailAlways makes every call of op return err until cleared with a nil err.
func (s *Store) FailAlways(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.sticky, op)
		return
	}
	s.sticky[op] = err
}

func (s *Store) takeFailure(op string) error {
	if err, ok := s.sticky[op]; ok {
		return err
	}
	err, ok := s.failures[op]
	if ok {
		delete(s.failures, op)
	}
	return err
}

func (s *Store) coll(name string) *collection {
	c, ok := s.colls[name]
	if !ok {
		c = &collection{docs: make(map[string]map[string]any)}
		s.colls[name] = c
	}
	return c
}

func (s *Store) Add(_ context.Context, name string, data map[string]any) (string, error) {
	s.mu.Lock()
	if err := s.takeFailure("add"); err != nil {
		s.mu.Unlock()
		return "", err
	}
	id := uuid.NewString()
	c := s.coll(name)
	c.order = append(c.order, id)
	c.docs[id] = cloneData(data)
	s.mu.Unlock()

	s.hub.Notify(name)
	return id, nil
}

func (s *Store) Get(_ context.Context, name, id string) (docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("get"); err != nil {
		return docstore.Document{}, err
	}
	data, ok := s.coll(name).docs[id]
	if !ok {
		return docstore.Document{}, errors.Wrapf(docstore.ErrNotFound, "%s/%s", name, id)
	}
	return docstore.Document{ID: id, Data: cloneData(data)}, nil
}

func (s *Store) Replace(_ context.Context, name, id string, data map[string]any, preserve ...string) error {
	s.mu.Lock()
	if err := s.takeFailure("replace"); err != nil {
		s.mu.Unlock()
		return err
	}
	c := s.coll(name)
	old, ok := c.docs[id]
	if !ok {
		s.mu.Unlock()
		return errors.Wrapf(docstore.ErrNotFound, "%s/%s", name, id)
	}
	c.docs[id] = docstore.MergePreserved(old, cloneData(data), preserve)
	s.mu.Unlock()

	s.hub.Notify(name)
	return nil
}

func (s *Store) Delete(_ context.Context, name, id string) error {
	s.mu.Lock()
	if err := s.takeFailure("delete"); err != nil {
		s.mu.Unlock()
		return err
	}
	c := s.coll(name)
	_, existed := c.docs[id]
	if existed {
		delete(c.docs, id)
		c.order = slices.DeleteFunc(c.order, func(v string) bool { return v == id })
	}
	s.mu.Unlock()

	if existed {
		s.hub.Notify(name)
	}
	return nil
}

func (s *Store) List(_ context.Context, name string) ([]docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure("list"); err != nil {
		return nil, err
	}
	c := s.coll(name)
	out := make([]docstore.Document, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, docstore.Document{ID: id, Data: cloneData(c.docs[id])})
	}
	return out, nil
}

func (s *Store) Watch(name string, notify func()) func() {
	return s.hub.Watch(name, notify)
}

func (s *Store) Close() error { return nil }

func cloneData(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return maps.Clone(data)
}
