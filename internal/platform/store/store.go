// Package store provides the generic in-memory keyed collection every
// relief repository is built on. A Store keeps insertion order, clones values
// on the way in and out, and is safe for concurrent use.
package store

import (
	"container/list"
	"sync"

	"github.com/rivoldymakatita/disaster-healthcare-management-system/internal/platform/apperr"
)

// Store is an ordered map of entities of one kind keyed by a string id.
type Store[T any] struct {
	mu     sync.RWMutex
	entity string
	keyOf  func(T) string
	clone  func(T) T
	items  map[string]*list.Element
	order  *list.List
}

type entry[T any] struct {
	id    string
	value T
}

// Option configures a Store.
type Option[T any] func(*Store[T])

// WithClone installs a deep-copy function applied on every read and write.
// Without it values are copied by assignment only.
func WithClone[T any](fn func(T) T) Option[T] {
	return func(s *Store[T]) {
		s.clone = fn
	}
}

// New constructs an empty store. entity names the kind in error messages and
// keyOf extracts the id from a value.
func New[T any](entity string, keyOf func(T) string, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		entity: entity,
		keyOf:  keyOf,
		items:  make(map[string]*list.Element),
		order:  list.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Entity returns the entity name used in errors.
func (s *Store[T]) Entity() string {
	return s.entity
}

func (s *Store[T]) copyOf(v T) T {
	if s.clone == nil {
		return v
	}
	return s.clone(v)
}

// Add inserts v. It fails with a DuplicateError if the key already exists.
func (s *Store[T]) Add(v T) error {
	id := s.keyOf(v)
	if id == "" {
		return apperr.Required(s.entity + ".id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; exists {
		return apperr.Duplicate(s.entity, id)
	}
	s.items[id] = s.order.PushBack(&entry[T]{id: id, value: s.copyOf(v)})
	return nil
}

// Get returns the entity stored under id.
func (s *Store[T]) Get(id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	el, ok := s.items[id]
	if !ok {
		var zero T
		return zero, apperr.NotFound(s.entity, id)
	}
	return s.copyOf(el.Value.(*entry[T]).value), nil
}

// List returns a snapshot of every entity in insertion order.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.items))
	for el := s.order.Front(); el != nil; el = el.Next() {
		out = append(out, s.copyOf(el.Value.(*entry[T]).value))
	}
	return out
}

// Update replaces the entity stored under id, keeping its position.
func (s *Store[T]) Update(id string, v T) error {
	if key := s.keyOf(v); key != id {
		return apperr.Invalid(s.entity+".id", "entity id %q does not match key %q", key, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.items[id]
	if !ok {
		return apperr.NotFound(s.entity, id)
	}
	el.Value.(*entry[T]).value = s.copyOf(v)
	return nil
}

// Delete removes the entity stored under id.
func (s *Store[T]) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	el, ok := s.items[id]
	if !ok {
		return apperr.NotFound(s.entity, id)
	}
	s.order.Remove(el)
	delete(s.items, id)
	return nil
}

// Len returns the number of stored entities.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
