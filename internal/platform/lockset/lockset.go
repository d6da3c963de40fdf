// Package lockset provides per-key mutual exclusion with a fixed acquisition
// order, so callers locking several keys at once cannot deadlock each other.
package lockset

import (
	"sort"
	"sync"
)

// Set hands out one mutex per key. Entries are reference counted and dropped
// when no holder or waiter remains.
type Set struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func New() *Set {
	return &Set{locks: make(map[string]*keyLock)}
}

// Lock acquires the locks for every key in sorted, de-duplicated order and
// returns a function releasing them. The unlock function is idempotent.
func (s *Set) Lock(keys ...string) func() {
	ordered := Normalize(keys)
	held := make([]*keyLock, 0, len(ordered))
	for _, k := range ordered {
		l := s.acquire(k)
		l.mu.Lock()
		held = append(held, l)
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			for i := len(held) - 1; i >= 0; i-- {
				held[i].mu.Unlock()
				s.release(ordered[i])
			}
		})
	}
}

func (s *Set) acquire(key string) *keyLock {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &keyLock{}
		s.locks[key] = l
	}
	l.refs++
	return l
}

func (s *Set) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(s.locks, key)
	}
}

// Size returns the number of keys currently held or awaited.
func (s *Set) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}

// Normalize sorts keys and removes duplicates and empty strings.
func Normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
