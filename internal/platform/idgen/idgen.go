// Package idgen produces opaque unique identifiers for new aggregates.
package idgen

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator returns a fresh unique id on every call and never fails.
type Generator interface {
	NewID() string
}

// UUID generates random version 4 UUID strings.
type UUID struct{}

func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence generates predictable ids ("prefix-1", "prefix-2", ...) for tests
// and reproducible scenario runs.
type Sequence struct {
	Prefix string
	n      atomic.Uint64
}

func (s *Sequence) NewID() string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, s.n.Add(1))
}
