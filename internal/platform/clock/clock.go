// Package clock supplies "today" for date validations.
package clock

import (
	"sync"
	"time"
)

// Clock returns the current calendar date.
type Clock interface {
	Today() time.Time
}

// DateOf truncates t to midnight in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Date builds a calendar date in UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// System reads the wall clock in a fixed location.
type System struct {
	Location *time.Location
}

func (s System) Today() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Fixed always reports the same day. Set can move it, which tests use to age
// drugs past their expiry.
type Fixed struct {
	mu  sync.RWMutex
	day time.Time
}

func NewFixed(day time.Time) *Fixed {
	return &Fixed{day: DateOf(day)}
}

func (f *Fixed) Today() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.day
}

func (f *Fixed) Set(day time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.day = DateOf(day)
}

// After reports whether a is a later calendar day than b. Each date is read
// in its own location.
func After(a, b time.Time) bool {
	return day(a) > day(b)
}

// Before reports whether a is an earlier calendar day than b.
func Before(a, b time.Time) bool {
	return day(a) < day(b)
}

func day(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
