package lockset

import (
	"sync"
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	got := Normalize([]string{"b", "a", "", "b", "c"})
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestLock_ExcludesSameKey(t *testing.T) {
	s := New()
	unlock := s.Lock("a")

	acquired := make(chan struct{})
	go func() {
		u := s.Lock("a")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held key")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second holder never acquired the released key")
	}
}

func TestLock_OppositeOrderDoesNotDeadlock(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Lock("x", "y")()
		}()
		go func() {
			defer wg.Done()
			s.Lock("y", "x")()
		}()
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lock ordering deadlocked")
	}
	if s.Size() != 0 {
		t.Errorf("expected released entries to be dropped, %d remain", s.Size())
	}
}

func TestUnlock_Idempotent(t *testing.T) {
	s := New()
	unlock := s.Lock("a", "b")
	unlock()
	unlock()
	s.Lock("a")()
}
