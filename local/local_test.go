package local

import (
	"testing"
	"time"
)

func TestMemorySetGetDel(t *testing.T) {
	s := NewMemory(0)
	defer s.Close()

	if _, ok := s.Get("k"); ok {
		t.Fatal("empty store should miss")
	}
	if !s.Set("k", "v", 0) {
		t.Fatal("Set rejected")
	}
	v, ok := s.Get("k")
	if !ok || v != "v" {
		t.Fatalf("Get: ok=%v v=%v", ok, v)
	}
	s.Del("k")
	if _, ok := s.Get("k"); ok {
		t.Fatal("Get after Del should miss")
	}
}

func TestMemoryTTLExpiry(t *testing.T) {
	s := NewMemory(0)
	defer s.Close()

	s.Set("k", 1, 30*time.Millisecond)
	if _, ok := s.Get("k"); !ok {
		t.Fatal("entry should be live before its TTL")
	}
	time.Sleep(50 * time.Millisecond)
	if _, ok := s.Get("k"); ok {
		t.Fatal("entry should have expired")
	}
}

// TestMemorySlidingRefresh: reads keep a sliding entry alive; inactivity
// expires it.
func TestMemorySlidingRefresh(t *testing.T) {
	s := NewMemory(0)
	defer s.Close()

	s.SetSliding("k", 1, 60*time.Millisecond)
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		if _, ok := s.Get("k"); !ok {
			t.Fatalf("sliding entry expired despite reads (iteration %d)", i)
		}
	}
	time.Sleep(90 * time.Millisecond)
	if _, ok := s.Get("k"); ok {
		t.Fatal("sliding entry should expire after inactivity")
	}
}

func TestMemoryJanitorSweeps(t *testing.T) {
	s := NewMemory(10 * time.Millisecond)
	defer s.Close()

	s.Set("a", 1, 20*time.Millisecond)
	s.Set("b", 2, 0) // no expiry

	deadline := time.Now().Add(time.Second)
	for s.Len() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("janitor did not sweep, len=%d", s.Len())
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, ok := s.Get("b"); !ok {
		t.Fatal("unexpired entry swept")
	}
}

func TestMemoryCloseIdempotent(t *testing.T) {
	s := NewMemory(time.Millisecond)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
