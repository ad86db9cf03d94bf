package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"proposal_ai_server/internal/proposal"
)

func TestBeginCompleteGet(t *testing.T) {
	s := NewStore()

	ticket, err := s.Begin("")
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if ticket.ID == "" {
		t.Fatal("expected a generated session id")
	}

	snap, err := s.Get(ticket.ID)
	if err != nil || snap.State != StateGenerating {
		t.Fatalf("expected generating state, got %+v, %v", snap, err)
	}
	if _, err := s.Document(ticket.ID); !errors.Is(err, ErrNoDocument) {
		t.Errorf("expected ErrNoDocument while generating, got %v", err)
	}

	doc := &proposal.Document{Title: "Portal"}
	if err := s.Complete(ticket, doc); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	got, err := s.Document(ticket.ID)
	if err != nil || got != doc {
		t.Errorf("expected stored document, got %v, %v", got, err)
	}
}

func TestBeginRejectsSecondGeneration(t *testing.T) {
	s := NewStore()
	ticket, _ := s.Begin("session-1")

	if _, err := s.Begin("session-1"); !errors.Is(err, ErrGenerationInFlight) {
		t.Fatalf("expected ErrGenerationInFlight, got %v", err)
	}

	s.Fail(ticket, "text generation failed")
	snap, _ := s.Get("session-1")
	if snap.State != StateFailed || snap.Error != "text generation failed" || snap.Document != nil {
		t.Errorf("unexpected snapshot after failure: %+v", snap)
	}

	if _, err := s.Begin("session-1"); err != nil {
		t.Errorf("expected a new generation after failure, got %v", err)
	}
}

func TestNewGenerationDiscardsPreviousDocument(t *testing.T) {
	s := NewStore()
	first, _ := s.Begin("session-1")
	s.Complete(first, &proposal.Document{Title: "Old"})

	if _, err := s.Begin("session-1"); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := s.Document("session-1"); !errors.Is(err, ErrNoDocument) {
		t.Errorf("expected previous document to be gone, got %v", err)
	}
	if err := s.Complete(first, &proposal.Document{Title: "Stale"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected stale ticket to be rejected, got %v", err)
	}
}

func TestResetWhileGenerating(t *testing.T) {
	s := NewStore()
	ticket, _ := s.Begin("session-1")

	if err := s.Reset("session-1"); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if err := s.Complete(ticket, &proposal.Document{Title: "Late"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected orphaned completion to be dropped, got %v", err)
	}
	if _, err := s.Get("session-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected session to be gone, got %v", err)
	}
	if err := s.Reset("session-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a second reset, got %v", err)
	}
}

func TestConcurrentBeginAdmitsOne(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Begin("shared"); err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if admitted != 1 {
		t.Errorf("expected exactly one generation admitted, got %d", admitted)
	}
}

func TestPrune(t *testing.T) {
	s := NewStore()
	clock := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }

	old, _ := s.Begin("old")
	s.Complete(old, &proposal.Document{Title: "Old"})
	s.Begin("busy")

	clock = clock.Add(2 * time.Hour)
	fresh, _ := s.Begin("fresh")
	s.Complete(fresh, &proposal.Document{Title: "Fresh"})

	if n := s.Prune(clock.Add(-time.Hour)); n != 1 {
		t.Errorf("expected 1 pruned session, got %d", n)
	}
	for id, want := range map[string]bool{"old": false, "busy": true, "fresh": true} {
		_, err := s.Get(id)
		if (err == nil) != want {
			t.Errorf("session %s: present=%v, want %v", id, err == nil, want)
		}
	}
}
