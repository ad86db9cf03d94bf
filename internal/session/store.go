package session

import (
	"errors"
	"sync"
	"time"

	"proposal_ai_server/internal/proposal"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("session not found")
	ErrGenerationInFlight = errors.New("a proposal is already being generated for this session")
	ErrNoDocument         = errors.New("session has no proposal yet")
)

// State is the lifecycle of the document held by a session.
type State string

const (
	StateEmpty      State = "empty"
	StateGenerating State = "generating"
	StateReady      State = "ready"
	StateFailed     State = "failed"
)

// Snapshot is a read-only view of one session.
type Snapshot struct {
	ID        string
	State     State
	Error     string
	Document  *proposal.Document
	UpdatedAt time.Time
}

type entry struct {
	state     State
	errMsg    string
	doc       *proposal.Document
	token     uint64
	updatedAt time.Time
}

// Store holds the current proposal of each session. A session has at most
// one generation in flight; the generation that called Begin is the only
// writer until it calls Complete or Fail.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	next     uint64
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*entry), now: time.Now}
}

// Ticket identifies the generation that owns a session.
type Ticket struct {
	ID    string
	token uint64
}

// Begin reserves a session for a new generation, creating it when id is
// empty or unknown. The previous document is discarded.
func (s *Store) Begin(id string) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == "" {
		id = uuid.New().String()
	}
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{}
		s.sessions[id] = e
	}
	if e.state == StateGenerating {
		return Ticket{}, ErrGenerationInFlight
	}

	s.next++
	*e = entry{state: StateGenerating, token: s.next, updatedAt: s.now()}
	return Ticket{ID: id, token: s.next}, nil
}

// Complete stores the finished document for the ticket's session.
func (s *Store) Complete(t Ticket, doc *proposal.Document) error {
	return s.finish(t, func(e *entry) {
		e.state = StateReady
		e.doc = doc
	})
}

// Fail records a user-visible error; no partial document is kept.
func (s *Store) Fail(t Ticket, msg string) error {
	return s.finish(t, func(e *entry) {
		e.state = StateFailed
		e.errMsg = msg
		e.doc = nil
	})
}

func (s *Store) finish(t Ticket, apply func(*entry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[t.ID]
	if !ok || e.token != t.token {
		// Reset while generating; the result has no owner any more.
		return ErrNotFound
	}
	apply(e)
	e.updatedAt = s.now()
	return nil
}

// Get returns a snapshot of the session.
func (s *Store) Get(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return Snapshot{ID: id, State: e.state, Error: e.errMsg, Document: e.doc, UpdatedAt: e.updatedAt}, nil
}

// Document returns the session's finished proposal.
func (s *Store) Document(id string) (*proposal.Document, error) {
	snap, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if snap.Document == nil {
		return nil, ErrNoDocument
	}
	return snap.Document, nil
}

// Reset discards the session and anything it holds.
func (s *Store) Reset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Prune drops finished sessions not touched since before cutoff and reports
// how many were removed. Sessions with a generation in flight are kept.
func (s *Store) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if e.state != StateGenerating && e.updatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
