// Package session keeps the live editing state of estimates in memory. A
// session disappears when it is closed or when it has been idle for the TTL.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"iq-home/estimate/internal/domain/estimate"
)

var ErrNotFound = errors.New("session not found")

// View is a consistent read of one session.
type View struct {
	ID       string            `json:"id"`
	Document estimate.Document `json:"document"`
	Totals   estimate.Totals   `json:"totals"`
}

type entry struct {
	mu       sync.Mutex
	doc      *estimate.Document
	lastSeen time.Time
}

type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time

	// OnChange is called with the number of live sessions after one is added or removed.
	OnChange func(live int)
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

func (s *Store) Create() View {
	now := s.now()
	id := uuid.NewString()
	e := &entry{doc: estimate.New(now), lastSeen: now}

	s.mu.Lock()
	s.sessions[id] = e
	live := len(s.sessions)
	s.mu.Unlock()
	s.report(live)

	return view(id, e.doc)
}

func (s *Store) lookup(id string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *Store) Get(id string) (View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = s.now()
	return view(id, e.doc), nil
}

// Update applies fn to the session's document under its lock. When fn fails
// the document is restored to its prior state.
func (s *Store) Update(id string, fn func(*estimate.Document) error) (View, error) {
	e, err := s.lookup(id)
	if err != nil {
		return View{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeen = s.now()

	before := e.doc.Snapshot()
	if err := fn(e.doc); err != nil {
		*e.doc = before
		return View{}, err
	}
	return view(id, e.doc), nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	live := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.report(live)
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many went.
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	removed := 0
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := now.Sub(e.lastSeen)
		e.mu.Unlock()
		if idle > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	live := len(s.sessions)
	s.mu.Unlock()
	if removed > 0 {
		s.report(live)
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep(s.now())
		}
	}
}

func (s *Store) report(live int) {
	if s.OnChange != nil {
		s.OnChange(live)
	}
}

func view(id string, d *estimate.Document) View {
	return View{ID: id, Document: d.Snapshot(), Totals: d.Derive()}
}
