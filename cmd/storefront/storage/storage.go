package storage

import (
	"errors"
	"sync"
	"time"

	"github.com/nivanov045/gamestore/internal/bridge"
	"github.com/nivanov045/gamestore/internal/storefront"
)

var (
	ErrNoSuchVisit  = errors.New("no such visit")
	ErrVisitExpired = errors.New("visit expired")
	ErrVisitExists  = errors.New("visit already exists")
)

// Visit is one player's stay on the page. Callers hold the lock while they
// touch Form, Script or Notices.
type Visit struct {
	sync.Mutex
	Form    *storefront.Form
	Script  *bridge.Script // nil unless the page runs the bridge calls
	Notices []storefront.Notice
}

/*
Visits live in memory only:
- token -> visit, valid_until
A restart drops every draft.
*/
type storage struct {
	mu     sync.RWMutex
	visits map[string]entry
	now    func() time.Time
}

type entry struct {
	visit      *Visit
	validUntil time.Time
}

func New() *storage {
	return &storage{
		visits: make(map[string]entry),
		now:    time.Now,
	}
}

func (s *storage) AddVisit(token string, visit *Visit, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.visits[token]; ok && s.now().Before(e.validUntil) {
		return ErrVisitExists
	}
	s.visits[token] = entry{visit: visit, validUntil: expiresAt}
	return nil
}

func (s *storage) GetVisit(token string) (*Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.visits[token]
	if !ok {
		return nil, ErrNoSuchVisit
	}
	if !s.now().Before(e.validUntil) {
		return nil, ErrVisitExpired
	}
	return e.visit, nil
}

func (s *storage) TouchVisit(token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.visits[token]
	if !ok {
		return ErrNoSuchVisit
	}
	e.validUntil = expiresAt
	s.visits[token] = e
	return nil
}

// RemoveExpired drops visits whose time is up and reports how many went.
func (s *storage) RemoveExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, e := range s.visits {
		if !now.Before(e.validUntil) {
			delete(s.visits, token)
			removed++
		}
	}
	return removed
}

func (s *storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.visits)
}
