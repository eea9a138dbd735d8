// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/danielhkuo/quickly-elect/metrics"
	"github.com/danielhkuo/quickly-elect/selection"
)

// CookieName is the cookie carrying the session ID
const CookieName = "qe_session"

// Session is one logged-in voter's ballot page
type Session struct {
	ID         string
	ElectionID string
	ShareSlug  string
	Username   string
	VoterToken string
	CSRFToken  string

	mu       sync.Mutex
	page     *selection.Page
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's page, so clicks
// on one ballot are applied one at a time.
func (s *Session) Do(fn func(pg *selection.Page) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page == nil {
		s.page = &selection.Page{}
	}
	return fn(s.page)
}

// Reset replaces the page with freshly rendered state
func (s *Session) Reset(pg *selection.Page) {
	s.mu.Lock()
	s.page = pg
	s.mu.Unlock()
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen) > ttl
}

// Store keeps sessions in memory. Nothing survives a restart.
type Store struct {
	ttl      time.Duration
	now      func() time.Time
	sessions *xsync.Map[string, *Session]
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		now:      time.Now,
		sessions: xsync.NewMap[string, *Session](),
	}
}

// Create registers a new session and returns it
func (st *Store) Create(electionID, shareSlug, username, voterToken, csrfToken string) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		ElectionID: electionID,
		ShareSlug:  shareSlug,
		Username:   username,
		VoterToken: voterToken,
		CSRFToken:  csrfToken,
		lastSeen:   st.now(),
	}
	st.sessions.Store(s.ID, s)
	return s
}

// Get returns a live session and refreshes its idle timer
func (st *Store) Get(id string) (*Session, bool) {
	s, ok := st.sessions.Load(id)
	if !ok {
		return nil, false
	}
	now := st.now()
	if s.expired(now, st.ttl) {
		st.sessions.Delete(id)
		return nil, false
	}
	s.touch(now)
	return s, true
}

// HasVoter reports whether a live session is bound to the voter token
func (st *Store) HasVoter(voterToken string) bool {
	now := st.now()
	found := false
	st.sessions.Range(func(_ string, s *Session) bool {
		if s.VoterToken == voterToken && !s.expired(now, st.ttl) {
			found = true
			return false
		}
		return true
	})
	return found
}

func (st *Store) Delete(id string) bool {
	_, ok := st.sessions.LoadAndDelete(id)
	return ok
}

func (st *Store) Len() int {
	return st.sessions.Size()
}

// Sweep removes expired sessions and returns how many were dropped
func (st *Store) Sweep() int {
	now := st.now()
	removed := 0
	st.sessions.Range(func(id string, s *Session) bool {
		if s.expired(now, st.ttl) {
			st.sessions.Delete(id)
			removed++
		}
		return true
	})
	return removed
}

// Run sweeps on every interval until ctx is done
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				slog.Info("expired sessions removed", "count", n, "remaining", st.Len())
			}
			metrics.SetSessionsActive(st.Len())
		}
	}
}
