// Package voice tracks short-lived assistant sessions. A session pins the
// user and provider for a voice conversation so follow-up turns do not have
// to re-identify either. Sessions expire after a TTL and a background sweep
// removes them.
package voice

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/daybook-ai/daybook/internal/domain"
)

// DefaultTTL is how long a session stays alive without renewal.
const DefaultTTL = 30 * time.Minute

// Session is one live voice conversation.
type Session struct {
	ID        string
	User      domain.UserID
	Provider  domain.ProviderID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store holds sessions in memory and sweeps expired ones on a schedule.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	cron     *cron.Cron

	// onChange is invoked with the delta of live sessions, used to keep
	// the active-session gauge current.
	onChange func(delta int)
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithTTL overrides the session TTL.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) { s.ttl = ttl }
}

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithOnChange sets a callback receiving the live-session delta.
func WithOnChange(fn func(delta int)) StoreOption {
	return func(s *Store) { s.onChange = fn }
}

// NewStore returns a session store. Call Start to begin the expiry sweep.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      DefaultTTL,
		now:      time.Now,
		onChange: func(int) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the background sweep of expired sessions.
func (s *Store) Start() {
	s.cron = cron.New()
	// Sweeping inline keeps expiry within a minute of the deadline, which
	// is plenty for conversational sessions.
	_, _ = s.cron.AddFunc("@every 1m", s.Sweep)
	s.cron.Start()
}

// Stop halts the background sweep. Sessions remain in memory.
func (s *Store) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Create opens a session for the given user and provider.
func (s *Store) Create(user domain.UserID, provider domain.ProviderID) *Session {
	now := s.now()
	session := &Session{
		ID:        uuid.NewString(),
		User:      user,
		Provider:  provider,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.onChange(1)
	return session
}

// Get returns the session by ID, or nil when it does not exist or has
// expired. An expired session found here is removed.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok && s.now().After(session.ExpiresAt) {
		delete(s.sessions, id)
		ok = false
		defer s.onChange(-1)
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return session
}

// Renew extends the session TTL. Returns false when the session is gone.
func (s *Store) Renew(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || s.now().After(session.ExpiresAt) {
		return false
	}
	session.ExpiresAt = s.now().Add(s.ttl)
	return true
}

// End removes a session.
func (s *Store) End(id string) {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		s.onChange(-1)
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes every expired session.
func (s *Store) Sweep() {
	now := s.now()
	removed := 0

	s.mu.Lock()
	for id, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		s.onChange(-removed)
	}
}
