// Package session keeps cleaning engines in memory, one per client
// session, and expires the ones that sit idle.
//
// The engine itself is not safe for concurrent use. Every access goes
// through [Store.Do], which holds the session's mutex for the duration of
// the callback.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/cleaner/internal/cleaner"
)

var (
	// ErrNotFound is returned for unknown or expired session IDs.
	ErrNotFound = errors.New("session not found")

	// ErrTooManySessions is returned by Create when MaxActive sessions are live.
	ErrTooManySessions = errors.New("too many active sessions, please try again later")
)

// Defaults applied to zero Config fields.
const (
	DefaultMaxActive     = 100
	DefaultIdleTimeout   = 30 * time.Minute
	DefaultSweepInterval = time.Minute
)

// Config configures a Store.
type Config struct {
	MaxActive     int
	IdleTimeout   time.Duration
	SweepInterval time.Duration

	// EngineOptions are passed to every engine the store creates.
	EngineOptions []cleaner.Option

	// OnChange is called with the live session count after every create,
	// delete and sweep.
	OnChange func(active int)

	Logger *slog.Logger
	Now    func() time.Time
}

// Session is one engine plus its bookkeeping.
type Session struct {
	ID        string
	Source    string
	CreatedAt time.Time

	mu       sync.Mutex
	engine   *cleaner.Engine
	lastUsed time.Time
	closed   bool
}

// Info is a point-in-time description of a session.
type Info struct {
	ID        string    `json:"session_id"`
	Source    string    `json:"source"`
	Rows      int       `json:"rows"`
	Columns   []string  `json:"columns"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
}

// Store owns every live session.
type Store struct {
	cfg Config

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty store.
func NewStore(cfg Config) *Store {
	if cfg.MaxActive <= 0 {
		cfg.MaxActive = DefaultMaxActive
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultSweepInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{cfg: cfg, sessions: make(map[string]*Session)}
}

// Create builds a new engine over rows and registers it. columns fixes the
// leading column order and may be nil.
func (s *Store) Create(source string, columns []string, rows []map[string]any) (*Session, error) {
	s.mu.RLock()
	full := len(s.sessions) >= s.cfg.MaxActive
	s.mu.RUnlock()
	if full {
		return nil, ErrTooManySessions
	}

	// Engine construction copies every row; do it outside the store lock.
	opts := append([]cleaner.Option{cleaner.WithColumns(columns)}, s.cfg.EngineOptions...)
	now := s.cfg.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: now,
		engine:    cleaner.New(rows, opts...),
		lastUsed:  now,
	}

	s.mu.Lock()
	if len(s.sessions) >= s.cfg.MaxActive {
		s.mu.Unlock()
		return nil, ErrTooManySessions
	}
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	s.notify(n)
	s.cfg.Logger.Info("session created",
		"session_id", sess.ID,
		"source", source,
		"rows", len(rows),
		"active", n,
	)
	return sess, nil
}

// Get returns the session's current description and marks it as used.
func (s *Store) Get(id string) (Info, error) {
	var info Info
	err := s.do(id, func(sess *Session) error {
		info = sess.info()
		return nil
	})
	return info, err
}

func (sess *Session) info() Info {
	return Info{
		ID:        sess.ID,
		Source:    sess.Source,
		Rows:      sess.engine.Len(),
		Columns:   sess.engine.Columns(),
		CreatedAt: sess.CreatedAt,
		LastUsed:  sess.lastUsed,
	}
}

// Info returns the description of a session the caller already holds.
func (sess *Session) Info() Info {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.info()
}

// Do runs fn with exclusive access to the session's engine and marks the
// session as used.
func (s *Store) Do(id string, fn func(*cleaner.Engine) error) error {
	return s.do(id, func(sess *Session) error { return fn(sess.engine) })
}

func (s *Store) do(id string, fn func(*Session) error) error {
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.closed {
		return ErrNotFound
	}
	sess.lastUsed = s.cfg.Now()
	return fn(sess)
}

func (s *Store) lookup(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session. Operations already running on it finish first.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	n := len(s.sessions)
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	sess.mu.Lock()
	sess.closed = true
	sess.mu.Unlock()

	s.notify(n)
	s.cfg.Logger.Info("session deleted", "session_id", id, "active", n)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep removes sessions idle for longer than IdleTimeout as of now.
// Sessions busy in Do are skipped. Returns the number removed.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	var removed int
	for id, sess := range s.sessions {
		if !sess.mu.TryLock() {
			continue
		}
		if now.Sub(sess.lastUsed) > s.cfg.IdleTimeout {
			sess.closed = true
			delete(s.sessions, id)
			removed++
		}
		sess.mu.Unlock()
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		s.notify(n)
		s.cfg.Logger.Info("expired idle sessions", "removed", removed, "active", n)
	}
	return removed
}

// Run sweeps every SweepInterval until ctx is cancelled.
func (s *Store) Run(ctx context.Context) error {
	s.cfg.Logger.Info("session sweeper started",
		"idle_timeout", s.cfg.IdleTimeout,
		"interval", s.cfg.SweepInterval,
	)

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.cfg.Logger.Info("session sweeper stopped")
			return nil
		case <-ticker.C:
			s.Sweep(s.cfg.Now())
		}
	}
}

func (s *Store) notify(n int) {
	if s.cfg.OnChange != nil {
		s.cfg.OnChange(n)
	}
}
