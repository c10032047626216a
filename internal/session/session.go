// Package session holds the in-process conversation context: the ordered
// turns of each conversation, serialized per conversation id.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"deskmate/internal/domain"
)

const (
	DefaultMaxTurns      = 200
	DefaultIdleTTL       = 30 * time.Minute
	DefaultSweepInterval = time.Minute
)

// Conversation is the turn history of one conversation. Its mutating methods
// may only be called by the holder returned from Store.Acquire.
type Conversation struct {
	ID string

	lock     chan struct{}
	fresh    bool
	turns    []domain.Turn
	maxTurns int

	refs         atomic.Int32
	lastActivity atomic.Int64
}

func newConversation(id string, maxTurns int, now time.Time) *Conversation {
	c := &Conversation{
		ID:       id,
		lock:     make(chan struct{}, 1),
		fresh:    true,
		maxTurns: maxTurns,
	}
	c.lastActivity.Store(now.UnixNano())
	return c
}

// Append adds a turn at the end, dropping the oldest turns beyond the cap.
func (c *Conversation) Append(role domain.Role, text string, at time.Time) {
	c.turns = append(c.turns, domain.Turn{Role: role, Text: text, Timestamp: at})
	c.trim()
}

// Hydrate seeds an empty conversation with previously persisted turns.
// It is a no-op once the conversation has turns.
func (c *Conversation) Hydrate(turns []domain.Turn) {
	if len(c.turns) > 0 || len(turns) == 0 {
		return
	}
	c.turns = append([]domain.Turn(nil), turns...)
	c.trim()
}

func (c *Conversation) trim() {
	if c.maxTurns <= 0 || len(c.turns) <= c.maxTurns {
		return
	}
	drop := len(c.turns) - c.maxTurns
	c.turns = append(c.turns[:0], c.turns[drop:]...)
}

// Turns returns a copy of the history, oldest first.
func (c *Conversation) Turns() []domain.Turn {
	return append([]domain.Turn(nil), c.turns...)
}

// Window returns a copy of the last n turns. n <= 0 means all of them.
func (c *Conversation) Window(n int) []domain.Turn {
	if n <= 0 || n >= len(c.turns) {
		return c.Turns()
	}
	return append([]domain.Turn(nil), c.turns[len(c.turns)-n:]...)
}

func (c *Conversation) TurnCount() int {
	return len(c.turns)
}

func (c *Conversation) UserTurnCount() int {
	n := 0
	for _, t := range c.turns {
		if t.Role == domain.RoleUser {
			n++
		}
	}
	return n
}

// LastActivity is when the conversation was last released.
func (c *Conversation) LastActivity() time.Time {
	return time.Unix(0, c.lastActivity.Load())
}

// Store owns every live conversation. Work on one conversation id is
// serialized; different ids never wait on each other.
type Store struct {
	mu    sync.RWMutex
	convs map[string]*Conversation

	maxTurns int
	idleTTL  time.Duration
	interval time.Duration
	now      func() time.Time
}

type Option func(*Store)

// WithMaxTurns caps the turns kept per conversation. Zero disables the cap.
func WithMaxTurns(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.maxTurns = n
		}
	}
}

// WithIdleTTL sets how long an untouched conversation survives. Zero
// disables eviction.
func WithIdleTTL(d time.Duration) Option {
	return func(s *Store) {
		if d >= 0 {
			s.idleTTL = d
		}
	}
}

func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		convs:    make(map[string]*Conversation),
		maxTurns: DefaultMaxTurns,
		idleTTL:  DefaultIdleTTL,
		interval: DefaultSweepInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Acquire returns the conversation for id, creating it if needed, and holds
// it exclusively until release is called. created is true for exactly one
// holder: the first one to hold a newly created conversation.
func (s *Store) Acquire(ctx context.Context, id string) (conv *Conversation, release func(), created bool, err error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil, false, errors.New("session: conversation id must not be empty")
	}

	c := s.ref(id)
	select {
	case c.lock <- struct{}{}:
	case <-ctx.Done():
		c.refs.Add(-1)
		return nil, nil, false, ctx.Err()
	}

	created = c.fresh
	c.fresh = false
	release = sync.OnceFunc(func() {
		c.lastActivity.Store(s.now().UnixNano())
		<-c.lock
		c.refs.Add(-1)
	})
	return c, release, created, nil
}

// ref finds or creates the conversation and marks it in use, so a concurrent
// sweep cannot evict it while the caller waits for the lock.
func (s *Store) ref(id string) *Conversation {
	s.mu.RLock()
	if c, ok := s.convs[id]; ok {
		c.refs.Add(1)
		s.mu.RUnlock()
		return c
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	if !ok {
		c = newConversation(id, s.maxTurns, s.now())
		s.convs[id] = c
	}
	c.refs.Add(1)
	return c
}

// Len reports the number of live conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.convs)
}

// Sweep evicts conversations idle for longer than the TTL as of now and
// returns how many it removed. Conversations in use are kept.
func (s *Store) Sweep(now time.Time) int {
	if s.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, c := range s.convs {
		if c.refs.Load() > 0 || c.LastActivity().After(cutoff) {
			continue
		}
		delete(s.convs, id)
		evicted++
	}
	return evicted
}

// Run sweeps on every interval tick until ctx is done.
func (s *Store) Run(ctx context.Context) {
	if s.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	slog.Debug("session janitor started", "interval", s.interval, "ttl", s.idleTTL)

	for {
		select {
		case <-ticker.C:
			if n := s.Sweep(s.now()); n > 0 {
				slog.Info("session janitor evicted idle conversations", "count", n, "remaining", s.Len())
			}
		case <-ctx.Done():
			slog.Debug("session janitor shutting down", "reason", ctx.Err())
			return
		}
	}
}
