// Package session owns the per-user registration state and serializes all
// work done on behalf of one user.
package session

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/semaphore"
)

type State int

const (
	Idle State = iota
	AwaitingPhone
	AwaitingTeam
	AwaitingEmail
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingPhone:
		return "awaiting_phone"
	case AwaitingTeam:
		return "awaiting_team"
	case AwaitingEmail:
		return "awaiting_email"
	default:
		return "unknown"
	}
}

type Session struct {
	UserID    int64
	State     State
	UpdatedAt time.Time
}

// gate is a per-user binary semaphore. refs counts callers holding or
// waiting for it; it is only touched inside xsync Compute for its key.
type gate struct {
	sem  *semaphore.Weighted
	refs int
}

// Store keeps sessions and gates in concurrent maps. Users never contend
// with each other; events of the same user run one at a time.
type Store struct {
	sessions *xsync.MapOf[int64, Session]
	gates    *xsync.MapOf[int64, *gate]
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: xsync.NewMapOf[int64, Session](),
		gates:    xsync.NewMapOf[int64, *gate](),
		now:      time.Now,
	}
}

// Do runs fn with exclusive access to the user's session. Changes fn makes
// to the session are committed whether or not fn returns an error. Do
// returns ctx.Err() if the gate could not be acquired before ctx ended.
func (s *Store) Do(ctx context.Context, userID int64, fn func(*Session) error) error {
	g := s.retain(userID)
	defer s.release(userID)

	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer g.sem.Release(1)

	sess := s.Get(userID)
	before := sess.State

	err := fn(&sess)

	if sess.State != before {
		sess.UpdatedAt = s.now()
	}
	if sess.State == Idle {
		s.sessions.Delete(userID)
	} else {
		s.sessions.Store(userID, sess)
	}

	return err
}

// Get returns a snapshot of the user's session. Unknown users are Idle.
func (s *Store) Get(userID int64) Session {
	sess, ok := s.sessions.Load(userID)
	if !ok {
		return Session{UserID: userID, State: Idle}
	}
	return sess
}

func (s *Store) retain(userID int64) *gate {
	g, _ := s.gates.Compute(userID, func(g *gate, loaded bool) (*gate, bool) {
		if !loaded {
			g = &gate{sem: semaphore.NewWeighted(1)}
		}
		g.refs++
		return g, false
	})
	return g
}

func (s *Store) release(userID int64) {
	s.gates.Compute(userID, func(g *gate, loaded bool) (*gate, bool) {
		if !loaded {
			return g, true
		}
		g.refs--
		return g, g.refs == 0
	})
}
