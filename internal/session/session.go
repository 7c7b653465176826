// Package session keeps signed-in users and their desks.
package session

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"booktracker/internal/helpers"
	"booktracker/internal/identity"
	"booktracker/internal/workflow"
)

const tokenLength = 43

// ErrNoSession is returned for unknown or expired tokens.
var ErrNoSession = errors.New("no such session")

// Session is one signed-in user.
type Session struct {
	Token     string
	UserID    string
	Email     string
	ExpiresAt time.Time
	Desk      *workflow.Desk
}

// DeskFactory builds the workspace for a new session.
type DeskFactory func(email string) *workflow.Desk

// Registry maps opaque tokens to sessions.
type Registry struct {
	ttl     time.Duration
	newDesk DeskFactory
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates a registry whose sessions last ttl.
func NewRegistry(ttl time.Duration, newDesk DeskFactory) *Registry {
	return &Registry{
		ttl:      ttl,
		newDesk:  newDesk,
		now:      time.Now,
		sessions: map[string]*Session{},
	}
}

// TTL is how long new sessions last.
func (r *Registry) TTL() time.Duration { return r.ttl }

// Open creates a session for an identity provider sign-in.
func (r *Registry) Open(id identity.Session) (*Session, error) {
	token, err := helpers.GenerateRandomString(tokenLength)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Token:     token,
		UserID:    id.UserID,
		Email:     id.Email,
		ExpiresAt: r.now().Add(r.ttl),
		Desk:      r.newDesk(id.Email),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[token] = s
	return s, nil
}

// Lookup returns a live session.
func (r *Registry) Lookup(token string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, ErrNoSession
	}
	if !r.now().Before(s.ExpiresAt) {
		delete(r.sessions, token)
		return nil, ErrNoSession
	}
	return s, nil
}

// Close ends a session. Closing an unknown token is a no-op.
func (r *Registry) Close(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
}

// Sweep drops expired sessions and returns how many were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	n := 0
	for token, s := range r.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(r.sessions, token)
			n++
		}
	}
	return n
}

// SweepEdits drops edit workflows older than maxAge from every live
// session's desk and returns how many were dropped.
func (r *Registry) SweepEdits(maxAge time.Duration) int {
	r.mu.Lock()
	desks := make([]*workflow.Desk, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.Desk != nil {
			desks = append(desks, s.Desk)
		}
	}
	r.mu.Unlock()

	n := 0
	for _, d := range desks {
		n += d.ForgetStale(maxAge)
	}
	return n
}

// Len is the number of sessions held, expired or not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
