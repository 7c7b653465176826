package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

type localUser struct {
	id   string
	hash []byte
}

// Local is an in-process identity provider for development and tests.
type Local struct {
	mu    sync.RWMutex
	users map[string]localUser
	ttl   time.Duration
	cost  int
}

// NewLocal creates an empty Local provider.
func NewLocal() *Local {
	return &Local{users: map[string]localUser{}, ttl: time.Hour, cost: bcrypt.DefaultCost}
}

func (l *Local) SignUp(_ context.Context, email, password string) (Session, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return Session{}, errors.Wrap(err, "hashing password")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.users[key]; ok {
		return Session{}, &AuthError{Code: CodeEmailExists, Message: "The email address is already in use by another account."}
	}
	u := localUser{id: uuid.NewString(), hash: hash}
	l.users[key] = u
	return l.session(u, key), nil
}

func (l *Local) SignIn(_ context.Context, email, password string) (Session, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	l.mu.RLock()
	u, ok := l.users[key]
	l.mu.RUnlock()
	if !ok {
		return Session{}, &AuthError{Code: CodeEmailNotFound}
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(password)); err != nil {
		return Session{}, &AuthError{Code: CodeInvalidPassword}
	}
	return l.session(u, key), nil
}

func (l *Local) session(u localUser, email string) Session {
	return Session{UserID: u.id, Email: email, Token: uuid.NewString(), ExpiresIn: l.ttl}
}
