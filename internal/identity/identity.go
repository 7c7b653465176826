// Package identity signs users in and up against an identity provider.
package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Provider error codes. The wrong-credential codes are the only ones
// that change what the user is told.
const (
	CodeEmailNotFound           = "EMAIL_NOT_FOUND"
	CodeInvalidPassword         = "INVALID_PASSWORD"
	CodeInvalidLoginCredentials = "INVALID_LOGIN_CREDENTIALS"
	CodeUserNotFound            = "USER_NOT_FOUND"
	CodeEmailExists             = "EMAIL_EXISTS"
	CodeWeakPassword            = "WEAK_PASSWORD"
	CodeUnavailable             = "UNAVAILABLE"
)

// Session is what the provider returns on a successful sign-in or sign-up.
type Session struct {
	UserID    string
	Email     string
	Token     string
	ExpiresIn time.Duration
}

// Gateway is a hosted authentication service.
type Gateway interface {
	SignIn(ctx context.Context, email, password string) (Session, error)
	SignUp(ctx context.Context, email, password string) (Session, error)
}

// AuthError is a provider failure with a machine readable code.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" || e.Message == e.Code {
		return fmt.Sprintf("auth: %s", e.Code)
	}
	return fmt.Sprintf("auth: %s: %s", e.Code, e.Message)
}

// IsWrongCredentials reports whether the provider rejected the email/password pair.
func (e *AuthError) IsWrongCredentials() bool {
	switch e.Code {
	case CodeEmailNotFound, CodeInvalidPassword, CodeInvalidLoginCredentials, CodeUserNotFound:
		return true
	}
	return false
}

// AsAuthError unwraps err into an AuthError.
func AsAuthError(err error) (*AuthError, bool) {
	var aerr *AuthError
	if errors.As(err, &aerr) {
		return aerr, true
	}
	return nil, false
}
