package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"booktracker/internal/validation"
)

func TestAuthErrorClassification(t *testing.T) {
	for _, code := range []string{CodeEmailNotFound, CodeInvalidPassword, CodeInvalidLoginCredentials, CodeUserNotFound} {
		assert.True(t, (&AuthError{Code: code}).IsWrongCredentials(), code)
	}
	for _, code := range []string{CodeEmailExists, CodeWeakPassword, CodeUnavailable, "TOO_MANY_ATTEMPTS_TRY_LATER"} {
		assert.False(t, (&AuthError{Code: code}).IsWrongCredentials(), code)
	}

	wrapped := errors.Wrap(&AuthError{Code: CodeInvalidPassword}, "signing in")
	aerr, ok := AsAuthError(wrapped)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidPassword, aerr.Code)

	_, ok = AsAuthError(errors.New("boom"))
	assert.False(t, ok)
	assert.Equal(t, "auth: WEAK_PASSWORD: too short", (&AuthError{Code: CodeWeakPassword, Message: "too short"}).Error())
}

func TestCredentialsValidate(t *testing.T) {
	assert.NoError(t, Credentials{Email: "a@b.c", Password: "12345678"}.Validate())

	err := Credentials{Email: "not-an-email", Password: "short"}.Validate()
	assert.Equal(t, validation.Errors{
		"email":    "Invalid email format",
		"password": "Password must be at least 8 characters long",
	}, err)

	err = Credentials{}.Validate()
	assert.Equal(t, validation.Errors{
		"email":    "Email is required",
		"password": "Password is required",
	}, err)
}

func TestRegistrationValidate(t *testing.T) {
	valid := Registration{Name: "Ana", Email: "ana@school.edu", Phone: "0917", Password: "password1"}
	assert.NoError(t, valid.Validate())

	long := valid
	long.Name = "abcdefghijabcdefghijabcdefghijabcdefghijabcdefghijX"
	long.Phone = ""
	long.Email = "nope"
	assert.Equal(t, validation.Errors{
		"name":  "Max length exceeded",
		"phone": "Phone number is required",
		"email": "Invalid email format",
	}, long.Validate())
}

func TestLocalGateway(t *testing.T) {
	ctx := context.Background()
	l := NewLocal()
	l.cost = bcrypt.MinCost

	s, err := l.SignUp(ctx, "Student@School.edu", "password1")
	require.NoError(t, err)
	assert.Equal(t, "student@school.edu", s.Email)
	assert.NotEmpty(t, s.Token)

	_, err = l.SignUp(ctx, "student@school.edu", "password2")
	aerr, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, CodeEmailExists, aerr.Code)

	in, err := l.SignIn(ctx, "student@school.edu", "password1")
	require.NoError(t, err)
	assert.Equal(t, s.UserID, in.UserID)
	assert.NotEqual(t, s.Token, in.Token)

	_, err = l.SignIn(ctx, "student@school.edu", "wrong-password")
	aerr, _ = AsAuthError(err)
	require.NotNil(t, aerr)
	assert.True(t, aerr.IsWrongCredentials())

	_, err = l.SignIn(ctx, "nobody@school.edu", "password1")
	aerr, _ = AsAuthError(err)
	require.NotNil(t, aerr)
	assert.Equal(t, CodeEmailNotFound, aerr.Code)
}

func TestFirebaseGateway(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path+"?"+r.URL.RawQuery)
		mu.Unlock()
		var req firebaseRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.ReturnSecureToken)

		w.Header().Set("Content-Type", "application/json")
		switch req.Email {
		case "student@school.edu":
			json.NewEncoder(w).Encode(firebaseResponse{LocalID: "uid-1", Email: req.Email, IDToken: "id-token", ExpiresIn: "3600"})
		case "weak@school.edu":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":400,"message":"WEAK_PASSWORD : Password should be at least 6 characters"}}`))
		case "down@school.edu":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":400,"message":"INVALID_LOGIN_CREDENTIALS"}}`))
		}
	}))
	defer srv.Close()

	fb := NewFirebase("api-key", srv.Client()).WithBaseURL(srv.URL + "/")
	ctx := context.Background()

	s, err := fb.SignIn(ctx, "student@school.edu", "password1")
	require.NoError(t, err)
	assert.Equal(t, Session{UserID: "uid-1", Email: "student@school.edu", Token: "id-token", ExpiresIn: time.Hour}, s)

	_, err = fb.SignIn(ctx, "nobody@school.edu", "password1")
	aerr, ok := AsAuthError(err)
	require.True(t, ok)
	assert.True(t, aerr.IsWrongCredentials())

	_, err = fb.SignUp(ctx, "weak@school.edu", "pw")
	aerr, ok = AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, &AuthError{Code: CodeWeakPassword, Message: "Password should be at least 6 characters"}, aerr)

	_, err = fb.SignIn(ctx, "down@school.edu", "password1")
	aerr, ok = AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, CodeUnavailable, aerr.Code)
	assert.False(t, aerr.IsWrongCredentials())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, paths, 4)
	assert.Equal(t, "/accounts:signInWithPassword?key=api-key", paths[0])
	assert.Equal(t, "/accounts:signUp?key=api-key", paths[2])
}
