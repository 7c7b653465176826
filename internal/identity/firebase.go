package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultFirebaseURL is the Identity Toolkit REST endpoint.
const DefaultFirebaseURL = "https://identitytoolkit.googleapis.com/v1"

// Firebase signs users in and up through the Firebase Auth REST API.
type Firebase struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewFirebase creates a Firebase gateway. A nil client uses http.DefaultClient.
func NewFirebase(apiKey string, client *http.Client) *Firebase {
	if client == nil {
		client = http.DefaultClient
	}
	return &Firebase{apiKey: apiKey, baseURL: DefaultFirebaseURL, client: client}
}

// WithBaseURL points the gateway at another endpoint, such as the Auth emulator.
func (f *Firebase) WithBaseURL(u string) *Firebase {
	f.baseURL = strings.TrimRight(u, "/")
	return f
}

type firebaseRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type firebaseResponse struct {
	LocalID   string `json:"localId"`
	Email     string `json:"email"`
	IDToken   string `json:"idToken"`
	ExpiresIn string `json:"expiresIn"`
}

type firebaseErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *Firebase) SignIn(ctx context.Context, email, password string) (Session, error) {
	return f.call(ctx, "signInWithPassword", email, password)
}

func (f *Firebase) SignUp(ctx context.Context, email, password string) (Session, error) {
	return f.call(ctx, "signUp", email, password)
}

func (f *Firebase) call(ctx context.Context, method, email, password string) (Session, error) {
	body, err := json.Marshal(firebaseRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return Session{}, errors.Wrap(err, "encoding request")
	}

	endpoint := f.baseURL + "/accounts:" + method + "?key=" + url.QueryEscape(f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Session{}, errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return Session{}, &AuthError{Code: CodeUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Session{}, errors.Wrap(err, "reading response")
	}

	if resp.StatusCode != http.StatusOK {
		return Session{}, parseFirebaseError(resp.StatusCode, raw)
	}

	var out firebaseResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Session{}, errors.Wrap(err, "decoding response")
	}
	expires, _ := strconv.Atoi(out.ExpiresIn)
	return Session{
		UserID:    out.LocalID,
		Email:     out.Email,
		Token:     out.IDToken,
		ExpiresIn: time.Duration(expires) * time.Second,
	}, nil
}

// parseFirebaseError reads messages like "WEAK_PASSWORD : Password should be at least 6 characters".
func parseFirebaseError(status int, raw []byte) error {
	var er firebaseErrorResponse
	if err := json.Unmarshal(raw, &er); err != nil || er.Error.Message == "" {
		return &AuthError{Code: CodeUnavailable, Message: http.StatusText(status)}
	}
	code, detail, found := strings.Cut(er.Error.Message, " : ")
	if !found {
		detail = code
	}
	return &AuthError{Code: strings.TrimSpace(code), Message: strings.TrimSpace(detail)}
}
