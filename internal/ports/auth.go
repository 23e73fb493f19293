package ports

// Package ports defines interfaces (hexagonal ports) for session and auth behavior.
// Implementations live in internal/adapters; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
)

// ErrNoToken is returned by a TokenStore when no token is held for a session.
var ErrNoToken = errors.New("no token stored for session")

// TokenStore persists the token pair bound to a browser session id.
type TokenStore interface {
	Save(ctx context.Context, sid string, tokens domainauth.TokenPair) error
	// Get returns ErrNoToken when nothing is stored for sid.
	Get(ctx context.Context, sid string) (domainauth.TokenPair, error)
	Delete(ctx context.Context, sid string) error
}

// ProfileFetcher resolves the identity behind an access token.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, accessToken string) (domainauth.User, error)
}

// LoginInput carries credentials submitted from the login form.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is the backend's answer to a login attempt.
type LoginResult struct {
	Tokens domainauth.TokenPair
	// User is set when the backend returns the profile inline.
	User *domainauth.User
}

// VerifyOTPInput carries the one-time code for an inactive account.
type VerifyOTPInput struct {
	Email       string
	Code        string
	AccessToken string
}

// Authenticator performs credential flows against the backend.
type Authenticator interface {
	Login(ctx context.Context, in LoginInput) (LoginResult, error)
	// VerifyOTP returns a fresh token pair when the backend rotates tokens, or a zero pair.
	VerifyOTP(ctx context.Context, in VerifyOTPInput) (domainauth.TokenPair, error)
	Logout(ctx context.Context, accessToken string) error
}

// NoticeLevel classifies a user-visible notification.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is a toast shown to the user.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Title   string      `json:"title"`
	Message string      `json:"message,omitempty"`
}

// Notifier delivers notices to the user of the current request.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}
