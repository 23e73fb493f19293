package service

import (
	"context"
	"log/slog"
	"strings"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

// AccountServiceOptions groups dependencies for AccountService.
type AccountServiceOptions struct {
	Auth     ports.Authenticator
	Sessions *SessionManager
	Logger   *slog.Logger
}

// AccountService runs the credential flows against the backend and keeps the
// session's token and auth snapshot in step with them.
type AccountService struct {
	auth     ports.Authenticator
	sessions *SessionManager
	logger   *slog.Logger
}

// NewAccountService constructs an AccountService.
func NewAccountService(opts AccountServiceOptions) *AccountService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{auth: opts.Auth, sessions: opts.Sessions, logger: logger}
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	State  domainauth.State
	Tokens domainauth.TokenPair
}

// Login authenticates, stores the issued tokens and resolves the profile.
func (s *AccountService) Login(ctx context.Context, sess *Session, in ports.LoginInput) (LoginResult, error) {
	res, err := s.auth.Login(ctx, in)
	if err != nil {
		return LoginResult{}, err
	}
	if err = sess.Tokens.Set(ctx, res.Tokens); err != nil {
		return LoginResult{}, err
	}

	var st domainauth.State
	if res.User != nil {
		st = sess.Auth.Install(*res.User)
	} else if st, err = sess.Auth.RefreshProfile(ctx); err != nil {
		return LoginResult{}, err
	}
	sess.Guard.Reset()

	s.logger.InfoContext(ctx, "login succeeded", "session_id", sess.ID, "user_id", userID(st))
	return LoginResult{State: st, Tokens: res.Tokens}, nil
}

// VerifyOTPInput groups parameters for VerifyOTP.
type VerifyOTPInput struct {
	Email string
	Code  string
}

// VerifyOTP submits a one-time code for the session's account and re-resolves
// the profile so the new status is visible to the guard.
func (s *AccountService) VerifyOTP(ctx context.Context, sess *Session, in VerifyOTPInput) (domainauth.State, error) {
	tokens, ok, err := sess.Tokens.Get(ctx)
	if err != nil {
		return domainauth.State{}, err
	}
	if !ok {
		return domainauth.State{}, apperrors.Unauthenticated("sign in before verifying your account")
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		if u := sess.Auth.Snapshot().User; u != nil {
			email = u.Email
		}
	}

	rotated, err := s.auth.VerifyOTP(ctx, ports.VerifyOTPInput{
		Email:       email,
		Code:        in.Code,
		AccessToken: tokens.AccessToken,
	})
	if err != nil {
		return domainauth.State{}, err
	}
	if !rotated.IsZero() {
		if rotated.RefreshToken == "" {
			rotated.RefreshToken = tokens.RefreshToken
		}
		if err = sess.Tokens.Set(ctx, rotated); err != nil {
			return domainauth.State{}, err
		}
	}
	return sess.Auth.RefreshProfile(ctx)
}

// Logout revokes the token with the backend (best effort) and ends the session.
func (s *AccountService) Logout(ctx context.Context, sid string) error {
	var access string
	if sess, ok := s.sessions.Lookup(sid); ok {
		access = sess.Tokens.AccessToken(ctx)
	} else {
		access = NewTokenHandle(sid, s.sessions.store).AccessToken(ctx)
	}
	if access != "" {
		if err := s.auth.Logout(ctx, access); err != nil {
			s.logger.WarnContext(ctx, "backend logout failed", "session_id", sid, "error", err)
		}
	}
	return s.sessions.End(ctx, sid)
}
