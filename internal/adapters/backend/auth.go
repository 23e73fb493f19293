package backend

import (
	"context"
	"net/http"
	"strings"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

const (
	pathProfile   = "/auth/profile"
	pathLogin     = "/auth/login"
	pathVerifyOTP = "/auth/verify-otp"
	pathLogout    = "/auth/logout"
)

// FetchProfile resolves the identity behind accessToken.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (domainauth.User, error) {
	if accessToken == "" {
		return domainauth.User{}, apperrors.Unauthenticated("no access token")
	}
	var u domainauth.User
	err := c.do(ctx, call{op: "fetch profile", method: http.MethodGet, path: pathProfile, token: accessToken}, &u)
	if err != nil {
		return domainauth.User{}, err
	}
	if u.ID == "" {
		return domainauth.User{}, apperrors.Inconsistent("profile response has no user id")
	}
	return u, nil
}

type loginResponse struct {
	domainauth.TokenPair
	User *domainauth.User `json:"user,omitempty"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, in ports.LoginInput) (ports.LoginResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return ports.LoginResult{}, apperrors.ValidationField("email", "email is required")
	}
	if in.Password == "" {
		return ports.LoginResult{}, apperrors.ValidationField("password", "password is required")
	}

	var resp loginResponse
	body := map[string]string{"email": email, "password": in.Password}
	if err := c.do(ctx, call{op: "login", method: http.MethodPost, path: pathLogin, body: body}, &resp); err != nil {
		return ports.LoginResult{}, err
	}
	if resp.AccessToken == "" {
		return ports.LoginResult{}, apperrors.Inconsistent("login response has no access token")
	}
	return ports.LoginResult{Tokens: resp.TokenPair, User: resp.User}, nil
}

// VerifyOTP submits a one-time code. Backends that rotate tokens on verification
// return a new pair; others return an empty payload and the zero pair.
func (c *Client) VerifyOTP(ctx context.Context, in ports.VerifyOTPInput) (domainauth.TokenPair, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" {
		return domainauth.TokenPair{}, apperrors.ValidationField("otp", "verification code is required")
	}
	var pair domainauth.TokenPair
	body := map[string]string{"email": strings.TrimSpace(in.Email), "otp": code}
	err := c.do(ctx, call{
		op:     "verify otp",
		method: http.MethodPost,
		path:   pathVerifyOTP,
		token:  in.AccessToken,
		body:   body,
	}, &pair)
	if err != nil {
		return domainauth.TokenPair{}, err
	}
	return pair, nil
}

// Logout invalidates the token server-side.
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return c.do(ctx, call{op: "logout", method: http.MethodPost, path: pathLogout, token: accessToken}, nil)
}
