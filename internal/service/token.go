package service

import (
	"context"
	"errors"
	"fmt"

	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
	apperrors "github.com/lingua-labs/lingua-web/internal/errors"
	"github.com/lingua-labs/lingua-web/internal/ports"
)

// TokenHandle is the token store bound to one session. Every component holding
// the same Session shares the handle, so a Set is visible to the next Get.
type TokenHandle struct {
	sid   string
	store ports.TokenStore
}

// NewTokenHandle binds store to sid.
func NewTokenHandle(sid string, store ports.TokenStore) *TokenHandle {
	return &TokenHandle{sid: sid, store: store}
}

// SessionID returns the bound session id.
func (h *TokenHandle) SessionID() string { return h.sid }

// Set installs tokens, replacing any previous pair.
func (h *TokenHandle) Set(ctx context.Context, tokens domainauth.TokenPair) error {
	if tokens.IsZero() {
		return apperrors.ValidationField("token", "token cannot be empty")
	}
	if err := h.store.Save(ctx, h.sid, tokens); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Get returns the current pair. ok is false when nothing is stored.
func (h *TokenHandle) Get(ctx context.Context) (domainauth.TokenPair, bool, error) {
	tokens, err := h.store.Get(ctx, h.sid)
	if err != nil {
		if errors.Is(err, ports.ErrNoToken) {
			return domainauth.TokenPair{}, false, nil
		}
		return domainauth.TokenPair{}, false, fmt.Errorf("load token: %w", err)
	}
	return tokens, true, nil
}

// AccessToken returns the current access token, or "" when absent or unreadable.
func (h *TokenHandle) AccessToken(ctx context.Context) string {
	tokens, ok, err := h.Get(ctx)
	if err != nil || !ok {
		return ""
	}
	return tokens.AccessToken
}

// Clear removes the pair.
func (h *TokenHandle) Clear(ctx context.Context) error {
	if err := h.store.Delete(ctx, h.sid); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
