package auth

// Package auth contains domain-level types for identities and session state.
// It is pure and free of framework/adapter concerns.

import (
	"fmt"
	"strings"
)

// Status is the lifecycle status of an account as reported by the backend.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusBanned    Status = "BANNED"
	StatusDeleted   Status = "DELETED"
)

// UnmarshalText implements encoding.TextUnmarshaler for Status.
func (s *Status) UnmarshalText(text []byte) error {
	v := Status(strings.ToUpper(strings.TrimSpace(string(text))))
	switch v {
	case StatusActive, StatusInactive, StatusSuspended, StatusBanned, StatusDeleted:
		*s = v
		return nil
	default:
		return fmt.Errorf("invalid account status: %q", string(text))
	}
}

// RoleName identifies an application role.
type RoleName string

const (
	RoleAdmin RoleName = "ADMIN"
	RoleUser  RoleName = "USER"
	RoleStaff RoleName = "STAFF"
)

// Role is a role assigned to a user.
type Role struct {
	Name RoleName `json:"name"`
}

// User is the identity resolved from the backend profile endpoint.
// It is a cache of what the access token grants; the token is the source of truth.
type User struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Status      Status  `json:"status"`
	Roles       []Role  `json:"roles"`
	Proficiency *string `json:"proficiency,omitempty"` // nil until the onboarding test is done
}

// HasRole reports whether the user holds the named role.
func (u User) HasRole(name RoleName) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u User) IsAdmin() bool { return u.HasRole(RoleAdmin) }

// HasProficiency reports whether the onboarding test has been completed.
func (u User) HasProficiency() bool {
	return u.Proficiency != nil && strings.TrimSpace(*u.Proficiency) != ""
}

// DeriveActiveRole picks ADMIN when present, otherwise the learner role.
func DeriveActiveRole(roles []Role) RoleName {
	for _, r := range roles {
		if r.Name == RoleAdmin {
			return RoleAdmin
		}
	}
	return RoleUser
}

// State is the resolved authentication snapshot for one client session.
type State struct {
	User            *User    `json:"user,omitempty"`
	IsAuthenticated bool     `json:"isAuthenticated"`
	IsLoading       bool     `json:"isLoading"`
	ActiveRole      RoleName `json:"activeRole,omitempty"`
}

// LoadingState is the state before the first resolution completes.
func LoadingState() State { return State{IsLoading: true} }

// AuthenticatedState builds the settled state for a resolved user.
func AuthenticatedState(u User) State {
	return State{
		User:            &u,
		IsAuthenticated: true,
		ActiveRole:      DeriveActiveRole(u.Roles),
	}
}

// AnonymousState is the settled state after a failed or absent resolution.
func AnonymousState() State { return State{} }

// Normalize collapses impossible combinations to "not authenticated".
// An authenticated flag without a user, or a user without the flag, is treated as anonymous.
func (s State) Normalize() State {
	if s.IsLoading {
		return LoadingState()
	}
	if !s.IsAuthenticated || s.User == nil {
		return AnonymousState()
	}
	s.ActiveRole = DeriveActiveRole(s.User.Roles)
	return s
}

// TokenPair is what the backend issues on login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
