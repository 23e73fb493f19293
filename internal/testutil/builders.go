// Package testutil provides testing utilities and helpers for lingua-web.
package testutil

import (
	domainauth "github.com/lingua-labs/lingua-web/internal/domain/auth"
)

// UserBuilder provides a fluent interface for building auth.User values for testing.
type UserBuilder struct {
	u domainauth.User
}

// NewUser creates a UserBuilder for an active, onboarded learner.
func NewUser() *UserBuilder {
	level := "B1"
	return &UserBuilder{
		u: domainauth.User{
			ID:          "user-1",
			Email:       "learner@example.com",
			Status:      domainauth.StatusActive,
			Roles:       []domainauth.Role{{Name: domainauth.RoleUser}},
			Proficiency: &level,
		},
	}
}

// WithID sets the user id.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.u.ID = id
	return b
}

// WithEmail sets the email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.u.Email = email
	return b
}

// WithStatus sets the account status.
func (b *UserBuilder) WithStatus(s domainauth.Status) *UserBuilder {
	b.u.Status = s
	return b
}

// WithRoles replaces the role set.
func (b *UserBuilder) WithRoles(names ...domainauth.RoleName) *UserBuilder {
	b.u.Roles = make([]domainauth.Role, 0, len(names))
	for _, n := range names {
		b.u.Roles = append(b.u.Roles, domainauth.Role{Name: n})
	}
	return b
}

// WithoutProficiency clears the onboarding marker.
func (b *UserBuilder) WithoutProficiency() *UserBuilder {
	b.u.Proficiency = nil
	return b
}

// Build returns the constructed user.
func (b *UserBuilder) Build() domainauth.User {
	u := b.u
	u.Roles = append([]domainauth.Role(nil), b.u.Roles...)
	return u
}

// BuildPtr returns a pointer to a copy of the constructed user.
func (b *UserBuilder) BuildPtr() *domainauth.User {
	u := b.Build()
	return &u
}
