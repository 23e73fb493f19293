package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDeriveActiveRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []Role
		want  RoleName
	}{
		{name: "admin and user", roles: []Role{{Name: RoleUser}, {Name: RoleAdmin}}, want: RoleAdmin},
		{name: "user only", roles: []Role{{Name: RoleUser}}, want: RoleUser},
		{name: "staff only falls back to learner", roles: []Role{{Name: RoleStaff}}, want: RoleUser},
		{name: "no roles", roles: nil, want: RoleUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveActiveRole(tt.roles))
		})
	}
}

func TestState_Normalize(t *testing.T) {
	t.Run("authenticated without user", func(t *testing.T) {
		s := State{IsAuthenticated: true, ActiveRole: RoleAdmin}.Normalize()
		assert.False(t, s.IsAuthenticated)
		assert.Nil(t, s.User)
		assert.Empty(t, s.ActiveRole)
	})

	t.Run("user without flag", func(t *testing.T) {
		s := State{User: &User{ID: "u1"}}.Normalize()
		assert.False(t, s.IsAuthenticated)
		assert.Nil(t, s.User)
	})

	t.Run("loading wins", func(t *testing.T) {
		s := State{IsLoading: true, IsAuthenticated: true}.Normalize()
		assert.True(t, s.IsLoading)
		assert.False(t, s.IsAuthenticated)
	})

	t.Run("consistent state recomputes role", func(t *testing.T) {
		u := User{ID: "u1", Roles: []Role{{Name: RoleAdmin}}}
		s := State{User: &u, IsAuthenticated: true, ActiveRole: RoleUser}.Normalize()
		assert.True(t, s.IsAuthenticated)
		assert.Equal(t, RoleAdmin, s.ActiveRole)
	})
}

func TestAuthenticatedState(t *testing.T) {
	s := AuthenticatedState(User{ID: "u1", Roles: []Role{{Name: RoleUser}}})
	require.NotNil(t, s.User)
	assert.True(t, s.IsAuthenticated)
	assert.False(t, s.IsLoading)
	assert.Equal(t, RoleUser, s.ActiveRole)
}

func TestUser_HasProficiency(t *testing.T) {
	assert.False(t, User{}.HasProficiency())
	assert.False(t, User{Proficiency: strPtr("  ")}.HasProficiency())
	assert.True(t, User{Proficiency: strPtr("B1")}.HasProficiency())
}

func TestStatus_UnmarshalText(t *testing.T) {
	var s Status
	require.NoError(t, s.UnmarshalText([]byte("inactive")))
	assert.Equal(t, StatusInactive, s)
	require.Error(t, s.UnmarshalText([]byte("pending")))
}
