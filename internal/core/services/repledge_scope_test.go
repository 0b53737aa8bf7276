package services

import (
	"testing"

	"goldloan-ledger/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScope(t *testing.T) {
	admin := &domain.Principal{ID: "u-1", Username: "admin", Role: domain.RoleAdmin}
	clerk := &domain.Principal{ID: "u-2", Username: "clerk", Role: domain.RoleBranchUser}
	branch := &domain.Branch{ID: "br-1", Name: "Head Office"}

	t.Run("admin with branch is unrestricted", func(t *testing.T) {
		scope, err := ResolveScope(admin, branch)
		require.NoError(t, err)
		assert.False(t, scope.IsRestricted())
		assert.Nil(t, scope.BranchFilter())
	})

	t.Run("admin without branch is unrestricted", func(t *testing.T) {
		scope, err := ResolveScope(admin, nil)
		require.NoError(t, err)
		assert.Equal(t, domain.Unrestricted(), scope)
	})

	t.Run("branch user is restricted", func(t *testing.T) {
		scope, err := ResolveScope(clerk, branch)
		require.NoError(t, err)
		assert.True(t, scope.IsRestricted())
		require.NotNil(t, scope.BranchFilter())
		assert.Equal(t, "br-1", *scope.BranchFilter())
		assert.True(t, scope.Allows("br-1"))
		assert.False(t, scope.Allows("br-2"))
	})

	t.Run("branch user without branch", func(t *testing.T) {
		_, err := ResolveScope(clerk, nil)
		assert.ErrorIs(t, err, domain.ErrScopeUnavailable)

		_, err = ResolveScope(clerk, &domain.Branch{})
		assert.ErrorIs(t, err, domain.ErrScopeUnavailable)
	})

	t.Run("no principal", func(t *testing.T) {
		_, err := ResolveScope(nil, branch)
		assert.ErrorIs(t, err, domain.ErrScopeUnavailable)
	})

	t.Run("unknown role never widens", func(t *testing.T) {
		p := &domain.Principal{ID: "u-3", Role: domain.ParseRole("SUPERVISOR")}
		scope, err := ResolveScope(p, branch)
		require.NoError(t, err)
		assert.True(t, scope.IsRestricted())
	})
}

func TestScope_ZeroValueIsInvalid(t *testing.T) {
	var zero domain.Scope

	assert.False(t, zero.Valid())
	assert.ErrorIs(t, zero.Check(), domain.ErrScopeUnavailable)
	assert.NotEqual(t, domain.Unrestricted(), zero)
	assert.True(t, zero.IsRestricted())
	assert.False(t, zero.Allows("br-1"))
	assert.False(t, zero.Allows(""))
	require.NotNil(t, zero.BranchFilter())
	assert.Empty(t, *zero.BranchFilter())

	failed, err := ResolveScope(&domain.Principal{Role: domain.RoleBranchUser}, nil)
	require.ErrorIs(t, err, domain.ErrScopeUnavailable)
	assert.False(t, failed.Valid())

	assert.True(t, domain.Unrestricted().Valid())
	assert.True(t, domain.RestrictedTo("br-1").Valid())
	assert.False(t, domain.RestrictedTo("").Valid())
}
