package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userDomain "github.com/gegcuk/kidsgpt-backend/internal/user/domain"
)

func TestPrincipalResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ByUsername", func(t *testing.T) {
		users := &mockUserReader{}
		resolver := NewPrincipalResolver(users)
		user := newActiveUser("alice")

		users.On("GetByUsername", ctx, "alice").Return(user, nil)
		users.On("ListRoleNames", ctx, user.ID).Return([]string{userDomain.RoleParent}, nil)

		principal, err := resolver.Resolve(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, principal.UserID)
		assert.Equal(t, "alice", principal.Username)
		assert.Equal(t, []string{userDomain.RoleParent}, principal.Authorities)
		users.AssertNotCalled(t, "GetByEmail", ctx, "alice")
	})

	t.Run("Success_FallsBackToEmail", func(t *testing.T) {
		users := &mockUserReader{}
		resolver := NewPrincipalResolver(users)
		user := newActiveUser("alice")

		users.On("GetByUsername", ctx, "Alice@Example.com").Return(nil, userDomain.ErrUserNotFound)
		users.On("GetByEmail", ctx, "alice@example.com").Return(user, nil)
		users.On("ListRoleNames", ctx, user.ID).Return([]string{}, nil)

		principal, err := resolver.Resolve(ctx, "Alice@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", principal.Username)
		assert.Empty(t, principal.Authorities)
	})

	t.Run("Success_ReadsRolesEveryTime", func(t *testing.T) {
		users := &mockUserReader{}
		resolver := NewPrincipalResolver(users)
		user := newActiveUser("alice")

		users.On("GetByUsername", ctx, "alice").Return(user, nil)
		users.On("ListRoleNames", ctx, user.ID).Return([]string{userDomain.RoleAdmin}, nil).Once()
		users.On("ListRoleNames", ctx, user.ID).Return([]string{userDomain.RoleChild}, nil).Once()

		first, err := resolver.Resolve(ctx, "alice")
		require.NoError(t, err)
		second, err := resolver.Resolve(ctx, "alice")
		require.NoError(t, err)

		assert.True(t, first.HasAuthority(userDomain.RoleAdmin))
		assert.False(t, second.HasAuthority(userDomain.RoleAdmin))
		assert.True(t, second.HasAuthority(userDomain.RoleChild))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		users := &mockUserReader{}
		resolver := NewPrincipalResolver(users)

		users.On("GetByUsername", ctx, "ghost").Return(nil, userDomain.ErrUserNotFound)
		users.On("GetByEmail", ctx, "ghost").Return(nil, userDomain.ErrUserNotFound)

		principal, err := resolver.Resolve(ctx, "ghost")
		assert.Nil(t, principal)
		assert.ErrorIs(t, err, userDomain.ErrUserNotFound)
	})

	t.Run("Error_Empty", func(t *testing.T) {
		users := &mockUserReader{}
		resolver := NewPrincipalResolver(users)

		_, err := resolver.Resolve(ctx, "")
		assert.ErrorIs(t, err, userDomain.ErrUserNotFound)
		users.AssertNotCalled(t, "GetByUsername", ctx, "")
	})

	t.Run("Error_InactiveOrDeleted", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*userDomain.User)
		}{
			{"inactive", func(u *userDomain.User) { u.IsActive = false }},
			{"deleted", func(u *userDomain.User) { u.IsDeleted = true }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				users := &mockUserReader{}
				resolver := NewPrincipalResolver(users)
				user := newActiveUser("alice")
				tt.mutate(user)

				users.On("GetByUsername", ctx, "alice").Return(user, nil)

				_, err := resolver.Resolve(ctx, "alice")
				assert.ErrorIs(t, err, userDomain.ErrUserNotFound)
			})
		}
	})

	t.Run("Error_StorageNotMaskedAsNotFound", func(t *testing.T) {
		users := &mockUserReader{}
		resolver := NewPrincipalResolver(users)
		dbErr := errors.New("connection reset")

		users.On("GetByUsername", ctx, "alice").Return(nil, dbErr)

		_, err := resolver.Resolve(ctx, "alice")
		assert.ErrorIs(t, err, dbErr)
		users.AssertNotCalled(t, "GetByEmail", ctx, "alice")
	})
}
