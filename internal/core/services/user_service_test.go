package services

import (
	"context"
	"testing"

	"libtrack/internal/adapters/persistence/repositories"
	"libtrack/internal/config"
	"libtrack/internal/pkg/pagination"
	"libtrack/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetUserRole(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(repositories.NewUserRepository(db), repositories.NewRefreshTokenRepository(db))
	ctx := context.Background()

	userID := testutil.SeedUser(t, db, "reader@example.org", false)

	user, err := svc.SetUserRole(ctx, userID, true)
	require.NoError(t, err)
	assert.True(t, user.IsAdmin)

	user, err = svc.SetUserRole(ctx, userID, false)
	require.NoError(t, err)
	assert.False(t, user.IsAdmin)

	_, err = svc.SetUserRole(ctx, 9999, true)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	db := testutil.NewDB(t)
	userRepo := repositories.NewUserRepository(db)
	tokenRepo := repositories.NewRefreshTokenRepository(db)
	userSvc := NewUserService(userRepo, tokenRepo)
	authSvc := NewAuthService(userRepo, tokenRepo, &config.Config{
		AppMode: "dev",
		JWT: config.JWTConfig{
			Secret:           "s",
			RefreshSecret:    "r",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	})
	ctx := context.Background()

	registered, err := authSvc.Register(ctx, &RegisterInput{
		Name: "Ada", Surname: "Lovelace", Email: "ada@example.org", Password: "correct-horse",
	})
	require.NoError(t, err)

	err = userSvc.ChangePassword(ctx, registered.User.ID, &ChangePasswordInput{
		CurrentPassword: "wrong",
		NewPassword:     "battery-staple",
	})
	assert.ErrorIs(t, err, ErrWrongPassword)

	err = userSvc.ChangePassword(ctx, registered.User.ID, &ChangePasswordInput{
		CurrentPassword: "correct-horse",
		NewPassword:     "battery-staple",
	})
	require.NoError(t, err)

	// Existing refresh tokens no longer work
	_, err = authSvc.RefreshToken(ctx, registered.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	// New credentials do
	_, err = authSvc.Login(ctx, &LoginInput{Email: "ada@example.org", Password: "battery-staple"})
	require.NoError(t, err)
	_, err = authSvc.Login(ctx, &LoginInput{Email: "ada@example.org", Password: "correct-horse"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestListUsersPagination(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(repositories.NewUserRepository(db), repositories.NewRefreshTokenRepository(db))
	ctx := context.Background()

	testutil.SeedUser(t, db, "a@example.org", false)
	testutil.SeedUser(t, db, "b@example.org", false)
	testutil.SeedUser(t, db, "c@example.org", true)

	users, total, err := svc.ListUsers(ctx, &pagination.Params{Page: 1, Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, users, 2)

	users, _, err = svc.ListUsers(ctx, &pagination.Params{Page: 2, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
