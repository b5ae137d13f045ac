package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.svc.Users.Register(ctx, " s001 ", "secret-pass", "Asha Rao", models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, "s001", user.UserID)
	assert.NotEqual(t, "secret-pass", user.PasswordHash)

	got, err := env.svc.Users.Authenticate(ctx, "s001", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", got.DisplayName)
	assert.Equal(t, models.RoleStudent, got.Role)

	_, err = env.svc.Users.Authenticate(ctx, "s001", "wrong-pass")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.svc.Users.Authenticate(ctx, "nobody", "secret-pass")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = env.svc.Users.Register(ctx, "s001", "another-pass", "Someone", models.RoleStudent)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateKey))
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.Users.Register(ctx, "s002", "abc", "Short", models.RoleStudent)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = env.svc.Users.Register(ctx, "s002", "long-enough", "Registrar", models.Role("registrar"))
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = env.svc.Users.Register(ctx, "  ", "long-enough", "Blank", models.RoleAdmin)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.svc.Users.ChangePassword(ctx, "admin", "wrong", "new-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	err = env.svc.Users.ChangePassword(ctx, "admin", "admin123", "x")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	require.NoError(t, env.svc.Users.ChangePassword(ctx, "admin", "admin123", "new-password"))

	_, err = env.svc.Users.Authenticate(ctx, "admin", "admin123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = env.svc.Users.Authenticate(ctx, "admin", "new-password")
	assert.NoError(t, err)
}
