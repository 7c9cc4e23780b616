package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parasports/idcard/internal/models"
)

func TestUserRegisterAndLogin(t *testing.T) {
	svc := NewUserService()

	user, err := svc.Register(&models.RegisterRequest{
		Email:    "Admin@Example.com",
		Password: "correct-horse",
		Name:     "Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	// Login is case-insensitive on email.
	got, err := svc.Login(&models.LoginRequest{Email: "ADMIN@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.Login(&models.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = svc.Login(&models.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRegisterDuplicateEmail(t *testing.T) {
	svc := NewUserService()

	_, err := svc.Register(&models.RegisterRequest{Email: "admin@example.com", Password: "pw-12345", Name: "A"})
	require.NoError(t, err)

	_, err = svc.Register(&models.RegisterRequest{Email: "admin@example.com", Password: "pw-12345", Name: "B"})
	assert.ErrorIs(t, err, ErrEmailExists)
}
