package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/services"
)

func TestAuthService_Login(t *testing.T) {
	auth, err := services.NewAuthService("admin", "admin123")
	require.NoError(t, err)

	op, err := auth.Login(" Admin ", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", op.Username)

	_, err = auth.Login("admin", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	_, err = auth.Login("someone", "admin123")
	assert.ErrorIs(t, err, services.ErrBadCreds)
}
