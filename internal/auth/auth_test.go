package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, expiry time.Duration) *Service {
	t.Helper()
	svc, err := NewService("admin", "1234", "test-secret", expiry)
	require.NoError(t, err)
	return svc
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestService(t, time.Hour)

	token, err := svc.Login("admin", "1234")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("root", "1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := newTestService(t, -time.Minute)

	token, err := svc.Login("admin", "1234")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	svc := newTestService(t, time.Hour)
	other, err := NewService("admin", "1234", "other-secret", time.Hour)
	require.NoError(t, err)

	token, err := other.Login("admin", "1234")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
