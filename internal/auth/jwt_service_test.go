package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_DeviceTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret")
	id := NewDeviceID()

	token, err := svc.GenerateDeviceToken(id)
	require.NoError(t, err)

	claims, err := svc.ValidateDeviceToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.DeviceID)
}

func TestJWTService_RejectsForeignTokens(t *testing.T) {
	svc := NewJWTService("test-secret")

	other, err := NewJWTService("other-secret").GenerateDeviceToken("d1")
	require.NoError(t, err)
	_, err = svc.ValidateDeviceToken(other)
	assert.Error(t, err, "wrong signature")

	noDevice, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"iss": deviceIssuer}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateDeviceToken(noDevice)
	assert.Error(t, err, "missing device id")

	_, err = svc.ValidateDeviceToken("garbage")
	assert.Error(t, err)
}

func TestJWTService_ExpiredDeviceToken(t *testing.T) {
	svc := NewJWTService("test-secret")
	svc.now = func() time.Time { return time.Now().Add(-2 * DeviceTokenExpiry) }

	token, err := svc.GenerateDeviceToken("d1")
	require.NoError(t, err)

	_, err = NewJWTService("test-secret").ValidateDeviceToken(token)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()
	sign := func(claims jwt.MapClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("api-key"))
		require.NoError(t, err)
		return s
	}

	assert.True(t, TokenExpired(sign(jwt.MapClaims{"exp": now.Add(-time.Minute).Unix()}), now))
	assert.False(t, TokenExpired(sign(jwt.MapClaims{"exp": now.Add(time.Hour).Unix()}), now))
	assert.False(t, TokenExpired(sign(jwt.MapClaims{"id": "u1"}), now), "no exp claim")
	assert.False(t, TokenExpired("opaque-session-token", now))
	assert.False(t, TokenExpired("", now))
}
