package authentication

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSessionRoundTrip(t *testing.T) {
	keyring.MockInit()

	err := StoreSession(&StoredSession{
		Token:  "tok-abc",
		UserID: "user-1",
		Email:  "viewer@example.com",
	})
	require.NoError(t, err)

	session, err := GetSession()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", session.Token)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "viewer@example.com", session.Email)
	assert.NotEmpty(t, session.DeviceID, "device id is generated on first store")
}

func TestStoreSessionKeepsExistingDeviceID(t *testing.T) {
	keyring.MockInit()

	require.NoError(t, StoreSession(&StoredSession{Token: "tok", UserID: "u", DeviceID: "device-1"}))

	session, err := GetSession()
	require.NoError(t, err)
	assert.Equal(t, "device-1", session.DeviceID)
}

func TestDeleteSession(t *testing.T) {
	keyring.MockInit()

	require.NoError(t, StoreSession(&StoredSession{Token: "tok", UserID: "u"}))
	require.NoError(t, DeleteSession())

	_, err := GetSession()
	assert.Error(t, err)
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenExpired(t *testing.T) {
	expired := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	assert.True(t, TokenExpired(expired))

	valid := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	assert.False(t, TokenExpired(valid))
}

func TestTokenExpiredLenientOnMalformedTokens(t *testing.T) {
	// Unparseable or exp-less tokens still get an auth-session attempt.
	assert.False(t, TokenExpired("not-a-jwt"))

	noExp := signedToken(t, jwt.MapClaims{"sub": "user-1"})
	assert.False(t, TokenExpired(noExp))
}
