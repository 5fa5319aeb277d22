package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRoundTrip(t *testing.T) {
	require.NoError(t, Init(time.Hour))

	playerID, roomID := uuid.New(), uuid.New()
	token, err := CreateSessionToken(playerID, roomID)
	require.NoError(t, err)

	sess, err := AuthenticateSession(token)
	require.NoError(t, err)
	assert.Equal(t, playerID, sess.PlayerID)
	assert.Equal(t, roomID, sess.RoomID)
}

func TestExpiredSessionIsRejected(t *testing.T) {
	require.NoError(t, Init(0))
	claims := sessionClaims{
		RoomID: uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(privateKey)
	require.NoError(t, err)

	_, err = AuthenticateSession(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestSessionFromOtherKeyIsRejected(t *testing.T) {
	require.NoError(t, Init(time.Hour))
	token, err := CreateSessionToken(uuid.New(), uuid.New())
	require.NoError(t, err)

	require.NoError(t, Init(time.Hour))
	_, err = AuthenticateSession(token)
	assert.Error(t, err)
}

func TestGarbageTokenIsRejected(t *testing.T) {
	require.NoError(t, Init(0))
	_, err := AuthenticateSession("not-a-token")
	assert.Error(t, err)
}
