package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return raw
}

func TestDecodeTokenRoleArray(t *testing.T) {
	raw := signed(t, jwt.MapClaims{
		"sub":  "alice",
		"role": []string{"ROLE_ADMIN", "ROLE_USER"},
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	user, exp, err := decodeToken(raw)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "ROLE_ADMIN", user.Role)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)
}

func TestDecodeTokenRoleString(t *testing.T) {
	// Older backend snapshots emit a single string role.
	raw := signed(t, jwt.MapClaims{
		"sub":  "alice",
		"role": "ROLE_USER",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	user, _, err := decodeToken(raw)
	require.NoError(t, err)
	require.Equal(t, "ROLE_USER", user.Role)
}

func TestDecodeTokenExpired(t *testing.T) {
	raw := signed(t, jwt.MapClaims{
		"sub":  "alice",
		"role": "ROLE_USER",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	})

	_, _, err := decodeToken(raw)
	require.ErrorIs(t, err, errTokenExpired)
}

func TestDecodeTokenMissingSubject(t *testing.T) {
	raw := signed(t, jwt.MapClaims{
		"role": "ROLE_USER",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	_, _, err := decodeToken(raw)
	require.Error(t, err)
}

func TestDecodeTokenGarbage(t *testing.T) {
	_, _, err := decodeToken("not-a-jwt")
	require.Error(t, err)
}
