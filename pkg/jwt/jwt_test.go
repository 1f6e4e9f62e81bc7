package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", "catalog", time.Hour)

	token, err := m.GenerateAccessToken("john", []string{"employee", "customer"})
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "john", claims.Username())
	assert.True(t, claims.HasRole("employee"))
	assert.False(t, claims.HasRole("admin"))
}

func TestManager_RejectsForeignTokens(t *testing.T) {
	m := NewManager("secret", "catalog", time.Hour)

	tests := []struct {
		name   string
		issuer *Manager
	}{
		{"wrong secret", NewManager("other-secret", "catalog", time.Hour)},
		{"wrong issuer", NewManager("secret", "somebody-else", time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tt.issuer.GenerateAccessToken("john", []string{"employee"})
			require.NoError(t, err)

			_, err = m.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}

func TestManager_RejectsExpiredToken(t *testing.T) {
	m := NewManager("secret", "", time.Hour)

	claims := Claims{
		PreferredUsername: "john",
		RegisteredClaims: gojwt.RegisteredClaims{
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestManager_RejectsTokenWithoutExpiry(t *testing.T) {
	m := NewManager("secret", "", time.Hour)

	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, Claims{PreferredUsername: "john"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestManager_RejectsTokenWithoutUsername(t *testing.T) {
	m := NewManager("secret", "", time.Hour)

	token, err := m.GenerateAccessToken("", nil)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.Error(t, err)
}

func TestClaims_UsernameFallsBackToSubject(t *testing.T) {
	claims := Claims{RegisteredClaims: gojwt.RegisteredClaims{Subject: "svc-importer"}}
	assert.Equal(t, "svc-importer", claims.Username())
}
