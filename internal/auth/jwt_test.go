package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offboard/offboard/internal/auth"
)

func TestService_GenerateAndValidateAccessToken(t *testing.T) {
	svc := auth.NewService(auth.Config{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.offboard.dev",
		Audience:   "offboard-api",
	})

	// Generate token
	token, expiresAt, err := svc.GenerateAccessToken("acc_test123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	// Validate token
	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acc_test123", claims.AccountID)
	assert.Equal(t, "acc_test123", claims.Subject)
	assert.Equal(t, "https://api.offboard.dev", claims.Issuer)
	assert.False(t, claims.HasScope(auth.ScopeAdmin))
}

func TestService_AdminScope(t *testing.T) {
	svc := auth.NewService(auth.Config{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.offboard.dev",
		Audience:   "offboard-api",
	})

	token, _, err := svc.GenerateAccessToken("acc_ops", auth.ScopeAdmin)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.True(t, claims.HasScope(auth.ScopeAdmin))
}

func TestService_InvalidToken(t *testing.T) {
	svc := auth.NewService(auth.Config{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.offboard.dev",
		Audience:   "offboard-api",
	})

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"malformed token", "not.a.valid.jwt"},
		{"invalid base64", "xxx.yyy.zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateAccessToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestService_WrongSigningKey(t *testing.T) {
	// Generate with one key
	svc1 := auth.NewService(auth.Config{
		SigningKey: "key-one",
		Issuer:     "https://api.offboard.dev",
		Audience:   "offboard-api",
	})

	token, _, err := svc1.GenerateAccessToken("acc_test123")
	require.NoError(t, err)

	// Validate with different key
	svc2 := auth.NewService(auth.Config{
		SigningKey: "key-two",
		Issuer:     "https://api.offboard.dev",
		Audience:   "offboard-api",
	})

	_, err = svc2.ValidateAccessToken(token)
	assert.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrInvalidAccessToken)
}

func TestService_WrongIssuer(t *testing.T) {
	// Generate with one issuer
	svc1 := auth.NewService(auth.Config{
		SigningKey: "test-key",
		Issuer:     "issuer-one",
		Audience:   "offboard-api",
	})

	token, _, err := svc1.GenerateAccessToken("acc_test123")
	require.NoError(t, err)

	// Validate with different issuer
	svc2 := auth.NewService(auth.Config{
		SigningKey: "test-key",
		Issuer:     "issuer-two",
		Audience:   "offboard-api",
	})

	_, err = svc2.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestService_WrongAudience(t *testing.T) {
	// Generate with one audience
	svc1 := auth.NewService(auth.Config{
		SigningKey: "test-key",
		Issuer:     "https://api.offboard.dev",
		Audience:   "audience-one",
	})

	token, _, err := svc1.GenerateAccessToken("acc_test123")
	require.NoError(t, err)

	// Validate with different audience
	svc2 := auth.NewService(auth.Config{
		SigningKey: "test-key",
		Issuer:     "https://api.offboard.dev",
		Audience:   "audience-two",
	})

	_, err = svc2.ValidateAccessToken(token)
	assert.Error(t, err)
}
