package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusreg/studentreg/internal/app/models"
)

func testJWTService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    exp,
		TokenIssuer: "studentreg.test",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := testJWTService(time.Hour)
	user := &models.User{ID: 42, Role: models.RoleStudent}

	token, expiresIn, err := svc.GenerateToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "studentreg.test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := testJWTService(-time.Minute)
	token, _, err := svc.GenerateToken(&models.User{ID: 1, Role: models.RoleStudent})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWrongKey(t *testing.T) {
	token, _, err := testJWTService(time.Hour).GenerateToken(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "different-secret", TokenExp: time.Hour})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := testJWTService(time.Hour)

	_, err := svc.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestClaimsUserIDRejectsBadSubject(t *testing.T) {
	for _, subject := range []string{"", "abc", "-5", "0"} {
		claims := &Claims{}
		claims.Subject = subject
		_, err := claims.UserID()
		assert.ErrorIs(t, err, ErrInvalidToken, "subject %q", subject)
	}
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	for _, header := range []string{"", "abc123", "bearer abc123", "Basic abc123"} {
		_, err := ExtractBearerToken(header)
		assert.ErrorIs(t, err, ErrInvalidFormat, "header %q", header)
	}
}
