package auth

import (
	"strings"
	"testing"
	"time"

	"amc-backend/internal/apperr"
	"amc-backend/internal/config"
	"amc-backend/internal/models"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "amc-backend"
	cfg.JWT.ExpirationHours = 1
	return cfg
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())
	admin := &models.AdminAccount{Name: "Ops", Email: "ops@example.com"}

	token, err := m.GenerateToken(admin)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@example.com", claims.Email)
	assert.Equal(t, "Ops", claims.Name)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	m := NewJWTManager(testConfig())
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	expired, err := m.GenerateToken(&models.AdminAccount{Email: "ops@example.com"})
	require.NoError(t, err)
	_, err = m.ValidateToken(expired)
	assert.Error(t, err)

	other := testConfig()
	other.JWT.Secret = "someone-else"
	foreign, err := NewJWTManager(other).GenerateToken(&models.AdminAccount{Email: "ops@example.com"})
	require.NoError(t, err)
	_, err = NewJWTManager(testConfig()).ValidateToken(foreign)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("12345678")
	require.NoError(t, err)
	assert.NotEqual(t, "12345678", hash)
	assert.True(t, VerifyPassword(hash, "12345678"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("", "12345678"))
}

func TestHashPasswordRejectsUnusablePasswords(t *testing.T) {
	_, err := HashPassword("")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestValidateTOTP(t *testing.T) {
	secret, url, err := GenerateTOTPSecret("AMC Console", "ops@example.com")
	require.NoError(t, err)
	assert.Contains(t, url, "otpauth://totp/")

	now := time.Now()
	code, err := totp.GenerateCode(secret, now)
	require.NoError(t, err)

	assert.True(t, ValidateTOTP(secret, code, now))
	assert.False(t, ValidateTOTP(secret, code, now.Add(10*time.Minute)))
	assert.False(t, ValidateTOTP("", code, now))
	assert.False(t, ValidateTOTP(secret, "", now))
}
