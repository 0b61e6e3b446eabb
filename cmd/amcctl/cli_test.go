package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"amc-backend/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "--storage", "memory"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSeedCommand(t *testing.T) {
	out, err := run(t, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 4 customers")
}

func TestCustomersCommandEmpty(t *testing.T) {
	out, err := run(t, "customers")
	require.NoError(t, err)
	assert.Contains(t, out, "CUSTOMER")
}

func TestReportCommand(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "report.xlsx")
	out, err := run(t, "report", "--format", "xlsx", "--out", dest, "--seed")
	require.NoError(t, err)
	assert.Contains(t, out, "5 branches")

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestReportCommandRejectsFormat(t *testing.T) {
	_, err := run(t, "report", "--format", "csv")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestHashPasswordCommand(t *testing.T) {
	out, err := run(t, "hash-password", "s3cret")
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword(strings.TrimSpace(out), "s3cret"))
}

func TestTOTPSecretCommand(t *testing.T) {
	out, err := run(t, "totp-secret", "ops@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "otpauth://totp/")
}

func TestResetNeedsConfirmation(t *testing.T) {
	_, err := run(t, "reset")
	assert.ErrorContains(t, err, "--yes")
}
