package twofactor

import (
	"strings"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	svc := NewService("Test Issuer")
	setup, err := svc.GenerateSecret("admin@example.com")
	require.NoError(t, err)

	assert.NotEmpty(t, setup.Secret)
	assert.Equal(t, setup.Secret, setup.ManualEntryKey)
	assert.Contains(t, setup.OtpauthURL, "otpauth://totp/")
	assert.Contains(t, setup.OtpauthURL, "Test%20Issuer")
	assert.True(t, strings.HasPrefix(setup.QRCode, "data:image/png;base64,"))
}

func TestVerifyCode(t *testing.T) {
	svc := NewService("")
	setup, err := svc.GenerateSecret("admin@example.com")
	require.NoError(t, err)

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	assert.True(t, svc.VerifyCode(code, setup.Secret))
	assert.True(t, svc.VerifyCode(" "+code+" ", setup.Secret), "surrounding whitespace is tolerated")
	assert.False(t, svc.VerifyCode("000000", setup.Secret))
	assert.False(t, svc.VerifyCode(code, "JBSWY3DPEHPK3PXP"), "code for another secret")
}

func TestGenerateBackupCodes(t *testing.T) {
	codes, err := GenerateBackupCodes()
	require.NoError(t, err)
	require.Len(t, codes, 10)

	seen := make(map[string]bool)
	for _, c := range codes {
		assert.Len(t, c, 8)
		assert.False(t, seen[c], "codes must be distinct")
		seen[c] = true
	}
}

func TestVerifyBackupCodeSingleUse(t *testing.T) {
	codes := []string{"AAAA1111", "BBBB2222", "CCCC3333"}

	ok, remaining := VerifyBackupCode("bbbb2222", codes)
	assert.True(t, ok, "match is case-insensitive")
	assert.Equal(t, []string{"AAAA1111", "CCCC3333"}, remaining)

	ok, remaining = VerifyBackupCode("BBBB2222", remaining)
	assert.False(t, ok, "a used code is never valid twice")
	assert.Len(t, remaining, 2)

	ok, _ = VerifyBackupCode("ZZZZ9999", codes)
	assert.False(t, ok)
}
