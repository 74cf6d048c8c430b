// Package twofactor implements TOTP-based second-factor auth for admin
// accounts: secret provisioning with a QR code, token verification, and
// single-use backup codes.
package twofactor

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

const (
	backupCodeCount  = 10
	backupCodeLength = 8
)

// Setup is the provisioning material returned to the admin during 2FA setup.
type Setup struct {
	Secret         string
	ManualEntryKey string
	OtpauthURL     string
	QRCode         string // PNG data URL for authenticator apps
}

// Service generates and verifies TOTP material.
type Service struct {
	issuer string
}

// NewService creates a 2FA service. The issuer appears in authenticator apps.
func NewService(issuer string) *Service {
	if issuer == "" {
		issuer = "Seminar Registration"
	}
	return &Service{issuer: issuer}
}

// GenerateSecret creates a fresh TOTP secret plus QR provisioning data. The
// secret stays temporary until verified with a live token; backup codes are
// only issued once that verification succeeds.
func (s *Service) GenerateSecret(accountName string) (*Setup, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer,
		AccountName: accountName,
		SecretSize:  32,
	})
	if err != nil {
		return nil, fmt.Errorf("generate totp key: %w", err)
	}

	qr, err := qrDataURL(key)
	if err != nil {
		return nil, err
	}

	return &Setup{
		Secret:         key.Secret(),
		ManualEntryKey: key.Secret(),
		OtpauthURL:     key.URL(),
		QRCode:         qr,
	}, nil
}

// VerifyCode checks a 6-digit TOTP token against the secret. The underlying
// validator allows one time-step of skew.
func (s *Service) VerifyCode(code, secret string) bool {
	return totp.Validate(strings.TrimSpace(code), secret)
}

// GenerateBackupCodes returns 10 random 8-character recovery codes.
func GenerateBackupCodes() ([]string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codes := make([]string, 0, backupCodeCount)
	for i := 0; i < backupCodeCount; i++ {
		buf := make([]byte, backupCodeLength)
		if _, err := rand.Read(buf); err != nil {
			return nil, fmt.Errorf("generate backup code: %w", err)
		}
		var b strings.Builder
		for _, c := range buf {
			b.WriteByte(alphabet[int(c)%len(alphabet)])
		}
		codes = append(codes, b.String())
	}
	return codes, nil
}

// VerifyBackupCode checks a recovery code case-insensitively. On a match it
// returns the remaining codes with the used one removed; a code is never
// valid twice.
func VerifyBackupCode(code string, codes []string) (bool, []string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for i, c := range codes {
		if strings.ToUpper(c) == code {
			remaining := make([]string, 0, len(codes)-1)
			remaining = append(remaining, codes[:i]...)
			remaining = append(remaining, codes[i+1:]...)
			return true, remaining
		}
	}
	return false, codes
}

func qrDataURL(key *otp.Key) (string, error) {
	img, err := key.Image(200, 200)
	if err != nil {
		return "", fmt.Errorf("render qr image: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode qr png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
