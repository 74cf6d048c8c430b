package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompt-future/backend/internal/models"
	"github.com/prompt-future/backend/internal/twofactor"
)

type fakeAccounts struct {
	admin         *models.AdminUser
	tempSecret    string
	tempSecretErr error
	enabledWith   []string
}

func (f *fakeAccounts) GetByID(context.Context, uuid.UUID) (*models.AdminUser, error) {
	return f.admin, nil
}
func (f *fakeAccounts) GetByUsername(context.Context, string) (*models.AdminUser, error) {
	return f.admin, nil
}
func (f *fakeAccounts) UpdateLastLogin(context.Context, uuid.UUID) error { return nil }
func (f *fakeAccounts) UpdateProfile(context.Context, uuid.UUID, string, string) error {
	return nil
}
func (f *fakeAccounts) UsernameTaken(context.Context, string, uuid.UUID) (bool, error) {
	return false, nil
}
func (f *fakeAccounts) EmailTaken(context.Context, string, uuid.UUID) (bool, error) {
	return false, nil
}
func (f *fakeAccounts) UpdatePassword(context.Context, uuid.UUID, string) error { return nil }
func (f *fakeAccounts) StoreTempSecret(context.Context, uuid.UUID, string) error {
	return nil
}
func (f *fakeAccounts) TempSecret(context.Context, uuid.UUID) (string, error) {
	return f.tempSecret, f.tempSecretErr
}
func (f *fakeAccounts) Enable2FA(_ context.Context, _ uuid.UUID, _ string, codes []string) error {
	f.enabledWith = codes
	return nil
}
func (f *fakeAccounts) Disable2FA(context.Context, uuid.UUID) error { return nil }
func (f *fakeAccounts) UpdateBackupCodes(context.Context, uuid.UUID, []string) error {
	return nil
}
func (f *fakeAccounts) Record2FAUsage(context.Context, uuid.UUID) error { return nil }

func verifySetupRequest(t *testing.T, store *fakeAccounts, token string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler := NewHandler(store, NewJWTService("secret", 24), twofactor.NewService("Test"), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/2fa/verify-setup",
		strings.NewReader(`{"token":"`+token+`"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("admin_id", uuid.New())

	handler.TwoFAVerifySetup(c)
	return w
}

func TestTwoFAVerifySetupEnables(t *testing.T) {
	svc := twofactor.NewService("Test")
	setup, err := svc.GenerateSecret("admin@example.com")
	require.NoError(t, err)
	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)

	store := &fakeAccounts{tempSecret: setup.Secret}
	w := verifySetupRequest(t, store, code)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, store.enabledWith, 10)
}

func TestTwoFAVerifySetupExpiredSession(t *testing.T) {
	store := &fakeAccounts{tempSecret: ""}
	w := verifySetupRequest(t, store, "123456")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Setup session expired")
	assert.Nil(t, store.enabledWith)
}

func TestTwoFAVerifySetupStoreFailureIsNotExpiry(t *testing.T) {
	store := &fakeAccounts{tempSecretErr: assert.AnError}
	w := verifySetupRequest(t, store, "123456")

	// A database failure must surface as a server error, not as an
	// expired setup session the admin would retry from scratch.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "Setup session expired")
}
