package auth

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prompt-future/backend/internal/twofactor"
	"github.com/prompt-future/backend/pkg/response"
)

// TwoFATokenRequest is the body for POST /admin/2fa/verify-setup.
type TwoFATokenRequest struct {
	Token string `json:"token" binding:"required,len=6"`
}

// TwoFAPasswordRequest is the body for disable and backup-code regeneration.
type TwoFAPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// TwoFAVerifyRequest is the body for the 2FA login path.
type TwoFAVerifyRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Token    string `json:"token" binding:"required,min=6,max=8"`
}

// TwoFAStatus handles GET /admin/2fa/status.
func (h *Handler) TwoFAStatus(c *gin.Context) {
	id, ok := adminID(c)
	if !ok {
		response.Unauthorized(c, "Missing admin context")
		return
	}
	admin, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Admin not found")
		return
	}
	response.OK(c, gin.H{
		"enabled":               admin.TwoFactorEnabled,
		"last_used":             admin.TwoFactorLastUsed,
		"backup_codes_remaining": len(admin.BackupCodes),
	})
}

// TwoFASetup handles POST /admin/2fa/setup. Generates a TOTP secret held as
// a temporary secret until verified; the setup window is 10 minutes.
func (h *Handler) TwoFASetup(c *gin.Context) {
	id, ok := adminID(c)
	if !ok {
		response.Unauthorized(c, "Missing admin context")
		return
	}
	admin, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Admin not found")
		return
	}
	if admin.TwoFactorEnabled {
		response.BadRequest(c, "2FA is already enabled. Disable it first to regenerate.")
		return
	}

	setup, err := h.twoFactor.GenerateSecret(admin.Email)
	if err != nil {
		h.logger.Error("2fa secret generation failed", zap.Error(err))
		response.Internal(c, "Failed to setup 2FA")
		return
	}
	if err := h.repo.StoreTempSecret(c.Request.Context(), id, setup.Secret); err != nil {
		h.logger.Error("store temp secret failed", zap.Error(err))
		response.Internal(c, "Failed to setup 2FA")
		return
	}

	response.OKMessage(c, "Scan the QR code with your authenticator app and verify with a token", gin.H{
		"qrCode":         setup.QRCode,
		"manualEntryKey": setup.ManualEntryKey,
		"otpauthUrl":     setup.OtpauthURL,
	})
}

// TwoFAVerifySetup handles POST /admin/2fa/verify-setup. Proves the
// authenticator holds the pending secret, then enables 2FA and issues
// backup codes.
func (h *Handler) TwoFAVerifySetup(c *gin.Context) {
	id, ok := adminID(c)
	if !ok {
		response.Unauthorized(c, "Missing admin context")
		return
	}
	var req TwoFATokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Token must be 6 digits")
		return
	}

	secret, err := h.repo.TempSecret(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("read temp secret failed", zap.Error(err))
		response.Internal(c, "Failed to verify 2FA setup")
		return
	}
	if secret == "" {
		response.BadRequest(c, "Setup session expired. Please start setup again.")
		return
	}
	if !h.twoFactor.VerifyCode(req.Token, secret) {
		response.BadRequest(c, "Invalid token. Please try again.")
		return
	}

	codes, err := twofactor.GenerateBackupCodes()
	if err != nil {
		response.Internal(c, "Failed to verify 2FA setup")
		return
	}
	if err := h.repo.Enable2FA(c.Request.Context(), id, secret, codes); err != nil {
		h.logger.Error("enable 2fa failed", zap.Error(err))
		response.Internal(c, "Failed to verify 2FA setup")
		return
	}

	response.OKMessage(c, "2FA enabled successfully. Save your backup codes in a safe place.", gin.H{
		"backupCodes": codes,
	})
}

// TwoFADisable handles POST /admin/2fa/disable. Requires the password.
func (h *Handler) TwoFADisable(c *gin.Context) {
	id, ok := adminID(c)
	if !ok {
		response.Unauthorized(c, "Missing admin context")
		return
	}
	var req TwoFAPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Password is required to disable 2FA")
		return
	}

	admin, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Admin not found")
		return
	}
	if !CheckPassword(req.Password, admin.PasswordHash) {
		response.BadRequest(c, "Invalid password")
		return
	}
	if !admin.TwoFactorEnabled {
		response.BadRequest(c, "2FA is not enabled")
		return
	}

	if err := h.repo.Disable2FA(c.Request.Context(), id); err != nil {
		h.logger.Error("disable 2fa failed", zap.Error(err))
		response.Internal(c, "Failed to disable 2FA")
		return
	}
	response.OKMessage(c, "2FA disabled successfully", nil)
}

// TwoFARegenerateBackupCodes handles POST /admin/2fa/regenerate-backup-codes.
func (h *Handler) TwoFARegenerateBackupCodes(c *gin.Context) {
	id, ok := adminID(c)
	if !ok {
		response.Unauthorized(c, "Missing admin context")
		return
	}
	var req TwoFAPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Password is required")
		return
	}

	admin, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Admin not found")
		return
	}
	if !CheckPassword(req.Password, admin.PasswordHash) {
		response.BadRequest(c, "Invalid password")
		return
	}
	if !admin.TwoFactorEnabled {
		response.BadRequest(c, "2FA is not enabled")
		return
	}

	codes, err := twofactor.GenerateBackupCodes()
	if err != nil {
		response.Internal(c, "Failed to regenerate backup codes")
		return
	}
	if err := h.repo.UpdateBackupCodes(c.Request.Context(), id, codes); err != nil {
		h.logger.Error("update backup codes failed", zap.Error(err))
		response.Internal(c, "Failed to regenerate backup codes")
		return
	}

	response.OKMessage(c, "Backup codes regenerated successfully. Save them in a safe place.", gin.H{
		"backupCodes": codes,
	})
}

// TwoFAVerify handles POST /admin/2fa/verify: the credential+TOTP login path.
// Accepts a 6-digit TOTP token or an 8-character single-use backup code.
func (h *Handler) TwoFAVerify(c *gin.Context) {
	var req TwoFAVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Username, password and a 6-8 character token are required")
		return
	}

	admin, err := h.repo.GetByUsername(c.Request.Context(), req.Username)
	if err != nil || !CheckPassword(req.Password, admin.PasswordHash) {
		response.Unauthorized(c, "Invalid credentials")
		return
	}
	if !admin.TwoFactorEnabled {
		response.BadRequest(c, "2FA is not enabled for this account")
		return
	}

	verified := false
	usedBackupCode := false
	remaining := admin.BackupCodes

	if len(req.Token) == 6 {
		verified = h.twoFactor.VerifyCode(req.Token, admin.TwoFactorSecret)
	}
	if !verified && len(req.Token) == 8 && len(admin.BackupCodes) > 0 {
		if ok, rest := twofactor.VerifyBackupCode(req.Token, admin.BackupCodes); ok {
			verified = true
			usedBackupCode = true
			remaining = rest
			if err := h.repo.UpdateBackupCodes(c.Request.Context(), admin.ID, rest); err != nil {
				h.logger.Error("consume backup code failed", zap.Error(err))
				response.Internal(c, "Failed to verify 2FA")
				return
			}
		}
	}

	if !verified {
		response.Unauthorized(c, "Invalid 2FA token")
		return
	}

	if err := h.repo.Record2FAUsage(c.Request.Context(), admin.ID); err != nil {
		h.logger.Warn("record 2fa usage failed", zap.Error(err))
	}

	token, err := h.jwt.Generate(admin.ID, admin.Username, admin.Role)
	if err != nil {
		response.Internal(c, "Failed to verify 2FA")
		return
	}

	data := gin.H{
		"token":          token,
		"admin":          admin.ToPublic(),
		"usedBackupCode": usedBackupCode,
	}
	if usedBackupCode {
		data["remainingBackupCodes"] = len(remaining)
	}
	response.OKMessage(c, "2FA verification successful", data)
}
