package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prompt-future/backend/internal/models"
	"github.com/prompt-future/backend/internal/twofactor"
	"github.com/prompt-future/backend/pkg/response"
)

// AccountStore is the persistence surface the auth handlers need.
type AccountStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	UpdateProfile(ctx context.Context, id uuid.UUID, username, email string) error
	UsernameTaken(ctx context.Context, username string, excludeID uuid.UUID) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	StoreTempSecret(ctx context.Context, id uuid.UUID, secret string) error
	TempSecret(ctx context.Context, id uuid.UUID) (string, error)
	Enable2FA(ctx context.Context, id uuid.UUID, secret string, backupCodes []string) error
	Disable2FA(ctx context.Context, id uuid.UUID) error
	UpdateBackupCodes(ctx context.Context, id uuid.UUID, codes []string) error
	Record2FAUsage(ctx context.Context, id uuid.UUID) error
}

// LoginRequest is the body for POST /admin/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is the body for PUT /admin/profile.
type UpdateProfileRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
}

// ChangePasswordRequest is the body for PUT /admin/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// Handler handles admin authentication and account endpoints.
type Handler struct {
	repo      AccountStore
	jwt       *JWTService
	twoFactor *twofactor.Service
	logger    *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo AccountStore, jwt *JWTService, tf *twofactor.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, jwt: jwt, twoFactor: tf, logger: logger}
}

// adminID pulls the authenticated admin's ID from the gin context.
func adminID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("admin_id")
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Login handles POST /admin/login. When 2FA is enabled the token is still
// issued (password remains the primary factor, matching the dashboard flow);
// the response carries a requires_2fa hint so clients can route through
// POST /admin/2fa/verify instead.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Username and password are required")
		return
	}

	admin, err := h.repo.GetByUsername(c.Request.Context(), req.Username)
	if err != nil || !CheckPassword(req.Password, admin.PasswordHash) {
		response.Unauthorized(c, "Invalid credentials")
		return
	}

	if err := h.repo.UpdateLastLogin(c.Request.Context(), admin.ID); err != nil {
		h.logger.Warn("update last_login failed", zap.Error(err))
	}

	token, err := h.jwt.Generate(admin.ID, admin.Username, admin.Role)
	if err != nil {
		response.Internal(c, "Login failed")
		return
	}

	response.OKMessage(c, "Login successful", gin.H{
		"token":        token,
		"admin":        admin.ToPublic(),
		"requires_2fa": admin.TwoFactorEnabled,
	})
}

// Profile handles GET /admin/profile.
func (h *Handler) Profile(c *gin.Context) {
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
	response.OK(c, admin.ToPublic())
}

// UpdateProfile handles PUT /admin/profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := adminID(c)
	if !ok {
		response.Unauthorized(c, "Missing admin context")
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Username must be 3-50 characters and email must be valid")
		return
	}

	if taken, err := h.repo.UsernameTaken(c.Request.Context(), req.Username, id); err != nil {
		response.Internal(c, "Failed to update profile")
		return
	} else if taken {
		response.BadRequest(c, "Username already exists")
		return
	}
	if taken, err := h.repo.EmailTaken(c.Request.Context(), req.Email, id); err != nil {
		response.Internal(c, "Failed to update profile")
		return
	} else if taken {
		response.BadRequest(c, "Email already exists")
		return
	}

	if err := h.repo.UpdateProfile(c.Request.Context(), id, req.Username, req.Email); err != nil {
		h.logger.Error("update profile failed", zap.Error(err))
		response.Internal(c, "Failed to update profile")
		return
	}

	admin, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "Failed to update profile")
		return
	}
	response.OKMessage(c, "Profile updated successfully", admin.ToPublic())
}

// ChangePassword handles PUT /admin/change-password.
func (h *Handler) ChangePassword(c *gin.Context) {
	id, ok := adminID(c)
	if !ok {
		response.Unauthorized(c, "Missing admin context")
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "New password must be at least 6 characters")
		return
	}

	admin, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.NotFound(c, "Admin not found")
		return
	}
	if !CheckPassword(req.CurrentPassword, admin.PasswordHash) {
		response.BadRequest(c, "Invalid password")
		return
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		response.Internal(c, "Failed to change password")
		return
	}
	if err := h.repo.UpdatePassword(c.Request.Context(), id, hash); err != nil {
		h.logger.Error("update password failed", zap.Error(err))
		response.Internal(c, "Failed to change password")
		return
	}
	response.OKMessage(c, "Password changed successfully", nil)
}
