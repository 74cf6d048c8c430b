package seminar

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prompt-future/backend/internal/models"
	"github.com/prompt-future/backend/pkg/response"
)

// RegistrationCounter supplies the live active-registration count for the
// admin settings view.
type RegistrationCounter interface {
	TotalActive(ctx context.Context) (int, error)
}

// ControlRequest is the body for PUT /admin/registration-control and
// PUT /admin/email-control.
type ControlRequest struct {
	Enabled *bool  `json:"enabled" binding:"required"`
	Message string `json:"message"`
}

// Handler handles control-plane and public seminar-info endpoints.
type Handler struct {
	repo    *Repository
	counter RegistrationCounter
	logger  *zap.Logger
}

// NewHandler creates a seminar handler.
func NewHandler(repo *Repository, counter RegistrationCounter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, counter: counter, logger: logger}
}

func actorID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get("admin_id"); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}

// PublicInfo handles GET /registration/seminar-info.
func (h *Handler) PublicInfo(c *gin.Context) {
	settings, err := h.repo.Settings(c.Request.Context())
	if err != nil {
		h.logger.Error("fetch seminar settings failed", zap.Error(err))
		response.Internal(c, "Failed to fetch seminar information")
		return
	}
	if settings == nil {
		response.NotFound(c, "Seminar settings not found")
		return
	}
	response.OK(c, settings.ToInfo())
}

// GetSettings handles GET /admin/seminar-settings. Includes occupancy derived
// from the live registration count.
func (h *Handler) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()
	settings, err := h.repo.Settings(ctx)
	if err != nil {
		h.logger.Error("fetch seminar settings failed", zap.Error(err))
		response.Internal(c, "Failed to fetch seminar settings")
		return
	}
	if settings == nil {
		response.NotFound(c, "Seminar settings not found")
		return
	}
	current, err := h.counter.TotalActive(ctx)
	if err != nil {
		h.logger.Error("count registrations failed", zap.Error(err))
		response.Internal(c, "Failed to fetch seminar settings")
		return
	}
	response.OK(c, gin.H{
		"settings":             settings,
		"currentRegistrations": current,
		"availableSlots":       settings.MaxParticipants - current,
		"isRegistrationFull":   current >= settings.MaxParticipants,
	})
}

// UpdateSettings handles PUT /admin/seminar-settings.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		response.ValidationFailed(c, errs)
		return
	}

	settings := &models.SeminarSettings{
		Title:                req.Title,
		Date:                 req.Date,
		Time:                 req.Time,
		Location:             req.Location,
		Duration:             req.Duration,
		Description:          req.Description,
		InstructorName:       req.InstructorName,
		InstructorEmail:      req.InstructorEmail,
		MaxParticipants:      req.MaxParticipants,
		RegistrationDeadline: req.RegistrationDeadline,
		WhatsAppNumber:       req.WhatsAppNumber,
		WhatsAppGroupLink:    req.WhatsAppGroupLink,
	}
	if err := h.repo.UpdateSettings(c.Request.Context(), settings); err != nil {
		h.logger.Error("update seminar settings failed", zap.Error(err))
		response.Internal(c, "Failed to update seminar settings")
		return
	}
	response.OKMessage(c, "Seminar settings updated successfully", settings)
}

// GetRegistrationControl handles GET /admin/registration-control.
func (h *Handler) GetRegistrationControl(c *gin.Context) {
	control, err := h.repo.RegistrationControl(c.Request.Context())
	if err != nil {
		h.logger.Error("fetch registration control failed", zap.Error(err))
		response.Internal(c, "Failed to fetch registration control status")
		return
	}
	if control == nil {
		control = &models.RegistrationControl{
			Enabled:            true,
			MaintenanceMessage: "Registration is temporarily closed.",
		}
	}
	response.OK(c, control)
}

// SetRegistrationControl handles PUT /admin/registration-control.
func (h *Handler) SetRegistrationControl(c *gin.Context) {
	var req ControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "enabled is required")
		return
	}
	message := req.Message
	if message == "" {
		message = "Registration is temporarily closed."
	}
	if err := h.repo.SetRegistrationControl(c.Request.Context(), *req.Enabled, message, actorID(c)); err != nil {
		h.logger.Error("update registration control failed", zap.Error(err))
		response.Internal(c, "Failed to update registration control")
		return
	}
	verb := "disabled"
	if *req.Enabled {
		verb = "enabled"
	}
	response.OKMessage(c, "Registration "+verb+" successfully", nil)
}

// GetEmailControl handles GET /admin/email-control.
func (h *Handler) GetEmailControl(c *gin.Context) {
	control, err := h.repo.EmailControl(c.Request.Context())
	if err != nil {
		h.logger.Error("fetch email control failed", zap.Error(err))
		response.Internal(c, "Failed to fetch email service control status")
		return
	}
	if control == nil {
		control = &models.EmailControl{Enabled: true}
	}
	response.OK(c, control)
}

// SetEmailControl handles PUT /admin/email-control.
func (h *Handler) SetEmailControl(c *gin.Context) {
	var req ControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "enabled is required")
		return
	}
	if err := h.repo.SetEmailControl(c.Request.Context(), *req.Enabled, actorID(c)); err != nil {
		h.logger.Error("update email control failed", zap.Error(err))
		response.Internal(c, "Failed to update email service control")
		return
	}
	verb := "disabled"
	if *req.Enabled {
		verb = "enabled"
	}
	response.OKMessage(c, "Email service "+verb+" successfully", nil)
}
