package registrations

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prompt-future/backend/internal/captcha"
	"github.com/prompt-future/backend/pkg/response"
)

// Handler exposes the public admission endpoints and the admin registrant
// CRUD.
type Handler struct {
	service  *Service
	repo     *Repository
	settings SettingsStore
	logger   *zap.Logger
}

// NewHandler creates a registrations handler.
func NewHandler(service *Service, repo *Repository, settings SettingsStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, repo: repo, settings: settings, logger: logger}
}

// capacityData reports occupancy for the capacity rejection body.
func (h *Handler) capacityData(ctx context.Context) gin.H {
	current, err := h.repo.CountActive(ctx)
	if err != nil {
		return nil
	}
	settings, err := h.settings.Settings(ctx)
	if err != nil || settings == nil {
		return nil
	}
	return gin.H{
		"currentRegistrations": current,
		"maxParticipants":      settings.MaxParticipants,
	}
}

func (h *Handler) contactInfo(ctx context.Context, message string) *response.ContactInfo {
	settings, err := h.settings.Settings(ctx)
	if err != nil || settings == nil || settings.WhatsAppNumber == "" {
		return nil
	}
	return response.WhatsAppContact(settings.WhatsAppNumber, message)
}

// Submit handles POST /registration/submit.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	ctx := c.Request.Context()
	reg, err := h.service.Submit(ctx, &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if m, ok := IsMaintenance(err); ok {
			response.ServiceUnavailable(c, m.Message,
				h.contactInfo(ctx, "Contact us on WhatsApp for registration assistance"))
			return
		}
		var ve *ErrValidation
		if errors.As(err, &ve) {
			response.ValidationFailed(c, ve.Fields)
			return
		}
		if errors.Is(err, captcha.ErrVerificationFailed) {
			response.BadRequest(c, "reCAPTCHA verification failed. Please try again.")
			return
		}
		if errors.Is(err, ErrCapacityFull) {
			response.Conflict(c, "Registration is closed. We have reached maximum capacity.",
				h.capacityData(ctx), h.contactInfo(ctx, "Join the waitlist on WhatsApp"))
			return
		}
		if errors.Is(err, ErrDuplicateEmail) {
			response.Conflict(c, "This email is already registered for the seminar",
				gin.H{"email": req.Email}, nil)
			return
		}
		h.logger.Error("registration submit failed", zap.Error(err))
		response.Internal(c, "Registration failed. Please try again later.")
		return
	}

	message := "Registration successful! Your confirmation email will arrive shortly."
	if reg.EmailSent {
		message = "Registration successful! Check your email for confirmation details."
	}
	response.Created(c, message, reg.ToPublic())
}

// CheckEmail handles GET /registration/check/:email.
func (h *Handler) CheckEmail(c *gin.Context) {
	email := c.Param("email")
	if email == "" || !emailRx.MatchString(email) {
		response.BadRequest(c, "Please provide a valid email address")
		return
	}
	reg, err := h.repo.GetByEmail(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("check email failed", zap.Error(err))
		response.Internal(c, "Failed to check registration status")
		return
	}
	if reg == nil {
		response.OK(c, gin.H{"exists": false})
		return
	}
	response.OK(c, gin.H{"exists": true, "data": reg.ToPublic()})
}

// List handles GET /admin/registrations.
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	params := ListParams{
		Search:   c.Query("search"),
		SortBy:   c.DefaultQuery("sortBy", "registrationDate"),
		SortDesc: c.DefaultQuery("sortOrder", "desc") == "desc",
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}
	regs, total, err := h.repo.List(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("list registrations failed", zap.Error(err))
		response.Internal(c, "Failed to fetch registrations")
		return
	}
	response.OK(c, gin.H{
		"registrations": regs,
		"pagination": gin.H{
			"page":  page,
			"limit": params.Limit,
			"total": total,
		},
	})
}

// GetByID handles GET /admin/registrations/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid registration ID")
		return
	}
	reg, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("fetch registration failed", zap.Error(err))
		response.Internal(c, "Failed to fetch registration")
		return
	}
	if reg == nil {
		response.NotFound(c, "Registration not found")
		return
	}
	response.OK(c, reg)
}

// Update handles PUT /admin/registrations/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid registration ID")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		response.ValidationFailed(c, errs)
		return
	}

	reg, err := h.repo.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			response.Conflict(c, "This email is already registered for the seminar", nil, nil)
			return
		}
		h.logger.Error("update registration failed", zap.Error(err))
		response.Internal(c, "Failed to update registration")
		return
	}
	if reg == nil {
		response.NotFound(c, "Registration not found")
		return
	}
	response.OKMessage(c, "Registration updated successfully", reg)
}

// Delete handles DELETE /admin/registrations/:id. Removal is a status flip;
// the row stays for auditing.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid registration ID")
		return
	}
	removed, err := h.repo.SoftDelete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("remove registration failed", zap.Error(err))
		response.Internal(c, "Failed to remove registration")
		return
	}
	if !removed {
		response.NotFound(c, "Registration not found")
		return
	}
	response.OKMessage(c, "Registration removed successfully", nil)
}
