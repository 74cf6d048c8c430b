package notify

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prompt-future/backend/internal/models"
	"github.com/prompt-future/backend/pkg/queue"
	"github.com/prompt-future/backend/pkg/response"
)

// PendingLister finds registrants still waiting for an email.
type PendingLister interface {
	ListPendingReminder(ctx context.Context) ([]models.Registration, error)
}

// EmailGate reads the email kill switch.
type EmailGate interface {
	EmailControl(ctx context.Context) (*models.EmailControl, error)
}

// Handler exposes the admin reminder fan-out.
type Handler struct {
	pending PendingLister
	gate    EmailGate
	queue   *queue.Queue
	logger  *zap.Logger
}

// NewHandler creates a notify handler.
func NewHandler(pending PendingLister, gate EmailGate, q *queue.Queue, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{pending: pending, gate: gate, queue: q, logger: logger}
}

// SendReminders handles POST /admin/send-reminders. Enqueues one job per
// registrant without a confirmed email; the worker does the deliveries.
func (h *Handler) SendReminders(c *gin.Context) {
	ctx := c.Request.Context()

	control, err := h.gate.EmailControl(ctx)
	if err != nil {
		h.logger.Error("read email control failed", zap.Error(err))
		response.Internal(c, "Failed to queue reminder emails")
		return
	}
	if control != nil && !control.Enabled {
		response.BadRequest(c, "Email service is currently disabled")
		return
	}

	pending, err := h.pending.ListPendingReminder(ctx)
	if err != nil {
		h.logger.Error("list pending reminders failed", zap.Error(err))
		response.Internal(c, "Failed to queue reminder emails")
		return
	}

	queued := 0
	for i := range pending {
		payload := queue.ReminderEmailPayload{
			RegistrationID: pending[i].ID,
			RecipientEmail: pending[i].Email,
		}
		if err := h.queue.EnqueueReminderEmail(ctx, payload); err != nil {
			h.logger.Error("enqueue reminder failed",
				zap.String("registration_id", pending[i].ID.String()),
				zap.Error(err))
			continue
		}
		queued++
	}

	response.OKMessage(c, "Reminder emails queued", gin.H{
		"pending": len(pending),
		"queued":  queued,
	})
}
