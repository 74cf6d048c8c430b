package stats

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prompt-future/backend/pkg/response"
)

// Source provides the aggregates the handlers serve. Repository is the
// production implementation.
type Source interface {
	Summarize(ctx context.Context) (*Summary, error)
	ByBranch(ctx context.Context) ([]BranchCount, error)
	ByYear(ctx context.Context) ([]YearCount, error)
	RecentDaily(ctx context.Context, days int) ([]DailyCount, error)
}

// Handler serves the public stats endpoint and the admin dashboard bundle.
type Handler struct {
	repo   Source
	logger *zap.Logger
}

// NewHandler creates a stats handler.
func NewHandler(repo Source, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Public handles GET /registration/stats. Exposes only aggregate counts,
// never registrant data.
func (h *Handler) Public(c *gin.Context) {
	ctx := c.Request.Context()
	summary, err := h.repo.Summarize(ctx)
	if err != nil {
		h.logger.Error("summarize registrations failed", zap.Error(err))
		response.Internal(c, "Failed to fetch statistics")
		return
	}
	byBranch, err := h.repo.ByBranch(ctx)
	if err != nil {
		h.logger.Error("branch breakdown failed", zap.Error(err))
		response.Internal(c, "Failed to fetch statistics")
		return
	}
	byYear, err := h.repo.ByYear(ctx)
	if err != nil {
		h.logger.Error("year breakdown failed", zap.Error(err))
		response.Internal(c, "Failed to fetch statistics")
		return
	}
	response.OK(c, gin.H{
		"totalRegistrations": summary.TotalRegistrations,
		"todayRegistrations": summary.TodayRegistrations,
		"workshopAttendance": gin.H{
			"yes": summary.WorkshopYes,
			"no":  summary.WorkshopNo,
		},
		"branchDistribution": byBranch,
		"yearDistribution":   byYear,
	})
}

// Admin handles GET /admin/statistics with the full dashboard bundle.
func (h *Handler) Admin(c *gin.Context) {
	ctx := c.Request.Context()
	summary, err := h.repo.Summarize(ctx)
	if err != nil {
		h.logger.Error("summarize registrations failed", zap.Error(err))
		response.Internal(c, "Failed to fetch statistics")
		return
	}
	byBranch, err := h.repo.ByBranch(ctx)
	if err != nil {
		h.logger.Error("branch breakdown failed", zap.Error(err))
		response.Internal(c, "Failed to fetch statistics")
		return
	}
	byYear, err := h.repo.ByYear(ctx)
	if err != nil {
		h.logger.Error("year breakdown failed", zap.Error(err))
		response.Internal(c, "Failed to fetch statistics")
		return
	}
	recent, err := h.repo.RecentDaily(ctx, 7)
	if err != nil {
		h.logger.Error("recent daily counts failed", zap.Error(err))
		response.Internal(c, "Failed to fetch statistics")
		return
	}
	response.OK(c, gin.H{
		"basic":               summary,
		"branchDistribution":  byBranch,
		"yearDistribution":    byYear,
		"recentRegistrations": recent,
		"generatedAt":         time.Now().UTC().Format(time.RFC3339),
	})
}
