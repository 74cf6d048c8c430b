package registrations

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/prompt-future/backend/internal/models"
	"github.com/prompt-future/backend/pkg/response"
)

var exportHeader = []string{
	"ID", "Full Name", "Email", "Phone", "Branch", "Year of Study",
	"Workshop Attendance", "GitHub Username", "Registration Date",
	"Email Sent", "IP Address",
}

// WriteCSV streams active registrations as CSV in the fixed column order
// the admin panel expects.
func WriteCSV(w io.Writer, regs []models.Registration) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for i := range regs {
		r := &regs[i]
		emailSent := "No"
		if r.EmailSent {
			emailSent = "Yes"
		}
		record := []string{
			r.ID.String(),
			r.FullName,
			r.Email,
			r.Phone,
			r.Branch,
			r.YearOfStudy,
			r.WorkshopAttendance,
			r.GitHubUsername,
			r.RegistrationDate.Format("2006-01-02 15:04:05"),
			emailSent,
			r.IPAddress,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export handles GET /admin/registrations/export.
func (h *Handler) Export(c *gin.Context) {
	regs, err := h.repo.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("export registrations failed", zap.Error(err))
		response.Internal(c, "Failed to export registrations")
		return
	}

	filename := "registrations-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := WriteCSV(c.Writer, regs); err != nil {
		h.logger.Error("write csv failed", zap.Error(err))
	}
}
