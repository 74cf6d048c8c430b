package seminar

import (
	"regexp"

	"github.com/prompt-future/backend/pkg/response"
)

var (
	dateRx  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	emailRx = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// UpdateSettingsRequest is the body for PUT /admin/seminar-settings.
type UpdateSettingsRequest struct {
	Title                string `json:"title"`
	Date                 string `json:"date"`
	Time                 string `json:"time"`
	Location             string `json:"location"`
	Duration             string `json:"duration"`
	Description          string `json:"description"`
	InstructorName       string `json:"instructor_name"`
	InstructorEmail      string `json:"instructor_email"`
	MaxParticipants      int    `json:"max_participants"`
	RegistrationDeadline string `json:"registration_deadline"`
	WhatsAppNumber       string `json:"whatsapp_number"`
	WhatsAppGroupLink    string `json:"whatsapp_group_link"`
}

// Validate runs every settings rule, collecting one message per failing
// field. The shape matches the registration validation errors.
func (r *UpdateSettingsRequest) Validate() []response.FieldError {
	var errs []response.FieldError
	add := func(field, message string) {
		errs = append(errs, response.FieldError{Field: field, Message: message})
	}

	if n := len(r.Title); n < 5 || n > 200 {
		add("title", "Title must be between 5 and 200 characters")
	}
	if !dateRx.MatchString(r.Date) {
		add("date", "Date must be in YYYY-MM-DD format")
	}
	if r.Time == "" {
		add("time", "Time is required")
	}
	if n := len(r.Location); n < 5 || n > 200 {
		add("location", "Location must be between 5 and 200 characters")
	}
	if r.Duration == "" {
		add("duration", "Duration is required")
	}
	if n := len(r.InstructorName); n < 2 || n > 100 {
		add("instructor_name", "Instructor name must be between 2 and 100 characters")
	}
	if !emailRx.MatchString(r.InstructorEmail) {
		add("instructor_email", "Valid instructor email is required")
	}
	if r.MaxParticipants < 1 || r.MaxParticipants > 1000 {
		add("max_participants", "Max participants must be between 1 and 1000")
	}
	return errs
}
