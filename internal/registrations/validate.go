// Package registrations implements the admission pipeline: field
// validation, bot verification, the maintenance and capacity gates, and the
// registrant CRUD used by the admin panel.
package registrations

import (
	"regexp"
	"strings"

	"github.com/prompt-future/backend/internal/models"
	"github.com/prompt-future/backend/pkg/response"
)

var (
	nameRx   = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailRx  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRx  = regexp.MustCompile(`^\d{10}$`)
	githubRx = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
)

// SubmitRequest is the public registration body. Validation happens in
// Validate, not via binding tags, so every invalid field is reported in one
// pass with its own message.
type SubmitRequest struct {
	FullName           string `json:"fullName"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Branch             string `json:"branch"`
	YearOfStudy        string `json:"yearOfStudy"`
	WorkshopAttendance string `json:"workshopAttendance"`
	GitHubUsername     string `json:"githubUsername"`
	Consent            bool   `json:"consent"`
	RecaptchaToken     string `json:"recaptchaToken"`
}

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// Normalize trims whitespace and lowercases the email before validation and
// storage.
func (r *SubmitRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.GitHubUsername = strings.TrimSpace(r.GitHubUsername)
}

// Validate checks every field and returns one error per invalid field.
func (r *SubmitRequest) Validate() []response.FieldError {
	var errs []response.FieldError

	switch {
	case r.FullName == "":
		errs = append(errs, response.FieldError{Field: "fullName", Message: "Full name is required"})
	case len(r.FullName) < 3 || len(r.FullName) > 100:
		errs = append(errs, response.FieldError{Field: "fullName", Message: "Full name must be between 3 and 100 characters"})
	case !nameRx.MatchString(r.FullName):
		errs = append(errs, response.FieldError{Field: "fullName", Message: "Full name can only contain letters and spaces"})
	}

	switch {
	case r.Email == "":
		errs = append(errs, response.FieldError{Field: "email", Message: "Email is required"})
	case !emailRx.MatchString(r.Email):
		errs = append(errs, response.FieldError{Field: "email", Message: "Please provide a valid email address"})
	}

	switch {
	case r.Phone == "":
		errs = append(errs, response.FieldError{Field: "phone", Message: "Phone number is required"})
	case !phoneRx.MatchString(r.Phone):
		errs = append(errs, response.FieldError{Field: "phone", Message: "Phone number must be exactly 10 digits"})
	}

	if !oneOf(r.Branch, models.Branches) {
		errs = append(errs, response.FieldError{Field: "branch", Message: "Please select a valid branch"})
	}

	if !oneOf(r.YearOfStudy, models.YearsOfStudy) {
		errs = append(errs, response.FieldError{Field: "yearOfStudy", Message: "Please select a valid year of study"})
	}

	if r.WorkshopAttendance != "Yes" && r.WorkshopAttendance != "No" {
		errs = append(errs, response.FieldError{Field: "workshopAttendance", Message: "Please select workshop attendance preference"})
	}

	if r.GitHubUsername != "" && !githubRx.MatchString(r.GitHubUsername) {
		errs = append(errs, response.FieldError{Field: "githubUsername", Message: "Please provide a valid GitHub username"})
	}

	if !r.Consent {
		errs = append(errs, response.FieldError{Field: "consent", Message: "You must agree to the terms and conditions"})
	}

	if r.RecaptchaToken == "" {
		errs = append(errs, response.FieldError{Field: "recaptchaToken", Message: "reCAPTCHA verification is required"})
	}

	return errs
}

// UpdateRequest is the admin edit body. All fields optional; empty strings
// mean "leave unchanged".
type UpdateRequest struct {
	FullName           string  `json:"fullName"`
	Email              string  `json:"email"`
	Phone              string  `json:"phone"`
	Branch             string  `json:"branch"`
	YearOfStudy        string  `json:"yearOfStudy"`
	WorkshopAttendance string  `json:"workshopAttendance"`
	GitHubUsername     *string `json:"githubUsername"`
}

// Validate checks only the fields the admin actually supplied.
func (r *UpdateRequest) Validate() []response.FieldError {
	var errs []response.FieldError

	if r.FullName != "" {
		name := strings.TrimSpace(r.FullName)
		if len(name) < 3 || len(name) > 100 {
			errs = append(errs, response.FieldError{Field: "fullName", Message: "Full name must be between 3 and 100 characters"})
		} else if !nameRx.MatchString(name) {
			errs = append(errs, response.FieldError{Field: "fullName", Message: "Full name can only contain letters and spaces"})
		}
	}
	if r.Email != "" && !emailRx.MatchString(strings.ToLower(strings.TrimSpace(r.Email))) {
		errs = append(errs, response.FieldError{Field: "email", Message: "Please provide a valid email address"})
	}
	if r.Phone != "" && !phoneRx.MatchString(strings.TrimSpace(r.Phone)) {
		errs = append(errs, response.FieldError{Field: "phone", Message: "Phone number must be exactly 10 digits"})
	}
	if r.Branch != "" && !oneOf(r.Branch, models.Branches) {
		errs = append(errs, response.FieldError{Field: "branch", Message: "Please select a valid branch"})
	}
	if r.YearOfStudy != "" && !oneOf(r.YearOfStudy, models.YearsOfStudy) {
		errs = append(errs, response.FieldError{Field: "yearOfStudy", Message: "Please select a valid year of study"})
	}
	if r.WorkshopAttendance != "" && r.WorkshopAttendance != "Yes" && r.WorkshopAttendance != "No" {
		errs = append(errs, response.FieldError{Field: "workshopAttendance", Message: "Please select workshop attendance preference"})
	}
	if r.GitHubUsername != nil && *r.GitHubUsername != "" && !githubRx.MatchString(strings.TrimSpace(*r.GitHubUsername)) {
		errs = append(errs, response.FieldError{Field: "githubUsername", Message: "Please provide a valid GitHub username"})
	}

	return errs
}
