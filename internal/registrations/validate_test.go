package registrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prompt-future/backend/pkg/response"
)

func validSubmit() SubmitRequest {
	return SubmitRequest{
		FullName:           "Asha Patel",
		Email:              "asha@example.com",
		Phone:              "9876543210",
		Branch:             "IT",
		YearOfStudy:        "2nd Year",
		WorkshopAttendance: "Yes",
		Consent:            true,
		RecaptchaToken:     "token",
	}
}

func fieldMessages(errs []response.FieldError) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field] = e.Message
	}
	return out
}

func TestSubmitValidateAccepts(t *testing.T) {
	req := validSubmit()
	assert.Empty(t, req.Validate())

	req.GitHubUsername = "asha-patel"
	assert.Empty(t, req.Validate())
}

func TestSubmitValidateRules(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SubmitRequest)
		field   string
		message string
	}{
		{"missing name", func(r *SubmitRequest) { r.FullName = "" }, "fullName", "Full name is required"},
		{"short name", func(r *SubmitRequest) { r.FullName = "Al" }, "fullName", "Full name must be between 3 and 100 characters"},
		{"long name", func(r *SubmitRequest) { r.FullName = strings.Repeat("a", 101) }, "fullName", "Full name must be between 3 and 100 characters"},
		{"digits in name", func(r *SubmitRequest) { r.FullName = "Asha 2" }, "fullName", "Full name can only contain letters and spaces"},
		{"missing email", func(r *SubmitRequest) { r.Email = "" }, "email", "Email is required"},
		{"bad email", func(r *SubmitRequest) { r.Email = "not-an-email" }, "email", "Please provide a valid email address"},
		{"missing phone", func(r *SubmitRequest) { r.Phone = "" }, "phone", "Phone number is required"},
		{"short phone", func(r *SubmitRequest) { r.Phone = "12345" }, "phone", "Phone number must be exactly 10 digits"},
		{"alpha phone", func(r *SubmitRequest) { r.Phone = "98765abcde" }, "phone", "Phone number must be exactly 10 digits"},
		{"bad branch", func(r *SubmitRequest) { r.Branch = "Physics" }, "branch", "Please select a valid branch"},
		{"bad year", func(r *SubmitRequest) { r.YearOfStudy = "5th Year" }, "yearOfStudy", "Please select a valid year of study"},
		{"bad workshop", func(r *SubmitRequest) { r.WorkshopAttendance = "Maybe" }, "workshopAttendance", "Please select workshop attendance preference"},
		{"bad github", func(r *SubmitRequest) { r.GitHubUsername = "-starts-with-hyphen" }, "githubUsername", "Please provide a valid GitHub username"},
		{"long github", func(r *SubmitRequest) { r.GitHubUsername = strings.Repeat("a", 40) }, "githubUsername", "Please provide a valid GitHub username"},
		{"no consent", func(r *SubmitRequest) { r.Consent = false }, "consent", "You must agree to the terms and conditions"},
		{"no captcha token", func(r *SubmitRequest) { r.RecaptchaToken = "" }, "recaptchaToken", "reCAPTCHA verification is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmit()
			tt.mutate(&req)
			errs := req.Validate()
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.message, errs[0].Message)
		})
	}
}

func TestSubmitValidateReportsAllFields(t *testing.T) {
	req := SubmitRequest{}
	msgs := fieldMessages(req.Validate())

	for _, field := range []string{
		"fullName", "email", "phone", "branch", "yearOfStudy",
		"workshopAttendance", "consent", "recaptchaToken",
	} {
		assert.Contains(t, msgs, field)
	}
	// Optional field stays silent when absent.
	assert.NotContains(t, msgs, "githubUsername")
}

func TestSubmitNormalize(t *testing.T) {
	req := SubmitRequest{
		FullName:       "  Asha Patel  ",
		Email:          "  Asha@Example.COM ",
		Phone:          " 9876543210 ",
		GitHubUsername: " asha ",
	}
	req.Normalize()

	assert.Equal(t, "Asha Patel", req.FullName)
	assert.Equal(t, "asha@example.com", req.Email)
	assert.Equal(t, "9876543210", req.Phone)
	assert.Equal(t, "asha", req.GitHubUsername)
}

func TestUpdateValidateSkipsEmptyFields(t *testing.T) {
	req := UpdateRequest{}
	assert.Empty(t, req.Validate())
}

func TestUpdateValidateChecksProvidedFields(t *testing.T) {
	bad := "-nope"
	req := UpdateRequest{
		FullName:       "A1",
		Email:          "broken",
		Phone:          "123",
		Branch:         "Chemistry",
		YearOfStudy:    "6th Year",
		GitHubUsername: &bad,
	}
	msgs := fieldMessages(req.Validate())

	assert.Contains(t, msgs, "fullName")
	assert.Contains(t, msgs, "email")
	assert.Contains(t, msgs, "phone")
	assert.Contains(t, msgs, "branch")
	assert.Contains(t, msgs, "yearOfStudy")
	assert.Contains(t, msgs, "githubUsername")
}
