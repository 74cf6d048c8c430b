package seminar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSettingsRequest() UpdateSettingsRequest {
	return UpdateSettingsRequest{
		Title:           "Prompt Engineering Workshop",
		Date:            "2025-07-25",
		Time:            "10:00 AM",
		Location:        "Seminar Hall, First Floor",
		Duration:        "3 hours",
		InstructorName:  "Harshad Nikam",
		InstructorEmail: "instructor@example.com",
		MaxParticipants: 100,
	}
}

func TestSettingsValidateOK(t *testing.T) {
	req := validSettingsRequest()
	assert.Empty(t, req.Validate())
}

func TestSettingsValidateRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*UpdateSettingsRequest)
		field  string
	}{
		{"title too short", func(r *UpdateSettingsRequest) { r.Title = "abc" }, "title"},
		{"title too long", func(r *UpdateSettingsRequest) { r.Title = strings.Repeat("x", 201) }, "title"},
		{"bad date format", func(r *UpdateSettingsRequest) { r.Date = "25-07-2025" }, "date"},
		{"missing time", func(r *UpdateSettingsRequest) { r.Time = "" }, "time"},
		{"location too short", func(r *UpdateSettingsRequest) { r.Location = "here" }, "location"},
		{"missing duration", func(r *UpdateSettingsRequest) { r.Duration = "" }, "duration"},
		{"instructor name too short", func(r *UpdateSettingsRequest) { r.InstructorName = "x" }, "instructor_name"},
		{"bad instructor email", func(r *UpdateSettingsRequest) { r.InstructorEmail = "nope" }, "instructor_email"},
		{"zero capacity", func(r *UpdateSettingsRequest) { r.MaxParticipants = 0 }, "max_participants"},
		{"capacity above ceiling", func(r *UpdateSettingsRequest) { r.MaxParticipants = 1001 }, "max_participants"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSettingsRequest()
			tt.mutate(&req)
			errs := req.Validate()
			assert.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestSettingsValidateEnumeratesAllFailures(t *testing.T) {
	req := UpdateSettingsRequest{}
	errs := req.Validate()
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{
		"title", "date", "time", "location", "duration",
		"instructor_name", "instructor_email", "max_participants",
	}, fields)
}
