package models

import (
	"time"

	"github.com/google/uuid"
)

// SeminarSettings is the singleton seminar configuration. Exactly one
// authoritative row exists; max_participants is the admission ceiling.
type SeminarSettings struct {
	Title                string    `json:"title"`
	Date                 string    `json:"date"`
	Time                 string    `json:"time"`
	Location             string    `json:"location"`
	Duration             string    `json:"duration"`
	Description          string    `json:"description,omitempty"`
	InstructorName       string    `json:"instructor_name"`
	InstructorEmail      string    `json:"instructor_email"`
	MaxParticipants      int       `json:"max_participants"`
	RegistrationDeadline string    `json:"registration_deadline,omitempty"`
	WhatsAppNumber       string    `json:"whatsapp_number,omitempty"`
	WhatsAppGroupLink    string    `json:"whatsapp_group_link,omitempty"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// SeminarInfo is the public subset of the settings (no control fields, no
// instructor contact beyond the name).
type SeminarInfo struct {
	Title                string `json:"title"`
	Date                 string `json:"date"`
	Time                 string `json:"time"`
	Location             string `json:"location"`
	Duration             string `json:"duration"`
	Description          string `json:"description,omitempty"`
	InstructorName       string `json:"instructor_name"`
	MaxParticipants      int    `json:"max_participants"`
	RegistrationDeadline string `json:"registration_deadline,omitempty"`
	WhatsAppNumber       string `json:"whatsapp_number,omitempty"`
}

// ToInfo returns the public view.
func (s *SeminarSettings) ToInfo() SeminarInfo {
	return SeminarInfo{
		Title:                s.Title,
		Date:                 s.Date,
		Time:                 s.Time,
		Location:             s.Location,
		Duration:             s.Duration,
		Description:          s.Description,
		InstructorName:       s.InstructorName,
		MaxParticipants:      s.MaxParticipants,
		RegistrationDeadline: s.RegistrationDeadline,
		WhatsAppNumber:       s.WhatsAppNumber,
	}
}

// RegistrationControl is the singleton registration kill switch. When
// disabled, no registration is admitted regardless of capacity.
type RegistrationControl struct {
	Enabled            bool       `json:"enabled"`
	MaintenanceMessage string     `json:"maintenance_message"`
	UpdatedBy          *uuid.UUID `json:"updated_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// EmailControl is the singleton switch gating all outbound email.
type EmailControl struct {
	Enabled   bool       `json:"enabled"`
	UpdatedBy *uuid.UUID `json:"updated_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
