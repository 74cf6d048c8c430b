package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration lifecycle status. Removal is a status transition; rows are
// never hard-deleted by the API.
const (
	StatusActive  = "active"
	StatusRemoved = "removed"
)

// Branches and years a registrant may pick. The admission controller and the
// admin edit path validate against these.
var (
	Branches     = []string{"IT", "Computer Science", "Cybersecurity", "Data Science", "Other"}
	YearsOfStudy = []string{"1st Year", "2nd Year", "3rd Year", "4th Year"}
)

// Registration is an accepted seminar sign-up.
type Registration struct {
	ID                 uuid.UUID  `json:"id"`
	FullName           string     `json:"fullName"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	Branch             string     `json:"branch"`
	YearOfStudy        string     `json:"yearOfStudy"`
	WorkshopAttendance string     `json:"workshopAttendance"`
	GitHubUsername     string     `json:"githubUsername,omitempty"`
	Consent            bool       `json:"consent"`
	RegistrationDate   time.Time  `json:"registrationDate"`
	IPAddress          string     `json:"ipAddress,omitempty"`
	UserAgent          string     `json:"userAgent,omitempty"`
	Status             string     `json:"status"`
	EmailSent          bool       `json:"emailSent"`
	EmailSentDate      *time.Time `json:"emailSentDate,omitempty"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// RegistrationPublic is the subset returned to the registrant on success and
// by the public existence check.
type RegistrationPublic struct {
	ID               uuid.UUID `json:"id"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	RegistrationDate time.Time `json:"registrationDate"`
	EmailSent        bool      `json:"emailSent"`
}

// ToPublic strips internal fields.
func (r *Registration) ToPublic() RegistrationPublic {
	return RegistrationPublic{
		ID:               r.ID,
		FullName:         r.FullName,
		Email:            r.Email,
		RegistrationDate: r.RegistrationDate,
		EmailSent:        r.EmailSent,
	}
}
