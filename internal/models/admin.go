package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is a dashboard account.
type AdminUser struct {
	ID                uuid.UUID  `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Role              string     `json:"role"`
	IsActive          bool       `json:"is_active"`
	TwoFactorEnabled  bool       `json:"two_factor_enabled"`
	TwoFactorSecret   string     `json:"-"`
	BackupCodes       []string   `json:"-"`
	TwoFactorLastUsed *time.Time `json:"two_factor_last_used,omitempty"`
	TempSecret        string     `json:"-"`
	TempSecretExpires *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
}

// AdminPublic is the profile shape returned by the API.
type AdminPublic struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// ToPublic strips credential and 2FA material.
func (a *AdminUser) ToPublic() AdminPublic {
	return AdminPublic{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      a.Role,
		CreatedAt: a.CreatedAt,
		LastLogin: a.LastLogin,
	}
}
