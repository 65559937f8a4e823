// Package entity defines the domain entities for the account feature.
package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppUser is a registered user. Other features only read ID and UserName.
type AppUser struct {
	// ID is a UUID string assigned on insert.
	ID string `gorm:"primaryKey;size:36"`

	// UserName is the login name and the identity carried in access tokens.
	UserName string `gorm:"uniqueIndex;size:50;not null"`

	Email string `gorm:"uniqueIndex;size:255;not null"`

	// PasswordHash is the bcrypt hash. Plaintext passwords are never stored.
	PasswordHash string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (u *AppUser) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
