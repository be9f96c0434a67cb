package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bio holds the profile fields embedded in a User row.
type Bio struct {
	AboutMe  string `gorm:"type:text" json:"aboutMe"`
	Website  string `gorm:"size:512" json:"website"`
	Location string `gorm:"size:255" json:"location"`
	// Image is a data URI (data:<mime>;base64,...).
	Image string `gorm:"type:text" json:"image"`
}

// User represents an account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"userId"`
	Handle    string    `gorm:"size:64;not null;uniqueIndex" json:"handle"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Bio       Bio       `gorm:"embedded;embeddedPrefix:bio_" json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate assigns a UUID when none was provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
