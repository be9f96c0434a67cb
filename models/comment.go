package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment represents a reply to a post.
type Comment struct {
	ID         string    `gorm:"primaryKey;size:36" json:"commentId"`
	PostID     string    `gorm:"size:36;not null;index" json:"postId"`
	UserHandle string    `gorm:"size:64;not null;index" json:"userHandle"`
	UserImage  string    `gorm:"type:text" json:"userImage"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
