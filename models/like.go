package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like records that a user liked a post. At most one per (UserHandle, PostID).
type Like struct {
	ID         string    `gorm:"primaryKey;size:36" json:"likeId"`
	UserHandle string    `gorm:"size:64;not null;uniqueIndex:idx_like_user_post" json:"userHandle"`
	PostID     string    `gorm:"size:36;not null;uniqueIndex:idx_like_user_post;index" json:"postId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
