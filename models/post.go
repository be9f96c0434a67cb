package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a status update. LikeCount and CommentCount mirror the Like and Comment rows.
type Post struct {
	ID           string    `gorm:"primaryKey;size:36" json:"postId"`
	Body         string    `gorm:"type:text;not null" json:"body"`
	UserHandle   string    `gorm:"size:64;not null;index" json:"userHandle"`
	UserImage    string    `gorm:"type:text" json:"userImage"`
	LikeCount    int       `gorm:"not null;default:0" json:"likeCount"`
	CommentCount int       `gorm:"not null;default:0" json:"commentCount"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
