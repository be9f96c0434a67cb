package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationType names the action that produced a notification.
type NotificationType string

const (
	NotificationTypeLike    NotificationType = "like"
	NotificationTypeComment NotificationType = "comment"
)

// Notification tells Recipient that Sender liked or commented on PostID.
// TypeID is the ID of the triggering Like or Comment, so each trigger has at most one notification.
type Notification struct {
	ID        string           `gorm:"primaryKey;size:36" json:"notificationId"`
	Recipient string           `gorm:"size:64;not null;index" json:"recipient"`
	Sender    string           `gorm:"size:64;not null;index" json:"sender"`
	PostID    string           `gorm:"size:36;not null;index" json:"postId"`
	Type      NotificationType `gorm:"size:16;not null;uniqueIndex:idx_notification_trigger" json:"type"`
	TypeID    string           `gorm:"size:36;not null;uniqueIndex:idx_notification_trigger" json:"typeId"`
	Read      bool             `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time        `gorm:"index" json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// All lists every model for migration.
func All() []interface{} {
	return []interface{}{&User{}, &Post{}, &Comment{}, &Like{}, &Notification{}}
}
