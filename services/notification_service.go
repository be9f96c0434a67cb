package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/socialnet/models"
)

type NotificationService struct {
	db *gorm.DB
}

// ListForRecipient returns the notifications addressed to handle, newest first.
func (s *NotificationService) ListForRecipient(ctx context.Context, handle string) ([]models.Notification, error) {
	var list []models.Notification
	err := s.db.WithContext(ctx).Where("recipient = ?", handle).Order("created_at DESC").Find(&list).Error
	return list, translate(err)
}

// Create records that sender acted on recipient's post. It does nothing when the two
// are the same user, and running it twice for one trigger keeps a single row.
func (s *NotificationService) Create(ctx context.Context, recipient, postID, sender string, typ models.NotificationType, typeID string) (*models.Notification, error) {
	if sender == recipient {
		return nil, nil
	}
	var n models.Notification
	err := s.db.WithContext(ctx).
		Where(&models.Notification{Type: typ, TypeID: typeID}).
		Attrs(models.Notification{Recipient: recipient, PostID: postID, Sender: sender}).
		FirstOrCreate(&n).Error
	if err != nil {
		return nil, translate(err)
	}
	return &n, nil
}

// MarkRead sets read on the recipient's notification id. Repeating it is harmless.
func (s *NotificationService) MarkRead(ctx context.Context, id, recipient string) error {
	var n models.Notification
	if err := s.db.WithContext(ctx).Where("id = ? AND recipient = ?", id, recipient).First(&n).Error; err != nil {
		return translate(err)
	}
	if n.Read {
		return nil
	}
	return s.db.WithContext(ctx).Model(&n).Update("read", true).Error
}

// DeleteByTrigger removes the notification produced by the given like or comment.
func (s *NotificationService) DeleteByTrigger(ctx context.Context, typ models.NotificationType, typeID string) (int64, error) {
	res := s.db.WithContext(ctx).Where(&models.Notification{Type: typ, TypeID: typeID}).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}

func (s *NotificationService) DeleteByID(ctx context.Context, id, recipient string) error {
	res := s.db.WithContext(ctx).Where("id = ? AND recipient = ?", id, recipient).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByPost removes all notifications referencing postID.
func (s *NotificationService) DeleteByPost(ctx context.Context, postID string) error {
	return s.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Notification{}).Error
}

// DeleteByUser removes every notification handle sent or received.
func (s *NotificationService) DeleteByUser(ctx context.Context, handle string) error {
	return s.db.WithContext(ctx).Where("recipient = ? OR sender = ?", handle, handle).Delete(&models.Notification{}).Error
}
