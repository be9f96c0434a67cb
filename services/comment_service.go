package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/socialnet/models"
)

type CommentService struct {
	db *gorm.DB
}

// ListByPost returns a post's comments, oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	return comments, translate(err)
}

func (s *CommentService) ListByHandle(ctx context.Context, handle string) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).Where("user_handle = ?", handle).Find(&comments).Error
	return comments, translate(err)
}

func (s *CommentService) Get(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

// GetOwned returns comment id of postID when handle wrote it. A comment on another
// post counts as missing.
func (s *CommentService) GetOwned(ctx context.Context, id, postID, handle string) (*models.Comment, error) {
	comment, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, ErrNotFound
	}
	if comment.UserHandle != handle {
		return comment, ErrForbidden
	}
	return comment, nil
}

func (s *CommentService) Create(ctx context.Context, comment *models.Comment) error {
	return translate(s.db.WithContext(ctx).Create(comment).Error)
}

func (s *CommentService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByPost removes every comment on postID.
func (s *CommentService) DeleteByPost(ctx context.Context, postID string) error {
	return s.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Comment{}).Error
}
