package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/cppla/socialnet/models"
)

type PostService struct {
	db *gorm.DB
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&posts).Error
	return posts, translate(err)
}

func (s *PostService) ListByHandle(ctx context.Context, handle string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).Where("user_handle = ?", handle).Order("created_at DESC").Find(&posts).Error
	return posts, translate(err)
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// GetOwned returns post id when handle wrote it, else ErrNotFound or ErrForbidden.
func (s *PostService) GetOwned(ctx context.Context, id, handle string) (*models.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.UserHandle != handle {
		return post, ErrForbidden
	}
	return post, nil
}

func (s *PostService) Create(ctx context.Context, post *models.Post) error {
	post.LikeCount = 0
	post.CommentCount = 0
	return translate(s.db.WithContext(ctx).Create(post).Error)
}

func (s *PostService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustLikes moves likeCount by delta without letting it go below zero.
func (s *PostService) AdjustLikes(ctx context.Context, id string, delta int) error {
	return s.adjust(ctx, id, "like_count", delta)
}

// AdjustComments moves commentCount by delta without letting it go below zero.
func (s *PostService) AdjustComments(ctx context.Context, id string, delta int) error {
	return s.adjust(ctx, id, "comment_count", delta)
}

func (s *PostService) adjust(ctx context.Context, id, column string, delta int) error {
	q := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where(column+" >= ?", -delta)
	}
	return q.UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}
