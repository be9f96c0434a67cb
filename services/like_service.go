package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cppla/socialnet/models"
)

type LikeService struct {
	db *gorm.DB
}

func (s *LikeService) List(ctx context.Context) ([]models.Like, error) {
	var likes []models.Like
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&likes).Error
	return likes, translate(err)
}

func (s *LikeService) ListByHandle(ctx context.Context, handle string) ([]models.Like, error) {
	var likes []models.Like
	err := s.db.WithContext(ctx).Where("user_handle = ?", handle).Order("created_at DESC").Find(&likes).Error
	return likes, translate(err)
}

func (s *LikeService) Find(ctx context.Context, handle, postID string) (*models.Like, error) {
	var like models.Like
	if err := s.db.WithContext(ctx).Where("user_handle = ? AND post_id = ?", handle, postID).First(&like).Error; err != nil {
		return nil, translate(err)
	}
	return &like, nil
}

// Create inserts the like for (handle, postID). An existing like, whether found up
// front or rejected by the unique index, yields ErrAlreadyLiked.
func (s *LikeService) Create(ctx context.Context, handle, postID string) (*models.Like, error) {
	if _, err := s.Find(ctx, handle, postID); err == nil {
		return nil, ErrAlreadyLiked
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	like := models.Like{UserHandle: handle, PostID: postID}
	if err := s.db.WithContext(ctx).Create(&like).Error; err != nil {
		if errors.Is(translate(err), ErrDuplicate) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}
	return &like, nil
}

// Remove deletes the like for (handle, postID) and returns it, or ErrNotLiked.
func (s *LikeService) Remove(ctx context.Context, handle, postID string) (*models.Like, error) {
	like, err := s.Find(ctx, handle, postID)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotLiked
	}
	if err != nil {
		return nil, err
	}
	res := s.db.WithContext(ctx).Where("id = ?", like.ID).Delete(&models.Like{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotLiked
	}
	return like, nil
}

// DeleteByPost removes every like on postID.
func (s *LikeService) DeleteByPost(ctx context.Context, postID string) error {
	return s.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.Like{}).Error
}
