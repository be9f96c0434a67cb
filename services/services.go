// Package services holds single-entity reads and writes. Methods report outcomes
// through the sentinel errors below; there are no "error-shaped" documents.
package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicate          = errors.New("duplicate record")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyLiked       = errors.New("post already liked")
	ErrNotLiked           = errors.New("post not liked")
	// ErrForbidden means the record exists but belongs to someone else.
	ErrForbidden = errors.New("not the owner")
)

// Services bundles the per-entity services over one database handle.
type Services struct {
	db            *gorm.DB
	Users         *UserService
	Posts         *PostService
	Comments      *CommentService
	Likes         *LikeService
	Notifications *NotificationService
}

// New builds the services over db, which may be a pool or an open transaction.
func New(db *gorm.DB) *Services {
	return &Services{
		db:            db,
		Users:         &UserService{db: db},
		Posts:         &PostService{db: db},
		Comments:      &CommentService{db: db},
		Likes:         &LikeService{db: db},
		Notifications: &NotificationService{db: db},
	}
}

// WithDB returns the same services bound to another handle, typically a transaction.
func (s *Services) WithDB(db *gorm.DB) *Services {
	return New(db)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
