package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/socialnet/models"
	"github.com/cppla/socialnet/utils"
)

type UserService struct {
	db *gorm.DB
}

// BioUpdate carries the bio fields to change; nil leaves a field untouched.
type BioUpdate struct {
	AboutMe  *string
	Website  *string
	Location *string
}

// Empty reports whether no field was supplied.
func (b BioUpdate) Empty() bool {
	return b.AboutMe == nil && b.Website == nil && b.Location == nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, translate(err)
}

func (s *UserService) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *UserService) FindByHandle(ctx context.Context, handle string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("handle = ?", handle).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// NormalizeEmail trims and lower-cases an address so lookups match on every driver.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Taken reports which of handle and email already belong to a user.
func (s *UserService) Taken(ctx context.Context, handle, email string) (handleTaken, emailTaken bool, err error) {
	var n int64
	if err = s.db.WithContext(ctx).Model(&models.User{}).Where("handle = ?", handle).Count(&n).Error; err != nil {
		return false, false, err
	}
	handleTaken = n > 0
	if err = s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", NormalizeEmail(email)).Count(&n).Error; err != nil {
		return false, false, err
	}
	emailTaken = n > 0
	return handleTaken, emailTaken, nil
}

// Register persists a new user with a hashed password. A unique-index violation
// surfaces as ErrDuplicate.
func (s *UserService) Register(ctx context.Context, handle, email, password string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{Handle: handle, Email: NormalizeEmail(email), Password: hash}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Authenticate returns the user owning email when password matches. Unknown email
// and wrong password both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error; err != nil {
		if translate(err) == ErrNotFound {
			utils.RejectPassword(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *UserService) UpdateBio(ctx context.Context, id string, bio BioUpdate) error {
	updates := map[string]interface{}{}
	if bio.AboutMe != nil {
		updates["bio_about_me"] = *bio.AboutMe
	}
	if bio.Website != nil {
		updates["bio_website"] = *bio.Website
	}
	if bio.Location != nil {
		updates["bio_location"] = *bio.Location
	}
	if len(updates) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

// UpdateImage stores image on the user and copies it onto the user's posts and comments.
func (s *UserService) UpdateImage(ctx context.Context, user *models.User, image string) error {
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("bio_image", image).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Post{}).Where("user_handle = ?", user.Handle).Update("user_image", image).Error; err != nil {
		return err
	}
	return db.Model(&models.Comment{}).Where("user_handle = ?", user.Handle).Update("user_image", image).Error
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
