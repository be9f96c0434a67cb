package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/cppla/socialnet/models"
	"github.com/cppla/socialnet/services"
)

// deletePostCascade removes a post together with its comments, likes and notifications.
// s must be bound to a transaction.
func deletePostCascade(ctx context.Context, s *services.Services, postID string) error {
	if err := s.Comments.DeleteByPost(ctx, postID); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	if err := s.Likes.DeleteByPost(ctx, postID); err != nil {
		return fmt.Errorf("delete likes: %w", err)
	}
	if err := s.Notifications.DeleteByPost(ctx, postID); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return s.Posts.Delete(ctx, postID)
}

// deleteUserCascade removes an account and everything hanging off it: owned posts,
// likes and comments left on other posts (with their counters and notifications),
// and any notification the user sent or received.
func deleteUserCascade(ctx context.Context, s *services.Services, user *models.User) error {
	posts, err := s.Posts.ListByHandle(ctx, user.Handle)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}
	for _, p := range posts {
		if err := deletePostCascade(ctx, s, p.ID); err != nil && !errors.Is(err, services.ErrNotFound) {
			return err
		}
	}

	likes, err := s.Likes.ListByHandle(ctx, user.Handle)
	if err != nil {
		return fmt.Errorf("list likes: %w", err)
	}
	for _, l := range likes {
		if _, err := s.Likes.Remove(ctx, l.UserHandle, l.PostID); err != nil && !errors.Is(err, services.ErrNotLiked) {
			return fmt.Errorf("remove like: %w", err)
		}
		if err := s.Posts.AdjustLikes(ctx, l.PostID, -1); err != nil {
			return fmt.Errorf("decrement likes: %w", err)
		}
		if _, err := s.Notifications.DeleteByTrigger(ctx, models.NotificationTypeLike, l.ID); err != nil {
			return fmt.Errorf("delete like notification: %w", err)
		}
	}

	comments, err := s.Comments.ListByHandle(ctx, user.Handle)
	if err != nil {
		return fmt.Errorf("list comments: %w", err)
	}
	for _, c := range comments {
		if err := s.Comments.Delete(ctx, c.ID); err != nil && !errors.Is(err, services.ErrNotFound) {
			return fmt.Errorf("delete comment: %w", err)
		}
		if err := s.Posts.AdjustComments(ctx, c.PostID, -1); err != nil {
			return fmt.Errorf("decrement comments: %w", err)
		}
		if _, err := s.Notifications.DeleteByTrigger(ctx, models.NotificationTypeComment, c.ID); err != nil {
			return fmt.Errorf("delete comment notification: %w", err)
		}
	}

	if err := s.Notifications.DeleteByUser(ctx, user.Handle); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}
	return s.Users.Delete(ctx, user.ID)
}
