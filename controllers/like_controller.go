package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/socialnet/middleware"
	"github.com/cppla/socialnet/models"
	"github.com/cppla/socialnet/services"
	"github.com/cppla/socialnet/utils"
)

// LikePost records the caller's like and bumps likeCount. The notification for the
// post owner is left to the next stage in the chain.
func (p *PostController) LikePost(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	postID := ctx.Param("postId")
	rctx := ctx.Request.Context()
	s := p.svc(ctx)
	post, ok := p.loadPost(ctx, s, postID)
	if !ok {
		return
	}

	like, err := s.Likes.Create(rctx, user.Handle, postID)
	if errors.Is(err, services.ErrAlreadyLiked) {
		utils.Error(ctx, http.StatusBadRequest, 40040, "Post already liked")
		return
	}
	if err != nil {
		storeFailure(ctx, 50040, "failed to like post", err)
		return
	}
	if err := s.Posts.AdjustLikes(rctx, postID, 1); err != nil {
		storeFailure(ctx, 50041, "failed to update like count", err)
		return
	}
	post.LikeCount++

	setNotification(ctx, notificationIntent{
		Recipient: post.UserHandle,
		PostID:    postID,
		Sender:    user.Handle,
		Type:      models.NotificationTypeLike,
		TypeID:    like.ID,
	})
	p.invalidate(ctx, cacheKeyPostList, cacheKeyPostDetail+postID, cacheKeyUserDetail)
	middleware.Reply(ctx, http.StatusOK, post)
}

// UnlikePost removes the caller's like and decrements likeCount.
func (p *PostController) UnlikePost(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	postID := ctx.Param("postId")
	rctx := ctx.Request.Context()
	s := p.svc(ctx)
	post, ok := p.loadPost(ctx, s, postID)
	if !ok {
		return
	}

	like, err := s.Likes.Remove(rctx, user.Handle, postID)
	if errors.Is(err, services.ErrNotLiked) {
		utils.Error(ctx, http.StatusBadRequest, 40041, "Post not liked")
		return
	}
	if err != nil {
		storeFailure(ctx, 50042, "failed to unlike post", err)
		return
	}
	if err := s.Posts.AdjustLikes(rctx, postID, -1); err != nil {
		storeFailure(ctx, 50043, "failed to update like count", err)
		return
	}
	if post.LikeCount > 0 {
		post.LikeCount--
	}

	setNotification(ctx, notificationIntent{
		Recipient: post.UserHandle,
		PostID:    postID,
		Sender:    user.Handle,
		Type:      models.NotificationTypeLike,
		TypeID:    like.ID,
	})
	p.invalidate(ctx, cacheKeyPostList, cacheKeyPostDetail+postID, cacheKeyUserDetail)
	middleware.Reply(ctx, http.StatusOK, post)
}
