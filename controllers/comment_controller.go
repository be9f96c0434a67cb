package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/socialnet/middleware"
	"github.com/cppla/socialnet/models"
	"github.com/cppla/socialnet/services"
	"github.com/cppla/socialnet/utils"
)

// CommentOnPost adds a comment and bumps commentCount.
func (p *PostController) CommentOnPost(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid request payload")
		return
	}
	body := utils.Sanitize(strings.TrimSpace(req.Body))
	if body == "" {
		utils.ValidationError(ctx, 40051, map[string]string{"comment": msgEmpty})
		return
	}

	postID := ctx.Param("postId")
	rctx := ctx.Request.Context()
	s := p.svc(ctx)
	post, ok := p.loadPost(ctx, s, postID)
	if !ok {
		return
	}

	comment := models.Comment{
		PostID:     postID,
		UserHandle: user.Handle,
		UserImage:  user.Bio.Image,
		Body:       body,
	}
	if err := s.Comments.Create(rctx, &comment); err != nil {
		storeFailure(ctx, 50050, "failed to create comment", err)
		return
	}
	if err := s.Posts.AdjustComments(rctx, postID, 1); err != nil {
		storeFailure(ctx, 50051, "failed to update comment count", err)
		return
	}

	setNotification(ctx, notificationIntent{
		Recipient: post.UserHandle,
		PostID:    postID,
		Sender:    user.Handle,
		Type:      models.NotificationTypeComment,
		TypeID:    comment.ID,
	})
	p.invalidate(ctx, cacheKeyPostList, cacheKeyPostDetail+postID, cacheKeyUserDetail)
	middleware.Reply(ctx, http.StatusCreated, comment)
}

// DeleteComment removes one of the caller's comments from a post.
// The comment id may arrive in the JSON body or as ?commentId=.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	var req struct {
		CommentID string `json:"commentId"`
	}
	_ = ctx.ShouldBindJSON(&req)
	commentID := strings.TrimSpace(req.CommentID)
	if commentID == "" {
		commentID = strings.TrimSpace(ctx.Query("commentId"))
	}
	if commentID == "" {
		utils.ValidationError(ctx, 40052, map[string]string{"commentId": msgEmpty})
		return
	}

	postID := ctx.Param("postId")
	rctx := ctx.Request.Context()
	s := p.svc(ctx)
	_, err := s.Comments.GetOwned(rctx, commentID, postID, user.Handle)
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40450, "Comment not found")
		return
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40350, "Unauthorized")
		return
	case err != nil:
		storeFailure(ctx, 50052, "failed to load comment", err)
		return
	}

	if err := s.Comments.Delete(rctx, commentID); err != nil {
		storeFailure(ctx, 50053, "failed to delete comment", err)
		return
	}
	if err := s.Posts.AdjustComments(rctx, postID, -1); err != nil {
		storeFailure(ctx, 50054, "failed to update comment count", err)
		return
	}

	setNotification(ctx, notificationIntent{
		PostID: postID,
		Sender: user.Handle,
		Type:   models.NotificationTypeComment,
		TypeID: commentID,
	})
	p.invalidate(ctx, cacheKeyPostList, cacheKeyPostDetail+postID, cacheKeyUserDetail)
	middleware.Reply(ctx, http.StatusOK, utils.MessageBody{Message: "Comment successfully removed"})
}
