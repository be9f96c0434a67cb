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

// PostController manages posts and the likes and comments attached to them.
type PostController struct {
	base
}

// NewPostController creates a new PostController instance.
func NewPostController(d Deps) *PostController {
	return &PostController{base: newBase(d)}
}

// ListPosts returns every post, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	if p.cached(ctx, cacheKeyPostList) {
		return
	}
	posts, err := p.svc(ctx).Posts.List(ctx.Request.Context())
	if err != nil {
		storeFailure(ctx, 50030, "failed to list posts", err)
		return
	}
	posts = nonNilPosts(posts)
	p.cache.SetJSON(ctx.Request.Context(), cacheKeyPostList, posts)
	ctx.JSON(http.StatusOK, posts)
}

// GetPost returns a single post with its comments.
func (p *PostController) GetPost(ctx *gin.Context) {
	postID := ctx.Param("postId")
	cacheKey := cacheKeyPostDetail + postID
	if p.cached(ctx, cacheKey) {
		return
	}

	rctx := ctx.Request.Context()
	s := p.svc(ctx)
	post, ok := p.loadPost(ctx, s, postID)
	if !ok {
		return
	}
	comments, err := s.Comments.ListByPost(rctx, postID)
	if err != nil {
		storeFailure(ctx, 50031, "failed to load comments", err)
		return
	}
	payload := postDetail{Post: *post, Comments: nonNilComments(comments)}
	p.cache.SetJSON(rctx, cacheKey, payload)
	ctx.JSON(http.StatusOK, payload)
}

// ListComments returns the comments of a post, oldest first.
func (p *PostController) ListComments(ctx *gin.Context) {
	postID := ctx.Param("postId")
	s := p.svc(ctx)
	if _, ok := p.loadPost(ctx, s, postID); !ok {
		return
	}
	comments, err := s.Comments.ListByPost(ctx.Request.Context(), postID)
	if err != nil {
		storeFailure(ctx, 50032, "failed to load comments", err)
		return
	}
	ctx.JSON(http.StatusOK, nonNilComments(comments))
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	body := utils.Sanitize(strings.TrimSpace(req.Body))
	if body == "" {
		utils.ValidationError(ctx, 40031, map[string]string{"body": msgEmpty})
		return
	}

	post := models.Post{
		Body:       body,
		UserHandle: user.Handle,
		UserImage:  user.Bio.Image,
	}
	if err := p.svc(ctx).Posts.Create(ctx.Request.Context(), &post); err != nil {
		storeFailure(ctx, 50033, "failed to create post", err)
		return
	}

	p.invalidate(ctx, cacheKeyPostList, cacheKeyUserDetail+user.Handle)
	middleware.Reply(ctx, http.StatusCreated, post)
}

// DeletePost removes the caller's post with its comments, likes and notifications.
func (p *PostController) DeletePost(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	postID := ctx.Param("postId")
	s := p.svc(ctx)
	_, err := s.Posts.GetOwned(ctx.Request.Context(), postID, user.Handle)
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40430, "Post not found")
		return
	case errors.Is(err, services.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, 40330, "Unauthorized")
		return
	case err != nil:
		storeFailure(ctx, 50035, "failed to load post", err)
		return
	}

	if err := deletePostCascade(ctx.Request.Context(), s, postID); err != nil {
		storeFailure(ctx, 50034, "failed to delete post", err)
		return
	}

	p.invalidate(ctx, cacheKeyPostList, cacheKeyPostDetail+postID, cacheKeyUserDetail)
	middleware.Reply(ctx, http.StatusOK, utils.MessageBody{Message: "Post successfully deleted"})
}

// loadPost fetches postID and answers 404 or 500 when it cannot.
func (p *PostController) loadPost(ctx *gin.Context, s *services.Services, postID string) (*models.Post, bool) {
	post, err := s.Posts.Get(ctx.Request.Context(), postID)
	if errors.Is(err, services.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40430, "Post not found")
		return nil, false
	}
	if err != nil {
		storeFailure(ctx, 50035, "failed to load post", err)
		return nil, false
	}
	return post, true
}
