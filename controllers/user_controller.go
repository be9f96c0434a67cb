package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/socialnet/middleware"
	"github.com/cppla/socialnet/services"
	"github.com/cppla/socialnet/utils"
)

const defaultMaxImageBytes = 2 << 20

// UserController serves profiles, user and like listings, and account deletion.
type UserController struct {
	base
	blacklist     *utils.TokenBlacklist
	maxImageBytes int64
}

func NewUserController(d Deps) *UserController {
	limit := d.MaxImageBytes
	if limit <= 0 {
		limit = defaultMaxImageBytes
	}
	return &UserController{base: newBase(d), blacklist: d.Blacklist, maxImageBytes: limit}
}

// ListUsers returns every user's public summary.
func (u *UserController) ListUsers(ctx *gin.Context) {
	if u.cached(ctx, cacheKeyUserList) {
		return
	}
	users, err := u.svc(ctx).Users.List(ctx.Request.Context())
	if err != nil {
		storeFailure(ctx, 50010, "failed to list users", err)
		return
	}
	if len(users) == 0 {
		utils.Message(ctx, http.StatusOK, "No users found")
		return
	}
	list := toUserList(users)
	u.cache.SetJSON(ctx.Request.Context(), cacheKeyUserList, list)
	ctx.JSON(http.StatusOK, list)
}

// ListLikes returns every like as {userHandle, postId}.
func (u *UserController) ListLikes(ctx *gin.Context) {
	likes, err := u.svc(ctx).Likes.List(ctx.Request.Context())
	if err != nil {
		storeFailure(ctx, 50011, "failed to list likes", err)
		return
	}
	if len(likes) == 0 {
		utils.Message(ctx, http.StatusOK, "No likes found")
		return
	}
	ctx.JSON(http.StatusOK, toLikeList(likes))
}

// Me returns the caller's own profile and likes.
func (u *UserController) Me(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	likes, err := u.svc(ctx).Likes.ListByHandle(ctx.Request.Context(), user.Handle)
	if err != nil {
		storeFailure(ctx, 50012, "failed to load likes", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"user": userResponse(user, true),
		"like": toLikeList(likes),
	})
}

// Detail composes a user's public profile, likes and posts.
func (u *UserController) Detail(ctx *gin.Context) {
	handle := strings.TrimSpace(ctx.Param("userHandle"))
	cacheKey := cacheKeyUserDetail + handle
	if u.cached(ctx, cacheKey) {
		return
	}

	rctx := ctx.Request.Context()
	s := u.svc(ctx)
	user, err := s.Users.FindByHandle(rctx, handle)
	if errors.Is(err, services.ErrNotFound) {
		utils.Error(ctx, http.StatusNotFound, 40410, "User not found")
		return
	}
	if err != nil {
		storeFailure(ctx, 50013, "failed to load user", err)
		return
	}
	likes, err := s.Likes.ListByHandle(rctx, handle)
	if err != nil {
		storeFailure(ctx, 50014, "failed to load likes", err)
		return
	}
	posts, err := s.Posts.ListByHandle(rctx, handle)
	if err != nil {
		storeFailure(ctx, 50015, "failed to load posts", err)
		return
	}

	payload := gin.H{
		"user": userResponse(user, false),
		"like": toLikeList(likes),
		"post": nonNilPosts(posts),
	}
	u.cache.SetJSON(rctx, cacheKey, payload)
	ctx.JSON(http.StatusOK, payload)
}

// UpdateDetail applies a partial update to the caller's bio.
func (u *UserController) UpdateDetail(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	var req struct {
		AboutMe  *string `json:"aboutMe"`
		Website  *string `json:"website"`
		Location *string `json:"location"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	update := services.BioUpdate{
		AboutMe:  cleanField(req.AboutMe),
		Website:  cleanField(req.Website),
		Location: cleanField(req.Location),
	}
	if update.Empty() {
		utils.Message(ctx, http.StatusBadRequest, "At least one valid input is needed")
		ctx.Abort()
		return
	}
	if update.Website != nil {
		site := normalizeWebsite(*update.Website)
		update.Website = &site
	}

	if err := u.svc(ctx).Users.UpdateBio(ctx.Request.Context(), user.ID, update); err != nil {
		storeFailure(ctx, 50016, "failed to update profile", err)
		return
	}
	u.invalidate(ctx, cacheKeyUserList, cacheKeyUserDetail+user.Handle)
	utils.Message(ctx, http.StatusOK, "Profile updated successfully")
}

// cleanField sanitizes v and treats blank values as absent.
func cleanField(v *string) *string {
	if v == nil {
		return nil
	}
	s := utils.SanitizePlain(*v)
	if s == "" {
		return nil
	}
	return &s
}

func normalizeWebsite(site string) string {
	if strings.HasPrefix(site, "http://") || strings.HasPrefix(site, "https://") {
		return site
	}
	return "http://" + site
}

// UploadImage stores a profile image as a data URI and propagates it to the user's
// posts and comments. The change is confirmed by re-reading the user.
func (u *UserController) UploadImage(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}

	fh, err := imageFile(ctx)
	if err != nil {
		utils.Message(ctx, http.StatusBadRequest, "No image provided")
		ctx.Abort()
		return
	}
	if fh.Size > u.maxImageBytes {
		utils.Error(ctx, http.StatusRequestEntityTooLarge, 41301, "Image is too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40011, "failed to read image")
		return
	}
	defer f.Close()

	image, err := utils.ImageDataURI(f, u.maxImageBytes)
	switch {
	case errors.Is(err, utils.ErrImageTooLarge):
		utils.Error(ctx, http.StatusRequestEntityTooLarge, 41301, "Image is too large")
		return
	case errors.Is(err, utils.ErrNotAnImage):
		utils.Error(ctx, http.StatusBadRequest, 40012, "Wrong file type submitted")
		return
	case err != nil:
		utils.Error(ctx, http.StatusBadRequest, 40011, "failed to read image")
		return
	}

	rctx := ctx.Request.Context()
	s := u.svc(ctx)
	if err := s.Users.UpdateImage(rctx, user, image); err != nil {
		storeFailure(ctx, 50017, "failed to store image", err)
		return
	}
	stored, err := s.Users.FindByID(rctx, user.ID)
	if err != nil {
		storeFailure(ctx, 50018, "failed to reload user", err)
		return
	}
	if stored.Bio.Image != image {
		utils.Error(ctx, http.StatusInternalServerError, 50019, "Something went wrong, please try again")
		return
	}

	u.invalidate(ctx, cacheKeyAll)
	middleware.Reply(ctx, http.StatusOK, utils.MessageBody{Message: "Image uploaded successfully"})
}

func imageFile(ctx *gin.Context) (*multipart.FileHeader, error) {
	if fh, err := ctx.FormFile("image"); err == nil {
		return fh, nil
	}
	return ctx.FormFile("file")
}

// Delete removes the caller's own account and everything that belongs to it.
func (u *UserController) Delete(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	if ctx.Param("userHandle") != user.Handle {
		utils.Error(ctx, http.StatusForbidden, 40320, "Unauthorized")
		return
	}

	if err := deleteUserCascade(ctx.Request.Context(), u.svc(ctx), user); err != nil {
		storeFailure(ctx, 50020, "failed to delete user", err)
		return
	}

	token, expiresAt := middleware.CurrentToken(ctx)
	middleware.AfterCommit(ctx, func() {
		u.blacklist.Revoke(ctx.Request.Context(), token, expiresAt)
	})
	u.invalidate(ctx, cacheKeyAll)
	middleware.Reply(ctx, http.StatusOK, utils.MessageBody{Message: "User successfully deleted"})
}
