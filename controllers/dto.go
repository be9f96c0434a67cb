package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/socialnet/models"
)

type userListItem struct {
	Handle    string    `json:"handle"`
	UserImage string    `json:"userImage"`
	CreatedAt time.Time `json:"createdAt"`
	AboutMe   string    `json:"aboutMe"`
	Location  string    `json:"location"`
	Website   string    `json:"website"`
}

type likeItem struct {
	UserHandle string `json:"userHandle"`
	PostID     string `json:"postId"`
}

type postDetail struct {
	models.Post
	Comments []models.Comment `json:"comments"`
}

// userResponse hides the email from everyone but the account owner.
func userResponse(user *models.User, owner bool) gin.H {
	h := gin.H{
		"userId":    user.ID,
		"handle":    user.Handle,
		"createdAt": user.CreatedAt,
		"bio":       user.Bio,
	}
	if owner {
		h["email"] = user.Email
	}
	return h
}

func toUserList(users []models.User) []userListItem {
	out := make([]userListItem, 0, len(users))
	for _, u := range users {
		out = append(out, userListItem{
			Handle:    u.Handle,
			UserImage: u.Bio.Image,
			CreatedAt: u.CreatedAt,
			AboutMe:   u.Bio.AboutMe,
			Location:  u.Bio.Location,
			Website:   u.Bio.Website,
		})
	}
	return out
}

func toLikeList(likes []models.Like) []likeItem {
	out := make([]likeItem, 0, len(likes))
	for _, l := range likes {
		out = append(out, likeItem{UserHandle: l.UserHandle, PostID: l.PostID})
	}
	return out
}

func nonNilPosts(posts []models.Post) []models.Post {
	if posts == nil {
		return []models.Post{}
	}
	return posts
}

func nonNilComments(comments []models.Comment) []models.Comment {
	if comments == nil {
		return []models.Comment{}
	}
	return comments
}
