package client

import "time"

type Bio struct {
	AboutMe  string `json:"aboutMe"`
	Website  string `json:"website"`
	Location string `json:"location"`
	Image    string `json:"image"`
}

// User is a profile as returned by the API. Email is only present for the owner.
type User struct {
	UserID    string    `json:"userId"`
	Handle    string    `json:"handle"`
	Email     string    `json:"email,omitempty"`
	Bio       Bio       `json:"bio"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary is one row of the user list.
type UserSummary struct {
	Handle    string    `json:"handle"`
	UserImage string    `json:"userImage"`
	CreatedAt time.Time `json:"createdAt"`
	AboutMe   string    `json:"aboutMe"`
	Location  string    `json:"location"`
	Website   string    `json:"website"`
}

type Like struct {
	UserHandle string `json:"userHandle"`
	PostID     string `json:"postId"`
}

type Post struct {
	PostID       string    `json:"postId"`
	Body         string    `json:"body"`
	UserHandle   string    `json:"userHandle"`
	UserImage    string    `json:"userImage"`
	LikeCount    int       `json:"likeCount"`
	CommentCount int       `json:"commentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Comment struct {
	CommentID  string    `json:"commentId"`
	PostID     string    `json:"postId"`
	UserHandle string    `json:"userHandle"`
	UserImage  string    `json:"userImage"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Notification struct {
	NotificationID string    `json:"notificationId"`
	CreatedAt      time.Time `json:"createdAt"`
	PostID         string    `json:"postId"`
	Sender         string    `json:"sender"`
	Recipient      string    `json:"recipient"`
	Type           string    `json:"type"`
	TypeID         string    `json:"typeId"`
	Read           bool      `json:"read"`
}

// PostDetail is a post together with its comments.
type PostDetail struct {
	Post
	Comments []Comment `json:"comments"`
}

// Profile is what GET /api/user returns for the caller.
type Profile struct {
	User User   `json:"user"`
	Like []Like `json:"like"`
}

// UserDetail is a public profile with the user's likes and posts.
type UserDetail struct {
	User User   `json:"user"`
	Like []Like `json:"like"`
	Post []Post `json:"post"`
}

// BioUpdate leaves nil fields unchanged.
type BioUpdate struct {
	AboutMe  *string `json:"aboutMe,omitempty"`
	Website  *string `json:"website,omitempty"`
	Location *string `json:"location,omitempty"`
}

type RegisterRequest struct {
	Handle          string `json:"handle"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}
