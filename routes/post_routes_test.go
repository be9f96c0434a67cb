package routes

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/socialnet/models"
)

func TestPostListAndDetail(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/api/post", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	alice := app.register("alice")
	rec = app.do(http.MethodPost, "/api/post", alice, map[string]string{"body": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Must not be empty", errorFields(t, rec)["body"])

	post := app.createPost(alice, "hello world")
	assert.Equal(t, "alice", post.UserHandle)
	assert.Zero(t, post.LikeCount)
	assert.Zero(t, post.CommentCount)

	rec = app.do(http.MethodGet, "/api/post", "", nil)
	var posts []models.Post
	decode(t, rec, &posts)
	require.Len(t, posts, 1)
	assert.Equal(t, "hello world", posts[0].Body)

	rec = app.do(http.MethodGet, "/api/post/"+post.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		models.Post
		Comments []models.Comment `json:"comments"`
	}
	decode(t, rec, &detail)
	assert.Equal(t, post.ID, detail.ID)
	assert.NotNil(t, detail.Comments)

	rec = app.do(http.MethodGet, "/api/post/missing", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", errorMessage(t, rec))
}

func TestLikeUnlike(t *testing.T) {
	app := newTestApp(t)
	alice := app.register("alice")
	bob := app.register("bob")
	post := app.createPost(alice, "hello")

	rec := app.do(http.MethodGet, "/api/post/"+post.ID+"/like", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var liked models.Post
	decode(t, rec, &liked)
	assert.Equal(t, 1, liked.LikeCount)

	notes := app.notifications(alice)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationTypeLike, notes[0].Type)
	assert.Equal(t, "bob", notes[0].Sender)
	assert.Equal(t, "alice", notes[0].Recipient)
	assert.Equal(t, post.ID, notes[0].PostID)
	assert.False(t, notes[0].Read)

	rec = app.do(http.MethodGet, "/api/post/"+post.ID+"/like", bob, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Post already liked", errorMessage(t, rec))
	assert.EqualValues(t, 1, app.count(&models.Like{}, ""))
	assert.EqualValues(t, 1, app.count(&models.Notification{}, ""))
	assert.Equal(t, 1, app.getPost(post.ID).LikeCount)

	rec = app.do(http.MethodGet, "/api/post/"+post.ID+"/unlike", bob, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"like successfully removed"}`, rec.Body.String())
	assert.Equal(t, 0, app.getPost(post.ID).LikeCount)
	assert.Zero(t, app.count(&models.Like{}, ""))
	assert.Empty(t, app.notifications(alice))

	rec = app.do(http.MethodGet, "/api/post/"+post.ID+"/unlike", bob, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Post not liked", errorMessage(t, rec))
	assert.Equal(t, 0, app.getPost(post.ID).LikeCount)

	rec = app.do(http.MethodGet, "/api/post/missing/like", bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelfLikeHasNoNotification(t *testing.T) {
	app := newTestApp(t)
	alice := app.register("alice")
	post := app.createPost(alice, "hello")

	rec := app.do(http.MethodGet, "/api/post/"+post.ID+"/like", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, app.count(&models.Like{}, ""))
	assert.Zero(t, app.count(&models.Notification{}, ""))

	rec = app.do(http.MethodPost, "/api/post/"+post.ID+"/comment", alice, map[string]string{"body": "me again"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Zero(t, app.count(&models.Notification{}, ""))
}

func TestCommentUncomment(t *testing.T) {
	app := newTestApp(t)
	alice := app.register("alice")
	bob := app.register("bob")
	carol := app.register("carol")
	post := app.createPost(alice, "hello")
	otherPost := app.createPost(alice, "another")

	rec := app.do(http.MethodPost, "/api/post/"+post.ID+"/comment", bob, map[string]string{"body": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Must not be empty", errorFields(t, rec)["comment"])

	rec = app.do(http.MethodPost, "/api/post/"+post.ID+"/comment", bob, map[string]string{"body": "nice post"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var comment models.Comment
	decode(t, rec, &comment)
	assert.Equal(t, "bob", comment.UserHandle)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, 1, app.getPost(post.ID).CommentCount)

	notes := app.notifications(alice)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationTypeComment, notes[0].Type)
	assert.Equal(t, comment.ID, notes[0].TypeID)

	rec = app.do(http.MethodGet, "/api/post/"+post.ID+"/comment", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var comments []models.Comment
	decode(t, rec, &comments)
	require.Len(t, comments, 1)

	rec = app.do(http.MethodDelete, "/api/post/"+post.ID+"/uncomment", carol, map[string]string{"commentId": comment.ID})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodDelete, "/api/post/"+otherPost.ID+"/uncomment", bob, map[string]string{"commentId": comment.ID})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodDelete, "/api/post/"+post.ID+"/uncomment?commentId="+comment.ID, bob, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"comment successfully removed"}`, rec.Body.String())
	assert.Equal(t, 0, app.getPost(post.ID).CommentCount)
	assert.Zero(t, app.count(&models.Comment{}, ""))
	assert.Empty(t, app.notifications(alice))
}

func TestDeletePostCascade(t *testing.T) {
	app := newTestApp(t)
	alice := app.register("alice")
	bob := app.register("bob")
	post := app.createPost(alice, "hello")
	keep := app.createPost(alice, "keep me")

	require.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/post/"+post.ID+"/like", bob, nil).Code)
	require.Equal(t, http.StatusCreated, app.do(http.MethodPost, "/api/post/"+post.ID+"/comment", bob, map[string]string{"body": "c1"}).Code)
	require.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/post/"+keep.ID+"/like", bob, nil).Code)

	rec := app.do(http.MethodDelete, "/api/post/"+post.ID, bob, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodDelete, "/api/post/"+post.ID, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"message":"Post successfully deleted"}`, rec.Body.String())

	assert.Zero(t, app.count(&models.Comment{}, "post_id = ?", post.ID))
	assert.Zero(t, app.count(&models.Like{}, "post_id = ?", post.ID))
	assert.Zero(t, app.count(&models.Notification{}, "post_id = ?", post.ID))
	assert.EqualValues(t, 1, app.count(&models.Like{}, "post_id = ?", keep.ID))
	assert.EqualValues(t, 1, app.count(&models.Notification{}, "post_id = ?", keep.ID))

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/api/post/"+post.ID, "", nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodDelete, "/api/post/"+post.ID, alice, nil).Code)
}

func TestPostCacheInvalidation(t *testing.T) {
	app := newTestApp(t)
	alice := app.register("alice")
	bob := app.register("bob")
	post := app.createPost(alice, "hello")

	require.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/post", "", nil).Code)
	require.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/post/"+post.ID, "", nil).Code)
	assert.True(t, app.redis.Exists("cache:posts:list"))
	assert.True(t, app.redis.Exists("cache:post:detail:"+post.ID))

	require.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/post/"+post.ID+"/like", bob, nil).Code)
	assert.False(t, app.redis.Exists("cache:posts:list"))
	assert.False(t, app.redis.Exists("cache:post:detail:"+post.ID))

	rec := app.do(http.MethodGet, "/api/post/"+post.ID, "", nil)
	var detail models.Post
	decode(t, rec, &detail)
	assert.Equal(t, 1, detail.LikeCount)
}

func TestNotificationRoutes(t *testing.T) {
	app := newTestApp(t)
	alice := app.register("alice")
	bob := app.register("bob")
	post := app.createPost(alice, "hello")
	require.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/post/"+post.ID+"/like", bob, nil).Code)

	assert.Empty(t, app.notifications(bob), "only the recipient sees a notification")
	notes := app.notifications(alice)
	require.Len(t, notes, 1)
	id := notes[0].ID

	rec := app.do(http.MethodPost, "/api/user/notification", bob, map[string]string{"notificationId": id})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for i := 0; i < 2; i++ {
		rec = app.do(http.MethodPost, "/api/user/notification", alice, map[string]string{"notificationId": id})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.JSONEq(t, `{"message":"Notifications marked read"}`, rec.Body.String())
	}
	notes = app.notifications(alice)
	require.Len(t, notes, 1)
	assert.True(t, notes[0].Read)

	rec = app.do(http.MethodPost, "/api/user/notification", alice, map[string]string{"notificationId": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = app.do(http.MethodDelete, "/api/user/notification/"+id, bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = app.do(http.MethodDelete, "/api/user/notification/"+id, alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, app.notifications(alice))
}
