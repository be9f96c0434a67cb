package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/socialnet/config"
	"github.com/cppla/socialnet/models"
)

type testApp struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	redis  *miniredis.Miniredis
}

func testConfig() config.AppConfig {
	return config.AppConfig{
		JWTSecret:          "test-secret",
		TokenTTLHours:      1,
		AllowedOrigins:     []string{"*"},
		MaxImageBytes:      1 << 20,
		RateLimitPerMinute: 100000,
		DBDriver:           "sqlite",
		DatabaseURI:        "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		CacheTTLSeconds:    60,
		GinMode:            "test",
		LogLevel:           "silent",
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := testConfig()
	db, err := config.OpenDatabase(cfg, models.All()...)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return &testApp{t: t, router: SetupRouter(cfg, db, rdb), db: db, redis: mr}
}

func (a *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) register(handle string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/user/register", "", map[string]string{
		"handle":          handle,
		"email":           handle + "@example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	decode(a.t, rec, &out)
	require.NotEmpty(a.t, out.Token)
	return out.Token
}

func (a *testApp) createPost(token, body string) models.Post {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/post", token, map[string]string{"body": body})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var post models.Post
	decode(a.t, rec, &post)
	require.NotEmpty(a.t, post.ID)
	return post
}

func (a *testApp) getPost(id string) models.Post {
	a.t.Helper()
	var post models.Post
	require.NoError(a.t, a.db.Where("id = ?", id).First(&post).Error)
	return post
}

func (a *testApp) count(model interface{}, query string, args ...interface{}) int64 {
	a.t.Helper()
	var n int64
	q := a.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(a.t, q.Count(&n).Error)
	return n
}

func (a *testApp) notifications(token string) []models.Notification {
	a.t.Helper()
	rec := a.do(http.MethodGet, "/api/user/notification", token, nil)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var list []models.Notification
	decode(a.t, rec, &list)
	return list
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
}

type errorBody struct {
	Code  int             `json:"code"`
	Error json.RawMessage `json:"error"`
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	decode(t, rec, &body)
	var msg string
	require.NoError(t, json.Unmarshal(body.Error, &msg), rec.Body.String())
	return msg
}

func errorFields(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body errorBody
	decode(t, rec, &body)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(body.Error, &fields), rec.Body.String())
	return fields
}
