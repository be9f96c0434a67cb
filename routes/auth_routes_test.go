package routes

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/socialnet/models"
)

func TestRegisterValidation(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodPost, "/api/user/register", "", map[string]string{
		"handle":          "",
		"email":           "not-an-email",
		"password":        "abc",
		"confirmPassword": "abd",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields := errorFields(t, rec)
	assert.Equal(t, "Must not be empty", fields["handle"])
	assert.Equal(t, "Must be a valid email address", fields["email"])
	assert.Contains(t, fields["password"], "6")
	assert.Equal(t, "Passwords must match", fields["confirmPassword"])
	assert.Zero(t, app.count(&models.User{}, ""))
}

func TestRegisterPasswordLength(t *testing.T) {
	app := newTestApp(t)

	cases := []struct {
		name   string
		handle string
		length int
		status int
	}{
		{"minimum", "min", 6, http.StatusCreated},
		{"bcrypt limit", "limit", 72, http.StatusCreated},
		{"one byte over", "over", 73, http.StatusBadRequest},
		{"far over", "far", 80, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			password := strings.Repeat("p", tc.length)
			rec := app.do(http.MethodPost, "/api/user/register", "", map[string]string{
				"handle":          tc.handle,
				"email":           tc.handle + "@example.com",
				"password":        password,
				"confirmPassword": password,
			})
			require.Equal(t, tc.status, rec.Code, rec.Body.String())
			if tc.status == http.StatusBadRequest {
				assert.Equal(t, "Password must be at most 72 bytes", errorFields(t, rec)["password"])
				assert.Zero(t, app.count(&models.User{}, "handle = ?", tc.handle))
			}
		})
	}

	rec := app.do(http.MethodPost, "/api/user/login", "", map[string]string{
		"email":    "limit@example.com",
		"password": strings.Repeat("p", 72),
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRegisterReservedHandle(t *testing.T) {
	app := newTestApp(t)

	for _, handle := range []string{"notification", "list", "like", "login", "Image"} {
		rec := app.do(http.MethodPost, "/api/user/register", "", map[string]string{
			"handle":          handle,
			"email":           strings.ToLower(handle) + "@example.com",
			"password":        "secret1",
			"confirmPassword": "secret1",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code, handle)
		assert.Equal(t, "this handle is reserved", errorFields(t, rec)["handle"], handle)
	}
	assert.Zero(t, app.count(&models.User{}, ""))
}

func TestRegisterEmailIgnoresCase(t *testing.T) {
	app := newTestApp(t)
	app.register("amy")

	rec := app.do(http.MethodPost, "/api/user/register", "", map[string]string{
		"handle":          "amy2",
		"email":           "AMY@Example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email is already in use", errorFields(t, rec)["email"])
	assert.EqualValues(t, 1, app.count(&models.User{}, ""))

	rec = app.do(http.MethodPost, "/api/user/login", "", map[string]string{"email": "Amy@EXAMPLE.com", "password": "secret1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	app := newTestApp(t)
	app.register("alice")

	rec := app.do(http.MethodPost, "/api/user/register", "", map[string]string{
		"handle":          "alice",
		"email":           "other@example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "this handle is already taken", errorFields(t, rec)["handle"])

	rec = app.do(http.MethodPost, "/api/user/register", "", map[string]string{
		"handle":          "alice2",
		"email":           "alice@example.com",
		"password":        "secret1",
		"confirmPassword": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email is already in use", errorFields(t, rec)["email"])

	assert.EqualValues(t, 1, app.count(&models.User{}, ""))
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	app.register("alice")

	rec := app.do(http.MethodPost, "/api/user/login", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Token  string `json:"token"`
		Handle string `json:"handle"`
	}
	decode(t, rec, &out)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "alice", out.Handle)

	wrongPassword := app.do(http.MethodPost, "/api/user/login", "", map[string]string{"email": "alice@example.com", "password": "nope-nope"})
	unknownEmail := app.do(http.MethodPost, "/api/user/login", "", map[string]string{"email": "ghost@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, wrongPassword.Code)
	assert.Equal(t, http.StatusForbidden, unknownEmail.Code)
	assert.Equal(t, "Wrong credentials, please try again", errorFields(t, wrongPassword)["general"])
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())

	rec = app.do(http.MethodPost, "/api/user/login", "", map[string]string{"email": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Must not be empty", errorFields(t, rec)["password"])
}

func TestAuthenticationErrors(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(http.MethodGet, "/api/user", "garbage", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(http.MethodPost, "/api/post", "", map[string]string{"body": "hi"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, app.count(&models.Post{}, ""))
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)
	token := app.register("alice")

	require.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/user", token, nil).Code)
	require.Equal(t, http.StatusOK, app.do(http.MethodPost, "/api/user/logout", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodGet, "/api/user", token, nil).Code)

	rec := app.do(http.MethodPost, "/api/user/login", "", map[string]string{"email": "alice@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		Token string `json:"token"`
	}
	decode(t, rec, &out)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/api/user", out.Token, nil).Code)
}
