package main

import (
	"bytes"
	"io"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/socialnet/config"
	"github.com/cppla/socialnet/models"
	"github.com/cppla/socialnet/routes"
)

var exportLine = regexp.MustCompile(`export SOCIAL_TOKEN=(\S+)`)

func newServer(t *testing.T) string {
	t.Helper()
	cfg := config.AppConfig{
		JWTSecret:          "cli-secret",
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
	db, err := config.OpenDatabase(cfg, models.All()...)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	srv := httptest.NewServer(routes.SetupRouter(cfg, db, nil))
	t.Cleanup(srv.Close)
	return srv.URL
}

// run executes the root command with stdin and returns what it printed.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(io.Discard)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), err
}

func tokenFrom(t *testing.T, out string) string {
	t.Helper()
	m := exportLine.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	return m[1]
}

func TestCommandsAgainstServer(t *testing.T) {
	server := newServer(t)

	out, err := run(t, "secret1\nsecret1\n", "--server", server, "--token", "", "register", "alice", "alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered alice")
	alice := tokenFrom(t, out)

	out, err = run(t, "secret1\nsecret1\n", "--server", server, "--token", "", "register", "bob", "bob@example.com")
	require.NoError(t, err)
	bob := tokenFrom(t, out)

	out, err = run(t, "", "--server", server, "--token", "", "posts")
	require.NoError(t, err)
	assert.Contains(t, out, "No posts yet")

	out, err = run(t, "", "--server", server, "--token", alice, "post", "create", "hello", "from", "the", "cli")
	require.NoError(t, err)
	m := regexp.MustCompile(`Created post (\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	postID := m[1]

	out, err = run(t, "", "--server", server, "--token", bob, "like", postID)
	require.NoError(t, err)
	assert.Contains(t, out, "1 likes now")

	_, err = run(t, "", "--server", server, "--token", bob, "like", postID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Post already liked")

	out, err = run(t, "", "--server", server, "--token", bob, "comment", postID, "nice", "one")
	require.NoError(t, err)
	assert.Contains(t, out, "Commented")

	out, err = run(t, "", "--server", server, "--token", "", "post", "show", postID)
	require.NoError(t, err)
	assert.Contains(t, out, "hello from the cli")
	assert.Contains(t, out, "nice one")

	out, err = run(t, "", "--server", server, "--token", "", "posts")
	require.NoError(t, err)
	assert.Contains(t, out, "@alice")

	out, err = run(t, "", "--server", server, "--token", alice, "notifications")
	require.NoError(t, err)
	assert.Contains(t, out, "@bob")
	assert.Contains(t, out, "like")
	assert.Contains(t, out, "comment")

	out, err = run(t, "", "--server", server, "--token", "", "users")
	require.NoError(t, err)
	assert.Contains(t, out, "@alice")
	assert.Contains(t, out, "@bob")

	out, err = run(t, "", "--server", server, "--token", bob, "unlike", postID)
	require.NoError(t, err)
	assert.Contains(t, out, "Unliked")

	_, err = run(t, "", "--server", server, "--token", bob, "post", "delete", postID)
	require.Error(t, err, "only the author may delete")

	out, err = run(t, "", "--server", server, "--token", alice, "post", "delete", postID)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted post "+postID)

	out, err = run(t, "", "--server", server, "--token", alice, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
}

func TestLoginPromptsForPassword(t *testing.T) {
	server := newServer(t)
	_, err := run(t, "secret1\nsecret1\n", "--server", server, "--token", "", "register", "carol", "carol@example.com")
	require.NoError(t, err)

	out, err := run(t, "carol@example.com\nsecret1\n", "--server", server, "--token", "", "login")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenFrom(t, out))

	_, err = run(t, "wrong-password\n", "--server", server, "--token", "", "login", "carol@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Wrong credentials")
}

func TestCommandsRequireToken(t *testing.T) {
	for _, args := range [][]string{
		{"post", "create", "hi"},
		{"like", "p1"},
		{"notifications"},
		{"logout"},
	} {
		_, err := run(t, "", append([]string{"--server", "http://127.0.0.1:1", "--token", ""}, args...)...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "not logged in", args)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "line one…", truncate("line one\nline two", 9))
}
