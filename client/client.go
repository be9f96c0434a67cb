// Package client is a typed HTTP client for the socialnet API plus a small
// reducer-based state store built on it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Code    int
	Message string
	// Fields holds per-field validation messages when the server sent them.
	Fields map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for k, v := range e.Fields {
			parts = append(parts, k+": "+v)
		}
		return fmt.Sprintf("api error %d: %s", e.Status, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Client struct {
	http *resty.Client

	mu     sync.RWMutex
	token  string
	handle string
}

type Option func(*Client)

// WithToken starts the client already authenticated.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(15 * time.Second).
			SetHeader("Accept", "application/json"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Handle is the handle of the logged in user, when known.
func (c *Client) Handle() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.handle
}

func (c *Client) setSession(token, handle string) {
	c.mu.Lock()
	c.token, c.handle = token, handle
	c.mu.Unlock()
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.request(ctx)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return parseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// list decodes a JSON array, treating a {"message": ...} body as an empty list.
func list[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}

func parseError(resp *resty.Response) error {
	apiErr := &APIError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	var body struct {
		Code    int             `json:"code"`
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return apiErr
	}
	apiErr.Code = body.Code
	if body.Message != "" {
		apiErr.Message = body.Message
	}
	if len(body.Error) > 0 {
		var msg string
		if json.Unmarshal(body.Error, &msg) == nil {
			apiErr.Message = msg
		} else {
			var fields map[string]string
			if json.Unmarshal(body.Error, &fields) == nil {
				apiErr.Fields = fields
				if g, ok := fields["general"]; ok {
					apiErr.Message = g
				}
			}
		}
	}
	return apiErr
}

type messageBody struct {
	Message string `json:"message"`
}

// Register creates an account and keeps the returned token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/user/register", req, &out); err != nil {
		return "", err
	}
	c.setSession(out.Token, req.Handle)
	return out.Token, nil
}

// Login authenticates and keeps the returned token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out struct {
		Token  string `json:"token"`
		Handle string `json:"handle"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/user/login", body, &out); err != nil {
		return "", err
	}
	c.setSession(out.Token, out.Handle)
	return out.Token, nil
}

// Logout revokes the current token and forgets it.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/user/logout", nil, nil); err != nil {
		return err
	}
	c.setSession("", "")
	return nil
}

func (c *Client) Users(ctx context.Context) ([]UserSummary, error) {
	return list[UserSummary](ctx, c, "/api/user/list")
}

func (c *Client) Likes(ctx context.Context) ([]Like, error) {
	return list[Like](ctx, c, "/api/user/like")
}

func (c *Client) Me(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/api/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UserDetail(ctx context.Context, handle string) (*UserDetail, error) {
	var out UserDetail
	if err := c.do(ctx, http.MethodGet, "/api/user/"+handle, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateBio(ctx context.Context, bio BioUpdate) error {
	return c.do(ctx, http.MethodPost, "/api/user", bio, nil)
}

// UploadImage sends r as the multipart "image" field.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) error {
	resp, err := c.request(ctx).SetFileReader("image", filename, r).Post("/api/user/image")
	if err != nil {
		return fmt.Errorf("upload image: %w", err)
	}
	if resp.IsError() {
		return parseError(resp)
	}
	return nil
}

// DeleteAccount removes the logged in user's account.
func (c *Client) DeleteAccount(ctx context.Context) error {
	handle := c.Handle()
	if handle == "" {
		return fmt.Errorf("delete account: unknown handle")
	}
	if err := c.do(ctx, http.MethodDelete, "/api/user/"+handle, nil, nil); err != nil {
		return err
	}
	c.setSession("", "")
	return nil
}

func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	return list[Post](ctx, c, "/api/post")
}

func (c *Client) Post(ctx context.Context, postID string) (*PostDetail, error) {
	var out PostDetail
	if err := c.do(ctx, http.MethodGet, "/api/post/"+postID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePost(ctx context.Context, body string) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodPost, "/api/post", map[string]string{"body": body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.do(ctx, http.MethodDelete, "/api/post/"+postID, nil, nil)
}

// Like returns the post with its updated likeCount.
func (c *Client) Like(ctx context.Context, postID string) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodGet, "/api/post/"+postID+"/like", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Unlike(ctx context.Context, postID string) error {
	var out messageBody
	return c.do(ctx, http.MethodGet, "/api/post/"+postID+"/unlike", nil, &out)
}

func (c *Client) Comments(ctx context.Context, postID string) ([]Comment, error) {
	return list[Comment](ctx, c, "/api/post/"+postID+"/comment")
}

func (c *Client) Comment(ctx context.Context, postID, body string) (*Comment, error) {
	var out Comment
	if err := c.do(ctx, http.MethodPost, "/api/post/"+postID+"/comment", map[string]string{"body": body}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Uncomment(ctx context.Context, postID, commentID string) error {
	return c.do(ctx, http.MethodDelete, "/api/post/"+postID+"/uncomment", map[string]string{"commentId": commentID}, nil)
}

func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	return list[Notification](ctx, c, "/api/user/notification")
}

func (c *Client) MarkRead(ctx context.Context, notificationID string) error {
	return c.do(ctx, http.MethodPost, "/api/user/notification", map[string]string{"notificationId": notificationID}, nil)
}

func (c *Client) DeleteNotification(ctx context.Context, notificationID string) error {
	return c.do(ctx, http.MethodDelete, "/api/user/notification/"+notificationID, nil, nil)
}
