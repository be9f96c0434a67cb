package client

import (
	"context"
	"sync"
	"time"
)

// ActionKind names a state transition of a Slice.
type ActionKind int

const (
	ActionLoading ActionKind = iota
	ActionLoaded
	ActionFailed
	ActionUpsert
	ActionRemove
)

type Action[T any] struct {
	Kind  ActionKind
	Items []T
	Item  T
	ID    string
	Err   error
}

// SliceState is the observable state of one entity collection.
type SliceState[T any] struct {
	Items       []T
	Loading     bool
	Err         error
	RefreshedAt time.Time
}

// Find returns the item whose key is id.
func (s SliceState[T]) Find(id string, key func(T) string) (T, bool) {
	for _, it := range s.Items {
		if key(it) == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Reduce applies a to s and returns the new state; s is not modified.
func Reduce[T any](s SliceState[T], a Action[T], key func(T) string) SliceState[T] {
	switch a.Kind {
	case ActionLoading:
		s.Loading = true
	case ActionLoaded:
		s.Items = append([]T(nil), a.Items...)
		s.Loading = false
		s.Err = nil
		s.RefreshedAt = time.Now()
	case ActionFailed:
		s.Loading = false
		s.Err = a.Err
		s.RefreshedAt = time.Now()
	case ActionUpsert:
		id := key(a.Item)
		items := make([]T, 0, len(s.Items)+1)
		replaced := false
		for _, it := range s.Items {
			if key(it) == id {
				items = append(items, a.Item)
				replaced = true
				continue
			}
			items = append(items, it)
		}
		if !replaced {
			items = append([]T{a.Item}, items...)
		}
		s.Items = items
	case ActionRemove:
		items := make([]T, 0, len(s.Items))
		for _, it := range s.Items {
			if key(it) != a.ID {
				items = append(items, it)
			}
		}
		s.Items = items
	}
	return s
}

// Slice owns one SliceState and serializes the actions dispatched to it.
type Slice[T any] struct {
	key func(T) string

	mu    sync.RWMutex
	state SliceState[T]
}

func NewSlice[T any](key func(T) string) *Slice[T] {
	return &Slice[T]{key: key}
}

func (s *Slice[T]) Dispatch(a Action[T]) {
	s.mu.Lock()
	s.state = Reduce(s.state, a, s.key)
	s.mu.Unlock()
}

// State returns a snapshot.
func (s *Slice[T]) State() SliceState[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.Items = append([]T(nil), s.state.Items...)
	return st
}

func (s *Slice[T]) Get(id string) (T, bool) {
	return s.State().Find(id, s.key)
}

// begin marks the slice as loading; it reports false when a load is already running.
func (s *Slice[T]) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Loading {
		return false
	}
	s.state = Reduce(s.state, Action[T]{Kind: ActionLoading}, s.key)
	return true
}

func (s *Slice[T]) load(fetch func() ([]T, error)) error {
	if !s.begin() {
		return nil
	}
	items, err := fetch()
	if err != nil {
		s.Dispatch(Action[T]{Kind: ActionFailed, Err: err})
		return err
	}
	s.Dispatch(Action[T]{Kind: ActionLoaded, Items: items})
	return nil
}

// Store keeps one slice per entity and refreshes them after mutations.
type Store struct {
	client *Client

	Users         *Slice[UserSummary]
	Posts         *Slice[Post]
	Comments      *Slice[Comment]
	Notifications *Slice[Notification]
}

func NewStore(c *Client) *Store {
	return &Store{
		client:        c,
		Users:         NewSlice(func(u UserSummary) string { return u.Handle }),
		Posts:         NewSlice(func(p Post) string { return p.PostID }),
		Comments:      NewSlice(func(c Comment) string { return c.CommentID }),
		Notifications: NewSlice(func(n Notification) string { return n.NotificationID }),
	}
}

func (s *Store) RefreshUsers(ctx context.Context) error {
	return s.Users.load(func() ([]UserSummary, error) { return s.client.Users(ctx) })
}

func (s *Store) RefreshPosts(ctx context.Context) error {
	return s.Posts.load(func() ([]Post, error) { return s.client.Posts(ctx) })
}

// RefreshComments loads the comments of one post.
func (s *Store) RefreshComments(ctx context.Context, postID string) error {
	return s.Comments.load(func() ([]Comment, error) { return s.client.Comments(ctx, postID) })
}

func (s *Store) RefreshNotifications(ctx context.Context) error {
	return s.Notifications.load(func() ([]Notification, error) { return s.client.Notifications(ctx) })
}

// refreshPost re-reads one post so its counters match the server.
func (s *Store) refreshPost(ctx context.Context, postID string) error {
	detail, err := s.client.Post(ctx, postID)
	if err != nil {
		return err
	}
	s.Posts.Dispatch(Action[Post]{Kind: ActionUpsert, Item: detail.Post})
	return nil
}

func (s *Store) CreatePost(ctx context.Context, body string) (*Post, error) {
	post, err := s.client.CreatePost(ctx, body)
	if err != nil {
		return nil, err
	}
	s.Posts.Dispatch(Action[Post]{Kind: ActionUpsert, Item: *post})
	return post, nil
}

func (s *Store) DeletePost(ctx context.Context, postID string) error {
	if err := s.client.DeletePost(ctx, postID); err != nil {
		return err
	}
	s.Posts.Dispatch(Action[Post]{Kind: ActionRemove, ID: postID})
	return nil
}

func (s *Store) LikePost(ctx context.Context, postID string) error {
	post, err := s.client.Like(ctx, postID)
	if err != nil {
		return err
	}
	s.Posts.Dispatch(Action[Post]{Kind: ActionUpsert, Item: *post})
	return nil
}

func (s *Store) UnlikePost(ctx context.Context, postID string) error {
	if err := s.client.Unlike(ctx, postID); err != nil {
		return err
	}
	return s.refreshPost(ctx, postID)
}

func (s *Store) CommentOnPost(ctx context.Context, postID, body string) (*Comment, error) {
	comment, err := s.client.Comment(ctx, postID, body)
	if err != nil {
		return nil, err
	}
	s.Comments.Dispatch(Action[Comment]{Kind: ActionUpsert, Item: *comment})
	return comment, s.refreshPost(ctx, postID)
}

func (s *Store) DeleteComment(ctx context.Context, postID, commentID string) error {
	if err := s.client.Uncomment(ctx, postID, commentID); err != nil {
		return err
	}
	s.Comments.Dispatch(Action[Comment]{Kind: ActionRemove, ID: commentID})
	return s.refreshPost(ctx, postID)
}

func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	if err := s.client.MarkRead(ctx, id); err != nil {
		return err
	}
	if n, ok := s.Notifications.Get(id); ok {
		n.Read = true
		s.Notifications.Dispatch(Action[Notification]{Kind: ActionUpsert, Item: n})
	}
	return nil
}

func (s *Store) DeleteNotification(ctx context.Context, id string) error {
	if err := s.client.DeleteNotification(ctx, id); err != nil {
		return err
	}
	s.Notifications.Dispatch(Action[Notification]{Kind: ActionRemove, ID: id})
	return nil
}
