package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func postKey(p Post) string { return p.PostID }

func TestReduce(t *testing.T) {
	var s SliceState[Post]

	s = Reduce(s, Action[Post]{Kind: ActionLoading}, postKey)
	assert.True(t, s.Loading)

	s = Reduce(s, Action[Post]{Kind: ActionLoaded, Items: []Post{{PostID: "a"}, {PostID: "b"}}}, postKey)
	assert.False(t, s.Loading)
	assert.Len(t, s.Items, 2)
	assert.False(t, s.RefreshedAt.IsZero())

	s = Reduce(s, Action[Post]{Kind: ActionUpsert, Item: Post{PostID: "b", LikeCount: 3}}, postKey)
	assert.Len(t, s.Items, 2)
	b, ok := s.Find("b", postKey)
	assert.True(t, ok)
	assert.Equal(t, 3, b.LikeCount)

	s = Reduce(s, Action[Post]{Kind: ActionUpsert, Item: Post{PostID: "c"}}, postKey)
	assert.Equal(t, "c", s.Items[0].PostID, "new items go first")

	s = Reduce(s, Action[Post]{Kind: ActionRemove, ID: "a"}, postKey)
	_, ok = s.Find("a", postKey)
	assert.False(t, ok)
	assert.Len(t, s.Items, 2)

	boom := errors.New("boom")
	s = Reduce(s, Action[Post]{Kind: ActionFailed, Err: boom}, postKey)
	assert.Equal(t, boom, s.Err)
	assert.Len(t, s.Items, 2, "a failed load keeps the last items")

	s = Reduce(s, Action[Post]{Kind: ActionLoaded, Items: nil}, postKey)
	assert.NoError(t, s.Err)
	assert.Empty(t, s.Items)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	before := SliceState[Post]{Items: []Post{{PostID: "a"}, {PostID: "b"}}}
	after := Reduce(before, Action[Post]{Kind: ActionUpsert, Item: Post{PostID: "a", Body: "edited"}}, postKey)

	assert.Equal(t, "", before.Items[0].Body)
	assert.Equal(t, "edited", after.Items[0].Body)
}

func TestSliceSnapshotIsolated(t *testing.T) {
	s := NewSlice(postKey)
	s.Dispatch(Action[Post]{Kind: ActionLoaded, Items: []Post{{PostID: "a"}}})

	snap := s.State()
	snap.Items[0].Body = "changed"

	got, ok := s.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "", got.Body)
}

func TestSliceLoadSkipsConcurrentLoad(t *testing.T) {
	s := NewSlice(postKey)
	s.Dispatch(Action[Post]{Kind: ActionLoading})

	called := false
	err := s.load(func() ([]Post, error) {
		called = true
		return nil, nil
	})
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Status: 400, Fields: map[string]string{"body": "Must not be empty"}}
	assert.Equal(t, "api error 400: body: Must not be empty", err.Error())

	err = &APIError{Status: 404, Message: "Post not found"}
	assert.Equal(t, "api error 404: Post not found", err.Error())
}
