package inmemory

import (
	"context"
	"testing"
	"time"

	"goblog/internal/model"
	"goblog/internal/service"

	"github.com/stretchr/testify/require"
)

func TestCommentStorage_CreateAndList(t *testing.T) {
	t.Parallel()

	_, st, users := newTestStorages(t)
	bob := createTestUser(t, users, "bob")

	ctx := context.Background()

	first, err := st.CreateComment(ctx, model.Comment{PostID: 1, UserID: bob.ID, Body: "first"})
	require.NoError(t, err)
	require.Equal(t, "bob", first.Author)
	require.WithinDuration(t, time.Now(), first.CreatedAt, time.Second)

	second, err := st.CreateComment(ctx, model.Comment{PostID: 1, UserID: bob.ID, Body: "second"})
	require.NoError(t, err)

	_, err = st.CreateComment(ctx, model.Comment{PostID: 2, UserID: bob.ID, Body: "other post"})
	require.NoError(t, err)

	got, err := st.GetCommentsByPost(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// newest first
	require.Equal(t, second.ID, got[0].ID)
	require.Equal(t, first.ID, got[1].ID)
}

func TestCommentStorage_CreateComment_UnknownAuthor(t *testing.T) {
	t.Parallel()

	_, st, _ := newTestStorages(t)

	_, err := st.CreateComment(context.Background(), model.Comment{PostID: 1, UserID: 42, Body: "hi"})
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestCommentStorage_DeleteCommentsByPost(t *testing.T) {
	t.Parallel()

	_, st, users := newTestStorages(t)
	bob := createTestUser(t, users, "bob")

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := st.CreateComment(ctx, model.Comment{PostID: 1, UserID: bob.ID, Body: "hi"})
		require.NoError(t, err)
	}
	kept, err := st.CreateComment(ctx, model.Comment{PostID: 2, UserID: bob.ID, Body: "keep me"})
	require.NoError(t, err)

	require.NoError(t, st.DeleteCommentsByPost(ctx, 1))

	gone, err := st.GetCommentsByPost(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, gone)

	remaining, err := st.GetCommentsByPost(ctx, 2)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, kept.ID, remaining[0].ID)
}
